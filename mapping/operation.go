package mapping

import (
	"reflect"
)

// Configurator produces the mapping operations for a type pair.
//
// Name identifies the configuration in mapper caches: two configurators with
// equal names must produce equivalent operations for every pair.
type Configurator interface {
	Name() string
	Operations(src, dst reflect.Type) ([]Operation, error)
	RootOperation(src, dst reflect.Type) *RootOperation
}

// Operation is one unit of transfer from a source value to a destination value.
// The implementations are ReadWrite, DestWrite and SrcRead.
type Operation interface {
	operation()
}

// ReadWrite copies the value at Source into Destination.
type ReadWrite struct {
	Source      MemberPath
	Destination MemberPath
	// ShallowCopy assigns complex values by reference instead of mapping them.
	ShallowCopy bool
	// Converter, when set, replaces coercion and nested mapping.
	Converter *Converter
	// NullSubstitutor, when set, produces the value written for a nil source.
	NullSubstitutor NullSubstitutor
}

// DestWrite computes the Destination value from the whole source instance.
// Getter receives the source value and the caller state; ok=false skips the write.
type DestWrite struct {
	Destination MemberPath
	Getter      func(src any, state any) (value any, ok bool)
}

// SrcRead hands the value at Source to Setter together with the destination.
// Setter receives the destination by pointer when it is not already one.
type SrcRead struct {
	Source MemberPath
	Setter func(dst any, value any, state any)
}

func (*ReadWrite) operation() {}
func (*DestWrite) operation() {}
func (*SrcRead) operation()   {}

// Converter converts values of From into values of To.
// The function returns ok=false to skip the write.
type Converter struct {
	From reflect.Type
	To   reflect.Type
	Fn   func(v reflect.Value) (out reflect.Value, ok bool, err error)
}

// Applies reports whether the converter accepts values of src.
func (c *Converter) Applies(src reflect.Type) bool {
	if c == nil || src == nil {
		return false
	}

	if c.From.Kind() == reflect.Interface {
		return src.Implements(c.From)
	}

	return src == c.From || src.AssignableTo(c.From)
}

// NullSubstitutor produces a replacement for a nil source value. src is the nil
// value itself, typed as the source type.
type NullSubstitutor func(src reflect.Value, state any) reflect.Value

// Constructor creates a fresh destination value.
type Constructor func() reflect.Value

// PostProcessor receives a fully mapped value and returns the value to store.
type PostProcessor func(v reflect.Value, state any) reflect.Value

// RootOperation holds the settings that apply to a whole value of a pair,
// both at the root and wherever the pair is reached by nested mapping.
type RootOperation struct {
	Converter       *Converter
	NullSubstitutor NullSubstitutor
	Constructor     Constructor
	PostProcessor   PostProcessor
	ShallowCopy     bool
}

// IsZero reports whether r carries no setting.
func (r *RootOperation) IsZero() bool {
	return r == nil || (r.Converter == nil && r.NullSubstitutor == nil &&
		r.Constructor == nil && r.PostProcessor == nil && !r.ShallowCopy)
}
