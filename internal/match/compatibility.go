package match

import (
	"reflect"

	"github.com/antonsamarsky/emitmapper-tools/primitive"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means no conversion is known for the pair.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means the pair needs a nested mapper, a primitive conversion or a converter.
	TypeNeedsTransform
	// TypeConvertible means reflect can convert the source into the target.
	TypeConvertible
	// TypeAssignable means the source can be assigned to the target directly.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string
}

// ScoreTypeCompatibility classifies how a value of source can reach target.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	switch {
	case source == nil || target == nil:
		return TypeCompatibilityResult{TypeIncompatible, "type information unavailable"}
	case source == target:
		return TypeCompatibilityResult{TypeIdentical, "types are identical"}
	case source.AssignableTo(target):
		return TypeCompatibilityResult{TypeAssignable, "source is assignable to target"}
	}

	srcKind, dstKind := primitive.FromReflectType(source), primitive.FromReflectType(target)
	if srcKind != 0 && dstKind != 0 {
		if primitive.CategoryOf(primitive.ConversionPair{From: srcKind, To: dstKind}) != primitive.CategoryNone {
			return TypeCompatibilityResult{TypeNeedsTransform, "primitive conversion " + srcKind.String() + " to " + dstKind.String()}
		}
	}

	if sameFamily(source, target) && source.ConvertibleTo(target) {
		return TypeCompatibilityResult{TypeConvertible, "source is convertible to target"}
	}

	if isComposite(source) && isComposite(target) {
		return TypeCompatibilityResult{TypeNeedsTransform, "nested mapping of composite types"}
	}

	if source.Kind() == reflect.Ptr && target.Kind() != reflect.Ptr {
		inner := ScoreTypeCompatibility(source.Elem(), target)
		if inner.Compatibility > TypeIncompatible {
			return TypeCompatibilityResult{TypeNeedsTransform, "dereference, then " + inner.Reason}
		}
	}

	if target.Kind() == reflect.Ptr && source.Kind() != reflect.Ptr {
		inner := ScoreTypeCompatibility(source, target.Elem())
		if inner.Compatibility > TypeIncompatible {
			return TypeCompatibilityResult{TypeNeedsTransform, "allocate, then " + inner.Reason}
		}
	}

	return TypeCompatibilityResult{TypeIncompatible, "no conversion between " + source.String() + " and " + target.String()}
}

// sameFamily keeps reflect conversions that would change meaning (int to string) out.
// Composite kinds have no family: the mapper never converts them with reflect.
func sameFamily(a, b reflect.Type) bool {
	return family(a.Kind()) != 0 && family(a.Kind()) == family(b.Kind())
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	case reflect.Complex64, reflect.Complex128:
		return 4
	default:
		return 0
	}
}

func isComposite(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map, reflect.Interface:
		return primitive.FromReflectType(t) == 0
	default:
		return false
	}
}
