package config

import (
	"path"
	"reflect"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/utils"
)

var (
	ErrInvalidConverter = errors.New("provided function is not a recognizable converter")
	ErrNotAFunction     = errors.New("provided converter is not a function")
	ErrDoublePointer    = errors.New("converter function does not support double pointers")
)

var (
	errorType = reflect.TypeFor[error]()
	anyType   = reflect.TypeFor[any]()
)

// Caster describes a user conversion function.
type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasBool      bool
	HasErr       bool

	fn reflect.Value
}

// ParseCaster inspects the provided function and returns a Caster if it is a
// valid conversion function.
//
// Supports signatures:
//   - func(src S) (dst D)
//   - func(src S) (dst D, bool)
//   - func(src S) (dst D, error)
//   - func(src S) (dst D, bool, error)
//
// With S == any the converter accepts every source type.
func ParseCaster(fn any) (Caster, error) {
	fnVal := reflect.ValueOf(fn)
	if !fnVal.IsValid() || fnVal.Kind() != reflect.Func || fnVal.IsNil() {
		return Caster{}, ErrNotAFunction
	}

	fnType := fnVal.Type()
	if fnType.NumIn() != 1 || fnType.NumOut() == 0 || fnType.IsVariadic() {
		return Caster{}, ErrInvalidConverter
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Ptr && dst.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	alias, name := funcName(fnVal)

	caster := Caster{
		Src:          src,
		Dst:          dst,
		Name:         name,
		PackageAlias: alias,
		fn:           fnVal,
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrInvalidConverter

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrInvalidConverter
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}

		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrInvalidConverter
		}

		caster.HasBool = true
		caster.HasErr = true

		return caster, nil
	}
}

// Ident identifies the function in configuration names.
func (c Caster) Ident() string {
	return c.PackageAlias + "." + c.Name
}

// Call runs the function on v. ok is false when the function reported false.
func (c Caster) Call(v reflect.Value) (reflect.Value, bool, error) {
	if !v.IsValid() {
		v = reflect.Zero(c.Src)
	}

	out := c.fn.Call([]reflect.Value{v})

	ok := true
	if c.HasBool {
		ok = out[1].Bool()
	}

	if c.HasErr {
		if err, _ := out[len(out)-1].Interface().(error); err != nil {
			return reflect.Value{}, false, err
		}
	}

	return out[0], ok, nil
}

// Converter adapts the caster to the mapping model.
func (c Caster) Converter() *mapping.Converter {
	return &mapping.Converter{From: c.Src, To: c.Dst, Fn: c.Call}
}

func funcName(fn reflect.Value) (alias, name string) {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return "", "anonymous"
	}

	// "example.com/pkg.Name" splits after the last slash of the import path
	dir, base := path.Split(f.Name())
	pkg, name := utils.Unpack2(strings.SplitN(base, ".", 2))

	return utils.Second(path.Split(strings.TrimSuffix(dir+pkg, "/"))), name
}

func isError(t reflect.Type) bool {
	return t != nil && t.Implements(errorType)
}
