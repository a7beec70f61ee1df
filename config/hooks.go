package config

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/mapping"
)

var ErrInvalidHook = errors.New("provided function does not have a supported hook signature")

// hook is a parsed null substitution, post-processing or construction function.
type hook struct {
	fn        reflect.Value
	src       reflect.Type // source type of func(S) D null substitutions
	dst       reflect.Type
	withState bool
	ident     string
}

func newHook(fn any, what string) (hook, reflect.Type, error) {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func || fv.IsNil() {
		return hook{}, nil, errors.Wrap(ErrNotAFunction, what)
	}

	ft := fv.Type()
	if ft.NumOut() != 1 || ft.IsVariadic() {
		return hook{}, nil, errors.Wrapf(ErrInvalidHook, "%s: %s", what, ft)
	}

	alias, name := funcName(fv)

	return hook{fn: fv, dst: ft.Out(0), ident: alias + "." + name}, ft, nil
}

func parseNullSubstitution(fn any) (hook, error) {
	h, ft, err := newHook(fn, "NullSubstitution")
	if err != nil {
		return hook{}, err
	}

	switch {
	case ft.NumIn() == 0:
	case ft.NumIn() == 1 && ft.In(0) == anyType:
		h.withState = true
	case ft.NumIn() == 1:
		h.src = deref(ft.In(0))
	default:
		return hook{}, errors.Wrapf(ErrInvalidHook, "NullSubstitution: %s", ft)
	}

	return h, nil
}

func parsePostProcess(fn any) (hook, error) {
	h, ft, err := newHook(fn, "PostProcess")
	if err != nil {
		return hook{}, err
	}

	if ft.NumIn() != 2 || ft.In(0) != h.dst || ft.In(1) != anyType {
		return hook{}, errors.Wrapf(ErrInvalidHook, "PostProcess: %s, want func(D, any) D", ft)
	}

	h.withState = true

	return h, nil
}

func parseConstructor(fn any) (hook, error) {
	h, ft, err := newHook(fn, "ConstructBy")
	if err != nil {
		return hook{}, err
	}

	if ft.NumIn() != 0 {
		return hook{}, errors.Wrapf(ErrInvalidHook, "ConstructBy: %s, want func() D", ft)
	}

	return h, nil
}

func stateValue(state any) reflect.Value {
	return reflect.ValueOf(&state).Elem()
}

// substitutor adapts a null substitution producing h.dst to the destination type.
func (h hook) substitutor(dst reflect.Type) mapping.NullSubstitutor {
	call := func(src reflect.Value, state any) reflect.Value {
		ft := h.fn.Type()

		switch {
		case ft.NumIn() == 0:
			return h.fn.Call(nil)[0]
		case h.withState:
			return h.fn.Call([]reflect.Value{stateValue(state)})[0]
		default:
			if !src.IsValid() || !src.Type().AssignableTo(ft.In(0)) {
				src = reflect.Zero(ft.In(0))
			}

			return h.fn.Call([]reflect.Value{src})[0]
		}
	}

	if dst == h.dst {
		return call
	}

	// dst is *D
	return func(src reflect.Value, state any) reflect.Value {
		p := reflect.New(h.dst)
		p.Elem().Set(call(src, state))

		return p
	}
}

// postProcessor adapts a func(D, any) D hook to dst, which is D or *D.
func (h hook) postProcessor(dst reflect.Type) mapping.PostProcessor {
	if dst == h.dst {
		return func(v reflect.Value, state any) reflect.Value {
			return h.fn.Call([]reflect.Value{v, stateValue(state)})[0]
		}
	}

	return func(v reflect.Value, state any) reflect.Value {
		if v.IsNil() {
			return v
		}

		v.Elem().Set(h.fn.Call([]reflect.Value{v.Elem(), stateValue(state)})[0])

		return v
	}
}

// constructor adapts a func() D hook to dst, which is D or *D.
func (h hook) constructor(dst reflect.Type) mapping.Constructor {
	if dst == h.dst {
		return func() reflect.Value {
			return h.fn.Call(nil)[0]
		}
	}

	if dst.Kind() == reflect.Ptr && dst.Elem() == h.dst {
		return func() reflect.Value {
			p := reflect.New(h.dst)
			p.Elem().Set(h.fn.Call(nil)[0])

			return p
		}
	}

	// h.dst is *D and dst is D
	return func() reflect.Value {
		out := h.fn.Call(nil)[0]
		if out.IsNil() {
			return reflect.Zero(dst)
		}

		return out.Elem()
	}
}
