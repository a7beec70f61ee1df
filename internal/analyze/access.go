package analyze

import (
	"reflect"
)

// Get reads the member from v, which may be the owner value or a pointer to it.
// It returns false when a nil pointer is crossed on the way.
func (m Member) Get(v reflect.Value) (reflect.Value, bool) {
	v, ok := indirect(v)
	if !ok {
		return reflect.Value{}, false
	}

	if m.Kind == MemberProperty {
		if m.getter == "" {
			return reflect.Value{}, false
		}

		fn := method(v, m.getter)
		if !fn.IsValid() {
			return reflect.Value{}, false
		}

		return fn.Call(nil)[0], true
	}

	for i, idx := range m.Index {
		if i > 0 {
			if v, ok = indirect(v); !ok {
				return reflect.Value{}, false
			}
		}

		v = v.Field(idx)
	}

	return v, true
}

// Set writes x into the member of v. v must be addressable or a non-nil pointer.
// Nil embedded pointers on the way are allocated. It returns false when the
// member cannot be written.
func (m Member) Set(v reflect.Value, x reflect.Value) bool {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}

	if m.Kind == MemberProperty {
		if m.setter == "" || !v.CanAddr() {
			return false
		}

		fn := v.Addr().MethodByName(m.setter)
		if !fn.IsValid() {
			return false
		}

		fn.Call([]reflect.Value{x})

		return true
	}

	for i, idx := range m.Index {
		if i > 0 {
			for v.Kind() == reflect.Ptr {
				if v.IsNil() {
					if !v.CanSet() {
						return false
					}
					v.Set(reflect.New(v.Type().Elem()))
				}
				v = v.Elem()
			}
		}

		v = v.Field(idx)
	}

	if !v.CanSet() {
		return false
	}

	v.Set(x)

	return true
}

// Ref returns an addressable reference to a field member so nested values can be
// populated in place. Properties have no reference.
func (m Member) Ref(v reflect.Value) (reflect.Value, bool) {
	if m.Kind == MemberProperty {
		return reflect.Value{}, false
	}

	ref, ok := m.Get(v)
	if !ok || !ref.CanSet() {
		return reflect.Value{}, false
	}

	return ref, true
}

func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}

	return v, v.IsValid()
}

// method finds a method by name on v, falling back to the pointer receiver.
func method(v reflect.Value, name string) reflect.Value {
	if fn := v.MethodByName(name); fn.IsValid() {
		return fn
	}

	if v.CanAddr() {
		return v.Addr().MethodByName(name)
	}

	p := reflect.New(v.Type())
	p.Elem().Set(v)

	return p.MethodByName(name)
}
