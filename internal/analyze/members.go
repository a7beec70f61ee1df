package analyze

import (
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Introspector enumerates and caches the members of types.
type Introspector struct {
	cache sync.Map // reflect.Type -> []Member
}

// New creates an isolated Introspector with its own cache.
func New() *Introspector {
	return &Introspector{}
}

var defaultIntrospector = New()

// Default returns the process-wide Introspector.
func Default() *Introspector {
	return defaultIntrospector
}

// Members returns the mappable members of t in declaration order, fields first.
// Pointer types are dereferenced; non-struct types have no members.
func (in *Introspector) Members(t reflect.Type) []Member {
	if t == nil {
		return nil
	}

	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if cached, ok := in.cache.Load(t); ok {
		return cached.([]Member)
	}

	members := collectMembers(t)
	actual, _ := in.cache.LoadOrStore(t, members)

	return actual.([]Member)
}

// Lookup finds a member by exact name.
func (in *Introspector) Lookup(t reflect.Type, name string) (Member, bool) {
	for _, m := range in.Members(t) {
		if m.Name == name {
			return m, true
		}
	}

	return Member{}, false
}

// Readable returns the members that can be read.
func (in *Introspector) Readable(t reflect.Type) []Member {
	return filter(in.Members(t), func(m Member) bool { return m.CanRead })
}

// Writable returns the members that can be written.
func (in *Introspector) Writable(t reflect.Type) []Member {
	return filter(in.Members(t), func(m Member) bool { return m.CanWrite })
}

// Members uses the default Introspector.
func Members(t reflect.Type) []Member { return defaultIntrospector.Members(t) }

// Lookup uses the default Introspector.
func Lookup(t reflect.Type, name string) (Member, bool) { return defaultIntrospector.Lookup(t, name) }

// Readable uses the default Introspector.
func Readable(t reflect.Type) []Member { return defaultIntrospector.Readable(t) }

// Writable uses the default Introspector.
func Writable(t reflect.Type) []Member { return defaultIntrospector.Writable(t) }

func filter(members []Member, keep func(Member) bool) []Member {
	res := make([]Member, 0, len(members))
	for _, m := range members {
		if keep(m) {
			res = append(res, m)
		}
	}

	return res
}

func collectMembers(t reflect.Type) []Member {
	if t.Kind() != reflect.Struct {
		return nil
	}

	var (
		members  []Member
		seen     = map[string]struct{}{}
		private  = map[string]struct{}{}
		promoted = map[string]struct{}{}
	)

	for _, f := range reflect.VisibleFields(t) {
		if len(f.Index) == 1 && !f.IsExported() {
			private[f.Name] = struct{}{}
		}

		if !f.IsExported() || f.Name == "_" {
			continue
		}

		// embedded structs contribute their promoted fields, not themselves
		if f.Anonymous && isStructLike(f.Type) {
			promoted[f.Name] = struct{}{}
			continue
		}

		seen[f.Name] = struct{}{}
		members = append(members, Member{
			Name:     f.Name,
			Type:     f.Type,
			Owner:    t,
			Kind:     MemberField,
			CanRead:  true,
			CanWrite: true,
			Tag:      f.Tag,
			Index:    f.Index,
		})
	}

	return append(members, collectProperties(t, seen, private)...)
}

func collectProperties(t reflect.Type, seen, private map[string]struct{}) []Member {
	ptr := reflect.PointerTo(t)

	var (
		order []string
		props = map[string]*Member{}
	)

	property := func(name string) *Member {
		if p, ok := props[name]; ok {
			return p
		}

		p := &Member{Name: name, Owner: t, Kind: MemberProperty}
		props[name] = p
		order = append(order, name)

		return p
	}

	for i := range ptr.NumMethod() {
		method := ptr.Method(i)
		mt := method.Type // receiver is In(0)

		switch {
		case mt.NumIn() == 1 && mt.NumOut() == 1:
			name, ok := getterName(method.Name, private)
			if !ok {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}

			p := property(name)
			if p.setter != "" && p.Type != mt.Out(0) {
				continue
			}
			p.getter, p.Type, p.CanRead = method.Name, mt.Out(0), true

		case mt.NumIn() == 2 && mt.NumOut() == 0 && strings.HasPrefix(method.Name, "Set") && len(method.Name) > 3:
			name := method.Name[3:]
			if _, dup := seen[name]; dup {
				continue
			}

			p := property(name)
			if p.getter != "" && p.Type != mt.In(1) {
				continue
			}
			p.setter, p.Type, p.CanWrite = method.Name, mt.In(1), true
		}
	}

	res := make([]Member, 0, len(order))
	for _, name := range order {
		res = append(res, *props[name])
	}

	return res
}

// getterName accepts GetName() and Name() when an unexported field "name" backs it.
func getterName(method string, private map[string]struct{}) (string, bool) {
	if strings.HasPrefix(method, "Get") && len(method) > 3 {
		return method[3:], true
	}

	if _, ok := private[lowerFirst(method)]; ok {
		return method, true
	}

	return "", false
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToLower(r)) + s[size:]
}

func isStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct && KindOf(t) == TypeKindStruct
}
