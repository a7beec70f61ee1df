package analyze

import (
	"reflect"

	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/primitive"
)

// TypeKind represents how the mapper treats a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, time.Time, uuid.UUID, enums, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // map type
	TypeKindInterface          // interface type
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	default:
		return common.UnknownStr
	}
}

// KindOf classifies t. Types known to the primitive package are basic even when
// their reflect kind is struct (time.Time) or array (uuid.UUID).
func KindOf(t reflect.Type) TypeKind {
	if t == nil {
		return TypeKindUnknown
	}

	if primitive.FromReflectType(t) != 0 {
		return TypeKindBasic
	}

	switch t.Kind() {
	case reflect.Ptr:
		return TypeKindPointer
	case reflect.Struct:
		return TypeKindStruct
	case reflect.Slice:
		return TypeKindSlice
	case reflect.Array:
		return TypeKindArray
	case reflect.Map:
		return TypeKindMap
	case reflect.Interface:
		return TypeKindInterface
	case reflect.Bool, reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return TypeKindBasic
	default:
		return TypeKindUnknown
	}
}

// IsComplex reports whether values of t are mapped member by member or element by
// element rather than coerced.
func IsComplex(t reflect.Type) bool {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch KindOf(t) {
	case TypeKindStruct, TypeKindSlice, TypeKindArray, TypeKindMap:
		return true
	default:
		return false
	}
}

// MemberKind tells fields and method properties apart.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberProperty
)

func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberProperty:
		return "property"
	default:
		return common.UnknownStr
	}
}

// Member describes one mappable member of a struct type.
type Member struct {
	Name     string            // Go name (property names drop the Get/Set prefix)
	Type     reflect.Type      // declared value type
	Owner    reflect.Type      // struct type the member was enumerated from
	Kind     MemberKind        // field or property
	CanRead  bool              // readable through Get
	CanWrite bool              // writable through Set
	Tag      reflect.StructTag // raw struct tag, empty for properties
	Index    []int             // field index path for FieldByIndex-style access

	getter string
	setter string
}

// HasTag returns true if the member has the specified tag.
func (m Member) HasTag(key string) bool {
	_, ok := m.Tag.Lookup(key)
	return ok
}

// String renders the member as Owner.Name.
func (m Member) String() string {
	return common.TypeName(m.Owner) + "." + m.Name
}

// Names lists member names in order.
func Names(members []Member) []string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}

	return names
}
