package common

import (
	"path"
	"reflect"
	"strconv"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// TypeName renders t as "alias.Name", keeping pointer, slice and map decorations.
// Unnamed composite types fall back to reflect's own formatting.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			return "[]" + TypeName(t.Elem())
		}
	case reflect.Map:
		if t.Name() == "" {
			return "map[" + TypeName(t.Key()) + "]" + TypeName(t.Elem())
		}
	}

	if t.Name() == "" {
		return t.String()
	}

	if alias := PkgAlias(t.PkgPath()); alias != "" {
		return alias + "." + t.Name()
	}

	return t.Name()
}

// PairName renders a source/destination type pair, e.g. "store.Order->warehouse.Order".
func PairName(src, dst reflect.Type) string {
	return TypeName(src) + "->" + TypeName(dst)
}

// QualifiedName renders t with full package paths, e.g. "*example.com/store.Order".
func QualifiedName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + QualifiedName(t.Elem())
	case reflect.Slice:
		if t.Name() == "" {
			return "[]" + QualifiedName(t.Elem())
		}
	case reflect.Array:
		if t.Name() == "" {
			return "[" + strconv.Itoa(t.Len()) + "]" + QualifiedName(t.Elem())
		}
	case reflect.Map:
		if t.Name() == "" {
			return "map[" + QualifiedName(t.Key()) + "]" + QualifiedName(t.Elem())
		}
	}

	if t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}
