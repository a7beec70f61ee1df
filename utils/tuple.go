package utils

import "reflect"

func Second[T any](_ any, t T) T { return t }

func Unpack2[Slice ~[]T, T any](s Slice) (first T, second T) {
	switch len(s) {
	default:
		return s[0], s[1]
	case 0:
		return
	case 1:
		first = s[0]
		return
	}
}

// PtrDepthAndBase returns the pointer depth and the final base type.
func PtrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for base != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return
}
