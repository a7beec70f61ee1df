package mapper

import (
	"reflect"

	"github.com/antonsamarsky/emitmapper-tools/internal/analyze"
	"github.com/antonsamarsky/emitmapper-tools/internal/common"
)

// strategy describes how values of a type pair are transferred.
type strategy int

const (
	// strategyAssign - assign the source value as is.
	strategyAssign strategy = iota
	// strategyCoerce - convert through the coercion service.
	strategyCoerce
	// strategyOperations - construct the destination and run the configured operations.
	strategyOperations
	// strategyPointer - map the pointees into a new or existing pointer.
	strategyPointer
	// strategyPointerDeref - map the pointee of the source.
	strategyPointerDeref
	// strategyPointerWrap - map into the pointee of a new or existing pointer.
	strategyPointerWrap
	// strategySliceMap - build a new sequence mapping every element.
	strategySliceMap
	// strategyMap - build a new map mapping every key and value.
	strategyMap
	// strategyInterface - map the dynamic value.
	strategyInterface
)

func (s strategy) String() string {
	switch s {
	case strategyAssign:
		return "assign"
	case strategyCoerce:
		return "coerce"
	case strategyOperations:
		return "operations"
	case strategyPointer:
		return "pointer"
	case strategyPointerDeref:
		return "pointer deref"
	case strategyPointerWrap:
		return "pointer wrap"
	case strategySliceMap:
		return "slice map"
	case strategyMap:
		return "map"
	case strategyInterface:
		return "interface"
	default:
		return common.UnknownStr
	}
}

// determineStrategy picks the strategy for values of src mapped to dst.
func determineStrategy(src, dst reflect.Type) strategy {
	srcKind, dstKind := analyze.KindOf(src), analyze.KindOf(dst)

	switch {
	case srcKind == analyze.TypeKindInterface:
		return strategyInterface

	case dstKind == analyze.TypeKindInterface:
		if !analyze.IsComplex(src) && src.AssignableTo(dst) {
			return strategyAssign
		}

		return strategyInterface

	case srcKind == analyze.TypeKindPointer && dstKind == analyze.TypeKindPointer:
		return strategyPointer

	case srcKind == analyze.TypeKindPointer:
		return strategyPointerDeref

	case dstKind == analyze.TypeKindPointer:
		return strategyPointerWrap

	case composite(srcKind, dstKind):
		return strategyOperations

	case isSequence(srcKind) && isSequence(dstKind):
		return strategySliceMap

	case srcKind == analyze.TypeKindMap && dstKind == analyze.TypeKindMap:
		return strategyMap

	case src.AssignableTo(dst) && !analyze.IsComplex(dst):
		return strategyAssign

	default:
		return strategyCoerce
	}
}

// composite reports whether a pair is mapped member by member: one side is a
// struct and the other one is a struct or a map.
func composite(src, dst analyze.TypeKind) bool {
	if src != analyze.TypeKindStruct && dst != analyze.TypeKindStruct {
		return false
	}

	for _, k := range []analyze.TypeKind{src, dst} {
		switch k {
		case analyze.TypeKindStruct, analyze.TypeKindMap:
		default:
			return false
		}
	}

	return true
}

func isSequence(k analyze.TypeKind) bool {
	return k == analyze.TypeKindSlice || k == analyze.TypeKindArray
}
