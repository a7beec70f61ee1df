package domain

import (
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/internal/analyze"
	"github.com/antonsamarsky/emitmapper-tools/internal/coerce"
	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/utils"
)

type fieldWriter func(dst any, name string, fd mapping.FieldDescriptor, value any)

type fieldReader func(src any, fd mapping.FieldDescriptor, member mapping.Member) (any, bool)

func registry(r *mapping.Registry) *mapping.Registry {
	if r == nil {
		return mapping.DefaultRegistry()
	}

	return r
}

func service(s *coerce.Service) *coerce.Service {
	if s == nil {
		return coerce.Default()
	}

	return s
}

// identity names the descriptor source and the coercion service a configurator
// works with; configurators sharing both produce the same operations.
func identity(r *mapping.Registry, s *coerce.Service) string {
	return fmt.Sprintf("%s:%p", registry(r).ID(), service(s))
}

// sourceReads produces one SrcRead per described readable member of src. The
// value is handed to write once for every field name of the member.
func sourceReads(reg *mapping.Registry, src reflect.Type, write fieldWriter) ([]mapping.Operation, error) {
	_, src = utils.PtrDepthAndBase(src)
	if analyze.KindOf(src) != analyze.TypeKindStruct {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s is not a struct", common.TypeName(src))
	}

	descs, err := reg.Describe(src)
	if err != nil {
		return nil, err
	}

	ops := make([]mapping.Operation, 0, len(descs))

	for _, desc := range descs {
		if !desc.Member.CanRead {
			continue
		}

		fields := desc.Fields
		ops = append(ops, &mapping.SrcRead{
			Source: mapping.PathOf(desc.Member),
			Setter: func(dst any, value any, _ any) {
				if utils.IsNil(reflect.ValueOf(value)) {
					return
				}

				for _, fd := range fields {
					write(dst, fd.Name, fd, value)
				}
			},
		})
	}

	return ops, nil
}

// destinationWrites produces one DestWrite per described writable member of dst,
// reading the first field name of the member.
func destinationWrites(reg *mapping.Registry, dst reflect.Type, read fieldReader) ([]mapping.Operation, error) {
	_, dst = utils.PtrDepthAndBase(dst)
	if analyze.KindOf(dst) != analyze.TypeKindStruct {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s is not a struct", common.TypeName(dst))
	}

	descs, err := reg.Describe(dst)
	if err != nil {
		return nil, err
	}

	ops := make([]mapping.Operation, 0, len(descs))

	for _, desc := range descs {
		if !desc.Member.CanWrite || len(desc.Fields) == 0 {
			continue
		}

		member, fd := desc.Member, desc.Fields[0]
		ops = append(ops, &mapping.DestWrite{
			Destination: mapping.PathOf(member),
			Getter: func(src any, _ any) (any, bool) {
				return read(src, fd, member)
			},
		})
	}

	return ops, nil
}

// construct adapts a freshly created value to dst, which is either the value's
// type, its pointer type or its element type.
func construct(dst reflect.Type, v reflect.Value) reflect.Value {
	switch {
	case v.Type() == dst:
		return v
	case dst.Kind() == reflect.Ptr && dst.Elem() == v.Type():
		p := reflect.New(v.Type())
		p.Elem().Set(v)

		return p
	case v.Kind() == reflect.Ptr && v.Type().Elem() == dst:
		return v.Elem()
	default:
		return reflect.Zero(dst)
	}
}
