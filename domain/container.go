package domain

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/internal/coerce"
	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/table"
)

// ObjectToContainer maps objects to a table.Container. It follows EntityToTable
// but stores the string form of every converted value.
type ObjectToContainer struct {
	Descriptors *mapping.Registry
	Coercion    *coerce.Service
}

var _ mapping.Configurator = ObjectToContainer{}

// WithCoercion returns c converting with svc unless it already has a service.
func (c ObjectToContainer) WithCoercion(svc *coerce.Service) mapping.Configurator {
	if c.Coercion == nil {
		c.Coercion = svc
	}

	return c
}

func (c ObjectToContainer) Name() string {
	return "object-to-container:" + identity(c.Descriptors, c.Coercion)
}

func (c ObjectToContainer) Operations(src, dst reflect.Type) ([]mapping.Operation, error) {
	if !isContainer(dst) {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s is not a container", common.TypeName(dst))
	}

	svc := service(c.Coercion)

	return sourceReads(registry(c.Descriptors), src, func(dst any, name string, fd mapping.FieldDescriptor, value any) {
		ctr, _ := dst.(*table.Container)
		if ctr == nil || ctr.Has(name) {
			return
		}

		out, ok := toDeclared(svc, value, fd.Type)
		if !ok {
			return
		}

		if s, ok := svc.ConvertValue(out, stringType); ok {
			ctr.Add(name, s.(string))
		}
	})
}

func (c ObjectToContainer) RootOperation(_, dst reflect.Type) *mapping.RootOperation {
	return &mapping.RootOperation{Constructor: func() reflect.Value {
		return construct(dst, reflect.ValueOf(table.NewContainer()))
	}}
}

// ContainerToObject maps a table.Container to objects. Stored strings are parsed
// as the declared field type, then converted to the member type.
type ContainerToObject struct {
	Descriptors *mapping.Registry
	Coercion    *coerce.Service
}

var _ mapping.Configurator = ContainerToObject{}

// WithCoercion returns c converting with svc unless it already has a service.
func (c ContainerToObject) WithCoercion(svc *coerce.Service) mapping.Configurator {
	if c.Coercion == nil {
		c.Coercion = svc
	}

	return c
}

func (c ContainerToObject) Name() string {
	return "container-to-object:" + identity(c.Descriptors, c.Coercion)
}

func (c ContainerToObject) Operations(src, dst reflect.Type) ([]mapping.Operation, error) {
	if !isContainer(src) {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s is not a container", common.TypeName(src))
	}

	svc := service(c.Coercion)

	return destinationWrites(registry(c.Descriptors), dst, func(src any, fd mapping.FieldDescriptor, member mapping.Member) (any, bool) {
		var ctr *table.Container
		switch s := src.(type) {
		case table.Container:
			ctr = &s
		case *table.Container:
			ctr = s
		}

		if ctr == nil {
			return nil, false
		}

		s, ok := ctr.Get(fd.Name)
		if !ok {
			return nil, false
		}

		return fromDeclared(svc, s, fd.Type, member.Type)
	})
}

func (c ContainerToObject) RootOperation(_, _ reflect.Type) *mapping.RootOperation {
	return nil
}

func isContainer(t reflect.Type) bool {
	return t == containerType || (t != nil && t.Kind() == reflect.Ptr && t.Elem() == containerType)
}
