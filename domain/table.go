package domain

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/antonsamarsky/emitmapper-tools/internal/coerce"
	"github.com/antonsamarsky/emitmapper-tools/internal/common"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/table"
	"github.com/antonsamarsky/emitmapper-tools/utils"
)

// ErrUnsupportedType is returned when a configurator is asked for a pair it does
// not handle.
var ErrUnsupportedType = errors.New("unsupported type for configurator")

var (
	tableType     = reflect.TypeFor[table.Table]()
	containerType = reflect.TypeFor[table.Container]()
	stringType    = reflect.TypeFor[string]()
)

// EntityToTable maps entities to a table.Table through their field descriptors.
// Every member value is written under each of its field names, converted to the
// declared field type. Nil values are skipped and the first write to a key wins.
type EntityToTable struct {
	// Descriptors defaults to mapping.DefaultRegistry.
	Descriptors *mapping.Registry
	// Coercion defaults to the building manager's service, else coerce.Default.
	Coercion *coerce.Service
}

var _ mapping.Configurator = EntityToTable{}

// WithCoercion returns c converting with svc unless it already has a service.
func (c EntityToTable) WithCoercion(svc *coerce.Service) mapping.Configurator {
	if c.Coercion == nil {
		c.Coercion = svc
	}

	return c
}

func (c EntityToTable) Name() string {
	return "entity-to-table:" + identity(c.Descriptors, c.Coercion)
}

func (c EntityToTable) Operations(src, dst reflect.Type) ([]mapping.Operation, error) {
	if !isTable(dst) {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s is not a table", common.TypeName(dst))
	}

	svc := service(c.Coercion)

	return sourceReads(registry(c.Descriptors), src, func(dst any, name string, fd mapping.FieldDescriptor, value any) {
		p, _ := dst.(*table.Table)
		if p == nil {
			return
		}

		if *p == nil {
			*p = table.New()
		}

		tbl := *p
		if tbl.Has(name) {
			return
		}

		out, ok := toDeclared(svc, value, fd.Type)
		if !ok {
			return
		}

		if v, ok := table.Of(out); ok && !v.IsNull() {
			tbl.Add(name, v)
		}
	})
}

func (c EntityToTable) RootOperation(_, dst reflect.Type) *mapping.RootOperation {
	return &mapping.RootOperation{Constructor: func() reflect.Value {
		return construct(dst, reflect.ValueOf(table.New()))
	}}
}

// TableToEntity maps a table.Table to entities through their field descriptors.
// A member reads the key of its first descriptor; missing keys, null values and
// values that cannot be converted leave the member unset.
type TableToEntity struct {
	Descriptors *mapping.Registry
	Coercion    *coerce.Service
}

var _ mapping.Configurator = TableToEntity{}

// WithCoercion returns c converting with svc unless it already has a service.
func (c TableToEntity) WithCoercion(svc *coerce.Service) mapping.Configurator {
	if c.Coercion == nil {
		c.Coercion = svc
	}

	return c
}

func (c TableToEntity) Name() string {
	return "table-to-entity:" + identity(c.Descriptors, c.Coercion)
}

func (c TableToEntity) Operations(src, dst reflect.Type) ([]mapping.Operation, error) {
	if !isTable(src) {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s is not a table", common.TypeName(src))
	}

	svc := service(c.Coercion)

	return destinationWrites(registry(c.Descriptors), dst, func(src any, fd mapping.FieldDescriptor, member mapping.Member) (any, bool) {
		tbl, ok := asTable(src)
		if !ok {
			return nil, false
		}

		v, ok := tbl.Get(fd.Name)
		if !ok || v.IsNull() {
			return nil, false
		}

		return fromDeclared(svc, v.Any(), fd.Type, member.Type)
	})
}

func (c TableToEntity) RootOperation(_, _ reflect.Type) *mapping.RootOperation {
	return nil
}

func isTable(t reflect.Type) bool {
	return t == tableType || (t != nil && t.Kind() == reflect.Ptr && t.Elem() == tableType)
}

func asTable(src any) (table.Table, bool) {
	switch t := src.(type) {
	case table.Table:
		return t, t != nil
	case *table.Table:
		if t == nil {
			return nil, false
		}

		return *t, *t != nil
	default:
		return nil, false
	}
}

// toDeclared converts a member value to the declared field type. Values already
// assignable to it are kept as they are.
func toDeclared(svc *coerce.Service, value any, declared reflect.Type) (any, bool) {
	rv := reflect.ValueOf(value)
	if utils.IsNil(rv) {
		return nil, false
	}

	if rv.Type().AssignableTo(declared) {
		return value, true
	}

	return svc.ConvertValue(value, declared)
}

// fromDeclared treats a stored value as the declared field type, then converts
// it to the member type.
func fromDeclared(svc *coerce.Service, value any, declared, member reflect.Type) (any, bool) {
	typed, ok := svc.ConvertValue(value, declared)
	if !ok {
		return nil, false
	}

	return svc.ConvertValue(typed, member)
}
