package domain_test

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonsamarsky/emitmapper-tools/domain"
	"github.com/antonsamarsky/emitmapper-tools/internal/coerce"
	"github.com/antonsamarsky/emitmapper-tools/mapper"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/options"
	"github.com/antonsamarsky/emitmapper-tools/primitive"
	"github.com/antonsamarsky/emitmapper-tools/table"
)

func sampleEntity() domain.Entity {
	return domain.Entity{
		ID:       uuid.MustParse("6f1d2a4e-1c43-4f4b-9a53-0d0f3c6a2b11"),
		Name:     "Order 1",
		Number:   134567,
		Price:    100.5,
		Internal: "not described",
	}
}

func TestEntityToTable(t *testing.T) {
	t.Parallel()

	core := mapper.New()
	src := sampleEntity()

	tbl, err := mapper.MapWith[domain.Entity, table.Table](core, domain.EntityToTable{}, src)
	require.NoError(t, err)

	assert.Equal(t, []string{"order_id", "order_name", "order_number", "order_number_2", "order_price"}, tbl.Keys())
	assert.Equal(t, map[string]any{
		"order_id":       src.ID,
		"order_name":     "Order 1",
		"order_number":   int64(134567),
		"order_number_2": "134567",
		"order_price":    100.5,
	}, tbl.Raw())
}

func TestEntityToTablePointers(t *testing.T) {
	t.Parallel()

	core := mapper.New()
	src := sampleEntity()

	tbl, err := mapper.MapWith[*domain.Entity, *table.Table](core, domain.EntityToTable{}, &src)
	require.NoError(t, err)
	require.NotNil(t, tbl)

	v, ok := tbl.Get("order_number_2")
	require.True(t, ok)
	assert.Equal(t, table.String("134567"), v)
}

func TestConfiguratorsUseCoreCoercion(t *testing.T) {
	t.Parallel()

	core := mapper.New(options.WithCategories(primitive.CategorySafeNumber))
	src := sampleEntity()

	tbl, err := mapper.MapWith[domain.Entity, table.Table](core, domain.EntityToTable{}, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"order_id", "order_name", "order_number", "order_price"}, tbl.Keys(),
		"number to text is not an allowed category")

	ctr, err := mapper.MapWith[domain.Entity, table.Container](core, domain.ObjectToContainer{}, src)
	require.NoError(t, err)
	assert.NotContains(t, ctr.Fields, "order_number")

	explicit := domain.EntityToTable{Coercion: coerce.Default()}
	tbl, err = mapper.MapWith[domain.Entity, table.Table](core, explicit, src)
	require.NoError(t, err)
	assert.True(t, tbl.Has("order_number_2"), "an explicit service is kept")
}

func TestTableToEntity(t *testing.T) {
	t.Parallel()

	core := mapper.New()
	src := sampleEntity()

	tbl, err := mapper.MapWith[domain.Entity, table.Table](core, domain.EntityToTable{}, src)
	require.NoError(t, err)

	back, err := mapper.MapWith[table.Table, domain.Entity](core, domain.TableToEntity{}, tbl)
	require.NoError(t, err)

	want := src
	want.Internal = ""
	assert.Equal(t, want, back)
}

func TestTableToEntityConvertsStoredValues(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tbl := table.New()
	tbl.Add("order_id", table.String(id.String()))
	tbl.Add("order_number", table.String("42"))
	tbl.Add("order_price", table.Int(7))
	tbl.Add("order_name", table.Null())

	got, err := mapper.MapWith[table.Table, domain.Entity](mapper.New(), domain.TableToEntity{}, tbl)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, 42, got.Number)
	assert.InDelta(t, 7.0, got.Price, 0)
	assert.Empty(t, got.Name)
}

func TestTableToEntityKeepsMissingMembers(t *testing.T) {
	t.Parallel()

	dst := &domain.Entity{Name: "kept", Number: 5}

	tbl := table.New()
	tbl.Add("order_price", table.Float(1.25))
	tbl.Add("order_number", table.String("not a number"))

	got, err := mapper.MapIntoWith(mapper.New(), domain.TableToEntity{}, tbl, dst)
	require.NoError(t, err)

	assert.Same(t, dst, got)
	assert.Equal(t, "kept", dst.Name)
	assert.Equal(t, 5, dst.Number)
	assert.InDelta(t, 1.25, dst.Price, 0)
}

func TestFanOutFirstWriteWins(t *testing.T) {
	t.Parallel()

	type shared struct {
		Primary   string  `field:"code"`
		Secondary string  `field:"code;backup"`
		Missing   *string `field:"absent"`
	}

	tbl, err := mapper.MapWith[shared, table.Table](mapper.New(), domain.EntityToTable{},
		shared{Primary: "first", Secondary: "second"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"code": "first", "backup": "second"}, tbl.Raw())
	assert.False(t, tbl.Has("absent"))
}

func TestMapIntoExistingTable(t *testing.T) {
	t.Parallel()

	existing := table.New()
	existing.Add("order_name", table.String("existing"))
	existing.Add("other", table.Bool(true))

	got, err := mapper.MapIntoWith(mapper.New(), domain.EntityToTable{}, sampleEntity(), &existing)
	require.NoError(t, err)

	name, _ := (*got).Get("order_name")
	assert.Equal(t, table.String("existing"), name)
	assert.True(t, (*got).Has("other"))
	assert.True(t, (*got).Has("order_price"))
}

func TestContainerRoundTrip(t *testing.T) {
	t.Parallel()

	core := mapper.New()
	src := sampleEntity()

	ctr, err := mapper.MapWith[domain.Entity, table.Container](core, domain.ObjectToContainer{}, src)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"order_id":       src.ID.String(),
		"order_name":     "Order 1",
		"order_number":   "134567",
		"order_number_2": "134567",
		"order_price":    "100.5",
	}, ctr.Fields)

	back, err := mapper.MapWith[*table.Container, domain.Entity](core, domain.ContainerToObject{}, &ctr)
	require.NoError(t, err)

	want := src
	want.Internal = ""
	assert.Equal(t, want, back)
}

func TestUnsupportedPairs(t *testing.T) {
	t.Parallel()

	core := mapper.New()

	_, err := mapper.MapWith[domain.Entity, domain.Entity](core, domain.EntityToTable{}, sampleEntity())
	require.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = mapper.MapWith[domain.Entity, domain.Entity](core, domain.ContainerToObject{}, sampleEntity())
	require.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = mapper.MapWith[table.Table, table.Container](core, domain.ObjectToContainer{}, table.New())
	require.ErrorIs(t, err, domain.ErrUnsupportedType)
}

const entityYAML = `
types:
  - type: Entity
    fields:
      ID: id
      Number: [num, {name: num_text, type: string}]
    ignore: [Internal]
`

func TestDescriptorFileOverridesTags(t *testing.T) {
	t.Parallel()

	reg := mapping.NewRegistry()
	require.NoError(t, reg.RegisterType(reflect.TypeFor[domain.Entity]()))

	f, err := mapping.Parse([]byte(entityYAML))
	require.NoError(t, err)
	require.NoError(t, reg.Load(f))

	core := mapper.New()
	src := sampleEntity()

	tbl, err := mapper.MapWith[domain.Entity, table.Table](core, domain.EntityToTable{Descriptors: reg}, src)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "num", "num_text"}, tbl.Keys())

	tagged, err := mapper.MapWith[domain.Entity, table.Table](core, domain.EntityToTable{}, src)
	require.NoError(t, err)
	assert.Len(t, tagged.Keys(), 5, "configurators over different registries do not share mappers")
}
