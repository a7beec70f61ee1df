package table_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonsamarsky/emitmapper-tools/table"
)

type status string

type level uint8

func TestOf(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	name := "Ann"
	var nilName *string

	tests := []struct {
		name string
		in   any
		kind table.Kind
		want any
	}{
		{"nil", nil, table.KindNull, nil},
		{"string", "x", table.KindString, "x"},
		{"int", 134567, table.KindInt, int64(134567)},
		{"int8", int8(-3), table.KindInt, int64(-3)},
		{"uint16", uint16(7), table.KindInt, int64(7)},
		{"float32", float32(0.5), table.KindFloat, 0.5},
		{"bool", true, table.KindBool, true},
		{"uuid", id, table.KindUUID, id},
		{"time", now, table.KindTime, now},
		{"duration", time.Second, table.KindDuration, time.Second},
		{"named string", status("open"), table.KindString, "open"},
		{"named uint", level(2), table.KindInt, int64(2)},
		{"pointer", &name, table.KindString, "Ann"},
		{"nil pointer", nilName, table.KindNull, nil},
		{"value", table.Int(5), table.KindInt, int64(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, ok := table.Of(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.want, v.Any())
		})
	}
}

func TestOfUnsupported(t *testing.T) {
	t.Parallel()

	for _, in := range []any{struct{}{}, []int{1}, uint64(1 << 63), map[string]int{}} {
		_, ok := table.Of(in)
		assert.False(t, ok, "%T", in)
	}
}

func TestValueString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "null", table.Null().String())
	assert.Equal(t, `"a b"`, table.String("a b").String())
	assert.Equal(t, "42", table.Int(42).String())
	assert.Equal(t, "false", table.Bool(false).String())
	assert.Equal(t, "1.5s", table.Duration(1500*time.Millisecond).String())
	assert.Equal(t, "duration", table.KindDuration.String())
}

func TestValueEqual(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, table.Time(at).Equal(table.Time(at.In(time.FixedZone("x", 3600)))))
	assert.True(t, table.Int(1).Equal(table.Int(1)))
	assert.False(t, table.Int(1).Equal(table.Float(1)))
	assert.True(t, table.Null().Equal(table.Value{}))
}

func TestTable(t *testing.T) {
	t.Parallel()

	tbl := table.New()
	assert.True(t, tbl.Add("order_number", table.Int(1)))
	assert.False(t, tbl.Add("order_number", table.Int(2)), "first write wins")

	v, ok := tbl.Get("order_number")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Any())

	tbl.Set("order_number", table.Int(3))
	tbl.Set("order_name", table.Null())

	assert.True(t, tbl.Has("order_name"))
	assert.Equal(t, []string{"order_name", "order_number"}, tbl.Keys())
	assert.Equal(t, map[string]any{"order_name": nil, "order_number": int64(3)}, tbl.Raw())

	tbl.Delete("order_name")
	assert.Equal(t, 1, tbl.Len())
	assert.False(t, tbl.Has("order_name"))
}

func TestContainer(t *testing.T) {
	t.Parallel()

	var c table.Container
	assert.True(t, c.Add("a", "1"))
	assert.False(t, c.Add("a", "2"))

	s, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", s)

	c.Set("b", "x")
	assert.Equal(t, []string{"a", "b"}, c.Keys())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 0, table.NewContainer().Len())
}
