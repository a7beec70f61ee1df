package config_test

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonsamarsky/emitmapper-tools/config"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
)

type (
	address struct {
		City   string
		Street string
	}

	customer struct {
		Name    string
		Address *address
	}

	source struct {
		ID       int
		Name     string
		Customer customer
		Internal string
		Tags     []string
	}

	destination struct {
		ID           string
		Name         string
		Customer     customer
		CustomerName string
		Internal     string `mapper:"-"`
		Tags         []string
		Extra        int
	}

	flat struct {
		CustomerName        string
		CustomerAddressCity string
		CustomerZip         string
	}
)

func readWrites(t *testing.T, ops []mapping.Operation) map[string]*mapping.ReadWrite {
	t.Helper()

	res := map[string]*mapping.ReadWrite{}
	for _, op := range ops {
		rw, ok := op.(*mapping.ReadWrite)
		require.True(t, ok, "unexpected operation %T", op)
		res[rw.Destination.String()] = rw
	}

	return res
}

func TestDefaultOperations(t *testing.T) {
	t.Parallel()

	ops, err := config.Default().Operations(reflect.TypeFor[source](), reflect.TypeFor[*destination]())
	require.NoError(t, err)

	rws := readWrites(t, ops)
	assert.Len(t, rws, 4)

	for _, name := range []string{"ID", "Name", "Customer", "Tags"} {
		require.Contains(t, rws, name)
		assert.Equal(t, name, rws[name].Source.String())
		assert.False(t, rws[name].ShallowCopy)
		assert.Nil(t, rws[name].Converter)
	}

	assert.NotContains(t, rws, "Internal", "tagged mapper:\"-\"")
	assert.NotContains(t, rws, "Extra", "no source member")
	assert.NotContains(t, rws, "CustomerName", "flattening is off")
}

func TestOperationsForNonStructs(t *testing.T) {
	t.Parallel()

	ops, err := config.Default().Operations(reflect.TypeFor[int](), reflect.TypeFor[string]())
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestIgnoreMembers(t *testing.T) {
	t.Parallel()

	cfg := config.Ignore[source, destination](config.Default(), "Name", "Tags")

	ops, err := cfg.Operations(reflect.TypeFor[source](), reflect.TypeFor[destination]())
	require.NoError(t, err)

	rws := readWrites(t, ops)
	assert.NotContains(t, rws, "Name")
	assert.NotContains(t, rws, "Tags")
	assert.Contains(t, rws, "ID")

	bad := config.IgnoreAll[destination](config.Default(), "Nmae")
	_, err = bad.Operations(reflect.TypeFor[source](), reflect.TypeFor[destination]())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mapping.ErrUnknownMember))
	assert.Contains(t, err.Error(), "did you mean Name")
}

func TestConverterPrecedence(t *testing.T) {
	t.Parallel()

	idText := func(id int) string { return "#" + strconv.Itoa(id) }

	cfg := config.Default().
		ConvertUsing(strconv.Itoa).
		ConvertMember(reflect.TypeFor[destination](), "ID", idText)

	ops, err := cfg.Operations(reflect.TypeFor[source](), reflect.TypeFor[destination]())
	require.NoError(t, err)

	rw := readWrites(t, ops)["ID"]
	require.NotNil(t, rw.Converter)

	out, ok, err := rw.Converter.Fn(reflect.ValueOf(7))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "#7", out.Interface())

	root := cfg.RootOperation(reflect.TypeFor[int](), reflect.TypeFor[string]())
	require.NotNil(t, root.Converter)

	out, _, _ = root.Converter.Fn(reflect.ValueOf(7))
	assert.Equal(t, "7", out.Interface())
}

func TestConvertMemberErrors(t *testing.T) {
	t.Parallel()

	cfg := config.ConvertMemberOf[destination](config.Default(), "Nope", strconv.Itoa)
	_, err := cfg.Operations(reflect.TypeFor[source](), reflect.TypeFor[destination]())
	assert.True(t, errors.Is(err, mapping.ErrUnknownMember))

	cfg = config.ConvertMemberOf[destination](config.Default(), "Name", strconv.Itoa)
	_, err = cfg.Operations(reflect.TypeFor[source](), reflect.TypeFor[destination]())
	assert.True(t, errors.Is(err, config.ErrInvalidConverter), "Name is a string, Itoa takes int")
}

func TestInvalidFunctionsFailFirstBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *config.DefaultConfig
		want error
	}{
		{"converter", config.Default().ConvertUsing("not a function"), config.ErrNotAFunction},
		{"converter arity", config.Default().ConvertUsing(func(a, b int) int { return a + b }), config.ErrInvalidConverter},
		{"post-process", config.Default().PostProcess(func(d destination) destination { return d }), config.ErrInvalidHook},
		{"constructor", config.Default().ConstructBy(func(int) destination { return destination{} }), config.ErrInvalidHook},
		{"null substitution", config.Default().NullSubstitution(func(a, b int) int { return a }), config.ErrInvalidHook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Error(t, tt.cfg.Err())
			assert.True(t, errors.Is(tt.cfg.Err(), tt.want), "got %v", tt.cfg.Err())

			_, err := tt.cfg.Operations(reflect.TypeFor[source](), reflect.TypeFor[destination]())
			require.Error(t, err)
		})
	}
}

func TestShallowPolicy(t *testing.T) {
	t.Parallel()

	cfg := config.Default().ShallowMap()
	config.DeepMapFor[customer](cfg)

	ops, err := cfg.Operations(reflect.TypeFor[source](), reflect.TypeFor[destination]())
	require.NoError(t, err)

	rws := readWrites(t, ops)
	assert.True(t, rws["Tags"].ShallowCopy)
	assert.False(t, rws["Customer"].ShallowCopy)

	assert.True(t, cfg.RootOperation(reflect.TypeFor[source](), reflect.TypeFor[destination]()).ShallowCopy)
	assert.False(t, cfg.RootOperation(reflect.TypeFor[customer](), reflect.TypeFor[*customer]()).ShallowCopy)
}

func TestMatchers(t *testing.T) {
	t.Parallel()

	type upper struct {
		ID   int
		NAME string
	}
	type prefixed struct {
		MID   int
		MName string
	}
	type snake struct {
		Order_ID int //nolint:revive
	}
	type camel struct {
		OrderID int
	}

	ops, err := config.CaseInsensitive().Operations(reflect.TypeFor[source](), reflect.TypeFor[upper]())
	require.NoError(t, err)
	rws := readWrites(t, ops)
	assert.Equal(t, "ID", rws["ID"].Source.String())
	assert.Equal(t, "Name", rws["NAME"].Source.String())

	ops, err = config.Default().MatchPrefix("M").Operations(reflect.TypeFor[source](), reflect.TypeFor[prefixed]())
	require.NoError(t, err)
	assert.Len(t, ops, 2)

	ops, err = config.Default().MatchNormalized().Operations(reflect.TypeFor[snake](), reflect.TypeFor[camel]())
	require.NoError(t, err)
	assert.Equal(t, "Order_ID", readWrites(t, ops)["OrderID"].Source.String())

	suffix := config.Default().MatchMembers(func(src, dst string) bool { return strings.HasSuffix(dst, src) })
	ops, err = suffix.Operations(reflect.TypeFor[source](), reflect.TypeFor[prefixed]())
	require.NoError(t, err)
	assert.Len(t, ops, 2)
}

func TestFlattening(t *testing.T) {
	t.Parallel()

	ops, err := config.Flattening().Operations(reflect.TypeFor[source](), reflect.TypeFor[flat]())
	require.NoError(t, err)

	rws := readWrites(t, ops)
	require.Len(t, rws, 2)
	assert.Equal(t, "Customer.Name", rws["CustomerName"].Source.String())
	assert.Equal(t, "Customer.Address.City", rws["CustomerAddressCity"].Source.String())
	assert.NotContains(t, rws, "CustomerZip")

	// direct matches win over flattened chains
	ops, err = config.Flattening().Operations(reflect.TypeFor[destination](), reflect.TypeFor[flat]())
	require.NoError(t, err)
	assert.Equal(t, "CustomerName", readWrites(t, ops)["CustomerName"].Source.String())
}

func TestFilters(t *testing.T) {
	t.Parallel()

	cfg := config.Default().
		FilterDestination(func(m mapping.Member) bool { return m.Name != "ID" }).
		FilterSource(func(m mapping.Member) bool { return m.Name != "Tags" })

	ops, err := cfg.Operations(reflect.TypeFor[source](), reflect.TypeFor[destination]())
	require.NoError(t, err)

	rws := readWrites(t, ops)
	assert.NotContains(t, rws, "ID")
	assert.NotContains(t, rws, "Tags")
	assert.Contains(t, rws, "Name")
}

func TestName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.DefaultName, config.Default().Name())

	a := config.Default().ShallowMap().DeepMapType(reflect.TypeFor[address]())
	b := config.Default().ShallowMap().DeepMapType(reflect.TypeFor[address]())
	c := config.Default().ShallowMap()

	assert.Equal(t, a.Name(), b.Name())
	assert.NotEqual(t, a.Name(), c.Name())
	assert.True(t, strings.HasPrefix(a.Name(), config.DefaultName+"-"))

	f := config.Default().ConvertUsing(strconv.Itoa)
	assert.Equal(t, f.Name(), f.ShallowMap().Name(), "stable across later calls")
	assert.NotEqual(t, f.Name(), config.Default().ConvertUsing(strconv.Itoa).Name())

	assert.NotEqual(t, config.Default().Name(), config.CaseInsensitive().Name())
	assert.NotEqual(t, config.Default().Name(), config.Flattening().Name())

	assert.Equal(t, "custom", c.SetName("custom").Name())
}

func TestNameOfCapturingClosures(t *testing.T) {
	t.Parallel()

	withDefault := func(d string) *config.DefaultConfig {
		return config.Default().NullSubstitution(func() string { return d })
	}

	a, b := withDefault("A"), withDefault("B")
	assert.NotEqual(t, a.Name(), b.Name())
	assert.Equal(t, a.Name(), a.Name())

	filtered := func(keep string) *config.DefaultConfig {
		return config.Default().FilterDestination(func(m mapping.Member) bool { return m.Name == keep })
	}
	assert.NotEqual(t, filtered("ID").Name(), filtered("Name").Name())
}

func TestClosestTypeWinsAmongMatches(t *testing.T) {
	t.Parallel()

	type (
		from struct {
			Id string //nolint:revive
			ID int
		}
		to struct {
			ID int
		}
		text struct {
			ID string
		}
	)

	ops, err := config.CaseInsensitive().Operations(reflect.TypeFor[from](), reflect.TypeFor[to]())
	require.NoError(t, err)
	assert.Equal(t, "ID", readWrites(t, ops)["ID"].Source.String())

	ops, err = config.CaseInsensitive().Operations(reflect.TypeFor[from](), reflect.TypeFor[text]())
	require.NoError(t, err)
	assert.Equal(t, "Id", readWrites(t, ops)["ID"].Source.String())
}
