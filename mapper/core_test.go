package mapper_test

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonsamarsky/emitmapper-tools/config"
	"github.com/antonsamarsky/emitmapper-tools/mapper"
)

func TestRegisterConfiguration(t *testing.T) {
	core := mapper.New()
	src, dst := reflect.TypeFor[numbered](), reflect.TypeFor[textual]()

	hash := config.Default().ConvertUsing(func(i int) string { return "#" + strconv.Itoa(i) }).SetName("hash")

	require.NoError(t, core.RegisterConfiguration(src, dst, hash))
	require.NoError(t, core.RegisterConfiguration(src, dst, hash), "same name is a no-op")

	err := core.RegisterConfiguration(src, dst, config.Default())
	require.ErrorIs(t, err, mapper.ErrConflictingRegistration)

	got, err := mapper.Map[numbered, textual](core, numbered{Value: 7})
	require.NoError(t, err)
	assert.Equal(t, "#7", got.Value)

	got, err = mapper.MapWith[numbered, textual](core, config.Default(), numbered{Value: 7})
	require.NoError(t, err)
	assert.Equal(t, "7", got.Value, "explicit configuration wins over the registered one")

	require.ErrorIs(t, core.RegisterConfiguration(nil, dst, hash), mapper.ErrTypeMismatch)
}

func TestConfigurationForPriority(t *testing.T) {
	src, dst := reflect.TypeFor[numbered](), reflect.TypeFor[textual]()

	exact := config.Default().SetName("exact")
	anyDst := config.Default().SetName("any-destination")
	anySrc := config.Default().SetName("any-source")

	tests := []struct {
		name     string
		register map[[2]reflect.Type]*config.DefaultConfig
		src, dst reflect.Type
		want     string
	}{
		{
			name:     "fallback",
			register: nil,
			src:      src, dst: dst,
			want: config.DefaultName,
		},
		{
			name: "exact wins",
			register: map[[2]reflect.Type]*config.DefaultConfig{
				{src, dst}:        exact,
				{src, mapper.Any}: anyDst,
				{mapper.Any, dst}: anySrc,
			},
			src: src, dst: dst,
			want: "exact",
		},
		{
			name: "wildcard destination before wildcard source",
			register: map[[2]reflect.Type]*config.DefaultConfig{
				{src, mapper.Any}: anyDst,
				{mapper.Any, dst}: anySrc,
			},
			src: src, dst: dst,
			want: "any-destination",
		},
		{
			name: "wildcard source",
			register: map[[2]reflect.Type]*config.DefaultConfig{
				{mapper.Any, dst}: anySrc,
			},
			src: src, dst: dst,
			want: "any-source",
		},
		{
			name: "pointers fall back to base types",
			register: map[[2]reflect.Type]*config.DefaultConfig{
				{src, dst}: exact,
			},
			src: reflect.PointerTo(src), dst: reflect.PointerTo(dst),
			want: "exact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := mapper.New()

			for pair, cfg := range tt.register {
				require.NoError(t, core.RegisterConfiguration(pair[0], pair[1], cfg))
			}

			assert.Equal(t, tt.want, core.ConfigurationFor(tt.src, tt.dst).Name())

			m, err := core.GetMapper(tt.src, tt.dst)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.ConfigName())
		})
	}
}

func TestDefaultCoreIsShared(t *testing.T) {
	assert.Same(t, mapper.DefaultCore(), mapper.DefaultCore())
	assert.Same(t, mapper.DefaultManager(), mapper.DefaultCore().Manager())

	got, err := mapper.Map[numbered, textual](nil, numbered{Value: 3})
	require.NoError(t, err)
	assert.Equal(t, "3", got.Value)
}

func TestConfigurationsCapturingDifferentValues(t *testing.T) {
	type (
		from struct{ Name *string }
		to   struct{ Name string }
	)

	withDefault := func(d string) *config.DefaultConfig {
		return config.Default().NullSubstitution(func() string { return d })
	}

	core := mapper.New()

	got, err := mapper.MapWith[from, to](core, withDefault("A"), from{})
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	got, err = mapper.MapWith[from, to](core, withDefault("B"), from{})
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)

	src, dst := reflect.TypeFor[from](), reflect.TypeFor[to]()
	require.NoError(t, core.RegisterConfiguration(src, dst, withDefault("C")))
	require.ErrorIs(t, core.RegisterConfiguration(src, dst, withDefault("D")), mapper.ErrConflictingRegistration)
}
