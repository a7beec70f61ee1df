package mapper

import (
	"iter"
	"reflect"

	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/utils"
)

// Map maps from into a new TTo using the configuration registered for the pair.
// A nil core selects DefaultCore.
func Map[TFrom, TTo any](c *Core, from TFrom) (TTo, error) {
	return MapWith[TFrom, TTo](c, nil, from)
}

// MapWith is Map under an explicit configuration. A nil cfg falls back to the
// registered one.
func MapWith[TFrom, TTo any](c *Core, cfg mapping.Configurator, from TFrom) (TTo, error) {
	var zero TTo

	if utils.IsNil(reflect.ValueOf(from)) {
		return zero, ErrNilSource
	}

	m, err := core(c).mapper(reflect.TypeFor[TFrom](), reflect.TypeFor[TTo](), cfg)
	if err != nil {
		return zero, err
	}

	out, err := m.Map(from)
	if err != nil {
		return zero, err
	}

	res, _ := out.(TTo)

	return res, nil
}

// MapInto maps from into an existing destination and returns it. TTo should be a
// pointer or a map so the caller observes the populated value.
func MapInto[TFrom, TTo any](c *Core, from TFrom, to TTo) (TTo, error) {
	return MapIntoWith(c, nil, from, to)
}

// MapIntoWith is MapInto under an explicit configuration.
func MapIntoWith[TFrom, TTo any](c *Core, cfg mapping.Configurator, from TFrom, to TTo) (TTo, error) {
	var zero TTo

	if utils.IsNil(reflect.ValueOf(from)) {
		return zero, ErrNilSource
	}

	if utils.IsNil(reflect.ValueOf(to)) {
		return zero, ErrNilDestination
	}

	m, err := core(c).mapper(reflect.TypeFor[TFrom](), reflect.TypeFor[TTo](), cfg)
	if err != nil {
		return zero, err
	}

	out, err := m.MapInto(from, to)
	if err != nil {
		return zero, err
	}

	res, _ := out.(TTo)

	return res, nil
}

// MapCollection lazily maps every element of from, keeping positions. Nothing is
// mapped until the result is iterated, and iterating twice maps twice.
func MapCollection[TFrom, TTo any](c *Core, from iter.Seq[TFrom]) iter.Seq2[TTo, error] {
	return func(yield func(TTo, error) bool) {
		var zero TTo

		m, err := core(c).GetMapper(reflect.TypeFor[TFrom](), reflect.TypeFor[TTo]())
		if err != nil {
			yield(zero, err)
			return
		}

		for item := range from {
			out, err := m.Map(item)
			if err != nil {
				if !yield(zero, err) {
					return
				}

				continue
			}

			res, _ := out.(TTo)
			if !yield(res, nil) {
				return
			}
		}
	}
}

func core(c *Core) *Core {
	if c == nil {
		return DefaultCore()
	}

	return c
}
