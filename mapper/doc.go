// Package mapper builds, caches and runs object mappers.
//
// A Mapper is compiled once per (source type, destination type, configuration
// name) by a Manager and reused afterwards. Core adds a registry of
// configurations per type pair and the generic entry points:
//
//	core := mapper.New()
//	_ = core.RegisterConfiguration(reflect.TypeFor[Order](), reflect.TypeFor[OrderDTO](),
//		config.Default().ConvertUsing(strconv.Itoa))
//
//	dto, err := mapper.Map[Order, OrderDTO](core, order)
//
// # Values
//
// Structs are mapped member by member through the configuration operations.
// Under the deep policy pointers, slices, arrays, maps and interfaces are copied
// recursively; under the shallow policy they are assigned. Other values are
// assigned when the types allow it and converted by the coercion service
// otherwise. Values that cannot be converted are skipped.
//
// A nil source value writes the zero value of the destination unless a null
// substitution is registered. MapInto populates the existing destination, and
// nested pointers that are already set, in place.
//
// # Recursion
//
// Recursive types are supported: the mapper of a pair is registered before its
// operations are compiled, so a type graph that refers back to the pair reuses
// it. Cyclic instance data is not detected; options.WithMaxDepth bounds nesting.
package mapper
