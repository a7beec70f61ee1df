// Package analyze is the runtime type introspector of the mapping engine.
//
// It enumerates the mappable members of a Go type and resolves how to read and
// write them through reflection. Results are cached per type and safe for
// concurrent use.
//
// # Members
//
// A member is either:
//   - an exported struct field, including fields promoted from embedded structs
//   - a method property: a getter (GetName() T, or Name() T backed by an unexported
//     field "name") and/or a setter SetName(T)
//
// A field always wins over a property of the same name. Getters make a member
// readable, setters make it writable.
//
// # Kinds
//
// KindOf classifies a type by the way the mapper treats it: primitive values are
// coerced, structs are mapped member by member, slices/arrays/maps are mapped
// element by element, interfaces by their dynamic value.
package analyze
