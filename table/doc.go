// Package table provides the generic field bags mapped to and from entities.
//
// Table stores typed values (see Value) and Container stores their string form.
// Both are keyed by logical field name and keep the first value added per key.
package table
