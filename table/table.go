package table

import (
	"maps"
	"slices"
)

// Table is a string keyed field bag. Keys are unique; order is irrelevant.
type Table map[string]Value

// New creates an empty table.
func New() Table {
	return Table{}
}

// Has reports whether key is present, null values included.
func (t Table) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// Get returns the value stored under key.
func (t Table) Get(key string) (Value, bool) {
	v, ok := t[key]
	return v, ok
}

// Add stores v under key unless the key is already present. The first write wins.
func (t Table) Add(key string, v Value) bool {
	if t.Has(key) {
		return false
	}

	t[key] = v

	return true
}

// Set stores v under key, replacing any previous value.
func (t Table) Set(key string, v Value) {
	t[key] = v
}

// Delete removes key.
func (t Table) Delete(key string) {
	delete(t, key)
}

// Keys returns the keys in sorted order.
func (t Table) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Len returns the number of keys.
func (t Table) Len() int {
	return len(t)
}

// Raw unboxes every value, e.g. for encoding.
func (t Table) Raw() map[string]any {
	raw := make(map[string]any, len(t))
	for k, v := range t {
		raw[k] = v.Any()
	}

	return raw
}
