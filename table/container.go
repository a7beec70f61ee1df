package table

import (
	"maps"
	"slices"
)

// Container is a field bag holding the string form of every value.
type Container struct {
	Fields map[string]string
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{Fields: map[string]string{}}
}

func (c *Container) Has(key string) bool {
	_, ok := c.Fields[key]
	return ok
}

func (c *Container) Get(key string) (string, bool) {
	s, ok := c.Fields[key]
	return s, ok
}

// Add stores s under key unless the key is already present. The first write wins.
func (c *Container) Add(key, s string) bool {
	if c.Has(key) {
		return false
	}

	if c.Fields == nil {
		c.Fields = map[string]string{}
	}

	c.Fields[key] = s

	return true
}

func (c *Container) Set(key, s string) {
	if c.Fields == nil {
		c.Fields = map[string]string{}
	}

	c.Fields[key] = s
}

// Keys returns the keys in sorted order.
func (c *Container) Keys() []string {
	return slices.Sorted(maps.Keys(c.Fields))
}

func (c *Container) Len() int {
	return len(c.Fields)
}
