package config

import (
	"reflect"
)

// Ignore is IgnoreMembers for the pair (S, D).
func Ignore[S, D any](c *DefaultConfig, names ...string) *DefaultConfig {
	return c.IgnoreMembers(reflect.TypeFor[S](), reflect.TypeFor[D](), names...)
}

// IgnoreAll is IgnoreMembers for D and every source type.
func IgnoreAll[D any](c *DefaultConfig, names ...string) *DefaultConfig {
	return c.IgnoreMembers(nil, reflect.TypeFor[D](), names...)
}

// ConvertMemberOf is ConvertMember for a member of D.
func ConvertMemberOf[D any](c *DefaultConfig, member string, fn any) *DefaultConfig {
	return c.ConvertMember(reflect.TypeFor[D](), member, fn)
}

// DeepMapFor is DeepMapType for T.
func DeepMapFor[T any](c *DefaultConfig) *DefaultConfig {
	return c.DeepMapType(reflect.TypeFor[T]())
}

// ShallowMapFor is ShallowMapType for T.
func ShallowMapFor[T any](c *DefaultConfig) *DefaultConfig {
	return c.ShallowMapType(reflect.TypeFor[T]())
}
