// Package domain holds the attribute driven configurators that move values
// between typed objects and the generic field bags of package table.
//
// Members are bound to logical field names by a mapping.Registry, either through
// struct tags or a descriptor file. Writing fans a member out to every field
// name it declares; reading pulls the first one. Values are converted with the
// coercion service using the declared field type, and values that cannot be
// converted are skipped.
package domain
