// Package options holds the tunables shared by the coercion service, the mapper
// manager and the façade.
//
// Options are assembled from functional Option values; every field left at its zero
// value is filled from Defaults.
package options

import (
	"dario.cat/mergo"
	"go.uber.org/zap"

	"github.com/antonsamarsky/emitmapper-tools/primitive"
)

// DefaultTagName is the struct tag consulted for field descriptors.
const DefaultTagName = "field"

type Options struct {
	// Categories restricts the primitive conversions the coercion service may use.
	// CategoryNone is treated as "not set" and replaced by CategoryAll.
	Categories primitive.CategoryEnum
	// MaxDepth limits nesting while executing a deep map. Zero means unlimited.
	MaxDepth int
	// Logger receives debug events about mapper builds. Defaults to a no-op logger.
	Logger *zap.Logger
	// TagName is the struct tag read by the descriptor registry.
	TagName string
}

type Option func(*Options)

func Defaults() Options {
	return Options{
		Categories: primitive.CategoryAll,
		Logger:     zap.NewNop(),
		TagName:    DefaultTagName,
	}
}

// New applies opts and fills the remaining zero fields from Defaults.
func New(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	if err := mergo.Merge(&o, Defaults(), mergo.WithoutDereference); err != nil {
		// Merge fails only on mismatched kinds, which two Options values cannot have.
		panic(err)
	}

	return o
}

func WithCategories(categories primitive.CategoryEnum) Option {
	return func(o *Options) { o.Categories = categories }
}

func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func WithTagName(name string) Option {
	return func(o *Options) { o.TagName = name }
}
