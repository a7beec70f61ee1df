package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/antonsamarsky/emitmapper-tools/primitive"
)

func TestNewDefaults(t *testing.T) {
	o := New()

	assert.Equal(t, primitive.CategoryEnum(primitive.CategoryAll), o.Categories)
	assert.Equal(t, DefaultTagName, o.TagName)
	assert.Zero(t, o.MaxDepth)
	assert.NotNil(t, o.Logger)
}

func TestNewOverrides(t *testing.T) {
	logger := zap.NewExample()

	o := New(
		WithCategories(primitive.CategorySafeNumber|primitive.CategoryTextNumber),
		WithMaxDepth(16),
		WithLogger(logger),
		WithTagName("db"),
	)

	assert.Equal(t, primitive.CategorySafeNumber|primitive.CategoryTextNumber, o.Categories)
	assert.Equal(t, 16, o.MaxDepth)
	assert.Same(t, logger, o.Logger)
	assert.Equal(t, "db", o.TagName)
}
