package mapping_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonsamarsky/emitmapper-tools/internal/diagnostic"
	"github.com/antonsamarsky/emitmapper-tools/mapping"
	"github.com/antonsamarsky/emitmapper-tools/options"
)

type invoice struct {
	ID      uuid.UUID `field:"invoice_id"`
	Number  int       `field:"invoice_number;invoice_number_2,type=string"`
	Total   float64   `field:"total"`
	Comment string
	Hidden  string `field:"-"`
}

type badTag struct {
	Number int `field:"n,size=4"`
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	fields, err := mapping.ParseTag("order_number; order_number_2,type=string")
	require.NoError(t, err)
	assert.Equal(t, []mapping.TagField{
		{Name: "order_number"},
		{Name: "order_number_2", Type: "string"},
	}, fields)

	_, err = mapping.ParseTag(",type=int")
	require.ErrorIs(t, err, mapping.ErrInvalidDescriptor)

	_, err = mapping.ParseTag("n,size=4")
	require.ErrorIs(t, err, mapping.ErrInvalidDescriptor)
}

func TestDescribeFromTags(t *testing.T) {
	t.Parallel()

	reg := mapping.NewRegistry()
	require.NoError(t, reg.RegisterType(reflect.TypeFor[invoice]()))

	descs, err := reg.Describe(reflect.TypeFor[*invoice]())
	require.NoError(t, err)
	require.Len(t, descs, 3)

	assert.Equal(t, "ID", descs[0].Member.Name)
	assert.Equal(t, []mapping.FieldDescriptor{{Name: "invoice_id", Type: reflect.TypeFor[uuid.UUID]()}}, descs[0].Fields)

	assert.Equal(t, "Number", descs[1].Member.Name)
	assert.Equal(t, []string{"invoice_number", "invoice_number_2"}, descs[1].Names())
	assert.Equal(t, reflect.TypeFor[int](), descs[1].Fields[0].Type)
	assert.Equal(t, reflect.TypeFor[string](), descs[1].Fields[1].Type)

	fields, err := reg.DescribeMember(reflect.TypeFor[invoice](), "Comment")
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = reg.DescribeMember(reflect.TypeFor[invoice](), "Totl")
	require.ErrorIs(t, err, mapping.ErrUnknownMember)
}

func TestRegisterTypeRejectsBadTags(t *testing.T) {
	t.Parallel()

	reg := mapping.NewRegistry()

	err := reg.RegisterType(reflect.TypeFor[badTag]())
	require.ErrorIs(t, err, mapping.ErrInvalidDescriptor)

	err = reg.RegisterType(reflect.TypeFor[int]())
	require.ErrorIs(t, err, mapping.ErrUnknownType)
}

func TestCustomTagName(t *testing.T) {
	t.Parallel()

	type row struct {
		Code string `column:"code"`
	}

	reg := mapping.NewRegistry(options.WithTagName("column"))
	descs, err := reg.Describe(reflect.TypeFor[row]())
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, []string{"code"}, descs[0].Names())
}

const invoiceYAML = `
version: "1"
types:
  - type: invoice
    table: invoices
    fields:
      ID: id
      Number: [num, {name: num_text, type: string}]
      Comment: {name: note}
    ignore: [Hidden]
`

func TestLoadReplacesTags(t *testing.T) {
	t.Parallel()

	reg := mapping.NewRegistry()
	require.NoError(t, reg.RegisterType(reflect.TypeFor[invoice]()))

	f, err := mapping.Parse([]byte(invoiceYAML))
	require.NoError(t, err)
	require.NoError(t, reg.Load(f))

	descs, err := reg.Describe(reflect.TypeFor[invoice]())
	require.NoError(t, err)
	require.Len(t, descs, 3)

	assert.Equal(t, []string{"id"}, descs[0].Names())
	assert.Equal(t, []string{"num", "num_text"}, descs[1].Names())
	assert.Equal(t, reflect.TypeFor[string](), descs[1].Fields[1].Type)
	assert.Equal(t, []string{"note"}, descs[2].Names())
	assert.Equal(t, "invoices", reg.Table(reflect.TypeFor[invoice]()))
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "descriptors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(invoiceYAML), 0o600))

	reg := mapping.NewRegistry()
	require.NoError(t, reg.RegisterType(reflect.TypeFor[invoice]()))
	require.NoError(t, reg.LoadFile(path))

	_, err := mapping.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	reg := mapping.NewRegistry()
	require.NoError(t, reg.RegisterType(reflect.TypeFor[invoice]()))

	f, err := mapping.Parse([]byte(`
types:
  - type: invoce
  - type: invoice
    fields:
      Numbr: n
      Number: [num, ""]
      Total: {name: num, type: decimal}
    ignore: [Missing]
`))
	require.NoError(t, err)

	diags := reg.Validate(f)
	require.True(t, diags.HasErrors())

	codes := map[string]int{}
	for _, d := range diags.Errors {
		codes[d.Code]++
	}

	assert.Equal(t, map[string]int{
		diagnostic.CodeUnknownType:    1,
		diagnostic.CodeUnknownMember:  1,
		diagnostic.CodeEmptyField:     1,
		diagnostic.CodeDuplicateField: 1,
	}, codes)
	assert.Len(t, diags.Warnings, 1)

	assert.Equal(t, []string{"invoice"}, diags.Errors[0].Suggestions)

	err = reg.Load(f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, diagnostic.ErrInvalid))
}

func TestValidateUnknownFieldType(t *testing.T) {
	t.Parallel()

	reg := mapping.NewRegistry()
	require.NoError(t, reg.RegisterType(reflect.TypeFor[invoice]()))

	f := &mapping.File{
		Version: mapping.CurrentVersion,
		Types: []mapping.TypeEntry{{
			Type:   "invoice",
			Fields: map[string]mapping.FieldList{"Total": {{Name: "total", Type: "money"}}},
		}},
	}

	diags := reg.Validate(f)
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, diagnostic.CodeUnsupportedType, diags.Errors[0].Code)

	reg.RegisterFieldType("money", reflect.TypeFor[int64]())
	assert.True(t, reg.Validate(f).IsValid())
}

func TestFieldListRoundTrip(t *testing.T) {
	t.Parallel()

	f, err := mapping.Parse([]byte(invoiceYAML))
	require.NoError(t, err)

	data, err := mapping.Marshal(f)
	require.NoError(t, err)

	again, err := mapping.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}
