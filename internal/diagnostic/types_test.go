package diagnostic

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsError(t *testing.T) {
	var d Diagnostics
	require.NoError(t, d.Error())
	assert.True(t, d.IsValid())

	d.AddWarning(CodeUnmapped, "member is left unset", "a.Src->b.Dst", "Extra")
	require.NoError(t, d.Error())

	d.AddError(CodeUnknownMember, "no member \"Nmae\"", "a.Src->b.Dst", "Nmae", "Name")
	d.AddError(CodeEmptyField, "empty field name", "", "")

	err := d.Error()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Equal(t,
		`[a.Src->b.Dst] Nmae: [unknown_member] no member "Nmae" (did you mean Name?); [empty_field] empty field name`,
		err.Error())
}

func TestDiagnosticsMerge(t *testing.T) {
	var a, b Diagnostics
	a.AddInfo("x", "first", "", "")
	b.AddError("y", "second", "", "")
	b.AddWarning("z", "third", "", "")

	a.Merge(b)

	assert.True(t, a.HasErrors())
	require.Len(t, a.All(), 3)
	assert.Equal(t, "second", a.All()[0].Message)
	assert.Equal(t, "first", a.All()[2].Message)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
