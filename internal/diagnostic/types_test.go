package diagnostic

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsAdd(t *testing.T) {
	var d Diagnostics

	d.AddError(CodeConfigConflict, "both rules", "store.Order", "Customer")
	d.AddWarning(CodeFetchFailed, "boom", "", "")
	d.AddInfo("note", "hello", "", "")

	assert.True(t, d.HasErrors())
	assert.True(t, d.HasWarnings())
	assert.Len(t, d.Infos, 1)
	assert.Len(t, d.ByCode(CodeFetchFailed), 1)

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t, "[store.Order] Customer: [config_conflict] both rules", err.Error())
}

func TestDiagnosticsNoErrors(t *testing.T) {
	var d Diagnostics
	d.AddWarning(CodeWriteFailed, "w", "", "")

	assert.NoError(t, d.Error())
}

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		name string
		diag Diagnostic
		want string
	}{
		{"message only", Diagnostic{Message: "m"}, "m"},
		{"with code", Diagnostic{Code: "c", Message: "m"}, "[c] m"},
		{"with field", Diagnostic{Field: "Name", Message: "m"}, "Name: m"},
		{
			"with suggestions",
			Diagnostic{Type: "T", Code: CodeMissingDeclaration, Message: "no field", Suggestions: []string{"Name"}},
			"[T]: [missing_declaration] no field (did you mean Name?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.diag.String())
		})
	}
}

func TestCollectorConcurrent(t *testing.T) {
	var (
		c  Collector
		wg sync.WaitGroup
	)

	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			c.Warn(CodeFetchFailed, "x", "", "")
		}()
	}

	wg.Wait()

	snap := c.Snapshot()
	assert.Len(t, snap.Warnings, 50)
	assert.Empty(t, snap.Errors)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
