package diagnostic

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"field-assembler/internal/common"
)

// Well-known diagnostic codes.
const (
	CodeConfigConflict     = "config_conflict"
	CodeMissingDeclaration = "missing_declaration"
	CodeInvalidRule        = "invalid_rule"
	CodeDuplicateType      = "duplicate_type"
	CodeFetchFailed        = "container_fetch_failed"
	CodeWriteFailed        = "write_failed"
	CodeUnresolvableShape  = "unresolvable_shape"
	CodeDisassembleFailed  = "disassemble_failed"
	CodeResolveFailed      = "resolve_failed"
	CodeInvalidKey         = "invalid_key"
)

// Diagnostics holds all diagnostic information from validation or execution.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this kind of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Type identifies the enriched type this relates to (if any).
	Type string
	// Field identifies the field this relates to (if any).
	Field string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends a diagnostic to the list matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case SeverityError:
		d.Errors = append(d.Errors, diag)
	case SeverityWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, typ, field string) {
	d.Add(Diagnostic{Severity: SeverityError, Code: code, Message: message, Type: typ, Field: field})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, typ, field string) {
	d.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Type: typ, Field: field})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, typ, field string) {
	d.Add(Diagnostic{Severity: SeverityInfo, Code: code, Message: message, Type: typ, Field: field})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// HasWarnings returns true if there are any warning diagnostics.
func (d *Diagnostics) HasWarnings() bool {
	return len(d.Warnings) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// ByCode returns every diagnostic of any severity carrying code.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic

	for _, list := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range list {
			if diag.Code == code {
				out = append(out, diag)
			}
		}
	}

	return out
}

// Error returns a combined error from all error diagnostics, or nil if there are none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Type != "" {
		prefix = append(prefix, "["+d.Type+"]")
	}

	if d.Field != "" {
		prefix = append(prefix, d.Field)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(d.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(d.Suggestions, ", ") + "?)"
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Collector is a Diagnostics guarded for concurrent writers.
type Collector struct {
	mu    sync.Mutex
	diags Diagnostics
}

// Add records a diagnostic.
func (c *Collector) Add(diag Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.diags.Add(diag)
}

// Warn records a warning.
func (c *Collector) Warn(code, message, typ, field string) {
	c.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: message, Type: typ, Field: field})
}

// Snapshot returns a copy of the collected diagnostics.
func (c *Collector) Snapshot() Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out Diagnostics
	out.Merge(c.diags)

	return out
}
