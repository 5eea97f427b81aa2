package plan

import (
	"errors"
	"fmt"
	"strings"

	"field-assembler/internal/diagnostic"
)

var (
	// ErrConfigConflict is returned when a field is both assembled and disassembled.
	ErrConfigConflict = errors.New("config conflict")
	// ErrMissingDeclaration is returned when a declared field or component cannot be located.
	ErrMissingDeclaration = errors.New("missing declaration")
)

// ResolveError describes why resolving a type failed.
type ResolveError struct {
	// Type is the type being resolved.
	Type string
	// Field is the rule's field, if any.
	Field string
	// Detail says what was wrong.
	Detail string
	// Err is ErrConfigConflict or ErrMissingDeclaration.
	Err error
	// Suggestions are close matches for a missing name.
	Suggestions []string
}

func (e *ResolveError) Error() string {
	var b strings.Builder

	b.WriteString("resolve ")
	b.WriteString(e.Type)

	if e.Field != "" {
		b.WriteString(".")
		b.WriteString(e.Field)
	}

	fmt.Fprintf(&b, ": %v", e.Err)

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if len(e.Suggestions) > 0 {
		b.WriteString(" (did you mean " + strings.Join(e.Suggestions, ", ") + "?)")
	}

	return b.String()
}

// Unwrap returns the sentinel error.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Diagnostic converts the error to a diagnostic entry.
func (e *ResolveError) Diagnostic() diagnostic.Diagnostic {
	code := diagnostic.CodeResolveFailed

	switch {
	case errors.Is(e.Err, ErrConfigConflict):
		code = diagnostic.CodeConfigConflict
	case errors.Is(e.Err, ErrMissingDeclaration):
		code = diagnostic.CodeMissingDeclaration
	}

	return diagnostic.Diagnostic{
		Severity:    diagnostic.SeverityError,
		Code:        code,
		Message:     e.Detail,
		Type:        e.Type,
		Field:       e.Field,
		Suggestions: e.Suggestions,
	}
}

// AsDiagnostic converts any resolution error to a diagnostic entry.
func AsDiagnostic(err error) diagnostic.Diagnostic {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Diagnostic()
	}

	return diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     diagnostic.CodeResolveFailed,
		Message:  err.Error(),
	}
}

func conflict(typ, field, detail string) error {
	return &ResolveError{Type: typ, Field: field, Detail: detail, Err: ErrConfigConflict}
}

func missing(typ, field, detail string, suggestions []string) error {
	return &ResolveError{Type: typ, Field: field, Detail: detail, Err: ErrMissingDeclaration, Suggestions: suggestions}
}
