package diagnostics

import (
	"fmt"

	"github.com/funxylang/semcore/internal/token"
)

// SemanticError is one reported diagnostic (spec §3 SemanticError).
type SemanticError struct {
	Code        Code
	Severity    Severity
	Location    token.SourceLocation
	Message     string
	Node        any // the offending ast.Node, if any; typed `any` to avoid an ast<->diagnostics import cycle
	Suggestions []string
	Note        string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s (%s) @ %s", e.Severity, e.Message, e.Code, e.Location)
}

// New builds a formatted SemanticError at SeverityError.
func New(code Code, loc token.SourceLocation, format string, args ...any) *SemanticError {
	return &SemanticError{
		Code:     code,
		Severity: SeverityError,
		Location: loc,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewWarning builds a formatted SemanticError at SeverityWarning.
func NewWarning(code Code, loc token.SourceLocation, format string, args ...any) *SemanticError {
	e := New(code, loc, format, args...)
	e.Severity = SeverityWarning
	return e
}

// WithSuggestions attaches "did you mean" candidates and returns e for
// chaining at the call site.
func (e *SemanticError) WithSuggestions(suggestions []string) *SemanticError {
	e.Suggestions = suggestions
	return e
}

// WithNote attaches a trailing note line.
func (e *SemanticError) WithNote(note string) *SemanticError {
	e.Note = note
	return e
}
