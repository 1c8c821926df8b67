package diagnostics

import (
	"fmt"
	"sort"
	"sync"

	"github.com/funxylang/semcore/internal/token"
)

// Engine accumulates diagnostics for one analyzer run, deduplicating
// by position+code the way the teacher's walker.addError does, and
// enforces the translation-unit-fatal max_errors cutoff (spec §5
// Cancellation, §7 band 3).
type Engine struct {
	mu         sync.Mutex
	maxErrors  int // 0 means unbounded
	byKey      map[string]*SemanticError
	order      []*SemanticError
	enableWarn bool

	errorCount   int
	warningCount int
	aborted      bool
}

// NewEngine builds an Engine. maxErrors <= 0 means unbounded.
// enableWarnings gates whether ReportWarning actually records anything
// (spec §4.C "emission may be gated by configuration").
func NewEngine(maxErrors int, enableWarnings bool) *Engine {
	return &Engine{
		maxErrors:  maxErrors,
		byKey:      make(map[string]*SemanticError),
		enableWarn: enableWarnings,
	}
}

func key(e *SemanticError) string {
	return fmt.Sprintf("%d:%d:%s", e.Location.Line, e.Location.Column, e.Code)
}

// Report records an error diagnostic. Returns false once the hard
// error limit has been reached, signaling the caller to short-circuit
// at the next statement boundary (spec §5 Cancellation).
func (e *Engine) Report(err *SemanticError) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err.Severity == SeverityWarning && !e.enableWarn {
		return !e.aborted
	}

	k := key(err)
	if _, exists := e.byKey[k]; !exists {
		e.order = append(e.order, err)
	}
	e.byKey[k] = err

	if err.Severity == SeverityError {
		e.errorCount++
		if e.maxErrors > 0 && e.errorCount >= e.maxErrors {
			e.aborted = true
		}
	} else {
		e.warningCount++
	}
	return !e.aborted
}

// ReportError is a convenience constructor+report in one call.
func (e *Engine) ReportError(code Code, loc token.SourceLocation, format string, args ...any) bool {
	return e.Report(New(code, loc, format, args...))
}

// ReportWarning is the warning-severity analog of ReportError.
func (e *Engine) ReportWarning(code Code, loc token.SourceLocation, format string, args ...any) bool {
	return e.Report(NewWarning(code, loc, format, args...))
}

// Aborted reports whether the error count has reached max_errors.
func (e *Engine) Aborted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.aborted
}

// Errors returns all accumulated diagnostics sorted by location for
// deterministic output (spec §8 idempotence).
func (e *Engine) Errors() []*SemanticError {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]*SemanticError, len(e.order))
	copy(result, e.order)
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Location, result[j].Location
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return result[i].Code < result[j].Code
	})
	return result
}

// Statistics is the per-engine atomic-counter snapshot (spec §5
// "Statistics counters").
type Statistics struct {
	ErrorCount   int
	WarningCount int
}

// Stats returns a point-in-time snapshot of error/warning counts.
func (e *Engine) Stats() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Statistics{ErrorCount: e.errorCount, WarningCount: e.warningCount}
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (e *Engine) HasErrors() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errorCount > 0
}
