// Package diagnostics implements the error & diagnostic engine (spec
// §4.C): a typed error taxonomy, accumulation with a hard cap,
// edit-distance suggestions, and a small rendering façade so the CLI
// and LSP backends (out of scope here) can differ in presentation
// without touching the analyzer.
package diagnostics

// Code is the diagnostic taxonomy from spec §4.C. Not exhaustive by
// design — new analyzer checks add new codes here.
type Code string

const (
	UndefinedSymbol              Code = "UndefinedSymbol"
	DuplicateSymbol               Code = "DuplicateSymbol"
	UndefinedType                Code = "UndefinedType"
	TypeMismatch                 Code = "TypeMismatch"
	MismatchedTypes              Code = "MismatchedTypes"
	NotCallable                  Code = "NotCallable"
	ImmutableModification        Code = "ImmutableModification"
	UninitializedVariable        Code = "UninitializedVariable"
	InvalidDeclaration           Code = "InvalidDeclaration"
	NonExhaustiveMatch           Code = "NonExhaustiveMatch"
	InvalidLifetime              Code = "InvalidLifetime"
	InvalidAnnotation            Code = "InvalidAnnotation"
	InvalidAnnotationContext     Code = "InvalidAnnotationContext"
	ConflictingAnnotations       Code = "ConflictingAnnotations"
	MissingAnnotation            Code = "MissingAnnotation"
	DuplicateAnnotation          Code = "DuplicateAnnotation"
	MutuallyExclusiveAnnotations Code = "MutuallyExclusiveAnnotations"
	SecurityViolation            Code = "SecurityViolation"
	DivisionByZero               Code = "DivisionByZero"
	InvalidLiteral               Code = "InvalidLiteral"
	TypeAnnotationRequired       Code = "TypeAnnotationRequired"
	CircularDependency           Code = "CircularDependency"
	InvalidType                  Code = "InvalidType"
	InvalidOperation              Code = "InvalidOperation"
	UnknownAnnotation            Code = "UnknownAnnotation"
	Internal                     Code = "Internal"
)

// Severity distinguishes errors from warnings (spec §4.C).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}
