package annotations

import (
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/token"
	"github.com/funxylang/semcore/internal/types"
)

// Site describes the annotation-carrying position being validated
// (spec §4.G pipeline steps 2, 6, 7).
type Site struct {
	Context Context
	Loc     token.SourceLocation

	// ParamType is the resolved type of the annotated parameter or
	// return type, used by the FFI dependency check (step 6). Nil
	// when not applicable.
	ParamType *types.Descriptor

	// RequiresNonDeterministic is set by the caller for AST positions
	// that spec's tier-2 concurrency rule covers (e.g. a spawn
	// statement), since only the caller knows which statement kinds
	// are tier-2 primitives (step 7).
	RequiresNonDeterministic bool

	// IsReturnPosition / IsParameterPosition distinguish the two FFI
	// passes an extern/function declaration runs (spec §4.G "FFI
	// sub-rules").
	IsReturnPosition    bool
	IsParameterPosition bool
}

// isPointerLike reports whether t is ffi-transfer-eligible (spec
// §4.G step 6: "FFI transfer on a parameter implies the type is
// pointer-like").
func isPointerLike(t *types.Descriptor) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case types.KindPointer, types.KindSlice:
		return true
	case types.KindPrimitive:
		return t.PrimitiveKind() == types.String
	default:
		return false
	}
}

// Validate runs the full per-site pipeline (spec §4.G steps 1-7) over
// every annotation at one site, reporting diagnostics via eng.
// Returns the subset of names that passed step 1-2 (name+context
// valid), for callers that want to act on recognized tags afterward.
func Validate(site Site, siteAnns []ast.Annotation, eng *diagnostics.Engine) map[string]bool {
	recognized := make(map[string]bool)
	seen := make(map[string]int) // name -> count, for duplicate detection (step 4)
	var names []string

	for _, ann := range siteAnns {
		def, ok := TagRegistry[ann.Name]
		if !ok {
			eng.ReportError(diagnostics.UnknownAnnotation, ann.Loc(), "unknown annotation %q", ann.Name)
			continue
		}
		if def.ValidContexts&site.Context == 0 {
			eng.ReportError(diagnostics.InvalidAnnotationContext, ann.Loc(),
				"annotation %q is not valid in this context", ann.Name)
			continue
		}
		validateParams(ann, def, eng)

		seen[ann.Name]++
		if seen[ann.Name] > 1 && !allowsDuplicates(ann.Name) {
			eng.ReportError(diagnostics.DuplicateAnnotation, ann.Loc(),
				"annotation %q is already present on this declaration", ann.Name)
			continue
		}

		recognized[ann.Name] = true
		names = append(names, ann.Name)
	}

	validateConflicts(names, siteAnns, eng)
	validateFFIDependencies(site, recognized, eng)

	if site.RequiresNonDeterministic && !recognized[TagNonDeterministic] {
		eng.ReportError(diagnostics.MissingAnnotation, site.Loc,
			"this construct requires the %q annotation", TagNonDeterministic)
	}

	return recognized
}

// allowsDuplicates reports whether a tag may legally appear more than
// once at one site (spec §4.G step 4: "at most one ... except where
// explicitly allowed"). No current tag opts in; kept as an extension
// point matching the spec's own hedge.
func allowsDuplicates(name string) bool {
	return false
}

func validateParams(ann ast.Annotation, def TagDef, eng *diagnostics.Engine) {
	schema := ParamSchemas[ann.Name]
	if def.RequiresParams && len(ann.Args) == 0 {
		eng.ReportError(diagnostics.InvalidAnnotation, ann.Loc(),
			"annotation %q requires at least one parameter", ann.Name)
		return
	}
	if schema == nil {
		return
	}
	byName := make(map[string]ast.AnnotationArg)
	for i, arg := range ann.Args {
		name := arg.Name
		if name == "" && i < len(schema) {
			name = schema[i].Name
		}
		byName[name] = arg
	}
	for _, spec := range schema {
		arg, present := byName[spec.Name]
		if !present {
			if spec.Required {
				eng.ReportError(diagnostics.InvalidAnnotation, ann.Loc(),
					"annotation %q is missing required parameter %q", ann.Name, spec.Name)
			}
			continue
		}
		validateParamValue(ann, spec, arg, eng)
	}
}

func validateParamValue(ann ast.Annotation, spec ParamSpec, arg ast.AnnotationArg, eng *diagnostics.Engine) {
	switch spec.Kind {
	case "int":
		v, ok := arg.Value.(int64)
		if !ok {
			eng.ReportError(diagnostics.InvalidAnnotation, ann.Loc(),
				"parameter %q of %q must be an integer", spec.Name, ann.Name)
			return
		}
		if spec.Validation.HasIntRange && (v < spec.Validation.IntMin || v > spec.Validation.IntMax) {
			eng.ReportError(diagnostics.InvalidAnnotation, ann.Loc(),
				"parameter %q of %q must be in range %d..=%d, got %d",
				spec.Name, ann.Name, spec.Validation.IntMin, spec.Validation.IntMax, v)
		}
	case "string":
		v, ok := arg.Value.(string)
		if !ok {
			eng.ReportError(diagnostics.InvalidAnnotation, ann.Loc(),
				"parameter %q of %q must be a string", spec.Name, ann.Name)
			return
		}
		if spec.Validation.HasStringLenRule {
			if len(v) < spec.Validation.StringMinLen || (spec.Validation.StringMaxLen > 0 && len(v) > spec.Validation.StringMaxLen) {
				eng.ReportError(diagnostics.InvalidAnnotation, ann.Loc(),
					"parameter %q of %q must be between %d and %d characters",
					spec.Name, ann.Name, spec.Validation.StringMinLen, spec.Validation.StringMaxLen)
			}
		}
	case "bool":
		if _, ok := arg.Value.(bool); !ok {
			eng.ReportError(diagnostics.InvalidAnnotation, ann.Loc(),
				"parameter %q of %q must be a boolean", spec.Name, ann.Name)
		}
	case "enum":
		v, ok := arg.Value.(string)
		if !ok || !contains(spec.Validation.EnumValues, v) {
			eng.ReportError(diagnostics.InvalidAnnotation, ann.Loc(),
				"parameter %q of %q must be one of %v", spec.Name, ann.Name, spec.Validation.EnumValues)
		}
	}
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func validateConflicts(names []string, siteAnns []ast.Annotation, eng *diagnostics.Engine) {
	locOf := func(name string) token.SourceLocation {
		for _, a := range siteAnns {
			if a.Name == name {
				return a.Loc()
			}
		}
		return token.SourceLocation{}
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			rule, ok := Conflict(names[i], names[j])
			if !ok {
				continue
			}
			code := diagnostics.ConflictingAnnotations
			if rule.Type == ConflictMutuallyExclusive {
				code = diagnostics.MutuallyExclusiveAnnotations
			}
			eng.Report(diagnostics.New(code, locOf(names[j]),
				"%q conflicts with %q: %s", names[i], names[j], rule.Hint))
		}
	}
}

// validateFFIDependencies implements spec §4.G's FFI sub-rules:
// return positions accept only transfer_full|transfer_none;
// parameters additionally accept borrowed; an ffi-transfer annotation
// implies the annotated type is pointer-like.
func validateFFIDependencies(site Site, recognized map[string]bool, eng *diagnostics.Engine) {
	hasTransfer := recognized[TagTransferFull] || recognized[TagTransferNone]
	hasBorrowed := recognized[TagBorrowed]

	if site.IsReturnPosition && hasBorrowed {
		eng.ReportError(diagnostics.InvalidAnnotationContext, site.Loc,
			"%q is not valid on a return type; use %q or %q", TagBorrowed, TagTransferFull, TagTransferNone)
	}
	if (hasTransfer || hasBorrowed) && site.ParamType != nil && !isPointerLike(site.ParamType) {
		eng.ReportError(diagnostics.InvalidAnnotation, site.Loc,
			"FFI transfer annotations require a pointer-like type, got %s", site.ParamType.String())
	}
}
