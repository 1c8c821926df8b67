package analyzer

import (
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/types"
)

// bindPattern checks pattern against scrutineeType and declares any
// bindings it introduces into scope (spec §4.J pattern matching).
// Reports a diagnostic and returns false on a structural mismatch
// (wrong variant arity, non-enum matched against an enum pattern,
// etc); callers still proceed to analyze the arm body so a single bad
// pattern doesn't cascade into an unrelated "undefined symbol" storm.
func (a *Analyzer) bindPattern(pattern ast.Pattern, scrutineeType *types.Descriptor, scope *symbols.Table) bool {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.IdentifierPattern:
		a.declareSymbol(scope, &symbols.Entry{
			Name:        p.Name,
			Type:        scrutineeType,
			Kind:        symbols.KindVariable,
			Declaration: p,
			Location:    p.Loc(),
			Flags:       symbols.Flags{Initialized: true},
		})
		return true
	case *ast.LiteralPattern:
		lt := a.analyzeExpression(p.Value, scope)
		if !lt.IsSentinel() && !scrutineeType.IsSentinel() && !lt.Equals(scrutineeType) {
			a.Engine.ReportError(diagnostics.TypeMismatch, p.Loc(),
				"pattern literal has type %s, expected %s", lt.String(), scrutineeType.String())
			return false
		}
		return true
	case *ast.TuplePattern:
		if scrutineeType.Kind() != types.KindTuple {
			a.Engine.ReportError(diagnostics.TypeMismatch, p.Loc(),
				"tuple pattern cannot match %s", scrutineeType.String())
			return false
		}
		elems := scrutineeType.Elements()
		if len(elems) != len(p.Elements) {
			a.Engine.ReportError(diagnostics.InvalidOperation, p.Loc(),
				"tuple pattern has %d element(s), scrutinee has %d", len(p.Elements), len(elems))
			return false
		}
		ok := true
		for i, sub := range p.Elements {
			if !a.bindPattern(sub, elems[i], scope) {
				ok = false
			}
		}
		return ok
	case *ast.EnumVariantPattern:
		return a.bindEnumVariantPattern(p, scrutineeType, scope)
	default:
		a.Engine.ReportError(diagnostics.Internal, pattern.Loc(), "unknown pattern kind")
		return false
	}
}

func (a *Analyzer) bindEnumVariantPattern(p *ast.EnumVariantPattern, scrutineeType *types.Descriptor, scope *symbols.Table) bool {
	base := scrutineeType
	if base.Kind() == types.KindGenericInstance {
		base = base.Base()
	}
	if base.Kind() != types.KindEnum {
		a.Engine.ReportError(diagnostics.TypeMismatch, p.Loc(),
			"variant pattern cannot match non-enum type %s", scrutineeType.String())
		return false
	}
	if p.EnumName != "" && p.EnumName != base.Name() {
		a.Engine.ReportError(diagnostics.TypeMismatch, p.Loc(),
			"pattern names enum %q but scrutinee is %s", p.EnumName, base.Name())
		return false
	}
	variant, ok := types.ResolveVariant(scrutineeType, p.Variant)
	if !ok {
		a.Engine.ReportError(diagnostics.UndefinedSymbol, p.Loc(),
			"%s has no variant %q", base.Name(), p.Variant)
		return false
	}
	switch {
	case variant.Payload == nil && len(p.SubPatterns) > 0:
		a.Engine.ReportError(diagnostics.InvalidOperation, p.Loc(),
			"variant %q carries no payload to destructure", p.Variant)
		return false
	case variant.Payload != nil && len(p.SubPatterns) == 0:
		return true
	case variant.Payload != nil && len(p.SubPatterns) == 1:
		return a.bindPattern(p.SubPatterns[0], variant.Payload, scope)
	case variant.Payload != nil && len(p.SubPatterns) > 1:
		if variant.Payload.Kind() != types.KindTuple {
			a.Engine.ReportError(diagnostics.InvalidOperation, p.Loc(),
				"variant %q carries a single payload, got %d sub-patterns", p.Variant, len(p.SubPatterns))
			return false
		}
		elems := variant.Payload.Elements()
		if len(elems) != len(p.SubPatterns) {
			a.Engine.ReportError(diagnostics.InvalidOperation, p.Loc(),
				"variant %q payload has %d element(s), pattern has %d", p.Variant, len(elems), len(p.SubPatterns))
			return false
		}
		ok := true
		for i, sub := range p.SubPatterns {
			if !a.bindPattern(sub, elems[i], scope) {
				ok = false
			}
		}
		return ok
	}
	return true
}

// checkMatchExhaustiveness enforces spec §4.J: an enum scrutinee
// requires every variant covered or an unguarded wildcard/identifier
// catch-all arm in any position; any other scrutinee type requires a
// catch-all arm.
func (a *Analyzer) checkMatchExhaustiveness(stmt *ast.MatchStmt, scrutineeType *types.Descriptor) {
	if scrutineeType.IsSentinel() {
		return
	}
	hasCatchAll := false
	covered := make(map[string]bool)
	for _, arm := range stmt.Arms {
		if arm.Guard != nil {
			// A guarded arm can reject at runtime, so it never counts
			// toward exhaustiveness on its own.
			continue
		}
		switch pat := arm.Pattern.(type) {
		case *ast.WildcardPattern, *ast.IdentifierPattern:
			hasCatchAll = true
		case *ast.EnumVariantPattern:
			covered[pat.Variant] = true
		}
	}
	if hasCatchAll {
		return
	}

	base := scrutineeType
	if base.Kind() == types.KindGenericInstance {
		base = base.Base()
	}
	if base.Kind() != types.KindEnum {
		a.Engine.ReportError(diagnostics.NonExhaustiveMatch, stmt.Loc(),
			"match over %s is not exhaustive; add a wildcard arm", scrutineeType.String())
		return
	}
	var missing []string
	for _, name := range base.VariantNames() {
		if !covered[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		a.Engine.ReportError(diagnostics.NonExhaustiveMatch, stmt.Loc(),
			"match over %s is not exhaustive; missing variant(s): %v", base.Name(), missing)
	}
}
