package analyzer

import (
	"github.com/funxylang/semcore/internal/annotations"
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/security"
	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/types"
)

// analyzeBlockIn enters a child scope for block, analyzes each
// statement in order, and reports an "unreachable statement" warning
// (code InvalidDeclaration) on anything following a diverging
// statement (see statementDiverges) (spec §4.J "block":
// unreachable-after-never tracking is cleared on scope entry and
// carried only within this block, not into nested blocks).
func (a *Analyzer) analyzeBlockIn(block *ast.BlockStmt, parent *symbols.Table) {
	scope := parent.EnterScope(symbols.ScopeBlock)
	savedCurrent := a.Current
	savedUnreachable := a.ctx.InUnreachable
	a.Current = scope
	a.ctx.InUnreachable = false

	for _, stmt := range block.Statements {
		if a.ctx.InUnreachable && a.Config.EnableWarnings {
			a.Engine.ReportWarning(diagnostics.InvalidDeclaration, stmt.Loc(), "unreachable statement")
		}
		a.analyzeStatement(stmt, scope)
		if a.statementDiverges(stmt) {
			a.ctx.InUnreachable = true
		}
	}

	a.Current = savedCurrent
	a.ctx.InUnreachable = savedUnreachable
}

// statementDiverges reports whether stmt never falls through to the
// next statement (any return, with or without a value, or a
// never-typed expression statement), used to flag unreachable code
// that follows it.
func (a *Analyzer) statementDiverges(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.ExpressionStmt:
		t := s.Expr.ResolvedType()
		return t != nil && t.Kind() == types.KindPrimitive && t.PrimitiveKind() == types.Never
	default:
		return false
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement, scope *symbols.Table) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		a.analyzeLet(s, scope)
	case *ast.Assignment:
		a.analyzeAssignment(s, scope)
	case *ast.ReturnStmt:
		a.analyzeReturn(s, scope)
	case *ast.BlockStmt:
		a.analyzeBlockIn(s, scope)
	case *ast.IfStmt:
		a.analyzeIf(s, scope)
	case *ast.IfLetStmt:
		a.analyzeIfLet(s, scope)
	case *ast.MatchStmt:
		a.analyzeMatch(s, scope)
	case *ast.ForStmt:
		a.analyzeFor(s, scope)
	case *ast.SpawnStmt:
		a.analyzeExpression(s.Call, scope)
	case *ast.SpawnWithHandleStmt:
		a.analyzeSpawnWithHandle(s, scope)
	case *ast.UnsafeBlockStmt:
		a.analyzeUnsafeBlock(s, scope)
	case *ast.ExpressionStmt:
		a.analyzeExpression(s.Expr, scope)
	default:
		a.Engine.ReportError(diagnostics.Internal, stmt.Loc(), "unknown statement kind")
	}
}

// --- let / assignment -------------------------------------------------------

func (a *Analyzer) analyzeLet(s *ast.LetStmt, scope *symbols.Table) {
	var declared *types.Descriptor
	if s.TypeAnnotation != nil {
		declared, _ = a.Resolver.ResolveType(s.TypeAnnotation, scope)
	}
	var valueType *types.Descriptor
	if s.Value != nil {
		valueType = a.analyzeExpression(s.Value, scope)
	}

	switch {
	case declared == nil && valueType == nil:
		a.Engine.ReportError(diagnostics.TypeAnnotationRequired, s.Loc(),
			"let %q requires a type annotation or an initializer", s.Name)
		declared = types.ErrorType()
	case declared == nil:
		declared = valueType
	case valueType != nil && !valueType.IsSentinel() && !declared.IsSentinel() && !declared.Equals(valueType):
		a.Engine.ReportError(diagnostics.TypeMismatch, s.Value.Loc(),
			"cannot assign %s to %q of type %s", valueType.String(), s.Name, declared.String())
	}

	a.declareSymbol(scope, &symbols.Entry{
		Name:        s.Name,
		Type:        declared,
		Kind:        symbols.KindVariable,
		Declaration: s,
		ScopeID:     scope.ID(),
		Location:    s.Loc(),
		Flags:       symbols.Flags{Initialized: s.Value != nil, Mutable: s.Mutable},
	})
}

func (a *Analyzer) analyzeAssignment(s *ast.Assignment, scope *symbols.Table) {
	targetType := a.analyzeExpression(s.Target, scope)
	valueType := a.analyzeExpression(s.Value, scope)

	if id, ok := s.Target.(*ast.Identifier); ok {
		if entry, found := scope.LookupSafe(id.Name); found {
			if !entry.Flags.Mutable {
				a.Engine.ReportError(diagnostics.ImmutableModification, s.Loc(),
					"cannot assign to immutable binding %q", id.Name)
			}
			entry.Flags.Initialized = true
		}
	}

	if !targetType.IsSentinel() && !valueType.IsSentinel() && !targetType.Equals(valueType) {
		a.Engine.ReportError(diagnostics.TypeMismatch, s.Value.Loc(),
			"cannot assign %s to a target of type %s", valueType.String(), targetType.String())
	}

	if security.IsVolatileTainted(s.Target) {
		a.Engine.Report(diagnostics.NewWarning(diagnostics.InvalidOperation, s.Loc(),
			"assignment target is volatile-tainted").WithNote(security.TaintedAssignmentNote))
	}
}

func (a *Analyzer) analyzeReturn(s *ast.ReturnStmt, scope *symbols.Table) {
	var actual *types.Descriptor
	if s.Value != nil {
		actual = a.analyzeExpression(s.Value, scope)
	} else {
		actual = types.CreatePrimitive(types.Void)
	}
	want := a.ctx.CurrentReturn
	if want == nil || actual.IsSentinel() || want.IsSentinel() {
		return
	}
	if isVoidLike(want) && s.Value == nil {
		return
	}
	if !want.Equals(actual) {
		a.Engine.ReportError(diagnostics.TypeMismatch, s.Loc(),
			"function %q returns %s, but this statement returns %s", a.ctx.CurrentFnName, want.String(), actual.String())
	}
}

// --- conditionals / match / loops -------------------------------------------

func (a *Analyzer) analyzeIf(s *ast.IfStmt, scope *symbols.Table) {
	condType := a.analyzeExpression(s.Cond, scope)
	if !condType.IsSentinel() && !isBool(condType) {
		a.Engine.ReportError(diagnostics.TypeMismatch, s.Cond.Loc(), "if condition must be bool, got %s", condType.String())
	}
	a.analyzeBlockIn(s.Then, scope)
	if s.Else != nil {
		a.analyzeStatement(s.Else, scope)
	}
}

func (a *Analyzer) analyzeIfLet(s *ast.IfLetStmt, scope *symbols.Table) {
	valueType := a.analyzeExpression(s.Value, scope)
	thenScope := scope.EnterScope(symbols.ScopeMatchArm)
	if !valueType.IsSentinel() {
		a.bindPattern(s.Pattern, valueType, thenScope)
	}
	a.analyzeBlockIn(s.Then, thenScope)
	if s.Else != nil {
		a.analyzeStatement(s.Else, scope)
	}
}

func (a *Analyzer) analyzeMatch(s *ast.MatchStmt, scope *symbols.Table) {
	scrutineeType := a.analyzeExpression(s.Scrutinee, scope)
	for _, arm := range s.Arms {
		armScope := scope.EnterScope(symbols.ScopeMatchArm)
		if !scrutineeType.IsSentinel() {
			a.bindPattern(arm.Pattern, scrutineeType, armScope)
		}
		if arm.Guard != nil {
			guardType := a.analyzeExpression(arm.Guard, armScope)
			if !guardType.IsSentinel() && !isBool(guardType) {
				a.Engine.ReportError(diagnostics.TypeMismatch, arm.Guard.Loc(),
					"match guard must be bool, got %s", guardType.String())
			}
		}
		a.analyzeBlockIn(arm.Body, armScope)
	}
	a.checkMatchExhaustiveness(s, scrutineeType)
}

func (a *Analyzer) analyzeFor(s *ast.ForStmt, scope *symbols.Table) {
	iterType := a.analyzeExpression(s.Iterable, scope)
	var elemType *types.Descriptor
	switch {
	case iterType.IsSentinel():
		elemType = types.ErrorType()
	case iterType.Kind() == types.KindSlice || iterType.Kind() == types.KindArray:
		elemType = iterType.Element()
	default:
		a.Engine.ReportError(diagnostics.TypeMismatch, s.Iterable.Loc(),
			"cannot iterate over %s", iterType.String())
		elemType = types.ErrorType()
	}

	loopScope := scope.EnterScope(symbols.ScopeBlock)
	a.declareSymbol(loopScope, &symbols.Entry{
		Name:     s.Var,
		Type:     elemType,
		Kind:     symbols.KindVariable,
		Location: s.Loc(),
		Flags:    symbols.Flags{Initialized: true},
	})
	a.ctx.LoopDepth++
	a.analyzeBlockIn(s.Body, loopScope)
	a.ctx.LoopDepth--
}

// --- spawn / unsafe ----------------------------------------------------------

func (a *Analyzer) analyzeSpawnWithHandle(s *ast.SpawnWithHandleStmt, scope *symbols.Table) {
	resultType := a.analyzeExpression(s.Call, scope)
	handle := types.CreateTaskHandle(resultType)
	a.declareSymbol(scope, &symbols.Entry{
		Name:     s.Name,
		Type:     handle,
		Kind:     symbols.KindVariable,
		Location: s.Loc(),
		Flags:    symbols.Flags{Initialized: true},
	})
}

func (a *Analyzer) analyzeUnsafeBlock(s *ast.UnsafeBlockStmt, scope *symbols.Table) {
	a.validateAnnotations(s, annotations.CtxStatement)
	savedUnsafe := a.ctx.InUnsafe
	a.ctx.InUnsafe = true
	a.analyzeBlockIn(s.Body, scope)
	a.ctx.InUnsafe = savedUnsafe
}
