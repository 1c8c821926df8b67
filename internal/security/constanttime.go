// Package security implements the security sub-analyzer (spec §4.H):
// a constant-time body walker and a volatile-memory taint analysis.
// Grounded on the teacher's recursive-descent expression-validation
// shape (inference_control.go/expressions.go: switch over AST node
// kind, recurse, accumulate diagnostics), repurposed here to prove
// constant-time/volatile-taint properties instead of inferring types.
package security

import (
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/diagnostics"
)

// ConstantTimeCallees reports whether a callee expression names a
// function the caller has proven (or trusts, per spec §4.H "initial
// implementation ... trusts the callee annotation" and §9 Open
// Question on inter-procedural propagation) to be constant_time.
// Supplied by the analyzer, which owns the symbol table.
type ConstantTimeCallees interface {
	IsConstantTime(callee ast.Expression) bool
}

// CheckConstantTimeStatement checks stmt, one statement of a
// constant_time-annotated function or block body (recursing into
// nested blocks), rejecting every if, if-let, match and for statement
// whatever its condition (spec §4.H).
func CheckConstantTimeStatement(stmt ast.Statement, callees ConstantTimeCallees, eng *diagnostics.Engine) {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		eng.ReportError(diagnostics.SecurityViolation, s.Loc(),
			"constant_time function must not contain data-dependent control flow (if)")
	case *ast.IfLetStmt:
		eng.ReportError(diagnostics.SecurityViolation, s.Loc(),
			"constant_time function must not contain data-dependent control flow (if-let)")
	case *ast.MatchStmt:
		eng.ReportError(diagnostics.SecurityViolation, s.Loc(),
			"constant_time function must not contain data-dependent control flow (match)")
	case *ast.ForStmt:
		eng.ReportError(diagnostics.SecurityViolation, s.Loc(),
			"constant_time function must not contain data-dependent control flow (for)")
	case *ast.ReturnStmt:
		if s.Value != nil {
			CheckConstantTimeExpression(s.Value, callees, eng)
		}
	case *ast.BlockStmt:
		for _, inner := range s.Statements {
			CheckConstantTimeStatement(inner, callees, eng)
		}
	case *ast.LetStmt:
		if s.Value != nil {
			CheckConstantTimeExpression(s.Value, callees, eng)
		}
	case *ast.Assignment:
		CheckConstantTimeExpression(s.Target, callees, eng)
		CheckConstantTimeExpression(s.Value, callees, eng)
	case *ast.ExpressionStmt:
		CheckConstantTimeExpression(s.Expr, callees, eng)
	case *ast.UnsafeBlockStmt:
		CheckConstantTimeStatement(s.Body, callees, eng)
	default:
		eng.ReportError(diagnostics.SecurityViolation, stmt.Loc(),
			"statement kind is not permitted inside a constant_time body")
	}
}

// CheckConstantTimeExpression validates expr against the allowed
// expression set (spec §4.H): literals, identifiers, unary, cast,
// field access, non div/mod binary, tuple/array/struct literal
// elements, and calls to other constant_time-trusted functions.
// Index access requires an integer-literal index; div/mod require a
// literal-constant right operand. Unknown kinds are rejected.
func CheckConstantTimeExpression(expr ast.Expression, callees ConstantTimeCallees, eng *diagnostics.Engine) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.StringLiteral,
		*ast.BoolLiteral, *ast.CharLiteral, *ast.UnitLiteral, *ast.Identifier:
		return
	case *ast.UnaryExpr:
		CheckConstantTimeExpression(e.Operand, callees, eng)
	case *ast.CastExpr:
		CheckConstantTimeExpression(e.Value, callees, eng)
	case *ast.FieldAccessExpr:
		CheckConstantTimeExpression(e.Base, callees, eng)
	case *ast.BinaryExpr:
		checkConstantTimeBinary(e, callees, eng)
	case *ast.IndexAccessExpr:
		CheckConstantTimeExpression(e.Base, callees, eng)
		if !isIntegerLiteral(e.Index) {
			eng.ReportError(diagnostics.SecurityViolation, e.Loc(),
				"constant_time index access requires a literal integer index")
		}
	case *ast.TupleLiteralExpr:
		for _, el := range e.Elements {
			CheckConstantTimeExpression(el, callees, eng)
		}
	case *ast.ArrayLiteralExpr:
		for _, el := range e.Elements {
			CheckConstantTimeExpression(el, callees, eng)
		}
	case *ast.StructLiteralExpr:
		for _, f := range e.Fields {
			CheckConstantTimeExpression(f.Value, callees, eng)
		}
	case *ast.CallExpr:
		if callees == nil || !callees.IsConstantTime(e.Callee) {
			eng.ReportError(diagnostics.SecurityViolation, e.Loc(),
				"call target is not itself annotated constant_time")
		}
		for _, a := range e.Args {
			CheckConstantTimeExpression(a, callees, eng)
		}
	default:
		eng.ReportError(diagnostics.SecurityViolation, expr.Loc(),
			"expression kind is not permitted inside a constant_time body")
	}
}

func checkConstantTimeBinary(e *ast.BinaryExpr, callees ConstantTimeCallees, eng *diagnostics.Engine) {
	CheckConstantTimeExpression(e.Left, callees, eng)
	if e.Op == "/" || e.Op == "%" {
		if !isLiteralConstant(e.Right) {
			eng.ReportError(diagnostics.SecurityViolation, e.Loc(),
				"constant_time division/modulo requires a literal constant divisor")
		}
		return
	}
	CheckConstantTimeExpression(e.Right, callees, eng)
}

func isIntegerLiteral(e ast.Expression) bool {
	_, ok := e.(*ast.IntegerLiteral)
	return ok
}

func isLiteralConstant(e ast.Expression) bool {
	switch e.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral:
		return true
	default:
		return false
	}
}
