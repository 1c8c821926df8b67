package security

import (
	"github.com/funxylang/semcore/internal/ast"
)

// IsVolatileTainted reports whether expr reads through a volatile
// source (spec §4.H volatile_memory): either it resolves to a type
// with Flags.Volatile set, or it is a field/index/deref access whose
// base is itself tainted. Relies on the expression already carrying
// its resolved type (spec §3/§6: the analyzer's expression pass fills
// this slot before any taint check runs).
func IsVolatileTainted(expr ast.Expression) bool {
	if t := expr.ResolvedType(); t != nil && t.Flags.Volatile {
		return true
	}
	switch e := expr.(type) {
	case *ast.FieldAccessExpr:
		return IsVolatileTainted(e.Base)
	case *ast.IndexAccessExpr:
		return IsVolatileTainted(e.Base)
	case *ast.UnaryExpr:
		if e.Op == "*" {
			return IsVolatileTainted(e.Operand)
		}
		return false
	default:
		return false
	}
}

// TaintedAssignmentNote is attached (spec §4.H: "permitted but flagged
// for the code generator") when an assignment's target is
// volatile-tainted, so downstream code generation marks the memory
// access volatile rather than eliding it as dead/redundant.
const TaintedAssignmentNote = "target is volatile-tainted; code generator must not elide this access"
