// Package consteval implements the compile-time constant evaluator
// (spec §4.F): literals, identifier references to SYMBOL_CONST,
// binary/unary operators, and sizeof(T), plus self-reference cycle
// detection and declared-type range enforcement. Grounded on the
// teacher's per-literal-kind dispatch shape (inference_literals.go)
// and on the ApplyWithCycleCheck cycle-check idiom, repurposed here as
// a walk of the value expression that detects const-definition
// self-reference instead of substitution cycles.
package consteval

import (
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/constval"
	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/token"
	"github.com/funxylang/semcore/internal/types"
)

// TypeResolver is the narrow slice of the type resolver (spec §4.E)
// the evaluator needs for `sizeof(T)`. Defined here rather than
// importing internal/resolver directly to avoid an import cycle: the
// resolver imports this package to evaluate array-size expressions,
// so this package depends only on the resolver's *shape*, satisfied
// by dependency injection at analyzer wiring time.
type TypeResolver interface {
	ResolveType(node ast.Type, scope *symbols.Table) (*types.Descriptor, bool)
}

// Evaluator evaluates compile-time-constant expressions (spec §4.F).
type Evaluator struct {
	Engine   *diagnostics.Engine
	Resolver TypeResolver // nil is fine; sizeof(T) then yields a conservative default

	// inProgress records the name whose value EvaluateConstDecl is
	// evaluating, for the duration of that call. Self-reference itself
	// is rejected by EvaluateConstDecl walking the value expression for
	// that name (containsIdentifier), not by this map (spec §4.F "walk
	// the expression tree for identifier references to the name being
	// defined"). Only direct self-reference is detected; see DESIGN.md
	// for the mutual-cycle Open Question.
	inProgress map[string]bool
}

// New builds an Evaluator reporting into eng.
func New(eng *diagnostics.Engine, resolver TypeResolver) *Evaluator {
	return &Evaluator{Engine: eng, Resolver: resolver, inProgress: make(map[string]bool)}
}

// EvaluateConstDecl evaluates the value expression of a const named
// name, guarding against direct self-reference.
func (e *Evaluator) EvaluateConstDecl(name string, value ast.Expression, scope *symbols.Table) (constval.ConstValue, bool) {
	if containsIdentifier(value, name) {
		e.Engine.ReportError(diagnostics.InvalidOperation, value.Loc(),
			"const %q cannot reference itself in its own definition", name)
		return constval.ConstValue{}, false
	}
	e.inProgress[name] = true
	defer delete(e.inProgress, name)
	return e.Evaluate(value, scope)
}

func containsIdentifier(expr ast.Expression, name string) bool {
	switch n := expr.(type) {
	case *ast.Identifier:
		return n.Name == name
	case *ast.BinaryExpr:
		return containsIdentifier(n.Left, name) || containsIdentifier(n.Right, name)
	case *ast.UnaryExpr:
		return containsIdentifier(n.Operand, name)
	case *ast.CastExpr:
		return containsIdentifier(n.Value, name)
	case *ast.TupleLiteralExpr:
		for _, el := range n.Elements {
			if containsIdentifier(el, name) {
				return true
			}
		}
		return false
	case *ast.ArrayLiteralExpr:
		for _, el := range n.Elements {
			if containsIdentifier(el, name) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Evaluate evaluates expr in scope, returning the folded ConstValue.
// On failure a diagnostic has already been reported and ok is false.
func (e *Evaluator) Evaluate(expr ast.Expression, scope *symbols.Table) (constval.ConstValue, bool) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return constval.Int(n.Value).WithLocation(n.Loc()), true
	case *ast.FloatLiteral:
		return constval.Flt64(n.Value).WithLocation(n.Loc()), true
	case *ast.StringLiteral:
		return constval.Str_(n.Value).WithLocation(n.Loc()), true
	case *ast.BoolLiteral:
		return constval.Bool_(n.Value).WithLocation(n.Loc()), true
	case *ast.CharLiteral:
		return constval.Int(int64(n.Value)).WithLocation(n.Loc()), true
	case *ast.Identifier:
		return e.evalIdentifier(n, scope)
	case *ast.UnaryExpr:
		return e.evalUnary(n, scope)
	case *ast.BinaryExpr:
		return e.evalBinary(n, scope)
	case *ast.CallExpr:
		return e.evalSizeof(n, scope)
	default:
		e.Engine.ReportError(diagnostics.InvalidOperation, expr.Loc(),
			"expression is not a compile-time constant")
		return constval.ConstValue{}, false
	}
}

func (e *Evaluator) evalIdentifier(id *ast.Identifier, scope *symbols.Table) (constval.ConstValue, bool) {
	entry, ok := scope.LookupSafe(id.Name)
	if !ok {
		e.Engine.ReportError(diagnostics.UndefinedSymbol, id.Loc(), "undefined symbol %q", id.Name)
		return constval.ConstValue{}, false
	}
	if entry.Kind != symbols.KindConst || entry.ConstValue == nil {
		e.Engine.ReportError(diagnostics.InvalidOperation, id.Loc(),
			"%q is not a compile-time constant", id.Name)
		return constval.ConstValue{}, false
	}
	return entry.ConstValue.DeepCopy(), true
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr, scope *symbols.Table) (constval.ConstValue, bool) {
	v, ok := e.Evaluate(n.Operand, scope)
	if !ok {
		return constval.ConstValue{}, false
	}
	switch n.Op {
	case "-":
		switch v.Kind {
		case constval.Integer:
			return constval.Int(-v.Int).WithLocation(n.Loc()), true
		case constval.Float:
			return constval.Flt64(-v.Flt).WithLocation(n.Loc()), true
		}
	case "!":
		if v.Kind == constval.Boolean {
			return constval.Bool_(!v.Bool).WithLocation(n.Loc()), true
		}
	case "~":
		if v.Kind == constval.Integer {
			return constval.Int(^v.Int).WithLocation(n.Loc()), true
		}
	}
	e.Engine.ReportError(diagnostics.InvalidOperation, n.Loc(),
		"operator %q is not valid on a %s constant", n.Op, kindName(v.Kind))
	return constval.ConstValue{}, false
}

func kindName(k constval.ValueKind) string {
	switch k {
	case constval.Integer:
		return "integer"
	case constval.Float:
		return "float"
	case constval.String:
		return "string"
	case constval.Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

func (e *Evaluator) evalBinary(n *ast.BinaryExpr, scope *symbols.Table) (constval.ConstValue, bool) {
	l, ok := e.Evaluate(n.Left, scope)
	if !ok {
		return constval.ConstValue{}, false
	}
	r, ok := e.Evaluate(n.Right, scope)
	if !ok {
		return constval.ConstValue{}, false
	}

	switch n.Op {
	case "&&", "||":
		if l.Kind != constval.Boolean || r.Kind != constval.Boolean {
			break
		}
		if n.Op == "&&" {
			return constval.Bool_(l.Bool && r.Bool).WithLocation(n.Loc()), true
		}
		return constval.Bool_(l.Bool || r.Bool).WithLocation(n.Loc()), true
	case "==", "!=":
		if l.Kind != r.Kind {
			break
		}
		eq := constval.Equal(l, r)
		if n.Op == "!=" {
			eq = !eq
		}
		return constval.Bool_(eq).WithLocation(n.Loc()), true
	case "<", "<=", ">", ">=":
		return e.evalComparison(n, l, r)
	case "+", "-", "*", "/", "%", "&", "|", "^", "<<", ">>":
		return e.evalArith(n, l, r)
	}
	e.Engine.ReportError(diagnostics.InvalidOperation, n.Loc(),
		"operator %q is not valid between %s and %s constants", n.Op, kindName(l.Kind), kindName(r.Kind))
	return constval.ConstValue{}, false
}

func (e *Evaluator) evalComparison(n *ast.BinaryExpr, l, r constval.ConstValue) (constval.ConstValue, bool) {
	var cmp int
	switch {
	case l.Kind == constval.Integer && r.Kind == constval.Integer:
		cmp = cmpInt(l.Int, r.Int)
	case l.Kind == constval.Float && r.Kind == constval.Float:
		cmp = cmpFloat(l.Flt, r.Flt)
	default:
		e.Engine.ReportError(diagnostics.InvalidOperation, n.Loc(),
			"operator %q requires two numeric constants of the same kind", n.Op)
		return constval.ConstValue{}, false
	}
	var result bool
	switch n.Op {
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return constval.Bool_(result).WithLocation(n.Loc()), true
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (e *Evaluator) evalArith(n *ast.BinaryExpr, l, r constval.ConstValue) (constval.ConstValue, bool) {
	if l.Kind == constval.String && r.Kind == constval.String {
		e.Engine.ReportError(diagnostics.InvalidOperation, n.Loc(),
			"strings only support == and != in a constant expression")
		return constval.ConstValue{}, false
	}
	if l.Kind == constval.Integer && r.Kind == constval.Integer {
		return e.evalIntArith(n, l.Int, r.Int)
	}
	if l.Kind == constval.Float && r.Kind == constval.Float {
		return e.evalFloatArith(n, l.Flt, r.Flt)
	}
	e.Engine.ReportError(diagnostics.InvalidOperation, n.Loc(),
		"operator %q requires two numeric constants of the same kind, got %s and %s",
		n.Op, kindName(l.Kind), kindName(r.Kind))
	return constval.ConstValue{}, false
}

func (e *Evaluator) evalIntArith(n *ast.BinaryExpr, l, r int64) (constval.ConstValue, bool) {
	switch n.Op {
	case "+":
		return constval.Int(l + r).WithLocation(n.Loc()), true
	case "-":
		return constval.Int(l - r).WithLocation(n.Loc()), true
	case "*":
		return constval.Int(l * r).WithLocation(n.Loc()), true
	case "/":
		if r == 0 {
			e.Engine.ReportError(diagnostics.DivisionByZero, n.Loc(), "division by zero in constant expression")
			return constval.ConstValue{}, false
		}
		return constval.Int(l / r).WithLocation(n.Loc()), true
	case "%":
		if r == 0 {
			e.Engine.ReportError(diagnostics.DivisionByZero, n.Loc(), "modulo by zero in constant expression")
			return constval.ConstValue{}, false
		}
		return constval.Int(l % r).WithLocation(n.Loc()), true
	case "&":
		return constval.Int(l & r).WithLocation(n.Loc()), true
	case "|":
		return constval.Int(l | r).WithLocation(n.Loc()), true
	case "^":
		return constval.Int(l ^ r).WithLocation(n.Loc()), true
	case "<<":
		return constval.Int(l << uint64(r)).WithLocation(n.Loc()), true
	case ">>":
		return constval.Int(l >> uint64(r)).WithLocation(n.Loc()), true
	}
	e.Engine.ReportError(diagnostics.InvalidOperation, n.Loc(), "unknown integer operator %q", n.Op)
	return constval.ConstValue{}, false
}

func (e *Evaluator) evalFloatArith(n *ast.BinaryExpr, l, r float64) (constval.ConstValue, bool) {
	switch n.Op {
	case "+":
		return constval.Flt64(l + r).WithLocation(n.Loc()), true
	case "-":
		return constval.Flt64(l - r).WithLocation(n.Loc()), true
	case "*":
		return constval.Flt64(l * r).WithLocation(n.Loc()), true
	case "/":
		if r == 0 {
			e.Engine.ReportError(diagnostics.DivisionByZero, n.Loc(), "division by zero in constant expression")
			return constval.ConstValue{}, false
		}
		return constval.Flt64(l / r).WithLocation(n.Loc()), true
	}
	e.Engine.ReportError(diagnostics.InvalidOperation, n.Loc(),
		"operator %q is not valid between two float constants", n.Op)
	return constval.ConstValue{}, false
}

// sizeofTable is the table-driven primitive layout spec §4.F
// describes ("table-driven for primitives"). Kept separate from
// types.primitiveLayout (unexported in that package) since sizeof is
// a constant-evaluator concern, not a descriptor-construction one.
var sizeofTable = map[types.PrimitiveKind]uint64{
	types.Void: 0, types.Never: 0,
	types.Bool: 1, types.I8: 1, types.U8: 1,
	types.I16: 2, types.U16: 2,
	types.I32: 4, types.U32: 4, types.F32: 4, types.Char: 4,
	types.I64: 8, types.U64: 8, types.ISize: 8, types.USize: 8, types.F64: 8,
	types.I128: 16, types.U128: 16,
	types.String: 16,
}

// pointerSize is the target pointer width in bytes.
const pointerSize = 8

// sizeofDescriptor computes `sizeof` for a resolved descriptor per
// spec §4.F: table-driven for primitives, pointer = pointer-size,
// slice = 2x pointer-size, other aggregates get a conservative
// default (spec §9 Open Question: "production quality requires a
// layout pass").
func sizeofDescriptor(d *types.Descriptor) uint64 {
	switch d.Kind() {
	case types.KindPrimitive:
		if sz, ok := sizeofTable[d.PrimitiveKind()]; ok {
			return sz
		}
		return 0
	case types.KindPointer:
		return pointerSize
	case types.KindSlice:
		return 2 * pointerSize
	default:
		if d.Size > 0 {
			return d.Size
		}
		// Conservative default for aggregates whose layout has not
		// been computed (struct/enum/array/tuple/generic-instance).
		return pointerSize
	}
}

func (e *Evaluator) evalSizeof(call *ast.CallExpr, scope *symbols.Table) (constval.ConstValue, bool) {
	callee, ok := call.Callee.(*ast.Identifier)
	if !ok || callee.Name != "sizeof" || len(call.Args) != 1 {
		e.Engine.ReportError(diagnostics.InvalidOperation, call.Loc(),
			"expression is not a compile-time constant")
		return constval.ConstValue{}, false
	}
	typeIdent, ok := call.Args[0].(*ast.Identifier)
	if !ok {
		e.Engine.ReportError(diagnostics.InvalidOperation, call.Loc(), "sizeof expects a type name")
		return constval.ConstValue{}, false
	}
	if e.Resolver == nil {
		return constval.Int(int64(pointerSize)).WithLocation(call.Loc()), true
	}
	node := &ast.BaseTypeNode{Name: typeIdent.Name}
	desc, ok := e.Resolver.ResolveType(node, scope)
	if !ok {
		e.Engine.ReportError(diagnostics.UndefinedType, call.Loc(), "undefined type %q in sizeof", typeIdent.Name)
		return constval.ConstValue{}, false
	}
	return constval.Int(int64(sizeofDescriptor(desc))).WithLocation(call.Loc()), true
}

// EvaluateArraySize evaluates an array type's size expression and
// validates it is a positive integer constant (spec §4.E "require the
// size expression to be a compile-time integer constant >= 1").
func (e *Evaluator) EvaluateArraySize(expr ast.Expression, scope *symbols.Table) (uint64, bool) {
	v, ok := e.Evaluate(expr, scope)
	if !ok {
		return 0, false
	}
	if v.Kind != constval.Integer {
		e.Engine.ReportError(diagnostics.TypeMismatch, expr.Loc(), "array size must be an integer constant")
		return 0, false
	}
	if v.Int <= 0 {
		e.Engine.ReportError(diagnostics.InvalidType, expr.Loc(),
			"array size must be a positive integer, got %d", v.Int)
		return 0, false
	}
	return uint64(v.Int), true
}

// ValidateConstTypeCompatibility compares a ConstValue to a declared
// primitive type, range-checking integers and rejecting kind
// mismatches (spec §4.F). Reports a TypeMismatch with range text on
// failure.
func (e *Evaluator) ValidateConstTypeCompatibility(declared *types.Descriptor, v constval.ConstValue, loc token.SourceLocation) bool {
	if declared == nil || declared.Kind() != types.KindPrimitive {
		return true
	}
	pk := declared.PrimitiveKind()
	switch {
	case pk.IsInteger():
		if v.Kind != constval.Integer {
			e.Engine.ReportError(diagnostics.TypeMismatch, loc,
				"expected an integer constant for type %s, got %s", pk, kindName(v.Kind))
			return false
		}
		if pk == types.U64 || pk == types.USize {
			if v.Int < 0 {
				e.Engine.ReportError(diagnostics.TypeMismatch, loc,
					"value %d is out of range for %s (must be >= 0)", v.Int, pk)
				return false
			}
			return true
		}
		min, max, ok := pk.IntRange()
		if ok && (v.Int < min || v.Int > max) {
			e.Engine.ReportError(diagnostics.TypeMismatch, loc,
				"value %d is out of range for %s (expected %d..=%d)", v.Int, pk, min, max)
			return false
		}
		return true
	case pk.IsFloat():
		if v.Kind != constval.Float && v.Kind != constval.Integer {
			e.Engine.ReportError(diagnostics.TypeMismatch, loc,
				"expected a float constant for type %s, got %s", pk, kindName(v.Kind))
			return false
		}
		return true
	case pk == types.Char:
		if v.Kind != constval.Integer {
			e.Engine.ReportError(diagnostics.TypeMismatch, loc, "expected a char constant for type %s", pk)
			return false
		}
		return true
	case pk == types.Bool:
		if v.Kind != constval.Boolean {
			e.Engine.ReportError(diagnostics.TypeMismatch, loc, "expected a bool constant for type %s", pk)
			return false
		}
		return true
	case pk == types.String:
		if v.Kind != constval.String {
			e.Engine.ReportError(diagnostics.TypeMismatch, loc, "expected a string constant for type %s", pk)
			return false
		}
		return true
	default:
		return true
	}
}
