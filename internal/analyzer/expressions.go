package analyzer

import (
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/types"
)

// analyzeExpression dispatches by expression kind (spec §4.J), sets
// expr's resolved_type slot, and returns the same descriptor. On
// failure a diagnostic has already been reported and ErrorType() is
// both set and returned, so callers never need a second nil check
// (spec §7 band 1: "substitutes an error type ... and continues").
func (a *Analyzer) analyzeExpression(expr ast.Expression, scope *symbols.Table) *types.Descriptor {
	a.Stats.IncNodesAnalyzed()
	t := a.dispatchExpression(expr, scope)
	expr.SetResolvedType(t)
	return t
}

func (a *Analyzer) dispatchExpression(expr ast.Expression, scope *symbols.Table) *types.Descriptor {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return types.CreatePrimitive(types.I64)
	case *ast.FloatLiteral:
		return types.CreatePrimitive(types.F64)
	case *ast.StringLiteral:
		return types.CreatePrimitive(types.String)
	case *ast.BoolLiteral:
		return types.CreatePrimitive(types.Bool)
	case *ast.CharLiteral:
		if !isValidCodePoint(e.Value) {
			a.Engine.ReportError(diagnostics.InvalidLiteral, e.Loc(),
				"0x%x is not a valid Unicode code point", e.Value)
			return types.ErrorType()
		}
		return types.CreatePrimitive(types.Char)
	case *ast.UnitLiteral:
		return types.CreatePrimitive(types.Void)
	case *ast.Identifier:
		return a.analyzeIdentifier(e, scope)
	case *ast.BinaryExpr:
		return a.analyzeBinary(e, scope)
	case *ast.UnaryExpr:
		return a.analyzeUnary(e, scope)
	case *ast.CastExpr:
		return a.analyzeCast(e, scope)
	case *ast.CallExpr:
		return a.analyzeCall(e, scope)
	case *ast.AssociatedFuncCallExpr:
		return a.analyzeAssociatedCall(e, scope)
	case *ast.FieldAccessExpr:
		return a.analyzeFieldAccess(e, scope)
	case *ast.IndexAccessExpr:
		return a.analyzeIndexAccess(e, scope)
	case *ast.StructLiteralExpr:
		return a.analyzeStructLiteral(e, scope)
	case *ast.EnumVariantExpr:
		return a.analyzeEnumVariant(e, scope)
	case *ast.TupleLiteralExpr:
		return a.analyzeTupleLiteral(e, scope)
	case *ast.ArrayLiteralExpr:
		return a.analyzeArrayLiteral(e, scope)
	case *ast.AwaitExpr:
		return a.analyzeAwait(e, scope)
	default:
		a.Engine.ReportError(diagnostics.Internal, expr.Loc(), "unknown expression kind")
		return types.ErrorType()
	}
}

func isValidCodePoint(r rune) bool {
	if r < 0 || r > 0x10FFFF {
		return false
	}
	return r < 0xD800 || r > 0xDFFF
}

// --- identifier / name resolution ---------------------------------------

func (a *Analyzer) analyzeIdentifier(id *ast.Identifier, scope *symbols.Table) *types.Descriptor {
	entry, ok := scope.LookupSafe(id.Name)
	if !ok {
		a.Engine.Report(diagnostics.New(diagnostics.UndefinedSymbol, id.Loc(), "undefined symbol %q", id.Name).
			WithSuggestions(diagnostics.Suggest(id.Name, scope.ReachableNames())))
		return types.ErrorType()
	}
	entry.Flags.Used = true
	a.Stats.IncSymbolsResolved()
	a.usages[id.Name] = append(a.usages[id.Name], id.Loc())
	return entry.Type
}

// --- binary / unary / cast -----------------------------------------------

func (a *Analyzer) analyzeBinary(e *ast.BinaryExpr, scope *symbols.Table) *types.Descriptor {
	left := a.analyzeExpression(e.Left, scope)
	right := a.analyzeExpression(e.Right, scope)
	if left.IsSentinel() || right.IsSentinel() {
		return types.ErrorType()
	}

	switch e.Op {
	case "&&", "||":
		if !isBool(left) || !isBool(right) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(), "%q requires two bool operands", e.Op)
			return types.ErrorType()
		}
		return types.CreatePrimitive(types.Bool)
	case "==", "!=":
		if !left.Equals(right) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(),
				"cannot compare %s and %s for equality", left.String(), right.String())
			return types.ErrorType()
		}
		return types.CreatePrimitive(types.Bool)
	case "<", "<=", ">", ">=":
		if !isNumeric(left) || !left.Equals(right) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(),
				"%q requires two numeric operands of the same type", e.Op)
			return types.ErrorType()
		}
		return types.CreatePrimitive(types.Bool)
	case "&", "|", "^", "<<", ">>":
		if !isIntegerType(left) || !left.Equals(right) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(),
				"%q requires two integer operands of the same type", e.Op)
			return types.ErrorType()
		}
		return left
	case "+", "-", "*", "/", "%":
		if !isNumeric(left) || !left.Equals(right) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(),
				"%q requires two numeric operands of the same type", e.Op)
			return types.ErrorType()
		}
		return left
	default:
		a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(), "unknown binary operator %q", e.Op)
		return types.ErrorType()
	}
}

func (a *Analyzer) analyzeUnary(e *ast.UnaryExpr, scope *symbols.Table) *types.Descriptor {
	operand := a.analyzeExpression(e.Operand, scope)
	if operand.IsSentinel() {
		return types.ErrorType()
	}
	switch e.Op {
	case "-":
		if !isNumeric(operand) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(), "unary %q requires a numeric operand", e.Op)
			return types.ErrorType()
		}
		return operand
	case "!":
		if !isBool(operand) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(), "unary %q requires a bool operand", e.Op)
			return types.ErrorType()
		}
		return operand
	case "~":
		if !isIntegerType(operand) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(), "unary %q requires an integer operand", e.Op)
			return types.ErrorType()
		}
		return operand
	case "*":
		if operand.Kind() != types.KindPointer {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(), "cannot dereference a non-pointer type %s", operand.String())
			return types.ErrorType()
		}
		if !a.ctx.InUnsafe && operand.Flags.Volatile {
			// Dereferencing a volatile pointer outside unsafe is still
			// permitted by the type system (spec §4.H only taints, it
			// never rejects); ownership/ffi validation is out of scope
			// for this sub-analyzer.
		}
		return operand.Pointee()
	case "&":
		return types.CreatePointer(operand, false)
	default:
		a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(), "unknown unary operator %q", e.Op)
		return types.ErrorType()
	}
}

func (a *Analyzer) analyzeCast(e *ast.CastExpr, scope *symbols.Table) *types.Descriptor {
	from := a.analyzeExpression(e.Value, scope)
	to, ok := a.Resolver.ResolveType(e.TargetType, scope)
	if !ok {
		return types.ErrorType()
	}
	if from.IsSentinel() {
		return to
	}
	if !canCast(from, to) {
		a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(),
			"cannot cast %s to %s", from.String(), to.String())
		return types.ErrorType()
	}
	return to
}

// canCast reports whether a runtime cast from `from` to `to` is
// permitted: numeric-to-numeric (with bool and char counted as
// integer-like scalars), pointer-to-pointer, and same-type casts are allowed; all
// other combinations are rejected (spec §6 `can_cast`).
func canCast(from, to *types.Descriptor) bool {
	if from.Equals(to) {
		return true
	}
	if from.Kind() == types.KindPointer && to.Kind() == types.KindPointer {
		return true
	}
	if isScalarNumericLike(from) && isScalarNumericLike(to) {
		return true
	}
	return false
}

func isScalarNumericLike(d *types.Descriptor) bool {
	if d.Kind() != types.KindPrimitive {
		return false
	}
	pk := d.PrimitiveKind()
	return pk.IsInteger() || pk.IsFloat() || pk == types.Bool || pk == types.Char
}

func isNumeric(d *types.Descriptor) bool {
	return d.Kind() == types.KindPrimitive && (d.PrimitiveKind().IsInteger() || d.PrimitiveKind().IsFloat())
}

func isIntegerType(d *types.Descriptor) bool {
	return d.Kind() == types.KindPrimitive && d.PrimitiveKind().IsInteger()
}

func isBool(d *types.Descriptor) bool {
	return d.Kind() == types.KindPrimitive && d.PrimitiveKind() == types.Bool
}

// --- calls ----------------------------------------------------------------

func (a *Analyzer) analyzeCall(e *ast.CallExpr, scope *symbols.Table) *types.Descriptor {
	calleeID, isIdent := e.Callee.(*ast.Identifier)
	var fnType *types.Descriptor
	if isIdent {
		entry, ok := scope.LookupSafe(calleeID.Name)
		if !ok {
			a.Engine.Report(diagnostics.New(diagnostics.UndefinedSymbol, e.Loc(), "undefined function %q", calleeID.Name).
				WithSuggestions(diagnostics.Suggest(calleeID.Name, scope.ReachableNames())))
			e.Callee.SetResolvedType(types.ErrorType())
			return types.ErrorType()
		}
		entry.Flags.Used = true
		fnType = entry.Type
		a.usages[calleeID.Name] = append(a.usages[calleeID.Name], calleeID.Loc())
		e.Callee.SetResolvedType(fnType)
	} else {
		fnType = a.analyzeExpression(e.Callee, scope)
	}
	if fnType.IsSentinel() {
		a.analyzeArgsForSideEffects(e.Args, scope)
		return types.ErrorType()
	}
	if fnType.Kind() != types.KindFunction {
		a.Engine.ReportError(diagnostics.NotCallable, e.Loc(), "%s is not callable", fnType.String())
		a.analyzeArgsForSideEffects(e.Args, scope)
		return types.ErrorType()
	}

	argTypes := make([]*types.Descriptor, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.analyzeExpression(arg, scope)
	}

	if fnType.IsGeneric() {
		fnType = a.instantiateGenericCall(e, fnType, argTypes)
	}

	return a.checkCallSignature(e, fnType, argTypes)
}

func (a *Analyzer) analyzeArgsForSideEffects(args []ast.Expression, scope *symbols.Table) {
	for _, arg := range args {
		a.analyzeExpression(arg, scope)
	}
}

func (a *Analyzer) checkCallSignature(e *ast.CallExpr, fnType *types.Descriptor, argTypes []*types.Descriptor) *types.Descriptor {
	params := fnType.Params()
	if len(argTypes) != len(params) {
		a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(),
			"expected %d argument(s), got %d", len(params), len(argTypes))
		return fnType.Return()
	}
	for i, p := range params {
		if argTypes[i].IsSentinel() || p.IsSentinel() {
			continue
		}
		if !p.Equals(argTypes[i]) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Args[i].Loc(),
				"argument %d: expected %s, got %s", i+1, p.String(), argTypes[i].String())
		}
	}
	return fnType.Return()
}

// instantiateGenericCall substitutes a generic function's declared type
// parameters from explicit `::<...>` arguments, falling back to
// structural inference against the call's argument types (spec §4.J
// "Generic-function calls substitute parameters from explicit `::<...>`
// arguments or from inferred argument types").
func (a *Analyzer) instantiateGenericCall(e *ast.CallExpr, fnType *types.Descriptor, argTypes []*types.Descriptor) *types.Descriptor {
	paramNames := fnType.TypeParams()
	args := make([]*types.Descriptor, len(paramNames))

	if len(e.TypeArgs) > 0 {
		for i, ta := range e.TypeArgs {
			if i >= len(paramNames) {
				break
			}
			d, ok := a.Resolver.ResolveType(ta, a.Global)
			if !ok {
				d = types.ErrorType()
			}
			args[i] = d
		}
	} else {
		found := make(map[string]*types.Descriptor)
		for i, p := range fnType.Params() {
			if i >= len(argTypes) {
				break
			}
			matchTypeParam(p, argTypes[i], found)
		}
		for i, n := range paramNames {
			if d, ok := found[n]; ok {
				args[i] = d
			} else {
				a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(),
					"cannot infer type parameter %q for this call; supply it explicitly", n)
				args[i] = types.ErrorType()
			}
		}
	}
	for i := range args {
		if args[i] == nil {
			args[i] = types.ErrorType()
		}
	}
	return types.SubstituteTypeParams(fnType, paramNames, args)
}

// matchTypeParam walks declared and actual descriptors in lockstep,
// recording the first concrete type seen for each KindTypeParam leaf
// (spec §4.A "only a leaf substitution is required").
func matchTypeParam(declared, actual *types.Descriptor, found map[string]*types.Descriptor) {
	if declared == nil || actual == nil {
		return
	}
	if declared.Kind() == types.KindTypeParam {
		if _, ok := found[declared.TypeParamName()]; !ok {
			found[declared.TypeParamName()] = actual
		}
		return
	}
	if declared.Kind() != actual.Kind() {
		return
	}
	switch declared.Kind() {
	case types.KindPointer:
		matchTypeParam(declared.Pointee(), actual.Pointee(), found)
	case types.KindSlice, types.KindArray:
		matchTypeParam(declared.Element(), actual.Element(), found)
	case types.KindResult:
		matchTypeParam(declared.Ok(), actual.Ok(), found)
		matchTypeParam(declared.Err(), actual.Err(), found)
	case types.KindOption:
		matchTypeParam(declared.Value(), actual.Value(), found)
	case types.KindTuple:
		de, ae := declared.Elements(), actual.Elements()
		for i := range de {
			if i < len(ae) {
				matchTypeParam(de[i], ae[i], found)
			}
		}
	}
}

// analyzeAssociatedCall resolves `TypeName::funcName(args...)` against
// the named type's method table.
func (a *Analyzer) analyzeAssociatedCall(e *ast.AssociatedFuncCallExpr, scope *symbols.Table) *types.Descriptor {
	typeEntry, ok := scope.LookupSafe(e.TypeName)
	if !ok {
		a.Engine.ReportError(diagnostics.UndefinedType, e.Loc(), "undefined type %q", e.TypeName)
		a.analyzeArgsForSideEffects(e.Args, scope)
		return types.ErrorType()
	}
	fnType, ok := typeEntry.Type.LookupMethod(e.FuncName)
	if !ok {
		a.Engine.ReportError(diagnostics.UndefinedSymbol, e.Loc(),
			"%s has no associated function %q", e.TypeName, e.FuncName)
		a.analyzeArgsForSideEffects(e.Args, scope)
		return types.ErrorType()
	}
	argTypes := make([]*types.Descriptor, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.analyzeExpression(arg, scope)
	}
	call := &ast.CallExpr{Args: e.Args}
	call.Location = e.Location

	if fnType.IsGeneric() {
		fnType = a.instantiateGenericCall(call, fnType, argTypes)
	}
	return a.checkCallSignature(call, fnType, argTypes)
}

// --- field / index access --------------------------------------------------

func (a *Analyzer) analyzeFieldAccess(e *ast.FieldAccessExpr, scope *symbols.Table) *types.Descriptor {
	base := a.analyzeExpression(e.Base, scope)
	if base.IsSentinel() {
		return types.ErrorType()
	}

	if base.Kind() == types.KindTuple {
		idx, ok := tupleIndexName(e.Field)
		elems := base.Elements()
		if !ok || idx < 0 || idx >= len(elems) {
			a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(), "invalid tuple field %q", e.Field)
			return types.ErrorType()
		}
		return elems[idx]
	}

	if (base.Kind() == types.KindEnum || base.Kind() == types.KindGenericInstance) && enumVariantExists(base, e.Field) {
		// A field-access naming a variant constructs that variant
		// rather than reading a field (spec §4.J: "rewrite the node to
		// an enum-variant node").
		return a.rewriteToEnumVariant(e, base)
	}

	if base.Kind() != types.KindStruct && base.Kind() != types.KindGenericInstance {
		a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(),
			"%s has no field %q", base.String(), e.Field)
		return types.ErrorType()
	}
	ft, ok := types.ResolveFieldType(base, e.Field)
	if !ok {
		a.Engine.Report(diagnostics.New(diagnostics.UndefinedSymbol, e.Loc(),
			"%s has no field %q", base.String(), e.Field).
			WithSuggestions(diagnostics.Suggest(e.Field, structFieldNames(base))))
		return types.ErrorType()
	}
	return ft
}

func tupleIndexName(field string) (int, bool) {
	if len(field) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range field {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func enumVariantExists(d *types.Descriptor, name string) bool {
	base := d
	if d.Kind() == types.KindGenericInstance {
		base = d.Base()
	}
	if base.Kind() != types.KindEnum {
		return false
	}
	_, ok := base.LookupVariant(name)
	return ok
}

func structFieldNames(d *types.Descriptor) []string {
	base := d
	if d.Kind() == types.KindGenericInstance {
		base = d.Base()
	}
	if base.Kind() != types.KindStruct {
		return nil
	}
	names := make([]string, len(base.Fields()))
	for i, f := range base.Fields() {
		names[i] = f.Name
	}
	return names
}

// rewriteToEnumVariant resolves a `Base.Variant` field access that
// actually constructs a payload-less variant. Payload-carrying variants
// must go through the dedicated enum-variant expression node instead;
// using field-access syntax on one is a type error.
func (a *Analyzer) rewriteToEnumVariant(e *ast.FieldAccessExpr, enumType *types.Descriptor) *types.Descriptor {
	base := enumType
	if enumType.Kind() == types.KindGenericInstance {
		base = enumType.Base()
	}
	variant, _ := base.LookupVariant(e.Field)
	if variant.Payload != nil {
		a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(),
			"variant %q carries a payload and requires call syntax", e.Field)
		return types.ErrorType()
	}
	return enumType
}

func (a *Analyzer) analyzeIndexAccess(e *ast.IndexAccessExpr, scope *symbols.Table) *types.Descriptor {
	base := a.analyzeExpression(e.Base, scope)
	idx := a.analyzeExpression(e.Index, scope)
	if base.IsSentinel() {
		return types.ErrorType()
	}
	if !idx.IsSentinel() && !isIntegerType(idx) {
		a.Engine.ReportError(diagnostics.TypeMismatch, e.Index.Loc(), "index must be an integer, got %s", idx.String())
	}
	switch base.Kind() {
	case types.KindSlice, types.KindArray:
		return base.Element()
	case types.KindPointer:
		return base.Pointee()
	default:
		a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(), "cannot index into %s", base.String())
		return types.ErrorType()
	}
}

// --- composite literals ------------------------------------------------------

func (a *Analyzer) analyzeStructLiteral(e *ast.StructLiteralExpr, scope *symbols.Table) *types.Descriptor {
	entry, ok := scope.LookupSafe(e.TypeName)
	if !ok {
		a.Engine.ReportError(diagnostics.UndefinedType, e.Loc(), "undefined type %q", e.TypeName)
		return types.ErrorType()
	}
	structType := entry.Type
	if len(e.TypeArgs) > 0 {
		args := make([]*types.Descriptor, len(e.TypeArgs))
		allOk := true
		for i, ta := range e.TypeArgs {
			d, ok := a.Resolver.ResolveType(ta, scope)
			args[i] = d
			allOk = allOk && ok
		}
		if allOk {
			inst, err := types.Instantiate(structType, args)
			if err == nil {
				structType = inst
			}
		}
	}
	if structType.Kind() != types.KindStruct && structType.Kind() != types.KindGenericInstance {
		a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(), "%q is not a struct type", e.TypeName)
		for _, f := range e.Fields {
			a.analyzeExpression(f.Value, scope)
		}
		return types.ErrorType()
	}

	base := structType
	if base.Kind() == types.KindGenericInstance {
		base = base.Base()
	}
	initialized := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		ft, ok := types.ResolveFieldType(structType, f.Name)
		actual := a.analyzeExpression(f.Value, scope)
		if !ok {
			a.Engine.ReportError(diagnostics.UndefinedSymbol, f.Value.Loc(),
				"%s has no field %q", structType.String(), f.Name)
			continue
		}
		initialized[f.Name] = true
		if !actual.IsSentinel() && !ft.Equals(actual) {
			a.Engine.ReportError(diagnostics.TypeMismatch, f.Value.Loc(),
				"field %q expects %s, got %s", f.Name, ft.String(), actual.String())
		}
	}
	for _, field := range base.Fields() {
		if !initialized[field.Name] {
			a.Engine.ReportError(diagnostics.InvalidDeclaration, e.Loc(),
				"field %q of %s is not initialized", field.Name, structType.String())
		}
	}
	return structType
}

func (a *Analyzer) analyzeEnumVariant(e *ast.EnumVariantExpr, scope *symbols.Table) *types.Descriptor {
	entry, ok := scope.LookupSafe(e.EnumName)
	if !ok {
		a.Engine.ReportError(diagnostics.UndefinedType, e.Loc(), "undefined type %q", e.EnumName)
		if e.Payload != nil {
			a.analyzeExpression(e.Payload, scope)
		}
		return types.ErrorType()
	}
	enumType := entry.Type
	variant, ok := types.ResolveVariant(enumType, e.Variant)
	if !ok {
		a.Engine.ReportError(diagnostics.UndefinedSymbol, e.Loc(),
			"%s has no variant %q", e.EnumName, e.Variant)
		if e.Payload != nil {
			a.analyzeExpression(e.Payload, scope)
		}
		return types.ErrorType()
	}
	switch {
	case variant.Payload == nil && e.Payload != nil:
		a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(),
			"variant %q carries no payload", e.Variant)
		a.analyzeExpression(e.Payload, scope)
	case variant.Payload != nil && e.Payload == nil:
		a.Engine.ReportError(diagnostics.InvalidOperation, e.Loc(),
			"variant %q requires a payload", e.Variant)
	case variant.Payload != nil:
		actual := a.analyzeExpression(e.Payload, scope)
		if !actual.IsSentinel() && !variant.Payload.Equals(actual) {
			a.Engine.ReportError(diagnostics.TypeMismatch, e.Payload.Loc(),
				"variant %q expects payload %s, got %s", e.Variant, variant.Payload.String(), actual.String())
		}
	}
	return enumType
}

func (a *Analyzer) analyzeTupleLiteral(e *ast.TupleLiteralExpr, scope *symbols.Table) *types.Descriptor {
	elems := make([]*types.Descriptor, len(e.Elements))
	for i, el := range e.Elements {
		elems[i] = a.analyzeExpression(el, scope)
	}
	if len(elems) < 2 {
		a.Engine.ReportError(diagnostics.InvalidType, e.Loc(), "tuple literal requires at least 2 elements")
		return types.ErrorType()
	}
	return types.CreateTuple(elems)
}

func (a *Analyzer) analyzeArrayLiteral(e *ast.ArrayLiteralExpr, scope *symbols.Table) *types.Descriptor {
	if len(e.Elements) == 0 {
		a.Engine.ReportError(diagnostics.InvalidType, e.Loc(), "array literal cannot be empty without a type annotation")
		return types.ErrorType()
	}
	elemType := a.analyzeExpression(e.Elements[0], scope)
	for _, el := range e.Elements[1:] {
		t := a.analyzeExpression(el, scope)
		if !t.IsSentinel() && !elemType.IsSentinel() && !elemType.Equals(t) {
			a.Engine.ReportError(diagnostics.TypeMismatch, el.Loc(),
				"array element type mismatch: expected %s, got %s", elemType.String(), t.String())
		}
	}
	return types.CreateArray(elemType, uint64(len(e.Elements)))
}

func (a *Analyzer) analyzeAwait(e *ast.AwaitExpr, scope *symbols.Table) *types.Descriptor {
	t := a.analyzeExpression(e.Value, scope)
	if t.IsSentinel() {
		return types.ErrorType()
	}
	if t.Kind() != types.KindTaskHandle {
		a.Engine.ReportError(diagnostics.TypeMismatch, e.Loc(), "await requires a task handle, got %s", t.String())
		return types.ErrorType()
	}
	return t.HandleResult()
}
