// Package resolver implements the type resolver (spec §4.E): it maps
// type-level AST nodes to canonical descriptors, instantiating
// generics and delegating array-size expressions to the constant
// evaluator. Grounded on the teacher's declarations_types.go /
// types_builder.go node-kind dispatch shape, rebuilt against the
// spec's simpler (non-HM) type-AST node set.
package resolver

import (
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/builtins"
	"github.com/funxylang/semcore/internal/consteval"
	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/token"
	"github.com/funxylang/semcore/internal/types"
)

// Resolver resolves type-level AST nodes to descriptors.
type Resolver struct {
	Engine *diagnostics.Engine
	Const  *consteval.Evaluator
}

// New builds a Resolver reporting into eng and delegating array sizes
// to evaluator.
func New(eng *diagnostics.Engine, evaluator *consteval.Evaluator) *Resolver {
	return &Resolver{Engine: eng, Const: evaluator}
}

// ResolveType maps node to a retained descriptor, or reports a
// diagnostic and returns (ErrorType(), false).
func (r *Resolver) ResolveType(node ast.Type, scope *symbols.Table) (*types.Descriptor, bool) {
	switch n := node.(type) {
	case *ast.BaseTypeNode:
		return r.resolveNamed(n.Name, n.TypeArgs, n.Loc(), scope)
	case *ast.StructTypeNode:
		return r.resolveNamed(n.Name, n.TypeArgs, n.Loc(), scope)
	case *ast.EnumTypeNode:
		return r.resolveNamed(n.Name, n.TypeArgs, n.Loc(), scope)
	case nil:
		return types.ErrorType(), false
	case *ast.SliceTypeNode:
		elem, ok := r.ResolveType(n.Element, scope)
		if !ok {
			return types.ErrorType(), false
		}
		return types.CreateSlice(elem), true
	case *ast.ArrayTypeNode:
		return r.resolveArray(n, scope)
	case *ast.PointerTypeNode:
		pointee, ok := r.ResolveType(n.Pointee, scope)
		if !ok {
			return types.ErrorType(), false
		}
		return types.CreatePointer(pointee, n.Mutable), true
	case *ast.ResultTypeNode:
		ok1, okOk := r.ResolveType(n.Ok, scope)
		err1, okErr := r.ResolveType(n.Err, scope)
		if !okOk || !okErr {
			return types.ErrorType(), false
		}
		return types.CreateResult(ok1, err1), true
	case *ast.TupleTypeNode:
		if len(n.Elements) < 2 {
			r.Engine.ReportError(diagnostics.InvalidType, n.Loc(), "tuple type requires at least 2 elements")
			return types.ErrorType(), false
		}
		elems := make([]*types.Descriptor, len(n.Elements))
		allOk := true
		for i, e := range n.Elements {
			d, ok := r.ResolveType(e, scope)
			elems[i] = d
			allOk = allOk && ok
		}
		if !allOk {
			return types.ErrorType(), false
		}
		return types.CreateTuple(elems), true
	default:
		r.Engine.ReportError(diagnostics.Internal, node.Loc(), "unknown type node kind")
		return types.ErrorType(), false
	}
}

// resolveNamed resolves a bare or generic-applied name: a builtin
// primitive, a type parameter bound in scope, or a user struct/enum
// (spec §4.E "base-type", "struct-type/enum-type with type arguments").
func (r *Resolver) resolveNamed(name string, typeArgs []ast.Type, loc token.SourceLocation, scope *symbols.Table) (*types.Descriptor, bool) {
	entry, ok := scope.LookupSafe(name)
	if !ok {
		r.Engine.ReportError(diagnostics.UndefinedType, loc, "undefined type %q", name)
		return types.ErrorType(), false
	}
	base := entry.Type

	if len(typeArgs) == 0 {
		if entry.IsGeneric {
			r.Engine.ReportError(diagnostics.InvalidType, loc,
				"%q is a generic type and requires type arguments", name)
			return types.ErrorType(), false
		}
		return base.Retain(), true
	}

	if !entry.IsGeneric {
		r.Engine.ReportError(diagnostics.InvalidType, loc,
			"%q is not generic and does not accept type arguments", name)
		return types.ErrorType(), false
	}
	if len(typeArgs) != entry.TypeParamCount {
		r.Engine.ReportError(diagnostics.InvalidType, loc,
			"%q expects %d type argument(s), got %d", name, entry.TypeParamCount, len(typeArgs))
		return types.ErrorType(), false
	}

	args := make([]*types.Descriptor, len(typeArgs))
	allOk := true
	for i, a := range typeArgs {
		d, ok := r.ResolveType(a, scope)
		args[i] = d
		allOk = allOk && ok
	}
	if !allOk {
		return types.ErrorType(), false
	}
	inst, err := types.Instantiate(base, args)
	if err != nil {
		r.Engine.ReportError(diagnostics.InvalidType, loc, "%s", err.Error())
		return types.ErrorType(), false
	}
	return inst, true
}

func (r *Resolver) resolveArray(n *ast.ArrayTypeNode, scope *symbols.Table) (*types.Descriptor, bool) {
	elem, elemOk := r.ResolveType(n.Element, scope)
	if n.SizeExpr == nil {
		r.Engine.ReportError(diagnostics.InvalidType, n.Loc(), "array type requires a size expression")
		return types.ErrorType(), false
	}
	length, sizeOk := r.Const.EvaluateArraySize(n.SizeExpr, scope)
	if !elemOk || !sizeOk {
		return types.ErrorType(), false
	}
	return types.CreateArray(elem, length), true
}

// IsPrimitiveTypeName reports whether name spells a builtin primitive
// (spec §6 `is_primitive_type`).
func IsPrimitiveTypeName(name string) bool {
	_, ok := builtins.PrimitiveTypeNames[name]
	return ok
}
