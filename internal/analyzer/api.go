package analyzer

import (
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/resolver"
	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/token"
	"github.com/funxylang/semcore/internal/types"
)

// ResolveIdentifier looks name up starting at scope and walking parent
// scopes, the semantic API's resolve_identifier (spec §6). Pass nil to
// search from the analyzer's global table.
func (a *Analyzer) ResolveIdentifier(scope *symbols.Table, name string) (*symbols.Entry, bool) {
	if scope == nil {
		scope = a.Global
	}
	return scope.LookupSafe(name)
}

// GetExpressionType returns the resolved type already attached to expr
// by a prior AnalyzeProgram pass, or nil if it was never visited
// (spec §6 get_expression_type).
func (a *Analyzer) GetExpressionType(expr ast.Expression) *types.Descriptor {
	return expr.ResolvedType()
}

// CheckTypeCompatibility reports whether a value of type actual may be
// used where expected is required (spec §6 check_type_compatibility).
// Structural descriptor equality is the analyzer's sole compatibility
// rule; there is no separate subtyping relation (spec §9).
func (a *Analyzer) CheckTypeCompatibility(expected, actual *types.Descriptor) bool {
	if expected == nil || actual == nil {
		return false
	}
	if expected.IsSentinel() || actual.IsSentinel() {
		return true
	}
	return expected.Equals(actual)
}

// CanCast reports whether a runtime cast from `from` to `to` is
// permitted (spec §6 can_cast), reusing the cast-expression rule.
func (a *Analyzer) CanCast(from, to *types.Descriptor) bool {
	if from == nil || to == nil {
		return false
	}
	return canCast(from, to)
}

// FindDeclaration returns the declaration-site location of name, if
// this analyzer has registered one (spec §6 find_declaration).
func (a *Analyzer) FindDeclaration(name string) (token.SourceLocation, bool) {
	loc, ok := a.declLocations[name]
	return loc, ok
}

// FindSymbolUsages returns every resolved-reference location recorded
// for name, in the order encountered during analysis (spec §6
// find_symbol_usages).
func (a *Analyzer) FindSymbolUsages(name string) []token.SourceLocation {
	return a.usages[name]
}

// SymbolLocations bundles a symbol's declaration site with all of its
// resolved reference sites (spec §6 get_symbol_locations).
type SymbolLocations struct {
	Declaration token.SourceLocation
	HasDeclaration bool
	Usages      []token.SourceLocation
}

// GetSymbolLocations implements spec §6 get_symbol_locations.
func (a *Analyzer) GetSymbolLocations(name string) SymbolLocations {
	decl, ok := a.declLocations[name]
	return SymbolLocations{Declaration: decl, HasDeclaration: ok, Usages: a.usages[name]}
}

// ExpressionParser is the dependency-injected hook infer_expression_type
// needs (spec §6): this package carries no parser (spec §1, ast
// package doc: "the parser is an external collaborator"), so a caller
// that wants to analyze a free-floating text snippet must supply one.
// Left unset, InferExpressionType reports ok=false rather than
// fabricating a parser.
type ExpressionParser interface {
	ParseExpression(text string) (ast.Expression, error)
}

// InferExpressionType implements spec §6 infer_expression_type: parse
// text with parser and analyze the result against the analyzer's
// global scope, returning its resolved type.
func (a *Analyzer) InferExpressionType(text string, parser ExpressionParser) (*types.Descriptor, bool) {
	if parser == nil {
		return nil, false
	}
	expr, err := parser.ParseExpression(text)
	if err != nil {
		return nil, false
	}
	return a.analyzeExpression(expr, a.Global), true
}

// TypeInfo is the result shape for get_type_info (spec §6).
type TypeInfo struct {
	Descriptor *types.Descriptor
	Kind       types.Kind
	IsGeneric  bool
}

// GetTypeInfo looks up a declared type or builtin by name (spec §6
// get_type_info).
func (a *Analyzer) GetTypeInfo(name string) (TypeInfo, bool) {
	entry, ok := a.Global.LookupSafe(name)
	if !ok || entry.Kind != symbols.KindType {
		return TypeInfo{}, false
	}
	return TypeInfo{Descriptor: entry.Type, Kind: entry.Type.Kind(), IsGeneric: entry.Type.IsGeneric()}, true
}

// IsPrimitiveType implements spec §6 is_primitive_type.
func (a *Analyzer) IsPrimitiveType(name string) bool {
	return resolver.IsPrimitiveTypeName(name)
}

// GetAvailableTypes lists every type name currently reachable from the
// global scope (spec §6 get_available_types): primitives, builtins
// (Option/Result), and every user struct/enum declaration.
func (a *Analyzer) GetAvailableTypes() []string {
	var names []string
	a.Global.Iterate(func(e *symbols.Entry) bool {
		if e.Kind == symbols.KindType {
			names = append(names, e.Name)
		}
		return true
	})
	return names
}
