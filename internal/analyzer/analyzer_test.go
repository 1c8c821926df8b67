package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/config"
	"github.com/funxylang/semcore/internal/diagnostics"
	"github.com/funxylang/semcore/internal/types"
)

func newTestAnalyzer() *Analyzer {
	cfg := config.Default()
	return New(cfg, nil)
}

func program(stmts ...ast.Statement) *ast.Program {
	return &ast.Program{File: "test.fx", Statements: stmts}
}

func typ(name string, args ...ast.Type) *ast.BaseTypeNode {
	return &ast.BaseTypeNode{Name: name, TypeArgs: args}
}

func param(name string, t ast.Type) *ast.ParamDecl {
	return &ast.ParamDecl{Name: name, Type: t}
}

func intLit(v int64) *ast.IntegerLiteral { return &ast.IntegerLiteral{Value: v} }
func ident(name string) *ast.Identifier  { return &ast.Identifier{Name: name} }

func block(stmts ...ast.Statement) *ast.BlockStmt {
	return &ast.BlockStmt{Statements: stmts}
}

func ret(e ast.Expression) *ast.ReturnStmt { return &ast.ReturnStmt{Value: e} }

func codesOf(errs []*diagnostics.SemanticError) []diagnostics.Code {
	out := make([]diagnostics.Code, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

// --- scenario: duplicate symbol -------------------------------------------

func TestDuplicateFunctionDeclaration(t *testing.T) {
	a := newTestAnalyzer()
	fn := func() *ast.FunctionDecl {
		return &ast.FunctionDecl{
			Name:       "main",
			ReturnType: typ("void"),
			Body:       block(),
		}
	}
	ok := a.AnalyzeProgram(program(fn(), fn()))
	assert.False(t, ok)
	assert.Contains(t, codesOf(a.GetErrors()), diagnostics.DuplicateSymbol)
}

// --- scenario: undefined identifier with a suggestion ----------------------

func TestUndefinedIdentifierSuggestsClosestMatch(t *testing.T) {
	a := newTestAnalyzer()
	fn := &ast.FunctionDecl{
		Name:       "main",
		ReturnType: typ("i32"),
		Body: block(
			&ast.LetStmt{Name: "counter", TypeAnnotation: typ("i32"), Value: intLit(1)},
			ret(ident("counterr")),
		),
	}
	ok := a.AnalyzeProgram(program(fn))
	assert.False(t, ok)

	var found *diagnostics.SemanticError
	for _, e := range a.GetErrors() {
		if e.Code == diagnostics.UndefinedSymbol {
			found = e
		}
	}
	require.NotNil(t, found, "expected an UndefinedSymbol diagnostic")
	assert.Contains(t, found.Suggestions, "counter")
}

// --- scenario: const range violation ---------------------------------------

func TestConstDeclOutOfRangeForDeclaredType(t *testing.T) {
	a := newTestAnalyzer()
	c := &ast.ConstDecl{
		Name:           "TOO_BIG",
		TypeAnnotation: typ("u8"),
		Value:          intLit(300),
	}
	ok := a.AnalyzeProgram(program(c))
	assert.False(t, ok)
	assert.Contains(t, codesOf(a.GetErrors()), diagnostics.TypeMismatch)
}

func TestConstDeclInRangeSucceeds(t *testing.T) {
	a := newTestAnalyzer()
	c := &ast.ConstDecl{
		Name:           "MAX_RETRIES",
		TypeAnnotation: typ("u8"),
		Value:          intLit(5),
	}
	ok := a.AnalyzeProgram(program(c))
	assert.True(t, ok)
	entry, found := a.Global.LookupLocal("MAX_RETRIES")
	require.True(t, found)
	require.NotNil(t, entry.ConstValue)
}

// --- scenario: generic instantiation ----------------------------------------

func TestGenericStructInstantiation(t *testing.T) {
	a := newTestAnalyzer()
	vec := &ast.StructDecl{
		Name:       "Vec",
		TypeParams: []string{"T"},
		Fields: []*ast.FieldDecl{
			{Name: "data", Type: typ("T")},
		},
	}
	letStmt := &ast.LetStmt{
		Name:           "v",
		TypeAnnotation: typ("Vec", typ("i32")),
		Value: &ast.StructLiteralExpr{
			TypeName: "Vec",
			TypeArgs: []ast.Type{typ("i32")},
			Fields:   []ast.FieldInit{{Name: "data", Value: intLit(1)}},
		},
	}
	fn := &ast.FunctionDecl{
		Name:       "main",
		ReturnType: typ("void"),
		Body:       block(letStmt),
	}
	ok := a.AnalyzeProgram(program(vec, fn))
	require.True(t, ok, "errors: %v", a.GetErrors())

	vt := letStmt.Value.ResolvedType()
	require.NotNil(t, vt)
	assert.Equal(t, "Vec", vt.Base().Name())
	require.Len(t, vt.TypeArgs(), 1)
	assert.True(t, vt.TypeArgs()[0].Equals(types.CreatePrimitive(types.I32)))
}

// --- scenario: constant-time violation --------------------------------------

func TestConstantTimeFunctionRejectsBranching(t *testing.T) {
	a := newTestAnalyzer()
	fn := &ast.FunctionDecl{
		Base:       ast.Base{Annotations: []ast.Annotation{{Kind: ast.AnnotationSecurity, Name: "constant_time"}}},
		Name:       "compare",
		Params:     []*ast.ParamDecl{param("a", typ("bool"))},
		ReturnType: typ("bool"),
		Body: block(
			&ast.IfStmt{
				Cond: ident("a"),
				Then: block(ret(&ast.BoolLiteral{Value: true})),
				Else: block(ret(&ast.BoolLiteral{Value: false})),
			},
		),
	}
	ok := a.AnalyzeProgram(program(fn))
	assert.False(t, ok)
	assert.Contains(t, codesOf(a.GetErrors()), diagnostics.SecurityViolation)
}

func TestConstantTimeFunctionAcceptsStraightLineCode(t *testing.T) {
	a := newTestAnalyzer()
	fn := &ast.FunctionDecl{
		Base:        ast.Base{Annotations: []ast.Annotation{{Kind: ast.AnnotationSecurity, Name: "constant_time"}}},
		Name:        "identity",
		Params:      []*ast.ParamDecl{param("a", typ("i32"))},
		ReturnType:  typ("i32"),
		Body:        block(ret(ident("a"))),
	}
	ok := a.AnalyzeProgram(program(fn))
	assert.True(t, ok, "errors: %v", a.GetErrors())
}

// --- scenario: Option exhaustiveness -----------------------------------------

func optionType(inner ast.Type) *ast.BaseTypeNode {
	return typ("Option", inner)
}

func TestMatchOverOptionRequiresBothVariants(t *testing.T) {
	a := newTestAnalyzer()
	fn := &ast.FunctionDecl{
		Name:       "unwrap_or_zero",
		Params:     []*ast.ParamDecl{param("o", optionType(typ("i32")))},
		ReturnType: typ("i32"),
		Body: block(
			&ast.MatchStmt{
				Scrutinee: ident("o"),
				Arms: []ast.MatchArm{
					{
						Pattern: &ast.EnumVariantPattern{EnumName: "Option", Variant: "Some", SubPatterns: []ast.Pattern{&ast.IdentifierPattern{Name: "v"}}},
						Body:    block(ret(ident("v"))),
					},
				},
			},
		),
	}
	ok := a.AnalyzeProgram(program(fn))
	assert.False(t, ok)
	assert.Contains(t, codesOf(a.GetErrors()), diagnostics.NonExhaustiveMatch)
}

func TestMatchOverOptionExhaustiveWithBothVariants(t *testing.T) {
	a := newTestAnalyzer()
	fn := &ast.FunctionDecl{
		Name:       "unwrap_or_zero",
		Params:     []*ast.ParamDecl{param("o", optionType(typ("i32")))},
		ReturnType: typ("i32"),
		Body: block(
			&ast.MatchStmt{
				Scrutinee: ident("o"),
				Arms: []ast.MatchArm{
					{
						Pattern: &ast.EnumVariantPattern{EnumName: "Option", Variant: "Some", SubPatterns: []ast.Pattern{&ast.IdentifierPattern{Name: "v"}}},
						Body:    block(ret(ident("v"))),
					},
					{
						Pattern: &ast.EnumVariantPattern{EnumName: "Option", Variant: "None"},
						Body:    block(ret(intLit(0))),
					},
				},
			},
		),
	}
	ok := a.AnalyzeProgram(program(fn))
	assert.True(t, ok, "errors: %v", a.GetErrors())
}

// --- scenario: running twice yields identical diagnostics -------------------

func TestAnalyzeProgramIsDeterministicAcrossResets(t *testing.T) {
	build := func() *ast.Program {
		return program(&ast.FunctionDecl{
			Name:       "main",
			ReturnType: typ("i32"),
			Body:       block(ret(ident("missing"))),
		})
	}

	a1 := newTestAnalyzer()
	ok1 := a1.AnalyzeProgram(build())
	a2 := newTestAnalyzer()
	ok2 := a2.AnalyzeProgram(build())

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, codesOf(a1.GetErrors()), codesOf(a2.GetErrors()))
}

// --- scenario: the `len` builtin instantiates its type parameter -----------

func TestLenBuiltinAcceptsAnySliceArgument(t *testing.T) {
	a := newTestAnalyzer()
	fn := &ast.FunctionDecl{
		Name:       "count",
		Params:     []*ast.ParamDecl{param("xs", &ast.SliceTypeNode{Element: typ("i64")})},
		ReturnType: typ("usize"),
		Body: block(
			ret(&ast.CallExpr{Callee: ident("len"), Args: []ast.Expression{ident("xs")}}),
		),
	}
	ok := a.AnalyzeProgram(program(fn))
	assert.True(t, ok, "errors: %v", a.GetErrors())
}
