package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/config"
)

func typ(name string) *ast.BaseTypeNode { return &ast.BaseTypeNode{Name: name} }

func TestAnalyzeFilesIsolatesPerFileFailure(t *testing.T) {
	good := &ast.Program{
		File: "good.fx",
		Statements: []ast.Statement{
			&ast.FunctionDecl{
				Name:       "main",
				ReturnType: typ("void"),
				Body:       &ast.BlockStmt{},
			},
		},
	}
	bad := &ast.Program{
		File: "bad.fx",
		Statements: []ast.Statement{
			&ast.FunctionDecl{
				Name:       "broken",
				ReturnType: typ("i32"),
				Body: &ast.BlockStmt{Statements: []ast.Statement{
					&ast.ReturnStmt{Value: &ast.Identifier{Name: "missing"}},
				}},
			},
		},
	}

	d := New(config.Default(), nil)
	results, err := d.AnalyzeFiles(context.Background(), []*ast.Program{good, bad})

	require.Len(t, results, 2)
	assert.Equal(t, "good.fx", results[0].Path)
	assert.True(t, results[0].Success)
	assert.Equal(t, "bad.fx", results[1].Path)
	assert.False(t, results[1].Success)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.fx")
	assert.NotContains(t, err.Error(), "good.fx")
}

func TestAnalyzeFilesAllSucceedYieldsNilError(t *testing.T) {
	a := &ast.Program{
		File: "a.fx",
		Statements: []ast.Statement{
			&ast.FunctionDecl{Name: "main", ReturnType: typ("void"), Body: &ast.BlockStmt{}},
		},
	}
	b := &ast.Program{
		File: "b.fx",
		Statements: []ast.Statement{
			&ast.FunctionDecl{Name: "helper", ReturnType: typ("void"), Body: &ast.BlockStmt{}},
		},
	}

	d := New(config.Default(), nil)
	results, err := d.AnalyzeFiles(context.Background(), []*ast.Program{a, b})

	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Success)
	}
}

func TestAnalyzeFilesRegistersSiblingGlobalTablesForImportResolution(t *testing.T) {
	a := &ast.Program{
		File:    "a.fx",
		Imports: []*ast.ImportStatement{{Path: "b.fx", Alias: "b"}},
	}
	b := &ast.Program{File: "b.fx"}

	d := New(config.Default(), nil)
	results, err := d.AnalyzeFiles(context.Background(), []*ast.Program{a, b})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Each analyzer should know about its sibling's module path, so a
	// later `import "b.fx" as b` in a.fx resolves against real content
	// rather than an empty placeholder.
	require.NotNil(t, results[0].Analyzer)
	require.NotNil(t, results[1].Analyzer)
	ref, ok := results[0].Analyzer.Global.ResolveAlias("b")
	require.True(t, ok)
	assert.Same(t, results[1].Analyzer.Global, ref)
}
