package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/types"
)

func volatileInt() *types.Descriptor {
	d := types.CreatePrimitive(types.I32)
	d.Flags.Volatile = true
	return d
}

func TestIsVolatileTaintedFalseForPlainIdentifier(t *testing.T) {
	id := &ast.Identifier{Name: "x"}
	id.SetResolvedType(types.CreatePrimitive(types.I32))

	assert.False(t, IsVolatileTainted(id))
}

func TestIsVolatileTaintedTrueForVolatileIdentifier(t *testing.T) {
	id := &ast.Identifier{Name: "x"}
	id.SetResolvedType(volatileInt())

	assert.True(t, IsVolatileTainted(id))
}

func TestIsVolatileTaintedPropagatesThroughFieldAccess(t *testing.T) {
	base := &ast.Identifier{Name: "dev"}
	base.SetResolvedType(volatileInt())

	access := &ast.FieldAccessExpr{Base: base, Field: "status"}
	access.SetResolvedType(types.CreatePrimitive(types.I32))

	assert.True(t, IsVolatileTainted(access))
}

func TestIsVolatileTaintedPropagatesThroughDeref(t *testing.T) {
	base := &ast.Identifier{Name: "ptr"}
	base.SetResolvedType(volatileInt())

	deref := &ast.UnaryExpr{Op: "*", Operand: base}
	deref.SetResolvedType(types.CreatePrimitive(types.I32))

	assert.True(t, IsVolatileTainted(deref))
}

func TestIsVolatileTaintedFalseForUnrelatedUnaryOp(t *testing.T) {
	base := &ast.Identifier{Name: "flag"}
	base.SetResolvedType(volatileInt())

	neg := &ast.UnaryExpr{Op: "!", Operand: base}
	neg.SetResolvedType(types.CreatePrimitive(types.Bool))

	assert.False(t, IsVolatileTainted(neg))
}
