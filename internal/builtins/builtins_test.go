package builtins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funxylang/semcore/internal/symbols"
	"github.com/funxylang/semcore/internal/types"
)

func newSeededGlobal(t *testing.T) *symbols.Table {
	t.Helper()
	global := symbols.NewRoot()
	Seed(global)
	return global
}

func TestSeedRegistersEveryPrimitiveName(t *testing.T) {
	global := newSeededGlobal(t)
	for name := range PrimitiveTypeNames {
		entry, ok := global.LookupLocal(name)
		require.Truef(t, ok, "primitive %q must be registered", name)
		assert.Equal(t, symbols.KindType, entry.Kind)
		assert.True(t, entry.Flags.Predeclared)
	}
}

func TestSeedRegistersOptionAndResult(t *testing.T) {
	global := newSeededGlobal(t)

	optEntry, ok := global.LookupLocal(OptionEnumName)
	require.True(t, ok)
	assert.True(t, optEntry.IsGeneric)
	assert.Equal(t, 1, optEntry.TypeParamCount)

	for _, qualified := range []string{"Option.Some", "Option.None"} {
		_, ok := global.LookupLocal(qualified)
		assert.Truef(t, ok, "expected qualified variant %q", qualified)
	}

	resEntry, ok := global.LookupLocal(ResultEnumName)
	require.True(t, ok)
	assert.True(t, resEntry.IsGeneric)
	assert.Equal(t, 2, resEntry.TypeParamCount)

	for _, qualified := range []string{"Result.Ok", "Result.Err"} {
		_, ok := global.LookupLocal(qualified)
		assert.Truef(t, ok, "expected qualified variant %q", qualified)
	}
}

func TestOptionResultBasesAreProcessWideSingletons(t *testing.T) {
	newSeededGlobal(t)
	firstOption, firstResult := OptionBase(), ResultBase()

	newSeededGlobal(t) // a second, independent analyzer's global table
	assert.Same(t, firstOption, OptionBase(), "Option base must canonicalize across analyzers")
	assert.Same(t, firstResult, ResultBase(), "Result base must canonicalize across analyzers")
}

func TestSeedRegistersPredeclaredFunctions(t *testing.T) {
	global := newSeededGlobal(t)

	for _, name := range []string{LogFunc, RangeFunc, LenFunc, PanicFunc, ArgsFunc, AssertFunc} {
		entry, ok := global.LookupLocal(name)
		require.Truef(t, ok, "predeclared function %q must be registered", name)
		assert.Equal(t, symbols.KindFunction, entry.Kind)
		require.Equal(t, types.KindFunction, entry.Type.Kind())
	}

	lenEntry, _ := global.LookupLocal(LenFunc)
	assert.True(t, lenEntry.IsGeneric)
	assert.Equal(t, 1, lenEntry.TypeParamCount)

	panicEntry, _ := global.LookupLocal(PanicFunc)
	assert.Equal(t, types.Never, panicEntry.Type.Return().PrimitiveKind())
}

func TestSeedPanicsOnDoubleSeedingSameTable(t *testing.T) {
	global := symbols.NewRoot()
	Seed(global)
	assert.Panics(t, func() { Seed(global) })
}
