package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/diagnostics"
)

func newEngine() *diagnostics.Engine {
	return diagnostics.NewEngine(100, true)
}

func TestValidateRecognizesKnownTagInValidContext(t *testing.T) {
	eng := newEngine()
	site := Site{Context: CtxFunction}
	anns := []ast.Annotation{{Name: TagInline}}

	recognized := Validate(site, anns, eng)

	assert.True(t, recognized[TagInline])
	assert.False(t, eng.HasErrors())
}

func TestValidateRejectsUnknownAnnotation(t *testing.T) {
	eng := newEngine()
	site := Site{Context: CtxFunction}
	anns := []ast.Annotation{{Name: "not_a_real_tag"}}

	recognized := Validate(site, anns, eng)

	assert.False(t, recognized["not_a_real_tag"])
	require.NotEmpty(t, eng.Errors())
	assert.Equal(t, diagnostics.UnknownAnnotation, eng.Errors()[0].Code)
}

func TestValidateRejectsAnnotationInWrongContext(t *testing.T) {
	eng := newEngine()
	// TagInline is valid on functions, not on a bare statement.
	site := Site{Context: CtxStatement}
	anns := []ast.Annotation{{Name: TagInline}}

	Validate(site, anns, eng)

	require.NotEmpty(t, eng.Errors())
	assert.Equal(t, diagnostics.InvalidAnnotationContext, eng.Errors()[0].Code)
}
