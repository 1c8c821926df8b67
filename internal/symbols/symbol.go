// Package symbols implements the hierarchical, thread-safe symbol
// table (spec §3 SymbolEntry/SymbolTable, §4.B). Grounded on the
// teacher's internal/symbols split-by-concern layout (core/
// operations/aliases/resolution/advanced), generalized from funxy's
// trait-dictionary-aware table to the spec's flatter model and given
// an explicit sync.RWMutex per table, since spec §4.B and §5 require
// concurrent readers (the teacher's table is single-writer,
// single-file and never shared across goroutines).
package symbols

import (
	"github.com/funxylang/semcore/internal/ast"
	"github.com/funxylang/semcore/internal/constval"
	"github.com/funxylang/semcore/internal/token"
	"github.com/funxylang/semcore/internal/types"
)

// SymbolKind tags what a SymbolEntry denotes (spec §3).
type SymbolKind int

const (
	KindVariable SymbolKind = iota
	KindParameter
	KindField
	KindFunction
	KindMethod
	KindType
	KindTypeParameter
	KindEnumVariant
	KindConst
)

func (k SymbolKind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindParameter:
		return "parameter"
	case KindField:
		return "field"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindType:
		return "type"
	case KindTypeParameter:
		return "type-parameter"
	case KindEnumVariant:
		return "enum-variant"
	case KindConst:
		return "const"
	default:
		return "invalid-kind"
	}
}

// ScopeType tags what kind of lexical construct a SymbolTable
// corresponds to (spec §4.B "New scope on function body, block, match
// arm, for/if blocks, impl body").
type ScopeType int

const (
	ScopeGlobal ScopeType = iota
	ScopeFunction
	ScopeBlock
	ScopeMatchArm
	ScopeImplBody
)

// Flags is the per-symbol flag set from spec §3.
type Flags struct {
	Used        bool
	Exported    bool
	Mutable     bool
	Initialized bool
	Predeclared bool
}

// Entry is one symbol table entry (spec §3 SymbolEntry).
type Entry struct {
	Name           string
	Type           *types.Descriptor
	Kind           SymbolKind
	Declaration    ast.Node
	ScopeID        string
	Visibility     types.Visibility
	IsGeneric      bool
	TypeParamCount int
	ConstValue     *constval.ConstValue // non-nil only for KindConst
	Flags          Flags
	Location       token.SourceLocation
}
