// Package ast defines the node taxonomy the parser is contracted to
// produce (spec §3, §6). This package carries no parsing logic — in
// this repo the parser is an external collaborator; tests build trees
// directly, exactly as the AST contract describes.
package ast

import (
	"github.com/funxylang/semcore/internal/token"
	"github.com/funxylang/semcore/internal/types"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Loc() token.SourceLocation
}

// Statement is a Node that appears in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that appears in expression position and
// receives a resolved type from the analyzer.
type Expression interface {
	Node
	expressionNode()
	ResolvedType() *types.Descriptor
	SetResolvedType(*types.Descriptor)
}

// Type is a type-level AST node (spec §3 "type nodes").
type Type interface {
	Node
	typeNode()
}

// Pattern is a match-arm or if-let pattern node.
type Pattern interface {
	Node
	patternNode()
}

// Base is embedded by every concrete node to provide its source
// location and annotation list. The resolver attaches ResolvedType
// only on Expression nodes (spec §3: "a slot for the resolver to
// attach a resolved type").
type Base struct {
	Location    token.SourceLocation
	Annotations []Annotation
}

func (b *Base) Loc() token.SourceLocation { return b.Location }

// ExprBase additionally carries the resolved-type slot and the
// `is_constant_expr` flag (spec §6: "mutates only the resolved_type
// slot and flags").
type ExprBase struct {
	Base
	resolvedType    *types.Descriptor
	IsConstantExpr  bool
}

func (e *ExprBase) ResolvedType() *types.Descriptor { return e.resolvedType }
func (e *ExprBase) SetResolvedType(t *types.Descriptor) {
	if e.resolvedType == t {
		return
	}
	if e.resolvedType != nil {
		e.resolvedType.Release()
	}
	e.resolvedType = t.Retain()
}

func (e *ExprBase) expressionNode() {}

// AnnotationKind distinguishes the three annotation node kinds spec
// §3 enumerates: semantic-tag, security-tag, ffi-transfer-tag.
type AnnotationKind int

const (
	AnnotationSemantic AnnotationKind = iota
	AnnotationSecurity
	AnnotationFFITransfer
)

// AnnotationArg is one parameter passed to an annotation, e.g.
// `message: "deprecated"` inside `#[deprecated(message: "...")]`.
type AnnotationArg struct {
	Name  string // empty for positional args
	Value any    // string, int64, bool, or an identifier/enum-set token
}

// Annotation is a single `#[name(args...)]` site attached to a
// declaration, statement, expression, parameter, or return type.
type Annotation struct {
	Kind     AnnotationKind
	Name     string
	Args     []AnnotationArg
	Location token.SourceLocation
}

func (a Annotation) Loc() token.SourceLocation { return a.Location }

// Program is the root node of a single translation unit.
type Program struct {
	Base
	File       string
	Imports    []*ImportStatement
	Statements []Statement
}

func (p *Program) statementNode() {}
