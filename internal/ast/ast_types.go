package ast

// BaseTypeNode names a type by identifier, optionally with generic
// type arguments (e.g. `i32`, `T`, or a bare generic name used as a
// type alias target).
type BaseTypeNode struct {
	Base
	Name     string
	TypeArgs []Type
}

func (*BaseTypeNode) typeNode() {}

// StructTypeNode names a struct type, optionally with type arguments.
type StructTypeNode struct {
	Base
	Name     string
	TypeArgs []Type
}

func (*StructTypeNode) typeNode() {}

// EnumTypeNode names an enum type, optionally with type arguments.
type EnumTypeNode struct {
	Base
	Name     string
	TypeArgs []Type
}

func (*EnumTypeNode) typeNode() {}

// SliceTypeNode is `[]Element`.
type SliceTypeNode struct {
	Base
	Element Type
}

func (*SliceTypeNode) typeNode() {}

// ArrayTypeNode is `[Element; Size]`, where Size must resolve to a
// compile-time integer constant >= 1 (spec §4.E).
type ArrayTypeNode struct {
	Base
	Element  Type
	SizeExpr Expression
}

func (*ArrayTypeNode) typeNode() {}

// PointerTypeNode is `*T` or `*mut T`.
type PointerTypeNode struct {
	Base
	Pointee Type
	Mutable bool
}

func (*PointerTypeNode) typeNode() {}

// ResultTypeNode is `Result<Ok, Err>`.
type ResultTypeNode struct {
	Base
	Ok  Type
	Err Type
}

func (*ResultTypeNode) typeNode() {}

// TupleTypeNode is `(T1, T2, ...)`, at least 2 elements.
type TupleTypeNode struct {
	Base
	Elements []Type
}

func (*TupleTypeNode) typeNode() {}
