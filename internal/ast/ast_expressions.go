package ast

// --- literals ---------------------------------------------------------------

type IntegerLiteral struct {
	ExprBase
	Text  string // original lexeme, for range-check diagnostics
	Value int64
}

type FloatLiteral struct {
	ExprBase
	Value float64
}

type StringLiteral struct {
	ExprBase
	Value string
}

type BoolLiteral struct {
	ExprBase
	Value bool
}

type CharLiteral struct {
	ExprBase
	Value rune
}

type UnitLiteral struct {
	ExprBase
}

// --- names and operators -----------------------------------------------------

type Identifier struct {
	ExprBase
	Name string
}

type BinaryExpr struct {
	ExprBase
	Op    string
	Left  Expression
	Right Expression
}

type UnaryExpr struct {
	ExprBase
	Op      string
	Operand Expression
}

type CastExpr struct {
	ExprBase
	Value      Expression
	TargetType Type
}

// --- calls and access ---------------------------------------------------------

type CallExpr struct {
	ExprBase
	Callee   Expression
	Args     []Expression
	TypeArgs []Type // explicit `::<...>` generic arguments, if any
}

// AssociatedFuncCallExpr is `TypeName::funcName(args...)`.
type AssociatedFuncCallExpr struct {
	ExprBase
	TypeName string
	FuncName string
	Args     []Expression
}

type FieldAccessExpr struct {
	ExprBase
	Base  Expression
	Field string
}

type IndexAccessExpr struct {
	ExprBase
	Base  Expression
	Index Expression
}

// --- composite literals ---------------------------------------------------------

type FieldInit struct {
	Name  string
	Value Expression
}

type StructLiteralExpr struct {
	ExprBase
	TypeName string
	TypeArgs []Type
	Fields   []FieldInit
}

// EnumVariantExpr constructs a variant, e.g. `Option.Some(1)`.
type EnumVariantExpr struct {
	ExprBase
	EnumName string
	Variant  string
	Payload  Expression // nil if the variant carries no payload
}

type TupleLiteralExpr struct {
	ExprBase
	Elements []Expression
}

type ArrayLiteralExpr struct {
	ExprBase
	Elements []Expression
}

// AwaitExpr awaits a TaskHandle produced by `spawn_with_handle`.
type AwaitExpr struct {
	ExprBase
	Value Expression
}
