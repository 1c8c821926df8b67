package ast

// ImportStatement records a module import, optionally aliased
// (`import mod as alias`, spec §4.B module aliases).
type ImportStatement struct {
	Base
	Path  string
	Alias string // empty if not aliased
}

func (*ImportStatement) statementNode() {}

// ParamDecl is one function/method parameter.
type ParamDecl struct {
	Base
	Name       string
	Type       Type
	HasDefault bool
	Default    Expression // nil unless HasDefault
}

// FunctionDecl declares a free function.
type FunctionDecl struct {
	Base
	Name       string
	TypeParams []string
	Params     []*ParamDecl
	ReturnType Type
	Body       *BlockStmt
}

func (*FunctionDecl) statementNode() {}

// FieldDecl is one struct field.
type FieldDecl struct {
	Base
	Name       string
	Type       Type
	Visibility Visibility
}

// Visibility mirrors types.Visibility for AST-level field/decl
// visibility annotations (kept as a distinct small enum here so the
// ast package does not need to import types for anything but the
// resolved-type slot).
type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
)

// StructDecl declares a struct type, optionally generic.
type StructDecl struct {
	Base
	Name       string
	TypeParams []string
	Fields     []*FieldDecl
}

func (*StructDecl) statementNode() {}

// EnumVariantDecl is one enum variant declaration.
type EnumVariantDecl struct {
	Base
	Name               string
	PayloadType        Type // nil if the variant carries no payload
	ExplicitDiscriminant *int64
}

// EnumDecl declares an enum type, optionally generic.
type EnumDecl struct {
	Base
	Name       string
	TypeParams []string
	Variants   []*EnumVariantDecl
}

func (*EnumDecl) statementNode() {}

// ExternDecl declares an FFI function with no body.
type ExternDecl struct {
	Base
	Name       string
	Params     []*ParamDecl
	ReturnType Type
}

func (*ExternDecl) statementNode() {}

// MethodDecl declares a method inside an impl block. By convention the
// first parameter is named `self` (spec §4.I impl-block).
type MethodDecl struct {
	Base
	Name       string
	TypeParams []string
	Params     []*ParamDecl
	ReturnType Type
	Body       *BlockStmt
}

func (*MethodDecl) statementNode() {}

// ImplBlock declares methods for a target type.
type ImplBlock struct {
	Base
	TargetType Type
	Methods    []*MethodDecl
}

func (*ImplBlock) statementNode() {}

// ConstDecl declares a compile-time constant.
type ConstDecl struct {
	Base
	Name           string
	TypeAnnotation Type
	Value          Expression
}

func (*ConstDecl) statementNode() {}
