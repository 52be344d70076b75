package ast

// Decl is a top-level declaration: a struct, a function declaration or
// definition, or a parse-error placeholder.
type Decl interface {
	Node
	isDecl()
}

func (*DocComment) isDecl() {}

func (*Comment) isDecl() {}

func (*BadDecl) isDecl() {}

func (*StructDecl) isDecl() {}

func (*FunctionDecl) isDecl() {}
