package ast

import (
	"testing"
)

// Tests for auto-generated string methods
func TestNodeTypeStrings(t *testing.T) {
	nodeTypes := []NodeType{
		ILLEGAL,
		BAD_DECL,
		BAD_STMT,
		BAD_EXPR,
		DOC_COMMENT,
		COMMENT,
		TRANSLATION_UNIT,
		IDENT,
		TYPE,
		STRUCT_DECL,
		STRUCT_FIELD,
		FUNCTION_DECL,
		PARAM,
		BLOCK_STMT,
		EXPR_STMT,
		RETURN_STMT,
		IF_STMT,
		WHILE_STMT,
		FOR_STMT,
		DECL_STMT,
		ASSIGN_STMT,
		BREAK_STMT,
		CONTINUE_STMT,
		BINARY_EXPR,
		UNARY_EXPR,
		CALL_EXPR,
		INDEX_EXPR,
		MEMBER_EXPR,
		CAST_EXPR,
		SIZEOF_EXPR,
		INT_LITERAL,
		FLOAT_LITERAL,
		CHAR_LITERAL,
		STRING_LITERAL,
		IDENT_EXPR,
		PAREN_EXPR,
	}

	for _, nodeType := range nodeTypes {
		str := nodeType.String()
		if str == "" {
			t.Errorf("NodeType %v should have non-empty string", nodeType)
		}
	}
}

// Test AssignType strings to cover assigntype_string.go
func TestAssignTypeStrings(t *testing.T) {
	assignTypes := []AssignType{
		ILLEGAL_ASSIGN,
		ASSIGN,
		PLUS_ASSIGN,
		MINUS_ASSIGN,
		STAR_ASSIGN,
		SLASH_ASSIGN,
		PERCENT_ASSIGN,
		AND_ASSIGN,
		OR_ASSIGN,
		XOR_ASSIGN,
		SHL_ASSIGN,
		SHR_ASSIGN,
	}

	for _, assignType := range assignTypes {
		str := assignType.String()
		if str == "" {
			t.Errorf("AssignType %v should have non-empty string", assignType)
		}
	}
}

// Test interface methods using the simplest possible constructions
func TestInterfaceMethodsMinimal(t *testing.T) {
	expr := &IntLiteral{Value: 42}
	expr.isExpr()

	identExpr := &IdentExpr{Name: "test"}
	identExpr.isExpr()

	stmt := &ExprStmt{Expr: expr}
	stmt.isStmt()

	fn := &FunctionDecl{Name: Ident{Value: "test"}, ReturnType: &Type{Kind: TypeVoid}, Body: &BlockStmt{}}
	fn.isDecl()
}

// Test complex string methods for printer functionality
func TestComplexStringMethods(t *testing.T) {
	declStmt := &DeclStmt{
		Name: Ident{Value: "x"},
		Type: &Type{Kind: TypeInt},
	}
	declStr := declStmt.String()
	if declStr == "" {
		t.Error("DeclStmt string should not be empty")
	}

	ifStmt := &IfStmt{
		Cond: &IntLiteral{Value: 1},
		Then: &BlockStmt{},
	}
	ifStr := ifStmt.String()
	if ifStr == "" {
		t.Error("IfStmt string should not be empty")
	}

	// Exercise every interface method for coverage.
	allExprs := []Expr{
		&BadExpr{},
		&BinaryExpr{},
		&UnaryExpr{},
		&PostfixExpr{},
		&CallExpr{},
		&IndexExpr{},
		&MemberExpr{},
		&CastExpr{},
		&SizeofExpr{},
		&IntLiteral{},
		&FloatLiteral{},
		&CharLiteral{},
		&StringLiteral{},
		&IdentExpr{Name: "test"},
		&ParenExpr{},
	}

	for _, e := range allExprs {
		e.isExpr()
	}

	allDecls := []Decl{
		&BadDecl{},
		&DocComment{},
		&Comment{},
		&StructDecl{},
		&FunctionDecl{Name: Ident{Value: "test"}, ReturnType: &Type{Kind: TypeVoid}, Body: &BlockStmt{}},
	}

	for _, d := range allDecls {
		d.isDecl()
	}

	allStmts := []Stmt{
		&BadStmt{},
		&BlockStmt{},
		&ExprStmt{},
		&ReturnStmt{},
		&DeclStmt{},
		&IfStmt{},
		&WhileStmt{},
		&ForStmt{},
		&BreakStmt{},
		&ContinueStmt{},
		&AssignStmt{},
		&Comment{},
	}

	for _, s := range allStmts {
		s.isStmt()
	}
}
