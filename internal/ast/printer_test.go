package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslationUnitString(t *testing.T) {
	unit := &TranslationUnit{
		Decls: []Decl{
			&FunctionDecl{
				Name:       Ident{Value: "main"},
				ReturnType: &Type{Kind: TypeInt},
				Body:       &BlockStmt{},
			},
		},
	}

	expected := "int main() {\n}\n"
	assert.Equal(t, expected, unit.String())
}

func TestDeclStmtString(t *testing.T) {
	declStmt := &DeclStmt{
		Name: Ident{Value: "balance"},
		Type: &Type{Kind: TypeInt},
		Init: &IntLiteral{Value: 100},
	}

	assert.Equal(t, "int balance = 100;", declStmt.String())
}

func TestDeclStmtStringUninitialized(t *testing.T) {
	declStmt := &DeclStmt{
		Name: Ident{Value: "counter"},
		Type: &Type{Kind: TypeInt},
	}

	assert.Equal(t, "int counter;", declStmt.String())
}

func TestIfStmtString(t *testing.T) {
	ifStmt := &IfStmt{
		Cond: &BinaryExpr{
			Left:  &IdentExpr{Name: "amount"},
			Op:    ">",
			Right: &IntLiteral{Value: 0},
		},
		Then: &BlockStmt{},
	}

	expected := "if ((amount > 0)) {\n}"
	assert.Equal(t, expected, ifStmt.String())
}

func TestAssignStmtCompoundOperators(t *testing.T) {
	assignStmt := &AssignStmt{
		Target:   &IdentExpr{Name: "total"},
		Operator: PLUS_ASSIGN,
		Value:    &IdentExpr{Name: "amount"},
	}

	assert.Equal(t, "total += amount;", assignStmt.String())
}

func TestComplexFunctionString(t *testing.T) {
	fn := &FunctionDecl{
		ReturnType: &Type{Kind: TypeInt},
		Name:       Ident{Value: "transfer"},
		Params: []*Param{
			{Name: Ident{Value: "to"}, Type: &Type{Kind: TypePointer, Elem: &Type{Kind: TypeChar}}},
			{Name: Ident{Value: "amount"}, Type: &Type{Kind: TypeInt}},
		},
		Body: &BlockStmt{
			Stmts: []Stmt{
				&DeclStmt{
					Name: Ident{Value: "total"},
					Type: &Type{Kind: TypeInt},
					Init: &IdentExpr{Name: "amount"},
				},
				&IfStmt{
					Cond: &BinaryExpr{
						Left:  &IdentExpr{Name: "total"},
						Op:    ">",
						Right: &IntLiteral{Value: 0},
					},
					Then: &BlockStmt{
						Stmts: []Stmt{
							&ReturnStmt{Value: &IntLiteral{Value: 1}},
						},
					},
				},
			},
		},
	}

	result := fn.String()
	assert.Contains(t, result, "int transfer(char* to, int amount) {")
	assert.Contains(t, result, "int total = amount;")
	assert.Contains(t, result, "if ((total > 0)) {")
	assert.Contains(t, result, "return 1;")
}

func TestStructDeclString(t *testing.T) {
	decl := &StructDecl{
		Name: Ident{Value: "point"},
		Fields: []*StructField{
			{Name: Ident{Value: "x"}, Type: &Type{Kind: TypeInt}},
			{Name: Ident{Value: "y"}, Type: &Type{Kind: TypeInt}},
		},
	}

	assert.Equal(t, "struct point {int x; int y;}", decl.String())
}
