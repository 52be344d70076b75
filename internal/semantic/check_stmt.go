package semantic

import (
	"cprizm/internal/ast"
	cerrors "cprizm/internal/errors"
)

// checkStmts type-checks a statement list in order, reporting the first
// statement made unreachable by an earlier one that always transfers
// control away, and reports whether control can fall off the end of the
// list.
func (c *checker) checkStmts(stmts []ast.Stmt) bool {
	terminated := false
	warned := false
	for _, s := range stmts {
		if terminated && !warned {
			c.diag(cerrors.UnreachableCode(s.NodePos()))
			warned = true
		}
		if c.checkStmt(s) {
			terminated = true
		}
	}
	return !terminated
}

// checkStmt type-checks one statement and reports whether it always
// transfers control away from the statements following it.
func (c *checker) checkStmt(s ast.Stmt) bool {
	switch v := s.(type) {
	case *ast.BlockStmt:
		c.scopes.push()
		term := !c.checkStmts(v.Stmts)
		c.reportUnused(c.scopes.pop())
		return term

	case *ast.ExprStmt:
		c.checkExpr(v.Expr)
		return false

	case *ast.ReturnStmt:
		c.checkReturn(v)
		return true

	case *ast.DeclStmt:
		c.checkDecl(v)
		return false

	case *ast.IfStmt:
		return c.checkIf(v)

	case *ast.WhileStmt:
		c.checkCond(v.Cond)
		c.loopDepth++
		c.scopes.push()
		c.checkStmts(v.Body.Stmts)
		c.reportUnused(c.scopes.pop())
		c.loopDepth--
		return false

	case *ast.ForStmt:
		c.scopes.push()
		if v.Init != nil {
			c.checkStmt(v.Init)
		}
		if v.Cond != nil {
			c.checkCond(v.Cond)
		}
		c.loopDepth++
		c.scopes.push()
		c.checkStmts(v.Body.Stmts)
		c.reportUnused(c.scopes.pop())
		c.loopDepth--
		if v.Post != nil {
			c.checkStmt(v.Post)
		}
		c.reportUnused(c.scopes.pop())
		return false

	case *ast.BreakStmt:
		if c.loopDepth == 0 {
			c.diag(cerrors.NewSemanticError(cerrors.ErrorInvalidOperation, "break statement not within a loop", v.Pos).Build())
		}
		return true

	case *ast.ContinueStmt:
		if c.loopDepth == 0 {
			c.diag(cerrors.NewSemanticError(cerrors.ErrorInvalidOperation, "continue statement not within a loop", v.Pos).Build())
		}
		return true

	case *ast.AssignStmt:
		c.checkAssign(v)
		return false

	case *ast.Comment:
		return false

	case *ast.BadStmt:
		return false

	default:
		return false
	}
}

func (c *checker) reportUnused(entries []*varEntry) {
	for _, e := range entries {
		if !e.Used && !e.IsParam {
			c.diag(cerrors.UnusedVariable(e.Name, e.Pos))
		}
	}
}

// checkIf type-checks a conditional and reports whether both arms always
// transfer control away, so that e.g. an if/else covering both return
// cases counts as a terminating statement.
func (c *checker) checkIf(v *ast.IfStmt) bool {
	c.checkCond(v.Cond)

	c.scopes.push()
	thenTerm := !c.checkStmts(v.Then.Stmts)
	c.reportUnused(c.scopes.pop())

	if v.Else == nil {
		return false
	}
	elseTerm := c.checkStmt(v.Else)
	return thenTerm && elseTerm
}

// checkCond type-checks a condition expression and requires it to be
// scalar, the same rule C uses for if/while/for conditions.
func (c *checker) checkCond(e ast.Expr) {
	t := c.checkExpr(e)
	if t != nil && !isScalar(t) {
		c.diag(cerrors.TypeMismatch("scalar", typeString(t), e.NodePos()))
	}
}

func (c *checker) checkReturn(v *ast.ReturnStmt) {
	want := c.fn.Return
	if v.Value == nil {
		if want.Kind != ast.TypeVoid {
			c.diag(cerrors.TypeMismatch(typeString(want), "void", v.Pos))
		}
		return
	}
	got := c.checkExpr(v.Value)
	if want.Kind == ast.TypeVoid {
		c.diag(cerrors.TypeMismatch("void", typeString(got), v.Value.NodePos()))
		return
	}
	if got != nil && !assignable(want, got) {
		c.diag(cerrors.TypeMismatch(typeString(want), typeString(got), v.Value.NodePos()))
	}
}

func (c *checker) checkDecl(v *ast.DeclStmt) {
	c.resolveType(v.Type, v.Pos)
	if v.Init != nil {
		got := c.checkExpr(v.Init)
		if got != nil && !assignable(v.Type, got) {
			c.diag(cerrors.TypeMismatch(typeString(v.Type), typeString(got), v.Init.NodePos()))
		}
	}
	if !c.scopes.declare(v.Name.Value, v.Type, v.Pos, false) {
		c.diag(cerrors.DuplicateDeclaration(v.Name.Value, v.Pos))
	}
}

func (c *checker) checkAssign(v *ast.AssignStmt) {
	c.checkAssignment(v.Target, v.Operator, v.Value, v.Pos)
}

// checkAssignment type-checks an assignment regardless of whether the
// parser produced it as a statement-level ast.AssignStmt or folded it into
// an expression as an ast.BinaryExpr.
func (c *checker) checkAssignment(target ast.Expr, op ast.AssignType, value ast.Expr, pos ast.Position) *ast.Type {
	if !isAssignable(target) {
		c.diag(cerrors.NotAnLvalue(target.NodePos()))
	}
	targetType := c.checkExpr(target)
	valueType := c.checkExpr(value)
	if targetType == nil || valueType == nil {
		return nil
	}
	if op != ast.ASSIGN && !isNumeric(targetType) && !isPointer(targetType) {
		c.diag(cerrors.InvalidAssignment("compound assignment requires a numeric or pointer operand", pos))
		return nil
	}
	if !assignable(targetType, valueType) {
		c.diag(cerrors.TypeMismatch(typeString(targetType), typeString(valueType), value.NodePos()))
		return nil
	}
	return targetType
}

// assignable reports whether a value of type from may be stored into a
// location of type to without an explicit cast: identical types, or the
// usual numeric promotions, or a pointer to or from void*.
func assignable(to, from *ast.Type) bool {
	if typesEqual(to, from) {
		return true
	}
	if isNumeric(to) && isNumeric(from) {
		return true
	}
	if isPointer(to) && isPointer(from) {
		if to.Elem.Kind == ast.TypeVoid || from.Elem.Kind == ast.TypeVoid {
			return true
		}
		return typesEqual(to.Elem, from.Elem)
	}
	return false
}
