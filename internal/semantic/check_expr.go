package semantic

import (
	"cprizm/internal/ast"
	cerrors "cprizm/internal/errors"
)

// checkExpr type-checks e, records its resolved type in the side-table, and
// returns that type (nil once an error makes it unknowable, so callers
// should treat a nil result as "already reported, stop propagating").
func (c *checker) checkExpr(e ast.Expr) *ast.Type {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return c.result.setType(e, intType())

	case *ast.FloatLiteral:
		return c.result.setType(e, doubleType())

	case *ast.CharLiteral:
		return c.result.setType(e, charType())

	case *ast.StringLiteral:
		return c.result.setType(e, pointerTo(charType()))

	case *ast.IdentExpr:
		return c.checkIdent(v)

	case *ast.ParenExpr:
		t := c.checkExpr(v.Value)
		return c.result.setType(e, t)

	case *ast.UnaryExpr:
		return c.checkUnary(v)

	case *ast.PostfixExpr:
		t := c.checkExpr(v.Value)
		if t != nil && !isNumeric(t) && !isPointer(t) {
			c.diag(cerrors.InvalidOperation(v.Op, typeString(t), "", v.Pos))
			return nil
		}
		if !isAssignable(v.Value) {
			c.diag(cerrors.NotAnLvalue(v.Value.NodePos()))
		}
		return c.result.setType(e, t)

	case *ast.BinaryExpr:
		return c.checkBinary(v)

	case *ast.CallExpr:
		return c.checkCall(v)

	case *ast.IndexExpr:
		return c.checkIndex(v)

	case *ast.MemberExpr:
		return c.checkMember(v)

	case *ast.CastExpr:
		inner := c.checkExpr(v.Value)
		c.resolveType(v.Type, v.Pos)
		if inner != nil && !isCastable(v.Type, inner) {
			c.diag(cerrors.InvalidCast(typeString(inner), typeString(v.Type), v.Pos))
		}
		return c.result.setType(e, v.Type)

	case *ast.SizeofExpr:
		if v.Value != nil {
			c.checkExpr(v.Value)
		} else {
			c.resolveType(v.Type, v.Pos)
		}
		return c.result.setType(e, unsignedLongType())

	case *ast.BadExpr:
		return nil

	default:
		return nil
	}
}

func (c *checker) checkIdent(v *ast.IdentExpr) *ast.Type {
	if entry, ok := c.scopes.lookup(v.Name); ok {
		entry.Used = true
		return c.result.setType(v, entry.Type)
	}
	if _, ok := c.result.Funcs[v.Name]; ok {
		c.diag(cerrors.InvalidOperation("use", "function "+v.Name, "", v.Pos))
		return nil
	}
	c.diag(cerrors.UndefinedVariable(v.Name, v.Pos, similarNames(v.Name, c.scopes.names())))
	return nil
}

func (c *checker) checkUnary(v *ast.UnaryExpr) *ast.Type {
	t := c.checkExpr(v.Value)
	if t == nil {
		return nil
	}
	switch v.Op {
	case "-":
		if !isNumeric(t) {
			c.diag(cerrors.InvalidOperation("-", typeString(t), "", v.Pos))
			return nil
		}
		return c.result.setType(v, t)
	case "!":
		if !isScalar(t) {
			c.diag(cerrors.InvalidOperation("!", typeString(t), "", v.Pos))
			return nil
		}
		return c.result.setType(v, intType())
	case "~":
		if !isNumeric(t) || t.Kind == ast.TypeFloat || t.Kind == ast.TypeDouble {
			c.diag(cerrors.InvalidOperation("~", typeString(t), "", v.Pos))
			return nil
		}
		return c.result.setType(v, t)
	case "&":
		if !isAssignable(v.Value) {
			c.diag(cerrors.NotAnLvalue(v.Value.NodePos()))
			return nil
		}
		return c.result.setType(v, pointerTo(t))
	case "*":
		if !isPointer(t) {
			c.diag(cerrors.InvalidOperation("*", typeString(t), "", v.Pos))
			return nil
		}
		return c.result.setType(v, t.Elem)
	case "++", "--":
		if !isAssignable(v.Value) {
			c.diag(cerrors.NotAnLvalue(v.Value.NodePos()))
		}
		if !isNumeric(t) && !isPointer(t) {
			c.diag(cerrors.InvalidOperation(v.Op, typeString(t), "", v.Pos))
			return nil
		}
		return c.result.setType(v, t)
	default:
		return c.result.setType(v, t)
	}
}

var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}
var bitwiseOps = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}
var logicalOps = map[string]bool{"&&": true, "||": true}

func (c *checker) checkBinary(v *ast.BinaryExpr) *ast.Type {
	if assignType, ok := assignOpFor(v.Op); ok {
		return c.checkCompoundAssign(v, assignType)
	}

	left := c.checkExpr(v.Left)
	right := c.checkExpr(v.Right)
	if left == nil || right == nil {
		return nil
	}

	switch {
	case logicalOps[v.Op]:
		if !isScalar(left) || !isScalar(right) {
			c.diag(cerrors.InvalidOperation(v.Op, typeString(left), typeString(right), v.Pos))
			return nil
		}
		return c.result.setType(v, intType())

	case comparisonOps[v.Op]:
		if isPointer(left) != isPointer(right) && !(isPointer(left) && isNumericZero(v.Right)) && !(isPointer(right) && isNumericZero(v.Left)) {
			c.diag(cerrors.InvalidOperation(v.Op, typeString(left), typeString(right), v.Pos))
			return nil
		}
		return c.result.setType(v, intType())

	case bitwiseOps[v.Op]:
		if !isNumeric(left) || !isNumeric(right) || isFloating(left) || isFloating(right) {
			c.diag(cerrors.InvalidOperation(v.Op, typeString(left), typeString(right), v.Pos))
			return nil
		}
		return c.result.setType(v, arithResult(left, right))

	case v.Op == "+" || v.Op == "-":
		if isPointer(left) && isNumeric(right) {
			return c.result.setType(v, left)
		}
		if v.Op == "+" && isPointer(right) && isNumeric(left) {
			return c.result.setType(v, right)
		}
		if v.Op == "-" && isPointer(left) && isPointer(right) {
			return c.result.setType(v, unsignedLongType())
		}
		if !isNumeric(left) || !isNumeric(right) {
			c.diag(cerrors.InvalidOperation(v.Op, typeString(left), typeString(right), v.Pos))
			return nil
		}
		return c.result.setType(v, arithResult(left, right))

	default: // * / %
		if !isNumeric(left) || !isNumeric(right) {
			c.diag(cerrors.InvalidOperation(v.Op, typeString(left), typeString(right), v.Pos))
			return nil
		}
		if v.Op == "%" && (isFloating(left) || isFloating(right)) {
			c.diag(cerrors.InvalidOperation(v.Op, typeString(left), typeString(right), v.Pos))
			return nil
		}
		return c.result.setType(v, arithResult(left, right))
	}
}

func isNumericZero(e ast.Expr) bool {
	lit, ok := e.(*ast.IntLiteral)
	return ok && lit.Value == 0
}

func isFloating(t *ast.Type) bool {
	return t != nil && (t.Kind == ast.TypeFloat || t.Kind == ast.TypeDouble)
}

// arithResult applies the (simplified) usual arithmetic conversions: any
// double wins, else any float wins, else the wider integer type wins.
func arithResult(a, b *ast.Type) *ast.Type {
	rank := func(t *ast.Type) int {
		switch {
		case t.Kind == ast.TypeDouble:
			return 5
		case t.Kind == ast.TypeFloat:
			return 4
		case t.Kind == ast.TypeInt && t.Long:
			return 3
		case t.Kind == ast.TypeInt && !t.Short:
			return 2
		default:
			return 1
		}
	}
	if rank(a) >= rank(b) {
		if rank(a) <= 2 {
			return intType()
		}
		return a
	}
	if rank(b) <= 2 {
		return intType()
	}
	return b
}

var assignOpByText = map[string]ast.AssignType{
	"+=": ast.PLUS_ASSIGN, "-=": ast.MINUS_ASSIGN, "*=": ast.STAR_ASSIGN,
	"/=": ast.SLASH_ASSIGN, "%=": ast.PERCENT_ASSIGN, "&=": ast.AND_ASSIGN,
	"|=": ast.OR_ASSIGN, "^=": ast.XOR_ASSIGN, "<<=": ast.SHL_ASSIGN,
	">>=": ast.SHR_ASSIGN, "=": ast.ASSIGN,
}

func assignOpFor(op string) (ast.AssignType, bool) {
	t, ok := assignOpByText[op]
	return t, ok
}

// checkCompoundAssign type-checks an assignment expressed as a BinaryExpr,
// the shape the parser produces for every "=" family operator.
func (c *checker) checkCompoundAssign(v *ast.BinaryExpr, op ast.AssignType) *ast.Type {
	t := c.checkAssignment(v.Left, op, v.Right, v.Pos)
	if t == nil {
		return nil
	}
	return c.result.setType(v, t)
}

func (c *checker) checkCall(v *ast.CallExpr) *ast.Type {
	name, ok := v.Callee.(*ast.IdentExpr)
	if !ok {
		c.diag(cerrors.InvalidOperation("call", "non-function expression", "", v.Pos))
		return nil
	}
	sig, ok := c.result.Funcs[name.Value]
	if !ok {
		names := make([]string, 0, len(c.result.Funcs))
		for n := range c.result.Funcs {
			names = append(names, n)
		}
		c.diag(cerrors.UndefinedFunction(name.Value, v.Pos, similarNames(name.Value, names)))
		for _, a := range v.Args {
			c.checkExpr(a)
		}
		return nil
	}
	c.calls[name.Value] = true

	if len(v.Args) < len(sig.Params) || (!sig.Variadic && len(v.Args) != len(sig.Params)) {
		c.diag(cerrors.InvalidArguments(name.Value, len(sig.Params), len(v.Args), v.Pos))
	}

	for i, arg := range v.Args {
		got := c.checkExpr(arg)
		if i >= len(sig.Params) {
			continue // variadic tail, untyped in this ABI
		}
		if got != nil && !assignable(sig.Params[i], got) {
			c.diag(cerrors.TypeMismatch(typeString(sig.Params[i]), typeString(got), arg.NodePos()))
		}
	}

	return c.result.setType(v, sig.Return)
}

func (c *checker) checkIndex(v *ast.IndexExpr) *ast.Type {
	target := c.checkExpr(v.Target)
	index := c.checkExpr(v.Index)
	if target == nil {
		return nil
	}
	if index != nil && !isNumeric(index) {
		c.diag(cerrors.TypeMismatch("integer", typeString(index), v.Index.NodePos()))
	}
	switch target.Kind {
	case ast.TypePointer, ast.TypeArray:
		return c.result.setType(v, target.Elem)
	default:
		c.diag(cerrors.InvalidOperation("[]", typeString(target), "", v.Pos))
		return nil
	}
}

func (c *checker) checkMember(v *ast.MemberExpr) *ast.Type {
	target := c.checkExpr(v.Target)
	if target == nil {
		return nil
	}

	structType := target
	if v.Arrow {
		if !isPointer(target) {
			c.diag(cerrors.InvalidOperation("->", typeString(target), "", v.Pos))
			return nil
		}
		structType = target.Elem
	} else if isPointer(target) {
		c.diag(cerrors.InvalidOperation(".", typeString(target), "", v.Pos))
		return nil
	}

	if structType.Kind != ast.TypeStruct {
		c.diag(cerrors.InvalidOperation(".", typeString(structType), "", v.Pos))
		return nil
	}

	info, ok := c.result.Structs[structType.Name]
	if !ok {
		return nil
	}
	fieldType, ok := info.fieldType(v.Field)
	if !ok {
		c.diag(cerrors.FieldNotFound(structType.Name, v.Field, v.Pos, info.fieldNames()))
		return nil
	}
	return c.result.setType(v, fieldType)
}

// isCastable allows casts between any pair of scalar types, and between
// pointer types regardless of pointee, matching C's explicit-cast laxity.
func isCastable(to, from *ast.Type) bool {
	if to.Kind == ast.TypeVoid {
		return true
	}
	if isPointer(to) && isPointer(from) {
		return true
	}
	if isPointer(to) && isNumeric(from) {
		return true
	}
	if isNumeric(to) && isPointer(from) {
		return true
	}
	return isNumeric(to) && isNumeric(from)
}
