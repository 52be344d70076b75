package irbuild

import (
	"cprizm/internal/ast"
	"cprizm/internal/ir"
)

// expr lowers e to an operand, naming every intermediate result as a
// temporary so that, per the IR's operand-flattening invariant, no
// expression ever nests another expression directly.
func (fb *funcBuilder) expr(e ast.Expr) ir.Operand {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return ir.ConstOperand(ir.IntConstant(fb.typeOf(e), v.Value))
	case *ast.FloatLiteral:
		return ir.ConstOperand(ir.FloatConstant(fb.typeOf(e), v.Value))
	case *ast.CharLiteral:
		return ir.ConstOperand(ir.IntConstant(fb.typeOf(e), int64(v.Value)))
	case *ast.StringLiteral:
		return fb.lowerStringLiteral(v)
	case *ast.IdentExpr:
		return fb.readName(v)
	case *ast.ParenExpr:
		return fb.expr(v.Value)
	case *ast.UnaryExpr:
		return fb.lowerUnary(v)
	case *ast.PostfixExpr:
		return fb.lowerPostfix(v)
	case *ast.BinaryExpr:
		return fb.lowerBinary(v)
	case *ast.CallExpr:
		return fb.lowerCall(v)
	case *ast.IndexExpr:
		addr, ty := fb.indexAddr(v)
		return fb.readMemory(addr, ty)
	case *ast.MemberExpr:
		addr, ty := fb.memberAddr(v)
		return fb.readMemory(addr, ty)
	case *ast.CastExpr:
		op := fb.expr(v.Value)
		ty := fb.b.convertType(v.Type, v.Pos)
		return fb.assignTmp(ty, ir.ExpressionValue{Expr: ir.Cast{To: ty, Operand: op}})
	case *ast.SizeofExpr:
		return fb.lowerSizeof(v)
	default:
		fail(e.NodePos(), "unsupported expression reached irbuild")
		return ir.Operand{}
	}
}

func (fb *funcBuilder) lowerUnary(v *ast.UnaryExpr) ir.Operand {
	switch v.Op {
	case "-":
		op := fb.expr(v.Value)
		return fb.unaryOp(ir.Neg, op, fb.typeOf(v.Value))
	case "!":
		op := fb.expr(v.Value)
		return fb.unaryOp(ir.Not, op, fb.typeOf(v))
	case "~":
		op := fb.expr(v.Value)
		return fb.unaryOp(ir.BitNot, op, fb.typeOf(v.Value))
	case "&":
		addr, _ := fb.lvalueAddr(v.Value)
		return addr
	case "*":
		ptrOp := fb.expr(v.Value)
		return fb.readMemory(ptrOp, fb.typeOf(v))
	case "++", "--":
		return fb.lowerPreIncDec(v)
	default:
		fail(v.Pos, "unsupported unary operator %q reached irbuild", v.Op)
		return ir.Operand{}
	}
}

func (fb *funcBuilder) pointerStep(target ast.Expr) int {
	astTy, ok := fb.b.checked.Types[target]
	if ok && astTy != nil && astTy.Kind == ast.TypePointer {
		return fb.b.convertType(astTy.Elem, target.NodePos()).Size(fb.b.desc)
	}
	return 1
}

func (fb *funcBuilder) lowerPreIncDec(v *ast.UnaryExpr) ir.Operand {
	cur := fb.expr(v.Value)
	ty := fb.typeOf(v.Value)
	step := fb.pointerStep(v.Value)
	binOp := ir.Add
	if v.Op == "--" {
		binOp = ir.Sub
	}
	newVal := fb.binaryOp(binOp, cur, ir.ConstOperand(ir.IntConstant(fb.b.addrType(), int64(step))), ty)
	fb.storeTo(v.Value, newVal, ty, v.Pos)
	return newVal
}

func (fb *funcBuilder) lowerPostfix(v *ast.PostfixExpr) ir.Operand {
	cur := fb.expr(v.Value)
	ty := fb.typeOf(v.Value)
	step := fb.pointerStep(v.Value)
	binOp := ir.Add
	if v.Op == "--" {
		binOp = ir.Sub
	}
	newVal := fb.binaryOp(binOp, cur, ir.ConstOperand(ir.IntConstant(fb.b.addrType(), int64(step))), ty)
	fb.storeTo(v.Value, newVal, ty, v.Pos)
	return cur
}

var binOpByText = map[string]ir.BinOp{
	"+": ir.Add, "-": ir.Sub, "*": ir.Mul, "/": ir.Div, "%": ir.Rem,
	"&": ir.And, "|": ir.Or, "^": ir.Xor, "<<": ir.Shl, ">>": ir.Shr,
	"==": ir.CmpEq, "!=": ir.CmpNe, "<": ir.CmpLt, "<=": ir.CmpLe, ">": ir.CmpGt, ">=": ir.CmpGe,
}

func (fb *funcBuilder) lowerBinary(v *ast.BinaryExpr) ir.Operand {
	if v.Op == "&&" {
		return fb.lowerLogical(v, true)
	}
	if v.Op == "||" {
		return fb.lowerLogical(v, false)
	}
	op, ok := binOpByText[v.Op]
	if !ok {
		fail(v.Pos, "unsupported binary operator %q reached irbuild", v.Op)
	}
	l := fb.expr(v.Left)
	r := fb.expr(v.Right)
	return fb.binaryOp(op, l, r, fb.typeOf(v))
}

// lowerLogical gives && and || their real short-circuit semantics: a merge
// block chooses between a constant (the short-circuited outcome) and the
// right operand's truth value, picked by which of two predecessors ran.
func (fb *funcBuilder) lowerLogical(v *ast.BinaryExpr, isAnd bool) ir.Operand {
	leftOp := fb.expr(v.Left)
	leftBool := fb.toBoolVar(leftOp)

	entry := fb.cur
	shortID := fb.fn.NewBlock("logical.short")
	evalID := fb.fn.NewBlock("logical.rhs")
	mergeID := fb.fn.NewBlock("logical.end")

	if isAnd {
		fb.emit(ir.JumpTrue{Cond: leftBool, Target: evalID})
		fb.emit(ir.Jump{Target: shortID})
	} else {
		fb.emit(ir.JumpTrue{Cond: leftBool, Target: shortID})
		fb.emit(ir.Jump{Target: evalID})
	}
	fb.fn.Link(entry)

	resultTy := fb.typeOf(v)

	fb.cur = shortID
	shortConst := int64(0)
	if !isAnd {
		shortConst = 1
	}
	shortVal := fb.toBoolVar(fb.assignTmp(resultTy, ir.ConstantValue{Constant: ir.IntConstant(resultTy, shortConst)}))
	fb.emit(ir.Jump{Target: mergeID})
	fb.fn.Link(shortID)

	fb.cur = evalID
	rightOp := fb.expr(v.Right)
	rightBool := fb.toBoolVar(rightOp)
	evalEnd := fb.cur
	fb.emit(ir.Jump{Target: mergeID})
	fb.fn.Link(evalEnd)

	fb.cur = mergeID
	result := fb.tmp(resultTy)
	fb.emit(ir.Assignment{Target: result, Value: ir.PhiValue{Sources: []ir.PhiEntry{
		{Pred: shortID, Var: shortVal},
		{Pred: evalEnd, Var: rightBool},
	}}})
	return ir.VarOperand(result)
}

func (fb *funcBuilder) lowerCall(v *ast.CallExpr) ir.Operand {
	name, ok := identName(v.Callee)
	if !ok {
		fail(v.Pos, "call target is not a plain function name reached irbuild")
	}
	args := make([]ir.Operand, len(v.Args))
	for i, a := range v.Args {
		args[i] = fb.expr(a)
	}
	ty := fb.typeOf(v)
	return fb.assignTmp(ty, ir.ExpressionValue{Expr: ir.FunctionCall{Name: name, Args: args, Type: ty}})
}

func (fb *funcBuilder) lowerSizeof(v *ast.SizeofExpr) ir.Operand {
	var ty ir.Type
	if v.Type != nil {
		ty = fb.b.convertType(v.Type, v.Pos)
	} else {
		ty = fb.typeOf(v.Value)
	}
	resultTy := fb.b.convertType(&ast.Type{Kind: ast.TypeInt, Long: true, Unsigned: true}, v.Pos)
	return ir.ConstOperand(ir.IntConstant(resultTy, int64(ty.Size(fb.b.desc))))
}

// lvalueAddr computes the address an lvalue expression denotes, returning
// that address operand plus the IR type stored there. Every addressable
// expression shape bottoms out either in a fixed variable's AddressOf (for
// a bare name) or in pointer arithmetic against a previously computed base
// address (index, member).
func (fb *funcBuilder) lvalueAddr(e ast.Expr) (ir.Operand, ir.Type) {
	switch v := e.(type) {
	case *ast.IdentExpr:
		bd := fb.lookupEntry(v.Name)
		if bd == nil {
			fail(v.Pos, "undefined variable %q reached irbuild", v.Name)
		}
		return fb.addressOfVar(bd.Var), bd.Type
	case *ast.ParenExpr:
		return fb.lvalueAddr(v.Value)
	case *ast.UnaryExpr:
		if v.Op != "*" {
			fail(v.Pos, "expression is not addressable")
		}
		return fb.expr(v.Value), fb.typeOf(v)
	case *ast.IndexExpr:
		return fb.indexAddr(v)
	case *ast.MemberExpr:
		return fb.memberAddr(v)
	default:
		fail(e.NodePos(), "expression is not addressable")
		return ir.Operand{}, ir.Type{}
	}
}

func (fb *funcBuilder) indexAddr(v *ast.IndexExpr) (ir.Operand, ir.Type) {
	targetTy, ok := fb.b.checked.Types[v.Target]
	if !ok || targetTy.Elem == nil {
		fail(v.Pos, "indexed expression has no resolved element type reached irbuild")
	}
	elemTy := fb.b.convertType(targetTy.Elem, v.Pos)

	var baseAddr ir.Operand
	if targetTy.Kind == ast.TypeArray {
		baseAddr, _ = fb.lvalueAddr(v.Target)
	} else {
		baseAddr = fb.expr(v.Target)
	}

	idxOp := fb.expr(v.Index)
	addrTy := fb.b.addrType()
	size := ir.ConstOperand(ir.IntConstant(addrTy, int64(elemTy.Size(fb.b.desc))))
	offset := fb.binaryOp(ir.Mul, idxOp, size, addrTy)
	addr := fb.binaryOp(ir.Add, baseAddr, offset, ir.PointerTo(ir.Int(ir.I8)))
	return addr, elemTy
}

func (fb *funcBuilder) memberAddr(v *ast.MemberExpr) (ir.Operand, ir.Type) {
	baseTy, ok := fb.b.checked.Types[v.Target]
	if !ok {
		fail(v.Pos, "struct expression has no resolved type reached irbuild")
	}

	var baseAddr ir.Operand
	var structName string
	if v.Arrow {
		baseAddr = fb.expr(v.Target)
		structName = baseTy.Elem.Name
	} else {
		baseAddr, _ = fb.lvalueAddr(v.Target)
		structName = baseTy.Name
	}

	info, ok := fb.b.checked.Structs[structName]
	if !ok {
		fail(v.Pos, "unresolved struct %q reached irbuild", structName)
	}
	offset, fieldAstTy := fb.b.fieldOffset(info, v.Field, v.Pos)
	fieldTy := fb.b.convertType(fieldAstTy, v.Pos)

	addrTy := fb.b.addrType()
	off := ir.ConstOperand(ir.IntConstant(addrTy, int64(offset)))
	addr := fb.binaryOp(ir.Add, baseAddr, off, ir.PointerTo(ir.Int(ir.I8)))
	return addr, fieldTy
}

func (fb *funcBuilder) lowerStringLiteral(v *ast.StringLiteral) ir.Operand {
	bytes := append([]byte(v.Value), 0)
	elemTy := ir.Int(ir.I8)
	arrTy := ir.ArrayOf(elemTy, len(bytes))
	base := fb.tmp(arrTy)
	fb.emit(ir.Assignment{Target: base, Value: ir.ExpressionValue{Expr: ir.StackAlloc{Size: len(bytes), Align: 1}}})
	baseAddr := ir.VarOperand(base)

	addrTy := fb.b.addrType()
	for i, byteVal := range bytes {
		addr := baseAddr
		if i > 0 {
			off := ir.ConstOperand(ir.IntConstant(addrTy, int64(i)))
			addr = fb.binaryOp(ir.Add, baseAddr, off, ir.PointerTo(elemTy))
		}
		fb.emit(ir.WriteMemory{Addr: addr, Value: ir.ConstOperand(ir.IntConstant(elemTy, int64(byteVal)))})
	}
	return baseAddr
}

// lowerAssign lowers target (op) = valueExpr, where op is ASSIGN for a
// plain "=" or one of the compound-assignment operators, which first
// re-reads target's current value.
func (fb *funcBuilder) lowerAssign(target ast.Expr, op ast.AssignType, valueExpr ast.Expr, pos ast.Position) ir.Operand {
	valOp := fb.expr(valueExpr)
	ty := fb.typeOf(target)
	if op != ast.ASSIGN {
		curOp := fb.expr(target)
		binOp, ok := binOpByText[compoundOpSymbol(op)]
		if !ok {
			fail(pos, "unsupported compound assignment reached irbuild")
		}
		valOp = fb.binaryOp(binOp, curOp, valOp, ty)
	}
	fb.storeTo(target, valOp, ty, pos)
	return valOp
}

func compoundOpSymbol(op ast.AssignType) string {
	switch op {
	case ast.PLUS_ASSIGN:
		return "+"
	case ast.MINUS_ASSIGN:
		return "-"
	case ast.STAR_ASSIGN:
		return "*"
	case ast.SLASH_ASSIGN:
		return "/"
	case ast.PERCENT_ASSIGN:
		return "%"
	case ast.AND_ASSIGN:
		return "&"
	case ast.OR_ASSIGN:
		return "|"
	case ast.XOR_ASSIGN:
		return "^"
	case ast.SHL_ASSIGN:
		return "<<"
	case ast.SHR_ASSIGN:
		return ">>"
	default:
		return ""
	}
}

func (fb *funcBuilder) storeTo(target ast.Expr, valOp ir.Operand, ty ir.Type, pos ast.Position) {
	switch v := target.(type) {
	case *ast.IdentExpr:
		fb.assignName(v.Name, pos, valOp, ty)
	case *ast.ParenExpr:
		fb.storeTo(v.Value, valOp, ty, pos)
	default:
		addr, _ := fb.lvalueAddr(target)
		fb.emit(ir.WriteMemory{Addr: addr, Value: valOp})
	}
}
