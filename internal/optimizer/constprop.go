package optimizer

import "cprizm/internal/ir"

// ConstantProp propagates known-constant assignments into their uses and
// folds binary/unary operations over two constant operands, grounded on the
// teacher's ConstantFolding pass (internal/ir/optimizations.go) generalized
// from EVM arithmetic to the full BinOp/UnOp taxonomy of this IR.
type ConstantProp struct{}

func (ConstantProp) Name() string { return "ConstantProp" }

func (ConstantProp) Run(fn *ir.FunctionDefinition) *ir.FunctionDefinition {
	consts := make(map[ir.VarKey]ir.Constant)

	for _, b := range fn.Blocks() {
		for i, s := range b.Statements {
			a, ok := s.(ir.Assignment)
			if !ok {
				continue
			}
			a.Value = substitute(a.Value, consts)
			if cv, ok := a.Value.(ir.ConstantValue); ok {
				consts[a.Target.Key()] = cv.Constant
			}
			a.Value = fold(a.Value)
			if cv, ok := a.Value.(ir.ConstantValue); ok {
				consts[a.Target.Key()] = cv.Constant
			}
			b.Statements[i] = a
		}
	}
	return fn
}

func substitute(v ir.Value, consts map[ir.VarKey]ir.Constant) ir.Value {
	switch val := v.(type) {
	case ir.VariableValue:
		if c, ok := consts[val.Var.Key()]; ok {
			return ir.ConstantValue{Constant: c}
		}
		return val
	case ir.ExpressionValue:
		return ir.ExpressionValue{Expr: substituteExpr(val.Expr, consts)}
	default:
		return v
	}
}

func substituteExpr(e ir.Expression, consts map[ir.VarKey]ir.Constant) ir.Expression {
	substOperand := func(o ir.Operand) ir.Operand {
		if o.Kind != ir.OperandVariable {
			return o
		}
		if c, ok := consts[o.Variable.Key()]; ok {
			return ir.ConstOperand(c)
		}
		return o
	}
	switch expr := e.(type) {
	case ir.BinaryOp:
		expr.Left = substOperand(expr.Left)
		expr.Right = substOperand(expr.Right)
		return expr
	case ir.UnaryOp:
		expr.Operand = substOperand(expr.Operand)
		return expr
	case ir.Cast:
		expr.Operand = substOperand(expr.Operand)
		return expr
	default:
		return e
	}
}

// fold evaluates a value whose operands are now all constants.
func fold(v ir.Value) ir.Value {
	ev, ok := v.(ir.ExpressionValue)
	if !ok {
		return v
	}
	switch expr := ev.Expr.(type) {
	case ir.BinaryOp:
		if expr.Left.Kind != ir.OperandConstant || expr.Right.Kind != ir.OperandConstant {
			return v
		}
		result, ok := foldBinary(expr.Op, expr.Left.Constant, expr.Right.Constant)
		if !ok {
			return v
		}
		return ir.ConstantValue{Constant: result}
	case ir.UnaryOp:
		if expr.Operand.Kind != ir.OperandConstant {
			return v
		}
		result, ok := foldUnary(expr.Op, expr.Operand.Constant)
		if !ok {
			return v
		}
		return ir.ConstantValue{Constant: result}
	default:
		return v
	}
}

func foldBinary(op ir.BinOp, a, b ir.Constant) (ir.Constant, bool) {
	if a.Type.IsFloat() || b.Type.IsFloat() {
		return ir.Constant{}, false // floating-point folding left to codegen to honor rounding modes
	}
	x, y := a.IntValue, b.IntValue
	switch op {
	case ir.Add:
		return ir.IntConstant(a.Type, x+y), true
	case ir.Sub:
		return ir.IntConstant(a.Type, x-y), true
	case ir.Mul:
		return ir.IntConstant(a.Type, x*y), true
	case ir.Div:
		if y == 0 {
			return ir.Constant{}, false
		}
		return ir.IntConstant(a.Type, x/y), true
	case ir.Rem:
		if y == 0 {
			return ir.Constant{}, false
		}
		return ir.IntConstant(a.Type, x%y), true
	case ir.And:
		return ir.IntConstant(a.Type, x&y), true
	case ir.Or:
		return ir.IntConstant(a.Type, x|y), true
	case ir.Xor:
		return ir.IntConstant(a.Type, x^y), true
	case ir.Shl:
		return ir.IntConstant(a.Type, x<<uint(y)), true
	case ir.Shr:
		return ir.IntConstant(a.Type, x>>uint(y)), true
	case ir.CmpEq:
		return boolConstant(x == y), true
	case ir.CmpNe:
		return boolConstant(x != y), true
	case ir.CmpLt:
		return boolConstant(x < y), true
	case ir.CmpLe:
		return boolConstant(x <= y), true
	case ir.CmpGt:
		return boolConstant(x > y), true
	case ir.CmpGe:
		return boolConstant(x >= y), true
	default:
		return ir.Constant{}, false
	}
}

func foldUnary(op ir.UnOp, a ir.Constant) (ir.Constant, bool) {
	if a.Type.IsFloat() {
		return ir.Constant{}, false
	}
	switch op {
	case ir.Neg:
		return ir.IntConstant(a.Type, -a.IntValue), true
	case ir.Not:
		return boolConstant(a.IntValue == 0), true
	case ir.BitNot:
		return ir.IntConstant(a.Type, ^a.IntValue), true
	default:
		return ir.Constant{}, false
	}
}

func boolConstant(b bool) ir.Constant {
	if b {
		return ir.IntConstant(ir.Int(ir.I32), 1)
	}
	return ir.IntConstant(ir.Int(ir.I32), 0)
}
