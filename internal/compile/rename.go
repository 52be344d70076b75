package compile

import "cprizm/internal/ir"

// renameBlock rewrites every statement in b according to ren, used to carry
// a prior block's reload renaming forward into a block that still
// references the pre-spill generation. A no-op when ren is empty, which is
// the common case for most blocks of most functions.
func renameBlock(b *ir.BasicBlock, ren map[ir.VarKey]ir.Variable) {
	if len(ren) == 0 {
		return
	}
	for i, s := range b.Statements {
		b.Statements[i] = renameStatement(s, ren)
	}
}

// renameRange rewrites uses of from (by key) to to, across statements
// [start, end) of b. Bounded per reload rather than to the end of the
// block so a variable reloaded more than once in the same block renames
// each stretch to the reload that was actually live there.
func renameRange(b *ir.BasicBlock, from, to ir.Variable, start, end int) {
	if end > len(b.Statements) {
		end = len(b.Statements)
	}
	single := map[ir.VarKey]ir.Variable{from.Key(): to}
	for i := start; i < end; i++ {
		b.Statements[i] = renameStatement(b.Statements[i], single)
	}
}

// renameStatement extends optimizer.ConstantProp's substitute/substituteExpr
// pattern (internal/optimizer/constprop.go) from rewriting constant-folded
// operands to rewriting every Statement variant's embedded variable
// references. InlineAsm is excluded: its operands keep their pre-spill
// variables (see its doc comment in internal/ir/statement.go).
func renameStatement(s ir.Statement, ren map[ir.VarKey]ir.Variable) ir.Statement {
	switch st := s.(type) {
	case ir.Assignment:
		st.Value = renameValue(st.Value, ren)
		return st
	case ir.WriteMemory:
		st.Addr = renameOperand(st.Addr, ren)
		st.Value = renameOperand(st.Value, ren)
		return st
	case ir.Call:
		st.Args = renameOperands(st.Args, ren)
		return st
	case ir.SaveVariable:
		st.Var = renameVariable(st.Var, ren)
		return st
	case ir.SaveGlobalVariable:
		st.Var = renameVariable(st.Var, ren)
		return st
	case ir.Return:
		if st.Var != nil {
			v := renameVariable(*st.Var, ren)
			st.Var = &v
		}
		return st
	case ir.JumpTrue:
		st.Cond = renameVariable(st.Cond, ren)
		return st
	default:
		return s
	}
}

func renameValue(v ir.Value, ren map[ir.VarKey]ir.Variable) ir.Value {
	switch val := v.(type) {
	case ir.VariableValue:
		val.Var = renameVariable(val.Var, ren)
		return val
	case ir.ExpressionValue:
		val.Expr = renameExpr(val.Expr, ren)
		return val
	case ir.PhiValue:
		sources := make([]ir.PhiEntry, len(val.Sources))
		for i, src := range val.Sources {
			src.Var = renameVariable(src.Var, ren)
			sources[i] = src
		}
		val.Sources = sources
		return val
	default:
		return v
	}
}

func renameExpr(e ir.Expression, ren map[ir.VarKey]ir.Variable) ir.Expression {
	switch expr := e.(type) {
	case ir.BinaryOp:
		expr.Left = renameOperand(expr.Left, ren)
		expr.Right = renameOperand(expr.Right, ren)
		return expr
	case ir.UnaryOp:
		expr.Operand = renameOperand(expr.Operand, ren)
		return expr
	case ir.Cast:
		expr.Operand = renameOperand(expr.Operand, ren)
		return expr
	case ir.AddressOf:
		expr.Var = renameVariable(expr.Var, ren)
		return expr
	case ir.ReadMemory:
		expr.Addr = renameOperand(expr.Addr, ren)
		return expr
	case ir.FunctionCall:
		expr.Args = renameOperands(expr.Args, ren)
		return expr
	default:
		return e
	}
}

func renameOperands(ops []ir.Operand, ren map[ir.VarKey]ir.Variable) []ir.Operand {
	out := make([]ir.Operand, len(ops))
	for i, o := range ops {
		out[i] = renameOperand(o, ren)
	}
	return out
}

func renameOperand(o ir.Operand, ren map[ir.VarKey]ir.Variable) ir.Operand {
	if o.Kind != ir.OperandVariable {
		return o
	}
	return ir.VarOperand(renameVariable(o.Variable, ren))
}

func renameVariable(v ir.Variable, ren map[ir.VarKey]ir.Variable) ir.Variable {
	if nv, ok := ren[v.Key()]; ok {
		return nv
	}
	return v
}
