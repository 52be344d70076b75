package irbuild

import (
	"cprizm/internal/ast"
	"cprizm/internal/ir"
)

// binding is the current SSA state of one in-scope name. Non-escaping
// scalars keep Var current (a new generation on every write); escaping
// locals never change Var after declaration and are read/written only
// through AddressOf+ReadMemory/WriteMemory.
type binding struct {
	Var     ir.Variable
	Type    ir.Type
	Escapes bool
}

type scope map[string]*binding

// edge is a predecessor's contribution to a join point: the block the
// control-flow edge leaves from, and the bindings visible there.
type edge struct {
	pred ir.BlockID
	vars map[string]ir.Variable
}

// loopContext tracks the information a loop body needs while it is being
// lowered: where break/continue land, and the bindings visible at every
// break/continue site so the loop's join points can be phi'd correctly
// once the whole body has been seen.
type loopContext struct {
	continueTarget ir.BlockID
	exitTarget     ir.BlockID
	breakEdges     []edge
	continueEdges  []edge
}

// funcBuilder lowers a single function body. One is created per function;
// whole-program state (struct layouts, the Program) lives in builder.
type funcBuilder struct {
	b        *builder
	fn       *ir.FunctionDefinition
	cur      ir.BlockID
	scopes   []scope
	escaping map[string]bool
	loops    []*loopContext
}

func (b *builder) lowerFunction(fd *ast.FunctionDecl) *ir.FunctionDefinition {
	sig, ok := b.checked.Funcs[fd.Name.Value]
	if !ok {
		fail(fd.Pos, "unresolved function %q reached irbuild", fd.Name.Value)
	}

	args := make([]ir.Parameter, len(fd.Params))
	for i, p := range fd.Params {
		args[i] = ir.Parameter{Name: p.Name.Value, Type: b.convertType(p.Type, p.Pos)}
	}
	retType := b.convertType(sig.Return, fd.Pos)

	fn := ir.NewFunctionDefinition(fd.Name.Value, args, retType)

	fb := &funcBuilder{
		b:        b,
		fn:       fn,
		cur:      fn.Entry,
		escaping: b.computeEscapes(fd),
	}

	fb.pushScope()
	for i, p := range fd.Params {
		ty := args[i].Type
		name := p.Name.Value
		escapes := fb.escaping[name]
		v := fn.Vars.Fresh(name, ty)
		fb.declareBinding(name, v, ty, escapes)
		// A parameter's value arrives in a register or frame slot per the
		// calling convention rather than through any statement irbuild
		// writes; this definition only tells the frame planner to reserve
		// its slot.
		fb.emit(ir.Assignment{Target: v, Value: ir.UnknownValue{}})
	}

	term := fb.lowerStmts(fd.Body.Stmts)
	if !term {
		if retType.Kind == ir.Void {
			fb.emit(ir.Return{})
			fb.fn.Link(fb.cur)
		} else {
			fail(fd.EndPos, "function %q falls off the end without returning a value", fd.Name.Value)
		}
	}
	fb.popScope()

	return fn
}

func (fb *funcBuilder) emit(s ir.Statement) {
	fb.fn.Block(fb.cur).Push(s)
}

func (fb *funcBuilder) tmp(ty ir.Type) ir.Variable {
	return fb.fn.Vars.Tmp(ty)
}

// assignTmp materializes value as a fresh temporary of type ty and returns
// an operand naming it; every expression-valued IR node not already an
// operand goes through this, preserving the IR's operand-flattening rule.
func (fb *funcBuilder) assignTmp(ty ir.Type, value ir.Value) ir.Operand {
	t := fb.tmp(ty)
	fb.emit(ir.Assignment{Target: t, Value: value})
	return ir.VarOperand(t)
}

func toValue(op ir.Operand) ir.Value {
	if op.Kind == ir.OperandVariable {
		return ir.VariableValue{Var: op.Variable}
	}
	return ir.ConstantValue{Constant: op.Constant}
}

func zeroConstant(ty ir.Type) ir.Constant {
	if ty.IsFloat() {
		return ir.FloatConstant(ty, 0)
	}
	return ir.IntConstant(ty, 0)
}

func (b *builder) addrType() ir.Type {
	if b.desc.PointerSize >= 8 {
		return ir.Int(ir.I64)
	}
	return ir.Int(ir.I32)
}

// --- scope stack -----------------------------------------------------

func (fb *funcBuilder) pushScope() {
	fb.scopes = append(fb.scopes, scope{})
}

func (fb *funcBuilder) popScope() {
	fb.scopes = fb.scopes[:len(fb.scopes)-1]
}

func (fb *funcBuilder) declareBinding(name string, v ir.Variable, ty ir.Type, escapes bool) {
	fb.scopes[len(fb.scopes)-1][name] = &binding{Var: v, Type: ty, Escapes: escapes}
}

func (fb *funcBuilder) lookupEntry(name string) *binding {
	for i := len(fb.scopes) - 1; i >= 0; i-- {
		if bd, ok := fb.scopes[i][name]; ok {
			return bd
		}
	}
	return nil
}

// snapshot flattens the visible scope stack into name -> current variable,
// used to capture a predecessor's bindings at a branch or loop edge.
func (fb *funcBuilder) snapshot() map[string]ir.Variable {
	out := map[string]ir.Variable{}
	for _, s := range fb.scopes {
		for name, bd := range s {
			out[name] = bd.Var
		}
	}
	return out
}

func (fb *funcBuilder) setBinding(name string, v ir.Variable) {
	if bd := fb.lookupEntry(name); bd != nil {
		bd.Var = v
	}
}

// adopt rebinds every currently-visible name to the variable a single real
// predecessor left it holding; used when a join point turns out to have
// exactly one live predecessor, so no phi is needed.
func (fb *funcBuilder) adopt(vars map[string]ir.Variable) {
	for name, v := range vars {
		fb.setBinding(name, v)
	}
}

func (fb *funcBuilder) typeOf(e ast.Expr) ir.Type {
	astTy, ok := fb.b.checked.Types[e]
	if !ok {
		fail(e.NodePos(), "expression has no resolved type reached irbuild")
	}
	return fb.b.convertType(astTy, e.NodePos())
}

// addressOfVar materializes the address of a variable's fixed frame slot
// into a fresh pointer temporary, tagging it with the dormant VarPointer
// metadata so a later pass can recover which name a raw address traces back
// to.
func (fb *funcBuilder) addressOfVar(v ir.Variable) ir.Operand {
	t := fb.fn.Vars.Tmp(ir.PointerTo(ir.Int(ir.I8))).VarPointer(v.Name)
	fb.emit(ir.Assignment{Target: t, Value: ir.ExpressionValue{Expr: ir.AddressOf{Var: v}}})
	return ir.VarOperand(t)
}

func (fb *funcBuilder) readMemory(addr ir.Operand, ty ir.Type) ir.Operand {
	t := fb.tmp(ty)
	fb.emit(ir.Assignment{Target: t, Value: ir.ExpressionValue{Expr: ir.ReadMemory{Addr: addr, Type: ty}}})
	return ir.VarOperand(t)
}

func (fb *funcBuilder) readName(ident *ast.IdentExpr) ir.Operand {
	bd := fb.lookupEntry(ident.Name)
	if bd == nil {
		fail(ident.Pos, "undefined variable %q reached irbuild", ident.Name)
	}
	if !bd.Escapes {
		return ir.VarOperand(bd.Var)
	}
	return fb.readMemory(fb.addressOfVar(bd.Var), bd.Type)
}

func (fb *funcBuilder) assignName(name string, pos ast.Position, value ir.Operand, ty ir.Type) {
	bd := fb.lookupEntry(name)
	if bd == nil {
		fail(pos, "undefined variable %q reached irbuild", name)
	}
	if !bd.Escapes {
		nv := fb.fn.Vars.Fresh(name, ty)
		fb.emit(ir.Assignment{Target: nv, Value: toValue(value)})
		bd.Var = nv
		return
	}
	fb.emit(ir.WriteMemory{Addr: fb.addressOfVar(bd.Var), Value: value})
}

func (fb *funcBuilder) binaryOp(op ir.BinOp, l, r ir.Operand, ty ir.Type) ir.Operand {
	return fb.assignTmp(ty, ir.ExpressionValue{Expr: ir.BinaryOp{Op: op, Left: l, Right: r}})
}

func (fb *funcBuilder) unaryOp(op ir.UnOp, o ir.Operand, ty ir.Type) ir.Operand {
	return fb.assignTmp(ty, ir.ExpressionValue{Expr: ir.UnaryOp{Op: op, Operand: o}})
}

func (fb *funcBuilder) toBoolVar(op ir.Operand) ir.Variable {
	if op.Kind == ir.OperandVariable {
		return op.Variable
	}
	t := fb.tmp(op.Constant.Type)
	fb.emit(ir.Assignment{Target: t, Value: ir.ConstantValue{Constant: op.Constant}})
	return t
}

// --- join-point phi construction --------------------------------------

// buildMergePhis installs, at mergeID, one assignment per name carried by
// every entry in preds: a plain copy if all predecessors agree on the same
// variable, a real phi otherwise. Called only once every predecessor's
// bindings are already known (if/else merges, loop exits, the per-iteration
// join before a for-loop's post statement) - never for a loop header, which
// needs the deferred variant below.
func (fb *funcBuilder) buildMergePhis(mergeID ir.BlockID, preds []edge) {
	if len(preds) == 0 {
		return
	}
	if len(preds) == 1 {
		fb.adopt(preds[0].vars)
		return
	}

	seen := map[string]bool{}
	prevCur := fb.cur
	fb.cur = mergeID
	for _, p := range preds {
		for name := range p.vars {
			if seen[name] {
				continue
			}
			seen[name] = true

			first := p.vars[name]
			same := true
			for _, q := range preds {
				qv, ok := q.vars[name]
				if !ok || qv.Key() != first.Key() {
					same = false
					break
				}
			}
			if same {
				fb.setBinding(name, first)
				continue
			}

			bd := fb.lookupEntry(name)
			if bd == nil {
				continue
			}
			merged := fb.fn.Vars.Fresh(name, bd.Type)
			sources := make([]ir.PhiEntry, 0, len(preds))
			for _, q := range preds {
				if qv, ok := q.vars[name]; ok {
					sources = append(sources, ir.PhiEntry{Pred: q.pred, Var: qv})
				}
			}
			fb.emit(ir.Assignment{Target: merged, Value: ir.PhiValue{Sources: sources}})
			fb.setBinding(name, merged)
		}
	}
	fb.cur = prevCur
}

// pendingPhi is a loop-header phi whose back-edge sources aren't known yet:
// the body hasn't been lowered, so neither the predecessor block nor the
// value it carries can be filled in until afterward.
type pendingPhi struct {
	name string
	hdr  ir.Variable
	pre  ir.Variable
}

// openHeaderPhis mints a placeholder variable per carried name and pushes a
// one-source phi (just the entry edge) as the first statements of the
// (freshly created, empty) header block, so the header's own condition and
// body can already read the phi'd value.
func (fb *funcBuilder) openHeaderPhis(carried []string, preLoop ir.BlockID) []pendingPhi {
	preBindings := fb.snapshot()
	var pendings []pendingPhi
	for _, name := range carried {
		bd := fb.lookupEntry(name)
		if bd == nil {
			continue
		}
		pre := preBindings[name]
		hdr := fb.fn.Vars.Fresh(name, bd.Type)
		fb.emit(ir.Assignment{Target: hdr, Value: ir.PhiValue{Sources: []ir.PhiEntry{{Pred: preLoop, Var: pre}}}})
		bd.Var = hdr
		pendings = append(pendings, pendingPhi{name: name, hdr: hdr, pre: pre})
	}
	return pendings
}

// closeHeaderPhis patches the placeholders open opened once every back-edge
// into the header is known. A name with no back edges at all never really
// looped (the body always returns/breaks before reaching it again), so its
// phi collapses to a plain copy of the entry value rather than staying an
// invalid single-source phi.
func (fb *funcBuilder) closeHeaderPhis(header ir.BlockID, pendings []pendingPhi, backEdges []edge) {
	if len(pendings) == 0 {
		return
	}
	block := fb.fn.Block(header)
	n := len(pendings)
	var phis, copies []ir.Statement
	for i, p := range pendings {
		orig := block.Statements[i].(ir.Assignment)
		if len(backEdges) == 0 {
			copies = append(copies, ir.Assignment{Target: p.hdr, Value: ir.VariableValue{Var: p.pre}})
			continue
		}
		ph := orig.Value.(ir.PhiValue)
		for _, be := range backEdges {
			if v, ok := be.vars[p.name]; ok {
				ph.Sources = append(ph.Sources, ir.PhiEntry{Pred: be.pred, Var: v})
			}
		}
		orig.Value = ph
		phis = append(phis, orig)
	}
	rest := append([]ir.Statement{}, block.Statements[n:]...)
	merged := append(append(phis, copies...), rest...)
	block.Statements = merged
}

// --- control flow ------------------------------------------------------

func (fb *funcBuilder) lowerStmts(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if fb.lowerStmt(s) {
			return true
		}
	}
	return false
}

func (fb *funcBuilder) lowerStmt(s ast.Stmt) bool {
	switch v := s.(type) {
	case *ast.BlockStmt:
		fb.pushScope()
		term := fb.lowerStmts(v.Stmts)
		fb.popScope()
		return term
	case *ast.ExprStmt:
		fb.lowerExprStmt(v.Expr)
		return false
	case *ast.ReturnStmt:
		fb.lowerReturn(v)
		return true
	case *ast.DeclStmt:
		fb.lowerDecl(v)
		return false
	case *ast.IfStmt:
		return fb.lowerIf(v)
	case *ast.WhileStmt:
		return fb.lowerWhile(v)
	case *ast.ForStmt:
		return fb.lowerFor(v)
	case *ast.BreakStmt:
		fb.lowerBreak(v.Pos)
		return true
	case *ast.ContinueStmt:
		fb.lowerContinue(v.Pos)
		return true
	case *ast.AssignStmt:
		fb.lowerAssign(v.Target, v.Operator, v.Value, v.Pos)
		return false
	default:
		return false
	}
}

func (fb *funcBuilder) lowerReturn(v *ast.ReturnStmt) {
	if v.Value == nil {
		fb.emit(ir.Return{})
		fb.fn.Link(fb.cur)
		return
	}
	op := fb.expr(v.Value)
	rv := fb.toBoolVar(op)
	fb.emit(ir.Return{Var: &rv})
	fb.fn.Link(fb.cur)
}

func (fb *funcBuilder) lowerDecl(v *ast.DeclStmt) {
	ty := fb.b.convertType(v.Type, v.Pos)
	escapes := fb.escaping[v.Name.Value] || isAggregate(ty)
	varr := fb.fn.Vars.Fresh(v.Name.Value, ty)
	fb.declareBinding(v.Name.Value, varr, ty, escapes)

	if escapes {
		fb.emit(ir.Assignment{Target: varr, Value: ir.UnknownValue{}})
		if v.Init != nil {
			valOp := fb.expr(v.Init)
			fb.emit(ir.WriteMemory{Addr: fb.addressOfVar(varr), Value: valOp})
		}
		return
	}

	var valOp ir.Operand
	if v.Init != nil {
		valOp = fb.expr(v.Init)
	} else {
		valOp = ir.ConstOperand(zeroConstant(ty))
	}
	fb.emit(ir.Assignment{Target: varr, Value: toValue(valOp)})
}

func (fb *funcBuilder) lowerExprStmt(e ast.Expr) {
	if call, ok := e.(*ast.CallExpr); ok {
		name, ok := identName(call.Callee)
		if !ok {
			fail(call.Pos, "call target is not a plain function name reached irbuild")
		}
		args := make([]ir.Operand, len(call.Args))
		for i, a := range call.Args {
			args[i] = fb.expr(a)
		}
		fb.emit(ir.Call{Name: name, Args: args})
		return
	}
	fb.expr(e)
}

func (fb *funcBuilder) lowerBreak(pos ast.Position) {
	if len(fb.loops) == 0 {
		fail(pos, "break outside of a loop reached irbuild")
	}
	lc := fb.loops[len(fb.loops)-1]
	snap := fb.snapshot()
	fb.emit(ir.Jump{Target: lc.exitTarget, Meta: ir.JumpBreak})
	fb.fn.Link(fb.cur)
	lc.breakEdges = append(lc.breakEdges, edge{pred: fb.cur, vars: snap})
}

func (fb *funcBuilder) lowerContinue(pos ast.Position) {
	if len(fb.loops) == 0 {
		fail(pos, "continue outside of a loop reached irbuild")
	}
	lc := fb.loops[len(fb.loops)-1]
	snap := fb.snapshot()
	fb.emit(ir.Jump{Target: lc.continueTarget, Meta: ir.JumpContinue})
	fb.fn.Link(fb.cur)
	lc.continueEdges = append(lc.continueEdges, edge{pred: fb.cur, vars: snap})
}

func (fb *funcBuilder) lowerIf(v *ast.IfStmt) bool {
	condOp := fb.expr(v.Cond)
	condVar := fb.toBoolVar(condOp)

	// Bindings as they stand right before either arm runs; every arm starts
	// from this same baseline, and since funcBuilder's scope stack is one
	// flowing mutable state (not forked per block), it must be restored
	// before lowering the second arm so that arm doesn't see the first
	// arm's writes.
	preBranch := fb.snapshot()

	condBlock := fb.cur
	thenID := fb.fn.NewBlock("if.then")
	elseID := fb.fn.NewBlock("if.else")
	fb.emit(ir.JumpTrue{Cond: condVar, Target: thenID})
	fb.emit(ir.Jump{Target: elseID})
	fb.fn.Link(condBlock)

	fb.cur = thenID
	fb.pushScope()
	thenTerm := fb.lowerStmts(v.Then.Stmts)
	thenSnap := fb.snapshot()
	thenEnd := fb.cur
	fb.popScope()

	fb.adopt(preBranch)

	if v.Else == nil {
		fb.cur = elseID
		if thenTerm {
			return false
		}
		fb.cur = thenEnd
		fb.emit(ir.Jump{Target: elseID})
		fb.fn.Link(thenEnd)
		fb.cur = elseID
		fb.buildMergePhis(elseID, []edge{{pred: condBlock, vars: preBranch}, {pred: thenEnd, vars: thenSnap}})
		return false
	}

	fb.cur = elseID
	var elseTerm bool
	var elseSnap map[string]ir.Variable
	if blk, ok := v.Else.(*ast.BlockStmt); ok {
		fb.pushScope()
		elseTerm = fb.lowerStmts(blk.Stmts)
		elseSnap = fb.snapshot()
		fb.popScope()
	} else {
		elseTerm = fb.lowerStmt(v.Else)
		elseSnap = fb.snapshot()
	}
	elseEnd := fb.cur

	if thenTerm && elseTerm {
		return true
	}

	fb.adopt(preBranch)
	mergeID := fb.fn.NewBlock("if.end")
	var preds []edge
	if !thenTerm {
		fb.cur = thenEnd
		fb.emit(ir.Jump{Target: mergeID})
		fb.fn.Link(thenEnd)
		preds = append(preds, edge{pred: thenEnd, vars: thenSnap})
	}
	if !elseTerm {
		fb.cur = elseEnd
		fb.emit(ir.Jump{Target: mergeID})
		fb.fn.Link(elseEnd)
		preds = append(preds, edge{pred: elseEnd, vars: elseSnap})
	}

	fb.cur = mergeID
	fb.buildMergePhis(mergeID, preds)
	return false
}

func (fb *funcBuilder) lowerWhile(v *ast.WhileStmt) bool {
	preLoop := fb.cur
	header := fb.fn.NewBlock("while.cond")
	fb.emit(ir.Jump{Target: header})
	fb.fn.Link(preLoop)

	carried := visibleCarried(fb, scanAssignedNames(v.Body.Stmts))

	fb.cur = header
	pendings := fb.openHeaderPhis(carried, preLoop)

	condOp := fb.expr(v.Cond)
	condVar := fb.toBoolVar(condOp)
	bodyID := fb.fn.NewBlock("while.body")
	exitID := fb.fn.NewBlock("while.end")
	fb.emit(ir.JumpTrue{Cond: condVar, Target: bodyID})
	fb.emit(ir.Jump{Target: exitID})
	fb.fn.Link(header)
	headerExitSnapshot := fb.snapshot()

	fb.cur = bodyID
	fb.pushScope()
	lc := &loopContext{continueTarget: header, exitTarget: exitID}
	fb.loops = append(fb.loops, lc)
	bodyTerm := fb.lowerStmts(v.Body.Stmts)
	bodyEnd := fb.cur
	bodyBindings := fb.snapshot()
	fb.popScope()
	fb.loops = fb.loops[:len(fb.loops)-1]

	var backEdges []edge
	if !bodyTerm {
		fb.cur = bodyEnd
		fb.emit(ir.Jump{Target: header, Meta: ir.JumpLoopBackEdge})
		fb.fn.Link(bodyEnd)
		backEdges = append(backEdges, edge{pred: bodyEnd, vars: bodyBindings})
	}
	backEdges = append(backEdges, lc.continueEdges...)

	fb.closeHeaderPhis(header, pendings, backEdges)

	preds := []edge{{pred: header, vars: headerExitSnapshot}}
	preds = append(preds, lc.breakEdges...)
	fb.buildMergePhis(exitID, preds)
	fb.cur = exitID
	return false
}

func (fb *funcBuilder) lowerFor(v *ast.ForStmt) bool {
	fb.pushScope()
	if v.Init != nil {
		fb.lowerStmt(v.Init)
	}

	preLoop := fb.cur
	header := fb.fn.NewBlock("for.cond")
	fb.emit(ir.Jump{Target: header})
	fb.fn.Link(preLoop)

	names := scanAssignedNames(v.Body.Stmts)
	if v.Post != nil {
		names = append(names, scanAssignedNames([]ast.Stmt{v.Post})...)
	}
	carried := visibleCarried(fb, names)

	fb.cur = header
	pendings := fb.openHeaderPhis(carried, preLoop)

	bodyID := fb.fn.NewBlock("for.body")
	exitID := fb.fn.NewBlock("for.end")
	if v.Cond != nil {
		condOp := fb.expr(v.Cond)
		condVar := fb.toBoolVar(condOp)
		fb.emit(ir.JumpTrue{Cond: condVar, Target: bodyID})
		fb.emit(ir.Jump{Target: exitID})
	} else {
		fb.emit(ir.Jump{Target: bodyID})
	}
	fb.fn.Link(header)
	headerExitSnapshot := fb.snapshot()

	postID := fb.fn.NewBlock("for.post")

	fb.cur = bodyID
	fb.pushScope()
	lc := &loopContext{continueTarget: postID, exitTarget: exitID}
	fb.loops = append(fb.loops, lc)
	bodyTerm := fb.lowerStmts(v.Body.Stmts)
	bodyEnd := fb.cur
	bodyBindings := fb.snapshot()
	fb.popScope()
	fb.loops = fb.loops[:len(fb.loops)-1]

	var postPreds []edge
	if !bodyTerm {
		fb.cur = bodyEnd
		fb.emit(ir.Jump{Target: postID})
		fb.fn.Link(bodyEnd)
		postPreds = append(postPreds, edge{pred: bodyEnd, vars: bodyBindings})
	}
	postPreds = append(postPreds, lc.continueEdges...)

	var backEdges []edge
	if len(postPreds) > 0 {
		fb.cur = postID
		fb.buildMergePhis(postID, postPreds)
		if v.Post != nil {
			fb.lowerStmt(v.Post)
		}
		postEnd := fb.cur
		fb.emit(ir.Jump{Target: header, Meta: ir.JumpLoopBackEdge})
		fb.fn.Link(postEnd)
		backEdges = append(backEdges, edge{pred: postEnd, vars: fb.snapshot()})
	}

	fb.closeHeaderPhis(header, pendings, backEdges)

	preds := []edge{{pred: header, vars: headerExitSnapshot}}
	preds = append(preds, lc.breakEdges...)
	fb.buildMergePhis(exitID, preds)
	fb.cur = exitID
	fb.popScope()
	return false
}

// visibleCarried filters raw assigned-name candidates down to the ones that
// actually resolve to a binding already visible before the loop body's own
// scope is pushed; names shadowed by a declaration inside the body never
// reach here as a real outer binding.
func visibleCarried(fb *funcBuilder, names []string) []string {
	var out []string
	for _, n := range names {
		if fb.lookupEntry(n) != nil {
			out = append(out, n)
		}
	}
	return out
}
