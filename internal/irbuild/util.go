package irbuild

import "cprizm/internal/ast"

func alignUp(off, align int) int {
	if align <= 1 {
		return off
	}
	if rem := off % align; rem != 0 {
		return off + (align - rem)
	}
	return off
}

// identName unwraps parentheses to find the bare identifier a lvalue-shaped
// expression ultimately names, if any.
func identName(e ast.Expr) (string, bool) {
	switch v := e.(type) {
	case *ast.IdentExpr:
		return v.Name, true
	case *ast.ParenExpr:
		return identName(v.Value)
	default:
		return "", false
	}
}

// computeEscapes decides, for every local and parameter of fd, whether it
// must live in memory for the whole function rather than as a plain SSA
// register value: its address is taken somewhere in the body, or its type
// cannot fit in a single register (struct, array). Escaping is tracked by
// name for the whole function rather than per declaration, which is
// conservative only for the rare case of two differently-scoped locals
// sharing a name where just one of them is address-taken.
func (b *builder) computeEscapes(fd *ast.FunctionDecl) map[string]bool {
	esc := map[string]bool{}
	for _, p := range fd.Params {
		if isAggregate(b.convertType(p.Type, p.Pos)) {
			esc[p.Name.Value] = true
		}
	}

	var walkExpr func(ast.Expr)
	var walkStmt func(ast.Stmt)

	walkExpr = func(e ast.Expr) {
		switch v := e.(type) {
		case *ast.UnaryExpr:
			if v.Op == "&" {
				if name, ok := identName(v.Value); ok {
					esc[name] = true
				}
			}
			walkExpr(v.Value)
		case *ast.BinaryExpr:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.PostfixExpr:
			walkExpr(v.Value)
		case *ast.CallExpr:
			walkExpr(v.Callee)
			for _, a := range v.Args {
				walkExpr(a)
			}
		case *ast.IndexExpr:
			walkExpr(v.Target)
			walkExpr(v.Index)
		case *ast.MemberExpr:
			walkExpr(v.Target)
		case *ast.CastExpr:
			walkExpr(v.Value)
		case *ast.SizeofExpr:
			if v.Value != nil {
				walkExpr(v.Value)
			}
		case *ast.ParenExpr:
			walkExpr(v.Value)
		}
	}

	walkStmt = func(s ast.Stmt) {
		switch v := s.(type) {
		case *ast.BlockStmt:
			for _, st := range v.Stmts {
				walkStmt(st)
			}
		case *ast.ExprStmt:
			walkExpr(v.Expr)
		case *ast.ReturnStmt:
			if v.Value != nil {
				walkExpr(v.Value)
			}
		case *ast.DeclStmt:
			if isAggregate(b.convertType(v.Type, v.Pos)) {
				esc[v.Name.Value] = true
			}
			if v.Init != nil {
				walkExpr(v.Init)
			}
		case *ast.IfStmt:
			walkExpr(v.Cond)
			walkStmt(v.Then)
			if v.Else != nil {
				walkStmt(v.Else)
			}
		case *ast.WhileStmt:
			walkExpr(v.Cond)
			walkStmt(v.Body)
		case *ast.ForStmt:
			if v.Init != nil {
				walkStmt(v.Init)
			}
			if v.Cond != nil {
				walkExpr(v.Cond)
			}
			if v.Post != nil {
				walkStmt(v.Post)
			}
			walkStmt(v.Body)
		case *ast.AssignStmt:
			walkExpr(v.Target)
			walkExpr(v.Value)
		}
	}

	for _, s := range fd.Body.Stmts {
		walkStmt(s)
	}
	return esc
}

// scanAssignedNames collects every bare identifier that stmts assigns to
// (by any of plain/compound assignment or increment/decrement), used to
// decide which outer-scope locals a loop header needs a φ-node for.
func scanAssignedNames(stmts []ast.Stmt) []string {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	var walkExpr func(ast.Expr)
	var walkStmt func(ast.Stmt)

	walkExpr = func(e ast.Expr) {
		switch v := e.(type) {
		case *ast.BinaryExpr:
			walkExpr(v.Left)
			walkExpr(v.Right)
		case *ast.PostfixExpr:
			if name, ok := identName(v.Value); ok {
				add(name)
			}
		case *ast.UnaryExpr:
			if v.Op == "++" || v.Op == "--" {
				if name, ok := identName(v.Value); ok {
					add(name)
				}
			}
			walkExpr(v.Value)
		case *ast.CallExpr:
			walkExpr(v.Callee)
			for _, a := range v.Args {
				walkExpr(a)
			}
		case *ast.IndexExpr:
			walkExpr(v.Target)
			walkExpr(v.Index)
		case *ast.MemberExpr:
			walkExpr(v.Target)
		case *ast.CastExpr:
			walkExpr(v.Value)
		case *ast.SizeofExpr:
			if v.Value != nil {
				walkExpr(v.Value)
			}
		case *ast.ParenExpr:
			walkExpr(v.Value)
		}
	}

	walkStmt = func(s ast.Stmt) {
		switch v := s.(type) {
		case *ast.BlockStmt:
			for _, st := range v.Stmts {
				walkStmt(st)
			}
		case *ast.ExprStmt:
			walkExpr(v.Expr)
		case *ast.ReturnStmt:
			if v.Value != nil {
				walkExpr(v.Value)
			}
		case *ast.DeclStmt:
			if v.Init != nil {
				walkExpr(v.Init)
			}
		case *ast.IfStmt:
			walkExpr(v.Cond)
			walkStmt(v.Then)
			if v.Else != nil {
				walkStmt(v.Else)
			}
		case *ast.WhileStmt:
			walkExpr(v.Cond)
			walkStmt(v.Body)
		case *ast.ForStmt:
			if v.Init != nil {
				walkStmt(v.Init)
			}
			if v.Cond != nil {
				walkExpr(v.Cond)
			}
			if v.Post != nil {
				walkStmt(v.Post)
			}
			walkStmt(v.Body)
		case *ast.AssignStmt:
			walkExpr(v.Target)
			walkExpr(v.Value)
			if name, ok := identName(v.Target); ok {
				add(name)
			}
		}
	}

	for _, s := range stmts {
		walkStmt(s)
	}
	return out
}
