// Package semantic resolves names and types over a parsed translation unit,
// producing the side-tables irbuild needs to lower it to IR.
package semantic

import (
	"cprizm/internal/ast"
	cerrors "cprizm/internal/errors"
)

// FuncSig is a function's call-site shape, collected before any body is
// checked so that forward calls and mutual recursion resolve.
type FuncSig struct {
	Name       string
	Params     []*ast.Type
	ParamNames []string
	Return     *ast.Type
	Variadic   bool
	Decl       *ast.FunctionDecl
}

// StructInfo is a struct's field layout in declaration order.
type StructInfo struct {
	Name   string
	Fields []*ast.StructField
	Decl   *ast.StructDecl
}

func (s *StructInfo) fieldType(name string) (*ast.Type, bool) {
	for _, f := range s.Fields {
		if f.Name.Value == name {
			return f.Type, true
		}
	}
	return nil, false
}

func (s *StructInfo) fieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name.Value
	}
	return names
}

// Checked is the result of checking a translation unit: resolved signatures,
// struct layouts, a per-expression type side-table, and any diagnostics.
type Checked struct {
	Funcs       map[string]*FuncSig
	Structs     map[string]*StructInfo
	Types       map[ast.Expr]*ast.Type
	Diagnostics []cerrors.CompilerError
}

func (c *Checked) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if !cerrors.IsWarning(d.Code) {
			return true
		}
	}
	return false
}

func (c *Checked) setType(e ast.Expr, t *ast.Type) *ast.Type {
	c.Types[e] = t
	return t
}

// checker carries the mutable state of one Check pass.
type checker struct {
	result    *Checked
	scopes    scopeStack
	fn        *FuncSig
	calls     map[string]bool
	loopDepth int
}

// Check resolves every declaration in unit, type-checking function bodies
// against the struct and function signatures collected from the whole file.
func Check(unit *ast.TranslationUnit) *Checked {
	c := &checker{
		result: &Checked{
			Funcs:   map[string]*FuncSig{},
			Structs: map[string]*StructInfo{},
			Types:   map[ast.Expr]*ast.Type{},
		},
		calls: map[string]bool{},
	}

	c.collectSignatures(unit)

	for _, decl := range unit.Decls {
		if fd, ok := decl.(*ast.FunctionDecl); ok && fd.Body != nil {
			c.checkFunction(fd)
		}
	}

	c.checkUnusedFunctions(unit)

	return c.result
}

// collectSignatures does a first pass over file-scope declarations so
// forward references (a function calling one declared later) resolve.
func (c *checker) collectSignatures(unit *ast.TranslationUnit) {
	for _, decl := range unit.Decls {
		switch d := decl.(type) {
		case *ast.StructDecl:
			if _, exists := c.result.Structs[d.Name.Value]; exists {
				c.diag(cerrors.DuplicateDeclaration(d.Name.Value, d.Pos))
				continue
			}
			c.result.Structs[d.Name.Value] = &StructInfo{Name: d.Name.Value, Fields: d.Fields, Decl: d}

		case *ast.FunctionDecl:
			sig := &FuncSig{Name: d.Name.Value, Return: d.ReturnType, Variadic: d.Variadic, Decl: d}
			for _, p := range d.Params {
				sig.Params = append(sig.Params, p.Type)
				sig.ParamNames = append(sig.ParamNames, p.Name.Value)
			}
			if existing, exists := c.result.Funcs[d.Name.Value]; exists {
				if existing.Decl.Body != nil && d.Body != nil {
					c.diag(cerrors.DuplicateDeclaration(d.Name.Value, d.Pos))
					continue
				}
				if d.Body != nil {
					c.result.Funcs[d.Name.Value] = sig
				}
				continue
			}
			c.result.Funcs[d.Name.Value] = sig
		}
	}

	for _, s := range c.result.Structs {
		c.validateStructFields(s)
	}
}

// validateStructFields rejects a struct containing itself by value, which
// would need infinite storage; pointers to itself are fine.
func (c *checker) validateStructFields(s *StructInfo) {
	seen := map[string]bool{}
	for _, f := range s.Fields {
		if seen[f.Name.Value] {
			c.diag(cerrors.DuplicateField(f.Name.Value, f.Pos))
		}
		seen[f.Name.Value] = true
		c.resolveType(f.Type, f.Pos)
	}
}

// resolveType checks that every named struct a type mentions (through any
// number of pointer/array layers) actually exists.
func (c *checker) resolveType(t *ast.Type, pos ast.Position) {
	if t == nil {
		return
	}
	switch t.Kind {
	case ast.TypeStruct:
		if _, ok := c.result.Structs[t.Name]; !ok {
			names := make([]string, 0, len(c.result.Structs))
			for n := range c.result.Structs {
				names = append(names, n)
			}
			c.diag(cerrors.UndefinedType(t.Name, pos, similarNames(t.Name, names)))
		}
	case ast.TypePointer, ast.TypeArray:
		c.resolveType(t.Elem, pos)
	}
}

func (c *checker) diag(e cerrors.CompilerError) {
	c.result.Diagnostics = append(c.result.Diagnostics, e)
}

func (c *checker) checkUnusedFunctions(unit *ast.TranslationUnit) {
	for _, decl := range unit.Decls {
		fd, ok := decl.(*ast.FunctionDecl)
		if !ok || fd.Body == nil {
			continue
		}
		if fd.Name.Value == "main" {
			continue
		}
		if !c.calls[fd.Name.Value] {
			c.diag(cerrors.UnusedFunction(fd.Name.Value, fd.Pos))
		}
	}
}

// checkFunction type-checks one function body against its own signature,
// tracking unused locals and reachability of a trailing return.
func (c *checker) checkFunction(fd *ast.FunctionDecl) {
	sig := c.result.Funcs[fd.Name.Value]
	c.fn = sig

	c.scopes.push()
	for _, p := range fd.Params {
		c.scopes.declare(p.Name.Value, p.Type, p.Pos, true)
	}

	fallsThrough := c.checkStmts(fd.Body.Stmts)

	for _, e := range c.scopes.pop() {
		if !e.Used && !e.IsParam {
			c.diag(cerrors.UnusedVariable(e.Name, e.Pos))
		}
	}

	if sig.Return.Kind != ast.TypeVoid && fallsThrough {
		c.diag(cerrors.MissingReturn(fd.Name.Value, typeString(sig.Return), fd.EndPos))
	}

	c.fn = nil
}

