package semantic

import (
	"fmt"

	"cprizm/internal/ast"
)

// typeString renders a type the way diagnostics quote it: "int", "char*",
// "struct point", "int[4]".
func typeString(t *ast.Type) string {
	if t == nil {
		return "<unknown>"
	}
	prefix := ""
	if t.Unsigned {
		prefix = "unsigned "
	}
	switch t.Kind {
	case ast.TypeVoid:
		return "void"
	case ast.TypeChar:
		return prefix + "char"
	case ast.TypeFloat:
		return "float"
	case ast.TypeDouble:
		if t.Long {
			return "long double"
		}
		return "double"
	case ast.TypeInt:
		switch {
		case t.Short:
			return prefix + "short"
		case t.Long:
			return prefix + "long"
		default:
			return prefix + "int"
		}
	case ast.TypePointer:
		return typeString(t.Elem) + "*"
	case ast.TypeArray:
		if t.ArrayLen < 0 {
			return typeString(t.Elem) + "[]"
		}
		return fmt.Sprintf("%s[%d]", typeString(t.Elem), t.ArrayLen)
	case ast.TypeStruct:
		return "struct " + t.Name
	default:
		return "<unknown>"
	}
}

// typesEqual reports structural equality between two resolved types,
// ignoring position information.
func typesEqual(a, b *ast.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Unsigned != b.Unsigned || a.Long != b.Long || a.Short != b.Short {
		return false
	}
	switch a.Kind {
	case ast.TypePointer, ast.TypeArray:
		return typesEqual(a.Elem, b.Elem)
	case ast.TypeStruct:
		return a.Name == b.Name
	default:
		return true
	}
}

func isScalar(t *ast.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case ast.TypeInt, ast.TypeChar, ast.TypeFloat, ast.TypeDouble, ast.TypePointer:
		return true
	default:
		return false
	}
}

func isPointer(t *ast.Type) bool { return t != nil && t.Kind == ast.TypePointer }

func isNumeric(t *ast.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case ast.TypeInt, ast.TypeChar, ast.TypeFloat, ast.TypeDouble:
		return true
	default:
		return false
	}
}

// isAssignable reports whether e syntactically denotes an lvalue: a name, a
// dereference, an array element, or a struct field.
func isAssignable(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.IdentExpr:
		return true
	case *ast.UnaryExpr:
		return v.Op == "*"
	case *ast.IndexExpr:
		return true
	case *ast.MemberExpr:
		return true
	case *ast.ParenExpr:
		return isAssignable(v.Value)
	default:
		return false
	}
}

func pointerTo(elem *ast.Type) *ast.Type {
	return &ast.Type{Kind: ast.TypePointer, Elem: elem}
}

func intType() *ast.Type { return &ast.Type{Kind: ast.TypeInt} }

func charType() *ast.Type { return &ast.Type{Kind: ast.TypeChar} }

func doubleType() *ast.Type { return &ast.Type{Kind: ast.TypeDouble} }

func voidType() *ast.Type { return &ast.Type{Kind: ast.TypeVoid} }

func unsignedLongType() *ast.Type { return &ast.Type{Kind: ast.TypeInt, Long: true, Unsigned: true} }

// similarNames filters candidates to the ones close enough to target to be
// worth suggesting as a typo fix.
func similarNames(target string, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if c == target {
			continue
		}
		if levenshtein(target, c) <= 2 && len(c) > 1 {
			out = append(out, c)
		}
	}
	return out
}

func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
