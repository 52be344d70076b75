package cst

import "cprizm/internal/ast"

var baseTypeKeywords = map[TokenKind]ast.TypeKind{
	VOID:   ast.TypeVoid,
	INT:    ast.TypeInt,
	CHAR:   ast.TypeChar,
	FLOAT:  ast.TypeFloat,
	DOUBLE: ast.TypeDouble,
}

// isTypeStart reports whether the current token can begin a type, used
// by statement parsing to distinguish a declaration from an expression
// statement.
func (p *Parser) isTypeStart() bool {
	switch p.peek().Kind {
	case VOID, INT, CHAR, SHORT, LONG, UNSIGNED, SIGNED, FLOAT, DOUBLE, STRUCT, CONST:
		return true
	}
	return false
}

// parseType parses a base type (with qualifiers and an optional struct
// tag) followed by any number of pointer declarators ("*").
func (p *Parser) parseType() *ast.Type {
	start := p.peek()
	ty := &ast.Type{Pos: p.makePos(start)}

	for p.match(CONST, VOLATILE, STATIC, EXTERN) {
		// storage/qualifier keywords don't change the type shape this
		// compiler tracks; they're consumed and discarded.
	}

	switch {
	case p.match(UNSIGNED):
		ty.Unsigned = true
	case p.match(SIGNED):
	}

	for p.match(SHORT) {
		ty.Short = true
	}
	for p.match(LONG) {
		ty.Long = true
	}

	switch {
	case p.match(STRUCT):
		name, _ := p.consumeIdent("expected struct tag after 'struct'")
		ty.Kind = ast.TypeStruct
		ty.Name = name.Value
	case p.check(VOID), p.check(INT), p.check(CHAR), p.check(FLOAT), p.check(DOUBLE):
		tok := p.advance()
		ty.Kind = baseTypeKeywords[tok.Kind]
	default:
		if ty.Unsigned || ty.Short || ty.Long {
			// bare "unsigned"/"long"/"short" implies int, matching C's
			// default-int rule for integer type specifiers.
			ty.Kind = ast.TypeInt
		} else {
			p.errorAtCurrent("expected a type")
			ty.Kind = ast.TypeInt
		}
	}

	ty.EndPos = p.makeEndPos(p.previous())

	for p.match(STAR) {
		star := p.previous()
		ty = &ast.Type{Pos: ty.Pos, EndPos: p.makeEndPos(star), Kind: ast.TypePointer, Elem: ty}
	}

	return ty
}

// parseArrayDeclarator wraps baseType in an ast.Type{Kind: TypeArray}
// when the declarator that follows a name has a "[n]" or "[]" suffix.
func (p *Parser) parseArrayDeclarator(baseType *ast.Type) *ast.Type {
	if !p.check(LEFT_BRACKET) {
		return baseType
	}
	p.advance()

	length := -1
	if !p.check(RIGHT_BRACKET) {
		tok := p.consume(INT_LIT, "expected array length")
		length = parseIntLexeme(tok.Lexeme)
	}
	end := p.consume(RIGHT_BRACKET, "expected ']' after array length")

	return &ast.Type{
		Pos:      baseType.Pos,
		EndPos:   p.makeEndPos(end),
		Kind:     ast.TypeArray,
		Elem:     baseType,
		ArrayLen: length,
	}
}
