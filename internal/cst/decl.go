package cst

import "cprizm/internal/ast"

// parseDecl parses one top-level declaration: a struct definition or a
// function prototype/definition, attaching a leading doc comment when
// present. Anything else synchronizes into a *ast.BadDecl so one bad
// top-level construct doesn't abort the rest of the file.
func (p *Parser) parseDecl() ast.Decl {
	start := p.peek()

	if p.check(STRUCT) {
		return p.parseStructDecl()
	}

	if p.isTypeStart() {
		return p.parseFunctionDecl()
	}

	p.errorAtCurrent("expected a declaration")
	bad := p.peek()
	p.synchronize()
	return &ast.BadDecl{Bad: ast.BadNode{
		Pos: p.makePos(start), EndPos: p.makeEndPos(bad),
		Message: "expected a declaration",
	}}
}

// parseStructDecl parses "struct name { field-decl* };".
func (p *Parser) parseStructDecl() ast.Decl {
	start := p.advance()
	name, _ := p.consumeIdent("expected a struct name")
	p.consume(LEFT_BRACE, "expected '{' after struct name")

	var fields []*ast.StructField
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		fieldStart := p.peek()
		ty := p.parseType()
		fieldName, _ := p.consumeIdent("expected a field name")
		ty = p.parseArrayDeclarator(ty)
		end := p.consume(SEMICOLON, "expected ';' after field")
		fields = append(fields, &ast.StructField{
			Pos: p.makePos(fieldStart), EndPos: p.makeEndPos(end),
			Name: p.makeIdent(fieldName), Type: ty,
		})
	}
	p.consume(RIGHT_BRACE, "expected '}' after struct body")
	end := p.consume(SEMICOLON, "expected ';' after struct declaration")

	return &ast.StructDecl{Pos: p.makePos(start), EndPos: p.makeEndPos(end), Name: p.makeIdent(name), Fields: fields}
}

// parseFunctionDecl parses a return type, name, parameter list, and
// either a ';' prototype terminator or a block body.
func (p *Parser) parseFunctionDecl() ast.Decl {
	start := p.peek()
	retType := p.parseType()
	name, _ := p.consumeIdent("expected a function name")

	p.consume(LEFT_PAREN, "expected '(' after function name")
	params, variadic := p.parseParamList()
	p.consume(RIGHT_PAREN, "expected ')' after parameters")

	fn := &ast.FunctionDecl{
		Pos:        p.makePos(start),
		ReturnType: retType,
		Name:       p.makeIdent(name),
		Params:     params,
		Variadic:   variadic,
	}

	if p.match(SEMICOLON) {
		fn.EndPos = p.makeEndPos(p.previous())
		return fn
	}

	fn.Body = p.parseBlock()
	fn.EndPos = fn.Body.EndPos
	return fn
}

// parseParamList parses a comma-separated parameter list, recognizing
// a bare "void" as a zero-parameter list. This compiler's subset has
// no varargs, so the variadic return is always false; it stays in the
// signature to match ast.FunctionDecl's Variadic field.
func (p *Parser) parseParamList() ([]*ast.Param, bool) {
	var params []*ast.Param

	if p.check(VOID) && p.peekIsVoidOnlyParam() {
		p.advance()
		return nil, false
	}

	if p.check(RIGHT_PAREN) {
		return nil, false
	}

	for {
		start := p.peek()
		ty := p.parseType()
		var name ast.Ident
		if p.check(IDENTIFIER) {
			tok := p.advance()
			name = p.makeIdent(tok)
			ty = p.parseArrayDeclarator(ty)
		}
		params = append(params, &ast.Param{Pos: p.makePos(start), EndPos: ty.EndPos, Name: name, Type: ty})
		if !p.match(COMMA) {
			break
		}
	}

	return params, false
}

// peekIsVoidOnlyParam disambiguates "(void)" from "(void *p)" by
// checking whether ')' immediately follows "void".
func (p *Parser) peekIsVoidOnlyParam() bool {
	save := p.current
	p.advance()
	isClose := p.check(RIGHT_PAREN)
	p.current = save
	return isClose
}
