package cst

import "cprizm/internal/ast"

// binaryPrecedence gives each binary operator's binding power, lowest
// first, the same precedence-climbing scheme used throughout this parser for its
// own (much smaller) operator set.
var binaryPrecedence = map[TokenKind]int{
	PIPE_PIPE: 1,
	AMP_AMP:   2,
	PIPE:      3,
	CARET:     4,
	AMP:       5,
	EQUAL_EQUAL: 6, BANG_EQUAL: 6,
	LESS: 7, LESS_EQUAL: 7, GREATER: 7, GREATER_EQUAL: 7,
	LESS_LESS: 8, GREATER_GREATER: 8,
	PLUS: 9, MINUS: 9,
	STAR: 10, SLASH: 10, PERCENT: 10,
}

var binaryOpText = map[TokenKind]string{
	PIPE_PIPE: "||", AMP_AMP: "&&", PIPE: "|", CARET: "^", AMP: "&",
	EQUAL_EQUAL: "==", BANG_EQUAL: "!=",
	LESS: "<", LESS_EQUAL: "<=", GREATER: ">", GREATER_EQUAL: ">=",
	LESS_LESS: "<<", GREATER_GREATER: ">>",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
}

var assignOps = map[TokenKind]ast.AssignType{
	EQUAL: ast.ASSIGN, PLUS_EQUAL: ast.PLUS_ASSIGN, MINUS_EQUAL: ast.MINUS_ASSIGN,
	STAR_EQUAL: ast.STAR_ASSIGN, SLASH_EQUAL: ast.SLASH_ASSIGN, PERCENT_EQUAL: ast.PERCENT_ASSIGN,
	AMP_EQUAL: ast.AND_ASSIGN, PIPE_EQUAL: ast.OR_ASSIGN, CARET_EQUAL: ast.XOR_ASSIGN,
	LESS_LESS_EQUAL: ast.SHL_ASSIGN, GREATER_GREATER_EQUAL: ast.SHR_ASSIGN,
}

var assignOpText = map[TokenKind]string{
	EQUAL: "=", PLUS_EQUAL: "+=", MINUS_EQUAL: "-=", STAR_EQUAL: "*=",
	SLASH_EQUAL: "/=", PERCENT_EQUAL: "%=", AMP_EQUAL: "&=", PIPE_EQUAL: "|=",
	CARET_EQUAL: "^=", LESS_LESS_EQUAL: "<<=", GREATER_GREATER_EQUAL: ">>=",
}

// parseExpr parses a full expression, handling assignment at the
// lowest precedence since C's assignment operators are right-associative
// and sit below every other binary operator.
func (p *Parser) parseExpr() ast.Expr {
	left := p.parsePrattExpr(1)

	if opText, ok := assignOpText[p.peek().Kind]; ok {
		p.advance()
		value := p.parseExpr()
		return &ast.BinaryExpr{
			Pos: left.NodePos(), EndPos: value.NodeEndPos(),
			Op: opText, Left: left, Right: value,
		}
	}

	return left
}

// parsePrattExpr climbs binary operators whose precedence is at least
// minPrec, the same left-associative climbing technique this parser's prefix
// expression parser used.
func (p *Parser) parsePrattExpr(minPrec int) ast.Expr {
	left := p.parsePrefixExpr()

	for {
		prec, ok := binaryPrecedence[p.peek().Kind]
		if !ok || prec < minPrec {
			break
		}
		opTok := p.advance()
		right := p.parsePrattExpr(prec + 1)
		left = &ast.BinaryExpr{
			Pos: left.NodePos(), EndPos: right.NodeEndPos(),
			Op: binaryOpText[opTok.Kind], Left: left, Right: right,
		}
	}

	return left
}

// parsePrefixExpr handles unary prefix operators, casts and sizeof
// before falling through to postfix/primary parsing.
func (p *Parser) parsePrefixExpr() ast.Expr {
	switch p.peek().Kind {
	case MINUS, BANG, TILDE, AMP, STAR, PLUS_PLUS, MINUS_MINUS:
		tok := p.advance()
		value := p.parsePrefixExpr()
		op := tok.Lexeme
		if op == "" {
			op = map[TokenKind]string{MINUS: "-", BANG: "!", TILDE: "~", AMP: "&", STAR: "*", PLUS_PLUS: "++", MINUS_MINUS: "--"}[tok.Kind]
		}
		return &ast.UnaryExpr{Pos: p.makePos(tok), EndPos: value.NodeEndPos(), Op: op, Value: value}

	case SIZEOF:
		tok := p.advance()
		if p.check(LEFT_PAREN) && p.checkTypeAfterParen() {
			p.advance()
			ty := p.parseType()
			end := p.consume(RIGHT_PAREN, "expected ')' after sizeof type")
			return &ast.SizeofExpr{Pos: p.makePos(tok), EndPos: p.makeEndPos(end), Type: ty}
		}
		value := p.parsePrefixExpr()
		return &ast.SizeofExpr{Pos: p.makePos(tok), EndPos: value.NodeEndPos(), Value: value}

	case LEFT_PAREN:
		if p.checkTypeAfterParen() {
			start := p.advance()
			ty := p.parseType()
			p.consume(RIGHT_PAREN, "expected ')' after cast type")
			value := p.parsePrefixExpr()
			return &ast.CastExpr{Pos: p.makePos(start), EndPos: value.NodeEndPos(), Type: ty, Value: value}
		}
	}

	return p.parsePostfixExpr()
}

// checkTypeAfterParen looks past the current '(' to decide whether
// this is a cast/sizeof-type rather than a parenthesized expression.
func (p *Parser) checkTypeAfterParen() bool {
	if !p.check(LEFT_PAREN) {
		return false
	}
	save := p.current
	p.advance()
	isType := p.isTypeStart()
	p.current = save
	return isType
}

// parsePostfixExpr handles call, index, member access and post-inc/dec
// suffixes applied left to right after a primary expression.
func (p *Parser) parsePostfixExpr() ast.Expr {
	expr := p.parsePrimaryExpr()

	for {
		switch p.peek().Kind {
		case LEFT_PAREN:
			p.advance()
			args := p.parseExprList(RIGHT_PAREN)
			end := p.consume(RIGHT_PAREN, "expected ')' after arguments")
			expr = &ast.CallExpr{Pos: expr.NodePos(), EndPos: p.makeEndPos(end), Callee: expr, Args: args}

		case LEFT_BRACKET:
			p.advance()
			index := p.parseExpr()
			end := p.consume(RIGHT_BRACKET, "expected ']' after index")
			expr = &ast.IndexExpr{Pos: expr.NodePos(), EndPos: p.makeEndPos(end), Target: expr, Index: index}

		case DOT:
			p.advance()
			field, _ := p.consumeIdent("expected field name after '.'")
			expr = &ast.MemberExpr{Pos: expr.NodePos(), EndPos: p.makeEndPos(field), Target: expr, Field: field.Lexeme}

		case ARROW:
			p.advance()
			field, _ := p.consumeIdent("expected field name after '->'")
			expr = &ast.MemberExpr{Pos: expr.NodePos(), EndPos: p.makeEndPos(field), Target: expr, Field: field.Lexeme, Arrow: true}

		case PLUS_PLUS, MINUS_MINUS:
			tok := p.advance()
			op := "++"
			if tok.Kind == MINUS_MINUS {
				op = "--"
			}
			expr = &ast.PostfixExpr{Pos: expr.NodePos(), EndPos: p.makeEndPos(tok), Op: op, Value: expr}

		default:
			return expr
		}
	}
}

// parseExprList parses a comma-separated argument list up to (not
// consuming) the closing token.
func (p *Parser) parseExprList(closing TokenKind) []ast.Expr {
	var args []ast.Expr
	if p.check(closing) {
		return args
	}
	args = append(args, p.parseExpr())
	for p.match(COMMA) {
		args = append(args, p.parseExpr())
	}
	return args
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case INT_LIT:
		p.advance()
		return &ast.IntLiteral{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Value: int64(parseIntLexeme(tok.Lexeme))}

	case FLOAT_LIT:
		p.advance()
		return &ast.FloatLiteral{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Value: parseFloatLexeme(tok.Lexeme)}

	case CHAR_LIT:
		p.advance()
		return &ast.CharLiteral{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Value: parseCharLexeme(tok.Lexeme)}

	case STRING_LIT:
		p.advance()
		return &ast.StringLiteral{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Value: parseStringLexeme(tok.Lexeme)}

	case IDENTIFIER:
		p.advance()
		return &ast.IdentExpr{Pos: p.makePos(tok), EndPos: p.makeEndPos(tok), Name: tok.Lexeme}

	case LEFT_PAREN:
		p.advance()
		inner := p.parseExpr()
		end := p.consume(RIGHT_PAREN, "expected ')' after expression")
		return &ast.ParenExpr{Pos: p.makePos(tok), EndPos: p.makeEndPos(end), Value: inner}

	default:
		p.errorAtCurrent("expected an expression")
		bad := p.advance()
		return &ast.BadExpr{Bad: ast.BadNode{Pos: p.makePos(bad), EndPos: p.makeEndPos(bad), Message: "expected an expression"}}
	}
}
