package parser

import (
	"strconv"

	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/diagnostics"
	"github.com/splatlang/splat/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
			diagnostics.ErrP003,
			p.curToken,
			"expression too complex: recursion depth limit exceeded",
		))
		p.skipToStatementBoundary()
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
	if err != nil {
		p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
			diagnostics.ErrP001, p.curToken, "could not parse %q as integer", p.curToken.Lexeme))
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Lexeme, 64)
	if err != nil {
		p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
			diagnostics.ErrP001, p.curToken, "could not parse %q as float", p.curToken.Lexeme))
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Lexeme}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Lexeme,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}

	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return list
	}
	for {
		p.nextToken()
		p.skipNewlines()
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		list.Elements = append(list.Elements, elem)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
		p.skipNewlines()
		if p.curTokenIs(token.RBRACKET) {
			return list
		}
		p.peekError(token.RBRACKET)
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return list
}

func (p *Parser) parseDictLiteral() ast.Expression {
	dict := &ast.DictLiteral{Token: p.curToken}

	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return dict
	}
	for {
		p.nextToken()
		p.skipNewlines()
		key := p.parseExpression(LOWEST)
		if key == nil {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		dict.Entries = append(dict.Entries, &ast.DictEntry{Key: key, Value: value})
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
		p.skipNewlines()
		if p.curTokenIs(token.RBRACE) {
			return dict
		}
		p.peekError(token.RBRACE)
		return nil
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return dict
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: function}
	call.Arguments = p.parseCallArguments()
	if call.Arguments == nil && !p.curTokenIs(token.RPAREN) {
		return nil
	}
	return call
}

// parseCallArguments parses (expr, name=expr, **expr). Leaves curToken on ')'.
func (p *Parser) parseCallArguments() []*ast.Argument {
	args := []*ast.Argument{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	for {
		p.nextToken()
		p.skipNewlines()

		arg := &ast.Argument{Token: p.curToken}
		switch {
		case p.curTokenIs(token.DOUBLE_SPLAT):
			arg.Splat = true
			p.nextToken()
			arg.Value = p.parseExpression(LOWEST)
		case p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN):
			arg.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
			p.nextToken() // '='
			p.nextToken()
			arg.Value = p.parseExpression(LOWEST)
		default:
			arg.Value = p.parseExpression(LOWEST)
		}
		if arg.Value == nil {
			return nil
		}
		args = append(args, arg)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
		p.skipNewlines()
		if p.curTokenIs(token.RPAREN) {
			return args
		}
		p.peekError(token.RPAREN)
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return args
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	expr := &ast.MemberExpression{Token: p.curToken, Left: left}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	expr.Member = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	return expr
}
