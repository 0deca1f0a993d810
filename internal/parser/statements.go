package parser

import (
	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/diagnostics"
	"github.com/splatlang/splat/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.AT:
		return p.parseDecoratedFunction()
	case token.FUNCTION:
		return p.parseFunctionStatement(nil)
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.BREAK:
		return &ast.BreakStatement{Token: p.curToken}
	case token.CONTINUE:
		return &ast.ContinueStatement{Token: p.curToken}
	case token.IDENT:
		if p.peekTokenIs(token.ASSIGN) {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseDecoratedFunction collects @name lines, then requires a fun statement.
func (p *Parser) parseDecoratedFunction() ast.Statement {
	var decorators []*ast.Decorator
	for p.curTokenIs(token.AT) {
		atToken := p.curToken
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		decorators = append(decorators, &ast.Decorator{
			Token: atToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		})
		p.nextToken()
		p.skipNewlines()
	}
	if !p.curTokenIs(token.FUNCTION) {
		p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
			diagnostics.ErrP005,
			p.curToken,
			"decorators must be followed by a function definition, got %s", p.curToken.Type,
		))
		return nil
	}
	return p.parseFunctionStatement(decorators)
}

func (p *Parser) parseFunctionStatement(decorators []*ast.Decorator) ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken, Decorators: decorators}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Parameters = p.parseParameterList()
	if stmt.Parameters == nil && !p.curTokenIs(token.RPAREN) {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseParameterList parses (a, b = 2, **rest). Leaves curToken on ')'.
func (p *Parser) parseParameterList() []*ast.Parameter {
	params := []*ast.Parameter{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	seenBundle := false
	for {
		p.nextToken()
		p.skipNewlines()

		param := &ast.Parameter{Token: p.curToken}
		if p.curTokenIs(token.DOUBLE_SPLAT) {
			param.Bundle = true
			if seenBundle {
				p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
					diagnostics.ErrP004, p.curToken, "only one **parameter is allowed"))
			}
			seenBundle = true
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) {
			p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
				diagnostics.ErrP004, p.curToken, "expected parameter name, got %s", p.curToken.Type))
			return nil
		}
		param.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

		if p.peekTokenIs(token.ASSIGN) {
			if param.Bundle {
				p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
					diagnostics.ErrP004, p.peekToken, "**parameter cannot have a default value"))
				return nil
			}
			p.nextToken() // '='
			p.nextToken()
			param.Default = p.parseExpression(LOWEST)
		}
		params = append(params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

// parseBlockStatement expects curToken on '{'. Leaves curToken on '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}

	p.nextToken()
	p.skipNewlines()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.skipToStatementBoundary()
		}
		p.nextToken()
		p.skipNewlines()
	}
	return block
}

func (p *Parser) parseAssignStatement() ast.Statement {
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	p.nextToken() // '='
	stmt := &ast.AssignStatement{Token: p.curToken, Name: name}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}
	if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.SEMICOLON) ||
		p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()

	// else / else-if, possibly after a newline.
	mark := p.pos
	cur, peek := p.curToken, p.peekToken
	p.nextToken()
	p.skipNewlines()
	if !p.curTokenIs(token.ELSE) {
		p.pos = mark
		p.curToken, p.peekToken = cur, peek
		return stmt
	}

	if p.peekTokenIs(token.IF) {
		// else if: desugar into an else block wrapping the nested if.
		p.nextToken()
		nested := p.parseIfStatement()
		if nested == nil {
			return nil
		}
		stmt.Alternative = &ast.BlockStatement{
			Token:      nested.GetToken(),
			Statements: []ast.Statement{nested},
		}
		return stmt
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Alternative = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	if stmt.Iterable == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	return stmt
}
