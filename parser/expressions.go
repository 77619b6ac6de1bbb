package parser

import (
	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/internal/token"
)

// parseExpression is the Pratt loop. On return the current token is the
// last token of the expression.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	if p.curTokenIs(token.EOF) {
		p.setTokenError(p.curToken, "unexpected end of input")
		return nil
	}
	if p.failed() {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, "maximum nesting depth exceeded")
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.setTokenError(p.curToken, "invalid syntax (unexpected %s)", tokenDescription(p.curToken))
		return nil
	}
	left := prefix()
	if left == nil || p.failed() {
		return nil
	}
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		if left = infix(left); left == nil || p.failed() {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdent() ast.Expr {
	return p.newIdent(p.curToken)
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	opTok := p.curToken
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil
	}
	return &ast.Prefix{OpPos: opTok.StartPosition, Op: opTok.Literal, X: right}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	opTok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	// A trailing operator continues the expression on the next line.
	p.skipNewlines()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.Infix{X: left, OpPos: opTok.StartPosition, Op: opTok.Literal, Y: right}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()
	p.skipNewlines()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	p.nextToken()
	p.skipNewlines()
	if !p.curTokenIs(token.RPAREN) {
		p.setTokenError(p.curToken, "unexpected %s while parsing grouped expression (expected \")\")",
			tokenDescription(p.curToken))
		return nil
	}
	return expr
}

func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	lparen := p.curToken.StartPosition
	args, ok := p.parseExprList("call arguments", token.RPAREN, true)
	if !ok {
		return nil
	}
	return &ast.Call{Fun: fn, Lparen: lparen, Args: args, Rparen: p.curToken.StartPosition}
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	lbrack := p.curToken.StartPosition
	p.nextToken()
	p.skipNewlines()
	index := p.parseExpression(LOWEST)
	if index == nil {
		return nil
	}
	p.nextToken()
	p.skipNewlines()
	if !p.curTokenIs(token.RBRACKET) {
		p.setTokenError(p.curToken, "unexpected %s while parsing index expression (expected \"]\")",
			tokenDescription(p.curToken))
		return nil
	}
	return &ast.Index{X: left, Lbrack: lbrack, Index: index, Rbrack: p.curToken.StartPosition}
}

func (p *Parser) parseGetAttr(left ast.Expr) ast.Expr {
	period := p.curToken.StartPosition
	if !p.expectPeek("attribute access", token.IDENT) {
		return nil
	}
	return &ast.GetAttr{X: left, Period: period, Attr: p.newIdent(p.curToken)}
}

// parseExprList parses a comma separated list of expressions that starts at
// the current token and ends with the given token. Newlines are permitted
// between items. On return the current token is the closing token.
func (p *Parser) parseExprList(context string, end token.Type, allowSpread bool) ([]ast.Expr, bool) {
	var list []ast.Expr
	p.nextToken()
	p.skipNewlines()
	for !p.curTokenIs(end) {
		if p.curTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unterminated %s (expected %s)", context, typeDescription(end))
			return nil, false
		}
		var item ast.Expr
		if allowSpread && p.curTokenIs(token.SPREAD) {
			ellipsis := p.curToken.StartPosition
			p.nextToken()
			x := p.parseExpression(LOWEST)
			if x == nil {
				return nil, false
			}
			item = &ast.Spread{Ellipsis: ellipsis, X: x}
		} else if item = p.parseExpression(LOWEST); item == nil {
			return nil, false
		}
		list = append(list, item)
		p.nextToken()
		p.skipNewlines()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			p.skipNewlines()
			continue
		}
		if !p.curTokenIs(end) {
			p.setTokenError(p.curToken, "unexpected %s while parsing %s (expected \",\" or %s)",
				tokenDescription(p.curToken), context, typeDescription(end))
			return nil, false
		}
	}
	return list, true
}
