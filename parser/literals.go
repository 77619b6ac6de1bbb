package parser

import (
	"strconv"

	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/internal/token"
)

func (p *Parser) parseInt() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseInt(tok.Literal, 0, 64)
	if err != nil {
		p.setTokenError(tok, "invalid integer: %s", tok.Literal)
		return nil
	}
	return &ast.Int{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}
}

func (p *Parser) parseFloat() ast.Expr {
	tok := p.curToken
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.setTokenError(tok, "invalid float: %s", tok.Literal)
		return nil
	}
	return &ast.Float{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}
}

func (p *Parser) parseBoolean() ast.Expr {
	tok := p.curToken
	return &ast.Bool{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: tok.Type == token.TRUE}
}

func (p *Parser) parseNil() ast.Expr {
	return &ast.Nil{NilPos: p.curToken.StartPosition}
}

func (p *Parser) parseString() ast.Expr {
	tok := p.curToken
	return &ast.String{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: tok.Literal}
}

func (p *Parser) parseList() ast.Expr {
	lbrack := p.curToken.StartPosition
	items, ok := p.parseExprList("list", token.RBRACKET, false)
	if !ok {
		return nil
	}
	return &ast.List{Lbrack: lbrack, Items: items, Rbrack: p.curToken.StartPosition}
}

func (p *Parser) parseMap() ast.Expr {
	m := &ast.Map{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	p.skipNewlines()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unterminated map (expected \"}\")")
			return nil
		}
		var key ast.Expr
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			key = &ast.String{ValuePos: p.curToken.StartPosition, Literal: p.curToken.Literal, Value: p.curToken.Literal}
		} else if key = p.parseExpression(LOWEST); key == nil {
			return nil
		}
		if !p.expectPeek("map", token.COLON) {
			return nil
		}
		p.nextToken()
		p.skipNewlines()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		m.Items = append(m.Items, ast.MapItem{Key: key, Value: value})
		p.nextToken()
		p.skipNewlines()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			p.skipNewlines()
			continue
		}
		if !p.curTokenIs(token.RBRACE) {
			p.setTokenError(p.curToken, "unexpected %s while parsing map (expected \",\" or \"}\")",
				tokenDescription(p.curToken))
			return nil
		}
	}
	m.Rbrace = p.curToken.StartPosition
	return m
}

func (p *Parser) parseFunc() ast.Expr {
	fn := &ast.Func{Func: p.curToken.StartPosition}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		fn.Name = p.newIdent(p.curToken)
	}
	if !p.expectPeek("function", token.LPAREN) {
		return nil
	}
	fn.Lparen = p.curToken.StartPosition
	if !p.parseParams(fn) {
		return nil
	}
	fn.Rparen = p.curToken.StartPosition
	if !p.expectPeek("function", token.LBRACE) {
		return nil
	}
	if fn.Body = p.parseBlock(); fn.Body == nil {
		return nil
	}
	return fn
}

// parseParams parses the parameter list of a function. The current token is
// "(" on entry and ")" on return.
func (p *Parser) parseParams(fn *ast.Func) bool {
	seen := map[string]bool{}
	p.nextToken()
	p.skipNewlines()
	for !p.curTokenIs(token.RPAREN) {
		if fn.RestParam != nil {
			p.setTokenError(p.curToken, "rest parameter must be last")
			return false
		}
		if p.curTokenIs(token.SPREAD) {
			if !p.expectPeek("rest parameter", token.IDENT) {
				return false
			}
			fn.RestParam = p.newIdent(p.curToken)
		} else if p.curTokenIs(token.IDENT) {
			fn.Params = append(fn.Params, p.newIdent(p.curToken))
		} else {
			p.setTokenError(p.curToken, "unexpected %s while parsing function parameters (expected identifier)",
				tokenDescription(p.curToken))
			return false
		}
		name := p.curToken.Literal
		if seen[name] {
			p.setTokenError(p.curToken, "duplicate parameter %q", name)
			return false
		}
		seen[name] = true
		p.nextToken()
		p.skipNewlines()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			p.skipNewlines()
			continue
		}
		if !p.curTokenIs(token.RPAREN) {
			p.setTokenError(p.curToken, "unexpected %s while parsing function parameters (expected \",\" or \")\")",
				tokenDescription(p.curToken))
			return false
		}
	}
	return true
}
