package parser

import (
	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/internal/token"
)

// parseStatementStrict parses one statement and checks that it is properly
// terminated. On return the current token is the last token of the statement.
func (p *Parser) parseStatementStrict() ast.Stmt {
	stmt := p.parseStatement()
	if stmt == nil {
		return nil
	}
	if !statementTerminators[p.peekToken.Type] {
		p.setTokenError(p.peekToken, "unexpected %s following statement", tokenDescription(p.peekToken))
		return nil
	}
	return stmt
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.LET:
		return p.parseVar()
	case token.CONST:
		return p.parseConst()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK, token.CONTINUE:
		return &ast.Control{Keyword: p.curToken.StartPosition, Tok: p.curToken.Type}
	case token.IMPORT:
		return p.parseImport()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.LBRACE:
		return p.parseBlock()
	case token.FUNCTION:
		if p.peekTokenIs(token.IDENT) {
			fn, ok := p.parseFunc().(*ast.Func)
			if !ok {
				return nil
			}
			return fn
		}
	}
	return p.parseSimpleStatement()
}

// parseSimpleStatement parses an expression statement or an assignment.
func (p *Parser) parseSimpleStatement() ast.Stmt {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	op, isAssign := assignOperators[p.peekToken.Type]
	if !isAssign {
		return &ast.ExprStmt{X: expr}
	}
	switch expr.(type) {
	case *ast.Ident, *ast.Index, *ast.GetAttr:
	default:
		p.setTokenError(p.peekToken, "invalid assignment target %s", expr.String())
		return nil
	}
	p.nextToken()
	opPos := p.curToken.StartPosition
	p.nextToken()
	p.skipNewlines()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Assign{Target: expr, OpPos: opPos, Op: op, Value: value}
}

func (p *Parser) parseVar() ast.Stmt {
	let := p.curToken.StartPosition
	if !p.expectPeek("let statement", token.IDENT) {
		return nil
	}
	name := p.newIdent(p.curToken)
	if !p.peekTokenIs(token.ASSIGN) {
		return &ast.Var{Let: let, Name: name}
	}
	p.nextToken()
	p.nextToken()
	p.skipNewlines()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Var{Let: let, Name: name, Value: value}
}

func (p *Parser) parseConst() ast.Stmt {
	pos := p.curToken.StartPosition
	if !p.expectPeek("const statement", token.IDENT) {
		return nil
	}
	name := p.newIdent(p.curToken)
	if !p.expectPeek("const statement", token.ASSIGN) {
		return nil
	}
	p.nextToken()
	p.skipNewlines()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Const{Const: pos, Name: name, Value: value}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.curToken.StartPosition
	if statementTerminators[p.peekToken.Type] {
		return &ast.Return{Return: pos}
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Return{Return: pos, Value: value}
}

func (p *Parser) parseImport() ast.Stmt {
	pos := p.curToken.StartPosition
	if !p.expectPeek("import statement", token.IDENT) {
		return nil
	}
	stmt := &ast.Import{ImportPos: pos, Name: p.newIdent(p.curToken)}
	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek("import statement", token.IDENT) {
			return nil
		}
		stmt.Alias = p.newIdent(p.curToken)
	}
	return stmt
}

// parseBlock parses a brace-delimited statement list. The current token must
// be "{" and on return it is the matching "}".
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	p.skipTerminators()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unterminated block (expected \"}\")")
			return nil
		}
		stmt := p.parseStatementStrict()
		if stmt == nil {
			return nil
		}
		block.Stmts = append(block.Stmts, stmt)
		p.nextToken()
		p.skipTerminators()
	}
	block.Rbrace = p.curToken.StartPosition
	return block
}

func (p *Parser) parseIf() ast.Stmt {
	stmt := p.parseIfChain()
	if stmt == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseIfChain() *ast.If {
	stmt := &ast.If{If: p.curToken.StartPosition}
	p.nextToken()
	stmt.Cond = p.parseExpression(LOWEST)
	if stmt.Cond == nil || !p.expectPeek("if statement", token.LBRACE) {
		return nil
	}
	if stmt.Consequence = p.parseBlock(); stmt.Consequence == nil {
		return nil
	}
	if !p.peekTokenIs(token.ELSE) {
		return stmt
	}
	p.nextToken()
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		nested := p.parseIfChain()
		if nested == nil {
			return nil
		}
		stmt.Alternative = &ast.Block{
			Lbrace: nested.Pos(),
			Stmts:  []ast.Stmt{nested},
			Rbrace: p.curToken.StartPosition,
		}
		return stmt
	}
	if !p.expectPeek("else clause", token.LBRACE) {
		return nil
	}
	if stmt.Alternative = p.parseBlock(); stmt.Alternative == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	stmt := &ast.For{For: p.curToken.StartPosition}
	p.nextToken()

	// for { ... }
	if p.curTokenIs(token.LBRACE) {
		if stmt.Body = p.parseBlock(); stmt.Body == nil {
			return nil
		}
		return stmt
	}

	// for name in iterable { ... }
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.IN) {
		stmt.Name = p.newIdent(p.curToken)
		p.nextToken()
		p.nextToken()
		if stmt.Iterable = p.parseExpression(LOWEST); stmt.Iterable == nil {
			return nil
		}
		if !p.expectPeek("for loop", token.LBRACE) {
			return nil
		}
		if stmt.Body = p.parseBlock(); stmt.Body == nil {
			return nil
		}
		return stmt
	}

	if !p.curTokenIs(token.SEMICOLON) {
		var init ast.Stmt
		if p.curTokenIs(token.LET) {
			init = p.parseVar()
		} else {
			init = p.parseSimpleStatement()
		}
		if init == nil {
			return nil
		}
		// for cond { ... }
		if cond, ok := init.(*ast.ExprStmt); ok && p.peekTokenIs(token.LBRACE) {
			stmt.Cond = cond.X
			p.nextToken()
			if stmt.Body = p.parseBlock(); stmt.Body == nil {
				return nil
			}
			return stmt
		}
		stmt.Init = init
		if !p.expectPeek("for loop", token.SEMICOLON) {
			return nil
		}
	}

	// for init; cond; post { ... }
	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		if stmt.Cond = p.parseExpression(LOWEST); stmt.Cond == nil {
			return nil
		}
		if !p.expectPeek("for loop", token.SEMICOLON) {
			return nil
		}
	}
	p.nextToken()
	if !p.curTokenIs(token.LBRACE) {
		if stmt.Post = p.parseSimpleStatement(); stmt.Post == nil {
			return nil
		}
		if !p.expectPeek("for loop", token.LBRACE) {
			return nil
		}
	}
	if stmt.Body = p.parseBlock(); stmt.Body == nil {
		return nil
	}
	return stmt
}
