// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
package parser

import (
	"context"
	"fmt"

	"github.com/risor-io/risordbg/ast"
	"github.com/risor-io/risordbg/internal/lexer"
	"github.com/risor-io/risordbg/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// statementTerminators defines tokens that can end a statement. A newline
// ends a statement unless the line ends with an operator or is inside
// brackets, braces or parentheses.
var statementTerminators = map[token.Type]bool{
	token.SEMICOLON: true,
	token.NEWLINE:   true,
	token.RBRACE:    true,
	token.EOF:       true,
}

// Parse the provided input as Risor source code and return the AST.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	return New(newLexer(input, options), options...).Parse(ctx)
}

// ParseExpressions parses input as a comma separated list of expressions,
// e.g. "a, b + 1, f(c)".
func ParseExpressions(ctx context.Context, input string, options ...Option) ([]ast.Expr, error) {
	return New(newLexer(input, options), options...).ParseExpressions(ctx)
}

func newLexer(input string, options []Option) *lexer.Lexer {
	// The filename must be known before the first tokens are read so that
	// early lexer errors carry it.
	var probe Parser
	for _, opt := range options {
		opt(&probe)
	}
	l := lexer.New(input)
	if probe.filename != "" {
		l.SetFilename(probe.filename)
	}
	return l
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name attached to positions and errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Parser object
type Parser struct {
	ctx context.Context
	l   *lexer.Lexer

	prevToken token.Token
	curToken  token.Token
	peekToken token.Token

	errors []*SyntaxError

	// stmtErrorCount is the error count at the start of the current
	// statement, used to detect errors added while parsing it.
	stmtErrorCount int

	// lexFailed is set once the lexer reports an error. Tokens after a
	// lexer error are meaningless, so parsing stops there.
	lexFailed bool

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	filename string
	depth    int
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename == "" {
		p.filename = l.Filename()
	}

	// Prime the token pump
	p.nextToken()
	p.nextToken()

	p.registerPrefix(token.BANG, p.parsePrefixExpr)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.FLOAT, p.parseFloat)
	p.registerPrefix(token.FUNCTION, p.parseFunc)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.LBRACE, p.parseMap)
	p.registerPrefix(token.LBRACKET, p.parseList)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.NIL, p.parseNil)
	p.registerPrefix(token.NOT, p.parsePrefixExpr)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TRUE, p.parseBoolean)

	for _, typ := range []token.Type{
		token.AND, token.OR, token.EQ, token.NOT_EQ,
		token.LT, token.LT_EQUALS, token.GT, token.GT_EQUALS,
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.MOD,
	} {
		p.registerInfix(typ, p.parseInfixExpr)
	}
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.PERIOD, p.parseGetAttr)
	return p
}

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	if p.lexFailed {
		p.peekToken = token.Token{Type: token.EOF, StartPosition: p.curToken.EndPosition}
		return
	}
	tok, err := p.l.Next()
	if err != nil {
		p.addError(&SyntaxError{
			Message:  err.Error(),
			File:     p.filename,
			Position: tok.StartPosition,
			Source:   p.l.LineText(tok),
			Cause:    err,
		})
		p.lexFailed = true
		tok = token.Token{Type: token.EOF, StartPosition: tok.StartPosition, EndPosition: tok.StartPosition}
	}
	p.peekToken = tok
}

// Parse the program that is provided via the lexer. If there are errors,
// they are aggregated into a single returned error.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	var statements []ast.Stmt
	p.skipTerminators()
	for !p.curTokenIs(token.EOF) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(p.errors) >= MaxErrors {
			break
		}
		p.stmtErrorCount = len(p.errors)
		stmt := p.parseStatementStrict()
		if stmt != nil {
			statements = append(statements, stmt)
		} else if p.hadNewError() {
			p.synchronize()
		}
		p.nextToken()
		p.skipTerminators()
	}
	if len(p.errors) > 0 {
		return &ast.Program{Stmts: statements}, newErrors(p.errors)
	}
	return &ast.Program{Stmts: statements}, nil
}

// ParseExpressions parses the whole input as a comma separated list of
// expressions.
func (p *Parser) ParseExpressions(ctx context.Context) ([]ast.Expr, error) {
	p.ctx = ctx
	var exprs []ast.Expr
	p.skipTerminators()
	for !p.curTokenIs(token.EOF) {
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			if len(p.errors) == 0 {
				p.setTokenError(p.curToken, "expected expression")
			}
			return nil, newErrors(p.errors)
		}
		exprs = append(exprs, expr)
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			p.nextToken()
			p.skipNewlines()
			if p.curTokenIs(token.EOF) {
				p.setTokenError(p.curToken, "expected expression after ','")
			}
			continue
		}
		p.skipTerminators()
		if !p.curTokenIs(token.EOF) {
			p.setTokenError(p.curToken, "unexpected %s following expression", tokenDescription(p.curToken))
			break
		}
	}
	if len(p.errors) > 0 {
		return nil, newErrors(p.errors)
	}
	if len(exprs) == 0 {
		return nil, newErrors([]*SyntaxError{{Message: "empty expression", File: p.filename}})
	}
	return exprs, nil
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) addError(err *SyntaxError) {
	p.errors = append(p.errors, err)
}

// hadNewError returns true if an error was added during the current statement.
func (p *Parser) hadNewError() bool {
	return len(p.errors) > p.stmtErrorCount
}

// synchronize skips tokens until a statement boundary is reached so that
// parsing can continue after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
			return
		}
		if p.peekTokenIs(token.EOF) {
			return
		}
		p.nextToken()
	}
}

func (p *Parser) setTokenError(t token.Token, msg string, args ...any) {
	if p.lexFailed {
		// The lexer error already explains the failure.
		return
	}
	p.addError(&SyntaxError{
		Message:  fmt.Sprintf(msg, args...),
		File:     p.filename,
		Position: t.StartPosition,
		Source:   p.l.LineText(t),
	})
}

func (p *Parser) failed() bool {
	return p.hadNewError() || p.lexFailed
}

func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal}
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the given type and records an
// error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.setTokenError(p.peekToken, "unexpected %s while parsing %s (expected %s)",
		tokenDescription(p.peekToken), context, typeDescription(t))
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) skipNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

func (p *Parser) skipTerminators() {
	for p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

func tokenDescription(t token.Token) string {
	switch t.Type {
	case token.EOF:
		return "end of input"
	case token.NEWLINE:
		return "end of line"
	case token.IDENT:
		return fmt.Sprintf("identifier %q", t.Literal)
	case token.STRING:
		return "string"
	case token.INT, token.FLOAT:
		return fmt.Sprintf("number %s", t.Literal)
	}
	return fmt.Sprintf("%q", t.Literal)
}

func typeDescription(t token.Type) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.EOF:
		return "end of input"
	}
	return fmt.Sprintf("%q", string(t))
}
