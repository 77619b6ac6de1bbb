package ast

import (
	"testing"

	"github.com/risor-io/risordbg/internal/token"
	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	program := &Program{
		Stmts: []Stmt{
			&Var{
				Let: token.Position{Line: 1, Column: 1},
				Name: &Ident{
					NamePos: token.Position{Line: 1, Column: 5},
					Name:    "myVar",
				},
				Value: &Ident{
					NamePos: token.Position{Line: 1, Column: 13},
					Name:    "anotherVar",
				},
			},
		},
	}
	assert.Equal(t, "let myVar = anotherVar", program.String())
}

func TestBadNodes(t *testing.T) {
	from := token.Position{Line: 1, Column: 5, File: "test.risor"}
	to := token.Position{Line: 1, Column: 15, File: "test.risor"}

	bad := &BadExpr{From: from, To: to}
	assert.Equal(t, from, bad.Pos())
	assert.Equal(t, to, bad.End())
	assert.Equal(t, "<bad expression>", bad.String())

	stmt := &BadStmt{From: from, To: to}
	assert.Equal(t, "<bad statement>", stmt.String())
}

func TestExpressionStrings(t *testing.T) {
	x := &Ident{Name: "x"}
	one := &Int{Literal: "1", Value: 1}
	tests := []struct {
		node     Node
		expected string
	}{
		{&Infix{X: x, Op: "+", Y: one}, "(x + 1)"},
		{&Prefix{Op: "-", X: x}, "(-x)"},
		{&Prefix{Op: "not", X: x}, "(not x)"},
		{&Call{Fun: x, Args: []Expr{one, &String{Value: "a\n"}}}, `x(1, "a\n")`},
		{&Index{X: x, Index: one}, "(x[1])"},
		{&GetAttr{X: x, Attr: &Ident{Name: "y"}}, "x.y"},
		{&List{Items: []Expr{one, &Nil{}}}, "[1, nil]"},
		{&Map{Items: []MapItem{{Key: &String{Value: "k"}, Value: one}}}, `{"k": 1}`},
		{&Spread{X: x}, "...x"},
		{&Assign{Target: x, Op: "+=", Value: one}, "x += 1"},
		{&Return{}, "return"},
		{&Control{Tok: token.CONTINUE}, "continue"},
		{&Import{Name: &Ident{Name: "debugger"}, Alias: &Ident{Name: "d"}}, "import debugger as d"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.node.String())
		})
	}
}

func TestFuncString(t *testing.T) {
	fn := &Func{
		Name:      &Ident{Name: "add"},
		Params:    []*Ident{{Name: "a"}, {Name: "b"}},
		RestParam: &Ident{Name: "rest"},
		Body: &Block{Stmts: []Stmt{
			&Return{Value: &Infix{X: &Ident{Name: "a"}, Op: "+", Y: &Ident{Name: "b"}}},
		}},
	}
	assert.Equal(t, "function add(a, b, ...rest) { return (a + b) }", fn.String())
}

func TestForString(t *testing.T) {
	body := &Block{}
	rangeLoop := &For{Name: &Ident{Name: "x"}, Iterable: &Ident{Name: "items"}, Body: body}
	assert.True(t, rangeLoop.IsRange())
	assert.Equal(t, "for x in items {  }", rangeLoop.String())

	cLoop := &For{
		Init: &Var{Name: &Ident{Name: "i"}, Value: &Int{Literal: "0"}},
		Cond: &Infix{X: &Ident{Name: "i"}, Op: "<", Y: &Int{Literal: "3"}},
		Post: &Assign{Target: &Ident{Name: "i"}, Op: "+=", Value: &Int{Literal: "1"}},
		Body: body,
	}
	assert.False(t, cLoop.IsRange())
	assert.Equal(t, "for let i = 0; (i < 3); i += 1 {  }", cLoop.String())
}

func TestPositions(t *testing.T) {
	pos := token.Position{Char: 4, Line: 2, Column: 4}
	id := &Ident{NamePos: pos, Name: "abc"}
	assert.Equal(t, 7, id.End().Column)
	assert.Equal(t, 3, id.Pos().LineNumber())
	prog := &Program{}
	assert.False(t, prog.Pos().IsValid())
}
