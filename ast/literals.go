package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/risor-io/risordbg/internal/token"
)

// Int is an expression node that holds an integer literal.
type Int struct {
	ValuePos token.Position // position of literal
	Literal  string         // original literal text
	Value    int64          // parsed value
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.ValuePos }
func (x *Int) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Int) String() string { return x.Literal }

// Float is an expression node that holds a floating point literal.
type Float struct {
	ValuePos token.Position // position of literal
	Literal  string         // original literal text
	Value    float64        // parsed value
}

func (x *Float) exprNode() {}

func (x *Float) Pos() token.Position { return x.ValuePos }
func (x *Float) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Float) String() string { return x.Literal }

// Nil is an expression node that holds a nil literal.
type Nil struct {
	NilPos token.Position // position of "nil" keyword
}

func (x *Nil) exprNode() {}

func (x *Nil) Pos() token.Position { return x.NilPos }
func (x *Nil) End() token.Position { return x.NilPos.Advance(3) }

func (x *Nil) String() string { return "nil" }

// Bool is an expression node that holds a boolean literal.
type Bool struct {
	ValuePos token.Position // position of literal
	Literal  string         // "true" or "false"
	Value    bool           // parsed value
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }
func (x *Bool) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Bool) String() string { return x.Literal }

// String is an expression node that holds a string literal.
type String struct {
	ValuePos token.Position // position of opening quote
	Literal  string         // source text, quotes excluded
	Value    string         // unescaped value
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.ValuePos.Advance(len(x.Literal) + 2) }

func (x *String) String() string { return strconv.Quote(x.Value) }

// Func is an expression node that holds a function literal. A named function
// at statement level is a declaration and binds its name in the current scope.
type Func struct {
	Func      token.Position // position of "function" keyword
	Name      *Ident         // function name; nil for anonymous functions
	Lparen    token.Position // position of "("
	Params    []*Ident       // parameter names
	RestParam *Ident         // rest parameter (e.g., ...args); nil if none
	Rparen    token.Position // position of ")"
	Body      *Block         // function body
}

func (x *Func) exprNode() {}
func (x *Func) stmtNode() {} // named functions are also statements

func (x *Func) Pos() token.Position { return x.Func }

func (x *Func) End() token.Position {
	if x.Body != nil {
		return x.Body.End()
	}
	return x.Rparen.Advance(1)
}

func (x *Func) String() string {
	params := make([]string, 0, len(x.Params)+1)
	for _, p := range x.Params {
		params = append(params, p.Name)
	}
	if x.RestParam != nil {
		params = append(params, "..."+x.RestParam.Name)
	}
	var out bytes.Buffer
	out.WriteString("function")
	if x.Name != nil {
		out.WriteString(" ")
		out.WriteString(x.Name.Name)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(x.Body.String())
	return out.String()
}

// List is an expression node that builds a list data structure.
type List struct {
	Lbrack token.Position // position of "["
	Items  []Expr         // list elements
	Rbrack token.Position // position of "]"
}

func (x *List) exprNode() {}

func (x *List) Pos() token.Position { return x.Lbrack }
func (x *List) End() token.Position { return x.Rbrack.Advance(1) }

func (x *List) String() string {
	elements := make([]string, 0, len(x.Items))
	for _, el := range x.Items {
		elements = append(elements, el.String())
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// MapItem represents a single key-value pair in a map literal.
type MapItem struct {
	Key   Expr
	Value Expr
}

// Map is an expression node that builds a map data structure. Bare identifier
// keys are treated as string keys.
type Map struct {
	Lbrace token.Position // position of "{"
	Items  []MapItem      // ordered key-value pairs
	Rbrace token.Position // position of "}"
}

func (x *Map) exprNode() {}

func (x *Map) Pos() token.Position { return x.Lbrace }
func (x *Map) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Map) String() string {
	pairs := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		pairs = append(pairs, item.Key.String()+": "+item.Value.String())
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
