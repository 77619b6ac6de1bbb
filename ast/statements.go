package ast

import (
	"bytes"

	"github.com/risor-io/risordbg/internal/token"
)

// Var is a statement node that declares a variable with "let".
type Var struct {
	Let   token.Position // position of "let" keyword
	Name  *Ident         // variable name
	Value Expr           // initial value; nil declares the variable as nil
}

func (x *Var) stmtNode() {}

func (x *Var) Pos() token.Position { return x.Let }
func (x *Var) End() token.Position {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.Name.End()
}

func (x *Var) String() string {
	if x.Value == nil {
		return "let " + x.Name.Name
	}
	return "let " + x.Name.Name + " = " + x.Value.String()
}

// Const is a statement node that declares a constant.
type Const struct {
	Const token.Position // position of "const" keyword
	Name  *Ident         // constant name
	Value Expr           // constant value
}

func (x *Const) stmtNode() {}

func (x *Const) Pos() token.Position { return x.Const }
func (x *Const) End() token.Position { return x.Value.End() }

func (x *Const) String() string {
	return "const " + x.Name.Name + " = " + x.Value.String()
}

// Assign is a statement node that updates a variable, a list element, a map
// entry or a module attribute. Op is "=" or a compound operator like "+=".
type Assign struct {
	Target Expr           // *Ident, *Index or *GetAttr
	OpPos  token.Position // position of operator
	Op     string         // "=", "+=", "-=", "*=", "/="
	Value  Expr           // right-hand side
}

func (x *Assign) stmtNode() {}

func (x *Assign) Pos() token.Position { return x.Target.Pos() }
func (x *Assign) End() token.Position { return x.Value.End() }

func (x *Assign) String() string {
	return x.Target.String() + " " + x.Op + " " + x.Value.String()
}

// ExprStmt is a statement consisting of a single expression, typically a call.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) stmtNode() {}

func (x *ExprStmt) Pos() token.Position { return x.X.Pos() }
func (x *ExprStmt) End() token.Position { return x.X.End() }

func (x *ExprStmt) String() string { return x.X.String() }

// Return is a statement node that returns from the current function.
type Return struct {
	Return token.Position // position of "return" keyword
	Value  Expr           // return value; nil for bare return
}

func (x *Return) stmtNode() {}

func (x *Return) Pos() token.Position { return x.Return }
func (x *Return) End() token.Position {
	if x.Value != nil {
		return x.Value.End()
	}
	return x.Return.Advance(6)
}

func (x *Return) String() string {
	if x.Value == nil {
		return "return"
	}
	return "return " + x.Value.String()
}

// Control is a statement node for "break" and "continue".
type Control struct {
	Keyword token.Position // position of keyword
	Tok     token.Type     // token.BREAK or token.CONTINUE
}

func (x *Control) stmtNode() {}

func (x *Control) Pos() token.Position { return x.Keyword }
func (x *Control) End() token.Position { return x.Keyword.Advance(len(x.keyword())) }

func (x *Control) keyword() string {
	if x.Tok == token.BREAK {
		return "break"
	}
	return "continue"
}

func (x *Control) String() string { return x.keyword() }

// Import is a statement node that binds a registered module to a name.
type Import struct {
	ImportPos token.Position // position of "import" keyword
	Name      *Ident         // module name
	Alias     *Ident         // alias; nil binds the module name
}

func (x *Import) stmtNode() {}

func (x *Import) Pos() token.Position { return x.ImportPos }
func (x *Import) End() token.Position {
	if x.Alias != nil {
		return x.Alias.End()
	}
	return x.Name.End()
}

func (x *Import) String() string {
	if x.Alias != nil {
		return "import " + x.Name.Name + " as " + x.Alias.Name
	}
	return "import " + x.Name.Name
}

// Block is a brace-delimited list of statements with its own scope.
type Block struct {
	Lbrace token.Position // position of "{"
	Stmts  []Stmt         // statements in the block
	Rbrace token.Position // position of "}"
}

func (x *Block) stmtNode() {}

func (x *Block) Pos() token.Position { return x.Lbrace }
func (x *Block) End() token.Position { return x.Rbrace.Advance(1) }

func (x *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for i, s := range x.Stmts {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

// If is a statement node with an optional else branch. An "else if" chain is
// represented by an Alternative block holding a single nested If.
type If struct {
	If          token.Position // position of "if" keyword
	Cond        Expr           // condition
	Consequence *Block         // then branch
	Alternative *Block         // else branch; nil if no else
}

func (x *If) stmtNode() {}

func (x *If) Pos() token.Position { return x.If }
func (x *If) End() token.Position {
	if x.Alternative != nil {
		return x.Alternative.End()
	}
	return x.Consequence.End()
}

func (x *If) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(x.Cond.String())
	out.WriteString(" ")
	out.WriteString(x.Consequence.String())
	if x.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(x.Alternative.String())
	}
	return out.String()
}

// For is a loop statement. It takes one of three forms:
//
//	for cond { ... }
//	for init; cond; post { ... }
//	for name in iterable { ... }
//
// A loop with no condition runs until it breaks or returns.
type For struct {
	For      token.Position // position of "for" keyword
	Init     Stmt           // C-style initializer; nil otherwise
	Cond     Expr           // loop condition; nil for infinite and range loops
	Post     Stmt           // C-style post statement; nil otherwise
	Name     *Ident         // range variable; nil unless a range loop
	Iterable Expr           // range expression; nil unless a range loop
	Body     *Block         // loop body
}

func (x *For) stmtNode() {}

func (x *For) Pos() token.Position { return x.For }
func (x *For) End() token.Position { return x.Body.End() }

// IsRange returns true for "for name in iterable" loops.
func (x *For) IsRange() bool { return x.Iterable != nil }

func (x *For) String() string {
	var out bytes.Buffer
	out.WriteString("for ")
	switch {
	case x.IsRange():
		out.WriteString(x.Name.Name + " in " + x.Iterable.String() + " ")
	case x.Init != nil || x.Post != nil:
		if x.Init != nil {
			out.WriteString(x.Init.String())
		}
		out.WriteString("; ")
		if x.Cond != nil {
			out.WriteString(x.Cond.String())
		}
		out.WriteString("; ")
		if x.Post != nil {
			out.WriteString(x.Post.String())
		}
		out.WriteString(" ")
	case x.Cond != nil:
		out.WriteString(x.Cond.String() + " ")
	}
	out.WriteString(x.Body.String())
	return out.String()
}
