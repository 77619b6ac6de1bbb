package lexer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/risordbg/internal/token"
)

type expectedToken struct {
	expectedType    token.Type
	expectedLiteral string
}

func checkTokens(t *testing.T, input string, tests []expectedToken) {
	t.Helper()
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.Nil(t, err)
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNil(t *testing.T) {
	checkTokens(t, "a = nil;", []expectedToken{
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.NIL, "nil"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestNextToken1(t *testing.T) {
	checkTokens(t, "%=+(){},;|| &&...*=.!=<=>=", []expectedToken{
		{token.MOD, "%"},
		{token.ASSIGN, "="},
		{token.PLUS, "+"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.COMMA, ","},
		{token.SEMICOLON, ";"},
		{token.OR, "||"},
		{token.AND, "&&"},
		{token.SPREAD, "..."},
		{token.ASTERISK_EQUALS, "*="},
		{token.PERIOD, "."},
		{token.NOT_EQ, "!="},
		{token.LT_EQUALS, "<="},
		{token.GT_EQUALS, ">="},
		{token.EOF, ""},
	})
}

func TestNextToken2(t *testing.T) {
	input := `let five=5;
function add(x, y) {
  return x+y
}
for i in [1,2] { break }
import debugger as dbg
`
	checkTokens(t, input, []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "five"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.FUNCTION, "function"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.NEWLINE, "\n"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.NEWLINE, "\n"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},
		{token.FOR, "for"},
		{token.IDENT, "i"},
		{token.IN, "in"},
		{token.LBRACKET, "["},
		{token.INT, "1"},
		{token.COMMA, ","},
		{token.INT, "2"},
		{token.RBRACKET, "]"},
		{token.LBRACE, "{"},
		{token.BREAK, "break"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},
		{token.IMPORT, "import"},
		{token.IDENT, "debugger"},
		{token.AS, "as"},
		{token.IDENT, "dbg"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	})
}

func TestUnicodeLexer(t *testing.T) {
	l := New("世界")
	tok, err := l.Next()
	require.Nil(t, err)
	assert.Equal(t, token.IDENT, tok.Type)
	assert.Equal(t, "世界", tok.Literal)
}

func TestString(t *testing.T) {
	checkTokens(t, `"\n\r\t\\\"" 'it\'s' "\x41é"`, []expectedToken{
		{token.STRING, "\n\r\t\\\""},
		{token.STRING, "it's"},
		{token.STRING, "Aé"},
		{token.EOF, ""},
	})
}

func TestRawString(t *testing.T) {
	checkTokens(t, "`a\nb\\n`", []expectedToken{
		{token.STRING, "a\nb\\n"},
		{token.EOF, ""},
	})
}

func TestStringErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"\"hello\nworld\"", "unterminated string literal"},
		{"'hello", "unterminated string literal"},
		{"`open", "unterminated raw string literal"},
		{`"\q"`, `invalid escape sequence: \q`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := New(tt.input).Next()
			require.NotNil(t, err)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestComments(t *testing.T) {
	input := `=+// This is a comment
/* block
comment */let a = 1;
// final`
	checkTokens(t, input, []expectedToken{
		{token.ASSIGN, "="},
		{token.PLUS, "+"},
		{token.NEWLINE, "\n"},
		{token.LET, "let"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.INT, "1"},
		{token.SEMICOLON, ";"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	})
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := New("/* never closed").Next()
	require.NotNil(t, err)
	assert.Equal(t, "unterminated block comment", err.Error())
}

func TestNumbers(t *testing.T) {
	checkTokens(t, `10 0x10 0xFE 00101 1.5 2e3 1.5e-2;`, []expectedToken{
		{token.INT, "10"},
		{token.INT, "0x10"},
		{token.INT, "0xFE"},
		{token.INT, "00101"},
		{token.FLOAT, "1.5"},
		{token.FLOAT, "2e3"},
		{token.FLOAT, "1.5e-2"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestInvalidIntegers(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42.foo()", "invalid decimal literal: 42.f"},
		{"12ab", "invalid decimal literal: 12a"},
		{"0x1aZ", "invalid decimal literal: 0x1aZ"},
		{"078", "invalid decimal literal: 078"},
	}
	for _, tt := range tests {
		_, err := New(tt.input).Next()
		require.NotNil(t, err)
		assert.Equal(t, tt.expected, err.Error())
	}
}

// Test that the shebang-line is handled specially.
func TestShebang(t *testing.T) {
	checkTokens(t, "#!/bin/risordbg\n10;", []expectedToken{
		{token.NEWLINE, "\n"},
		{token.INT, "10"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestIllegalCharacter(t *testing.T) {
	tok, err := New("@").Next()
	require.NotNil(t, err)
	assert.Equal(t, token.ILLEGAL, tok.Type)
	assert.Equal(t, `unexpected character: '@'`, err.Error())
}

func TestLineNumbers(t *testing.T) {
	l := New("ab + cd\n foo+=111")
	l.SetFilename("main")
	tests := []struct {
		expectedType     token.Type
		expectedLiteral  string
		expectedLine     int
		expectedStartPos int
		expectedEndPos   int
	}{
		{token.IDENT, "ab", 0, 0, 1},
		{token.PLUS, "+", 0, 3, 3},
		{token.IDENT, "cd", 0, 5, 6},
		{token.NEWLINE, "\n", 0, 7, 7},
		{token.IDENT, "foo", 1, 1, 3},
		{token.PLUS_EQUALS, "+=", 1, 4, 5},
		{token.INT, "111", 1, 6, 8},
		{token.EOF, "", 1, 9, 9},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			tok, err := l.Next()
			require.Nil(t, err)
			assert.Equal(t, tt.expectedType, tok.Type)
			assert.Equal(t, tt.expectedLiteral, tok.Literal)
			assert.Equal(t, tt.expectedLine, tok.StartPosition.Line)
			assert.Equal(t, tt.expectedStartPos, tok.StartPosition.Column)
			assert.Equal(t, tt.expectedEndPos, tok.EndPosition.Column)
			assert.Equal(t, "main", tok.StartPosition.File)
		})
	}
}

func TestTokens(t *testing.T) {
	tokens, err := New("a.b(1)").Tokens()
	require.Nil(t, err)
	require.Len(t, tokens, 7)
	assert.Equal(t, token.EOF, tokens[6].Type)
}

func TestLineText(t *testing.T) {
	l := New("let a = 1\r\nlet b = a + 2\nb")
	var last token.Token
	for {
		tok, err := l.Next()
		require.Nil(t, err)
		if tok.Type == token.PLUS {
			last = tok
			break
		}
	}
	assert.Equal(t, "let b = a + 2", l.LineText(last))
	assert.Equal(t, 2, last.StartPosition.LineNumber())
}
