// Package lexer converts source text into a stream of tokens.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/risor-io/risordbg/internal/token"
)

// Lexer holds our object-state.
type Lexer struct {
	input     string
	position  int  // byte offset of the current rune
	next      int  // byte offset of the next rune
	ch        rune // current rune, 0 at end of input
	line      int
	column    int
	lineStart int
	file      string
}

// New creates a Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input, column: -1}
	l.readChar()
	return l
}

// SetFilename sets the filename attached to every token position.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the filename attached to token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// Next returns the next token from the input. At the end of input an EOF
// token is returned repeatedly.
func (l *Lexer) Next() (token.Token, error) {
	// Skip the shebang line, keeping its newline.
	if l.position == 0 && strings.HasPrefix(l.input, "#!") {
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
	}
	for {
		l.skipWhitespace()
		if l.ch == '/' && l.peekChar() == '/' {
			l.skipLineComment()
			continue
		}
		if l.ch == '/' && l.peekChar() == '*' {
			if err := l.skipBlockComment(); err != nil {
				return l.newToken(token.ILLEGAL, ""), err
			}
			continue
		}
		break
	}

	start := l.pos()
	var tok token.Token
	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, StartPosition: start, EndPosition: start}, nil
	case '\n':
		tok = l.newToken(token.NEWLINE, "\n")
	case '=':
		tok = l.either('=', token.EQ, token.ASSIGN)
	case '!':
		tok = l.either('=', token.NOT_EQ, token.BANG)
	case '<':
		tok = l.either('=', token.LT_EQUALS, token.LT)
	case '>':
		tok = l.either('=', token.GT_EQUALS, token.GT)
	case '+':
		tok = l.either('=', token.PLUS_EQUALS, token.PLUS)
	case '-':
		tok = l.either('=', token.MINUS_EQUALS, token.MINUS)
	case '*':
		tok = l.either('=', token.ASTERISK_EQUALS, token.ASTERISK)
	case '/':
		tok = l.either('=', token.SLASH_EQUALS, token.SLASH)
	case '%':
		tok = l.newToken(token.MOD, "%")
	case '&':
		if l.peekChar() != '&' {
			return l.newToken(token.ILLEGAL, "&"), fmt.Errorf("unexpected character: %q", l.ch)
		}
		l.readChar()
		tok = l.tokenFrom(start, token.AND, "&&")
	case '|':
		if l.peekChar() != '|' {
			return l.newToken(token.ILLEGAL, "|"), fmt.Errorf("unexpected character: %q", l.ch)
		}
		l.readChar()
		tok = l.tokenFrom(start, token.OR, "||")
	case '.':
		if l.peekChar() == '.' && l.peekCharAt(1) == '.' {
			l.readChar()
			l.readChar()
			tok = l.tokenFrom(start, token.SPREAD, "...")
		} else {
			tok = l.newToken(token.PERIOD, ".")
		}
	case ',':
		tok = l.newToken(token.COMMA, ",")
	case ';':
		tok = l.newToken(token.SEMICOLON, ";")
	case ':':
		tok = l.newToken(token.COLON, ":")
	case '(':
		tok = l.newToken(token.LPAREN, "(")
	case ')':
		tok = l.newToken(token.RPAREN, ")")
	case '{':
		tok = l.newToken(token.LBRACE, "{")
	case '}':
		tok = l.newToken(token.RBRACE, "}")
	case '[':
		tok = l.newToken(token.LBRACKET, "[")
	case ']':
		tok = l.newToken(token.RBRACKET, "]")
	case '"', '\'':
		s, err := l.readString(l.ch)
		if err != nil {
			return l.tokenFrom(start, token.ILLEGAL, s), err
		}
		tok = l.tokenFrom(start, token.STRING, s)
	case '`':
		s, err := l.readRawString()
		if err != nil {
			return l.tokenFrom(start, token.ILLEGAL, s), err
		}
		tok = l.tokenFrom(start, token.STRING, s)
	default:
		if isDigit(l.ch) {
			return l.readNumber(start)
		}
		if isIdentifierStart(l.ch) {
			ident := l.readIdentifier()
			return l.tokenTo(start, token.LookupIdentifier(ident), ident), nil
		}
		ch := l.ch
		tok = l.newToken(token.ILLEGAL, string(ch))
		l.readChar()
		return tok, fmt.Errorf("unexpected character: %q", ch)
	}
	l.readChar()
	return tok, nil
}

// Tokens lexes the whole input, stopping at the first error.
func (l *Lexer) Tokens() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = -1
		l.lineStart = l.next
	}
	l.position = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		l.column++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
	l.column++
}

func (l *Lexer) peekChar() rune {
	return l.peekCharAt(0)
}

func (l *Lexer) peekCharAt(n int) rune {
	offset := l.next
	for i := 0; i <= n; i++ {
		if offset >= len(l.input) {
			return 0
		}
		r, size := utf8.DecodeRuneInString(l.input[offset:])
		if i == n {
			return r
		}
		offset += size
	}
	return 0
}

func (l *Lexer) pos() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.column,
		File:      l.file,
	}
}

// newToken builds a single character token at the current position.
func (l *Lexer) newToken(typ token.Type, literal string) token.Token {
	p := l.pos()
	return token.Token{Type: typ, Literal: literal, StartPosition: p, EndPosition: p}
}

// tokenFrom builds a token ending at the current rune.
func (l *Lexer) tokenFrom(start token.Position, typ token.Type, literal string) token.Token {
	return token.Token{Type: typ, Literal: literal, StartPosition: start, EndPosition: l.pos()}
}

// tokenTo builds a token ending just before the current rune, for tokens
// whose reader already advanced past their last character.
func (l *Lexer) tokenTo(start token.Position, typ token.Type, literal string) token.Token {
	end := l.pos()
	end.Column--
	end.Char--
	return token.Token{Type: typ, Literal: literal, StartPosition: start, EndPosition: end}
}

func (l *Lexer) either(next rune, two, one token.Type) token.Token {
	if l.peekChar() == next {
		start := l.pos()
		first := l.ch
		l.readChar()
		return l.tokenFrom(start, two, string(first)+string(next))
	}
	return l.newToken(one, string(l.ch))
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func (l *Lexer) skipBlockComment() error {
	l.readChar() // '/'
	l.readChar() // '*'
	for {
		if l.ch == 0 {
			return errors.New("unterminated block comment")
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return nil
		}
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentifierStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	begin := l.position
	isHex := l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X')
	if isHex {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) {
			l.readChar()
		}
		if isIdentifierStart(l.ch) {
			l.readChar()
			literal := l.input[begin:l.position]
			return l.tokenTo(start, token.ILLEGAL, literal), fmt.Errorf("invalid decimal literal: %s", literal)
		}
		literal := l.input[begin:l.position]
		return l.tokenTo(start, token.INT, literal), nil
	}
	isFloat := false
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	} else if l.ch == '.' && isIdentifierStart(l.peekChar()) {
		l.readChar()
		l.readChar()
		literal := l.input[begin:l.position]
		return l.tokenTo(start, token.ILLEGAL, literal), fmt.Errorf("invalid decimal literal: %s", literal)
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	if isIdentifierStart(l.ch) {
		l.readChar()
		literal := l.input[begin:l.position]
		return l.tokenTo(start, token.ILLEGAL, literal), fmt.Errorf("invalid decimal literal: %s", literal)
	}
	literal := l.input[begin:l.position]
	if isFloat {
		return l.tokenTo(start, token.FLOAT, literal), nil
	}
	// Leading zeros denote octal, as in Go.
	if len(literal) > 1 && literal[0] == '0' {
		if _, err := strconv.ParseInt(literal, 8, 64); err != nil {
			return l.tokenTo(start, token.ILLEGAL, literal), fmt.Errorf("invalid decimal literal: %s", literal)
		}
	}
	return l.tokenTo(start, token.INT, literal), nil
}

func (l *Lexer) readString(quote rune) (string, error) {
	var out strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case 0, '\n':
			return out.String(), errors.New("unterminated string literal")
		case quote:
			return out.String(), nil
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case '0':
				out.WriteByte(0)
			case '\\', '"', '\'':
				out.WriteRune(l.ch)
			case 'x':
				r, err := l.readHexEscape(2)
				if err != nil {
					return out.String(), err
				}
				out.WriteByte(byte(r))
			case 'u':
				r, err := l.readHexEscape(4)
				if err != nil {
					return out.String(), err
				}
				out.WriteRune(r)
			default:
				return out.String(), fmt.Errorf("invalid escape sequence: \\%c", l.ch)
			}
		default:
			out.WriteRune(l.ch)
		}
	}
}

func (l *Lexer) readHexEscape(digits int) (rune, error) {
	var value rune
	for i := 0; i < digits; i++ {
		l.readChar()
		if !isHexDigit(l.ch) {
			return 0, errors.New("invalid hex escape sequence")
		}
		n, _ := strconv.ParseUint(string(l.ch), 16, 8)
		value = value*16 + rune(n)
	}
	return value, nil
}

func (l *Lexer) readRawString() (string, error) {
	start := l.next
	for {
		l.readChar()
		if l.ch == 0 {
			return l.input[start:l.position], errors.New("unterminated raw string literal")
		}
		if l.ch == '`' {
			return l.input[start:l.position], nil
		}
	}
}

func isIdentifierStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

// LineText returns the full text of the source line holding the given token,
// without its trailing newline.
func (l *Lexer) LineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start < 0 || start > len(l.input) {
		return ""
	}
	rest := l.input[start:]
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSuffix(rest, "\r")
}
