package parser

import "github.com/risor-io/risordbg/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == or !=
	LESSGREATER // > or <
	SUM         // + or -
	PRODUCT     // * or / or %
	PREFIX      // -X or !X
	CALL        // myFunction(X)
	INDEX       // array[index], map[key], obj.attr
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.OR:        OR,
	token.AND:       AND,
	token.EQ:        EQUALS,
	token.NOT_EQ:    EQUALS,
	token.LT:        LESSGREATER,
	token.LT_EQUALS: LESSGREATER,
	token.GT:        LESSGREATER,
	token.GT_EQUALS: LESSGREATER,
	token.PLUS:      SUM,
	token.MINUS:     SUM,
	token.SLASH:     PRODUCT,
	token.ASTERISK:  PRODUCT,
	token.MOD:       PRODUCT,
	token.LPAREN:    CALL,
	token.PERIOD:    INDEX,
	token.LBRACKET:  INDEX,
}

// assignOperators maps assignment tokens to their operator text.
var assignOperators = map[token.Type]string{
	token.ASSIGN:          "=",
	token.PLUS_EQUALS:     "+=",
	token.MINUS_EQUALS:    "-=",
	token.ASTERISK_EQUALS: "*=",
	token.SLASH_EQUALS:    "/=",
}
