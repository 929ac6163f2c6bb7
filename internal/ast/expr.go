package ast

import (
	"strconv"
	"strings"

	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

// Expr is an unparsed expression: the token span between its start and the
// terminator. Later phases own the real expression grammar.
type Expr struct {
	Pos    token.Pos
	Tokens []*token.Token
}

func (expr *Expr) IsEmpty() bool {
	return expr == nil || len(expr.Tokens) == 0
}

// IntValue reports the value of an expression made of one integer literal.
func (expr *Expr) IntValue() (uint64, bool) {
	if expr == nil || len(expr.Tokens) != 1 || expr.Tokens[0].Kind != token.INT_LIT {
		return 0, false
	}
	value, err := strconv.ParseUint(strings.ReplaceAll(expr.Tokens[0].Lexeme, "_", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func (expr *Expr) String() string {
	if expr == nil {
		return ""
	}
	parts := make([]string, len(expr.Tokens))
	for i, tok := range expr.Tokens {
		switch tok.Kind {
		case token.STRING_LIT:
			parts[i] = quote(tok.Lexeme, '"')
		case token.CHAR_LIT:
			parts[i] = quote(tok.Lexeme, '\'')
		default:
			parts[i] = tok.Lexeme
		}
	}
	return strings.Join(parts, " ")
}

// quote writes a literal back with the escapes the lexer reads.
func quote(lit string, q byte) string {
	var sb strings.Builder
	sb.WriteByte(q)
	for i := 0; i < len(lit); i++ {
		switch ch := lit[i]; ch {
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		case '\\', q:
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		default:
			sb.WriteByte(ch)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}
