package token

import "fmt"

type Token struct {
	Lexeme string
	Kind   Kind
	Pos    Pos
}

func New(lexeme string, kind Kind, position Pos) *Token {
	return &Token{Lexeme: lexeme, Kind: kind, Pos: position}
}

// IsSpecial reports whether the token is the special character ch.
func (tok *Token) IsSpecial(ch byte) bool {
	return tok.Kind == SPECIAL && len(tok.Lexeme) == 1 && tok.Lexeme[0] == ch
}

func (tok *Token) IsOperator(op string) bool {
	return tok.Kind == OPERATOR && tok.Lexeme == op
}

func (tok *Token) IsKeyword(kw string) bool {
	return tok.Kind == KEYWORD && tok.Lexeme == kw
}

func (tok *Token) Name() string {
	if tok.Kind == ID {
		return tok.Lexeme
	}
	return tok.String()
}

// String renders the token the way diagnostics quote it, e.g. Special('{').
func (tok *Token) String() string {
	switch tok.Kind {
	case ID:
		return fmt.Sprintf("Identifier(%q)", tok.Lexeme)
	case KEYWORD:
		return fmt.Sprintf("Keyword(%q)", tok.Lexeme)
	case OPERATOR:
		return fmt.Sprintf("Operator(%q)", tok.Lexeme)
	case SPECIAL:
		return fmt.Sprintf("Special('%s')", tok.Lexeme)
	case INT_LIT:
		return fmt.Sprintf("Int(%s)", tok.Lexeme)
	case FLOAT_LIT:
		return fmt.Sprintf("Float(%s)", tok.Lexeme)
	case CHAR_LIT:
		return fmt.Sprintf("Char(%q)", tok.Lexeme)
	case STRING_LIT:
		return fmt.Sprintf("Str(%q)", tok.Lexeme)
	default:
		return tok.Kind.String()
	}
}
