package token

import "fmt"

type Kind int

const (
	EOF Kind = iota
	INVALID

	ID      // foo
	KEYWORD // module, import, let, ...

	// Operator tokens keep their full spelling in the lexeme: "&&", "**", "="
	OPERATOR
	// Special tokens are single punctuation characters: ( ) [ ] { } ; , . : @
	SPECIAL

	LITERAL_START // literal kind start delimiter
	INT_LIT
	FLOAT_LIT
	CHAR_LIT
	STRING_LIT
	LITERAL_END // literal kind end delimiter
)

var KEYWORDS map[string]bool = map[string]bool{
	"module": true,
	"import": true,
	"let":    true,
	"mut":    true,
	"fn":     true,
	"cr":     true,
}

// Characters lexed as SPECIAL tokens
const SPECIALS = "()[]{};,.:@"

// Characters that may be combined into a single OPERATOR token
const OPERATORS = "+-*/%&|^!=<>~?"

func (kind Kind) IsLiteral() bool {
	return kind > LITERAL_START && kind < LITERAL_END
}

func (kind Kind) String() string {
	switch kind {
	case EOF:
		return "end of file"
	case INVALID:
		return "INVALID"
	case ID:
		return "identifier"
	case KEYWORD:
		return "keyword"
	case OPERATOR:
		return "operator"
	case SPECIAL:
		return "special"
	case INT_LIT:
		return "integer literal"
	case FLOAT_LIT:
		return "float literal"
	case CHAR_LIT:
		return "char literal"
	case STRING_LIT:
		return "string literal"
	default:
		return fmt.Sprintf("Kind(%d)", int(kind))
	}
}
