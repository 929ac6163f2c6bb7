package lexer

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

const eof = '\000'

// Multi-character operators, longest first within each length.
var compoundOperators = []string{
	"<<=", ">>=",
	"&&", "||", "**", "^^", "==", "!=", "<=", ">=", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "++", "--", "->", "=>",
}

type Lexer struct {
	Collector *diagnostics.Collector

	src    []byte
	offset int
	pos    token.Pos
}

func New(filename string, src []byte, collector *diagnostics.Collector) *Lexer {
	lexer := new(Lexer)

	lexer.Collector = collector
	lexer.pos = token.NewPosition(filename, 1, 1)
	lexer.src = src
	lexer.offset = 0

	return lexer
}

func NewFromFilePath(path string, collector *diagnostics.Collector) (*Lexer, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, src, collector), nil
}

func (lex *Lexer) Filename() string { return lex.pos.Filename }

func (lex *Lexer) Peek() *token.Token {
	prevPos := lex.pos
	prevOffset := lex.offset

	tok := lex.Next()

	lex.pos = prevPos
	lex.offset = prevOffset
	return tok
}

func (lex *Lexer) Next() *token.Token {
	for {
		lex.skipWhitespace()
		if !lex.skipComment() {
			break
		}
	}

	tok := &token.Token{Kind: token.INVALID, Pos: lex.pos}

	character := lex.peekChar()
	if character == eof {
		tok.Kind = token.EOF
		return tok
	}

	lex.getToken(tok, character)
	return tok
}

// Tokenize lexes the whole input. The returned slice does not end with an EOF
// token. Invalid characters are reported and dropped so the parser still
// receives the rest of the stream.
func (lex *Lexer) Tokenize() ([]*token.Token, error) {
	var tokens []*token.Token
	var err error
	for {
		tok := lex.Next()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.INVALID {
			err = diagnostics.ErrCompilerErrorFound
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, err
}

func (lex *Lexer) getToken(tok *token.Token, ch byte) {
	switch {
	case isSpecial(ch):
		lex.nextChar()
		tok.Kind = token.SPECIAL
		tok.Lexeme = string(ch)
	case isOperator(ch):
		lex.getOperator(tok)
	case ch == '"':
		lex.getQuoted(tok, '"', token.STRING_LIT)
	case ch == '\'':
		lex.getQuoted(tok, '\'', token.CHAR_LIT)
	case ch >= '0' && ch <= '9':
		lex.getNumberLit(tok)
	case unicode.IsLetter(rune(ch)) || ch == '_':
		lex.getIdOrKeyword(tok)
	default:
		lex.nextChar()
		lex.Collector.Report(diagnostics.New(
			tok.Pos,
			diagnostics.INVALID_CHARACTER,
			fmt.Sprintf("invalid character %q", ch),
		))
	}
}

func (lex *Lexer) getOperator(tok *token.Token) {
	tok.Kind = token.OPERATOR
	rest := lex.src[lex.offset:]
	for _, op := range compoundOperators {
		if len(rest) >= len(op) && string(rest[:len(op)]) == op {
			for range op {
				lex.nextChar()
			}
			tok.Lexeme = op
			return
		}
	}
	tok.Lexeme = string(lex.nextChar())
}

func (lex *Lexer) getQuoted(tok *token.Token, quote byte, kind token.Kind) {
	lex.nextChar() // opening quote

	var str []byte
	for {
		ch := lex.peekChar()
		if ch == eof || ch == quote || ch == '\n' {
			break
		}

		if ch == '\\' {
			lex.nextChar()
			switch esc := lex.peekChar(); esc {
			case 'n':
				str = append(str, '\n')
			case 't':
				str = append(str, '\t')
			case '0':
				str = append(str, 0)
			case eof:
				continue
			default:
				str = append(str, esc)
			}
		} else {
			str = append(str, ch)
		}

		lex.nextChar()
	}

	if lex.peekChar() != quote {
		lex.Collector.Report(diagnostics.New(
			tok.Pos,
			diagnostics.UNTERMINATED_LITERAL,
			fmt.Sprintf("unterminated %s", kind),
		))
		return
	}
	lex.nextChar()

	tok.Kind = kind
	tok.Lexeme = string(str)
}

func (lex *Lexer) getNumberLit(tok *token.Token) {
	tok.Kind = token.INT_LIT
	number := lex.readWhile(func(ch byte) bool { return (ch >= '0' && ch <= '9') || ch == '_' })

	// "1.5" is a float, "a.1.b" stays a path
	if lex.peekChar() == '.' && isDigit(lex.peekCharN(1)) {
		lex.nextChar()
		fraction := lex.readWhile(func(ch byte) bool { return (ch >= '0' && ch <= '9') || ch == '_' })
		number = append(append(number, '.'), fraction...)
		tok.Kind = token.FLOAT_LIT
	}

	tok.Lexeme = string(number)
}

func (lex *Lexer) getIdOrKeyword(tok *token.Token) {
	identifier := lex.readWhile(
		func(ch byte) bool { return unicode.IsNumber(rune(ch)) || unicode.IsLetter(rune(ch)) || ch == '_' },
	)
	tok.Kind = token.ID
	tok.Lexeme = string(identifier)
	if token.KEYWORDS[tok.Lexeme] {
		tok.Kind = token.KEYWORD
	}
}

func (lex *Lexer) skipWhitespace() {
	lex.readWhile(func(ch byte) bool {
		return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
	})
}

// skipComment skips "# ..." line comments and "#= ... =#" block comments.
func (lex *Lexer) skipComment() bool {
	if lex.peekChar() != '#' {
		return false
	}
	lex.nextChar()
	if lex.peekChar() == '=' {
		lex.nextChar()
		for {
			ch := lex.peekChar()
			if ch == eof {
				return true
			}
			lex.nextChar()
			if ch == '=' && lex.peekChar() == '#' {
				lex.nextChar()
				return true
			}
		}
	}
	lex.readWhile(func(ch byte) bool { return ch != '\n' })
	return true
}

func (lex *Lexer) readWhile(isValid func(byte) bool) []byte {
	start := lex.offset
	for {
		character := lex.peekChar()
		if character == eof || !isValid(character) {
			break
		}
		lex.nextChar()
	}
	return lex.src[start:lex.offset]
}

func (lex *Lexer) nextChar() byte {
	if lex.offset >= len(lex.src) {
		return eof
	}
	character := lex.src[lex.offset]
	lex.pos.Move(character)
	lex.offset++
	return character
}

func (lex *Lexer) peekChar() byte {
	return lex.peekCharN(0)
}

func (lex *Lexer) peekCharN(n int) byte {
	if lex.offset+n >= len(lex.src) {
		return eof
	}
	return lex.src[lex.offset+n]
}

func isSpecial(ch byte) bool  { return strings.IndexByte(token.SPECIALS, ch) >= 0 }
func isOperator(ch byte) bool { return strings.IndexByte(token.OPERATORS, ch) >= 0 }

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// Lex is a shorthand for New(...).Tokenize() with a fresh collector.
func Lex(filename, src string) ([]*token.Token, []*diagnostics.Diag) {
	collector := diagnostics.NewCollector()
	toks, _ := New(filename, []byte(src), collector).Tokenize()
	return toks, collector.Diags
}
