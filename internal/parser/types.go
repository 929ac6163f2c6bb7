package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

// Widest integer LLVM can represent.
const MaxIntBits = 1 << 23

// ParseType parses a type expression: a dotted base name followed by any
// number of postfix modifiers (& && * ** ^ ^^ [] [expr]). A nil type means
// the spelling was a malformed primitive and no type may be assumed.
func ParseType(toks []*token.Token, terminators string) (*ast.ParsedType, int, []*diagnostics.Diag) {
	if len(toks) == 0 {
		return nil, 1, []*diagnostics.Diag{
			diagnostics.New(token.Pos{}, diagnostics.EXPECTED_TYPE, "expected a type"),
		}
	}

	var name ast.DottedName
	var lastWasPeriod bool

	first := toks[0]
	switch {
	case first.IsSpecial('.'):
		name.Global = true
		lastWasPeriod = true
	case first.Kind == token.ID:
		name.Push(first.Lexeme, first.Pos)
	default:
		return nil, 2, []*diagnostics.Diag{
			diagnostics.New(first.Pos, diagnostics.EXPECTED_TYPE, "expected a type").
				Note(first.Pos, fmt.Sprintf("got %s", first)),
		}
	}

	var diags []*diagnostics.Diag
	idx := 1

	for idx < len(toks) {
		tok := toks[idx]
		if isTerminator(tok, terminators) || startsModifier(tok) {
			break
		}

		switch {
		case tok.IsSpecial('.'):
			if lastWasPeriod {
				diags = append(diags, consecutivePeriods(tok))
			}
			lastWasPeriod = true
			idx++
		case tok.Kind == token.ID:
			if !lastWasPeriod {
				diags = append(diags, consecutiveIdentifiers(tok))
			}
			name.Push(tok.Lexeme, tok.Pos)
			lastWasPeriod = false
			idx++
		default:
			diags = append(diags, diagnostics.New(
				tok.Pos,
				diagnostics.UNEXPECTED_IN_IDENT,
				fmt.Sprintf("unexpected token %s in type", tok),
			))
			out, diag := baseType(name, first.Pos)
			if diag != nil {
				diags = append(diags, diag)
			}
			return out, idx + 1, diags
		}
	}

	out, diag := baseType(name, first.Pos)
	if diag != nil {
		return nil, idx + 1, append(diags, diag)
	}

	for idx < len(toks) {
		tok := toks[idx]
		if isTerminator(tok, terminators) {
			break
		}

		if tok.Kind == token.OPERATOR {
			wrapped, ok := wrap(out, tok.Lexeme)
			if !ok {
				diags = append(diags, unexpectedInTypeName(tok))
				break
			}
			out = wrapped
			idx++
			continue
		}

		if !tok.IsSpecial('[') {
			diags = append(diags, unexpectedInTypeName(tok))
			break
		}

		if idx+1 == len(toks) {
			diags = append(diags, diagnostics.New(tok.Pos, diagnostics.UNMATCHED_OPEN_BRACK, "unmatched '['"))
			idx++
			break
		}
		if toks[idx+1].IsSpecial(']') {
			out = ast.NewUnsizedArrayType(out)
			idx += 2
			continue
		}

		size, n, es := ParseExpr(toks[idx+1:], "]")
		diags = append(diags, es...)
		closing := idx + n
		if closing >= len(toks) {
			diags = append(diags, diagnostics.New(tok.Pos, diagnostics.UNMATCHED_OPEN_BRACK, "unmatched '['"))
			idx = len(toks)
			break
		}
		out = ast.NewSizedArrayType(out, size)
		idx = closing + 1
	}

	return out, idx + 1, diags
}

func startsModifier(tok *token.Token) bool {
	if tok.IsSpecial('[') {
		return true
	}
	return tok.Kind == token.OPERATOR && strings.ContainsRune("&*^", rune(tok.Lexeme[0]))
}

func wrap(ty *ast.ParsedType, op string) (*ast.ParsedType, bool) {
	switch op {
	case "&":
		return ast.NewReferenceType(ty), true
	case "&&":
		return ast.NewReferenceType(ast.NewReferenceType(ty)), true
	case "*":
		return ast.NewPointerType(ty), true
	case "**":
		return ast.NewPointerType(ast.NewPointerType(ty)), true
	case "^":
		return ast.NewBorrowType(ty), true
	case "^^":
		return ast.NewBorrowType(ast.NewBorrowType(ty)), true
	}
	return nil, false
}

// baseType recognizes primitive spellings. Only a single, non-global segment
// can name a primitive; everything else is a named type.
func baseType(name ast.DottedName, pos token.Pos) (*ast.ParsedType, *diagnostics.Diag) {
	if name.Global || len(name.Ids) != 1 {
		return ast.NewNamedType(name), nil
	}

	id := name.Ids[0]
	switch id {
	case "isize":
		return ast.NewPrimitiveType(ast.TYPE_ISIZE), nil
	case "usize":
		return ast.NewPrimitiveType(ast.TYPE_USIZE), nil
	case "f16":
		return ast.NewPrimitiveType(ast.TYPE_F16), nil
	case "f32":
		return ast.NewPrimitiveType(ast.TYPE_F32), nil
	case "f64":
		return ast.NewPrimitiveType(ast.TYPE_F64), nil
	case "f128":
		return ast.NewPrimitiveType(ast.TYPE_F128), nil
	case "null":
		return ast.NewPrimitiveType(ast.TYPE_NULL), nil
	}

	if len(id) < 2 || (id[0] != 'i' && id[0] != 'u') || !allDigits(id[1:]) {
		return ast.NewNamedType(name), nil
	}

	bits, err := strconv.ParseUint(id[1:], 10, 64)
	if err == nil && (bits == 0 || bits > MaxIntBits) {
		err = fmt.Errorf("bit width must be between 1 and %d", MaxIntBits)
	}
	if err != nil {
		return nil, diagnostics.New(
			pos,
			diagnostics.INVALID_INT_WIDTH,
			fmt.Sprintf("error when parsing integral type: %s", err),
		)
	}

	if id[0] == 'u' {
		return ast.NewUIntType(bits), nil
	}
	return ast.NewIntType(bits), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func unexpectedInTypeName(tok *token.Token) *diagnostics.Diag {
	return diagnostics.New(tok.Pos, diagnostics.UNEXPECTED_IN_TYPE, fmt.Sprintf("unexpected token %s in type name", tok))
}
