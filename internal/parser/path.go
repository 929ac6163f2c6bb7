// Package parser turns token slices into names, import paths, types and
// top-level declarations.
//
// Every parse function returns how many tokens it consumed, counting the
// terminator it stopped at: if the function was handed toks[k+1:], the
// terminator sits at toks[k+consumed]. When the input runs out first,
// consumed is len(input)+1, so the terminator index equals len(toks).
package parser

import (
	"fmt"
	"strings"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

// ParsePath parses a plain dotted name such as "a.b.c" or ".a.b". It stops,
// without consuming, at a special character listed in terminators, or at a
// keyword or operator whose whole spelling is one of those characters.
func ParsePath(toks []*token.Token, terminators string) (ast.DottedName, int, []*diagnostics.Diag) {
	if len(toks) == 0 {
		return ast.LocalName(""), 1, []*diagnostics.Diag{expectedIdentifier(token.Pos{})}
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
		return ast.LocalName(""), 2, []*diagnostics.Diag{unexpectedInIdentifier(first)}
	}

	var diags []*diagnostics.Diag
	idx := 1

	for idx < len(toks) {
		tok := toks[idx]
		if isTerminator(tok, terminators) {
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
			diags = append(diags, unexpectedInIdentifier(tok))
			return name, idx + 1, diags
		}
	}

	if len(name.Ids) == 0 {
		diags = append(diags, missingIdentifier(toks, idx))
	}
	return name, idx + 1, diags
}

// ParsePaths parses an import path. Besides identifiers it accepts '*'
// wildcards: after a period a '*' starts a bare glob segment, otherwise it
// turns the previous segment into a glob ("foo.ba*"). The path ends at ';',
// and additionally at ',' or '}' when isNested is set.
func ParsePaths(toks []*token.Token, isNested bool) (ast.CompoundDottedName, int, []*diagnostics.Diag) {
	if len(toks) == 0 {
		return ast.NewCompoundDottedName(false, ast.Identifier("")), 1, []*diagnostics.Diag{expectedIdentifier(token.Pos{})}
	}

	var name ast.CompoundDottedName
	var lastWasPeriod bool

	first := toks[0]
	switch {
	case first.IsSpecial('.'):
		name.Global = true
		lastWasPeriod = true
	case first.Kind == token.ID:
		name.Ids = append(name.Ids, ast.Segment{Kind: ast.SEGMENT_IDENTIFIER, Name: first.Lexeme, Pos: first.Pos})
	default:
		return ast.NewCompoundDottedName(false, ast.Identifier("")), 2, []*diagnostics.Diag{unexpectedInIdentifier(first)}
	}

	terminators := ";"
	if isNested {
		terminators = ";,}"
	}

	var diags []*diagnostics.Diag
	idx := 1

	for idx < len(toks) {
		tok := toks[idx]
		if tok.Kind == token.SPECIAL && strings.Contains(terminators, tok.Lexeme) {
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
			last := len(name.Ids) - 1
			switch {
			case lastWasPeriod:
				name.Ids = append(name.Ids, ast.Segment{Kind: ast.SEGMENT_IDENTIFIER, Name: tok.Lexeme, Pos: tok.Pos})
			case last >= 0 && name.Ids[last].Kind == ast.SEGMENT_GLOB:
				// "ba*r": the glob keeps absorbing text
				name.Ids[last].Name += tok.Lexeme
			default:
				diags = append(diags, consecutiveIdentifiers(tok))
				name.Ids = append(name.Ids, ast.Segment{Kind: ast.SEGMENT_IDENTIFIER, Name: tok.Lexeme, Pos: tok.Pos})
			}
			lastWasPeriod = false
			idx++
		case isGlobOperator(tok):
			last := len(name.Ids) - 1
			switch {
			case lastWasPeriod || last < 0:
				name.Ids = append(name.Ids, ast.Segment{Kind: ast.SEGMENT_GLOB, Name: tok.Lexeme, Pos: tok.Pos})
			case name.Ids[last].Kind == ast.SEGMENT_GROUP:
				diags = append(diags, consecutiveIdentifiers(tok))
			default:
				name.Ids[last].Kind = ast.SEGMENT_GLOB
				name.Ids[last].Name += tok.Lexeme
			}
			lastWasPeriod = false
			idx++
		default:
			diags = append(diags, unexpectedInIdentifier(tok))
			return name, idx + 1, diags
		}
	}

	if len(name.Ids) == 0 {
		diags = append(diags, missingIdentifier(toks, idx))
	}
	return name, idx + 1, diags
}

func isTerminator(tok *token.Token, terminators string) bool {
	switch tok.Kind {
	case token.SPECIAL:
		return strings.Contains(terminators, tok.Lexeme)
	case token.KEYWORD, token.OPERATOR:
		return len(tok.Lexeme) == 1 && strings.Contains(terminators, tok.Lexeme)
	}
	return false
}

// isGlobOperator matches "*" and the "**" the lexer produces for doubled stars.
func isGlobOperator(tok *token.Token) bool {
	return tok.Kind == token.OPERATOR && strings.Trim(tok.Lexeme, "*") == ""
}

func expectedIdentifier(pos token.Pos) *diagnostics.Diag {
	return diagnostics.New(pos, diagnostics.UNEXPECTED_IN_IDENT, "expected identifier, got end of input")
}

// missingIdentifier reports a path made of periods only, at the token it
// stopped at.
func missingIdentifier(toks []*token.Token, idx int) *diagnostics.Diag {
	pos := toks[len(toks)-1].Pos
	if idx < len(toks) {
		pos = toks[idx].Pos
	}
	return diagnostics.New(pos, diagnostics.UNEXPECTED_IN_IDENT, "expected identifier")
}

func unexpectedInIdentifier(tok *token.Token) *diagnostics.Diag {
	return diagnostics.New(tok.Pos, diagnostics.UNEXPECTED_IN_IDENT, fmt.Sprintf("unexpected token %s in identifier", tok))
}

func consecutivePeriods(tok *token.Token) *diagnostics.Diag {
	return diagnostics.New(tok.Pos, diagnostics.CONSECUTIVE_PERIODS, "identifier cannot contain consecutive periods").
		Note(tok.Pos, "Did you accidentally type two?")
}

func consecutiveIdentifiers(tok *token.Token) *diagnostics.Diag {
	return diagnostics.New(tok.Pos, diagnostics.CONSECUTIVE_IDENTS, "identifier cannot contain consecutive identifiers").
		Note(tok.Pos, "Did you forget a period?")
}
