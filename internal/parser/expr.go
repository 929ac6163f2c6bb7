package parser

import (
	"strings"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

type bracket struct {
	open, close       byte
	unmatchedOpen     int
	unmatchedClose    int
	openMsg, closeMsg string
}

var brackets = []bracket{
	{'(', ')', diagnostics.UNMATCHED_OPEN_PAREN, diagnostics.UNMATCHED_CLOSE_PAREN, "unmatched '('", "unmatched ')'"},
	{'[', ']', diagnostics.UNMATCHED_OPEN_BRACK, diagnostics.UNMATCHED_CLOSE_BRACK, "unmatched '['", "unmatched ']'"},
	{'{', '}', diagnostics.UNMATCHED_OPEN_BRACE, diagnostics.UNMATCHED_CLOSE_BRACE, "unmatched '{'", "unmatched '}'"},
}

// ParseExpr collects the tokens of an expression up to the first special
// character in terminators, skipping over balanced (), [] and {} groups. The
// expression grammar itself belongs to later phases.
func ParseExpr(toks []*token.Token, terminators string) (*ast.Expr, int, []*diagnostics.Diag) {
	var diags []*diagnostics.Diag
	i := 0

loop:
	for i < len(toks) {
		tok := toks[i]
		if tok.Kind != token.SPECIAL {
			i++
			continue
		}
		if strings.Contains(terminators, tok.Lexeme) {
			break
		}

		for _, b := range brackets {
			switch tok.Lexeme[0] {
			case b.open:
				depth := 1
				i++
				for i < len(toks) && depth > 0 {
					if toks[i].IsSpecial(b.open) {
						depth++
					} else if toks[i].IsSpecial(b.close) {
						depth--
					}
					i++
				}
				if depth > 0 {
					diags = append(diags, diagnostics.New(tok.Pos, b.unmatchedOpen, b.openMsg))
				}
				continue loop
			case b.close:
				diags = append(diags, diagnostics.New(tok.Pos, b.unmatchedClose, b.closeMsg))
				break loop
			}
		}
		i++
	}

	expr := &ast.Expr{Tokens: toks[:i]}
	if len(toks) > 0 {
		expr.Pos = toks[0].Pos
	}
	return expr, i + 1, diags
}
