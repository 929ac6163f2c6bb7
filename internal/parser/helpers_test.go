package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/lexer"
	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

const filename = "test.co"

// ignorePositions drops source locations from cmp comparisons.
var ignorePositions = cmpopts.IgnoreFields(ast.DottedName{}, "Locs")
var ignoreSegmentPos = cmpopts.IgnoreFields(ast.Segment{}, "Pos")

func lex(t *testing.T, src string) []*token.Token {
	t.Helper()
	toks, diags := lexer.Lex(filename, src)
	if len(diags) > 0 {
		t.Fatalf("unexpected lexer diagnostics for %q: %v", src, diags)
	}
	return toks
}

func codes(diags []*diagnostics.Diag) []int {
	var out []int
	for _, diag := range diags {
		out = append(out, diag.Code)
	}
	return out
}
