package testutil

import (
	"github.com/rs/zerolog"

	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/lexer"
	"github.com/cobalt-lang/cobalt/internal/parser"
	"github.com/cobalt-lang/cobalt/internal/scope"
	"github.com/cobalt-lang/cobalt/internal/sema"
)

const DefaultFilename = "test.co"

// Check runs the whole front-end over src and declares its symbols in root,
// or in a fresh scope when root is nil. Every diagnostic ends up in the
// returned collector.
func Check(src string, root *scope.VarMap) (*scope.VarMap, *diagnostics.Collector) {
	if root == nil {
		root = scope.New(nil)
	}
	collector := diagnostics.NewCollector()

	toks, diags := lexer.Lex(DefaultFilename, src)
	collector.Report(diags...)
	tl, diags := parser.Parse(toks)
	collector.Report(diags...)

	_ = sema.New(collector, zerolog.Nop()).Declare(tl, root)
	return root, collector
}

func Codes(collector *diagnostics.Collector) []int {
	var codes []int
	for _, diag := range collector.Diags {
		codes = append(codes, diag.Code)
	}
	return codes
}
