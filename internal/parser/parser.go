package parser

import (
	"fmt"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

// Parse parses a whole file. A stray '}' at the top level is reported and
// parsing resumes right after it.
func Parse(toks []*token.Token) (*ast.TopLevel, []*diagnostics.Diag) {
	if len(toks) == 0 {
		return &ast.TopLevel{Pos: token.Pos{Filename: "<empty>"}}, nil
	}

	body, n, diags := ParseTopLevel(toks)
	for n <= len(toks) {
		diags = append(diags, diagnostics.New(
			toks[n-1].Pos,
			diagnostics.UNEXPECTED_IN_TYPE,
			"unmatched closing brace",
		))
		more, m, es := ParseTopLevel(toks[n:])
		body = append(body, more...)
		diags = append(diags, es...)
		n += m
	}

	return &ast.TopLevel{Pos: toks[0].Pos, Body: body}, diags
}

// ParseTopLevel parses declarations until a '}' closing the enclosing body or
// the end of input.
func ParseTopLevel(toks []*token.Token) ([]*ast.Node, int, []*diagnostics.Diag) {
	var nodes []*ast.Node
	var diags []*diagnostics.Diag
	i := 0

	for i < len(toks) {
		tok := toks[i]
		switch {
		case tok.IsSpecial(';'):
			i++
		case tok.IsSpecial('}'):
			return nodes, i + 1, diags
		case tok.IsKeyword("module"):
			node, next, es := parseModule(toks, i)
			if node != nil {
				nodes = append(nodes, node)
			}
			diags = append(diags, es...)
			i = next
		case tok.IsKeyword("import"):
			path, n, es := ParsePaths(toks[i+1:], false)
			nodes = append(nodes, ast.NewImportDecl(tok.Pos, path))
			diags = append(diags, es...)
			i += n + 1
		case tok.IsKeyword("let"), tok.IsKeyword("mut"):
			node, next, es := parseVarDecl(toks, i)
			if node != nil {
				nodes = append(nodes, node)
			}
			diags = append(diags, es...)
			i = next
		default:
			diags = append(diags, diagnostics.New(
				tok.Pos,
				diagnostics.UNEXPECTED_TOP_LEVEL,
				fmt.Sprintf("unexpected top-level token: %s", tok),
			))
			i++
		}
	}

	return nodes, i + 1, diags
}

// parseModule parses the declaration starting at the "module" keyword at
// toks[start] and returns the index of the first token after it.
func parseModule(toks []*token.Token, start int) (*ast.Node, int, []*diagnostics.Diag) {
	keyword := toks[start]
	name, n, diags := ParsePath(toks[start+1:], "=;{")
	i := start + n

	if i >= len(toks) {
		diags = append(diags, diagnostics.New(keyword.Pos, diagnostics.EXPECTED_MODULE_BODY, "expected module body, got EOF"))
		return nil, len(toks), diags
	}

	tok := toks[i]
	switch {
	case tok.IsSpecial('{'):
		body, m, es := ParseTopLevel(toks[i+1:])
		diags = append(diags, es...)
		closing := i + m
		if closing >= len(toks) {
			diags = append(diags, diagnostics.New(tok.Pos, diagnostics.UNEXPECTED_IN_TYPE, "unmatched opening brace of module body"))
			return ast.NewModuleDecl(keyword.Pos, name, body), len(toks), diags
		}
		return ast.NewModuleDecl(keyword.Pos, name, body), closing + 1, diags
	case tok.IsOperator("="):
		target, m, es := ParsePath(toks[i+1:], ";")
		diags = append(diags, es...)
		end := i + m
		if end >= len(toks) {
			diags = append(diags, diagnostics.New(keyword.Pos, diagnostics.EXPECTED_MODULE_BODY, "expected semicolon after module assignment"))
			end = len(toks) - 1
		}
		path := target.Compound()
		path.Ids = append(path.Ids, ast.Segment{Kind: ast.SEGMENT_GLOB, Name: "*", Pos: tok.Pos})
		body := []*ast.Node{ast.NewImportDecl(tok.Pos, path)}
		return ast.NewModuleDecl(keyword.Pos, name, body), end + 1, diags
	case tok.IsSpecial(';'):
		return ast.NewModuleDecl(keyword.Pos, name, nil), i + 1, diags
	default:
		// ParsePath already reported the token it stopped at
		return nil, skipPast(toks, i, ';'), diags
	}
}

// parseVarDecl parses "let NAME [: TYPE] [= EXPR];" (or "mut ...") starting at
// the keyword at toks[start].
func parseVarDecl(toks []*token.Token, start int) (*ast.Node, int, []*diagnostics.Diag) {
	keyword := toks[start]
	mutable := keyword.Lexeme == "mut"

	name, n, diags := ParsePath(toks[start+1:], ":=;")
	i := start + n

	if i >= len(toks) {
		diags = append(diags, diagnostics.New(
			toks[len(toks)-1].Pos,
			diagnostics.EXPECTED_VAR_TYPE,
			"expected type specification or value after variable definition",
		))
		return nil, len(toks), diags
	}

	var ty *ast.ParsedType
	var value *ast.Expr
	hasType := false

	if toks[i].IsSpecial(':') {
		colon := toks[i]
		if i+1 == len(toks) {
			diags = append(diags, diagnostics.New(colon.Pos, diagnostics.EXPECTED_TYPE, "expected a type"))
			return nil, len(toks), diags
		}
		parsed, m, es := ParseType(toks[i+1:], "=;")
		diags = append(diags, es...)
		ty = parsed
		hasType = true
		i += m
		if i >= len(toks) {
			diags = append(diags, diagnostics.New(
				toks[len(toks)-1].Pos,
				diagnostics.EXPECTED_VAR_VALUE,
				"expected value after typed variable definition",
			))
			return ast.NewVarDecl(keyword.Pos, name, mutable, hasType, ty, nil), len(toks), diags
		}
	}

	if toks[i].IsOperator("=") {
		expr, m, es := ParseExpr(toks[i+1:], ";")
		diags = append(diags, es...)
		value = expr
		i += m
		if i >= len(toks) {
			diags = append(diags, diagnostics.New(
				toks[len(toks)-1].Pos,
				diagnostics.EXPECTED_SEMICOLON,
				"expected semicolon after variable definition",
			))
			return ast.NewVarDecl(keyword.Pos, name, mutable, hasType, ty, value), len(toks), diags
		}
	}

	if !toks[i].IsSpecial(';') {
		diags = append(diags, diagnostics.New(
			toks[i-1].Pos,
			diagnostics.EXPECTED_VAR_TYPE,
			"expected type specification or value after variable definition",
		).Note(toks[i].Pos, fmt.Sprintf("got %s", toks[i])))
		return nil, skipPast(toks, i, ';'), diags
	}

	if !hasType && value == nil {
		diags = append(diags, diagnostics.New(
			toks[i].Pos,
			diagnostics.EMPTY_VAR_DEFINITION,
			"variable definition must have a type specification and/or value",
		))
		return nil, i + 1, diags
	}

	return ast.NewVarDecl(keyword.Pos, name, mutable, hasType, ty, value), i + 1, diags
}

// skipPast returns the index just after the next special ch at or after i,
// stopping before a '}' that would close an enclosing body.
func skipPast(toks []*token.Token, i int, ch byte) int {
	for ; i < len(toks); i++ {
		if toks[i].IsSpecial(ch) {
			return i + 1
		}
		if toks[i].IsSpecial('}') {
			return i
		}
	}
	return len(toks)
}
