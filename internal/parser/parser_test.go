package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/diagnostics"
)

// render prints nodes back in a compact source form so whole trees can be
// compared as strings.
func render(nodes []*ast.Node) string {
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		switch node.Kind {
		case ast.KIND_MODULE_DECL:
			decl := node.Node.(*ast.ModuleDecl)
			parts = append(parts, fmt.Sprintf("module %s { %s }", decl.Name, render(decl.Body)))
		case ast.KIND_IMPORT_DECL:
			parts = append(parts, fmt.Sprintf("import %s;", node.Node.(*ast.ImportDecl).Path))
		case ast.KIND_VAR_DECL:
			parts = append(parts, node.Node.(*ast.VarDecl).String())
		}
	}
	return strings.Join(parts, " ")
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
		codes []int
	}{
		{"", "", nil},
		{"let x = 1;", "let x = 1;", nil},
		{"let x: i32 = 5;", "let x: i32 = 5;", nil},
		{"mut y: u8*;", "mut y: u8*;", nil},
		{"let a.b = f(1, 2);", "let a.b = f ( 1 , 2 );", nil},
		{"import std.io.*;", "import std.io.*;", nil},
		{"import .std.fmt;", "import .std.fmt;", nil},
		{"module a.b { let x: i32 = 5; }", "module a.b { let x: i32 = 5; }", nil},
		{"module a;", "module a {  }", nil},
		{"module a = b.c;", "module a { import b.c.*; }", nil},
		{
			"module a { module b { let x = 1; } import a.b.*; } let y = 2;",
			"module a { module b { let x = 1; } import a.b.*; } let y = 2;",
			nil,
		},
		{";; let x = 1;;", "let x = 1;", nil},
		{"let z;", "", []int{diagnostics.EMPTY_VAR_DEFINITION}},
		{"let w", "", []int{diagnostics.EXPECTED_VAR_TYPE}},
		{"let q = 1", "let q = 1;", []int{diagnostics.EXPECTED_SEMICOLON}},
		{"let r: i32", "let r: i32;", []int{diagnostics.EXPECTED_VAR_VALUE}},
		{"let s: u0 = 1;", "let s: <nil> = 1;", []int{diagnostics.INVALID_INT_WIDTH}},
		{"let t: i32 5; let u = 1;", "let u = 1;", []int{diagnostics.UNEXPECTED_IN_IDENT, diagnostics.EXPECTED_VAR_TYPE}},
		{"let a = (1;", "let a = ( 1 ;;", []int{diagnostics.UNMATCHED_OPEN_PAREN, diagnostics.EXPECTED_SEMICOLON}},
		{"foo; let x = 1;", "let x = 1;", []int{diagnostics.UNEXPECTED_TOP_LEVEL}},
		{"} let x = 1;", "let x = 1;", []int{diagnostics.UNEXPECTED_IN_TYPE}},
		{"let x = 1; }", "let x = 1;", []int{diagnostics.UNEXPECTED_IN_TYPE}},
		{"module m { let x = 1;", "module m { let x = 1; }", []int{diagnostics.UNEXPECTED_IN_TYPE}},
		{"module m", "", []int{diagnostics.EXPECTED_MODULE_BODY}},
		{"module m = a.b", "module m { import a.b.*; }", []int{diagnostics.EXPECTED_MODULE_BODY}},
		{"module a..b;", "module a.b {  }", []int{diagnostics.CONSECUTIVE_PERIODS}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestParse(%q)", test.input), func(t *testing.T) {
			toks := lex(t, test.input)
			tl, diags := Parse(toks)

			if got := render(tl.Body); got != test.want {
				t.Errorf("expected %q, got %q", test.want, got)
			}
			if diff := cmp.Diff(test.codes, codes(diags)); diff != "" {
				t.Errorf("diagnostic codes (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseVarDecl(t *testing.T) {
	toks := lex(t, "mut .counter: u64 = 0;")
	tl, diags := Parse(toks)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(tl.Body) != 1 || tl.Body[0].Kind != ast.KIND_VAR_DECL {
		t.Fatalf("expected a single variable declaration, got %v", tl.Body)
	}

	decl := tl.Body[0].Node.(*ast.VarDecl)
	if !decl.Mutable {
		t.Errorf("expected a mutable declaration")
	}
	if diff := cmp.Diff(ast.NewDottedName(true, "counter"), decl.Name, ignorePositions); diff != "" {
		t.Errorf("name (-want +got):\n%s", diff)
	}
	if !decl.HasType || !decl.Type.Equals(ast.NewUIntType(64)) {
		t.Errorf("expected type u64, got %s", decl.Type)
	}
	if value, ok := decl.Value.IntValue(); !ok || value != 0 {
		t.Errorf("expected value 0, got %s", decl.Value)
	}
	if decl.Pos.Line != 1 || decl.Pos.Column != 1 {
		t.Errorf("expected declaration at 1:1, got %s", decl.Pos)
	}
}

func TestParseModuleAlias(t *testing.T) {
	toks := lex(t, "module io = .std.io;")
	tl, diags := Parse(toks)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	decl := tl.Body[0].Node.(*ast.ModuleDecl)
	if len(decl.Body) != 1 || decl.Body[0].Kind != ast.KIND_IMPORT_DECL {
		t.Fatalf("expected the alias body to be a single import, got %v", decl.Body)
	}

	path := decl.Body[0].Node.(*ast.ImportDecl).Path
	want := ast.NewCompoundDottedName(true, ast.Identifier("std"), ast.Identifier("io"), ast.Glob("*"))
	if diff := cmp.Diff(want, path, ignoreSegmentPos); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
