package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/codegen/llvm"
	"github.com/cobalt-lang/cobalt/internal/config"
	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/libarchive"
	"github.com/cobalt-lang/cobalt/internal/scope"
	"github.com/cobalt-lang/cobalt/internal/testutil"
)

func checkFile(t *testing.T, path string, root *scope.VarMap) (*scope.VarMap, *diagnostics.Collector) {
	t.Helper()
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return testutil.Check(string(src), root)
}

func TestCheckModules(t *testing.T) {
	root, collector := checkFile(t, "testdata/modules.co", nil)
	if len(collector.Diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", collector.Diags)
	}

	expected, err := os.ReadFile("testdata/modules.symbols")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(expected), root.Symbols.String()); diff != "" {
		t.Errorf("symbol table mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitModules(t *testing.T) {
	root, collector := checkFile(t, "testdata/modules.co", nil)
	if len(collector.Diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", collector.Diags)
	}

	cg := llvm.NewCG("modules")
	defer cg.Dispose()
	if skipped := cg.DeclareGlobals(root); len(skipped) > 0 {
		t.Fatalf("unexpected skipped globals: %v", skipped)
	}

	var ir strings.Builder
	if err := cg.Generate(&ir, config.DEBUG); err != nil {
		t.Fatalf("invalid module: %s", err)
	}
	for _, global := range []string{
		"@math.counter = global i64 0",
		"@total = global i64 0",
		"@io.origin = global [2 x i32] zeroinitializer",
	} {
		if !strings.Contains(ir.String(), global) {
			t.Errorf("expected %q in:\n%s", global, ir.String())
		}
	}
	// imports share the variable, so no global is emitted twice
	if strings.Contains(ir.String(), "@origin") || strings.Contains(ir.String(), "@math.vec.origin") {
		t.Errorf("imported variable emitted twice:\n%s", ir.String())
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		file  string
		codes []int
	}{
		{"redefinition.co", []int{diagnostics.REDEFINITION}},
		{"undefined_import.co", []int{diagnostics.UNDEFINED_IMPORT}},
		{"not_a_module.co", []int{diagnostics.IMPORT_NOT_MOD}},
		{"bad_syntax.co", []int{diagnostics.CONSECUTIVE_PERIODS}},
		{"empty_glob.co", []int{diagnostics.EMPTY_GLOB_IMPORT}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestCheckErrors(%q)", test.file), func(t *testing.T) {
			_, collector := checkFile(t, filepath.Join("testdata", "errors", test.file), nil)
			if diff := cmp.Diff(test.codes, testutil.Codes(collector)); diff != "" {
				t.Errorf("diagnostic codes mismatch (-want +got):\n%s\n%v", diff, collector.Diags)
			}
		})
	}
}

func TestLibraryRoundTrip(t *testing.T) {
	dir := t.TempDir()

	libRoot, collector := testutil.Check("let version: u32 = 1; module fs { let sep: u8; }", nil)
	if len(collector.Diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", collector.Diags)
	}
	cg := llvm.NewCG("std")
	defer cg.Dispose()
	cg.DeclareGlobals(libRoot)

	lib := &libarchive.Library{
		Name:    "std",
		Version: semver.MustParse("1.2.0"),
		Symbols: libRoot.Symbols,
		Object:  cg.Bitcode(),
	}
	if err := libarchive.Save(filepath.Join(dir, lib.FileName()), lib); err != nil {
		t.Fatal(err)
	}

	found, err := libarchive.NewFinder([]string{dir}, zerolog.Nop()).Find("std", "^1.0")
	if err != nil {
		t.Fatal(err)
	}
	if len(found.Object) == 0 {
		t.Errorf("expected the library object to survive")
	}

	root := scope.New(nil)
	if _, err := root.Insert(ast.LocalName(found.Name), scope.NewModule(found.Symbols)); err != nil {
		t.Fatal(err)
	}
	root, collector = testutil.Check("import std.fs.sep; let v: u32 = 0;", root)
	if len(collector.Diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", collector.Diags)
	}

	expected := "sep: u8\nstd: module\n  fs: module\n    sep: u8\n  version: u32\nv: u32\n"
	if diff := cmp.Diff(expected, root.Symbols.String()); diff != "" {
		t.Errorf("symbol table mismatch (-want +got):\n%s", diff)
	}
}
