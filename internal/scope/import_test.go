package scope

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cobalt-lang/cobalt/internal/ast"
)

func stdlib(t *testing.T) *VarMap {
	t.Helper()
	root := New(nil)
	for _, n := range []ast.DottedName{
		name("std", "io", "print"),
		name("std", "io", "println"),
		name("std", "io", "read"),
		name("std", "mem", "alloc"),
		name("std", "mem", "free"),
		name("std", "version"),
	} {
		_, err := root.Insert(n, variable(ast.NewIntType(32)))
		require.NoError(t, err)
	}
	return root
}

func path(global bool, segs ...ast.Segment) ast.CompoundDottedName {
	return ast.NewCompoundDottedName(global, segs...)
}

func id(s string) ast.Segment { return ast.Identifier(s) }

func names(ns []ast.DottedName) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.String()
	}
	return out
}

func TestImportIdentifier(t *testing.T) {
	root := stdlib(t)
	local := New(root)

	imported, err := local.Import(path(false, id("std"), id("io"), id("print")), local)
	require.NoError(t, err)
	require.Equal(t, []string{"std.io.print"}, names(imported))
	require.Same(t, root.Symbols["std"].Mod["io"].Mod["print"].Var, local.Symbols["print"].Var)
}

func TestImportModuleIsCopied(t *testing.T) {
	root := stdlib(t)
	local := New(root)

	_, err := local.Import(path(true, id("std"), id("mem")), local)
	require.NoError(t, err)
	require.Equal(t, []string{"alloc", "free"}, local.Symbols["mem"].Mod.Keys())

	_, err = local.Insert(name("mem", "realloc"), variable(nil))
	require.NoError(t, err)
	require.Equal(t, []string{"alloc", "free"}, root.Symbols["std"].Mod["mem"].Mod.Keys())
}

func TestImportGlob(t *testing.T) {
	tests := []struct {
		glob string
		want []string
	}{
		{"*", []string{"std.io.print", "std.io.println", "std.io.read"}},
		{"print*", []string{"std.io.print", "std.io.println"}},
		{"*ln", []string{"std.io.println"}},
		{"r*d", []string{"std.io.read"}},
		{"x*", nil},
	}

	for _, test := range tests {
		t.Run(test.glob, func(t *testing.T) {
			root := stdlib(t)
			local := New(root)

			imported, err := local.Import(path(false, id("std"), id("io"), ast.Glob(test.glob)), local)
			require.NoError(t, err)
			if test.want == nil {
				require.Empty(t, imported)
				return
			}
			require.Equal(t, test.want, names(imported))
			require.Len(t, local.Symbols, len(test.want))
		})
	}
}

func TestImportGlobInTheMiddle(t *testing.T) {
	root := stdlib(t)
	local := New(root)

	imported, err := local.Import(path(false, id("std"), ast.Glob("*"), id("free")), local)
	require.Error(t, err)
	require.Empty(t, imported)

	imported, err = local.Import(path(false, id("std"), ast.Glob("m*"), ast.Glob("*")), local)
	require.NoError(t, err)
	require.Equal(t, []string{"std.mem.alloc", "std.mem.free"}, names(imported))
}

func TestImportGroup(t *testing.T) {
	root := stdlib(t)
	local := New(root)

	group := ast.Group(
		path(false, id("io"), id("print")),
		path(false, id("mem"), ast.Glob("*")),
		path(false, id("version")),
	)
	imported, err := local.Import(path(false, id("std"), group), local)
	require.NoError(t, err)
	require.Equal(t, []string{"std.io.print", "std.mem.alloc", "std.mem.free", "std.version"}, names(imported))
	require.Equal(t, []string{"alloc", "free", "print", "version"}, local.Symbols.Keys())
}

func TestImportGlobalGlob(t *testing.T) {
	root := stdlib(t)
	local := New(root)

	imported, err := local.Import(path(true, ast.Glob("*")), local)
	require.NoError(t, err)
	require.Equal(t, []string{".std"}, names(imported))
	require.True(t, local.Symbols["std"].IsModule())
}

func TestImportErrors(t *testing.T) {
	root := stdlib(t)
	local := New(root)

	_, err := local.Import(path(false, id("std"), id("net"), id("dial")), local)
	var undef *UndefVariable
	require.ErrorAs(t, err, &undef)
	require.Equal(t, UNDEF_DOES_NOT_EXIST, undef.Kind)
	require.Equal(t, 1, undef.Index)

	_, err = local.Import(path(false, id("std"), id("version"), ast.Glob("*")), local)
	require.ErrorAs(t, err, &undef)
	require.Equal(t, UNDEF_NOT_A_MODULE, undef.Kind)
	require.Equal(t, 1, undef.Index)

	_, err = local.Import(path(false, id("std"), id("io"), ast.Glob("[")), local)
	require.Error(t, err)

	_, err = local.Insert(name("print"), variable(nil))
	require.NoError(t, err)
	imported, err := local.Import(path(false, id("std"), id("io"), ast.Glob("*")), local)
	var redef *RedefVariable
	require.ErrorAs(t, err, &redef)
	require.Equal(t, REDEF_ALREADY_EXISTS, redef.Kind)
	require.Empty(t, imported)
}
