package llvm

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"tinygo.org/x/go-llvm"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/config"
	"github.com/cobalt-lang/cobalt/internal/lexer"
	"github.com/cobalt-lang/cobalt/internal/parser"
	"github.com/cobalt-lang/cobalt/internal/scope"
)

func parseType(t *testing.T, src string) *ast.ParsedType {
	t.Helper()
	toks, diags := lexer.Lex("test.co", src)
	require.Empty(t, diags)
	ty, _, diags := parser.ParseType(toks, ";")
	require.Empty(t, diags)
	return ty
}

func TestLowerType(t *testing.T) {
	tests := []struct {
		src   string
		kind  llvm.TypeKind
		width int
	}{
		{"i32", llvm.IntegerTypeKind, 32},
		{"u1", llvm.IntegerTypeKind, 1},
		{"i128", llvm.IntegerTypeKind, 128},
		{"usize", llvm.IntegerTypeKind, strconv.IntSize},
		{"f32", llvm.FloatTypeKind, 0},
		{"f64", llvm.DoubleTypeKind, 0},
		{"f128", llvm.FP128TypeKind, 0},
		{"null", llvm.StructTypeKind, 0},
		{"u8*", llvm.PointerTypeKind, 0},
		{"foo.bar&", llvm.PointerTypeKind, 0},
		{"i32[]", llvm.ArrayTypeKind, 0},
		{"i32[10]", llvm.ArrayTypeKind, 10},
	}

	ctx := llvm.NewContext()
	defer ctx.Dispose()

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestLowerType(%q)", test.src), func(t *testing.T) {
			ty, ok := LowerType(ctx, parseType(t, test.src))
			require.True(t, ok)
			require.Equal(t, test.kind, ty.TypeKind())
			switch test.kind {
			case llvm.IntegerTypeKind:
				require.Equal(t, test.width, ty.IntTypeWidth())
			case llvm.ArrayTypeKind:
				require.Equal(t, test.width, ty.ArrayLength())
			}
		})
	}
}

func TestLowerTypeFailures(t *testing.T) {
	ctx := llvm.NewContext()
	defer ctx.Dispose()

	for _, src := range []string{"foo", "f16", "i32[n]", "foo[]", "i8[2 + 2]"} {
		t.Run(fmt.Sprintf("TestLowerTypeFailures(%q)", src), func(t *testing.T) {
			_, ok := LowerType(ctx, parseType(t, src))
			require.False(t, ok)
		})
	}

	_, ok := LowerType(ctx, nil)
	require.False(t, ok)
}

func TestDeclareGlobals(t *testing.T) {
	vm := scope.New(nil)
	insert := func(name ast.DottedName, v *scope.Variable) {
		_, err := vm.Insert(name, scope.NewVariable(v))
		require.NoError(t, err)
	}
	counter := scope.Compiled(nil, ast.NewUIntType(64))
	insert(ast.NewDottedName(false, "std", "counter"), counter)
	insert(ast.NewDottedName(false, "buf"), scope.Compiled(nil, parseType(t, "u8[16]")))
	insert(ast.NewDottedName(false, "named"), scope.Compiled(nil, parseType(t, "foo")))
	insert(ast.NewDottedName(false, "untyped"), scope.Compiled(nil, nil))
	insert(ast.NewDottedName(false, "broken"), scope.Placeholder())

	// the same variable seen through an import
	_, err := vm.Import(ast.NewCompoundDottedName(false, ast.Identifier("std"), ast.Identifier("counter")), vm)
	require.NoError(t, err)

	cg := NewCG("test")
	defer cg.Dispose()

	skipped := cg.DeclareGlobals(vm)
	require.Equal(t, []string{"named"}, skipped)

	compiled, ok := counter.CompVal.(*Variable)
	require.True(t, ok)
	require.Equal(t, 64, compiled.Ty.IntTypeWidth())
	require.Equal(t, "counter", compiled.Ptr.Name())

	require.False(t, cg.Module().NamedGlobal("buf").IsNil())
	require.True(t, cg.Module().NamedGlobal("std.counter").IsNil())

	var ir strings.Builder
	require.NoError(t, cg.Generate(&ir, config.DEBUG))
	require.Contains(t, ir.String(), "@buf = global [16 x i8] zeroinitializer")
	require.Contains(t, ir.String(), "@counter = global i64 0")

	require.NotEmpty(t, cg.Bitcode())

	// declaring again does not duplicate globals
	require.Equal(t, []string{"named"}, cg.DeclareGlobals(vm))
	require.True(t, cg.Module().NamedGlobal("counter.1").IsNil())
}
