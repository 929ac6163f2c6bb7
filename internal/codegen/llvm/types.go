package llvm

import (
	"strconv"

	"tinygo.org/x/go-llvm"

	"github.com/cobalt-lang/cobalt/internal/ast"
)

// Variable is the compiled value stored in a scope.Variable: the global that
// holds it and its type.
type Variable struct {
	Ty  llvm.Type
	Ptr llvm.Value
}

func NewVariableValue(ty llvm.Type, ptr llvm.Value) *Variable {
	return &Variable{Ty: ty, Ptr: ptr}
}

// LowerType returns the LLVM type of ty. It fails for named types, which
// need type declarations, for f16, and for arrays whose length is not an
// integer literal.
func LowerType(ctx llvm.Context, ty *ast.ParsedType) (llvm.Type, bool) {
	if ty == nil {
		return llvm.Type{}, false
	}

	switch ty.Kind {
	case ast.TYPE_INT, ast.TYPE_UINT:
		return ctx.IntType(int(ty.Bits)), true
	case ast.TYPE_ISIZE, ast.TYPE_USIZE:
		// 32 bits or 64 bits depends on the architecture
		return ctx.IntType(strconv.IntSize), true
	case ast.TYPE_F32:
		return ctx.FloatType(), true
	case ast.TYPE_F64:
		return ctx.DoubleType(), true
	case ast.TYPE_F128:
		return ctx.FP128Type(), true
	case ast.TYPE_NULL:
		return ctx.StructType(nil, false), true
	case ast.TYPE_REFERENCE, ast.TYPE_POINTER, ast.TYPE_BORROW:
		elem, ok := LowerType(ctx, ty.Inner)
		if !ok {
			elem = ctx.Int8Type()
		}
		return llvm.PointerType(elem, 0), true
	case ast.TYPE_UNSIZED_ARRAY:
		elem, ok := LowerType(ctx, ty.Inner)
		if !ok {
			return llvm.Type{}, false
		}
		return llvm.ArrayType(elem, 0), true
	case ast.TYPE_SIZED_ARRAY:
		elem, ok := LowerType(ctx, ty.Inner)
		if !ok {
			return llvm.Type{}, false
		}
		length, ok := ty.Size.IntValue()
		if !ok || length > uint64(maxArrayLength) {
			return llvm.Type{}, false
		}
		return llvm.ArrayType(elem, int(length)), true
	}
	return llvm.Type{}, false
}

const maxArrayLength = 1<<31 - 1
