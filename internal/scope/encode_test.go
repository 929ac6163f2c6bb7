package scope

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/cobalt-lang/cobalt/internal/ast"
)

func TestEncodeRoundTrip(t *testing.T) {
	root := New(nil)
	for _, decl := range []struct {
		name ast.DottedName
		ty   *ast.ParsedType
	}{
		{name("a", "b"), ast.NewIntType(32)},
		{name("a", "c", "d"), ast.NewReferenceType(ast.NewPointerType(ast.NewNamedType(name("foo", "bar"))))},
		{name("e"), ast.NewUnsizedArrayType(ast.NewUIntType(8))},
		{name("f"), ast.NewNamedType(global("std", "string"))},
		{name("g"), ast.NewBorrowType(ast.NewPrimitiveType(ast.TYPE_F128))},
		{name("h"), nil},
	} {
		_, err := root.Insert(decl.name, variable(decl.ty))
		require.NoError(t, err)
	}
	literals := map[string]string{
		"newline": `i8['\n']`,
		"nul":     `i8['\0']`,
		"quote":   `i8['\'']`,
		"slash":   `i8['\\']`,
		"str":     `i8["a\tb\"c"]`,
	}
	for key, src := range literals {
		ty, err := parseType(src)
		require.NoError(t, err, src)
		_, err = root.Insert(name("lit", key), variable(ty))
		require.NoError(t, err)
	}
	_, err := root.Insert(name("p"), NewVariable(Placeholder()))
	require.NoError(t, err)
	_, err = root.Insert(name("empty"), NewModule(nil))
	require.NoError(t, err)

	decoded, err := Decode(Encode(root.Symbols))
	require.NoError(t, err)
	require.Equal(t, root.Symbols.String(), decoded.String())

	d := decoded["a"].Mod["c"].Mod["d"].Var
	require.True(t, d.Good)
	require.True(t, d.Type.Equals(root.Symbols["a"].Mod["c"].Mod["d"].Var.Type))
	require.Nil(t, decoded["h"].Var.Type)
	require.False(t, decoded["p"].Var.Good)
	require.True(t, decoded["empty"].IsModule())
	require.Empty(t, decoded["empty"].Mod)

	for key, src := range literals {
		got := decoded["lit"].Mod[key].Var.Type
		require.True(t, got.Equals(root.Symbols["lit"].Mod[key].Var.Type), src)
		require.Equal(t, src, got.String())
	}
	require.Equal(t, "\n", decoded["lit"].Mod["newline"].Var.Type.Size.Tokens[0].Lexeme)
	require.Equal(t, "\x00", decoded["lit"].Mod["nul"].Var.Type.Size.Tokens[0].Lexeme)
}

func TestEncodeSizedArray(t *testing.T) {
	ty, err := parseType("i32[10]*")
	require.NoError(t, err)

	mod := Module{"arr": variable(ty)}
	decoded, err := Decode(Encode(mod))
	require.NoError(t, err)

	got := decoded["arr"].Var.Type
	require.Equal(t, ast.TYPE_POINTER, got.Kind)
	require.Equal(t, ast.TYPE_SIZED_ARRAY, got.Inner.Kind)
	size, ok := got.Inner.Size.IntValue()
	require.True(t, ok)
	require.EqualValues(t, 10, size)
}

func TestDecodeEmpty(t *testing.T) {
	mod, err := Decode(nil)
	require.NoError(t, err)
	require.Empty(t, mod)
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	b := protowire.AppendTag(nil, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	b = append(b, Encode(Module{"x": variable(ast.NewIntType(1))})...)

	mod, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, mod.Keys())
}

func TestDecodeMalformed(t *testing.T) {
	record := func(fields ...[]byte) []byte {
		var inner []byte
		for _, f := range fields {
			inner = append(inner, f...)
		}
		b := protowire.AppendTag(nil, fieldRecord, protowire.BytesType)
		return protowire.AppendBytes(b, inner)
	}
	str := func(num protowire.Number, s string) []byte {
		b := protowire.AppendTag(nil, num, protowire.BytesType)
		return protowire.AppendString(b, s)
	}
	varint := func(num protowire.Number, v uint64) []byte {
		b := protowire.AppendTag(nil, num, protowire.VarintType)
		return protowire.AppendVarint(b, v)
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{"truncated", []byte{0x0a, 0x05, 0x0a}},
		{"no name", record(varint(fieldKind, 0))},
		{"unknown kind", record(str(fieldName, "x"), varint(fieldKind, 7))},
		{"bad type", record(str(fieldName, "x"), varint(fieldKind, 0), str(fieldType, "i32 ("))},
		{"bad width", record(str(fieldName, "x"), varint(fieldKind, 0), str(fieldType, "u0"))},
		{"duplicate", append(record(str(fieldName, "x")), record(str(fieldName, "x"))...)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.input)
			require.ErrorIs(t, err, ErrMalformedSymbols)
		})
	}
}
