package ast

import (
	"fmt"
	"strconv"
)

type TypeKind int

const (
	PRIMITIVE_START TypeKind = iota // primitive kinds start delimiter
	TYPE_INT
	TYPE_UINT
	TYPE_ISIZE
	TYPE_USIZE
	TYPE_F16
	TYPE_F32
	TYPE_F64
	TYPE_F128
	TYPE_NULL
	PRIMITIVE_END // primitive kinds end delimiter

	TYPE_NAMED

	WRAPPER_START // indirection kinds start delimiter
	TYPE_REFERENCE
	TYPE_POINTER
	TYPE_BORROW
	WRAPPER_END // indirection kinds end delimiter

	TYPE_UNSIZED_ARRAY
	TYPE_SIZED_ARRAY
)

func (kind TypeKind) String() string {
	switch kind {
	case TYPE_INT:
		return "TYPE_INT"
	case TYPE_UINT:
		return "TYPE_UINT"
	case TYPE_ISIZE:
		return "TYPE_ISIZE"
	case TYPE_USIZE:
		return "TYPE_USIZE"
	case TYPE_F16:
		return "TYPE_F16"
	case TYPE_F32:
		return "TYPE_F32"
	case TYPE_F64:
		return "TYPE_F64"
	case TYPE_F128:
		return "TYPE_F128"
	case TYPE_NULL:
		return "TYPE_NULL"
	case TYPE_NAMED:
		return "TYPE_NAMED"
	case TYPE_REFERENCE:
		return "TYPE_REFERENCE"
	case TYPE_POINTER:
		return "TYPE_POINTER"
	case TYPE_BORROW:
		return "TYPE_BORROW"
	case TYPE_UNSIZED_ARRAY:
		return "TYPE_UNSIZED_ARRAY"
	case TYPE_SIZED_ARRAY:
		return "TYPE_SIZED_ARRAY"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(kind))
	}
}

// ParsedType is a type expression as written in source. Which fields are set
// depends on Kind:
//
//	TYPE_INT, TYPE_UINT        Bits
//	TYPE_NAMED                 Name
//	wrappers, arrays           Inner
//	TYPE_SIZED_ARRAY           Inner, Size
type ParsedType struct {
	Kind  TypeKind
	Bits  uint64
	Name  *DottedName
	Inner *ParsedType
	Size  *Expr
}

func NewPrimitiveType(kind TypeKind) *ParsedType {
	return &ParsedType{Kind: kind}
}

func NewIntType(bits uint64) *ParsedType {
	return &ParsedType{Kind: TYPE_INT, Bits: bits}
}

func NewUIntType(bits uint64) *ParsedType {
	return &ParsedType{Kind: TYPE_UINT, Bits: bits}
}

func NewNamedType(name DottedName) *ParsedType {
	return &ParsedType{Kind: TYPE_NAMED, Name: &name}
}

func NewReferenceType(inner *ParsedType) *ParsedType {
	return &ParsedType{Kind: TYPE_REFERENCE, Inner: inner}
}

func NewPointerType(inner *ParsedType) *ParsedType {
	return &ParsedType{Kind: TYPE_POINTER, Inner: inner}
}

func NewBorrowType(inner *ParsedType) *ParsedType {
	return &ParsedType{Kind: TYPE_BORROW, Inner: inner}
}

func NewUnsizedArrayType(inner *ParsedType) *ParsedType {
	return &ParsedType{Kind: TYPE_UNSIZED_ARRAY, Inner: inner}
}

func NewSizedArrayType(inner *ParsedType, size *Expr) *ParsedType {
	return &ParsedType{Kind: TYPE_SIZED_ARRAY, Inner: inner, Size: size}
}

func (ty *ParsedType) IsPrimitive() bool {
	return ty.Kind > PRIMITIVE_START && ty.Kind < PRIMITIVE_END
}

func (ty *ParsedType) IsWrapper() bool {
	return ty.Kind > WRAPPER_START && ty.Kind < WRAPPER_END
}

func (ty *ParsedType) IsArray() bool {
	return ty.Kind == TYPE_UNSIZED_ARRAY || ty.Kind == TYPE_SIZED_ARRAY
}

// Equals compares two types structurally. Sized arrays compare their size
// expressions by source text.
func (ty *ParsedType) Equals(other *ParsedType) bool {
	if ty == nil || other == nil {
		return ty == other
	}
	if ty.Kind != other.Kind {
		return false
	}

	switch ty.Kind {
	case TYPE_INT, TYPE_UINT:
		return ty.Bits == other.Bits
	case TYPE_NAMED:
		return ty.Name.String() == other.Name.String()
	case TYPE_REFERENCE, TYPE_POINTER, TYPE_BORROW, TYPE_UNSIZED_ARRAY:
		return ty.Inner.Equals(other.Inner)
	case TYPE_SIZED_ARRAY:
		return ty.Inner.Equals(other.Inner) && ty.Size.String() == other.Size.String()
	default:
		return true
	}
}

// String renders the type back in source syntax, e.g. "i32*&" or "foo.bar[]".
func (ty *ParsedType) String() string {
	if ty == nil {
		return "<nil>"
	}
	switch ty.Kind {
	case TYPE_INT:
		return "i" + strconv.FormatUint(ty.Bits, 10)
	case TYPE_UINT:
		return "u" + strconv.FormatUint(ty.Bits, 10)
	case TYPE_ISIZE:
		return "isize"
	case TYPE_USIZE:
		return "usize"
	case TYPE_F16:
		return "f16"
	case TYPE_F32:
		return "f32"
	case TYPE_F64:
		return "f64"
	case TYPE_F128:
		return "f128"
	case TYPE_NULL:
		return "null"
	case TYPE_NAMED:
		return ty.Name.String()
	case TYPE_REFERENCE:
		return ty.Inner.String() + "&"
	case TYPE_POINTER:
		return ty.Inner.String() + "*"
	case TYPE_BORROW:
		return ty.Inner.String() + "^"
	case TYPE_UNSIZED_ARRAY:
		return ty.Inner.String() + "[]"
	case TYPE_SIZED_ARRAY:
		return fmt.Sprintf("%s[%s]", ty.Inner, ty.Size)
	default:
		return ty.Kind.String()
	}
}
