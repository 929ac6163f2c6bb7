// Package ast defines the syntax tree produced by the cobalt front-end.
package ast

import (
	"fmt"

	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

type NodeKind int

const (
	KIND_MODULE_DECL NodeKind = iota
	KIND_IMPORT_DECL
	KIND_VAR_DECL
)

type Node struct {
	Kind NodeKind
	Node any
}

func (n *Node) Pos() token.Pos {
	switch n.Kind {
	case KIND_MODULE_DECL:
		return n.Node.(*ModuleDecl).Pos
	case KIND_IMPORT_DECL:
		return n.Node.(*ImportDecl).Pos
	case KIND_VAR_DECL:
		return n.Node.(*VarDecl).Pos
	}
	return token.Pos{}
}

func (n *Node) String() string {
	switch n.Kind {
	case KIND_MODULE_DECL:
		return "KIND_MODULE_DECL"
	case KIND_IMPORT_DECL:
		return "KIND_IMPORT_DECL"
	case KIND_VAR_DECL:
		return "KIND_VAR_DECL"
	default:
		return fmt.Sprintf("Unknown Node Kind: %v", n.Kind)
	}
}

// TopLevel is a whole parsed file.
type TopLevel struct {
	Pos  token.Pos
	Body []*Node
}

// ModuleDecl is "module a.b { ... }", "module a.b;" or "module a.b = c.d;".
// The alias form is stored as a body holding a single glob import of c.d.
type ModuleDecl struct {
	Pos  token.Pos
	Name DottedName
	Body []*Node
}

func NewModuleDecl(pos token.Pos, name DottedName, body []*Node) *Node {
	return &Node{Kind: KIND_MODULE_DECL, Node: &ModuleDecl{Pos: pos, Name: name, Body: body}}
}

type ImportDecl struct {
	Pos  token.Pos
	Path CompoundDottedName
}

func NewImportDecl(pos token.Pos, path CompoundDottedName) *Node {
	return &Node{Kind: KIND_IMPORT_DECL, Node: &ImportDecl{Pos: pos, Path: path}}
}

// VarDecl is "let" (Mutable == false) or "mut". Value is nil when omitted.
// HasType is set when a type annotation was written; Type is nil then only if
// the annotation was malformed.
type VarDecl struct {
	Pos     token.Pos
	Name    DottedName
	Mutable bool
	HasType bool
	Type    *ParsedType
	Value   *Expr
}

func NewVarDecl(pos token.Pos, name DottedName, mutable, hasType bool, ty *ParsedType, value *Expr) *Node {
	return &Node{
		Kind: KIND_VAR_DECL,
		Node: &VarDecl{Pos: pos, Name: name, Mutable: mutable, HasType: hasType, Type: ty, Value: value},
	}
}

func (decl *VarDecl) String() string {
	keyword := "let"
	if decl.Mutable {
		keyword = "mut"
	}
	out := keyword + " " + decl.Name.String()
	if decl.HasType {
		out += ": " + decl.Type.String()
	}
	if !decl.Value.IsEmpty() {
		out += " = " + decl.Value.String()
	}
	return out + ";"
}
