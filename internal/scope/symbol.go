// Package scope implements the cobalt symbol table: a tree of scopes, each
// mapping names to variables and modules, linked to its enclosing scope.
package scope

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cobalt-lang/cobalt/internal/ast"
)

type SymbolKind int

const (
	SYMBOL_VARIABLE SymbolKind = iota
	SYMBOL_MODULE
)

func (kind SymbolKind) String() string {
	switch kind {
	case SYMBOL_VARIABLE:
		return "variable"
	case SYMBOL_MODULE:
		return "module"
	}
	return fmt.Sprintf("SymbolKind(%d)", int(kind))
}

// Module maps plain names to the symbols declared in one namespace.
type Module map[string]*Symbol

// Symbol is either a Variable (Var set) or a Module (Mod set), selected by Kind.
type Symbol struct {
	Kind SymbolKind
	Var  *Variable
	Mod  Module
}

func NewVariable(v *Variable) *Symbol {
	return &Symbol{Kind: SYMBOL_VARIABLE, Var: v}
}

func NewModule(mod Module) *Symbol {
	if mod == nil {
		mod = Module{}
	}
	return &Symbol{Kind: SYMBOL_MODULE, Mod: mod}
}

func (sym *Symbol) IsModule() bool { return sym.Kind == SYMBOL_MODULE }

// Clone copies the module structure under sym. Variables are shared.
func (sym *Symbol) Clone() *Symbol {
	if sym.Kind != SYMBOL_MODULE {
		return &Symbol{Kind: sym.Kind, Var: sym.Var}
	}
	mod := make(Module, len(sym.Mod))
	for key, child := range sym.Mod {
		mod[key] = child.Clone()
	}
	return NewModule(mod)
}

func (sym *Symbol) String() string {
	if sym.Kind == SYMBOL_MODULE {
		return "module{" + strings.Join(sym.Mod.Keys(), ", ") + "}"
	}
	return sym.Var.String()
}

// Keys returns the names declared in mod in sorted order.
func (mod Module) Keys() []string {
	return slices.Sorted(maps.Keys(mod))
}

// String renders the module as an indented tree, one symbol per line.
func (mod Module) String() string {
	var sb strings.Builder
	mod.format(&sb, 0)
	return sb.String()
}

func (mod Module) format(sb *strings.Builder, depth int) {
	for _, key := range mod.Keys() {
		sym := mod[key]
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(key)
		if sym.Kind == SYMBOL_MODULE {
			sb.WriteString(": module\n")
			sym.Mod.format(sb, depth+1)
			continue
		}
		sb.WriteString(": ")
		sb.WriteString(sym.Var.String())
		sb.WriteByte('\n')
	}
}

// Variable is a leaf binding. Good is false for placeholders inserted after
// an error so that later uses of the name stay quiet.
type Variable struct {
	CompVal  any
	InterVal any
	Type     *ast.ParsedType
	Good     bool
}

// Compiled is a variable backed by a value in generated code.
func Compiled(compVal any, ty *ast.ParsedType) *Variable {
	return &Variable{CompVal: compVal, Type: ty, Good: true}
}

// Interpreted is a variable with both a generated and a compile-time value.
func Interpreted(compVal, interVal any, ty *ast.ParsedType) *Variable {
	return &Variable{CompVal: compVal, InterVal: interVal, Type: ty, Good: true}
}

// Metaval only exists at compile time.
func Metaval(interVal any, ty *ast.ParsedType) *Variable {
	return &Variable{InterVal: interVal, Type: ty, Good: true}
}

func Placeholder() *Variable {
	return &Variable{}
}

func (v *Variable) String() string {
	ty := "<untyped>"
	if v.Type != nil {
		ty = v.Type.String()
	}
	if !v.Good {
		return ty + " (error)"
	}
	return ty
}
