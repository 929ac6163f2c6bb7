package scope

import (
	"slices"

	"github.com/cobalt-lang/cobalt/internal/ast"
)

// VarMap is one node of the scope tree. Parent is the enclosing scope and is
// nil for the root.
type VarMap struct {
	Parent  *VarMap
	Symbols Module
}

func New(parent *VarMap) *VarMap {
	return &VarMap{Parent: parent, Symbols: Module{}}
}

// Orphan detaches vm from its enclosing scope and returns the former parent.
func (vm *VarMap) Orphan() *VarMap {
	parent := vm.Parent
	vm.Parent = nil
	return parent
}

func (vm *VarMap) Reparent(parent *VarMap) {
	vm.Parent = parent
}

// Root returns the outermost scope reachable through parent links.
func (vm *VarMap) Root() *VarMap {
	root := vm
	for root.Parent != nil {
		root = root.Parent
	}
	return root
}

// Lookup resolves name. Global names start at the root. A name that does not
// exist here is retried in the enclosing scope, but a segment that resolves
// to a variable where a module is required fails immediately.
func (vm *VarMap) Lookup(name ast.DottedName) (*Symbol, error) {
	start := vm
	if name.Global {
		start = vm.Root()
	}

	sym, undef := lookupIn(start.Symbols, name)
	if undef == nil {
		return sym, nil
	}
	if !name.Global && undef.Kind == UNDEF_DOES_NOT_EXIST && vm.Parent != nil {
		return vm.Parent.Lookup(name)
	}
	return nil, undef
}

func lookupIn(mod Module, name ast.DottedName) (*Symbol, *UndefVariable) {
	if name.IsEmpty() {
		return nil, &UndefVariable{Kind: UNDEF_DOES_NOT_EXIST, Name: name}
	}

	last := len(name.Ids) - 1
	for i, id := range name.Ids[:last] {
		sym, ok := mod[id]
		if !ok {
			return nil, &UndefVariable{Kind: UNDEF_DOES_NOT_EXIST, Index: i, Name: name}
		}
		if sym.Kind != SYMBOL_MODULE {
			return nil, &UndefVariable{Kind: UNDEF_NOT_A_MODULE, Index: i, Name: name}
		}
		mod = sym.Mod
	}

	sym, ok := mod[name.Ids[last]]
	if !ok {
		return nil, &UndefVariable{Kind: UNDEF_DOES_NOT_EXIST, Index: last, Name: name}
	}
	return sym, nil
}

// Insert declares sym under name, creating intermediate modules as needed.
// Global names are inserted at the root. Inserting a module where a module
// already exists merges the two; the existing symbol is then returned.
//
// On failure the tree is unchanged except for intermediate modules created
// before the failing segment.
func (vm *VarMap) Insert(name ast.DottedName, sym *Symbol) (*Symbol, error) {
	if name.IsEmpty() || slices.Contains(name.Ids, "") {
		return nil, ErrEmptyName
	}

	target := vm
	if name.Global {
		target = vm.Root()
	}

	mod := target.Symbols
	last := len(name.Ids) - 1
	for i, id := range name.Ids[:last] {
		existing, ok := mod[id]
		if !ok {
			existing = NewModule(nil)
			mod[id] = existing
		} else if existing.Kind != SYMBOL_MODULE {
			return nil, &RedefVariable{Kind: REDEF_NOT_A_MODULE, Index: i, Name: name, Symbol: sym}
		}
		mod = existing.Mod
	}

	id := name.Ids[last]
	existing, ok := mod[id]
	if !ok {
		mod[id] = sym
		return sym, nil
	}
	if existing.Kind != SYMBOL_MODULE || sym.Kind != SYMBOL_MODULE {
		return nil, &RedefVariable{Kind: REDEF_ALREADY_EXISTS, Index: last, Name: name, Symbol: sym}
	}

	if conflicts := conflictsOf(existing.Mod, sym.Mod); len(conflicts) > 0 {
		return nil, &RedefVariable{Kind: REDEF_MERGE_CONFLICT, Index: last, Name: name, Symbol: sym, Conflicts: conflicts}
	}
	Merge(existing.Mod, sym.Mod)
	return existing, nil
}

// conflictsOf reports what Merge(into, from) would report, without moving
// anything.
func conflictsOf(into, from Module) []Conflict {
	var conflicts []Conflict
	for _, key := range from.Keys() {
		sym := from[key]
		existing, ok := into[key]
		if !ok {
			continue
		}
		if existing.Kind == SYMBOL_MODULE && sym.Kind == SYMBOL_MODULE {
			for _, conflict := range conflictsOf(existing.Mod, sym.Mod) {
				conflict.Name = conflict.Name.Prepend(key)
				conflicts = append(conflicts, conflict)
			}
			continue
		}
		conflicts = append(conflicts, Conflict{Name: ast.LocalName(key), Symbol: sym})
	}
	return conflicts
}

// Merge merges from into the scope's own symbols. See the package-level Merge.
func (vm *VarMap) Merge(from Module) []Conflict {
	return Merge(vm.Symbols, from)
}

// Merge moves every entry of from into into. Modules present on both sides
// are merged recursively; any other collision is reported as a conflict and
// leaves into untouched at that name. Entries without a collision are merged
// even when others conflict. Conflicts are sorted by name. from must not be
// used afterwards since its symbols now belong to into.
func Merge(into, from Module) []Conflict {
	var conflicts []Conflict
	for _, key := range from.Keys() {
		sym := from[key]
		existing, ok := into[key]
		if !ok {
			into[key] = sym
			continue
		}

		if existing.Kind == SYMBOL_MODULE && sym.Kind == SYMBOL_MODULE {
			for _, conflict := range Merge(existing.Mod, sym.Mod) {
				conflict.Name = conflict.Name.Prepend(key)
				conflicts = append(conflicts, conflict)
			}
			continue
		}

		conflicts = append(conflicts, Conflict{Name: ast.LocalName(key), Symbol: sym})
	}
	return conflicts
}
