package scope

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cobalt-lang/cobalt/internal/ast"
)

// Import resolves path against from and binds each matched symbol in vm
// under the last segment of its name. Identifier prefixes resolve like
// Lookup, so a non-global path may start in an enclosing scope of from. A
// glob segment matches the keys of the module reached so far; a group
// segment imports each of its paths relative to that module. Modules are
// copied, variables are shared.
//
// The names imported before an error are returned along with it.
func (vm *VarMap) Import(path ast.CompoundDottedName, from *VarMap) ([]ast.DottedName, error) {
	var imported []ast.DottedName
	err := vm.importSegments(from, ast.DottedName{Global: path.Global}, path.Ids, &imported)
	return imported, err
}

func (vm *VarMap) importSegments(from *VarMap, prefix ast.DottedName, segs []ast.Segment, imported *[]ast.DottedName) error {
	i := 0
	for i < len(segs) && segs[i].Kind == ast.SEGMENT_IDENTIFIER {
		prefix = extend(prefix, segs[i].Name)
		i++
	}

	if i == len(segs) {
		sym, err := from.Lookup(prefix)
		if err != nil {
			return err
		}
		return vm.bind(prefix, sym, imported)
	}

	seg, rest := segs[i], segs[i+1:]
	switch seg.Kind {
	case ast.SEGMENT_GLOB:
		if !doublestar.ValidatePattern(seg.Name) {
			return fmt.Errorf("invalid glob %q: %w", seg.Name, doublestar.ErrBadPattern)
		}
		mod, err := from.lookupModule(prefix)
		if err != nil {
			return err
		}
		for _, key := range mod.Keys() {
			if ok, _ := doublestar.Match(seg.Name, key); !ok {
				continue
			}
			name := extend(prefix, key)
			if len(rest) == 0 {
				if err := vm.bind(name, mod[key], imported); err != nil {
					return err
				}
				continue
			}
			if !mod[key].IsModule() {
				continue
			}
			if err := vm.importSegments(from, name, rest, imported); err != nil {
				return err
			}
		}
	case ast.SEGMENT_GROUP:
		for _, alt := range seg.Group {
			start := prefix
			if alt.Global {
				start = ast.DottedName{Global: true}
			}
			if err := vm.importSegments(from, start, append(slices.Clone(alt.Ids), rest...), imported); err != nil {
				return err
			}
		}
	}
	return nil
}

// lookupModule returns the module named by prefix; the empty prefix names
// the scope itself, or the root for a global prefix.
func (vm *VarMap) lookupModule(prefix ast.DottedName) (Module, error) {
	if prefix.IsEmpty() {
		if prefix.Global {
			return vm.Root().Symbols, nil
		}
		return vm.Symbols, nil
	}

	sym, err := vm.Lookup(prefix)
	if err != nil {
		return nil, err
	}
	if !sym.IsModule() {
		return nil, &UndefVariable{Kind: UNDEF_NOT_A_MODULE, Index: len(prefix.Ids) - 1, Name: prefix}
	}
	return sym.Mod, nil
}

func (vm *VarMap) bind(name ast.DottedName, sym *Symbol, imported *[]ast.DottedName) error {
	if _, err := vm.Insert(ast.LocalName(name.Last()), sym.Clone()); err != nil {
		return err
	}
	*imported = append(*imported, name)
	return nil
}

func extend(name ast.DottedName, id string) ast.DottedName {
	return ast.DottedName{Ids: append(slices.Clone(name.Ids), id), Global: name.Global}
}
