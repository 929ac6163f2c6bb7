package scope

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cobalt-lang/cobalt/internal/ast"
)

var (
	ErrDoesNotExist  = errors.New("does not exist")
	ErrNotAModule    = errors.New("is not a module")
	ErrAlreadyExists = errors.New("already exists")
	ErrMergeConflict = errors.New("conflicts with an existing module")
	ErrEmptyName     = errors.New("empty name")
)

type UndefKind int

const (
	UNDEF_NOT_A_MODULE UndefKind = iota
	UNDEF_DOES_NOT_EXIST
)

// UndefVariable is returned by a failed lookup. Index is the position of the
// segment of Name that could not be resolved.
type UndefVariable struct {
	Kind  UndefKind
	Index int
	Name  ast.DottedName
}

func (err *UndefVariable) Error() string {
	return fmt.Sprintf("%s %s", prefixOf(err.Name, err.Index), err.Unwrap())
}

func (err *UndefVariable) Unwrap() error {
	if err.Kind == UNDEF_NOT_A_MODULE {
		return ErrNotAModule
	}
	return ErrDoesNotExist
}

type RedefKind int

const (
	REDEF_NOT_A_MODULE RedefKind = iota
	REDEF_ALREADY_EXISTS
	REDEF_MERGE_CONFLICT
)

// RedefVariable is returned by a failed insert. Symbol is the symbol that
// was not inserted. Conflicts is only set for REDEF_MERGE_CONFLICT.
type RedefVariable struct {
	Kind      RedefKind
	Index     int
	Name      ast.DottedName
	Symbol    *Symbol
	Conflicts []Conflict
}

func (err *RedefVariable) Error() string {
	msg := fmt.Sprintf("%s %s", prefixOf(err.Name, err.Index), err.Unwrap())
	if err.Kind != REDEF_MERGE_CONFLICT {
		return msg
	}
	names := make([]string, len(err.Conflicts))
	for i, conflict := range err.Conflicts {
		names[i] = conflict.Name.String()
	}
	return msg + ": " + strings.Join(names, ", ")
}

func (err *RedefVariable) Unwrap() error {
	switch err.Kind {
	case REDEF_NOT_A_MODULE:
		return ErrNotAModule
	case REDEF_ALREADY_EXISTS:
		return ErrAlreadyExists
	}
	return ErrMergeConflict
}

// Conflict is a symbol that could not be merged, addressed by its name
// relative to the module being merged into.
type Conflict struct {
	Name   ast.DottedName
	Symbol *Symbol
}

// prefixOf renders name up to and including segment i.
func prefixOf(name ast.DottedName, i int) string {
	if i >= len(name.Ids) {
		return name.String()
	}
	return ast.DottedName{Ids: name.Ids[:i+1], Global: name.Global}.String()
}
