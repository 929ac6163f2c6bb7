// Package sema runs the declaration pass: it walks a parsed file and fills a
// scope tree with its modules, imports and variables.
package sema

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/lexer/token"
	"github.com/cobalt-lang/cobalt/internal/scope"
)

type Sema struct {
	collector *diagnostics.Collector
	logger    zerolog.Logger
}

func New(collector *diagnostics.Collector, logger zerolog.Logger) *Sema {
	return &Sema{collector: collector, logger: logger}
}

// Declare declares every top-level node of tl in vm. Problems are reported
// to the collector; the returned error is ErrCompilerErrorFound if any of
// them is an error.
func (s *Sema) Declare(tl *ast.TopLevel, vm *scope.VarMap) error {
	s.declare(tl.Body, vm)
	return s.collector.Err()
}

func (s *Sema) declare(nodes []*ast.Node, vm *scope.VarMap) {
	for _, node := range nodes {
		switch node.Kind {
		case ast.KIND_MODULE_DECL:
			s.declareModule(node.Node.(*ast.ModuleDecl), vm)
		case ast.KIND_IMPORT_DECL:
			s.declareImport(node.Node.(*ast.ImportDecl), vm)
		case ast.KIND_VAR_DECL:
			s.declareVar(node.Node.(*ast.VarDecl), vm)
		default:
			panic(fmt.Sprintf("unimplemented node kind: %s", node))
		}
	}
}

// declareModule builds the body in its own scope, which can still see the
// enclosing names, then detaches it and links its symbols in as a module.
func (s *Sema) declareModule(decl *ast.ModuleDecl, vm *scope.VarMap) {
	body := scope.New(vm)
	s.declare(decl.Body, body)
	body.Orphan()

	if _, err := vm.Insert(decl.Name, scope.NewModule(body.Symbols)); err != nil {
		s.reportRedef(err, decl.Name, decl.Pos)
		return
	}
	s.logger.Debug().Str("module", decl.Name.String()).Int("symbols", len(body.Symbols)).Msg("declared module")
}

func (s *Sema) declareVar(decl *ast.VarDecl, vm *scope.VarMap) {
	v := &scope.Variable{Type: decl.Type, Good: true}
	if decl.HasType && decl.Type == nil {
		// the annotation was reported as malformed
		v.Good = false
	}

	if _, err := vm.Insert(decl.Name, scope.NewVariable(v)); err != nil {
		s.reportRedef(err, decl.Name, decl.Pos)
		return
	}
	s.logger.Debug().Str("variable", decl.Name.String()).Stringer("type", v).Msg("declared variable")
}

func (s *Sema) declareImport(decl *ast.ImportDecl, vm *scope.VarMap) {
	imported, err := vm.Import(decl.Path, vm)
	for _, name := range imported {
		s.logger.Debug().Str("import", decl.Path.String()).Str("symbol", name.String()).Msg("imported symbol")
	}

	var undef *scope.UndefVariable
	switch {
	case err == nil:
		if len(imported) == 0 {
			s.collector.Report(diagnostics.New(
				decl.Pos,
				diagnostics.EMPTY_GLOB_IMPORT,
				fmt.Sprintf("import %s matched no symbols", decl.Path),
			))
		}
	case errors.As(err, &undef):
		code := diagnostics.UNDEFINED_IMPORT
		if undef.Kind == scope.UNDEF_NOT_A_MODULE {
			code = diagnostics.IMPORT_NOT_MOD
		}
		s.collector.Report(diagnostics.New(segmentPos(decl, undef.Index), code, fmt.Sprintf("cannot import %s: %s", decl.Path, err)))
		s.insertPlaceholder(decl.Path, vm)
	default:
		var redef *scope.RedefVariable
		if errors.As(err, &redef) {
			s.reportRedef(err, redef.Name, decl.Pos)
			return
		}
		s.collector.Report(diagnostics.New(decl.Pos, diagnostics.UNDEFINED_IMPORT, fmt.Sprintf("cannot import %s: %s", decl.Path, err)))
	}
}

// insertPlaceholder binds the name a failed import would have bound, so later
// uses of it are not reported again.
func (s *Sema) insertPlaceholder(path ast.CompoundDottedName, vm *scope.VarMap) {
	last, ok := path.Last()
	if !ok || last.Kind != ast.SEGMENT_IDENTIFIER {
		return
	}
	if _, err := vm.Insert(ast.LocalName(last.Name), scope.NewVariable(scope.Placeholder())); err == nil {
		s.logger.Debug().Str("name", last.Name).Msg("inserted placeholder for failed import")
	}
}

func (s *Sema) reportRedef(err error, name ast.DottedName, pos token.Pos) {
	if errors.Is(err, scope.ErrEmptyName) {
		// the parser reported the missing identifier
		return
	}

	var redef *scope.RedefVariable
	if !errors.As(err, &redef) {
		s.collector.Report(diagnostics.New(pos, diagnostics.REDEFINITION, err.Error()))
		return
	}

	if at := name.Loc(redef.Index); at.Line != 0 {
		pos = at
	}

	switch redef.Kind {
	case scope.REDEF_NOT_A_MODULE:
		s.collector.Report(diagnostics.New(pos, diagnostics.NOT_A_MODULE, err.Error()))
	case scope.REDEF_ALREADY_EXISTS:
		s.collector.Report(diagnostics.New(pos, diagnostics.REDEFINITION, fmt.Sprintf("redefinition of %s", name)))
	case scope.REDEF_MERGE_CONFLICT:
		diag := diagnostics.New(pos, diagnostics.MERGE_CONFLICT, fmt.Sprintf("conflicting definitions in module %s", name))
		for _, conflict := range redef.Conflicts {
			diag.Note(pos, fmt.Sprintf("%s.%s is already defined", name, conflict.Name))
		}
		s.collector.Report(diag)
	}
}

func segmentPos(decl *ast.ImportDecl, i int) token.Pos {
	if i < len(decl.Path.Ids) && decl.Path.Ids[i].Pos.Line != 0 {
		return decl.Path.Ids[i].Pos
	}
	return decl.Pos
}
