package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/codegen/llvm"
	"github.com/cobalt-lang/cobalt/internal/config"
	"github.com/cobalt-lang/cobalt/internal/diagnostics"
	"github.com/cobalt-lang/cobalt/internal/lexer"
	"github.com/cobalt-lang/cobalt/internal/libarchive"
	"github.com/cobalt-lang/cobalt/internal/parser"
	"github.com/cobalt-lang/cobalt/internal/scope"
	"github.com/cobalt-lang/cobalt/internal/sema"
)

const VERSION = "0.1.0"

func main() {
	args, err := cli(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	level := zerolog.InfoLevel
	if args.Verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	switch args.Command {
	case COMMAND_HELP:
		fmt.Print(HELP_COMMAND)
		return
	case COMMAND_VERSION:
		fmt.Printf("cobalt %s\n", VERSION)
		return
	}

	envs, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	d := &driver{
		args:   args,
		envs:   envs,
		logger: logger,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	if args.Watch {
		err = d.watch()
	} else {
		err = d.run()
	}
	if errors.Is(err, diagnostics.ErrCompilerErrorFound) {
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}

type driver struct {
	args   CliResult
	envs   *config.Envs
	logger zerolog.Logger

	stdout io.Writer
	stderr io.Writer
}

// run executes the command once. Diagnostics go to stderr; the returned error
// is ErrCompilerErrorFound when any of them is an error.
func (d *driver) run() error {
	collector := diagnostics.NewCollector()
	defer collector.Print(d.stderr)

	switch d.args.Command {
	case COMMAND_ENV:
		d.envs.ShowAll(d.stdout)
		return nil
	case COMMAND_LEX:
		return d.lex(collector)
	case COMMAND_PARSE:
		return d.parse(collector)
	case COMMAND_CHECK:
		return d.check(collector)
	case COMMAND_EMIT_LLVM:
		return d.emitLLVM(collector)
	case COMMAND_LIB:
		return d.lib(collector)
	}
	return fmt.Errorf("unhandled command %d", d.args.Command)
}

func (d *driver) lex(collector *diagnostics.Collector) error {
	lex, err := lexer.NewFromFilePath(d.args.Path, collector)
	if err != nil {
		return err
	}
	toks, _ := lex.Tokenize()
	for _, tok := range toks {
		fmt.Fprintf(d.stdout, "%s: %s\n", tok.Pos, tok)
	}
	return collector.Err()
}

func (d *driver) parse(collector *diagnostics.Collector) error {
	tl, err := d.parseFile(collector)
	if err != nil {
		return err
	}
	if d.args.Dump {
		spew.Fdump(d.stdout, tl)
	} else {
		printNodes(d.stdout, tl.Body, 0)
	}
	return collector.Err()
}

// frontend parses the file and declares its symbols in a fresh root scope,
// preloaded with the requested libraries. It stops early on errors unless
// -continue was given.
func (d *driver) frontend(collector *diagnostics.Collector) (*scope.VarMap, error) {
	tl, err := d.parseFile(collector)
	if err != nil {
		return nil, err
	}
	if err := d.stopOnErrors(collector); err != nil {
		return nil, err
	}

	root := scope.New(nil)
	if err := d.loadLibraries(root); err != nil {
		return nil, err
	}

	if err := sema.New(collector, d.logger).Declare(tl, root); err != nil && !d.args.Continue {
		return nil, err
	}
	return root, nil
}

func (d *driver) check(collector *diagnostics.Collector) error {
	root, err := d.frontend(collector)
	if err != nil {
		return err
	}
	if d.args.Symbols {
		fmt.Fprint(d.stdout, root.Symbols)
	}
	return collector.Err()
}

func (d *driver) emitLLVM(collector *diagnostics.Collector) error {
	root, err := d.frontend(collector)
	if err != nil {
		return err
	}

	cg := llvm.NewCG(moduleName(d.args.Path))
	defer cg.Dispose()
	for _, name := range cg.DeclareGlobals(root) {
		d.logger.Warn().Str("variable", name).Msg("type has no LLVM representation, no global emitted")
	}

	generate := func(w io.Writer) error { return cg.Generate(w, d.args.BuildType) }
	if d.args.Output == "" {
		err = generate(d.stdout)
	} else {
		err = writeFile(d.args.Output, generate)
	}
	if err != nil {
		return err
	}
	return collector.Err()
}

// writeFile creates path and fills it with write. The file is always closed
// and a failed close is reported like a failed write.
func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (d *driver) lib(collector *diagnostics.Collector) error {
	version, err := semver.NewVersion(d.args.LibVersion)
	if err != nil {
		return fmt.Errorf("library version %q: %w", d.args.LibVersion, err)
	}

	// libraries are never built from a file with errors
	d.args.Continue = false
	root, err := d.frontend(collector)
	if err != nil {
		return err
	}

	cg := llvm.NewCG(d.args.LibName)
	defer cg.Dispose()
	cg.DeclareGlobals(root)
	if d.args.BuildType == config.DEBUG {
		if err := cg.Generate(io.Discard, config.DEBUG); err != nil {
			return err
		}
	}

	lib := &libarchive.Library{
		Name:    d.args.LibName,
		Version: version,
		Links:   d.args.Links,
		Symbols: root.Symbols,
		Object:  cg.Bitcode(),
	}

	dir := d.args.Output
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, lib.FileName())
	if err := libarchive.Save(path, lib); err != nil {
		return err
	}
	d.logger.Info().Str("path", path).Msg("library written")
	return nil
}

func (d *driver) parseFile(collector *diagnostics.Collector) (*ast.TopLevel, error) {
	lex, err := lexer.NewFromFilePath(d.args.Path, collector)
	if err != nil {
		return nil, err
	}
	toks, _ := lex.Tokenize()
	if err := d.stopOnErrors(collector); err != nil {
		return nil, err
	}

	tl, diags := parser.Parse(toks)
	collector.Report(diags...)
	d.logger.Debug().Str("file", d.args.Path).Int("tokens", len(toks)).Int("declarations", len(tl.Body)).Msg("parsed")
	return tl, nil
}

func (d *driver) stopOnErrors(collector *diagnostics.Collector) error {
	if d.args.Continue {
		return nil
	}
	return collector.Err()
}

// loadLibraries declares each library requested with -use as a module named
// after the library.
func (d *driver) loadLibraries(root *scope.VarMap) error {
	if len(d.args.Uses) == 0 {
		return nil
	}

	finder := libarchive.NewFinder(d.envs.LibPaths(), d.logger)
	for _, use := range d.args.Uses {
		lib, err := finder.Find(libarchive.ParseRequirement(use))
		if err != nil {
			return err
		}
		if _, err := root.Insert(ast.LocalName(lib.Name), scope.NewModule(lib.Symbols)); err != nil {
			return fmt.Errorf("loading library %s: %w", lib.Name, err)
		}
		d.logger.Debug().Str("library", lib.Name).Stringer("version", lib.Version).Msg("loaded library")
	}
	return nil
}

func moduleName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func printNodes(w io.Writer, nodes []*ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, node := range nodes {
		switch node.Kind {
		case ast.KIND_MODULE_DECL:
			decl := node.Node.(*ast.ModuleDecl)
			fmt.Fprintf(w, "%s%s: module %s\n", indent, decl.Pos, decl.Name)
			printNodes(w, decl.Body, depth+1)
		case ast.KIND_IMPORT_DECL:
			decl := node.Node.(*ast.ImportDecl)
			fmt.Fprintf(w, "%s%s: import %s\n", indent, decl.Pos, decl.Path)
		case ast.KIND_VAR_DECL:
			decl := node.Node.(*ast.VarDecl)
			fmt.Fprintf(w, "%s%s: %s\n", indent, decl.Pos, decl)
		}
	}
}
