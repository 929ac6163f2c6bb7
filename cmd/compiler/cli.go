package main

import (
	"fmt"
	"strings"

	"github.com/cobalt-lang/cobalt/internal/config"
)

type Command int

const (
	COMMAND_HELP Command = iota
	COMMAND_VERSION
	COMMAND_ENV
	COMMAND_LEX
	COMMAND_PARSE
	COMMAND_CHECK
	COMMAND_EMIT_LLVM
	COMMAND_LIB
)

var commands = map[string]Command{
	"help":      COMMAND_HELP,
	"version":   COMMAND_VERSION,
	"env":       COMMAND_ENV,
	"lex":       COMMAND_LEX,
	"parse":     COMMAND_PARSE,
	"check":     COMMAND_CHECK,
	"emit-llvm": COMMAND_EMIT_LLVM,
	"lib":       COMMAND_LIB,
}

type CliResult struct {
	Command   Command
	BuildType config.BuildType
	Path      string
	Output    string

	Verbose  bool
	Continue bool
	Watch    bool
	Dump     bool
	Symbols  bool

	Uses []string // "name@constraint" of libraries to load

	LibName    string
	LibVersion string
	Links      []string
}

var HELP_COMMAND string = `Cobalt - compiler front-end for the Cobalt programming language.

Usage:
  cobalt <command> [arguments]

Available Commands:
  lex <file>                         Print the tokens of a file
  parse <file> [-dump]               Print the declarations of a file
      -dump         Dump the whole syntax tree

  check <file> [flags]               Parse a file and declare its symbols
      -symbols      Print the resulting symbol table
      -use lib@ver  Load a library from CO_LIBS first (repeatable)
      -continue     Keep going after errors
      -watch        Check again whenever the file changes

  emit-llvm <file> [-o out.ll] [-release] [-debug]
                                     Write the LLVM IR of the file's globals

  lib <file> -name <name> -version <semver> [-link lib] [-o dir]
                                     Package the file as a library archive

  env                                Show environment information
  version                            Show the compiler version
  help                               Show this help message

Flags accepted by every command:
  -v                                 Verbose logging

Examples:
  cobalt check main.co -symbols
  cobalt check main.co -use std@^1.0 -watch
  cobalt emit-llvm main.co -o main.ll -release
  cobalt lib io.co -name io -version 0.2.0 -link c
`

// flag names a command accepts, mapped to whether they take a value
var commandFlags = map[Command]map[string]bool{
	COMMAND_LEX:       {},
	COMMAND_PARSE:     {"-dump": false},
	COMMAND_CHECK:     {"-symbols": false, "-use": true, "-continue": false, "-watch": false},
	COMMAND_EMIT_LLVM: {"-use": true, "-continue": false, "-o": true, "-release": false, "-debug": false},
	COMMAND_LIB:       {"-use": true, "-o": true, "-release": false, "-debug": false, "-name": true, "-version": true, "-link": true},
}

func cli(args []string) (CliResult, error) {
	result := CliResult{BuildType: config.DEBUG}

	if len(args) == 0 {
		result.Command = COMMAND_HELP
		return result, nil
	}

	command, ok := commands[args[0]]
	if !ok {
		return result, fmt.Errorf("unknown command %q, run 'cobalt help' for usage", args[0])
	}
	result.Command = command

	allowed, takesFile := commandFlags[command]
	releaseBuildSet, debugBuildSet := false, false

	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]

		if arg == "-v" {
			result.Verbose = true
			continue
		}
		if !strings.HasPrefix(arg, "-") {
			if !takesFile || result.Path != "" {
				return result, fmt.Errorf("unexpected argument %q", arg)
			}
			result.Path = arg
			continue
		}

		takesValue, ok := allowed[arg]
		if !ok {
			return result, fmt.Errorf("unknown flag %q for command '%s'", arg, args[0])
		}

		var value string
		if takesValue {
			if i+1 == len(rest) {
				return result, fmt.Errorf("flag %s expects a value", arg)
			}
			i++
			value = rest[i]
		}

		switch arg {
		case "-dump":
			result.Dump = true
		case "-symbols":
			result.Symbols = true
		case "-continue":
			result.Continue = true
		case "-watch":
			result.Watch = true
		case "-use":
			result.Uses = append(result.Uses, value)
		case "-o":
			result.Output = value
		case "-release":
			releaseBuildSet = true
			result.BuildType = config.RELEASE
		case "-debug":
			debugBuildSet = true
			result.BuildType = config.DEBUG
		case "-name":
			result.LibName = value
		case "-version":
			result.LibVersion = value
		case "-link":
			result.Links = append(result.Links, value)
		}
	}

	if releaseBuildSet && debugBuildSet {
		return result, fmt.Errorf("choose either -release or -debug, not both")
	}
	if takesFile && result.Path == "" {
		return result, fmt.Errorf("command '%s' expects a file", args[0])
	}
	if command == COMMAND_LIB && (result.LibName == "" || result.LibVersion == "") {
		return result, fmt.Errorf("command 'lib' requires -name and -version")
	}
	return result, nil
}
