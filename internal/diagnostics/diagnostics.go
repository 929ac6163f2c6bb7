// Package diagnostics holds the compiler's error and warning records.
//
// Every phase returns its diagnostics as data. Codes below 100 are warnings,
// everything else is a hard error.
package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

var ErrCompilerErrorFound = errors.New("compiler error found")

// Warnings
const (
	EMPTY_GLOB_IMPORT = 10
)

// Lexer
const (
	INVALID_CHARACTER    = 101
	UNTERMINATED_LITERAL = 102
)

// Parser
const (
	UNEXPECTED_TOP_LEVEL  = 201
	EXPECTED_MODULE_BODY  = 202
	UNEXPECTED_IN_IDENT   = 210
	CONSECUTIVE_PERIODS   = 211
	CONSECUTIVE_IDENTS    = 212
	UNEXPECTED_IN_TYPE    = 220
	EXPECTED_VAR_TYPE     = 230
	EXPECTED_SEMICOLON    = 231
	EXPECTED_VAR_VALUE    = 232
	EMPTY_VAR_DEFINITION  = 233
	UNMATCHED_OPEN_PAREN  = 240
	UNMATCHED_CLOSE_PAREN = 241
	UNMATCHED_OPEN_BRACK  = 242
	UNMATCHED_CLOSE_BRACK = 243
	UNMATCHED_OPEN_BRACE  = 244
	UNMATCHED_CLOSE_BRACE = 245
	INVALID_INT_WIDTH     = 290
)

// Declaration pass
const (
	REDEFINITION     = 301
	NOT_A_MODULE     = 302
	MERGE_CONFLICT   = 303
	UNDEFINED_IMPORT = 310
	IMPORT_NOT_MOD   = 311
)

// A missing type reuses the code of an unmatched '('.
const EXPECTED_TYPE = UNMATCHED_OPEN_PAREN

type Note struct {
	Pos     token.Pos
	Message string
}

type Diag struct {
	Code    int
	Pos     token.Pos
	Message string
	Notes   []Note
}

func New(pos token.Pos, code int, message string) *Diag {
	return &Diag{Code: code, Pos: pos, Message: message}
}

// Note attaches a secondary location to the diagnostic and returns it.
func (d *Diag) Note(pos token.Pos, message string) *Diag {
	d.Notes = append(d.Notes, Note{Pos: pos, Message: message})
	return d
}

func (d *Diag) IsWarning() bool { return d.Code < 100 }

func (d *Diag) Severity() string {
	if d.IsWarning() {
		return "warning"
	}
	return "error"
}

func (d *Diag) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s[%d]: %s: %s", d.Severity(), d.Code, d.Pos, d.Message)
	for _, note := range d.Notes {
		fmt.Fprintf(&sb, "\n  note: %s: %s", note.Pos, note.Message)
	}
	return sb.String()
}

type Collector struct {
	Diags []*Diag
}

func NewCollector() *Collector {
	return &Collector{
		Diags: nil,
	}
}

func (collector *Collector) Report(diags ...*Diag) {
	collector.Diags = append(collector.Diags, diags...)
}

func (collector *Collector) HasErrors() bool {
	for _, diag := range collector.Diags {
		if !diag.IsWarning() {
			return true
		}
	}
	return false
}

// Err returns ErrCompilerErrorFound if any hard error was reported.
func (collector *Collector) Err() error {
	if collector.HasErrors() {
		return ErrCompilerErrorFound
	}
	return nil
}

func (collector *Collector) Print(w io.Writer) {
	for _, diag := range collector.Diags {
		fmt.Fprintln(w, diag)
	}
}

func (collector *Collector) Reset() {
	collector.Diags = nil
}
