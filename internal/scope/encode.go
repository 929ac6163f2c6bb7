package scope

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/cobalt-lang/cobalt/internal/ast"
	"github.com/cobalt-lang/cobalt/internal/lexer"
	"github.com/cobalt-lang/cobalt/internal/parser"
)

var ErrMalformedSymbols = errors.New("malformed symbol table")

// Field numbers of the encoded records. A module is a sequence of record
// fields; a record describes one symbol.
const (
	fieldRecord protowire.Number = 1

	fieldName     protowire.Number = 1
	fieldKind     protowire.Number = 2
	fieldType     protowire.Number = 3
	fieldGood     protowire.Number = 4
	fieldChildren protowire.Number = 5
)

const typeSource = "<symbols>"

// Encode serializes mod with the protobuf wire format. Types are stored in
// source form; compiled and interpreted values are not persisted.
func Encode(mod Module) []byte {
	var b []byte
	for _, key := range mod.Keys() {
		b = protowire.AppendTag(b, fieldRecord, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeRecord(key, mod[key]))
	}
	return b
}

func encodeRecord(name string, sym *Symbol) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, name)
	b = protowire.AppendTag(b, fieldKind, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(sym.Kind))

	switch sym.Kind {
	case SYMBOL_VARIABLE:
		if sym.Var.Type != nil {
			b = protowire.AppendTag(b, fieldType, protowire.BytesType)
			b = protowire.AppendString(b, sym.Var.Type.String())
		}
		b = protowire.AppendTag(b, fieldGood, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(sym.Var.Good))
	case SYMBOL_MODULE:
		b = protowire.AppendTag(b, fieldChildren, protowire.BytesType)
		b = protowire.AppendBytes(b, Encode(sym.Mod))
	}
	return b
}

// Decode reverses Encode. Unknown fields are skipped.
func Decode(b []byte) (Module, error) {
	mod := Module{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		b = b[n:]

		if num != fieldRecord || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, malformed(protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		record, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, malformed(protowire.ParseError(n))
		}
		b = b[n:]

		name, sym, err := decodeRecord(record)
		if err != nil {
			return nil, err
		}
		if _, ok := mod[name]; ok {
			return nil, malformed(fmt.Errorf("duplicate symbol %q", name))
		}
		mod[name] = sym
	}
	return mod, nil
}

func decodeRecord(b []byte) (string, *Symbol, error) {
	var name, typeText string
	var kind SymbolKind
	var good, hasType bool
	var children Module

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", nil, malformed(protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldName && typ == protowire.BytesType:
			name, n = protowire.ConsumeString(b)
		case num == fieldKind && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			kind = SymbolKind(v)
		case num == fieldType && typ == protowire.BytesType:
			typeText, n = protowire.ConsumeString(b)
			hasType = true
		case num == fieldGood && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			good = protowire.DecodeBool(v)
		case num == fieldChildren && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				var err error
				if children, err = Decode(v); err != nil {
					return "", nil, err
				}
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return "", nil, malformed(protowire.ParseError(n))
		}
		b = b[n:]
	}

	if name == "" {
		return "", nil, malformed(errors.New("symbol without a name"))
	}

	switch kind {
	case SYMBOL_MODULE:
		return name, NewModule(children), nil
	case SYMBOL_VARIABLE:
		v := &Variable{Good: good}
		if hasType {
			ty, err := parseType(typeText)
			if err != nil {
				return "", nil, malformed(fmt.Errorf("symbol %q: %w", name, err))
			}
			v.Type = ty
		}
		return name, NewVariable(v), nil
	}
	return "", nil, malformed(fmt.Errorf("symbol %q has unknown kind %d", name, kind))
}

// parseType reads back a type written by ParsedType.String.
func parseType(text string) (*ast.ParsedType, error) {
	toks, diags := lexer.Lex(typeSource, text)
	if len(diags) > 0 {
		return nil, fmt.Errorf("type %q: %s", text, diags[0].Message)
	}
	ty, n, diags := parser.ParseType(toks, "")
	if len(diags) > 0 {
		return nil, fmt.Errorf("type %q: %s", text, diags[0].Message)
	}
	if ty == nil || n != len(toks)+1 {
		return nil, fmt.Errorf("type %q is not a single type", text)
	}
	return ty, nil
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedSymbols, err)
}
