package ast

import (
	"strings"

	"github.com/cobalt-lang/cobalt/internal/lexer/token"
)

// DottedName is a plain path such as "a.b.c". Global names (".a.b") are
// resolved from the root namespace and skip every enclosing scope.
type DottedName struct {
	Ids    []string
	Global bool
	Locs   []token.Pos // one per segment, may be empty for synthesized names
}

func NewDottedName(global bool, ids ...string) DottedName {
	return DottedName{Ids: ids, Global: global}
}

// LocalName is a single-segment, non-global name.
func LocalName(id string) DottedName {
	return DottedName{Ids: []string{id}}
}

func (name *DottedName) Push(id string, pos token.Pos) {
	name.Ids = append(name.Ids, id)
	name.Locs = append(name.Locs, pos)
}

// Loc returns the location of the i-th segment, or the zero Pos.
func (name DottedName) Loc(i int) token.Pos {
	if i < 0 || i >= len(name.Locs) {
		return token.Pos{}
	}
	return name.Locs[i]
}

func (name DottedName) IsEmpty() bool { return len(name.Ids) == 0 }

// Prepend returns a copy of name with id inserted as its first segment.
func (name DottedName) Prepend(id string) DottedName {
	ids := make([]string, 0, len(name.Ids)+1)
	ids = append(ids, id)
	ids = append(ids, name.Ids...)
	return DottedName{Ids: ids, Global: name.Global}
}

func (name DottedName) Last() string {
	if len(name.Ids) == 0 {
		return ""
	}
	return name.Ids[len(name.Ids)-1]
}

func (name DottedName) String() string {
	joined := strings.Join(name.Ids, ".")
	if name.Global {
		return "." + joined
	}
	return joined
}

// Compound converts the name into an import path made of identifiers only.
func (name DottedName) Compound() CompoundDottedName {
	out := CompoundDottedName{Global: name.Global}
	for i, id := range name.Ids {
		out.Ids = append(out.Ids, Segment{Kind: SEGMENT_IDENTIFIER, Name: id, Pos: name.Loc(i)})
	}
	return out
}

type SegmentKind int

const (
	SEGMENT_IDENTIFIER SegmentKind = iota
	SEGMENT_GLOB
	SEGMENT_GROUP
)

func (kind SegmentKind) String() string {
	switch kind {
	case SEGMENT_IDENTIFIER:
		return "identifier"
	case SEGMENT_GLOB:
		return "glob"
	case SEGMENT_GROUP:
		return "group"
	}
	return "unknown"
}

// Segment is one component of an import path.
//
// For SEGMENT_GLOB, Name holds the segment's literal text including its '*'
// characters: "*" for a bare wildcard, "ba*" when the wildcard absorbed the
// identifier "ba".
type Segment struct {
	Kind  SegmentKind
	Name  string
	Group []CompoundDottedName
	Pos   token.Pos
}

func Identifier(name string) Segment { return Segment{Kind: SEGMENT_IDENTIFIER, Name: name} }
func Glob(pattern string) Segment    { return Segment{Kind: SEGMENT_GLOB, Name: pattern} }
func Group(paths ...CompoundDottedName) Segment {
	return Segment{Kind: SEGMENT_GROUP, Group: paths}
}

// Prefix is the literal text a glob segment requires names to start with.
func (seg Segment) Prefix() string {
	if seg.Kind != SEGMENT_GLOB {
		return seg.Name
	}
	if i := strings.IndexByte(seg.Name, '*'); i >= 0 {
		return seg.Name[:i]
	}
	return seg.Name
}

func (seg Segment) String() string {
	if seg.Kind != SEGMENT_GROUP {
		return seg.Name
	}
	parts := make([]string, len(seg.Group))
	for i, path := range seg.Group {
		parts[i] = path.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// CompoundDottedName is an import path: identifiers, globs and groups.
type CompoundDottedName struct {
	Ids    []Segment
	Global bool
}

func NewCompoundDottedName(global bool, ids ...Segment) CompoundDottedName {
	return CompoundDottedName{Ids: ids, Global: global}
}

func (name CompoundDottedName) Last() (Segment, bool) {
	if len(name.Ids) == 0 {
		return Segment{}, false
	}
	return name.Ids[len(name.Ids)-1], true
}

func (name CompoundDottedName) String() string {
	parts := make([]string, len(name.Ids))
	for i, seg := range name.Ids {
		parts[i] = seg.String()
	}
	joined := strings.Join(parts, ".")
	if name.Global {
		return "." + joined
	}
	return joined
}
