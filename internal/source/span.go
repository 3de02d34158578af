package source

import (
	"fmt"
)

// FileID identifies the AST file a span belongs to. Zero means "unknown".
type FileID uint32

// Pos is a human-readable position reported by the front end.
type Pos struct {
	Line uint32 // 1-based, 0 if unknown
	Col  uint32 // 1-based, 0 if unknown
}

func (p Pos) IsValid() bool {
	return p.Line != 0
}

// Less reports whether p comes strictly before other.
func (p Pos) Less(other Pos) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span covers [Start, End) in the program text.
// The tree is built outside this module, so spans are optional metadata.
type Span struct {
	File  FileID
	Start Pos
	End   Pos
}

func (s Span) Empty() bool {
	return !s.Start.IsValid()
}

func (s Span) String() string {
	if s.Empty() {
		return "?"
	}
	if !s.End.IsValid() || s.End == s.Start {
		return s.Start.String()
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if other.Empty() {
		return s
	}
	if s.Empty() {
		return other
	}
	if s.File != other.File {
		return s
	}
	if other.Start.Less(s.Start) {
		s.Start = other.Start
	}
	if s.End.Less(other.End) {
		s.End = other.End
	}
	return s
}

// At builds a single-point span.
func At(line, col uint32) Span {
	p := Pos{Line: line, Col: col}
	return Span{Start: p, End: p}
}
