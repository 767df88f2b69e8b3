// Package position provides source coordinate tracking for the mini
// compiler: an opaque Position attached to every AST node, plus the
// SourceFile machinery diagnostics use to slice context lines.
package position

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Position is a single point in source code. It is never mutated after
// construction.
type Position struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based
	Offset   int // 0-based byte offset
}

// IsValid reports whether p was actually set by a lexer rather than left zero.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// String renders p as "file:line:col", matching spec.md's coordString.
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// CoordString is an alias for String, named after spec.md's vocabulary.
func (p Position) CoordString() string { return p.String() }

// Before reports whether p comes strictly before other in the same file.
func (p Position) Before(other Position) bool {
	if p.Filename != other.Filename {
		return p.Filename < other.Filename
	}
	return p.Offset < other.Offset
}

// SourceFile holds the content of a single source file for context lookups.
type SourceFile struct {
	Filename string
	Content  string
	lines    []string
}

// NewSourceFile splits content into lines once, up front.
func NewSourceFile(filename, content string) *SourceFile {
	return &SourceFile{Filename: filename, Content: content, lines: strings.Split(content, "\n")}
}

// Line returns the given 1-based line, or "" if out of range.
func (sf *SourceFile) Line(n int) string {
	if sf == nil || n < 1 || n > len(sf.lines) {
		return ""
	}
	return sf.lines[n-1]
}

// LineCount returns the number of lines in the file.
func (sf *SourceFile) LineCount() int {
	if sf == nil {
		return 0
	}
	return len(sf.lines)
}
