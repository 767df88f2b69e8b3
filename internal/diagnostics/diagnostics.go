// Package diagnostics implements the shared error collector that scope,
// type and initialization analysis report into (spec.md §2: "Phases
// 1-3 share an error-collector"), plus formatting for the CLI.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/minilang/minic/internal/position"
)

// Kind is the fixed diagnostic taxonomy from spec.md §7.
type Kind int

const (
	InvalidLValue Kind = iota
	DuplicateDecl
	UndeclaredId
	TypeMismatch
	UseBeforeInit
	InternalError
)

// code returns the short CLI-facing error code for a Kind.
func (k Kind) code() string {
	switch k {
	case InvalidLValue:
		return "E-LVAL"
	case DuplicateDecl:
		return "E-DUPDECL"
	case UndeclaredId:
		return "E-UNDECL"
	case TypeMismatch:
		return "E-TYPE"
	case UseBeforeInit:
		return "E-UNINIT"
	case InternalError:
		return "E-INTERNAL"
	default:
		return "E-UNKNOWN"
	}
}

func (k Kind) String() string {
	switch k {
	case InvalidLValue:
		return "invalid lvalue"
	case DuplicateDecl:
		return "duplicate declaration"
	case UndeclaredId:
		return "undeclared identifier"
	case TypeMismatch:
		return "type mismatch"
	case UseBeforeInit:
		return "use before initialization"
	case InternalError:
		return "internal error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported failure, tied to a source position.
type Diagnostic struct {
	Kind    Kind
	Pos     position.Position
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: error[%s]: %s", d.Pos, d.Kind.code(), d.Message)
}

// Collector accumulates diagnostics within a phase. Reporting never
// aborts the walk in progress: callers substitute a plausible default
// (an error-entry binding, the expected type) and keep going, exactly
// as spec.md §7 prescribes, so that one fault does not cascade.
type Collector struct {
	diags []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector { return &Collector{} }

// Report appends a diagnostic.
func (c *Collector) Report(kind Kind, pos position.Position, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic was recorded. The driver
// consults this between phases to decide whether to proceed to codegen.
func (c *Collector) HasErrors() bool { return len(c.diags) > 0 }

// Diagnostics returns all recorded diagnostics in report order.
func (c *Collector) Diagnostics() []Diagnostic { return c.diags }

// Format renders all diagnostics one per line, each with a source
// context line and caret when src is available. width, if positive,
// truncates the source line to that many columns (see
// internal/termwidth); the rest of a longer line is not shown.
func Format(diags []Diagnostic, src *position.SourceFile, width int) string {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(d.String())
		b.WriteByte('\n')
		line := src.Line(d.Pos.Line)
		if line != "" {
			if width > 0 && len(line) > width {
				line = line[:width]
			}
			fmt.Fprintf(&b, "  %4d | %s\n", d.Pos.Line, line)
			col := d.Pos.Column
			if col < 1 {
				col = 1
			}
			b.WriteString("       | ")
			b.WriteString(strings.Repeat(" ", col-1))
			b.WriteString("^\n")
		}
	}
	return b.String()
}
