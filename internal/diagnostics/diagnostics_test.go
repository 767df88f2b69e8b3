package diagnostics

import (
	"strings"
	"testing"

	"github.com/minilang/minic/internal/position"
)

func TestCollectorAccumulatesInReportOrder(t *testing.T) {
	c := NewCollector()
	if c.HasErrors() {
		t.Fatalf("a fresh collector must have no errors")
	}
	pos1 := position.Position{Filename: "a.mini", Line: 1, Column: 1}
	pos2 := position.Position{Filename: "a.mini", Line: 2, Column: 3}
	c.Report(UndeclaredId, pos1, "%q is not declared", "x")
	c.Report(TypeMismatch, pos2, "expected %s, found %s", "int", "boolean")

	if !c.HasErrors() {
		t.Fatalf("collector should report errors after Report calls")
	}
	diags := c.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("len(diags) = %d, want 2", len(diags))
	}
	if diags[0].Kind != UndeclaredId || diags[0].Message != `"x" is not declared` {
		t.Fatalf("diags[0] = %+v, unexpected", diags[0])
	}
	if diags[1].Kind != TypeMismatch || diags[1].Message != "expected int, found boolean" {
		t.Fatalf("diags[1] = %+v, unexpected", diags[1])
	}
}

func TestDiagnosticStringIncludesPositionAndCode(t *testing.T) {
	d := Diagnostic{
		Kind:    DuplicateDecl,
		Pos:     position.Position{Filename: "a.mini", Line: 5, Column: 2},
		Message: `"x" is already declared`,
	}
	s := d.String()
	if !strings.Contains(s, "E-DUPDECL") {
		t.Fatalf("String() = %q, want it to contain the E-DUPDECL code", s)
	}
	if !strings.Contains(s, `"x" is already declared`) {
		t.Fatalf("String() = %q, want it to contain the message", s)
	}
}

func TestFormatRendersSourceLineAndCaret(t *testing.T) {
	sf := position.NewSourceFile("a.mini", "int x;\nprint y;\n")
	c := NewCollector()
	c.Report(UndeclaredId, position.Position{Filename: "a.mini", Line: 2, Column: 7}, `"y" is not declared`)

	out := Format(c.Diagnostics(), sf, 0)
	if !strings.Contains(out, "print y;") {
		t.Fatalf("Format() = %q, want the offending source line rendered", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("Format() = %q, want a caret marker", out)
	}
}

func TestFormatTruncatesLongLinesToWidth(t *testing.T) {
	longLine := strings.Repeat("x", 200)
	sf := position.NewSourceFile("a.mini", longLine+"\n")
	c := NewCollector()
	c.Report(InternalError, position.Position{Filename: "a.mini", Line: 1, Column: 1}, "boom")

	out := Format(c.Diagnostics(), sf, 40)
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimPrefix(line, "  ")
		if strings.HasPrefix(strings.TrimSpace(trimmed), "1 |") {
			content := strings.TrimSpace(strings.SplitN(trimmed, "|", 2)[1])
			if len(content) > 40 {
				t.Fatalf("source line in Format() output was not truncated to width: len=%d", len(content))
			}
		}
	}
}
