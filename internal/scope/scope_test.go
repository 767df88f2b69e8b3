package scope

import (
	"testing"

	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/diagnostics"
	"github.com/minilang/minic/internal/lexer"
	"github.com/minilang/minic/internal/parser"
	"github.com/minilang/minic/internal/position"
)

func parseSrc(t *testing.T, src string) *ast.Block {
	t.Helper()
	sf := position.NewSourceFile("test.mini", src)
	lx := lexer.New(sf)
	p, err := parser.New(lx)
	if err != nil {
		t.Fatalf("lexer/parser setup: %v", err)
	}
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program
}

func TestResolvesDeclaredIdentifier(t *testing.T) {
	program := parseSrc(t, `int x; x = 1;`)
	a := New()
	a.Analyze(program)
	if a.Diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", a.Diags.Diagnostics())
	}
}

func TestUndeclaredIdentifierReported(t *testing.T) {
	program := parseSrc(t, `print x;`)
	a := New()
	a.Analyze(program)
	diags := a.Diags.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != diagnostics.UndeclaredId {
		t.Fatalf("diags = %v, want exactly one UndeclaredId", diags)
	}
}

func TestDuplicateDeclarationReported(t *testing.T) {
	program := parseSrc(t, `int x; int x;`)
	a := New()
	a.Analyze(program)
	diags := a.Diags.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != diagnostics.DuplicateDecl {
		t.Fatalf("diags = %v, want exactly one DuplicateDecl", diags)
	}
}

func TestNestedBlockShadowingIsNotDuplicate(t *testing.T) {
	program := parseSrc(t, `int x; { int x; x = 1; } x = 2;`)
	a := New()
	a.Analyze(program)
	if a.Diags.HasErrors() {
		t.Fatalf("shadowing in a nested block must not be reported as duplicate: %v", a.Diags.Diagnostics())
	}
}
