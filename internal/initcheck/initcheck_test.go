package initcheck

import (
	"testing"

	"github.com/minilang/minic/internal/diagnostics"
	"github.com/minilang/minic/internal/lexer"
	"github.com/minilang/minic/internal/parser"
	"github.com/minilang/minic/internal/position"
	"github.com/minilang/minic/internal/scope"
)

func diagsFor(t *testing.T, src string) []diagnostics.Diagnostic {
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

	sc := scope.New()
	sc.Analyze(program)
	if sc.Diags.HasErrors() {
		t.Fatalf("unexpected scope diagnostics: %v", sc.Diags.Diagnostics())
	}

	diags := diagnostics.NewCollector()
	New(diags).Analyze(program)
	return diags.Diagnostics()
}

func TestUseBeforeInitReported(t *testing.T) {
	diags := diagsFor(t, `int x; print x;`)
	if len(diags) != 1 || diags[0].Kind != diagnostics.UseBeforeInit {
		t.Fatalf("diags = %v, want exactly one UseBeforeInit", diags)
	}
}

func TestInitializerCountsAsInit(t *testing.T) {
	diags := diagsFor(t, `int x = 0; print x;`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestAssignmentCountsAsInit(t *testing.T) {
	diags := diagsFor(t, `int x; x = 1; print x;`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestIfBothBranchesMustInitialize(t *testing.T) {
	diags := diagsFor(t, `int x; boolean b; b = true; if (b) { x = 1; } print x;`)
	if len(diags) != 1 || diags[0].Kind != diagnostics.UseBeforeInit {
		t.Fatalf("diags = %v, want exactly one UseBeforeInit (else branch never sets x)", diags)
	}
}

func TestIfInitializedInBothBranchesIsFine(t *testing.T) {
	diags := diagsFor(t, `int x; boolean b; b = true; if (b) { x = 1; } else { x = 2; } print x;`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
}

func TestWhileBodyInitializationDoesNotCountAfterLoop(t *testing.T) {
	diags := diagsFor(t, `int x; boolean b; b = true; while (b) { x = 1; } print x;`)
	if len(diags) != 1 || diags[0].Kind != diagnostics.UseBeforeInit {
		t.Fatalf("diags = %v, want exactly one UseBeforeInit (the loop might run zero times)", diags)
	}
}

func TestLogicalAndShortCircuitSkipsRightSideDiagnostics(t *testing.T) {
	// y is never initialized, but since LAnd only analyzes its left
	// operand for initialization purposes, the right side's use of y
	// must not be reported.
	diags := diagsFor(t, `boolean a; boolean y; a = false; if (a && y) print 1; else print 2;`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v (right side of && must not be analyzed)", diags)
	}
}
