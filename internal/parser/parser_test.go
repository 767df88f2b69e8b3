package parser

import (
	"testing"

	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/lexer"
	"github.com/minilang/minic/internal/position"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	sf := position.NewSourceFile("test.mini", src+";")
	lx := lexer.New(sf)
	p, err := New(lx)
	if err != nil {
		t.Fatalf("lexer/parser setup: %v", err)
	}
	e, err := p.expr()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return e
}

func TestMultiplicationBindsTighterThanAddition(t *testing.T) {
	e := parseExpr(t, `1 + 2 * 3`)
	add, ok := e.(*ast.Add)
	if !ok {
		t.Fatalf("e = %#v, want an Add at the top", e)
	}
	if _, ok := add.Left.(*ast.IntLit); !ok {
		t.Fatalf("add.Left = %#v, want IntLit(1)", add.Left)
	}
	if _, ok := add.Right.(*ast.Mul); !ok {
		t.Fatalf("add.Right = %#v, want a Mul node (2 * 3)", add.Right)
	}
}

func TestAdditionIsLeftAssociative(t *testing.T) {
	e := parseExpr(t, `1 - 2 - 3`)
	outer, ok := e.(*ast.Sub)
	if !ok {
		t.Fatalf("e = %#v, want a Sub at the top", e)
	}
	inner, ok := outer.Left.(*ast.Sub)
	if !ok {
		t.Fatalf("outer.Left = %#v, want a Sub node ((1 - 2) - 3 groups left)", outer.Left)
	}
	if lit, ok := inner.Left.(*ast.IntLit); !ok || lit.Value != 1 {
		t.Fatalf("inner.Left = %#v, want IntLit(1)", inner.Left)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	e := parseExpr(t, `(1 + 2) * 3`)
	if _, ok := e.(*ast.Mul); !ok {
		t.Fatalf("e = %#v, want a Mul at the top", e)
	}
}

func TestAssignmentIsRightAssociativeAndLowestPrecedence(t *testing.T) {
	e := parseExpr(t, `x = y = 1 + 2`)
	outer, ok := e.(*ast.Assign)
	if !ok {
		t.Fatalf("e = %#v, want an Assign at the top", e)
	}
	if outer.LHS.Name != "x" {
		t.Fatalf("outer.LHS.Name = %q, want x", outer.LHS.Name)
	}
	inner, ok := outer.RHS.(*ast.Assign)
	if !ok {
		t.Fatalf("outer.RHS = %#v, want a nested Assign (y = 1 + 2)", outer.RHS)
	}
	if inner.LHS.Name != "y" {
		t.Fatalf("inner.LHS.Name = %q, want y", inner.LHS.Name)
	}
}

func TestLogicalOperatorPrecedenceOrLooserThanAnd(t *testing.T) {
	e := parseExpr(t, `true || false && true`)
	or, ok := e.(*ast.LOr)
	if !ok {
		t.Fatalf("e = %#v, want an LOr at the top", e)
	}
	if _, ok := or.Right.(*ast.LAnd); !ok {
		t.Fatalf("or.Right = %#v, want an LAnd node", or.Right)
	}
}

func TestInvalidLValueIsRejectedAtConstructionTime(t *testing.T) {
	sf := position.NewSourceFile("test.mini", `1 = 2;`)
	lx := lexer.New(sf)
	p, err := New(lx)
	if err != nil {
		t.Fatalf("lexer/parser setup: %v", err)
	}
	_, err = p.expr()
	if err == nil {
		t.Fatalf("expected an LValueError for an integer literal on the left of =")
	}
	if _, ok := err.(*ast.LValueError); !ok {
		t.Fatalf("err = %v (%T), want *ast.LValueError", err, err)
	}
}

func TestUnaryOperatorsNestRightToLeft(t *testing.T) {
	e := parseExpr(t, `- ~ x`)
	neg, ok := e.(*ast.Neg)
	if !ok {
		t.Fatalf("e = %#v, want a Neg at the top", e)
	}
	if _, ok := neg.X.(*ast.BNot); !ok {
		t.Fatalf("neg.X = %#v, want a BNot node", neg.X)
	}
}

func TestIfWithoutElseGetsAnEmptyElseBranch(t *testing.T) {
	sf := position.NewSourceFile("test.mini", `if (true) print 1;`)
	lx := lexer.New(sf)
	p, err := New(lx)
	if err != nil {
		t.Fatalf("lexer/parser setup: %v", err)
	}
	s, err := p.stmt()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ifs, ok := s.(*ast.If)
	if !ok {
		t.Fatalf("s = %#v, want an If", s)
	}
	if ifs.Else == nil {
		t.Fatalf("Else must never be nil")
	}
	if _, ok := ifs.Else.(*ast.Empty); !ok {
		t.Fatalf("ifs.Else = %#v, want an Empty statement", ifs.Else)
	}
}

func TestBlockStatementParsesNestedDeclarations(t *testing.T) {
	sf := position.NewSourceFile("test.mini", `{ int y; y = 1; }`)
	lx := lexer.New(sf)
	p, err := New(lx)
	if err != nil {
		t.Fatalf("lexer/parser setup: %v", err)
	}
	s, err := p.stmt()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	b, ok := s.(*ast.Block)
	if !ok {
		t.Fatalf("s = %#v, want a Block", s)
	}
	if len(b.Decls) != 1 || b.Decls[0].Name != "y" {
		t.Fatalf("b.Decls = %#v, want one VarDecl named y", b.Decls)
	}
}

func TestProgramRejectsTrailingInput(t *testing.T) {
	sf := position.NewSourceFile("test.mini", `int x; x = 1; } `)
	lx := lexer.New(sf)
	p, err := New(lx)
	if err != nil {
		t.Fatalf("lexer/parser setup: %v", err)
	}
	if _, err := p.ParseProgram(); err == nil {
		t.Fatalf("expected an error for the stray trailing '}'")
	}
}

func TestProgramStatementOrderIsSourceOrder(t *testing.T) {
	sf := position.NewSourceFile("test.mini", `print 1; print 2; print 3;`)
	lx := lexer.New(sf)
	p, err := New(lx)
	if err != nil {
		t.Fatalf("lexer/parser setup: %v", err)
	}
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var order []int32
	s := program.Body
	for {
		seq, ok := s.(*ast.Seq)
		if !ok {
			break
		}
		pr := seq.First.(*ast.Print)
		order = append(order, pr.Exp.(*ast.IntLit).Value)
		s = seq.Rest
	}
	want := []int32{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
