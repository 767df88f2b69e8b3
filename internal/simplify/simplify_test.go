package simplify

import (
	"testing"

	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/lexer"
	"github.com/minilang/minic/internal/parser"
	"github.com/minilang/minic/internal/position"
)

// assignRHS parses src, simplifies it, and returns the RHS of the nth
// (0-indexed) assignment statement it finds, in source order,
// including those nested inside if, while and block statements.
func assignRHS(t *testing.T, src string, n int) ast.Expr {
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
	Program(program)

	var assigns []*ast.Assign
	var walk func(s ast.Stmt)
	walk = func(s ast.Stmt) {
		switch n := s.(type) {
		case *ast.Seq:
			walk(n.First)
			walk(n.Rest)
		case *ast.If:
			walk(n.Then)
			walk(n.Else)
		case *ast.While:
			walk(n.Body)
		case *ast.Block:
			walk(n.Body)
		case *ast.ExprStmt:
			if a, ok := n.Exp.(*ast.Assign); ok {
				assigns = append(assigns, a)
			}
		}
	}
	walk(program.Body)

	if n >= len(assigns) {
		t.Fatalf("found %d assignments, want at least %d", len(assigns), n+1)
	}
	return assigns[n].RHS
}

func TestConstantFoldingAddition(t *testing.T) {
	rhs := assignRHS(t, `int x; x = 3 + 4;`, 0)
	lit, ok := rhs.(*ast.IntLit)
	if !ok || lit.Value != 7 {
		t.Fatalf("rhs = %#v, want IntLit(7)", rhs)
	}
}

func TestAdditiveIdentityEliminatesZero(t *testing.T) {
	rhs := assignRHS(t, `int x; x = x + 0;`, 0)
	if _, ok := rhs.(*ast.Id); !ok {
		t.Fatalf("rhs = %#v, want the bare identifier x + 0 was folded away", rhs)
	}
}

func TestMultiplicativeAbsorptionByZero(t *testing.T) {
	rhs := assignRHS(t, `int x; x = x * 0;`, 0)
	lit, ok := rhs.(*ast.IntLit)
	if !ok || lit.Value != 0 {
		t.Fatalf("rhs = %#v, want IntLit(0)", rhs)
	}
}

func TestMultiplicativeIdentityEliminatesOne(t *testing.T) {
	rhs := assignRHS(t, `int x; x = x * 1;`, 0)
	if _, ok := rhs.(*ast.Id); !ok {
		t.Fatalf("rhs = %#v, want the bare identifier, x * 1 was folded away", rhs)
	}
}

func TestBitwiseOrWithAllOnesAbsorbs(t *testing.T) {
	rhs := assignRHS(t, `int x; x = x | -1;`, 0)
	lit, ok := rhs.(*ast.IntLit)
	if !ok || lit.Value != -1 {
		t.Fatalf("rhs = %#v, want IntLit(-1)", rhs)
	}
}

func TestBitwiseAndWithZeroAbsorbs(t *testing.T) {
	rhs := assignRHS(t, `int x; x = x & 0;`, 0)
	lit, ok := rhs.(*ast.IntLit)
	if !ok || lit.Value != 0 {
		t.Fatalf("rhs = %#v, want IntLit(0)", rhs)
	}
}

func TestXorWithAllOnesBecomesBitwiseNot(t *testing.T) {
	rhs := assignRHS(t, `int x; x = x ^ -1;`, 0)
	if _, ok := rhs.(*ast.BNot); !ok {
		t.Fatalf("rhs = %#v, want a BNot wrapping x", rhs)
	}
}

func TestReassociationFoldsTwoLiterals(t *testing.T) {
	rhs := assignRHS(t, `int x; x = (x + 3) + 4;`, 0)
	add, ok := rhs.(*ast.Add)
	if !ok {
		t.Fatalf("rhs = %#v, want a single Add node after reassociation", rhs)
	}
	if _, ok := add.Left.(*ast.Id); !ok {
		t.Fatalf("add.Left = %#v, want the identifier x", add.Left)
	}
	lit, ok := add.Right.(*ast.IntLit)
	if !ok || lit.Value != 7 {
		t.Fatalf("add.Right = %#v, want IntLit(7) (3 + 4 folded)", add.Right)
	}
}

func TestDoubleNegationElimination(t *testing.T) {
	rhs := assignRHS(t, `int x; x = - - x;`, 0)
	if _, ok := rhs.(*ast.Id); !ok {
		t.Fatalf("rhs = %#v, want the bare identifier, - - x cancels", rhs)
	}
}

func TestDoubleBitwiseNotElimination(t *testing.T) {
	rhs := assignRHS(t, `int x; x = ~ ~ x;`, 0)
	if _, ok := rhs.(*ast.Id); !ok {
		t.Fatalf("rhs = %#v, want the bare identifier, ~ ~ x cancels", rhs)
	}
}

func TestRelationalFoldingOnLiterals(t *testing.T) {
	rhs := assignRHS(t, `boolean b; b = 3 < 4;`, 0)
	lit, ok := rhs.(*ast.BoolLit)
	if !ok || lit.Value != true {
		t.Fatalf("rhs = %#v, want BoolLit(true)", rhs)
	}
}

func TestLogicalAndFoldingOnLiterals(t *testing.T) {
	rhs := assignRHS(t, `boolean b; b = true && false;`, 0)
	lit, ok := rhs.(*ast.BoolLit)
	if !ok || lit.Value != false {
		t.Fatalf("rhs = %#v, want BoolLit(false)", rhs)
	}
}

func TestWorkedExampleAddZero(t *testing.T) {
	// spec.md §8: x = 3 + 0 simplifies straight to the literal 3.
	rhs := assignRHS(t, `int x; x = 3 + 0; print x;`, 0)
	lit, ok := rhs.(*ast.IntLit)
	if !ok || lit.Value != 3 {
		t.Fatalf("rhs = %#v, want IntLit(3)", rhs)
	}
}
