// Package typecheck implements static type checking over the mini
// language, spec.md §4.2.
package typecheck

import (
	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/diagnostics"
	"github.com/minilang/minic/internal/env"
	"github.com/minilang/minic/internal/types"
)

// Analyzer type-checks bottom-up, annotating every Expr's Type field
// exactly once and reporting into a shared diagnostics.Collector.
type Analyzer struct {
	Env   *env.Env
	Diags *diagnostics.Collector
}

// New creates a type-checking Analyzer over env (already populated by
// scope analysis) reporting into diags.
func New(e *env.Env, diags *diagnostics.Collector) *Analyzer {
	return &Analyzer{Env: e, Diags: diags}
}

// Analyze type-checks the whole program.
func (a *Analyzer) Analyze(program *ast.Block) {
	a.block(program)
}

func (a *Analyzer) block(b *ast.Block) {
	for _, d := range b.Decls {
		a.varDecl(d)
	}
	a.stmt(b.Body)
}

func (a *Analyzer) varDecl(d *ast.VarDecl) {
	if d.Init != nil {
		a.require(d.Init, d.DeclType)
	}
}

func (a *Analyzer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Empty:
	case *ast.Seq:
		a.stmt(n.First)
		a.stmt(n.Rest)
	case *ast.If:
		a.require(n.Test, types.BOOLEAN)
		a.stmt(n.Then)
		a.stmt(n.Else)
	case *ast.While:
		a.require(n.Test, types.BOOLEAN)
		a.stmt(n.Body)
	case *ast.Print:
		a.require(n.Exp, types.INT)
	case *ast.ExprStmt:
		a.expr(n.Exp)
	case *ast.Block:
		a.block(n)
	case *ast.VarDecl:
		a.varDecl(n)
	default:
		panic("typecheck: unhandled statement type")
	}
}

// require type-checks e and, if its inferred type is not expected,
// reports TypeMismatch and pretends the result was expected anyway so
// the error does not cascade into every downstream use of e
// (spec.md §9's Open Question: this recovery discipline is preserved).
func (a *Analyzer) require(e ast.Expr, expected types.Type) types.Type {
	t := a.expr(e)
	if t != expected {
		a.Diags.Report(diagnostics.TypeMismatch, e.Pos(), "an expression of type %s was expected", expected)
		return expected
	}
	return t
}

func setType(e ast.Expr, t types.Type) types.Type {
	switch n := e.(type) {
	case *ast.IntLit:
		n.Type = t
	case *ast.BoolLit:
		n.Type = t
	case *ast.Id:
		n.Type = t
	case *ast.Add:
		n.Type = t
	case *ast.Sub:
		n.Type = t
	case *ast.Mul:
		n.Type = t
	case *ast.BAnd:
		n.Type = t
	case *ast.BOr:
		n.Type = t
	case *ast.BXor:
		n.Type = t
	case *ast.LAnd:
		n.Type = t
	case *ast.LOr:
		n.Type = t
	case *ast.Eq:
		n.Type = t
	case *ast.Neq:
		n.Type = t
	case *ast.Lt:
		n.Type = t
	case *ast.Le:
		n.Type = t
	case *ast.Gt:
		n.Type = t
	case *ast.Ge:
		n.Type = t
	case *ast.Neg:
		n.Type = t
	case *ast.BNot:
		n.Type = t
	case *ast.LNot:
		n.Type = t
	case *ast.Assign:
		n.Type = t
	default:
		panic("typecheck: unhandled expression type")
	}
	return t
}

// expr type-checks e bottom-up and returns (and records) its type.
func (a *Analyzer) expr(e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.IntLit:
		return setType(n, types.INT)
	case *ast.BoolLit:
		return setType(n, types.BOOLEAN)
	case *ast.Id:
		t := types.Invalid
		if n.Entry != env.ErrEntry {
			t = a.Env.Entry(n.Entry).Type
		}
		return setType(n, t)

	case *ast.Add:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.INT)
	case *ast.Sub:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.INT)
	case *ast.Mul:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.INT)
	case *ast.BAnd:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.INT)
	case *ast.BOr:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.INT)
	case *ast.BXor:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.INT)

	case *ast.LAnd:
		a.require(n.Left, types.BOOLEAN)
		a.require(n.Right, types.BOOLEAN)
		return setType(n, types.BOOLEAN)
	case *ast.LOr:
		a.require(n.Left, types.BOOLEAN)
		a.require(n.Right, types.BOOLEAN)
		return setType(n, types.BOOLEAN)

	case *ast.Eq:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.BOOLEAN)
	case *ast.Neq:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.BOOLEAN)
	case *ast.Lt:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.BOOLEAN)
	case *ast.Le:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.BOOLEAN)
	case *ast.Gt:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.BOOLEAN)
	case *ast.Ge:
		a.require(n.Left, types.INT)
		a.require(n.Right, types.INT)
		return setType(n, types.BOOLEAN)

	case *ast.Neg:
		a.require(n.X, types.INT)
		return setType(n, types.INT)
	case *ast.BNot:
		a.require(n.X, types.INT)
		return setType(n, types.INT)
	case *ast.LNot:
		a.require(n.X, types.BOOLEAN)
		return setType(n, types.BOOLEAN)

	case *ast.Assign:
		lt := a.expr(n.LHS)
		a.require(n.RHS, lt)
		return setType(n, lt)

	default:
		panic("typecheck: unhandled expression type")
	}
}
