// Package initcheck implements definite-assignment checking over the
// mini language, spec.md §4.3 — an abstract interpretation over
// varset.VarSet.
package initcheck

import (
	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/diagnostics"
	"github.com/minilang/minic/internal/env"
	"github.com/minilang/minic/internal/varset"
)

// Analyzer threads a VarSet through the program, reporting
// UseBeforeInit into a shared diagnostics.Collector.
type Analyzer struct {
	Diags *diagnostics.Collector
}

// New creates an initialization Analyzer reporting into diags.
func New(diags *diagnostics.Collector) *Analyzer {
	return &Analyzer{Diags: diags}
}

// Analyze runs initialization analysis over the whole program.
func (a *Analyzer) Analyze(program *ast.Block) {
	a.block(program, varset.Empty())
}

func (a *Analyzer) block(b *ast.Block, in varset.VarSet) varset.VarSet {
	out := in
	for _, d := range b.Decls {
		out = a.varDecl(d, out)
	}
	return a.stmt(b.Body, out)
}

func (a *Analyzer) varDecl(d *ast.VarDecl, in varset.VarSet) varset.VarSet {
	if d.Init == nil {
		return in
	}
	out := a.expr(d.Init, in)
	return out.Add(d.Entry)
}

func (a *Analyzer) stmt(s ast.Stmt, in varset.VarSet) varset.VarSet {
	switch n := s.(type) {
	case *ast.Empty:
		return in
	case *ast.Seq:
		mid := a.stmt(n.First, in)
		return a.stmt(n.Rest, mid)
	case *ast.If:
		i := a.expr(n.Test, in)
		ti := a.stmt(n.Then, i)
		fi := a.stmt(n.Else, i)
		return varset.Union(varset.Intersect(varset.Trim(ti, i), varset.Trim(fi, i)), i)
	case *ast.While:
		i := a.expr(n.Test, in)
		a.stmt(n.Body, i) // side effects (diagnostics) only; additions are discarded
		return i
	case *ast.Print:
		return a.expr(n.Exp, in)
	case *ast.ExprStmt:
		return a.expr(n.Exp, in)
	case *ast.Block:
		return a.block(n, in)
	case *ast.VarDecl:
		return a.varDecl(n, in)
	default:
		panic("initcheck: unhandled statement type")
	}
}

func (a *Analyzer) expr(e ast.Expr, in varset.VarSet) varset.VarSet {
	switch n := e.(type) {
	case *ast.IntLit:
		return in
	case *ast.BoolLit:
		return in
	case *ast.Id:
		if n.Entry != env.ErrEntry && !in.Contains(n.Entry) {
			a.Diags.Report(diagnostics.UseBeforeInit, n.Pos(), "%q may be used before it is initialized", n.Name)
		}
		return in

	case *ast.Add:
		return a.binary(n.Left, n.Right, in)
	case *ast.Sub:
		return a.binary(n.Left, n.Right, in)
	case *ast.Mul:
		return a.binary(n.Left, n.Right, in)
	case *ast.BAnd:
		return a.binary(n.Left, n.Right, in)
	case *ast.BOr:
		return a.binary(n.Left, n.Right, in)
	case *ast.BXor:
		return a.binary(n.Left, n.Right, in)
	case *ast.Eq:
		return a.binary(n.Left, n.Right, in)
	case *ast.Neq:
		return a.binary(n.Left, n.Right, in)
	case *ast.Lt:
		return a.binary(n.Left, n.Right, in)
	case *ast.Le:
		return a.binary(n.Left, n.Right, in)
	case *ast.Gt:
		return a.binary(n.Left, n.Right, in)
	case *ast.Ge:
		return a.binary(n.Left, n.Right, in)

	case *ast.LAnd:
		// Short-circuit: the right side may never execute, so only
		// the left side's initializations (and diagnostics) count.
		return a.expr(n.Left, in)
	case *ast.LOr:
		return a.expr(n.Left, in)

	case *ast.Neg:
		return a.expr(n.X, in)
	case *ast.BNot:
		return a.expr(n.X, in)
	case *ast.LNot:
		return a.expr(n.X, in)

	case *ast.Assign:
		m := a.expr(n.RHS, in)
		return m.Add(n.LHS.Entry)

	default:
		panic("initcheck: unhandled expression type")
	}
}

func (a *Analyzer) binary(left, right ast.Expr, in varset.VarSet) varset.VarSet {
	return a.expr(right, a.expr(left, in))
}
