// Package scope implements binding resolution against a nested
// environment, spec.md §4.1.
package scope

import (
	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/diagnostics"
	"github.com/minilang/minic/internal/env"
)

// Analyzer walks the AST top-down, threading a single Env and
// reporting into a shared diagnostics.Collector.
type Analyzer struct {
	Env   *env.Env
	Diags *diagnostics.Collector
}

// New creates an Analyzer with a fresh environment and collector.
func New() *Analyzer {
	return &Analyzer{Env: env.New(), Diags: diagnostics.NewCollector()}
}

// Analyze runs scope analysis over the whole program, represented as
// a top-level Block (so the program itself introduces the outermost
// declared-variables frame).
func (a *Analyzer) Analyze(program *ast.Block) {
	a.block(program)
}

func (a *Analyzer) block(b *ast.Block) {
	a.Env.Push()
	defer a.Env.Pop()

	for _, decl := range b.Decls {
		a.varDecl(decl)
	}
	a.stmt(b.Body)
}

func (a *Analyzer) varDecl(d *ast.VarDecl) {
	if d.Init != nil {
		a.expr(d.Init)
	}
	if a.Env.DeclaredLocally(d.Name) {
		a.Diags.Report(diagnostics.DuplicateDecl, d.Pos(), "duplicate declaration of %q", d.Name)
		// Recovery: keep the first binding, but still give this
		// VarDecl *some* entry so codegen does not see env.ErrEntry.
		d.Entry = a.Env.Lookup(d.Name)
		return
	}
	d.Entry = a.Env.Declare(d.Name, d.DeclType)
}

func (a *Analyzer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Empty:
		// nothing to do
	case *ast.Seq:
		a.stmt(n.First)
		a.stmt(n.Rest)
	case *ast.If:
		a.expr(n.Test)
		a.stmt(n.Then)
		a.stmt(n.Else)
	case *ast.While:
		a.expr(n.Test)
		a.stmt(n.Body)
	case *ast.Print:
		a.expr(n.Exp)
	case *ast.ExprStmt:
		a.expr(n.Exp)
	case *ast.Block:
		a.block(n)
	case *ast.VarDecl:
		a.varDecl(n)
	default:
		panic("scope: unhandled statement type")
	}
}

func (a *Analyzer) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.IntLit, *ast.BoolLit:
		// no identifiers to resolve
	case *ast.Id:
		id := a.Env.Lookup(n.Name)
		if id == env.ErrEntry {
			a.Diags.Report(diagnostics.UndeclaredId, n.Pos(), "undeclared identifier %q", n.Name)
		}
		n.Entry = id
	case *ast.Add:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.Sub:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.Mul:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.BAnd:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.BOr:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.BXor:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.LAnd:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.LOr:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.Eq:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.Neq:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.Lt:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.Le:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.Gt:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.Ge:
		a.expr(n.Left)
		a.expr(n.Right)
	case *ast.Neg:
		a.expr(n.X)
	case *ast.BNot:
		a.expr(n.X)
	case *ast.LNot:
		a.expr(n.X)
	case *ast.Assign:
		a.expr(n.LHS) // resolves n.LHS.Entry the same way any other Id read would
		a.expr(n.RHS)
	default:
		panic("scope: unhandled expression type")
	}
}
