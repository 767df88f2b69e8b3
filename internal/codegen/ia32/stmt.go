package ia32

import "github.com/minilang/minic/internal/ast"

// block compiles a nested scope: declarations first (assigning each a
// frame slot descending from the current frame top), then its body;
// the frame top is restored on exit so sibling blocks reuse the same
// offsets, matching spec.md §4.5's Block rule.
func (g *Generator) block(b *ast.Block, pushed int) {
	saved := g.frameTop
	for _, d := range b.Decls {
		g.varDecl(d, pushed)
	}
	g.stmt(b.Body, pushed)
	g.frameTop = saved
}

func (g *Generator) varDecl(d *ast.VarDecl, pushed int) {
	g.frameTop -= WORDSIZE
	g.env.SetSlot(d.Entry, g.frameTop)
	if d.Init != nil {
		r := g.compileExpr(d.Init, pushed, 0)
		g.e.Emit("movl", g.e.Reg(r), g.operand(d.Entry))
	}
}

func (g *Generator) stmt(s ast.Stmt, pushed int) {
	switch n := s.(type) {
	case *ast.Empty:
	case *ast.Seq:
		g.stmt(n.First, pushed)
		g.stmt(n.Rest, pushed)
	case *ast.If:
		elseLabel := g.e.NewLabel()
		endLabel := g.e.NewLabel()
		g.branchFalse(n.Test, elseLabel, pushed, 0)
		g.stmt(n.Then, pushed)
		g.e.Emit("jmp", endLabel)
		g.e.EmitLabel(elseLabel)
		g.stmt(n.Else, pushed)
		g.e.EmitLabel(endLabel)
	case *ast.While:
		top := g.e.NewLabel()
		test := g.e.NewLabel()
		g.e.Emit("jmp", test)
		g.e.EmitLabel(top)
		g.stmt(n.Body, pushed)
		g.e.EmitLabel(test)
		g.branchTrue(n.Test, top, pushed, 0)
	case *ast.Print:
		adjust := g.e.AlignmentAdjust(pushed + WORDSIZE)
		g.e.InsertAdjust(adjust)
		r := g.compileExpr(n.Exp, pushed+adjust, 0)
		g.e.Emit("pushl", g.e.Reg(r))
		g.e.Call("print", WORDSIZE)
		g.e.RemoveAdjust(WORDSIZE)
		g.e.RemoveAdjust(adjust)
	case *ast.ExprStmt:
		g.expr(n.Exp, pushed)
	case *ast.Block:
		g.block(n, pushed)
	case *ast.VarDecl:
		g.varDecl(n, pushed)
	default:
		panic("ia32: unhandled statement type")
	}
}

// expr compiles an expression evaluated purely for its side effect.
// An Assign stores its right-hand side straight into the variable's
// slot; any other expression is compiled and its result discarded.
func (g *Generator) expr(e ast.Expr, pushed int) {
	if n, ok := e.(*ast.Assign); ok {
		r := g.compileExpr(n.RHS, pushed, 0)
		g.e.Emit("movl", g.e.Reg(r), g.operand(n.LHS.Entry))
		return
	}
	g.compileExpr(e, pushed, 0)
}
