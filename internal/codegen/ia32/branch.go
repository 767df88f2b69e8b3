package ia32

import "github.com/minilang/minic/internal/ast"

// relJump holds the conditional jump mnemonic to use for a relational
// operator's true and false senses.
type relJump struct {
	whenTrue, whenFalse string
}

var relJumps = map[string]relJump{
	"eq":  {"je", "jne"},
	"neq": {"jne", "je"},
	"lt":  {"jl", "jge"},
	"le":  {"jle", "jg"},
	"gt":  {"jg", "jle"},
	"ge":  {"jge", "jl"},
}

func relParts(e ast.Expr) (left, right ast.Expr, op string) {
	switch n := e.(type) {
	case *ast.Eq:
		return n.Left, n.Right, "eq"
	case *ast.Neq:
		return n.Left, n.Right, "neq"
	case *ast.Lt:
		return n.Left, n.Right, "lt"
	case *ast.Le:
		return n.Left, n.Right, "le"
	case *ast.Gt:
		return n.Left, n.Right, "gt"
	case *ast.Ge:
		return n.Left, n.Right, "ge"
	default:
		panic("ia32: relParts called with a non-relational expression")
	}
}

// branchTrue emits code that jumps to label if e evaluates true,
// falling through otherwise. Relational and logical operators emit
// direct comparisons and short-circuit jumps instead of materializing
// a boolean value first.
func (g *Generator) branchTrue(e ast.Expr, label string, pushed, free int) {
	switch n := e.(type) {
	case *ast.BoolLit:
		if n.Value {
			g.e.Emit("jmp", label)
		}
	case *ast.LNot:
		g.branchFalse(n.X, label, pushed, free)
	case *ast.LAnd:
		skip := g.e.NewLabel()
		g.branchFalse(n.Left, skip, pushed, free)
		g.branchTrue(n.Right, label, pushed, free)
		g.e.EmitLabel(skip)
	case *ast.LOr:
		g.branchTrue(n.Left, label, pushed, free)
		g.branchTrue(n.Right, label, pushed, free)
	case *ast.Eq, *ast.Neq, *ast.Lt, *ast.Le, *ast.Gt, *ast.Ge:
		g.branchRelational(e, label, pushed, free, true)
	default:
		r := g.compileExpr(e, pushed, free)
		g.e.Emit("cmpl", "$0", g.e.Reg(r))
		g.e.Emit("jne", label)
	}
}

// branchFalse emits code that jumps to label if e evaluates false,
// falling through otherwise. Mirrors branchTrue.
func (g *Generator) branchFalse(e ast.Expr, label string, pushed, free int) {
	switch n := e.(type) {
	case *ast.BoolLit:
		if !n.Value {
			g.e.Emit("jmp", label)
		}
	case *ast.LNot:
		g.branchTrue(n.X, label, pushed, free)
	case *ast.LAnd:
		g.branchFalse(n.Left, label, pushed, free)
		g.branchFalse(n.Right, label, pushed, free)
	case *ast.LOr:
		skip := g.e.NewLabel()
		g.branchTrue(n.Left, skip, pushed, free)
		g.branchFalse(n.Right, label, pushed, free)
		g.e.EmitLabel(skip)
	case *ast.Eq, *ast.Neq, *ast.Lt, *ast.Le, *ast.Gt, *ast.Ge:
		g.branchRelational(e, label, pushed, free, false)
	default:
		r := g.compileExpr(e, pushed, free)
		g.e.Emit("cmpl", "$0", g.e.Reg(r))
		g.e.Emit("je", label)
	}
}

// branchRelational evaluates both operands of a relational expression
// and emits a single cmp + conditional jump, per spec.md §4.5.
func (g *Generator) branchRelational(e ast.Expr, label string, pushed, free int, wantTrue bool) {
	left, right, op := relParts(e)

	r1 := g.compileExpr(left, pushed, free)
	nextFree := free + 1
	spilled := nextFree >= NREGS
	if spilled {
		g.e.Emit("pushl", g.e.Reg(0))
		pushed += WORDSIZE
		nextFree = 0
	}
	r2 := g.compileExpr(right, pushed, nextFree)

	g.e.Emit("cmpl", g.e.Reg(r2), g.e.Reg(r1))
	if spilled {
		g.e.Emit("popl", g.e.Reg(0))
	}

	mn := relJumps[op]
	if wantTrue {
		g.e.Emit(mn.whenTrue, label)
	} else {
		g.e.Emit(mn.whenFalse, label)
	}
}
