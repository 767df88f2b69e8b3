package ia32

import (
	"fmt"

	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/env"
)

// Generator walks a type-checked, simplified AST and emits IA-32
// assembly into an Emitter, per spec.md §4.5/§4.6.
type Generator struct {
	e        *Emitter
	env      *env.Env
	frameTop int
}

// NewGenerator creates a Generator that will assign frame slots into e
// (already populated by scope analysis) and emit through its own Emitter.
func NewGenerator(e *env.Env) *Generator {
	return &Generator{e: NewEmitter(), env: e}
}

// Emitter exposes the underlying Emitter, mainly for tests that want
// to inspect the produced text directly.
func (g *Generator) Emitter() *Emitter { return g.e }

// operand returns the %ebp-relative memory operand for id's frame slot.
func (g *Generator) operand(id env.EntryID) string {
	return fmt.Sprintf("%d(%%ebp)", g.env.Entry(id).Slot)
}

// Generate compiles program into a full, standalone main routine and
// returns the assembled text.
func (g *Generator) Generate(program *ast.Block) string {
	frameSize := alignFrame(localsFrameSize(program))

	g.e.EmitRaw(".text")
	g.e.EmitRaw(".globl main")
	g.e.EmitLabel("main")
	g.e.Emit("pushl", "%ebp")
	g.e.Emit("movl", "%esp", "%ebp")
	if frameSize > 0 {
		g.e.Emit("subl", fmt.Sprintf("$%d", frameSize), "%esp")
	}

	g.block(program, frameSize)

	g.e.Emit("movl", "$0", "%eax")
	g.e.Emit("movl", "%ebp", "%esp")
	g.e.Emit("popl", "%ebp")
	g.e.Emit("ret")
	return g.e.String()
}

// localsFrameSize walks program the same way block/varDecl descend
// into frames, tracking how far frameTop would fall at each point and
// returning the deepest excursion reached by any declaration, in any
// block (sibling blocks reuse the same offsets, so only the deepest
// nesting level actually needs backing stack space).
func localsFrameSize(program *ast.Block) int {
	depth, max := 0, 0
	var block func(b *ast.Block)
	var stmt func(s ast.Stmt)
	block = func(b *ast.Block) {
		saved := depth
		depth += len(b.Decls) * WORDSIZE
		if depth > max {
			max = depth
		}
		stmt(b.Body)
		depth = saved
	}
	stmt = func(s ast.Stmt) {
		switch n := s.(type) {
		case *ast.Seq:
			stmt(n.First)
			stmt(n.Rest)
		case *ast.If:
			stmt(n.Then)
			stmt(n.Else)
		case *ast.While:
			stmt(n.Body)
		case *ast.Block:
			block(n)
		}
	}
	block(program)
	return max
}

// alignFrame rounds a frame size up to the nearest 16 bytes, so the
// call-site alignment bookkeeping (Print's AlignmentAdjust) starts
// from an already-aligned %esp, matching the teacher's frameSize
// rounding before its prologue's sub rsp.
func alignFrame(bytes int) int {
	if rem := bytes % 16; rem != 0 {
		return bytes + (16 - rem)
	}
	return bytes
}

// compileExpr evaluates e and leaves its result in register free,
// preserving every register below free and honoring pushed as the
// byte count of stack already consumed by an enclosing spill or call
// setup. Every recursive call it makes is self-balancing: any spill
// it performs is popped back before compileExpr returns, so pushed is
// never threaded back out.
func (g *Generator) compileExpr(e ast.Expr, pushed, free int) int {
	switch n := e.(type) {
	case *ast.IntLit:
		g.e.Emit("movl", fmt.Sprintf("$%d", n.Value), g.e.Reg(free))
		return free
	case *ast.BoolLit:
		v := 0
		if n.Value {
			v = 1
		}
		g.e.Emit("movl", fmt.Sprintf("$%d", v), g.e.Reg(free))
		return free
	case *ast.Id:
		g.e.Emit("movl", g.operand(n.Entry), g.e.Reg(free))
		return free

	case *ast.Add:
		return g.compileBinary(n.Left, n.Right, "addl", true, pushed, free)
	case *ast.Sub:
		return g.compileBinary(n.Left, n.Right, "subl", false, pushed, free)
	case *ast.Mul:
		return g.compileBinary(n.Left, n.Right, "imull", true, pushed, free)
	case *ast.BAnd:
		return g.compileBinary(n.Left, n.Right, "andl", true, pushed, free)
	case *ast.BOr:
		return g.compileBinary(n.Left, n.Right, "orl", true, pushed, free)
	case *ast.BXor:
		return g.compileBinary(n.Left, n.Right, "xorl", true, pushed, free)

	case *ast.Neg:
		r := g.compileExpr(n.X, pushed, free)
		g.e.Emit("negl", g.e.Reg(r))
		return r
	case *ast.BNot:
		r := g.compileExpr(n.X, pushed, free)
		g.e.Emit("notl", g.e.Reg(r))
		return r

	case *ast.Eq, *ast.Neq, *ast.Lt, *ast.Le, *ast.Gt, *ast.Ge, *ast.LAnd, *ast.LOr, *ast.LNot:
		return g.compileBoolExpr(e, pushed, free)

	case *ast.Assign:
		r := g.compileExpr(n.RHS, pushed, free)
		g.e.Emit("movl", g.e.Reg(r), g.operand(n.LHS.Entry))
		return r

	default:
		panic("ia32: unhandled expression type in compileExpr")
	}
}

// compileBinary implements spec.md §4.5's binary expression strategy:
// commutative operators evaluate the deeper operand first into free
// (ties keep left-to-right order); non-commutative operators always
// evaluate left into free, right into the next register. The swap is
// suppressed whenever either side is DEEP (a side effect such as an
// Assign), since the spec requires strict left-to-right order in that
// case regardless of which side looks "deeper". If the second operand
// would need register NREGS, register 0 is spilled to the stack
// around its evaluation and restored immediately after the combining
// instruction.
func (g *Generator) compileBinary(left, right ast.Expr, op string, commutative bool, pushed, free int) int {
	first, second := left, right
	dl, dr := getDepth(left), getDepth(right)
	if commutative && dl != DEEP && dr != DEEP && dr > dl {
		first, second = right, left
	}

	r1 := g.compileExpr(first, pushed, free)

	nextFree := free + 1
	spilled := nextFree >= NREGS
	if spilled {
		g.e.Emit("pushl", g.e.Reg(0))
		pushed += WORDSIZE
		nextFree = 0
	}
	r2 := g.compileExpr(second, pushed, nextFree)

	g.e.Emit(op, g.e.Reg(r2), g.e.Reg(r1))
	if spilled {
		g.e.Emit("popl", g.e.Reg(0))
	}
	return r1
}

// compileBoolExpr materializes a boolean-valued expression as a 0/1
// value in register free, for use where a boolean appears as a value
// (assigned to a variable, stored as a declaration initializer)
// rather than purely as a branch condition.
func (g *Generator) compileBoolExpr(e ast.Expr, pushed, free int) int {
	trueLabel := g.e.NewLabel()
	endLabel := g.e.NewLabel()

	g.branchTrue(e, trueLabel, pushed, free)
	g.e.Emit("movl", "$0", g.e.Reg(free))
	g.e.Emit("jmp", endLabel)
	g.e.EmitLabel(trueLabel)
	g.e.Emit("movl", "$1", g.e.Reg(free))
	g.e.EmitLabel(endLabel)
	return free
}
