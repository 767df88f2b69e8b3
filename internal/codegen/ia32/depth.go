package ia32

import "github.com/minilang/minic/internal/ast"

// DEEP is the Sethi-Ullman sentinel for an expression that cannot be
// evaluated entirely in registers: either it has a side effect
// (Assign) or the generator does not attempt to estimate it tightly
// (comparisons and logical operators, which branch rather than
// produce a register value along the common path). Any real depth
// value is always far below this, so min() with it is effectively
// "ignore this operand's register pressure and assume the worst."
const DEEP = 1000

// getDepth estimates the number of registers needed to evaluate e
// with no spilling, following the classic Sethi-Ullman rule: a leaf
// costs 1, and a binary node costs max(depth(left), depth(right))
// when left and right don't tie, or depth(left)+1 when they do.
func getDepth(e ast.Expr) int {
	switch n := e.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.Id:
		return 1

	case *ast.Add:
		return binDepth(n.Left, n.Right)
	case *ast.Sub:
		return binDepth(n.Left, n.Right)
	case *ast.Mul:
		return binDepth(n.Left, n.Right)
	case *ast.BAnd:
		return binDepth(n.Left, n.Right)
	case *ast.BOr:
		return binDepth(n.Left, n.Right)
	case *ast.BXor:
		return binDepth(n.Left, n.Right)

	case *ast.Neg:
		return getDepth(n.X)
	case *ast.BNot:
		return getDepth(n.X)

	case *ast.Eq, *ast.Neq, *ast.Lt, *ast.Le, *ast.Gt, *ast.Ge,
		*ast.LAnd, *ast.LOr, *ast.LNot, *ast.Assign:
		// These are compiled via branchTrue/branchFalse or (for
		// Assign) have a side effect; neither fits the "leaves a
		// value sitting in one more register" model cleanly, so
		// treat them as maximally deep and let compileExpr fall back
		// to its spill path rather than mis-estimate.
		return DEEP

	default:
		panic("ia32: unhandled expression type in getDepth")
	}
}

func binDepth(l, r ast.Expr) int {
	dl, dr := getDepth(l), getDepth(r)
	if dl == dr {
		return min(dl+1, DEEP)
	}
	if dl > dr {
		return dl
	}
	return dr
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
