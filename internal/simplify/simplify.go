// Package simplify implements the algebraic rewrite pass of spec.md
// §4.4: a bottom-up simplifier that folds constants and applies
// identity/absorption laws, using the double-dispatch scheme spec.md
// §9 describes — an outer match on the operator, then an inner match
// on the (already-simplified) left subtree's shape.
package simplify

import (
	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/position"
	"github.com/minilang/minic/internal/types"
)

// Program simplifies every expression reachable from program in place.
func Program(program *ast.Block) {
	block(program)
}

func block(b *ast.Block) {
	for _, d := range b.Decls {
		varDecl(d)
	}
	stmt(b.Body)
}

func varDecl(d *ast.VarDecl) {
	if d.Init != nil {
		d.Init = Expr(d.Init)
	}
}

func stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Empty:
	case *ast.Seq:
		stmt(n.First)
		stmt(n.Rest)
	case *ast.If:
		n.Test = Expr(n.Test)
		stmt(n.Then)
		stmt(n.Else)
	case *ast.While:
		n.Test = Expr(n.Test)
		stmt(n.Body)
	case *ast.Print:
		n.Exp = Expr(n.Exp)
	case *ast.ExprStmt:
		n.Exp = Expr(n.Exp)
	case *ast.Block:
		block(n)
	case *ast.VarDecl:
		varDecl(n)
	default:
		panic("simplify: unhandled statement type")
	}
}

// Expr simplifies e bottom-up, returning the (possibly different)
// rewritten expression. Children are always simplified first.
func Expr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.Id:
		return e

	case *ast.Add:
		return simpAssoc(n.P, Expr(n.Left), Expr(n.Right), opAdd, addFold, func(a, b int32) int32 { return a + b })
	case *ast.Mul:
		return simpAssoc(n.P, Expr(n.Left), Expr(n.Right), opMul, mulFold, func(a, b int32) int32 { return a * b })
	case *ast.BAnd:
		return simpAssoc(n.P, Expr(n.Left), Expr(n.Right), opBAnd, bandFold, func(a, b int32) int32 { return a & b })
	case *ast.BOr:
		return simpAssoc(n.P, Expr(n.Left), Expr(n.Right), opBOr, borFold, func(a, b int32) int32 { return a | b })
	case *ast.BXor:
		return simpAssoc(n.P, Expr(n.Left), Expr(n.Right), opBXor, bxorFold, func(a, b int32) int32 { return a ^ b })

	case *ast.Sub:
		l, r := Expr(n.Left), Expr(n.Right)
		if a, ok := intLitValue(l); ok {
			if b, ok2 := intLitValue(r); ok2 {
				return intLit(n.P, a-b)
			}
		}
		return rebuildBin(n.P, l, r, opSub)

	case *ast.Eq:
		return foldRelational(n.P, Expr(n.Left), Expr(n.Right), opEq, func(a, b int32) bool { return a == b })
	case *ast.Neq:
		return foldRelational(n.P, Expr(n.Left), Expr(n.Right), opNeq, func(a, b int32) bool { return a != b })
	case *ast.Lt:
		return foldRelational(n.P, Expr(n.Left), Expr(n.Right), opLt, func(a, b int32) bool { return a < b })
	case *ast.Le:
		return foldRelational(n.P, Expr(n.Left), Expr(n.Right), opLe, func(a, b int32) bool { return a <= b })
	case *ast.Gt:
		return foldRelational(n.P, Expr(n.Left), Expr(n.Right), opGt, func(a, b int32) bool { return a > b })
	case *ast.Ge:
		return foldRelational(n.P, Expr(n.Left), Expr(n.Right), opGe, func(a, b int32) bool { return a >= b })

	case *ast.LAnd:
		l, r := Expr(n.Left), Expr(n.Right)
		if a, ok := boolLitValue(l); ok {
			if b, ok2 := boolLitValue(r); ok2 {
				return boolLit(n.P, a && b)
			}
		}
		return rebuildLogic(n.P, l, r, true)
	case *ast.LOr:
		l, r := Expr(n.Left), Expr(n.Right)
		if a, ok := boolLitValue(l); ok {
			if b, ok2 := boolLitValue(r); ok2 {
				return boolLit(n.P, a || b)
			}
		}
		return rebuildLogic(n.P, l, r, false)

	case *ast.Neg:
		x := Expr(n.X)
		if v, ok := intLitValue(x); ok {
			return intLit(n.P, -v)
		}
		if inner, ok := x.(*ast.Neg); ok {
			return inner.X // double negation: - - x -> x
		}
		return rebuildUnary(n.P, x, opNeg)

	case *ast.BNot:
		x := Expr(n.X)
		return simplifyBNot(n.P, x)

	case *ast.LNot:
		x := Expr(n.X)
		if v, ok := boolLitValue(x); ok {
			return boolLit(n.P, !v)
		}
		return rebuildUnary(n.P, x, opLNot)

	case *ast.Assign:
		n.RHS = Expr(n.RHS)
		return n

	default:
		panic("simplify: unhandled expression type")
	}
}

// simplifyBNot applies ~ ~ x -> x, else folds a literal, else rebuilds.
func simplifyBNot(pos position.Position, x ast.Expr) ast.Expr {
	if v, ok := intLitValue(x); ok {
		return intLit(pos, ^v)
	}
	if inner, ok := x.(*ast.BNot); ok {
		return inner.X
	}
	return rebuildUnary(pos, x, opBNot)
}

// --- operator identifiers used to pick the right node constructor ---

type binOp int

const (
	opAdd binOp = iota
	opMul
	opBAnd
	opBOr
	opBXor
	opSub
	opEq
	opNeq
	opLt
	opLe
	opGt
	opGe
)

type unOp int

const (
	opNeg unOp = iota
	opBNot
	opLNot
)

func rebuildBin(pos position.Position, l, r ast.Expr, op binOp) ast.Expr {
	switch op {
	case opAdd:
		e := ast.NewAdd(pos, l, r)
		e.Type = types.INT
		return e
	case opMul:
		e := ast.NewMul(pos, l, r)
		e.Type = types.INT
		return e
	case opBAnd:
		e := ast.NewBAnd(pos, l, r)
		e.Type = types.INT
		return e
	case opBOr:
		e := ast.NewBOr(pos, l, r)
		e.Type = types.INT
		return e
	case opBXor:
		e := ast.NewBXor(pos, l, r)
		e.Type = types.INT
		return e
	case opSub:
		e := ast.NewSub(pos, l, r)
		e.Type = types.INT
		return e
	default:
		panic("simplify: rebuildBin: not a fused-identity operator")
	}
}

func rebuildRelational(pos position.Position, l, r ast.Expr, op binOp) ast.Expr {
	var e ast.Expr
	switch op {
	case opEq:
		n := ast.NewEq(pos, l, r)
		n.Type = types.BOOLEAN
		e = n
	case opNeq:
		n := ast.NewNeq(pos, l, r)
		n.Type = types.BOOLEAN
		e = n
	case opLt:
		n := ast.NewLt(pos, l, r)
		n.Type = types.BOOLEAN
		e = n
	case opLe:
		n := ast.NewLe(pos, l, r)
		n.Type = types.BOOLEAN
		e = n
	case opGt:
		n := ast.NewGt(pos, l, r)
		n.Type = types.BOOLEAN
		e = n
	case opGe:
		n := ast.NewGe(pos, l, r)
		n.Type = types.BOOLEAN
		e = n
	}
	return e
}

func rebuildUnary(pos position.Position, x ast.Expr, op unOp) ast.Expr {
	switch op {
	case opNeg:
		e := ast.NewNeg(pos, x)
		e.Type = types.INT
		return e
	case opBNot:
		e := ast.NewBNot(pos, x)
		e.Type = types.INT
		return e
	case opLNot:
		e := ast.NewLNot(pos, x)
		e.Type = types.BOOLEAN
		return e
	default:
		panic("simplify: rebuildUnary: unknown op")
	}
}

func rebuildLogic(pos position.Position, l, r ast.Expr, and bool) ast.Expr {
	var e ast.Expr
	if and {
		e = ast.NewLAnd(pos, l, r)
	} else {
		e = ast.NewLOr(pos, l, r)
	}
	setType(e, types.BOOLEAN)
	return e
}

func setType(e ast.Expr, t types.Type) {
	switch n := e.(type) {
	case *ast.LAnd:
		n.Type = t
	case *ast.LOr:
		n.Type = t
	}
}

func foldRelational(pos position.Position, l, r ast.Expr, op binOp, fold func(a, b int32) bool) ast.Expr {
	if a, ok := intLitValue(l); ok {
		if b, ok2 := intLitValue(r); ok2 {
			return boolLit(pos, fold(a, b))
		}
	}
	return rebuildRelational(pos, l, r, op)
}

// --- identity-law node constructors, one per associative operator ---

func addFold(pos position.Position, x ast.Expr, n int32) ast.Expr {
	if n == 0 {
		return x
	}
	return rebuildBin(pos, x, intLit(pos, n), opAdd)
}

func mulFold(pos position.Position, x ast.Expr, n int32) ast.Expr {
	switch n {
	case 1:
		return x
	case 0:
		return intLit(pos, 0)
	default:
		return rebuildBin(pos, x, intLit(pos, n), opMul)
	}
}

func bandFold(pos position.Position, x ast.Expr, n int32) ast.Expr {
	switch n {
	case -1:
		return x
	case 0:
		return intLit(pos, 0)
	default:
		return rebuildBin(pos, x, intLit(pos, n), opBAnd)
	}
}

func borFold(pos position.Position, x ast.Expr, n int32) ast.Expr {
	switch n {
	case -1:
		return intLit(pos, -1)
	case 0:
		return x
	default:
		return rebuildBin(pos, x, intLit(pos, n), opBOr)
	}
}

func bxorFold(pos position.Position, x ast.Expr, n int32) ast.Expr {
	switch n {
	case -1:
		return simplifyBNot(pos, x)
	case 0:
		return x
	default:
		return rebuildBin(pos, x, intLit(pos, n), opBXor)
	}
}

// simpAssoc implements the double-dispatch scheme shared by +, *, &,
// |, ^: commute a literal left operand to the right, then either fold
// two literals directly, reassociate into a same-operator left child
// whose own right operand is a literal, or fall back to the
// identity-law constructor.
func simpAssoc(pos position.Position, l, r ast.Expr, op binOp, identityFold func(position.Position, ast.Expr, int32) ast.Expr, combine func(a, b int32) int32) ast.Expr {
	if isIntLit(l) && !isIntLit(r) {
		l, r = r, l
	}
	m, ok := intLitValue(r)
	if !ok {
		return rebuildBin(pos, l, r, op)
	}
	if lv, ok := intLitValue(l); ok {
		return intLit(pos, combine(lv, m))
	}
	if sameAssocOp(l, op) {
		if innerLeft, innerN, ok := assocParts(l, op); ok {
			return identityFold(pos, innerLeft, combine(innerN, m))
		}
	}
	return identityFold(pos, l, m)
}

// sameAssocOp/assocParts below are small helpers the reassociation
// branch of simpAssoc uses.

func sameAssocOp(e ast.Expr, op binOp) bool {
	switch op {
	case opAdd:
		_, ok := e.(*ast.Add)
		return ok
	case opMul:
		_, ok := e.(*ast.Mul)
		return ok
	case opBAnd:
		_, ok := e.(*ast.BAnd)
		return ok
	case opBOr:
		_, ok := e.(*ast.BOr)
		return ok
	case opBXor:
		_, ok := e.(*ast.BXor)
		return ok
	}
	return false
}

// assocParts extracts (left, n) from e == left OP IntLit(n), when e's
// right operand is a literal; used only once sameAssocOp(e, op) holds.
func assocParts(e ast.Expr, op binOp) (ast.Expr, int32, bool) {
	var left, right ast.Expr
	switch op {
	case opAdd:
		b := e.(*ast.Add)
		left, right = b.Left, b.Right
	case opMul:
		b := e.(*ast.Mul)
		left, right = b.Left, b.Right
	case opBAnd:
		b := e.(*ast.BAnd)
		left, right = b.Left, b.Right
	case opBOr:
		b := e.(*ast.BOr)
		left, right = b.Left, b.Right
	case opBXor:
		b := e.(*ast.BXor)
		left, right = b.Left, b.Right
	default:
		return nil, 0, false
	}
	n, ok := intLitValue(right)
	return left, n, ok
}

// --- literal constructors/accessors ---

func intLit(pos position.Position, v int32) *ast.IntLit {
	n := ast.NewIntLit(pos, v)
	n.Type = types.INT
	return n
}

func boolLit(pos position.Position, v bool) *ast.BoolLit {
	n := ast.NewBoolLit(pos, v)
	n.Type = types.BOOLEAN
	return n
}

func isIntLit(e ast.Expr) bool {
	_, ok := e.(*ast.IntLit)
	return ok
}

func intLitValue(e ast.Expr) (int32, bool) {
	if n, ok := e.(*ast.IntLit); ok {
		return n.Value, true
	}
	return 0, false
}

func boolLitValue(e ast.Expr) (bool, bool) {
	if n, ok := e.(*ast.BoolLit); ok {
		return n.Value, true
	}
	return false, false
}
