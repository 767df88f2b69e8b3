// Package ast defines the mini language's abstract syntax as a set of
// tagged variants (spec.md §9's design note): one struct per
// syntactic form, with a small marker interface per category so each
// compiler phase can do its own type switch instead of relying on
// per-node virtual dispatch.
package ast

import (
	"fmt"

	"github.com/minilang/minic/internal/env"
	"github.com/minilang/minic/internal/position"
	"github.com/minilang/minic/internal/types"
)

// Expr is any mini-language expression node.
type Expr interface {
	Pos() position.Position
	exprNode()
}

// exprBase supplies the position and the single type annotation slot
// that type analysis writes exactly once (spec.md §3's Invariants).
type exprBase struct {
	P    position.Position
	Type types.Type
}

func (e *exprBase) Pos() position.Position { return e.P }
func (e *exprBase) exprNode()              {}

// IntLit is a 32-bit integer literal.
type IntLit struct {
	exprBase
	Value int32
}

// NewIntLit constructs an integer literal at pos.
func NewIntLit(pos position.Position, v int32) *IntLit {
	return &IntLit{exprBase: exprBase{P: pos}, Value: v}
}

// BoolLit is a boolean literal.
type BoolLit struct {
	exprBase
	Value bool
}

// NewBoolLit constructs a boolean literal at pos.
func NewBoolLit(pos position.Position, v bool) *BoolLit {
	return &BoolLit{exprBase: exprBase{P: pos}, Value: v}
}

// Id is an identifier reference. Entry is env.ErrEntry until scope
// analysis resolves it; after scope analysis it points directly at
// the entry it is bound to (spec.md §3's Env invariant).
type Id struct {
	exprBase
	Name  string
	Entry env.EntryID
}

// NewId constructs an unresolved identifier reference.
func NewId(pos position.Position, name string) *Id {
	return &Id{exprBase: exprBase{P: pos}, Name: name, Entry: env.ErrEntry}
}

// binBase is shared shape for every binary operator node.
type binBase struct {
	exprBase
	Left, Right Expr
}

// Arithmetic: int x int -> int.
type Add struct{ binBase }
type Sub struct{ binBase }
type Mul struct{ binBase }

// Bitwise: int x int -> int.
type BAnd struct{ binBase }
type BOr struct{ binBase }
type BXor struct{ binBase }

// Logical: bool x bool -> bool, short-circuit.
type LAnd struct{ binBase }
type LOr struct{ binBase }

// Relational: int x int -> bool.
type Eq struct{ binBase }
type Neq struct{ binBase }
type Lt struct{ binBase }
type Le struct{ binBase }
type Gt struct{ binBase }
type Ge struct{ binBase }

func newBin(pos position.Position, l, r Expr) binBase {
	return binBase{exprBase: exprBase{P: pos}, Left: l, Right: r}
}

func NewAdd(pos position.Position, l, r Expr) *Add   { return &Add{newBin(pos, l, r)} }
func NewSub(pos position.Position, l, r Expr) *Sub    { return &Sub{newBin(pos, l, r)} }
func NewMul(pos position.Position, l, r Expr) *Mul    { return &Mul{newBin(pos, l, r)} }
func NewBAnd(pos position.Position, l, r Expr) *BAnd  { return &BAnd{newBin(pos, l, r)} }
func NewBOr(pos position.Position, l, r Expr) *BOr    { return &BOr{newBin(pos, l, r)} }
func NewBXor(pos position.Position, l, r Expr) *BXor  { return &BXor{newBin(pos, l, r)} }
func NewLAnd(pos position.Position, l, r Expr) *LAnd  { return &LAnd{newBin(pos, l, r)} }
func NewLOr(pos position.Position, l, r Expr) *LOr    { return &LOr{newBin(pos, l, r)} }
func NewEq(pos position.Position, l, r Expr) *Eq      { return &Eq{newBin(pos, l, r)} }
func NewNeq(pos position.Position, l, r Expr) *Neq    { return &Neq{newBin(pos, l, r)} }
func NewLt(pos position.Position, l, r Expr) *Lt      { return &Lt{newBin(pos, l, r)} }
func NewLe(pos position.Position, l, r Expr) *Le      { return &Le{newBin(pos, l, r)} }
func NewGt(pos position.Position, l, r Expr) *Gt      { return &Gt{newBin(pos, l, r)} }
func NewGe(pos position.Position, l, r Expr) *Ge      { return &Ge{newBin(pos, l, r)} }

// unaryBase is the shared shape for every unary operator node.
type unaryBase struct {
	exprBase
	X Expr
}

// Neg and BNot: int -> int. LNot: bool -> bool.
type Neg struct{ unaryBase }
type BNot struct{ unaryBase }
type LNot struct{ unaryBase }

func newUnary(pos position.Position, x Expr) unaryBase {
	return unaryBase{exprBase: exprBase{P: pos}, X: x}
}

func NewNeg(pos position.Position, x Expr) *Neg   { return &Neg{newUnary(pos, x)} }
func NewBNot(pos position.Position, x Expr) *BNot { return &BNot{newUnary(pos, x)} }
func NewLNot(pos position.Position, x Expr) *LNot { return &LNot{newUnary(pos, x)} }

// Assign is only ever constructible with an Id left-hand side; see
// NewAssign.
type Assign struct {
	exprBase
	LHS *Id
	RHS Expr
}

// LValueError is the sole error raised eagerly at AST construction
// time (spec.md §7), rather than through the diagnostics collector.
type LValueError struct {
	Pos position.Position
}

func (e *LValueError) Error() string {
	return fmt.Sprintf("%s: invalid left hand side for assignment", e.Pos)
}

// NewAssign builds an assignment expression. It fails immediately,
// before any analysis phase runs, when lhs is not an identifier.
func NewAssign(pos position.Position, lhs, rhs Expr) (*Assign, error) {
	id, ok := lhs.(*Id)
	if !ok {
		return nil, &LValueError{Pos: pos}
	}
	return &Assign{exprBase: exprBase{P: pos}, LHS: id, RHS: rhs}, nil
}

// Stmt is any mini-language statement node.
type Stmt interface {
	Pos() position.Position
	stmtNode()
}

type stmtBase struct {
	P position.Position
}

func (s *stmtBase) Pos() position.Position { return s.P }
func (s *stmtBase) stmtNode()              {}

// Seq sequences two statements.
type Seq struct {
	stmtBase
	First, Rest Stmt
}

func NewSeq(pos position.Position, first, rest Stmt) *Seq {
	return &Seq{stmtBase: stmtBase{P: pos}, First: first, Rest: rest}
}

// If is a conditional with both branches required (Else may be an
// Empty statement, never nil, so every phase can recurse
// unconditionally).
type If struct {
	stmtBase
	Test       Expr
	Then, Else Stmt
}

func NewIf(pos position.Position, test Expr, then, els Stmt) *If {
	return &If{stmtBase: stmtBase{P: pos}, Test: test, Then: then, Else: els}
}

// While is a pre-tested loop.
type While struct {
	stmtBase
	Test Expr
	Body Stmt
}

func NewWhile(pos position.Position, test Expr, body Stmt) *While {
	return &While{stmtBase: stmtBase{P: pos}, Test: test, Body: body}
}

// Print evaluates exp (which must be INT) and prints it.
type Print struct {
	stmtBase
	Exp Expr
}

func NewPrint(pos position.Position, exp Expr) *Print {
	return &Print{stmtBase: stmtBase{P: pos}, Exp: exp}
}

// ExprStmt evaluates exp purely for its side effect (normally an
// Assign).
type ExprStmt struct {
	stmtBase
	Exp Expr
}

func NewExprStmt(pos position.Position, exp Expr) *ExprStmt {
	return &ExprStmt{stmtBase: stmtBase{P: pos}, Exp: exp}
}

// VarDecl declares a local variable, with an optional initializer.
// Entry is set by scope analysis once the binding is installed.
type VarDecl struct {
	stmtBase
	Name     string
	DeclType types.Type
	Init     Expr // nil if no initializer was given
	Entry    env.EntryID
}

func NewVarDecl(pos position.Position, name string, declType types.Type, init Expr) *VarDecl {
	return &VarDecl{stmtBase: stmtBase{P: pos}, Name: name, DeclType: declType, Init: init, Entry: env.ErrEntry}
}

// Block introduces a nested scope: Decls are declared first, then
// Body runs in the resulting frame.
type Block struct {
	stmtBase
	Decls []*VarDecl
	Body  Stmt
}

func NewBlock(pos position.Position, decls []*VarDecl, body Stmt) *Block {
	return &Block{stmtBase: stmtBase{P: pos}, Decls: decls, Body: body}
}

// Empty is a statement that does nothing, used as a stand-in Else
// branch and as the terminator of a Seq chain.
type Empty struct {
	stmtBase
}

func NewEmpty(pos position.Position) *Empty {
	return &Empty{stmtBase: stmtBase{P: pos}}
}
