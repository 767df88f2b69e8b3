// Package parser implements a hand-written recursive-descent parser
// building internal/ast trees directly from an internal/lexer token
// stream, per spec.md §4.0.
package parser

import (
	"fmt"
	"strconv"

	"github.com/minilang/minic/internal/ast"
	"github.com/minilang/minic/internal/lexer"
	"github.com/minilang/minic/internal/position"
	"github.com/minilang/minic/internal/types"
)

// Parser consumes tokens one at a time with a single token of
// lookahead.
type Parser struct {
	lex  *lexer.Lexer
	tok  lexer.Token
	peek lexer.Token
}

// New creates a Parser over lex, already positioned at the first token.
func New(lex *lexer.Lexer) (*Parser, error) {
	p := &Parser{lex: lex}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.tok = p.peek
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.peek = t
	return nil
}

func (p *Parser) expect(k lexer.Kind, what string) (lexer.Token, error) {
	if p.tok.Kind != k {
		return lexer.Token{}, fmt.Errorf("%s: expected %s, found %q", p.tok.Pos, what, p.tok.Text)
	}
	t := p.tok
	err := p.advance()
	return t, err
}

// ParseProgram parses an entire source file into a top-level Block.
func (p *Parser) ParseProgram() (*ast.Block, error) {
	pos := p.tok.Pos
	decls, body, err := p.block()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != lexer.EOF {
		return nil, fmt.Errorf("%s: unexpected trailing input %q", p.tok.Pos, p.tok.Text)
	}
	return ast.NewBlock(pos, decls, body), nil
}

// block parses a sequence of declarations followed by a sequence of
// statements, used both at the top level and inside { ... }.
func (p *Parser) block() ([]*ast.VarDecl, ast.Stmt, error) {
	var decls []*ast.VarDecl
	for p.tok.Kind == lexer.KwInt || p.tok.Kind == lexer.KwBoolean {
		d, err := p.varDecl()
		if err != nil {
			return nil, nil, err
		}
		decls = append(decls, d)
	}

	pos := p.tok.Pos
	body := ast.Stmt(ast.NewEmpty(pos))
	for isStmtStart(p.tok.Kind) {
		s, err := p.stmt()
		if err != nil {
			return nil, nil, err
		}
		body = ast.NewSeq(s.Pos(), s, body)
	}
	return decls, reverseSeq(body), nil
}

// reverseSeq flips the right-nested Seq chain block() builds (each new
// statement prepended) into the left-to-right order source order demands.
func reverseSeq(s ast.Stmt) ast.Stmt {
	var stmts []ast.Stmt
	for {
		seq, ok := s.(*ast.Seq)
		if !ok {
			break
		}
		stmts = append(stmts, seq.First)
		s = seq.Rest
	}
	result := s // the trailing Empty
	for _, st := range stmts {
		result = ast.NewSeq(st.Pos(), st, result)
	}
	return result
}

func isStmtStart(k lexer.Kind) bool {
	switch k {
	case lexer.LBrace, lexer.KwIf, lexer.KwWhile, lexer.KwPrint, lexer.Semi, lexer.Ident:
		return true
	default:
		return false
	}
}

func (p *Parser) varDecl() (*ast.VarDecl, error) {
	pos := p.tok.Pos
	var declType types.Type
	switch p.tok.Kind {
	case lexer.KwInt:
		declType = types.INT
	case lexer.KwBoolean:
		declType = types.BOOLEAN
	default:
		return nil, fmt.Errorf("%s: expected a type", pos)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.expect(lexer.Ident, "identifier")
	if err != nil {
		return nil, err
	}

	var init ast.Expr
	if p.tok.Kind == lexer.Assign {
		if err := p.advance(); err != nil {
			return nil, err
		}
		init, err = p.expr()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.Semi, `";"`); err != nil {
		return nil, err
	}
	return ast.NewVarDecl(pos, name.Text, declType, init), nil
}

func (p *Parser) stmt() (ast.Stmt, error) {
	pos := p.tok.Pos
	switch p.tok.Kind {
	case lexer.LBrace:
		return p.blockStmt()
	case lexer.KwIf:
		return p.ifStmt()
	case lexer.KwWhile:
		return p.whileStmt()
	case lexer.KwPrint:
		return p.printStmt()
	case lexer.Semi:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewEmpty(pos), nil
	default:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semi, `";"`); err != nil {
			return nil, err
		}
		return ast.NewExprStmt(pos, e), nil
	}
}

func (p *Parser) blockStmt() (ast.Stmt, error) {
	pos := p.tok.Pos
	if _, err := p.expect(lexer.LBrace, `"{"`); err != nil {
		return nil, err
	}
	decls, body, err := p.block()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBrace, `"}"`); err != nil {
		return nil, err
	}
	return ast.NewBlock(pos, decls, body), nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	pos := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen, `"("`); err != nil {
		return nil, err
	}
	test, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen, `")"`); err != nil {
		return nil, err
	}
	then, err := p.stmt()
	if err != nil {
		return nil, err
	}
	els := ast.Stmt(ast.NewEmpty(pos))
	if p.tok.Kind == lexer.KwElse {
		if err := p.advance(); err != nil {
			return nil, err
		}
		els, err = p.stmt()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIf(pos, test, then, els), nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	pos := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen, `"("`); err != nil {
		return nil, err
	}
	test, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen, `")"`); err != nil {
		return nil, err
	}
	body, err := p.stmt()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(pos, test, body), nil
}

func (p *Parser) printStmt() (ast.Stmt, error) {
	pos := p.tok.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semi, `";"`); err != nil {
		return nil, err
	}
	return ast.NewPrint(pos, e), nil
}

// Expression grammar, lowest to highest precedence:
// assignment > || > && > | > ^ > & > equality > relational > additive
// > multiplicative > unary > primary.

func (p *Parser) expr() (ast.Expr, error) {
	return p.assignExpr()
}

func (p *Parser) assignExpr() (ast.Expr, error) {
	lhs, err := p.orExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind == lexer.Assign {
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.assignExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(pos, lhs, rhs)
	}
	return lhs, nil
}

func (p *Parser) orExpr() (ast.Expr, error) {
	return p.binaryLeft(p.andExpr, map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr{
		lexer.PipePipe: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewLOr(pos, l, r) },
	})
}

func (p *Parser) andExpr() (ast.Expr, error) {
	return p.binaryLeft(p.bitOrExpr, map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr{
		lexer.AmpAmp: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewLAnd(pos, l, r) },
	})
}

func (p *Parser) bitOrExpr() (ast.Expr, error) {
	return p.binaryLeft(p.bitXorExpr, map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr{
		lexer.Pipe: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewBOr(pos, l, r) },
	})
}

func (p *Parser) bitXorExpr() (ast.Expr, error) {
	return p.binaryLeft(p.bitAndExpr, map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr{
		lexer.Caret: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewBXor(pos, l, r) },
	})
}

func (p *Parser) bitAndExpr() (ast.Expr, error) {
	return p.binaryLeft(p.equalityExpr, map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr{
		lexer.Amp: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewBAnd(pos, l, r) },
	})
}

func (p *Parser) equalityExpr() (ast.Expr, error) {
	return p.binaryLeft(p.relationalExpr, map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr{
		lexer.EqEq:  func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewEq(pos, l, r) },
		lexer.NotEq: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewNeq(pos, l, r) },
	})
}

func (p *Parser) relationalExpr() (ast.Expr, error) {
	return p.binaryLeft(p.additiveExpr, map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr{
		lexer.Lt: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewLt(pos, l, r) },
		lexer.Le: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewLe(pos, l, r) },
		lexer.Gt: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewGt(pos, l, r) },
		lexer.Ge: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewGe(pos, l, r) },
	})
}

func (p *Parser) additiveExpr() (ast.Expr, error) {
	return p.binaryLeft(p.multiplicativeExpr, map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr{
		lexer.Plus:  func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewAdd(pos, l, r) },
		lexer.Minus: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewSub(pos, l, r) },
	})
}

func (p *Parser) multiplicativeExpr() (ast.Expr, error) {
	return p.binaryLeft(p.unaryExpr, map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr{
		lexer.Star: func(pos position.Position, l, r ast.Expr) ast.Expr { return ast.NewMul(pos, l, r) },
	})
}

// binaryLeft implements one level of left-associative binary
// precedence climbing shared by every operator tier above.
func (p *Parser) binaryLeft(next func() (ast.Expr, error), ops map[lexer.Kind]func(position.Position, ast.Expr, ast.Expr) ast.Expr) (ast.Expr, error) {
	lhs, err := next()
	if err != nil {
		return nil, err
	}
	for {
		ctor, ok := ops[p.tok.Kind]
		if !ok {
			return lhs, nil
		}
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := next()
		if err != nil {
			return nil, err
		}
		lhs = ctor(pos, lhs, rhs)
	}
}

func (p *Parser) unaryExpr() (ast.Expr, error) {
	pos := p.tok.Pos
	switch p.tok.Kind {
	case lexer.Minus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewNeg(pos, x), nil
	case lexer.Tilde:
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewBNot(pos, x), nil
	case lexer.Bang:
		if err := p.advance(); err != nil {
			return nil, err
		}
		x, err := p.unaryExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewLNot(pos, x), nil
	default:
		return p.primaryExpr()
	}
}

func (p *Parser) primaryExpr() (ast.Expr, error) {
	pos := p.tok.Pos
	switch p.tok.Kind {
	case lexer.IntLiteral:
		text := p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer literal %q", pos, text)
		}
		return ast.NewIntLit(pos, int32(v)), nil
	case lexer.KwTrue:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewBoolLit(pos, true), nil
	case lexer.KwFalse:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewBoolLit(pos, false), nil
	case lexer.Ident:
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewId(pos, name), nil
	case lexer.LParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, `")"`); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%s: unexpected token %q", pos, p.tok.Text)
	}
}
