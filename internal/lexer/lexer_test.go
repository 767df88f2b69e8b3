package lexer

import (
	"testing"

	"github.com/minilang/minic/internal/position"
)

func tokenKinds(t *testing.T, src string) []Kind {
	t.Helper()
	sf := position.NewSourceFile("test.mini", src)
	lx := New(sf)
	var kinds []Kind
	for {
		tok, err := lx.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		kinds = append(kinds, tok.Kind)
		if tok.Kind == EOF {
			return kinds
		}
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	kinds := tokenKinds(t, `int boolean if else while print true false foo`)
	want := []Kind{KwInt, KwBoolean, KwIf, KwElse, KwWhile, KwPrint, KwTrue, KwFalse, Ident, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestTwoCharacterOperatorsPreferLongestMatch(t *testing.T) {
	kinds := tokenKinds(t, `&& & || | == = != < <= > >=`)
	want := []Kind{AmpAmp, Amp, PipePipe, Pipe, EqEq, Assign, NotEq, Lt, Le, Gt, Ge, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestLineCommentsAreSkipped(t *testing.T) {
	kinds := tokenKinds(t, "int x; // this is a comment\nx = 1;")
	want := []Kind{KwInt, Ident, Semi, Ident, Assign, IntLiteral, Semi, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestIntLiteralText(t *testing.T) {
	sf := position.NewSourceFile("test.mini", `12345`)
	lx := New(sf)
	tok, err := lx.Next()
	if err != nil {
		t.Fatalf("unexpected lex error: %v", err)
	}
	if tok.Kind != IntLiteral || tok.Text != "12345" {
		t.Fatalf("tok = %+v, want IntLiteral(12345)", tok)
	}
}

func TestUnrecognizedCharacterIsAnError(t *testing.T) {
	sf := position.NewSourceFile("test.mini", `@`)
	lx := New(sf)
	if _, err := lx.Next(); err == nil {
		t.Fatalf("expected an error for an unrecognized character")
	}
}

func TestPunctuation(t *testing.T) {
	kinds := tokenKinds(t, `( ) { } ; , + - * ~ ^`)
	want := []Kind{LParen, RParen, LBrace, RBrace, Semi, Comma, Plus, Minus, Star, Tilde, Caret, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}
