package lumen

import (
	"strconv"
	"testing"
)

func scan(t *testing.T, src string) []Token {
	t.Helper()
	var toks []Token
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("unexpected lex failure for %q: %v", src, r)
			}
		}()
		toks = NewLexer(src).Scan()
	}()
	return toks
}

func kinds(toks []Token) []TokenKind {
	ks := make([]TokenKind, len(toks))
	for i, tk := range toks {
		ks[i] = tk.Kind
	}
	return ks
}

func TestLexerOperatorsAndKeywords(t *testing.T) {
	cases := []struct {
		src  string
		want []TokenKind
	}{
		{"+ - * / % **", []TokenKind{Plus, Minus, Multiply, Divide, Remainder, Exponentiate, EOF}},
		{"++ -- = += -= *= /= %= **=", []TokenKind{
			Increment, Decrement, AssignTok, PlusEq, MinusEq, MultiplyEq, DivideEq, RemainderEq, ExponentiateEq, EOF,
		}},
		{"&& || ! %% ?? ? :", []TokenKind{LogAnd, LogOr, LogNot, Divisible, NullCoalesce, Question, Colon, EOF}},
		{"== === != !== > >= < <=", []TokenKind{
			Equals, ReallyEquals, NotEquals, ReallyNotEquals, Greater, GreaterEqual, Smaller, SmallerEqual, EOF,
		}},
		{"-> ( ) { } [ ] , . ;", []TokenKind{
			Arrow, LParen, RParen, LBrace, RBrace, LBracket, RBracket, Comma, Dot, Semicolon, EOF,
		}},
		{"and or not is isnot", []TokenKind{LogAnd, LogOr, LogNot, ReallyEquals, ReallyNotEquals, EOF}},
		{"let con delete exists if elif else while for fn do break continue return unless",
			[]TokenKind{Keyword, Keyword, Keyword, Keyword, Keyword, Keyword, Keyword, Keyword, Keyword, Keyword,
				Keyword, Keyword, Keyword, Keyword, Keyword, EOF}},
	}

	for _, c := range cases {
		got := kinds(scan(t, c.src))
		if len(got) != len(c.want) {
			t.Fatalf("%q: got %d tokens %v, want %d %v", c.src, len(got), got, len(c.want), c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%q: token %d = %v, want %v", c.src, i, got[i], c.want[i])
			}
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{"1_000_000", 1000000},
		{"1e3", 1000},
		{"1.5e-2", 0.015},
		{"0b1010", 10},
		{"0o17", 15},
		{"0xFF", 255},
	}
	for _, c := range cases {
		toks := scan(t, c.src)
		if toks[0].Kind != Number {
			t.Fatalf("%q: expected a number token, got %v", c.src, toks[0].Kind)
		}
		got, err := strconv.ParseFloat(toks[0].Lexeme, 64)
		if err != nil {
			t.Fatalf("%q: lexeme %q did not parse as a float: %v", c.src, toks[0].Lexeme, err)
		}
		if got != c.want {
			t.Errorf("%q: got %v, want %v", c.src, got, c.want)
		}
	}
}

func TestLexerStringsAndChars(t *testing.T) {
	toks := scan(t, `"hello\nworld" 'a' '\t'`)
	if toks[0].Kind != String || toks[0].Lexeme != "hello\nworld" {
		t.Errorf("string literal: got %+v", toks[0])
	}
	if toks[1].Kind != Character || toks[1].Lexeme != "a" {
		t.Errorf("char literal: got %+v", toks[1])
	}
	if toks[2].Kind != Character || toks[2].Lexeme != "\t" {
		t.Errorf("escaped char literal: got %+v", toks[2])
	}
}

func TestLexerComments(t *testing.T) {
	toks := scan(t, "1 // trailing comment\n+ /* block\ncomment */ 2")
	got := kinds(toks)
	want := []TokenKind{Number, Plus, Number, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexerUnterminatedStringFails(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a lex failure for an unterminated string")
		}
		if _, ok := r.(*LexError); !ok {
			t.Errorf("expected *LexError, got %T", r)
		}
	}()
	NewLexer(`"unterminated`).Scan()
}

func TestLexerUnterminatedBlockCommentFails(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a lex failure for an unterminated block comment")
		}
	}()
	NewLexer("/* never closes").Scan()
}

func TestLexerIdentifierVsKeyword(t *testing.T) {
	toks := scan(t, "letter let_it_be fn123")
	for _, tk := range toks[:3] {
		if tk.Kind != Identifier {
			t.Errorf("%q: expected Identifier, got %v", tk.Lexeme, tk.Kind)
		}
	}
}
