package token

import (
	"errors"
	"io"
	"math"
	"testing"
)

func allTokens(t *testing.T, l *Lexer) []Token {
	t.Helper()

	var out []Token

	for {
		tok, err := l.Next()
		if err == io.EOF {
			return out
		}

		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}

		out = append(out, tok)
	}
}

func TestLexerKeywordsAndPunctuation(t *testing.T) {
	l := NewLexer("t.psf", `HEADER TYPE SWEEP TRACE VALUE END GROUP STRUCT ARRAY PROP * ( )`)

	toks := allTokens(t, l)

	want := []Kind{HEADER, TYPE, SWEEP, TRACE, VALUE, END, GROUP, STRUCT, ARRAY, PROP, STAR, LPAREN, RPAREN}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}

	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexerUnknownKeyword(t *testing.T) {
	l := NewLexer("t.psf", `BOGUS`)

	_, err := l.Next()
	if err == nil {
		t.Fatal("expected error for unknown keyword")
	}

	var perr *PosError
	if !asPos(err, &perr) {
		t.Fatalf("expected *PosError, got %T: %v", err, err)
	}

	if perr.Hint == "" {
		t.Error("expected a hint on an unknown-keyword error")
	}
}

func asPos(err error, target **PosError) bool {
	if pe, ok := err.(*PosError); ok {
		*target = pe
		return true
	}

	return false
}

func TestLexerIntegerAndReal(t *testing.T) {
	l := NewLexer("t.psf", `42 -7 3.14 -2.5e-3 1e10`)

	toks := allTokens(t, l)
	if len(toks) != 5 {
		t.Fatalf("got %d tokens, want 5", len(toks))
	}

	if toks[0].Kind != INTEGER || toks[0].Ival != 42 {
		t.Errorf("token 0: %+v", toks[0])
	}

	if toks[1].Kind != INTEGER || toks[1].Ival != -7 {
		t.Errorf("token 1: %+v", toks[1])
	}

	if toks[2].Kind != REAL || toks[2].Fval != 3.14 {
		t.Errorf("token 2: %+v", toks[2])
	}

	if toks[3].Kind != REAL || toks[3].Fval != -2.5e-3 {
		t.Errorf("token 3: %+v", toks[3])
	}

	if toks[4].Kind != REAL || toks[4].Fval != 1e10 {
		t.Errorf("token 4: %+v", toks[4])
	}
}

func TestLexerNanAndInf(t *testing.T) {
	l := NewLexer("t.psf", `nan NaN inf NAN`)

	toks := allTokens(t, l)
	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4", len(toks))
	}

	for i, tok := range toks[:3] {
		if tok.Kind != NAN {
			t.Errorf("token %d: kind = %s, want NAN", i, tok.Kind)
		}
	}

	if !math.IsInf(toks[2].Fval, 1) {
		t.Errorf("inf token: Fval = %v, want +Inf", toks[2].Fval)
	}

	if !math.IsNaN(toks[3].Fval) {
		t.Errorf("NAN keyword token: Fval = %v, want NaN", toks[3].Fval)
	}
}

func TestLexerQuotedString(t *testing.T) {
	l := NewLexer("t.psf", `"hello world" "with \"escaped\" quotes"`)

	toks := allTokens(t, l)
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2", len(toks))
	}

	if toks[0].Sval != "hello world" {
		t.Errorf("token 0: Sval = %q", toks[0].Sval)
	}

	if Unescape(toks[1].Sval) != `with "escaped" quotes` {
		t.Errorf("token 1: Unescape(Sval) = %q", Unescape(toks[1].Sval))
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := NewLexer("t.psf", `"unterminated`)

	_, err := l.Next()
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}

	var perr *PosError
	if !asPos(err, &perr) {
		t.Fatalf("expected *PosError, got %T: %v", err, err)
	}

	if perr.Hint == "" {
		t.Error("expected a hint on an unterminated-string error")
	}
}

func TestLexerMalformedIntegerWrapsCause(t *testing.T) {
	l := NewLexer("t.psf", `99999999999999999999`)

	_, err := l.Next()
	if err == nil {
		t.Fatal("expected error for an out-of-range integer literal")
	}

	var perr *PosError
	if !asPos(err, &perr) {
		t.Fatalf("expected *PosError, got %T: %v", err, err)
	}

	if perr.Cause == nil {
		t.Fatal("expected the underlying strconv error to be wrapped as Cause")
	}

	if !errors.Is(perr, perr.Cause) {
		t.Errorf("errors.Is(perr, perr.Cause) = false, want true")
	}
}

func TestLexerEmbeddedNewlineInString(t *testing.T) {
	l := NewLexer("t.psf", "\"line1\nline2\"")

	_, err := l.Next()
	if err == nil {
		t.Fatal("expected error for embedded newline in quoted string")
	}
}

func TestLexerIllegalCharacter(t *testing.T) {
	l := NewLexer("t.psf", `#`)

	_, err := l.Next()
	if err == nil {
		t.Fatal("expected error for illegal character")
	}
}

func TestLexerPositionTracking(t *testing.T) {
	l := NewLexer("t.psf", "HEADER\nTYPE")

	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tok.Pos.Line != 1 || tok.Pos.Col != 1 {
		t.Errorf("HEADER pos = %+v, want line 1 col 1", tok.Pos)
	}

	tok, err = l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tok.Pos.Line != 2 || tok.Pos.Col != 1 {
		t.Errorf("TYPE pos = %+v, want line 2 col 1", tok.Pos)
	}
}

func TestLexerLineText(t *testing.T) {
	l := NewLexer("t.psf", "HEADER\nTYPE\nEND")

	if got := l.LineText(2); got != "TYPE" {
		t.Errorf("LineText(2) = %q, want %q", got, "TYPE")
	}

	if got := l.LineText(99); got != "" {
		t.Errorf("LineText(99) = %q, want empty", got)
	}
}

func TestPosErrorExplain(t *testing.T) {
	perr := NewPosError(Pos{File: "t.psf", Line: 3, Col: 5}, `HEADER "bad`, "unterminated quoted string")

	explain := perr.Explain()
	if explain == "" {
		t.Fatal("Explain() returned empty string")
	}

	want := "t.psf(3): unterminated quoted string\n    HEADER \"bad\n        ^"
	if explain != want {
		t.Errorf("Explain() =\n%s\nwant\n%s", explain, want)
	}
}
