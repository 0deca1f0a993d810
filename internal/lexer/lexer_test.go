package lexer_test

import (
	"testing"

	"github.com/splatlang/splat/internal/lexer"
	"github.com/splatlang/splat/internal/token"
)

type expectedToken struct {
	typ     token.TokenType
	literal string
}

func lexAll(t *testing.T, input string) []token.Token {
	t.Helper()
	l := lexer.New(input)
	var out []token.Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	if errs := l.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	return out
}

func assertTokens(t *testing.T, input string, expected []expectedToken) {
	t.Helper()
	toks := lexAll(t, input)
	if len(toks) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d\ntokens: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Type != want.typ {
			t.Errorf("token %d: type=%q, want %q", i, toks[i].Type, want.typ)
		}
		if toks[i].Literal != want.literal {
			t.Errorf("token %d: literal=%q, want %q", i, toks[i].Literal, want.literal)
		}
	}
}

func TestFunctionDefinition(t *testing.T) {
	assertTokens(t, "fun greet(name, **rest) { }", []expectedToken{
		{token.FUNCTION, "fun"},
		{token.IDENT, "greet"},
		{token.LPAREN, "("},
		{token.IDENT, "name"},
		{token.COMMA, ","},
		{token.DOUBLE_SPLAT, "**"},
		{token.IDENT, "rest"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	})
}

func TestDoubleSplatVersusMultiply(t *testing.T) {
	assertTokens(t, "a * b ** c", []expectedToken{
		{token.IDENT, "a"},
		{token.ASTERISK, "*"},
		{token.IDENT, "b"},
		{token.DOUBLE_SPLAT, "**"},
		{token.IDENT, "c"},
		{token.EOF, ""},
	})
}

func TestDecoratorLine(t *testing.T) {
	assertTokens(t, "@forward\nfun f() { }", []expectedToken{
		{token.AT, "@"},
		{token.IDENT, "forward"},
		{token.NEWLINE, "\n"},
		{token.FUNCTION, "fun"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	})
}

func TestOperators(t *testing.T) {
	assertTokens(t, "== != <= >= && || < > ! = %", []expectedToken{
		{token.EQ, "=="},
		{token.NOT_EQ, "!="},
		{token.LT_EQ, "<="},
		{token.GT_EQ, ">="},
		{token.AND, "&&"},
		{token.OR, "||"},
		{token.LT, "<"},
		{token.GT, ">"},
		{token.BANG, "!"},
		{token.ASSIGN, "="},
		{token.PERCENT, "%"},
		{token.EOF, ""},
	})
}

func TestNumbersAndStrings(t *testing.T) {
	assertTokens(t, `x = 42 + 3.14 + "hi\n"`, []expectedToken{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.INT, "42"},
		{token.PLUS, "+"},
		{token.FLOAT, "3.14"},
		{token.PLUS, "+"},
		{token.STRING, "hi\n"},
		{token.EOF, ""},
	})
}

func TestKeywords(t *testing.T) {
	assertTokens(t, "if else while for in break continue return true false nil", []expectedToken{
		{token.IF, "if"},
		{token.ELSE, "else"},
		{token.WHILE, "while"},
		{token.FOR, "for"},
		{token.IN, "in"},
		{token.BREAK, "break"},
		{token.CONTINUE, "continue"},
		{token.RETURN, "return"},
		{token.TRUE, "true"},
		{token.FALSE, "false"},
		{token.NIL, "nil"},
		{token.EOF, ""},
	})
}

func TestCommentsAreSkipped(t *testing.T) {
	assertTokens(t, "a // trailing\n/* block\nspanning */ b", []expectedToken{
		{token.IDENT, "a"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "b"},
		{token.EOF, ""},
	})
}

func TestIllegalCharacter(t *testing.T) {
	l := lexer.New("a $ b")
	for {
		if tok := l.NextToken(); tok.Type == token.EOF {
			break
		}
	}
	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Code != "L001" {
		t.Errorf("code=%q, want L001", errs[0].Code)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := lexer.New(`x = "oops`)
	for {
		if tok := l.NextToken(); tok.Type == token.EOF {
			break
		}
	}
	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Code != "L002" {
		t.Errorf("code=%q, want L002", errs[0].Code)
	}
}

func TestPositions(t *testing.T) {
	toks := lexAll(t, "a\n  bb")
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Errorf("a at %d:%d, want 1:1", toks[0].Line, toks[0].Column)
	}
	// toks[1] is the newline
	if toks[2].Line != 2 || toks[2].Column != 3 {
		t.Errorf("bb at %d:%d, want 2:3", toks[2].Line, toks[2].Column)
	}
}
