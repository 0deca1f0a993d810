package prettyprinter_test

import (
	"strings"
	"testing"

	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/lexer"
	"github.com/splatlang/splat/internal/parser"
	"github.com/splatlang/splat/internal/pipeline"
	"github.com/splatlang/splat/internal/prettyprinter"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(&pipeline.PipelineContext{SourceCode: input})
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse errors: %v\ninput:\n%s", ctx.Errors, input)
	}
	return ctx.AstRoot.(*ast.Program)
}

func TestCanonicalOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "function with bundle and default",
			input: "fun f(a,b=2,**kw){return a+b}",
			want:  "fun f(a, b = 2, **kw) {\n    return a + b\n}\n",
		},
		{
			name:  "decorated function",
			input: "@forward\nfun f(**kw) {\ng(**kw)\n}",
			want:  "@forward\nfun f(**kw) {\n    g(**kw)\n}\n",
		},
		{
			name:  "call argument forms",
			input: `f(1, x = 2, **kw)`,
			want:  "f(1, x=2, **kw)\n",
		},
		{
			name:  "needed parentheses survive",
			input: "x = (1 + 2) * 3",
			want:  "x = (1 + 2) * 3\n",
		},
		{
			name:  "redundant parentheses drop",
			input: "x = (a * b) + c",
			want:  "x = a * b + c\n",
		},
		{
			name:  "else if chain resugars",
			input: "if a {\nx = 1\n} else if b {\nx = 2\n} else {\nx = 3\n}",
			want:  "if a {\n    x = 1\n} else if b {\n    x = 2\n} else {\n    x = 3\n}\n",
		},
		{
			name:  "string escapes",
			input: `x = "a\n\"b\""`,
			want:  "x = \"a\\n\\\"b\\\"\"\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := parseProgram(t, tt.input)
			got := prettyprinter.NewCodePrinter().Print(program)
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

// Printing a program and reparsing it must produce the same printed form:
// the canonical rendering is a fixed point of parse-then-print.
func TestPrintReparseFixedPoint(t *testing.T) {
	sources := []string{
		"fun outer(a, **kw) {\n    inner(a, **kw)\n    return obj.method(**kw)\n}",
		"while x < 10 {\n    x = x + 1\n    if x % 2 == 0 {\n        continue\n    }\n}",
		"for k in {\"a\": 1, \"b\": [1, 2.5, nil]} {\n    print(k)\n}",
		"x = !flag && -y > 3 || z == nil",
	}
	for _, src := range sources {
		first := prettyprinter.NewCodePrinter().Print(parseProgram(t, src))
		second := prettyprinter.NewCodePrinter().Print(parseProgram(t, first))
		if first != second {
			t.Errorf("not a fixed point.\nfirst:\n%s\nsecond:\n%s", first, second)
		}
	}
}

func TestPrintStatementSingle(t *testing.T) {
	program := parseProgram(t, "fun f() {\n    return 1\n}")
	got := prettyprinter.NewCodePrinter().PrintStatement(program.Statements[0])
	if !strings.HasPrefix(got, "fun f() {") || !strings.HasSuffix(got, "}\n") {
		t.Errorf("unexpected rendering:\n%s", got)
	}
}

func TestPrintExpressionStandalone(t *testing.T) {
	program := parseProgram(t, "obj.inner.pick(1)[0]")
	expr := program.Statements[0].(*ast.ExpressionStatement).Expression
	got := prettyprinter.NewCodePrinter().PrintExpression(expr)
	if got != "obj.inner.pick(1)[0]" {
		t.Errorf("got %q", got)
	}
}
