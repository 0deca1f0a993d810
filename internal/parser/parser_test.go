package parser_test

import (
	"strings"
	"testing"

	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/diagnostics"
	"github.com/splatlang/splat/internal/lexer"
	"github.com/splatlang/splat/internal/parser"
	"github.com/splatlang/splat/internal/pipeline"
)

// parseSource runs the lexer+parser pipeline over input.
func parseSource(input string) (*ast.Program, []*diagnostics.Diagnostic) {
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(&pipeline.PipelineContext{SourceCode: input})
	program, _ := ctx.AstRoot.(*ast.Program)
	return program, ctx.Errors
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, errs := parseSource(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
	return program
}

func expectError(t *testing.T, input string, code string) {
	t.Helper()
	_, errs := parseSource(input)
	for _, e := range errs {
		if e.Code == code {
			return
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
}

func TestFunctionWithBundleParameter(t *testing.T) {
	program := mustParse(t, `
fun greet(name, greeting = "hi", **rest) {
    return greeting
}
`)
	if len(program.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Statements))
	}
	fn, ok := program.Statements[0].(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.FunctionStatement", program.Statements[0])
	}
	if fn.Name.Value != "greet" {
		t.Errorf("name=%q, want greet", fn.Name.Value)
	}
	if len(fn.Parameters) != 3 {
		t.Fatalf("got %d parameters, want 3", len(fn.Parameters))
	}
	if fn.Parameters[1].Default == nil {
		t.Error("greeting should have a default")
	}
	bundle := fn.BundleParameter()
	if bundle == nil || bundle.Name.Value != "rest" {
		t.Fatalf("bundle parameter = %v, want rest", bundle)
	}
	if bundle != fn.Parameters[2] {
		t.Error("bundle should be the third parameter")
	}
}

func TestDecorators(t *testing.T) {
	program := mustParse(t, `
@forward
@trace
fun f(**kw) {
    g(**kw)
}
`)
	fn := program.Statements[0].(*ast.FunctionStatement)
	if len(fn.Decorators) != 2 {
		t.Fatalf("got %d decorators, want 2", len(fn.Decorators))
	}
	if fn.Decorators[0].Name.Value != "forward" || fn.Decorators[1].Name.Value != "trace" {
		t.Errorf("decorators = %s, %s", fn.Decorators[0].Name.Value, fn.Decorators[1].Name.Value)
	}
}

func TestCallArguments(t *testing.T) {
	program := mustParse(t, `f(1, x = 2, **kw)`)
	call := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	if len(call.Arguments) != 3 {
		t.Fatalf("got %d arguments, want 3", len(call.Arguments))
	}
	if call.Arguments[0].Name != nil || call.Arguments[0].Splat {
		t.Error("argument 0 should be positional")
	}
	if call.Arguments[1].Name == nil || call.Arguments[1].Name.Value != "x" {
		t.Error("argument 1 should be named x")
	}
	if !call.Arguments[2].Splat {
		t.Error("argument 2 should be a ** splat")
	}
}

func TestDoubleSplatIsNotExponentiation(t *testing.T) {
	// ** only appears in parameter lists and call arguments; between two
	// operands it is a parse error, not an operator.
	_, errs := parseSource(`a ** b`)
	if len(errs) == 0 {
		t.Fatal("expected a parse error for infix **")
	}
}

func TestElseIfDesugaring(t *testing.T) {
	program := mustParse(t, `
if a {
    x = 1
} else if b {
    x = 2
} else {
    x = 3
}
`)
	stmt := program.Statements[0].(*ast.IfStatement)
	if stmt.Alternative == nil || len(stmt.Alternative.Statements) != 1 {
		t.Fatal("else-if should desugar into an else block with one statement")
	}
	nested, ok := stmt.Alternative.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("nested statement is %T, want *ast.IfStatement", stmt.Alternative.Statements[0])
	}
	if nested.Alternative == nil {
		t.Error("nested if should carry the final else")
	}
}

func TestElseAfterNewline(t *testing.T) {
	program := mustParse(t, "if a {\n    x = 1\n}\nelse {\n    x = 2\n}")
	stmt := program.Statements[0].(*ast.IfStatement)
	if stmt.Alternative == nil {
		t.Fatal("else block after a newline should attach to the if")
	}
}

func TestLoops(t *testing.T) {
	program := mustParse(t, `
while x < 10 {
    x = x + 1
}
for k in d {
    print(k)
}
`)
	if _, ok := program.Statements[0].(*ast.WhileStatement); !ok {
		t.Errorf("statement 0 is %T, want *ast.WhileStatement", program.Statements[0])
	}
	forStmt, ok := program.Statements[1].(*ast.ForStatement)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.ForStatement", program.Statements[1])
	}
	if forStmt.Variable.Value != "k" {
		t.Errorf("loop variable = %q, want k", forStmt.Variable.Value)
	}
}

func TestMemberAndIndexChain(t *testing.T) {
	program := mustParse(t, `obj.inner.f(x)[0]`)
	idx, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.IndexExpression", program.Statements[0].(*ast.ExpressionStatement).Expression)
	}
	call, ok := idx.Left.(*ast.CallExpression)
	if !ok {
		t.Fatalf("index target is %T, want *ast.CallExpression", idx.Left)
	}
	if _, ok := call.Function.(*ast.MemberExpression); !ok {
		t.Errorf("callee is %T, want *ast.MemberExpression", call.Function)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a || b && c", "(a || (b && c))"},
		{"-a * b", "((-a) * b)"},
		{"a < b == c < d", "((a < b) == (c < d))"},
	}
	for _, tt := range tests {
		program := mustParse(t, tt.input)
		expr := program.Statements[0].(*ast.ExpressionStatement).Expression
		if got := exprString(expr); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.input, got, tt.want)
		}
	}
}

// exprString renders an expression fully parenthesized for precedence checks.
func exprString(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.InfixExpression:
		return "(" + exprString(e.Left) + " " + e.Operator + " " + exprString(e.Right) + ")"
	case *ast.PrefixExpression:
		return "(" + e.Operator + exprString(e.Right) + ")"
	case *ast.Identifier:
		return e.Value
	case *ast.IntegerLiteral:
		return e.Token.Lexeme
	default:
		return "?"
	}
}

func TestParameterListErrors(t *testing.T) {
	expectError(t, "fun f(**a, **b) { }", "P004")
	expectError(t, "fun f(**a = 1) { }", "P004")
}

func TestDecoratorWithoutFunction(t *testing.T) {
	expectError(t, "@forward\nx = 1", "P005")
}

func TestRecursionDepthLimit(t *testing.T) {
	input := strings.Repeat("(", parser.MaxRecursionDepth+10) + "1" +
		strings.Repeat(")", parser.MaxRecursionDepth+10)
	expectError(t, input, "P003")
}
