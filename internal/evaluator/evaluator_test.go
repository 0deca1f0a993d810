package evaluator_test

import (
	"strings"
	"testing"

	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/evaluator"
	"github.com/splatlang/splat/internal/lexer"
	"github.com/splatlang/splat/internal/parser"
	"github.com/splatlang/splat/internal/pipeline"
)

func evalSource(t *testing.T, input string) evaluator.Object {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(&pipeline.PipelineContext{SourceCode: input})
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse errors: %v\ninput:\n%s", ctx.Errors, input)
	}
	env := evaluator.NewEnvironment()
	return evaluator.New().Eval(ctx.AstRoot.(*ast.Program), env)
}

func expectInteger(t *testing.T, input string, want int64) {
	t.Helper()
	result := evalSource(t, input)
	integer, ok := result.(*evaluator.Integer)
	if !ok {
		t.Fatalf("got %T (%s), want *evaluator.Integer\ninput: %s", result, result.Inspect(), input)
	}
	if integer.Value != want {
		t.Errorf("got %d, want %d\ninput: %s", integer.Value, want, input)
	}
}

func expectString(t *testing.T, input string, want string) {
	t.Helper()
	result := evalSource(t, input)
	str, ok := result.(*evaluator.String)
	if !ok {
		t.Fatalf("got %T (%s), want *evaluator.String\ninput: %s", result, result.Inspect(), input)
	}
	if str.Value != want {
		t.Errorf("got %q, want %q\ninput: %s", str.Value, want, input)
	}
}

func expectError(t *testing.T, input string, wantSubstring string) {
	t.Helper()
	result := evalSource(t, input)
	errObj, ok := result.(*evaluator.Error)
	if !ok {
		t.Fatalf("got %T (%s), want *evaluator.Error\ninput: %s", result, result.Inspect(), input)
	}
	if !strings.Contains(errObj.Message, wantSubstring) {
		t.Errorf("error %q does not contain %q", errObj.Message, wantSubstring)
	}
}

func TestArithmetic(t *testing.T) {
	expectInteger(t, "1 + 2 * 3", 7)
	expectInteger(t, "(1 + 2) * 3", 9)
	expectInteger(t, "10 % 3", 1)
	expectInteger(t, "-5 + 2", -3)
}

func TestStringConcat(t *testing.T) {
	expectString(t, `"foo" + "bar"`, "foobar")
}

func TestControlFlow(t *testing.T) {
	expectInteger(t, `
x = 0
while x < 10 {
    x = x + 1
    if x == 5 {
        break
    }
}
x
`, 5)
	expectInteger(t, `
total = 0
for v in [1, 2, 3, 4] {
    if v == 3 {
        continue
    }
    total = total + v
}
total
`, 8)
}

func TestFunctionCalls(t *testing.T) {
	expectInteger(t, `
fun add(a, b = 10) {
    return a + b
}
add(1) + add(1, 2)
`, 14)
	expectInteger(t, `
fun add(a, b) {
    return a + b
}
add(b = 2, a = 1)
`, 3)
}

func TestForwardReference(t *testing.T) {
	// Functions can call functions defined later in the module.
	expectInteger(t, `
fun first() {
    return second()
}
fun second() {
    return 42
}
first()
`, 42)
}

func TestBundleCollection(t *testing.T) {
	expectInteger(t, `
fun f(a, **kw) {
    return len(kw)
}
f(1, x = 2, y = 3)
`, 2)
	// The bundle is insertion ordered.
	expectString(t, `
fun f(**kw) {
    return keys(kw)[0] + keys(kw)[1]
}
f(b = 1, a = 2)
`, "ba")
}

func TestSplatExpansion(t *testing.T) {
	expectInteger(t, `
fun f(a, b) {
    return a + b
}
args = {"a": 1, "b": 2}
f(**args)
`, 3)
}

func TestCallErrors(t *testing.T) {
	expectError(t, `
fun g(a) {
    return a
}
g(x = 1)
`, "g() got an unexpected keyword argument 'x'")
	expectError(t, `
fun g(a) {
    return a
}
g(1, a = 2)
`, "g() got multiple values for argument 'a'")
	expectError(t, `
fun g(a) {
    return a
}
g()
`, "g() missing required argument 'a'")
	expectError(t, `
fun g(a) {
    return a
}
g(1, 2)
`, "g() takes 1 positional arguments but 2 were given")
}

func TestDecoratorApplication(t *testing.T) {
	expectInteger(t, `
fun constantly7(f) {
    return seven
}
fun seven() {
    return 7
}
@constantly7
fun anything() {
    return 1
}
anything()
`, 7)
}

func TestDecoratorNotFound(t *testing.T) {
	expectError(t, `
@nope
fun f() {
    return 1
}
`, "decorator not found: nope")
}

func TestDictAndListAccess(t *testing.T) {
	expectInteger(t, `d = {"a": 1, "b": 2}
d.a + d["b"]`, 3)
	expectInteger(t, `[10, 20, 30][1]`, 20)
	expectError(t, `[1][5]`, "list index 5 out of range")
	expectError(t, `{"a": 1}.b`, `no entry "b" in dict`)
}

func TestBuiltins(t *testing.T) {
	expectInteger(t, `len("hello")`, 5)
	expectInteger(t, `len(push([1], 2))`, 2)
	expectString(t, `str(42)`, "42")
	expectString(t, `type(1.5)`, "FLOAT")
}

func TestClosureCapture(t *testing.T) {
	expectInteger(t, `
base = 100
fun addBase(x) {
    return base + x
}
addBase(5)
`, 105)
}
