package forward

import (
	"go.uber.org/zap"

	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/evaluator"
	"github.com/splatlang/splat/internal/prettyprinter"
	"github.com/splatlang/splat/internal/token"
)

// rewriter performs the call-site rewriting pass over one host function's
// body. It finds every call expression forwarding the bundle via **, rewrites
// it to filter the bundle through the runtime helpers, and accumulates the
// aggregate accepted-parameter information for the assembler.
type rewriter struct {
	hostName   string
	bundle     string // name of the host's **parameter
	globals    *evaluator.Environment
	transitive bool

	hoister *hoister
	printer *prettyprinter.CodePrinter

	sites          int
	staticNames    []string // accepted names gathered at transform time
	pendingNames   []string // display names of dynamic contributors
	forwardedNames []string // display names of every forwarded callee
	err            error    // first fatal introspection failure
}

func newRewriter(hostName, bundle string, globals *evaluator.Environment, transitive bool) *rewriter {
	return &rewriter{
		hostName:   hostName,
		bundle:     bundle,
		globals:    globals,
		transitive: transitive,
		hoister:    newHoister(),
		printer:    prettyprinter.NewCodePrinter(),
	}
}

func (rw *rewriter) rewriteBlock(block *ast.BlockStatement) {
	var out []ast.Statement
	for _, stmt := range block.Statements {
		out = append(out, rw.rewriteStatement(stmt)...)
	}
	block.Statements = out
}

// rewriteStatement rewrites one statement and returns it preceded by any
// cache assignments hoisted out of its expressions. Statements nested in
// branches keep their assignments inside the branch: only the expressions
// evaluated as part of this very statement hoist in front of it.
func (rw *rewriter) rewriteStatement(stmt ast.Statement) []ast.Statement {
	rw.hoister.push()

	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		s.Expression = rw.rewriteExpression(s.Expression)
	case *ast.AssignStatement:
		s.Value = rw.rewriteExpression(s.Value)
	case *ast.ReturnStatement:
		if s.Value != nil {
			s.Value = rw.rewriteExpression(s.Value)
		}
	case *ast.IfStatement:
		s.Condition = rw.rewriteExpression(s.Condition)
		rw.rewriteBlock(s.Consequence)
		if s.Alternative != nil {
			rw.rewriteBlock(s.Alternative)
		}
	case *ast.WhileStatement:
		s.Condition = rw.rewriteExpression(s.Condition)
		rw.rewriteBlock(s.Body)
	case *ast.ForStatement:
		s.Iterable = rw.rewriteExpression(s.Iterable)
		rw.rewriteBlock(s.Body)
	case *ast.BlockStatement:
		rw.rewriteBlock(s)
	case *ast.FunctionStatement:
		// Nested definitions have their own parameter scope; a ** there is
		// not this host's bundle.
	}

	assigns := rw.hoister.pop()
	return append(assigns, stmt)
}

func (rw *rewriter) rewriteExpression(expr ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case *ast.PrefixExpression:
		e.Right = rw.rewriteExpression(e.Right)
	case *ast.InfixExpression:
		e.Left = rw.rewriteExpression(e.Left)
		e.Right = rw.rewriteExpression(e.Right)
	case *ast.MemberExpression:
		e.Left = rw.rewriteExpression(e.Left)
	case *ast.IndexExpression:
		e.Left = rw.rewriteExpression(e.Left)
		e.Index = rw.rewriteExpression(e.Index)
	case *ast.ListLiteral:
		for i, elem := range e.Elements {
			e.Elements[i] = rw.rewriteExpression(elem)
		}
	case *ast.DictLiteral:
		for _, entry := range e.Entries {
			entry.Key = rw.rewriteExpression(entry.Key)
			entry.Value = rw.rewriteExpression(entry.Value)
		}
	case *ast.CallExpression:
		e.Function = rw.rewriteExpression(e.Function)
		for _, arg := range e.Arguments {
			arg.Value = rw.rewriteExpression(arg.Value)
		}
		rw.transformCall(e)
	}
	return expr
}

// transformCall rewrites the call when it forwards the bundle. Only a
// **bundle argument qualifies; the bundle passed positionally or as a
// name=bundle argument flows through whole.
func (rw *rewriter) transformCall(call *ast.CallExpression) {
	var site *ast.Argument
	for _, arg := range call.Arguments {
		if !arg.Splat {
			continue
		}
		if id, ok := arg.Value.(*ast.Identifier); ok && id.Value == rw.bundle {
			site = arg
			break
		}
	}
	if site == nil {
		return
	}

	callee := call.Function
	displayName := rw.displayName(callee)
	rw.sites++
	rw.forwardedNames = append(rw.forwardedNames, displayName)

	// A bare name bound in the definition scope at transform time can be
	// introspected now and re-evaluates to the same object later.
	var calleeObj evaluator.Object
	globalBareName := false
	if id, ok := callee.(*ast.Identifier); ok {
		if obj, found := rw.globals.Get(id.Value); found {
			calleeObj, globalBareName = obj, true
		} else if b, found := evaluator.Builtins[id.Value]; found {
			calleeObj, globalBareName = b, true
		}
	}

	if globalBareName && !rw.transitive {
		params, err := ParametersOf(calleeObj)
		if err != nil {
			if rw.err == nil {
				rw.err = err
			}
			return
		}
		rw.staticNames = append(rw.staticNames, params...)
		site.Value = synthCall(FilterBuiltinName, cloneCallee(callee), synthIdent(rw.bundle))
		Logger().Debug("forwarding site rewritten",
			zap.String("host", rw.hostName),
			zap.String("callee", displayName),
			zap.String("resolution", "static"))
		return
	}

	// Dynamic resolution: the callee's accepted names are only knowable at
	// call time. Non-idempotent callee expressions are evaluated once into
	// a cache binding used for both introspection and invocation.
	rw.pendingNames = append(rw.pendingNames, displayName)
	calleeRef := callee
	cached := false
	if !globalBareName {
		calleeRef = rw.hoister.cache(callee)
		call.Function = calleeRef
		cached = true
	}
	site.Value = synthCall(ContributeBuiltinName,
		synthIdent(stateVarName),
		cloneCallee(calleeRef),
		synthString(displayName),
		synthIdent(rw.bundle))
	Logger().Debug("forwarding site rewritten",
		zap.String("host", rw.hostName),
		zap.String("callee", displayName),
		zap.String("resolution", "dynamic"),
		zap.Bool("cached", cached))
}

func (rw *rewriter) displayName(callee ast.Expression) string {
	if id, ok := callee.(*ast.Identifier); ok {
		return id.Value
	}
	return rw.printer.PrintExpression(callee)
}

// --- synthesized node helpers ---

func synthToken(lexeme string) token.Token {
	return token.Token{Type: token.IDENT, Lexeme: lexeme, Literal: lexeme}
}

func synthIdent(name string) *ast.Identifier {
	return &ast.Identifier{Token: synthToken(name), Value: name}
}

func synthString(value string) *ast.StringLiteral {
	return &ast.StringLiteral{
		Token: token.Token{Type: token.STRING, Lexeme: value, Literal: value},
		Value: value,
	}
}

func synthStringList(values []string) *ast.ListLiteral {
	list := &ast.ListLiteral{Token: synthToken("[")}
	for _, v := range values {
		list.Elements = append(list.Elements, synthString(v))
	}
	return list
}

func synthCall(name string, args ...ast.Expression) *ast.CallExpression {
	call := &ast.CallExpression{Token: synthToken(name), Function: synthIdent(name)}
	for _, arg := range args {
		call.Arguments = append(call.Arguments, &ast.Argument{Token: arg.GetToken(), Value: arg})
	}
	return call
}

// cloneCallee duplicates a bare-name callee so that the rewritten call and
// the helper argument do not share one node. Other expressions are already
// replaced by a cache binding before reaching here.
func cloneCallee(callee ast.Expression) ast.Expression {
	if id, ok := callee.(*ast.Identifier); ok {
		return &ast.Identifier{Token: id.Token, Value: id.Value}
	}
	return callee
}
