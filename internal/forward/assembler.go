package forward

import (
	"strings"

	"go.uber.org/zap"

	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/evaluator"
	"github.com/splatlang/splat/internal/lexer"
	"github.com/splatlang/splat/internal/parser"
	"github.com/splatlang/splat/internal/pipeline"
	"github.com/splatlang/splat/internal/prettyprinter"
)

// Transform rebuilds a decorated function so that every call forwarding its
// **bundle filters the bundle down to what the callee accepts, and so that
// bundle entries no callee accepts are rejected with the host's own name on
// the error. marker is the decorator name being applied; it is stripped from
// the re-assembled declaration so the result prints without it.
func Transform(fn *evaluator.Function, reg *Registry, transitive bool, marker string) (*evaluator.Function, error) {
	if fn.Name == "" {
		return nil, &UnsupportedTargetError{Reason: "anonymous functions cannot be re-assembled"}
	}
	if fn.Decl == nil {
		return nil, &UnsupportedTargetError{Function: fn.Name, Reason: "source declaration is not available"}
	}
	if !fn.TopLevel {
		return nil, &UnsupportedTargetError{Function: fn.Name, Reason: "function closes over an enclosing scope"}
	}

	decl, err := reparse(fn)
	if err != nil {
		return nil, err
	}

	bundleParam := decl.BundleParameter()
	if bundleParam == nil {
		return nil, &NoForwardingTargetError{Function: fn.Name}
	}

	rw := newRewriter(fn.Name, bundleParam.Name.Value, fn.Env, transitive)
	rw.rewriteBlock(decl.Body)
	if rw.err != nil {
		return nil, rw.err
	}
	if rw.sites == 0 {
		return nil, &NoForwardingTargetError{Function: fn.Name}
	}

	decl.Body.Statements = append([]ast.Statement{buildPrologue(fn.Name, bundleParam.Name.Value, rw)},
		decl.Body.Statements...)
	stripMarker(decl, marker)

	out := &evaluator.Function{
		Name:       decl.Name.Value,
		Parameters: decl.Parameters,
		Body:       decl.Body,
		Env:        fn.Env,
		Doc:        fn.Doc,
		Line:       fn.Line,
		Column:     fn.Column,
		Decl:       decl,
		TopLevel:   fn.TopLevel,
		ForwardKey: fn.Name,
	}
	registerProvider(reg, out, fn.Env, rw.forwardedNames)

	Logger().Debug("function assembled",
		zap.String("function", fn.Name),
		zap.Bool("transitive", transitive),
		zap.Int("sites", rw.sites),
		zap.Int("dynamic", len(rw.pendingNames)))
	return out, nil
}

// reparse derives a fresh declaration tree by printing the retained one and
// running the result back through the front end. Working on a fresh tree
// keeps the retained declaration printable as the code the user wrote.
func reparse(fn *evaluator.Function) (*ast.FunctionStatement, error) {
	source := prettyprinter.NewCodePrinter().PrintStatement(fn.Decl)
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(&pipeline.PipelineContext{FilePath: "<forward:" + fn.Name + ">", SourceCode: source})
	if len(ctx.Errors) > 0 {
		return nil, &UnsupportedTargetError{Function: fn.Name,
			Reason: "declaration did not re-parse: " + ctx.Errors[0].Message}
	}
	program, ok := ctx.AstRoot.(*ast.Program)
	if !ok || len(program.Statements) == 0 {
		return nil, &UnsupportedTargetError{Function: fn.Name, Reason: "declaration did not re-parse"}
	}
	decl, ok := program.Statements[0].(*ast.FunctionStatement)
	if !ok {
		return nil, &UnsupportedTargetError{Function: fn.Name, Reason: "declaration is not a function statement"}
	}
	return decl, nil
}

// buildPrologue synthesizes the statement injected at the top of the body.
// With only statically resolved sites the aggregate check runs immediately;
// with any dynamic site it is deferred behind a per-invocation state that the
// contribute helper retires site by site.
func buildPrologue(host, bundle string, rw *rewriter) ast.Statement {
	static := dedupe(rw.staticNames)
	if len(rw.pendingNames) == 0 {
		check := synthCall(CheckBuiltinName, synthString(host), synthIdent(bundle), synthStringList(static))
		return &ast.ExpressionStatement{Token: check.Token, Expression: check}
	}
	begin := synthCall(BeginBuiltinName, synthString(host), synthStringList(static), synthStringList(rw.pendingNames))
	return &ast.AssignStatement{Token: begin.Token, Name: synthIdent(stateVarName), Value: begin}
}

func stripMarker(decl *ast.FunctionStatement, marker string) {
	var kept []*ast.Decorator
	for _, dec := range decl.Decorators {
		if dec.Name.Value == marker {
			continue
		}
		kept = append(kept, dec)
	}
	decl.Decorators = kept
}

// registerProvider publishes the function's aggregate accepted-name set.
// Display names are resolved in the definition environment at resolution
// time, so callees rebound after the transform are seen as they are now.
func registerProvider(reg *Registry, fn *evaluator.Function, env *evaluator.Environment, forwarded []string) {
	names := append([]string(nil), forwarded...)
	env = env.Root()
	reg.Register(fn.ForwardKey, func(res *Resolution) ([]string, error) {
		accepted := fn.NamedParameters()
		for _, display := range names {
			obj, err := resolveDisplayName(env, display)
			if err != nil {
				return nil, err
			}
			if wf, ok := obj.(*evaluator.Function); ok && wf.ForwardKey != "" {
				sub, found, err := res.Expand(wf.ForwardKey)
				if err != nil {
					return nil, err
				}
				if found {
					accepted = append(accepted, sub...)
					continue
				}
			}
			params, err := ParametersOf(obj)
			if err != nil {
				return nil, err
			}
			accepted = append(accepted, params...)
		}
		return dedupe(accepted), nil
	})
}

// resolveDisplayName looks a dotted callee path up in the environment.
// Display names that are not plain paths (an element lookup, a computed
// callee) cannot be resolved this way and fail introspection.
func resolveDisplayName(env *evaluator.Environment, name string) (evaluator.Object, error) {
	segments := strings.Split(name, ".")
	obj, found := env.Get(segments[0])
	if !found {
		if b, ok := evaluator.Builtins[segments[0]]; ok {
			obj = b
		} else {
			return nil, &IntrospectionError{Callee: name, Reason: "name is not bound"}
		}
	}
	for _, segment := range segments[1:] {
		switch holder := obj.(type) {
		case *evaluator.Dict:
			member, ok := holder.Get(segment)
			if !ok {
				return nil, &IntrospectionError{Callee: name, Reason: "member " + segment + " is not present"}
			}
			obj = member
		case *evaluator.HostObject:
			member, ok := holder.GetMember(segment)
			if !ok {
				return nil, &IntrospectionError{Callee: name, Reason: "member " + segment + " is not present"}
			}
			obj = member
		default:
			return nil, &IntrospectionError{Callee: name, Reason: "cannot traverse " + string(obj.Type())}
		}
	}
	return obj, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
