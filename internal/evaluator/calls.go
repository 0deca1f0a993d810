package evaluator

import (
	"github.com/splatlang/splat/internal/ast"
)

// NamedArg is one named argument of a call, in source order. Double-splat
// arguments expand into a run of NamedArgs at the call site.
type NamedArg struct {
	Name  string
	Value Object
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	function := e.Eval(node.Function, env)
	if isError(function) {
		return function
	}

	var positional []Object
	var named []NamedArg
	for _, arg := range node.Arguments {
		val := e.Eval(arg.Value, env)
		if isError(val) {
			return val
		}
		switch {
		case arg.Splat:
			dict, ok := val.(*Dict)
			if !ok {
				tok := arg.Value.GetToken()
				return newErrorWithLocation(tok.Line, tok.Column,
					"** argument must be a dict, got %s", val.Type())
			}
			for _, key := range dict.Keys() {
				entry, _ := dict.Get(key)
				named = append(named, NamedArg{Name: key, Value: entry})
			}
		case arg.Name != nil:
			named = append(named, NamedArg{Name: arg.Name.Value, Value: val})
		default:
			positional = append(positional, val)
		}
	}

	tok := node.GetToken()
	return e.ApplyCall(function, positional, named, tok.Line, tok.Column)
}

// ApplyCall invokes any callable object with positional and named arguments.
func (e *Evaluator) ApplyCall(fn Object, positional []Object, named []NamedArg, line, column int) Object {
	switch fn := fn.(type) {
	case *Function:
		return e.applyFunction(fn, positional, named, line, column)
	case *Builtin:
		return e.applyBuiltin(fn, positional, named, line, column)
	default:
		return newErrorWithLocation(line, column, "not a function: %s", fn.Type())
	}
}

func (e *Evaluator) applyFunction(fn *Function, positional []Object, named []NamedArg, line, column int) Object {
	callEnv := NewEnclosedEnvironment(fn.Env)
	bound := make(map[string]bool)

	displayName := fn.Name
	if displayName == "" {
		displayName = "<function>"
	}

	// Positional arguments bind to the declared parameters in order.
	params := fn.Parameters
	posIdx := 0
	for _, param := range params {
		if param.Bundle {
			continue
		}
		if posIdx >= len(positional) {
			break
		}
		callEnv.Set(param.Name.Value, positional[posIdx])
		bound[param.Name.Value] = true
		posIdx++
	}
	if posIdx < len(positional) {
		return newErrorWithLocation(line, column,
			"%s() takes %d positional arguments but %d were given",
			displayName, len(fn.NamedParameters()), len(positional))
	}

	// Named arguments bind by name; unmatched names land in the bundle
	// parameter when one is declared.
	var bundle *Dict
	bundleParam := fn.BundleParameter()
	if bundleParam != nil {
		bundle = NewDict()
	}
	for _, arg := range named {
		if paramByName(params, arg.Name) != nil {
			if bound[arg.Name] {
				return newErrorWithLocation(line, column,
					"%s() got multiple values for argument '%s'", displayName, arg.Name)
			}
			callEnv.Set(arg.Name, arg.Value)
			bound[arg.Name] = true
			continue
		}
		if bundle != nil {
			if _, dup := bundle.Get(arg.Name); dup {
				return newErrorWithLocation(line, column,
					"%s() got multiple values for argument '%s'", displayName, arg.Name)
			}
			bundle.Set(arg.Name, arg.Value)
			continue
		}
		return newErrorWithLocation(line, column,
			"%s() got an unexpected keyword argument '%s'", displayName, arg.Name)
	}

	// Remaining parameters fall back to their defaults.
	for _, param := range params {
		if param.Bundle || bound[param.Name.Value] {
			continue
		}
		if param.Default == nil {
			return newErrorWithLocation(line, column,
				"%s() missing required argument '%s'", displayName, param.Name.Value)
		}
		def := e.Eval(param.Default, fn.Env)
		if isError(def) {
			return def
		}
		callEnv.Set(param.Name.Value, def)
	}
	if bundleParam != nil {
		callEnv.Set(bundleParam.Name.Value, bundle)
	}

	e.callDepth++
	result := e.Eval(fn.Body, callEnv)
	e.callDepth--

	if result != nil {
		switch result.Type() {
		case RETURN_VALUE_OBJ:
			return result.(*ReturnValue).Value
		case BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ:
			return newErrorWithLocation(line, column,
				"break/continue outside of a loop in %s()", displayName)
		}
	}
	if result == nil {
		return &Nil{}
	}
	return result
}

func (e *Evaluator) applyBuiltin(fn *Builtin, positional []Object, named []NamedArg, line, column int) Object {
	if len(named) == 0 {
		return fn.Fn(e, positional...)
	}

	// Named arguments only work against a declared signature.
	if fn.Params == nil {
		return newErrorWithLocation(line, column,
			"%s() got an unexpected keyword argument '%s'", fn.Name, named[0].Name)
	}
	if len(positional) > len(fn.Params) {
		return newErrorWithLocation(line, column,
			"%s() takes %d positional arguments but %d were given",
			fn.Name, len(fn.Params), len(positional))
	}

	slots := make([]Object, len(fn.Params))
	copy(slots, positional)
	for _, arg := range named {
		idx := -1
		for i, p := range fn.Params {
			if p == arg.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return newErrorWithLocation(line, column,
				"%s() got an unexpected keyword argument '%s'", fn.Name, arg.Name)
		}
		if slots[idx] != nil {
			return newErrorWithLocation(line, column,
				"%s() got multiple values for argument '%s'", fn.Name, arg.Name)
		}
		slots[idx] = arg.Value
	}
	for i, slot := range slots {
		if slot == nil {
			return newErrorWithLocation(line, column,
				"%s() missing required argument '%s'", fn.Name, fn.Params[i])
		}
	}
	return fn.Fn(e, slots...)
}

func paramByName(params []*ast.Parameter, name string) *ast.Parameter {
	for _, p := range params {
		if !p.Bundle && p.Name.Value == name {
			return p
		}
	}
	return nil
}
