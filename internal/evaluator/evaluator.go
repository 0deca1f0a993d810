package evaluator

import (
	"io"
	"os"

	"github.com/splatlang/splat/internal/ast"
)

// Evaluator walks the tree and executes it.
type Evaluator struct {
	// callDepth counts active user-function applications. Functions defined
	// while it is zero are module top-level definitions.
	callDepth int

	// CurrentFile is used in error locations.
	CurrentFile string

	// Out receives print output. Defaults to stdout.
	Out io.Writer
}

func New() *Evaluator {
	return &Evaluator{}
}

func (e *Evaluator) Output() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.AssignStatement:
		return e.evalAssignStatement(node, env)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, env)
	case *ast.FunctionStatement:
		return e.evalFunctionStatement(node, env)
	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)
	case *ast.IfStatement:
		return e.evalIfStatement(node, env)
	case *ast.WhileStatement:
		return e.evalWhileStatement(node, env)
	case *ast.ForStatement:
		return e.evalForStatement(node, env)
	case *ast.BreakStatement:
		return &BreakSignal{}
	case *ast.ContinueStatement:
		return &ContinueSignal{}

	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return &Boolean{Value: node.Value}
	case *ast.NilLiteral:
		return &Nil{}
	case *ast.ListLiteral:
		return e.evalListLiteral(node, env)
	case *ast.DictLiteral:
		return e.evalDictLiteral(node, env)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.MemberExpression:
		return e.evalMemberExpression(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	}
	return newError("unknown node type %T", node)
}

func (e *Evaluator) evalProgram(program *ast.Program, env *Environment) Object {
	var result Object

	// Predeclare functions so that earlier definitions can reference later
	// ones. Decorated definitions are re-bound when their statement runs.
	e.predeclareFunctions(program.Statements, env)

	for _, stmt := range program.Statements {
		result = e.Eval(stmt, env)
		if result != nil {
			switch result.Type() {
			case ERROR_OBJ:
				return result
			case RETURN_VALUE_OBJ:
				return result.(*ReturnValue).Value
			}
		}
	}
	if result == nil {
		return &Nil{}
	}
	return result
}

func (e *Evaluator) predeclareFunctions(stmts []ast.Statement, env *Environment) {
	for _, stmt := range stmts {
		fs, ok := stmt.(*ast.FunctionStatement)
		if !ok || fs == nil {
			continue
		}
		env.Set(fs.Name.Value, e.newFunction(fs, env))
	}
}

func (e *Evaluator) newFunction(fs *ast.FunctionStatement, env *Environment) *Function {
	return &Function{
		Name:       fs.Name.Value,
		Parameters: fs.Parameters,
		Body:       fs.Body,
		Env:        env,
		Doc:        fs.Doc,
		Decl:       fs,
		TopLevel:   e.callDepth == 0,
		Line:       fs.Token.Line,
		Column:     fs.Token.Column,
	}
}

func (e *Evaluator) evalFunctionStatement(fs *ast.FunctionStatement, env *Environment) Object {
	fn := e.newFunction(fs, env)

	// Decorators apply innermost-first, each receiving the result of the
	// previous one. A decorator is any callable bound in scope.
	var result Object = fn
	for i := len(fs.Decorators) - 1; i >= 0; i-- {
		dec := fs.Decorators[i]
		decObj, ok := env.Get(dec.Name.Value)
		if !ok {
			return newErrorWithLocation(dec.Token.Line, dec.Token.Column,
				"decorator not found: %s", dec.Name.Value)
		}
		result = e.ApplyCall(decObj, []Object{result}, nil, dec.Token.Line, dec.Token.Column)
		if isError(result) {
			return result
		}
	}
	env.Set(fs.Name.Value, result)
	return &Nil{}
}

func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	var result Object
	blockEnv := NewEnclosedEnvironment(env)

	for _, stmt := range block.Statements {
		result = e.Eval(stmt, blockEnv)
		if result != nil {
			rt := result.Type()
			if rt == ERROR_OBJ || rt == RETURN_VALUE_OBJ ||
				rt == BREAK_SIGNAL_OBJ || rt == CONTINUE_SIGNAL_OBJ {
				return result
			}
		}
	}
	if result == nil {
		return &Nil{}
	}
	return result
}

func (e *Evaluator) evalAssignStatement(node *ast.AssignStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	if !env.Update(node.Name.Value, val) {
		env.Set(node.Name.Value, val)
	}
	return &Nil{}
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	if node.Value == nil {
		return &ReturnValue{Value: &Nil{}}
	}
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	return &ReturnValue{Value: val}
}

func (e *Evaluator) evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	cond := e.Eval(node.Condition, env)
	if isError(cond) {
		return cond
	}
	if isTruthy(cond) {
		return e.evalBlockStatement(node.Consequence, env)
	}
	if node.Alternative != nil {
		return e.evalBlockStatement(node.Alternative, env)
	}
	return &Nil{}
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		cond := e.Eval(node.Condition, env)
		if isError(cond) {
			return cond
		}
		if !isTruthy(cond) {
			break
		}
		result := e.evalBlockStatement(node.Body, env)
		if result != nil {
			switch result.Type() {
			case ERROR_OBJ, RETURN_VALUE_OBJ:
				return result
			case BREAK_SIGNAL_OBJ:
				return &Nil{}
			}
		}
	}
	return &Nil{}
}

func (e *Evaluator) evalForStatement(node *ast.ForStatement, env *Environment) Object {
	iterable := e.Eval(node.Iterable, env)
	if isError(iterable) {
		return iterable
	}

	var items []Object
	switch it := iterable.(type) {
	case *List:
		items = append(items, it.Elements...)
	case *Dict:
		for _, k := range it.Keys() {
			items = append(items, &String{Value: k})
		}
	default:
		tok := node.Iterable.GetToken()
		return newErrorWithLocation(tok.Line, tok.Column,
			"cannot iterate over %s", iterable.Type())
	}

	loopEnv := NewEnclosedEnvironment(env)
	for _, item := range items {
		loopEnv.Set(node.Variable.Value, item)
		result := e.evalBlockStatement(node.Body, loopEnv)
		if result != nil {
			switch result.Type() {
			case ERROR_OBJ, RETURN_VALUE_OBJ:
				return result
			case BREAK_SIGNAL_OBJ:
				return &Nil{}
			}
		}
	}
	return &Nil{}
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if obj, ok := env.Get(node.Value); ok {
		return obj
	}
	if builtin, ok := Builtins[node.Value]; ok {
		return builtin
	}
	return newErrorWithLocation(node.Token.Line, node.Token.Column,
		"identifier not found: %s", node.Value)
}

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral, env *Environment) Object {
	list := &List{}
	for _, elem := range node.Elements {
		val := e.Eval(elem, env)
		if isError(val) {
			return val
		}
		list.Elements = append(list.Elements, val)
	}
	return list
}

func (e *Evaluator) evalDictLiteral(node *ast.DictLiteral, env *Environment) Object {
	dict := NewDict()
	for _, entry := range node.Entries {
		key := e.Eval(entry.Key, env)
		if isError(key) {
			return key
		}
		keyStr, ok := key.(*String)
		if !ok {
			tok := entry.Key.GetToken()
			return newErrorWithLocation(tok.Line, tok.Column,
				"dict keys must be strings, got %s", key.Type())
		}
		val := e.Eval(entry.Value, env)
		if isError(val) {
			return val
		}
		dict.Set(keyStr.Value, val)
	}
	return dict
}

func (e *Evaluator) evalMemberExpression(node *ast.MemberExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	switch obj := left.(type) {
	case *Dict:
		if val, ok := obj.Get(node.Member.Value); ok {
			return val
		}
		return newErrorWithLocation(node.Token.Line, node.Token.Column,
			"no entry %q in dict", node.Member.Value)
	case *HostObject:
		if val, ok := obj.GetMember(node.Member.Value); ok {
			return val
		}
		return newErrorWithLocation(node.Token.Line, node.Token.Column,
			"host object %s has no member %q", obj.Name, node.Member.Value)
	default:
		return newErrorWithLocation(node.Token.Line, node.Token.Column,
			"member access is not supported on %s", left.Type())
	}
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	index := e.Eval(node.Index, env)
	if isError(index) {
		return index
	}
	switch obj := left.(type) {
	case *List:
		idx, ok := index.(*Integer)
		if !ok {
			return newErrorWithLocation(node.Token.Line, node.Token.Column,
				"list index must be an integer, got %s", index.Type())
		}
		if idx.Value < 0 || idx.Value >= int64(len(obj.Elements)) {
			return newErrorWithLocation(node.Token.Line, node.Token.Column,
				"list index %d out of range", idx.Value)
		}
		return obj.Elements[idx.Value]
	case *Dict:
		key, ok := index.(*String)
		if !ok {
			return newErrorWithLocation(node.Token.Line, node.Token.Column,
				"dict index must be a string, got %s", index.Type())
		}
		if val, found := obj.Get(key.Value); found {
			return val
		}
		return newErrorWithLocation(node.Token.Line, node.Token.Column,
			"no entry %q in dict", key.Value)
	default:
		return newErrorWithLocation(node.Token.Line, node.Token.Column,
			"indexing is not supported on %s", left.Type())
	}
}
