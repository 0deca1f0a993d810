package evaluator

import (
	"github.com/splatlang/splat/internal/ast"
)

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	switch node.Operator {
	case "!":
		return nativeBool(!isTruthy(right))
	case "-":
		switch val := right.(type) {
		case *Integer:
			return &Integer{Value: -val.Value}
		case *Float:
			return &Float{Value: -val.Value}
		}
		return newErrorWithLocation(node.Token.Line, node.Token.Column,
			"unknown operator: -%s", right.Type())
	}
	return newErrorWithLocation(node.Token.Line, node.Token.Column,
		"unknown operator: %s%s", node.Operator, right.Type())
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	// Short-circuit logic operators evaluate the right side lazily.
	if node.Operator == "&&" || node.Operator == "||" {
		left := e.Eval(node.Left, env)
		if isError(left) {
			return left
		}
		if node.Operator == "&&" && !isTruthy(left) {
			return nativeBool(false)
		}
		if node.Operator == "||" && isTruthy(left) {
			return nativeBool(true)
		}
		right := e.Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return nativeBool(isTruthy(right))
	}

	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}

	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return e.evalIntegerInfix(node, left.(*Integer), right.(*Integer))
	case isNumeric(left) && isNumeric(right):
		return e.evalFloatInfix(node, toFloat(left), toFloat(right))
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return e.evalStringInfix(node, left.(*String), right.(*String))
	case node.Operator == "==":
		return nativeBool(objectsEqual(left, right))
	case node.Operator == "!=":
		return nativeBool(!objectsEqual(left, right))
	}
	return newErrorWithLocation(node.Token.Line, node.Token.Column,
		"type mismatch: %s %s %s", left.Type(), node.Operator, right.Type())
}

func (e *Evaluator) evalIntegerInfix(node *ast.InfixExpression, left, right *Integer) Object {
	switch node.Operator {
	case "+":
		return &Integer{Value: left.Value + right.Value}
	case "-":
		return &Integer{Value: left.Value - right.Value}
	case "*":
		return &Integer{Value: left.Value * right.Value}
	case "/":
		if right.Value == 0 {
			return newErrorWithLocation(node.Token.Line, node.Token.Column, "division by zero")
		}
		return &Integer{Value: left.Value / right.Value}
	case "%":
		if right.Value == 0 {
			return newErrorWithLocation(node.Token.Line, node.Token.Column, "division by zero")
		}
		return &Integer{Value: left.Value % right.Value}
	case "<":
		return nativeBool(left.Value < right.Value)
	case ">":
		return nativeBool(left.Value > right.Value)
	case "<=":
		return nativeBool(left.Value <= right.Value)
	case ">=":
		return nativeBool(left.Value >= right.Value)
	case "==":
		return nativeBool(left.Value == right.Value)
	case "!=":
		return nativeBool(left.Value != right.Value)
	}
	return newErrorWithLocation(node.Token.Line, node.Token.Column,
		"unknown operator: INTEGER %s INTEGER", node.Operator)
}

func (e *Evaluator) evalFloatInfix(node *ast.InfixExpression, left, right float64) Object {
	switch node.Operator {
	case "+":
		return &Float{Value: left + right}
	case "-":
		return &Float{Value: left - right}
	case "*":
		return &Float{Value: left * right}
	case "/":
		if right == 0 {
			return newErrorWithLocation(node.Token.Line, node.Token.Column, "division by zero")
		}
		return &Float{Value: left / right}
	case "<":
		return nativeBool(left < right)
	case ">":
		return nativeBool(left > right)
	case "<=":
		return nativeBool(left <= right)
	case ">=":
		return nativeBool(left >= right)
	case "==":
		return nativeBool(left == right)
	case "!=":
		return nativeBool(left != right)
	}
	return newErrorWithLocation(node.Token.Line, node.Token.Column,
		"unknown operator: FLOAT %s FLOAT", node.Operator)
}

func (e *Evaluator) evalStringInfix(node *ast.InfixExpression, left, right *String) Object {
	switch node.Operator {
	case "+":
		return &String{Value: left.Value + right.Value}
	case "==":
		return nativeBool(left.Value == right.Value)
	case "!=":
		return nativeBool(left.Value != right.Value)
	case "<":
		return nativeBool(left.Value < right.Value)
	case ">":
		return nativeBool(left.Value > right.Value)
	}
	return newErrorWithLocation(node.Token.Line, node.Token.Column,
		"unknown operator: STRING %s STRING", node.Operator)
}

func isNumeric(obj Object) bool {
	return obj.Type() == INTEGER_OBJ || obj.Type() == FLOAT_OBJ
}

func toFloat(obj Object) float64 {
	switch v := obj.(type) {
	case *Integer:
		return float64(v.Value)
	case *Float:
		return v.Value
	}
	return 0
}

func objectsEqual(left, right Object) bool {
	switch l := left.(type) {
	case *Nil:
		_, ok := right.(*Nil)
		return ok
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	case *Integer:
		r, ok := right.(*Integer)
		return ok && l.Value == r.Value
	}
	// Everything else compares by identity.
	return left == right
}
