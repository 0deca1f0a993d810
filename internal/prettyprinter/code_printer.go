package prettyprinter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/splatlang/splat/internal/ast"
)

// --- Code Printer (output is re-parseable source code) ---

// Operator precedence (higher = binds tighter). Mirrors the parser's table so
// that printed expressions only get parentheses where they are needed.
var operatorPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"+":  5,
	"-":  5,
	"*":  6,
	"/":  6,
	"%":  6,
}

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a whole program.
func (cp *CodePrinter) Print(program *ast.Program) string {
	cp.buf.Reset()
	for i, stmt := range program.Statements {
		if i > 0 {
			cp.buf.WriteString("\n")
		}
		cp.printStatement(stmt)
		cp.buf.WriteString("\n")
	}
	return cp.buf.String()
}

// PrintStatement renders a single statement (with trailing newline).
func (cp *CodePrinter) PrintStatement(stmt ast.Statement) string {
	cp.buf.Reset()
	cp.printStatement(stmt)
	cp.buf.WriteString("\n")
	return cp.buf.String()
}

// PrintExpression renders an expression without surrounding context.
func (cp *CodePrinter) PrintExpression(expr ast.Expression) string {
	cp.buf.Reset()
	cp.printExpression(expr, 0)
	return cp.buf.String()
}

func (cp *CodePrinter) writeIndent() {
	cp.buf.WriteString(strings.Repeat("    ", cp.indent))
}

func (cp *CodePrinter) printStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.FunctionStatement:
		cp.printFunctionStatement(s)
	case *ast.AssignStatement:
		cp.writeIndent()
		cp.buf.WriteString(s.Name.Value)
		cp.buf.WriteString(" = ")
		cp.printExpression(s.Value, 0)
	case *ast.ReturnStatement:
		cp.writeIndent()
		cp.buf.WriteString("return")
		if s.Value != nil {
			cp.buf.WriteString(" ")
			cp.printExpression(s.Value, 0)
		}
	case *ast.IfStatement:
		cp.writeIndent()
		cp.printIfStatement(s)
	case *ast.WhileStatement:
		cp.writeIndent()
		cp.buf.WriteString("while ")
		cp.printExpression(s.Condition, 0)
		cp.buf.WriteString(" ")
		cp.printBlock(s.Body)
	case *ast.ForStatement:
		cp.writeIndent()
		cp.buf.WriteString("for ")
		cp.buf.WriteString(s.Variable.Value)
		cp.buf.WriteString(" in ")
		cp.printExpression(s.Iterable, 0)
		cp.buf.WriteString(" ")
		cp.printBlock(s.Body)
	case *ast.BreakStatement:
		cp.writeIndent()
		cp.buf.WriteString("break")
	case *ast.ContinueStatement:
		cp.writeIndent()
		cp.buf.WriteString("continue")
	case *ast.ExpressionStatement:
		cp.writeIndent()
		cp.printExpression(s.Expression, 0)
	case *ast.BlockStatement:
		cp.writeIndent()
		cp.printBlock(s)
	default:
		cp.writeIndent()
		cp.buf.WriteString(fmt.Sprintf("/* unprintable statement %T */", stmt))
	}
}

func (cp *CodePrinter) printFunctionStatement(fs *ast.FunctionStatement) {
	for _, dec := range fs.Decorators {
		cp.writeIndent()
		cp.buf.WriteString("@")
		cp.buf.WriteString(dec.Name.Value)
		cp.buf.WriteString("\n")
	}
	cp.writeIndent()
	cp.buf.WriteString("fun ")
	cp.buf.WriteString(fs.Name.Value)
	cp.buf.WriteString("(")
	for i, param := range fs.Parameters {
		if i > 0 {
			cp.buf.WriteString(", ")
		}
		if param.Bundle {
			cp.buf.WriteString("**")
		}
		cp.buf.WriteString(param.Name.Value)
		if param.Default != nil {
			cp.buf.WriteString(" = ")
			cp.printExpression(param.Default, 0)
		}
	}
	cp.buf.WriteString(") ")
	cp.printBlock(fs.Body)
}

func (cp *CodePrinter) printIfStatement(is *ast.IfStatement) {
	cp.buf.WriteString("if ")
	cp.printExpression(is.Condition, 0)
	cp.buf.WriteString(" ")
	cp.printBlock(is.Consequence)
	if is.Alternative == nil {
		return
	}
	// An else block holding a single if prints back as an else-if chain.
	if len(is.Alternative.Statements) == 1 {
		if nested, ok := is.Alternative.Statements[0].(*ast.IfStatement); ok {
			cp.buf.WriteString(" else ")
			cp.printIfStatement(nested)
			return
		}
	}
	cp.buf.WriteString(" else ")
	cp.printBlock(is.Alternative)
}

func (cp *CodePrinter) printBlock(block *ast.BlockStatement) {
	cp.buf.WriteString("{\n")
	cp.indent++
	for _, stmt := range block.Statements {
		cp.printStatement(stmt)
		cp.buf.WriteString("\n")
	}
	cp.indent--
	cp.writeIndent()
	cp.buf.WriteString("}")
}

func (cp *CodePrinter) printExpression(expr ast.Expression, parentPrec int) {
	switch e := expr.(type) {
	case *ast.Identifier:
		cp.buf.WriteString(e.Value)
	case *ast.IntegerLiteral:
		cp.buf.WriteString(strconv.FormatInt(e.Value, 10))
	case *ast.FloatLiteral:
		cp.buf.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
	case *ast.StringLiteral:
		cp.buf.WriteString(strconv.Quote(e.Value))
	case *ast.BooleanLiteral:
		cp.buf.WriteString(strconv.FormatBool(e.Value))
	case *ast.NilLiteral:
		cp.buf.WriteString("nil")
	case *ast.ListLiteral:
		cp.buf.WriteString("[")
		for i, elem := range e.Elements {
			if i > 0 {
				cp.buf.WriteString(", ")
			}
			cp.printExpression(elem, 0)
		}
		cp.buf.WriteString("]")
	case *ast.DictLiteral:
		cp.buf.WriteString("{")
		for i, entry := range e.Entries {
			if i > 0 {
				cp.buf.WriteString(", ")
			}
			cp.printExpression(entry.Key, 0)
			cp.buf.WriteString(": ")
			cp.printExpression(entry.Value, 0)
		}
		cp.buf.WriteString("}")
	case *ast.PrefixExpression:
		cp.buf.WriteString(e.Operator)
		cp.printExpression(e.Right, 9)
	case *ast.InfixExpression:
		prec := getPrecedence(e.Operator)
		if prec < parentPrec {
			cp.buf.WriteString("(")
		}
		cp.printExpression(e.Left, prec)
		cp.buf.WriteString(" ")
		cp.buf.WriteString(e.Operator)
		cp.buf.WriteString(" ")
		cp.printExpression(e.Right, prec+1)
		if prec < parentPrec {
			cp.buf.WriteString(")")
		}
	case *ast.MemberExpression:
		cp.printExpression(e.Left, 10)
		cp.buf.WriteString(".")
		cp.buf.WriteString(e.Member.Value)
	case *ast.IndexExpression:
		cp.printExpression(e.Left, 10)
		cp.buf.WriteString("[")
		cp.printExpression(e.Index, 0)
		cp.buf.WriteString("]")
	case *ast.CallExpression:
		cp.printExpression(e.Function, 10)
		cp.buf.WriteString("(")
		for i, arg := range e.Arguments {
			if i > 0 {
				cp.buf.WriteString(", ")
			}
			if arg.Splat {
				cp.buf.WriteString("**")
			} else if arg.Name != nil {
				cp.buf.WriteString(arg.Name.Value)
				cp.buf.WriteString("=")
			}
			cp.printExpression(arg.Value, 0)
		}
		cp.buf.WriteString(")")
	default:
		cp.buf.WriteString(fmt.Sprintf("/* unprintable expression %T */", expr))
	}
}
