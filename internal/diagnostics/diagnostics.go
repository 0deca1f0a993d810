package diagnostics

import (
	"fmt"

	"github.com/splatlang/splat/internal/token"
)

// Error codes, grouped by pipeline stage.
const (
	ErrL001 = "L001" // illegal character
	ErrL002 = "L002" // unterminated string
	ErrP001 = "P001" // unexpected token
	ErrP002 = "P002" // no prefix parse function
	ErrP003 = "P003" // recursion depth limit exceeded
	ErrP004 = "P004" // malformed parameter list
	ErrP005 = "P005" // malformed decorator
)

// Diagnostic is a positioned, coded error produced by a pipeline stage.
type Diagnostic struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

func NewError(code string, tok token.Token, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func (d *Diagnostic) Error() string {
	if d.File != "" {
		return fmt.Sprintf("%s:%d:%d: [%s] %s", d.File, d.Line, d.Column, d.Code, d.Message)
	}
	if d.Line > 0 {
		return fmt.Sprintf("%d:%d: [%s] %s", d.Line, d.Column, d.Code, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}
