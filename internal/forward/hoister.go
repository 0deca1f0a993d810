package forward

import (
	"fmt"

	"github.com/splatlang/splat/internal/ast"
	"github.com/splatlang/splat/internal/token"
)

// cachePrefix is the name prefix of synthesized cache bindings.
const cachePrefix = "__forward_cache_"

// cacheBinding holds one evaluation of a non-idempotent callee expression so
// that the same object is introspected and invoked.
type cacheBinding struct {
	name   string
	callee ast.Expression
}

// hoister tracks the lexical nesting of statements during the rewrite. Each
// frame corresponds to one enclosing statement; cache bindings collected in a
// frame become assignments emitted immediately before that statement, inside
// whatever branch contains it.
type hoister struct {
	frames  [][]cacheBinding
	ordinal int
}

func newHoister() *hoister {
	return &hoister{}
}

func (h *hoister) push() {
	h.frames = append(h.frames, nil)
}

// pop returns the assignments for the statement frame being left.
func (h *hoister) pop() []ast.Statement {
	top := h.frames[len(h.frames)-1]
	h.frames = h.frames[:len(h.frames)-1]
	if len(top) == 0 {
		return nil
	}
	stmts := make([]ast.Statement, len(top))
	for i, binding := range top {
		stmts[i] = &ast.AssignStatement{
			Token: binding.callee.GetToken(),
			Name:  &ast.Identifier{Token: binding.callee.GetToken(), Value: binding.name},
			Value: binding.callee,
		}
	}
	return stmts
}

// cache registers the callee expression for hoisting in the innermost
// statement frame and returns the identifier replacing it at the call site.
func (h *hoister) cache(callee ast.Expression) *ast.Identifier {
	h.ordinal++
	name := fmt.Sprintf("%s%d", cachePrefix, h.ordinal)
	top := len(h.frames) - 1
	h.frames[top] = append(h.frames[top], cacheBinding{name: name, callee: callee})
	return &ast.Identifier{
		Token: token.Token{Type: token.IDENT, Lexeme: name, Literal: name},
		Value: name,
	}
}
