package evaluator

import (
	"strings"
	"unsafe"

	"github.com/splatlang/splat/internal/ast"
)

// Function (user defined)
type Function struct {
	Name       string
	Parameters []*ast.Parameter
	Body       *ast.BlockStatement
	Env        *Environment // Closure
	Doc        string
	Line       int
	Column     int

	// Decl is the retained source declaration. It is the "get_source"
	// capability: transforms re-derive the body tree from here. Nil for
	// functions constructed programmatically.
	Decl *ast.FunctionStatement

	// TopLevel is true when the function was defined at module scope.
	// Functions defined inside another function close over locals and
	// cannot be re-assembled from their declaration alone.
	TopLevel bool

	// ForwardKey is the forwarding-registry key assigned when this function
	// was produced by the forwarding transform. Empty otherwise.
	ForwardKey string
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := []string{}
	for _, p := range f.Parameters {
		name := p.Name.Value
		if p.Bundle {
			name = "**" + name
		}
		params = append(params, name)
	}
	return "fun " + f.Name + "(" + strings.Join(params, ", ") + ") { ... }"
}
func (f *Function) Hash() uint32 {
	// Pointer identity: two distinct function objects never collide on
	// purpose, which matters for the callee-identity guarantees.
	return uint32(uintptr(unsafe.Pointer(f)))
}

// BundleParameter returns the **bundle parameter, or nil.
func (f *Function) BundleParameter() *ast.Parameter {
	for _, p := range f.Parameters {
		if p.Bundle {
			return p
		}
	}
	return nil
}

// NamedParameters returns the names of the declared parameters in order,
// defaults included, the **bundle parameter excluded.
func (f *Function) NamedParameters() []string {
	var names []string
	for _, p := range f.Parameters {
		if p.Bundle {
			continue
		}
		names = append(names, p.Name.Value)
	}
	return names
}

// Builtin function
type BuiltinFunction func(e *Evaluator, args ...Object) Object

type Builtin struct {
	Fn   BuiltinFunction
	Name string

	// Params lists the builtin's named parameters, when it has an
	// introspectable signature. Builtins without one cannot be a
	// statically-resolved forwarding target.
	Params []string
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin function " + b.Name }
func (b *Builtin) Hash() uint32     { return hashString(b.Name) }

// HostObject is a Go-backed object. Member reads run the getter, so a host
// object may hand out a different value on every access.
type HostObject struct {
	Name      string
	GetMember func(name string) (Object, bool)
}

func (h *HostObject) Type() ObjectType { return HOST_OBJ }
func (h *HostObject) Inspect() string  { return "<host object " + h.Name + ">" }
func (h *HostObject) Hash() uint32     { return hashString(h.Name) }
