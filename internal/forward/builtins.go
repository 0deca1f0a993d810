package forward

import (
	"github.com/splatlang/splat/internal/evaluator"
)

// Decorator names bound by Install.
const (
	ForwardName           = "forward"
	ForwardTransitiveName = "forwardTransitive"
)

// Install binds the forwarding decorators and the runtime helpers into env.
// Rewritten function bodies call the helpers by name, so a program containing
// re-assembled functions evaluates in any environment Install has prepared.
func Install(env *evaluator.Environment, reg *Registry) {
	rt := &runtime{reg: reg}
	env.Set(FilterBuiltinName, &evaluator.Builtin{Name: FilterBuiltinName, Fn: rt.filter})
	env.Set(BeginBuiltinName, &evaluator.Builtin{Name: BeginBuiltinName, Fn: rt.begin})
	env.Set(ContributeBuiltinName, &evaluator.Builtin{Name: ContributeBuiltinName, Fn: rt.contribute})
	env.Set(CheckBuiltinName, &evaluator.Builtin{Name: CheckBuiltinName, Fn: rt.check})
	env.Set(ForwardName, decorator(ForwardName, reg, false))
	env.Set(ForwardTransitiveName, decorator(ForwardTransitiveName, reg, true))
}

func decorator(name string, reg *Registry, transitive bool) *evaluator.Builtin {
	return &evaluator.Builtin{
		Name: name,
		Fn: func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
			if len(args) != 1 {
				return rtError("%s expects 1 argument, got %d", name, len(args))
			}
			fn, ok := args[0].(*evaluator.Function)
			if !ok {
				err := &UnsupportedTargetError{Reason: "decoration target is not a function"}
				return rtError("%s", err)
			}
			out, err := Transform(fn, reg, transitive, name)
			if err != nil {
				return rtError("%s", err)
			}
			return out
		},
	}
}
