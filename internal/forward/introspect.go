package forward

import (
	"github.com/splatlang/splat/internal/evaluator"
)

// ParametersOf returns the ordered named-parameter identifiers of a callable.
// Parameters with default values are included: they remain legal keyword
// names. The bundle-collecting **parameter is not a keyword name and is
// excluded.
func ParametersOf(obj evaluator.Object) ([]string, error) {
	switch fn := obj.(type) {
	case *evaluator.Function:
		return fn.NamedParameters(), nil
	case *evaluator.Builtin:
		if fn.Params == nil {
			return nil, &IntrospectionError{Callee: fn.Name, Reason: "builtin has no introspectable signature"}
		}
		out := make([]string, len(fn.Params))
		copy(out, fn.Params)
		return out, nil
	default:
		return nil, &IntrospectionError{Reason: "object of type " + string(obj.Type()) + " is not callable"}
	}
}
