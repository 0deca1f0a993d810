package forward

import (
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/splatlang/splat/internal/evaluator"
)

// Names injected into rewritten function bodies. The double underscore keeps
// them out of the way of user identifiers.
const (
	FilterBuiltinName     = "__forwardFilter"
	BeginBuiltinName      = "__forwardBegin"
	ContributeBuiltinName = "__forwardContribute"
	CheckBuiltinName      = "__forwardCheck"

	stateVarName = "__forward_state"
)

// StateType is the object type of the per-invocation forwarding state.
const StateType evaluator.ObjectType = "FORWARD_STATE"

// State tracks one invocation of a host with dynamically resolved forwarding
// sites. Accepted accumulates keyword names the contributors take; Pending
// holds the display names of contributors that have not reported yet. The
// aggregate check fires when the last one reports.
type State struct {
	Invocation string
	Host       string
	Accepted   *evaluator.List
	Pending    *evaluator.List
}

func (s *State) Type() evaluator.ObjectType { return StateType }
func (s *State) Inspect() string {
	return fmt.Sprintf("<forwarding state of %s, invocation %s>", s.Host, s.Invocation)
}
func (s *State) Hash() uint32 {
	h := fnv.New32a()
	h.Write([]byte(s.Invocation))
	return h.Sum32()
}

// runtime implements the helper builtins. It closes over the registry so that
// call-time introspection of a transformed callee expands transitively.
type runtime struct {
	reg *Registry
}

// acceptedNames resolves the keyword names a callee accepts. Transformed
// functions answer through the registry, so what they forward onward counts
// as accepted here.
func (rt *runtime) acceptedNames(callee evaluator.Object) ([]string, error) {
	if fn, ok := callee.(*evaluator.Function); ok && fn.ForwardKey != "" {
		names, found, err := rt.reg.ResolveTransitive(fn.ForwardKey)
		if err != nil {
			return nil, err
		}
		if found {
			return names, nil
		}
	}
	return ParametersOf(callee)
}

// filterBundle keeps the bundle entries whose key the callee accepts,
// preserving insertion order.
func filterBundle(names []string, bundle *evaluator.Dict) *evaluator.Dict {
	accepted := make(map[string]bool, len(names))
	for _, n := range names {
		accepted[n] = true
	}
	out := evaluator.NewDict()
	for _, key := range bundle.Keys() {
		if accepted[key] {
			value, _ := bundle.Get(key)
			out.Set(key, value)
		}
	}
	return out
}

func rtError(format string, args ...interface{}) *evaluator.Error {
	return &evaluator.Error{Message: fmt.Sprintf(format, args...)}
}

// filter narrows the bundle to what a statically resolved callee accepts.
// It looks at direct parameters only, matching the accepted set the assembler
// computed at transform time for the same site.
func (rt *runtime) filter(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
	if len(args) != 2 {
		return rtError("%s expects 2 arguments, got %d", FilterBuiltinName, len(args))
	}
	bundle, ok := args[1].(*evaluator.Dict)
	if !ok {
		return rtError("%s expects a dict bundle, got %s", FilterBuiltinName, args[1].Type())
	}
	names, err := ParametersOf(args[0])
	if err != nil {
		return rtError("%s", err)
	}
	return filterBundle(names, bundle)
}

// begin opens the forwarding state for one host invocation.
func (rt *runtime) begin(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
	if len(args) != 3 {
		return rtError("%s expects 3 arguments, got %d", BeginBuiltinName, len(args))
	}
	host, ok := args[0].(*evaluator.String)
	if !ok {
		return rtError("%s expects a host name, got %s", BeginBuiltinName, args[0].Type())
	}
	static, ok := args[1].(*evaluator.List)
	if !ok {
		return rtError("%s expects a list of static names, got %s", BeginBuiltinName, args[1].Type())
	}
	pending, ok := args[2].(*evaluator.List)
	if !ok {
		return rtError("%s expects a list of pending contributors, got %s", BeginBuiltinName, args[2].Type())
	}
	state := &State{
		Invocation: uuid.NewString(),
		Host:       host.Value,
		Accepted:   static,
		Pending:    pending,
	}
	Logger().Debug("forwarding state opened",
		zap.String("host", state.Host),
		zap.String("invocation", state.Invocation),
		zap.Int("pending", len(pending.Elements)))
	return state
}

// contribute reports one dynamically resolved forwarding site: it adds the
// callee's accepted names to the state, retires the site from the pending
// list, runs the aggregate check once the list is empty, and returns the
// filtered bundle for the enclosing call.
func (rt *runtime) contribute(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
	if len(args) != 4 {
		return rtError("%s expects 4 arguments, got %d", ContributeBuiltinName, len(args))
	}
	state, ok := args[0].(*State)
	if !ok {
		return rtError("%s expects a forwarding state, got %s", ContributeBuiltinName, args[0].Type())
	}
	display, ok := args[2].(*evaluator.String)
	if !ok {
		return rtError("%s expects a contributor name, got %s", ContributeBuiltinName, args[2].Type())
	}
	bundle, ok := args[3].(*evaluator.Dict)
	if !ok {
		return rtError("%s expects a dict bundle, got %s", ContributeBuiltinName, args[3].Type())
	}

	names, err := rt.acceptedNames(args[1])
	if err != nil {
		return rtError("%s", err)
	}
	for _, n := range names {
		if !state.Accepted.Contains(n) {
			state.Accepted.Add(&evaluator.String{Value: n})
		}
	}

	if !state.Pending.Remove(display.Value) {
		cerr := &InternalConsistencyError{
			Function:    state.Host,
			Contributor: display.Value,
			Invocation:  state.Invocation,
		}
		return rtError("%s", cerr)
	}

	Logger().Debug("forwarding site contributed",
		zap.String("host", state.Host),
		zap.String("invocation", state.Invocation),
		zap.String("contributor", display.Value),
		zap.Int("remaining", len(state.Pending.Elements)))

	if len(state.Pending.Elements) == 0 {
		if errObj := checkBundle(state.Host, bundle, state.Accepted); errObj != nil {
			return errObj
		}
	}
	return filterBundle(names, bundle)
}

// check performs the aggregate check for hosts whose sites all resolved
// statically.
func (rt *runtime) check(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
	if len(args) != 3 {
		return rtError("%s expects 3 arguments, got %d", CheckBuiltinName, len(args))
	}
	host, ok := args[0].(*evaluator.String)
	if !ok {
		return rtError("%s expects a host name, got %s", CheckBuiltinName, args[0].Type())
	}
	bundle, ok := args[1].(*evaluator.Dict)
	if !ok {
		return rtError("%s expects a dict bundle, got %s", CheckBuiltinName, args[1].Type())
	}
	expected, ok := args[2].(*evaluator.List)
	if !ok {
		return rtError("%s expects a list of accepted names, got %s", CheckBuiltinName, args[2].Type())
	}
	if errObj := checkBundle(host.Value, bundle, expected); errObj != nil {
		return errObj
	}
	return &evaluator.Nil{}
}

// checkBundle rejects the first bundle key, in insertion order, that no
// forwarding site accepts. The error carries the host's name so the failure
// reads like the host rejected the keyword itself.
func checkBundle(host string, bundle *evaluator.Dict, accepted *evaluator.List) *evaluator.Error {
	for _, key := range bundle.Keys() {
		if !accepted.Contains(key) {
			kerr := &UnexpectedKeywordError{Function: host, Keyword: key}
			return rtError("%s", kerr)
		}
	}
	return nil
}
