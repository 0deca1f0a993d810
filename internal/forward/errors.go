package forward

import "fmt"

// NoForwardingTargetError reports a forwarding decorator applied to a
// function whose body never forwards its bundle.
type NoForwardingTargetError struct {
	Function string
}

func (e *NoForwardingTargetError) Error() string {
	return fmt.Sprintf("forward decorator cannot find any bundle to forward in %s", e.Function)
}

// IntrospectionError reports a callee whose parameter list cannot be
// determined at transform time.
type IntrospectionError struct {
	Callee string
	Reason string
}

func (e *IntrospectionError) Error() string {
	if e.Callee != "" {
		return fmt.Sprintf("cannot determine parameters of %s: %s", e.Callee, e.Reason)
	}
	return "cannot determine parameters: " + e.Reason
}

// UnsupportedTargetError reports a decoration target the transform cannot
// model: no retrievable source, anonymous functions, or functions closing
// over an enclosing scope.
type UnsupportedTargetError struct {
	Function string
	Reason   string
}

func (e *UnsupportedTargetError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("cannot forward %s: %s", e.Function, e.Reason)
	}
	return "cannot forward: " + e.Reason
}

// UnexpectedKeywordError reports a bundle entry accepted by none of the
// forwarding sites. The message mirrors the native unexpected-keyword
// failure, attributed to the wrapping function.
type UnexpectedKeywordError struct {
	Function string
	Keyword  string
}

func (e *UnexpectedKeywordError) Error() string {
	return fmt.Sprintf("%s() got an unexpected keyword argument '%s'", e.Function, e.Keyword)
}

// InternalConsistencyError reports broken pending-contributor bookkeeping.
// It indicates a defect in the assembled prologue, not a caller mistake.
type InternalConsistencyError struct {
	Function    string
	Contributor string
	Invocation  string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("forwarding bookkeeping broken in %s(): contributor %q reported twice or was never pending (invocation %s)",
		e.Function, e.Contributor, e.Invocation)
}
