package forward

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Provider computes a transformed function's aggregate accepted-parameter
// set. It runs on every resolution. The resolution context threads the
// visited set through recursive expansions so that forwarding cycles
// terminate instead of recursing forever.
type Provider func(res *Resolution) ([]string, error)

// Resolution tracks one transitive expansion.
type Resolution struct {
	registry *Registry
	visited  map[string]bool
	depth    int
}

// Expand resolves a further registry entry within the same resolution.
// Entries already visited contribute nothing more: a forwarding cycle is
// cut at the point of re-entry.
func (r *Resolution) Expand(name string) ([]string, bool, error) {
	if r.visited[name] {
		return nil, true, nil
	}
	if r.depth >= r.registry.maxDepth {
		return nil, true, &IntrospectionError{Callee: name,
			Reason: fmt.Sprintf("forwarding chain exceeds %d levels", r.registry.maxDepth)}
	}
	r.depth++
	names, found, err := r.registry.resolve(name, r)
	r.depth--
	return names, found, err
}

// Registry is the process-wide mapping from a transformed function's name to
// its accepted-parameter-set provider. Entries are never removed; registering
// a name again overwrites the previous entry. Registration happens at load
// time, before any invocation reads the registry.
type Registry struct {
	mu       sync.RWMutex
	entries  map[string]Provider
	maxDepth int
}

// DefaultMaxDepth bounds transitive resolution chains when no explicit limit
// is configured. Cycles are already cut by the visited set; the depth limit
// guards against degenerate non-cyclic chains.
const DefaultMaxDepth = 64

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Provider), maxDepth: DefaultMaxDepth}
}

// SetMaxDepth overrides the transitive resolution depth limit.
func (r *Registry) SetMaxDepth(n int) {
	if n > 0 {
		r.maxDepth = n
	}
}

// Register stores the provider under name, replacing any previous entry.
func (r *Registry) Register(name string, provider Provider) {
	r.mu.Lock()
	r.entries[name] = provider
	r.mu.Unlock()
	Logger().Debug("forwarding function registered", zap.String("function", name))
}

// Registered reports whether name has an entry.
func (r *Registry) Registered(name string) bool {
	r.mu.RLock()
	_, ok := r.entries[name]
	r.mu.RUnlock()
	return ok
}

// ResolveTransitive returns the accepted-name set registered under name,
// recursively expanding entries that are themselves registered transformed
// functions. The second result is false when name has no entry.
func (r *Registry) ResolveTransitive(name string) ([]string, bool, error) {
	res := &Resolution{registry: r, visited: make(map[string]bool)}
	return r.resolve(name, res)
}

func (r *Registry) resolve(name string, res *Resolution) ([]string, bool, error) {
	r.mu.RLock()
	provider, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	res.visited[name] = true
	names, err := provider(res)
	if err != nil {
		return nil, true, err
	}
	return names, true, nil
}
