package graph

import "strings"

// Registry is the create-if-absent node store. Registration is idempotent:
// the first write under a key wins and is never overwritten. Key insertion
// order is preserved — suffix-fallback resolution and layout both depend on
// deterministic iteration.
type Registry struct {
	byKey map[string]*Node
	keys  []string // insertion order, aliases included
	nodes []*Node  // distinct nodes in registration order
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*Node)}
}

// Register stores node under key if the key is unused. Returns the node now
// registered under the key — the existing one on collision, so callers can
// always use the return value as the canonical instance.
func (r *Registry) Register(key string, node *Node) *Node {
	if existing, ok := r.byKey[key]; ok {
		return existing
	}
	r.byKey[key] = node
	r.keys = append(r.keys, key)
	if node.Key == key {
		r.nodes = append(r.nodes, node)
	}
	return node
}

// Alias registers an additional key for an already-registered node. A no-op
// if the alias is taken.
func (r *Registry) Alias(key string, node *Node) {
	if _, ok := r.byKey[key]; ok {
		return
	}
	r.byKey[key] = node
	r.keys = append(r.keys, key)
}

// Lookup returns the node registered under key, or nil.
func (r *Registry) Lookup(key string) *Node {
	return r.byKey[key]
}

// Keys returns every registered key (aliases included) in insertion order.
func (r *Registry) Keys() []string {
	return r.keys
}

// Nodes returns the distinct nodes in registration order. Aliases do not
// produce duplicates.
func (r *Registry) Nodes() []*Node {
	return r.nodes
}

// Len returns the number of distinct nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// Clear drops every node and alias. Called once at the start of each build
// so no entry from a prior build can be observed.
func (r *Registry) Clear() {
	r.byKey = make(map[string]*Node)
	r.keys = nil
	r.nodes = nil
}

// LibraryKey reduces a qualified external name to its library node key: the
// first dot-delimited segment. "Foo.Bar.Baz" and "Foo.Qux" both key "Foo".
func LibraryKey(qualified string) string {
	if i := strings.IndexByte(qualified, '.'); i > 0 {
		return qualified[:i]
	}
	return qualified
}

// Library returns the library node for a qualified name, creating it on
// first use. Library nodes dedupe by first namespace segment only.
func (r *Registry) Library(qualified string) *Node {
	key := LibraryKey(qualified)
	if existing, ok := r.byKey[key]; ok {
		return existing
	}
	return r.Register(key, &Node{
		Key:         key,
		Kind:        KindLibrary,
		DisplayName: key,
	})
}
