// Package graph builds the deduplicated, identity-resolved node/edge graph
// from an input record set. It owns the four-namespace identity resolution
// (qualified type names, synthetic member ids, runtime instance ids,
// member-qualified names), the create-if-absent node registry, and the
// label-aggregating edge store. Every build starts from a cleared state;
// nothing survives a rebuild.
package graph

// NodeKind tags a node with its structural role. All kinds share the same
// capability set (key, display name, position); there is no behavioral
// hierarchy among them.
type NodeKind string

const (
	KindScene     NodeKind = "scene"
	KindObject    NodeKind = "game_object"
	KindComponent NodeKind = "component"
	KindClass     NodeKind = "class"
	KindInterface NodeKind = "interface"
	KindStruct    NodeKind = "struct"
	KindEnum      NodeKind = "enum"
	KindLibrary   NodeKind = "library"
	KindConstant  NodeKind = "constant"
)

// Position is a 2D layout coordinate assigned by the layout engine.
type Position struct {
	X float64
	Y float64
}

// Node is one entity in the graph, registered under exactly one canonical
// key. A node may be reachable through several aliases (type name, instance
// id, qualified name) that all resolve to the same *Node.
type Node struct {
	Key         string
	Kind        NodeKind
	DisplayName string
	Position    Position

	// OwnerKey links a constant node back to the component whose property
	// it represents. Empty for every other kind.
	OwnerKey string

	// MethodCount and Lifecycle drive code-band inclusion for class-like
	// kinds.
	MethodCount int
	Lifecycle   bool
}

// EdgeKind tags an edge with the relation that produced it.
type EdgeKind string

const (
	EdgeCall         EdgeKind = "call"
	EdgeInherits     EdgeKind = "inherits"
	EdgeImplements   EdgeKind = "implements"
	EdgeUses         EdgeKind = "uses"
	EdgeContains     EdgeKind = "contains"
	EdgeChildOf      EdgeKind = "child_of"
	EdgeHasComponent EdgeKind = "has_component"
	EdgeHasProperty  EdgeKind = "has_property"
)

// Edge is one deduplicated relation between two resolved nodes. Repeated
// relations between the same endpoints accumulate into the label multiset
// instead of materializing new edges; label order is first-seen order.
type Edge struct {
	FromKey string
	ToKey   string
	Kind    EdgeKind

	labels     []string       // distinct labels, first-seen order
	labelCount map[string]int // label -> occurrences
}

// addLabel appends a label to the multiset, or bumps its count if already
// present. Empty labels are ignored (containment kinds render unlabeled).
func (e *Edge) addLabel(label string) {
	if label == "" {
		return
	}
	if e.labelCount == nil {
		e.labelCount = make(map[string]int)
	}
	if _, ok := e.labelCount[label]; !ok {
		e.labels = append(e.labels, label)
	}
	e.labelCount[label]++
}

// Labels returns the distinct labels in first-seen order.
func (e *Edge) Labels() []string {
	return e.labels
}

// LabelCount returns how many times a label was recorded on this edge.
func (e *Edge) LabelCount(label string) int {
	return e.labelCount[label]
}

// Graph is the result of one build pass: the node registry plus the
// aggregated edge set and non-fatal drop counters.
type Graph struct {
	registry   *Registry
	aggregator *Aggregator
}

// Nodes returns every registered node in registration order.
func (g *Graph) Nodes() []*Node {
	return g.registry.Nodes()
}

// Edges returns every aggregated edge in creation order.
func (g *Graph) Edges() []*Edge {
	return g.aggregator.Edges()
}

// Node looks up a node by canonical key or alias.
func (g *Graph) Node(key string) *Node {
	return g.registry.Lookup(key)
}

// ConstantsOf returns the detached constant nodes owned by a component, in
// registration order.
func (g *Graph) ConstantsOf(componentKey string) []*Node {
	var out []*Node
	for _, n := range g.registry.Nodes() {
		if n.Kind == KindConstant && n.OwnerKey == componentKey {
			out = append(out, n)
		}
	}
	return out
}

// DroppedEdges reports how many relation records were discarded because an
// endpoint failed to resolve or the edge degenerated to a self-edge.
func (g *Graph) DroppedEdges() int {
	return g.aggregator.Dropped()
}

// Registry exposes the underlying node registry.
func (g *Graph) Registry() *Registry {
	return g.registry
}
