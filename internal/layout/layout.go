// Package layout assigns deterministic, non-overlapping 2D coordinates to a
// built graph. Two independent coordinate bands: a recursive cluster layout
// for the containment hierarchy (scene → object → component → property) and
// a flat stacked list for the code/library layer. No physics, no iteration —
// one bottom-up pass per band, reproducible from registration order alone.
package layout

import "github.com/jward/scenemap/internal/graph"

// Band geometry. Row heights and offsets are in abstract layout units; the
// viewport transform owns screen mapping.
const (
	RowHeight        = 40.0  // vertical band one node occupies
	SceneGap         = 24.0  // extra spacing between scene subtrees
	ChildIndentX     = 160.0 // horizontal shift per containment level
	ComponentOffsetX = 220.0 // component cluster offset from its object
	PropertyOffsetX  = 180.0 // constant cluster offset from its component
	CodeBandX        = 900.0 // fixed column for the code/library band
)

// Result is the outcome of one layout pass: every node has a position, and
// Rendered lists the nodes visible in the default view, in draw order.
// Constant nodes are positioned but excluded — they attach on expand.
type Result struct {
	Rendered []*graph.Node
}

// Apply positions every node of the graph and returns the default render
// set. Safe to call repeatedly; positions are fully recomputed each time.
func Apply(g *graph.Graph) *Result {
	res := &Result{}
	placed := make(map[string]bool)

	children, components := containment(g)

	// Containment band: scenes stack vertically, each subtree laid out
	// bottom-up so sibling offsets never overlap.
	y := 0.0
	for _, n := range g.Nodes() {
		if n.Kind != graph.KindScene {
			continue
		}
		h := layoutSubtree(g, n, 0, y, children, components, placed, res)
		y += h + SceneGap
	}

	// Orphaned objects (no scene claims them) still need coordinates.
	for _, n := range g.Nodes() {
		if n.Kind == graph.KindObject && !placed[n.Key] {
			h := layoutSubtree(g, n, 0, y, children, components, placed, res)
			y += h + SceneGap
		}
	}

	// Code band: a flat vertical list of code types worth showing, with
	// library nodes appended in creation order.
	codeY := 0.0
	for _, n := range g.Nodes() {
		if !inCodeBand(n) || placed[n.Key] {
			continue
		}
		n.Position = graph.Position{X: CodeBandX, Y: codeY}
		placed[n.Key] = true
		res.Rendered = append(res.Rendered, n)
		codeY += RowHeight
	}
	for _, n := range g.Nodes() {
		if n.Kind != graph.KindLibrary {
			continue
		}
		n.Position = graph.Position{X: CodeBandX, Y: codeY}
		placed[n.Key] = true
		res.Rendered = append(res.Rendered, n)
		codeY += RowHeight
	}

	return res
}

// inCodeBand reports whether a code type earns a slot in the code band: it
// declares at least one method, is lifecycle-significant, or is an
// interface/struct/enum. Method-less unflagged classes are omitted entirely.
func inCodeBand(n *graph.Node) bool {
	switch n.Kind {
	case graph.KindInterface, graph.KindStruct, graph.KindEnum:
		return true
	case graph.KindClass:
		return n.MethodCount > 0 || n.Lifecycle
	default:
		return false
	}
}

// containment derives the child and component adjacency from the graph's
// structural edges. contains edges run parent→child, child_of edges run
// child→parent, has_component edges run owner→component.
func containment(g *graph.Graph) (children, components map[string][]string) {
	children = make(map[string][]string)
	components = make(map[string][]string)
	for _, e := range g.Edges() {
		switch e.Kind {
		case graph.EdgeContains:
			children[e.FromKey] = append(children[e.FromKey], e.ToKey)
		case graph.EdgeChildOf:
			children[e.ToKey] = append(children[e.ToKey], e.FromKey)
		case graph.EdgeHasComponent:
			components[e.FromKey] = append(components[e.FromKey], e.ToKey)
		}
	}
	return children, components
}

// layoutSubtree positions one containment subtree rooted at (x, y) and
// returns its total height. The subtree height is the maximum of the node's
// own band and its component cluster, plus the accumulated heights of child
// subtrees — returned upward so the next sibling starts clear of overlap.
func layoutSubtree(g *graph.Graph, n *graph.Node, x, y float64, children, components map[string][]string, placed map[string]bool, res *Result) float64 {
	n.Position = graph.Position{X: x, Y: y}
	placed[n.Key] = true
	res.Rendered = append(res.Rendered, n)

	// Component cluster: stacked to the right of the owning node. A
	// component shared by several objects keeps its first placement. Each
	// component claims enough rows for its constant cluster, so expanded
	// constants of stacked siblings never collide.
	clusterRows := 0
	for _, key := range components[n.Key] {
		comp := g.Node(key)
		if comp == nil || placed[comp.Key] {
			continue
		}
		comp.Position = graph.Position{
			X: x + ComponentOffsetX,
			Y: y + float64(clusterRows)*RowHeight,
		}
		placed[comp.Key] = true
		res.Rendered = append(res.Rendered, comp)
		rows := layoutConstants(g, comp)
		if rows < 1 {
			rows = 1
		}
		clusterRows += rows
	}

	// Own band vs component cluster: an empty cluster degenerates to the
	// node's own row, never a zero-height band.
	h := RowHeight
	if clusterH := float64(clusterRows) * RowHeight; clusterH > h {
		h = clusterH
	}

	for _, key := range children[n.Key] {
		child := g.Node(key)
		if child == nil || placed[child.Key] {
			continue
		}
		h += layoutSubtree(g, child, x+ChildIndentX, y+h, children, components, placed, res)
	}
	return h
}

// layoutConstants positions a component's constant nodes in a stacked
// cluster offset from the component and returns the row count. The constants
// stay out of the render set — they exist only in the registry until
// expanded.
func layoutConstants(g *graph.Graph, comp *graph.Node) int {
	row := 0
	for _, c := range g.ConstantsOf(comp.Key) {
		c.Position = graph.Position{
			X: comp.Position.X + PropertyOffsetX,
			Y: comp.Position.Y + float64(row)*RowHeight,
		}
		row++
	}
	return row
}
