// Package view is the interaction controller over a built, laid-out graph:
// the visibility toggle state machine for constant nodes, live search
// highlighting, and the pan/zoom viewport transform. All operations are
// synchronous and same-thread; the view never mutates node or edge data
// beyond render attachment.
package view

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jward/scenemap/internal/graph"
	"github.com/jward/scenemap/internal/layout"
)

// Interaction defaults.
const (
	DefaultDoubleClickWindow = 300 * time.Millisecond
	DefaultZoomStep          = 1.1
	DefaultDimOpacity        = 0.2
)

// View owns the runtime view state for one built graph. It is rebuilt (not
// patched) whenever the graph is rebuilt.
type View struct {
	graph    *graph.Graph
	rendered []*graph.Node
	visible  map[string]bool

	// expand state, one slot per component that owns constant nodes
	expanded    map[string]bool
	expandEdges map[string][]*graph.Edge

	// double-click state machine: Idle (hasPending false) or
	// PendingClick(pendingAt)
	clock      Clock
	window     time.Duration
	hasPending bool
	pendingKey string
	pendingAt  time.Time

	// search
	query   string
	matched map[string]bool

	// viewport
	panX, panY float64
	scale      float64
	zoomStep   float64
	dimOpacity float64
}

// Option configures a View.
type Option func(*View)

// WithClock injects the clock used for double-click coalescing.
func WithClock(c Clock) Option {
	return func(v *View) { v.clock = c }
}

// WithDoubleClickWindow sets the maximum gap between two clicks that still
// counts as a double-click.
func WithDoubleClickWindow(d time.Duration) Option {
	return func(v *View) { v.window = d }
}

// WithZoomStep sets the exponential zoom factor per scroll tick.
func WithZoomStep(step float64) Option {
	return func(v *View) { v.zoomStep = step }
}

// WithDimOpacity sets the opacity applied to unmatched nodes while a search
// query is active.
func WithDimOpacity(o float64) Option {
	return func(v *View) { v.dimOpacity = o }
}

// New builds a view over a graph using the default render set produced by
// the layout pass.
func New(g *graph.Graph, res *layout.Result, opts ...Option) *View {
	v := &View{
		graph:       g,
		expanded:    make(map[string]bool),
		expandEdges: make(map[string][]*graph.Edge),
		visible:     make(map[string]bool, len(res.Rendered)),
		clock:       SystemClock(),
		window:      DefaultDoubleClickWindow,
		scale:       1.0,
		zoomStep:    DefaultZoomStep,
		dimOpacity:  DefaultDimOpacity,
	}
	v.rendered = append(v.rendered, res.Rendered...)
	for _, n := range res.Rendered {
		v.visible[n.Key] = true
	}
	return v
}

// Click records one primary-button activation on a node. Two clicks on the
// same node inside the window fire the expand/collapse toggle; a click on a
// different node, or after the window, starts a fresh pending click. Returns
// whether a toggle fired.
func (v *View) Click(nodeKey string) bool {
	now := v.clock.Now()
	if v.hasPending && v.pendingKey == nodeKey && now.Sub(v.pendingAt) <= v.window {
		v.hasPending = false
		return v.Toggle(nodeKey)
	}
	v.hasPending = true
	v.pendingKey = nodeKey
	v.pendingAt = now
	return false
}

// Toggle flips a component's constant nodes between Collapsed and Expanded.
// Only nodes that own at least one constant have toggle state; anything else
// is a no-op. The gate is constant ownership, not node kind — a component
// unified with its declared class carries the class kind. Returns whether
// the state changed.
func (v *View) Toggle(nodeKey string) bool {
	node := v.graph.Node(nodeKey)
	if node == nil {
		return false
	}
	constants := v.graph.ConstantsOf(node.Key)
	if len(constants) == 0 {
		return false
	}

	if v.expanded[node.Key] {
		v.collapse(node, constants)
	} else {
		v.expand(node, constants)
	}
	return true
}

// expand attaches the constant nodes plus one synthetic unlabeled edge per
// constant back to the owning component.
func (v *View) expand(node *graph.Node, constants []*graph.Node) {
	v.expanded[node.Key] = true
	for _, c := range constants {
		if !v.visible[c.Key] {
			v.visible[c.Key] = true
			v.rendered = append(v.rendered, c)
		}
	}
	if _, ok := v.expandEdges[node.Key]; !ok {
		edges := make([]*graph.Edge, 0, len(constants))
		for _, c := range constants {
			edges = append(edges, &graph.Edge{
				FromKey: node.Key,
				ToKey:   c.Key,
				Kind:    graph.EdgeHasProperty,
			})
		}
		v.expandEdges[node.Key] = edges
	}
}

// collapse detaches the constant nodes and their synthetic edges. Registry
// entries and layout positions persist; only render attachment changes.
func (v *View) collapse(node *graph.Node, constants []*graph.Node) {
	delete(v.expanded, node.Key)
	drop := make(map[string]bool, len(constants))
	for _, c := range constants {
		drop[c.Key] = true
		delete(v.visible, c.Key)
	}
	kept := v.rendered[:0]
	for _, n := range v.rendered {
		if !drop[n.Key] {
			kept = append(kept, n)
		}
	}
	v.rendered = kept
}

// Expanded reports whether a component's constants are currently attached.
func (v *View) Expanded(nodeKey string) bool {
	return v.expanded[nodeKey]
}

// Filter applies a live search query. A node matches when its display name
// contains the query as a case-insensitive substring; the empty query clears
// all dimming and emphasis.
func (v *View) Filter(query string) {
	v.query = query
	if query == "" {
		v.matched = nil
		return
	}
	needle := strings.ToLower(query)
	v.matched = make(map[string]bool)
	for _, n := range v.graph.Nodes() {
		if strings.Contains(strings.ToLower(n.DisplayName), needle) {
			v.matched[n.Key] = true
		}
	}
}

// Pan shifts the viewport. A pan gesture also cancels any pending click so
// a drag between two clicks never fires a toggle.
func (v *View) Pan(dx, dy float64) {
	v.hasPending = false
	v.panX += dx
	v.panY += dy
}

// Zoom applies exponential zoom steps; positive ticks zoom in. Pure
// transform over the rendered coordinate space.
func (v *View) Zoom(ticks int) {
	v.scale *= math.Pow(v.zoomStep, float64(ticks))
}

// Scale returns the current zoom factor.
func (v *View) Scale() float64 { return v.scale }

// RenderNode is one node ready for drawing: projected coordinates plus the
// search styling for the current query.
type RenderNode struct {
	Node     *graph.Node
	X, Y     float64
	Opacity  float64
	Emphasis bool
}

// RenderEdge is one edge ready for drawing. Labels carries the multiset
// rendered as "label×N" for counts above one.
type RenderEdge struct {
	Edge    *graph.Edge
	Labels  []string
	Opacity float64
}

// Frame produces the current draw lists. Node order is base render order
// with matched nodes raised to the front; edge order is aggregation order
// with expand edges appended. An edge draws only when both endpoints are
// attached, and brightens when either endpoint matches the query.
func (v *View) Frame() ([]RenderNode, []RenderEdge) {
	filtering := v.matched != nil

	var dimmed, raised []RenderNode
	for _, n := range v.rendered {
		rn := RenderNode{
			Node:    n,
			X:       n.Position.X*v.scale + v.panX,
			Y:       n.Position.Y*v.scale + v.panY,
			Opacity: 1.0,
		}
		if filtering {
			if v.matched[n.Key] {
				rn.Emphasis = true
				raised = append(raised, rn)
				continue
			}
			rn.Opacity = v.dimOpacity
		}
		dimmed = append(dimmed, rn)
	}
	nodes := append(dimmed, raised...)

	var edges []RenderEdge
	appendEdge := func(e *graph.Edge) {
		if !v.visible[e.FromKey] || !v.visible[e.ToKey] {
			return
		}
		re := RenderEdge{Edge: e, Labels: edgeLabels(e), Opacity: 1.0}
		if filtering && !v.matched[e.FromKey] && !v.matched[e.ToKey] {
			re.Opacity = v.dimOpacity
		}
		edges = append(edges, re)
	}
	for _, e := range v.graph.Edges() {
		appendEdge(e)
	}
	for _, comp := range v.rendered {
		if v.expanded[comp.Key] {
			for _, e := range v.expandEdges[comp.Key] {
				appendEdge(e)
			}
		}
	}
	return nodes, edges
}

// RenderedKeys returns the keys of currently attached nodes in render order.
func (v *View) RenderedKeys() []string {
	keys := make([]string, 0, len(v.rendered))
	for _, n := range v.rendered {
		keys = append(keys, n.Key)
	}
	return keys
}

// edgeLabels renders an edge's label multiset: each distinct label once, with
// a ×N multiplicity suffix when it occurred more than once.
func edgeLabels(e *graph.Edge) []string {
	labels := e.Labels()
	if len(labels) == 0 {
		return nil
	}
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if n := e.LabelCount(l); n > 1 {
			out = append(out, fmt.Sprintf("%s×%d", l, n))
		} else {
			out = append(out, l)
		}
	}
	return out
}
