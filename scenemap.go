package scenemap

import (
	"github.com/jward/scenemap/internal/graph"
	"github.com/jward/scenemap/internal/records"
	"github.com/jward/scenemap/internal/view"
)

// Public type aliases for internal types used in the Engine API. These are
// Go type aliases (=) — identical to the internal types at compile time.
// External consumers use these names; no conversion is needed.

type Graph = graph.Graph
type Node = graph.Node
type Edge = graph.Edge
type NodeKind = graph.NodeKind
type Position = graph.Position
type RecordSet = records.RecordSet
type RenderNode = view.RenderNode
type RenderEdge = view.RenderEdge
type View = view.View
type Clock = view.Clock
