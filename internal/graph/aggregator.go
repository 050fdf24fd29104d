package graph

import (
	"go.uber.org/zap"

	"github.com/jward/scenemap/internal/records"
)

// edgeKey dedupes edges by resolved endpoints plus a coarse relation bucket.
// All call kinds share one bucket so repeated calls between the same two
// nodes collapse into a single labeled edge; structural kinds keep their own
// buckets.
type edgeKey struct {
	from   string
	to     string
	bucket string
}

// bucketFor coarsens an edge kind into its dedup bucket.
func bucketFor(kind EdgeKind) string {
	if kind == EdgeCall {
		return "call"
	}
	return string(kind)
}

// unlabeledRelations are pure containment/composition kinds that render
// without a label.
var unlabeledRelations = map[string]bool{
	records.RelationContains:     true,
	records.RelationChildOf:      true,
	records.RelationHasComponent: true,
}

// relationEdgeKind maps an input relation kind to its edge kind. Unknown
// kinds fall back to "uses".
func relationEdgeKind(kind string) EdgeKind {
	switch kind {
	case records.RelationInherits:
		return EdgeInherits
	case records.RelationImplements:
		return EdgeImplements
	case records.RelationUses:
		return EdgeUses
	case records.RelationContains:
		return EdgeContains
	case records.RelationChildOf:
		return EdgeChildOf
	case records.RelationHasComponent:
		return EdgeHasComponent
	default:
		return EdgeUses
	}
}

// Aggregator resolves relation endpoints, lazily materializes library nodes,
// and merges repeated relations between the same endpoints into one edge
// carrying a label multiset. Endpoint failures and self-edges are dropped
// and counted, never fatal.
type Aggregator struct {
	registry *Registry
	resolver *Resolver
	logger   *zap.Logger

	byKey   map[edgeKey]*Edge
	edges   []*Edge // creation order
	dropped int
}

// NewAggregator returns an aggregator over the given registry and resolver.
// logger may be nil.
func NewAggregator(registry *Registry, resolver *Resolver, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		registry: registry,
		resolver: resolver,
		logger:   logger,
		byKey:    make(map[edgeKey]*Edge),
	}
}

// Clear drops all aggregated edges and counters. Called at the start of each
// build.
func (a *Aggregator) Clear() {
	a.byKey = make(map[edgeKey]*Edge)
	a.edges = nil
	a.dropped = 0
}

// Edges returns the aggregated edges in creation order.
func (a *Aggregator) Edges() []*Edge {
	return a.edges
}

// Dropped returns the count of relation records discarded for unresolvable
// endpoints or self-edges.
func (a *Aggregator) Dropped() int {
	return a.dropped
}

// resolveOrMaterialize resolves a raw endpoint to a node, creating a library
// node when the identity qualifies as an external reference. Returns nil
// when the endpoint cannot produce a node.
func (a *Aggregator) resolveOrMaterialize(rawID string) *Node {
	if n := a.resolver.ResolveEndpoint(rawID); n != nil {
		return n
	}
	if a.resolver.IsExternalReference(rawID) {
		return a.registry.Library(normalize(rawID))
	}
	return nil
}

// add resolves both endpoints and either merges the label into an existing
// edge or creates a new one. Self-edges and unresolvable endpoints drop.
func (a *Aggregator) add(fromID, toID string, kind EdgeKind, label string) {
	from := a.resolveOrMaterialize(fromID)
	to := a.resolveOrMaterialize(toID)
	if from == nil || to == nil || from.Key == to.Key {
		a.dropped++
		a.logger.Debug("dropped edge",
			zap.String("from", fromID),
			zap.String("to", toID),
			zap.String("kind", string(kind)),
		)
		return
	}

	key := edgeKey{from: from.Key, to: to.Key, bucket: bucketFor(kind)}
	edge, ok := a.byKey[key]
	if !ok {
		edge = &Edge{FromKey: from.Key, ToKey: to.Key, Kind: kind}
		a.byKey[key] = edge
		a.edges = append(a.edges, edge)
	}
	edge.addLabel(label)
}

// AddCall aggregates one call record. The label is the method name, the
// field name, or the call kind — in that priority.
func (a *Aggregator) AddCall(c records.Call) {
	label := c.MethodName
	if label == "" {
		label = c.FieldName
	}
	if label == "" {
		label = c.CallKind
	}
	a.add(c.FromID, c.ToID, EdgeCall, label)
}

// AddRelation aggregates one structure relation record. Containment kinds
// render unlabeled; every other kind carries its relation kind as label.
func (a *Aggregator) AddRelation(rel records.StructureRelation) {
	label := rel.RelationKind
	if unlabeledRelations[rel.RelationKind] {
		label = ""
	}
	a.add(rel.FromID, rel.ToID, relationEdgeKind(rel.RelationKind), label)
}

// AddPropertyReference aggregates a reference-valued component property as a
// "uses" edge labeled with the property name.
func (a *Aggregator) AddPropertyReference(componentKey, targetID, property string) {
	a.add(componentKey, targetID, EdgeUses, property)
}
