// Package scenemap builds an interactive structural relationship graph from
// heterogeneous project records: runtime scene hierarchies, code types,
// cross-references, and external libraries. It reconciles four identity
// namespaces (qualified type names, synthetic member ids, runtime instance
// ids, member-qualified names) into one canonical key space, deduplicates
// edges that collapse to the same visual relation, and lays the result out
// deterministically in two dimensions.
//
// # Pipeline
//
// A load runs in three synchronous phases:
//
//  1. Build: the record set populates the node registry and edge aggregator.
//     Identity resolution is permissive — unresolvable endpoints drop their
//     edge and are counted, never fatal. Every build clears all prior state
//     atomically before repopulating; nothing is patched incrementally.
//
//  2. Layout: a recursive cluster pass positions the containment band
//     (scene → object → component → property) without overlap, and a flat
//     stacked pass positions the code/library band.
//
//  3. View: the interaction controller owns runtime view state — the
//     double-click expand/collapse toggle for constant nodes, live search
//     highlighting, and the pan/zoom viewport transform.
//
// # Usage
//
// Create an Engine, build from a record set, and drive the view:
//
//	e := scenemap.New()
//	if err := e.LoadFile("project.records.json"); err != nil { ... }
//
//	e.Filter("Player")
//	e.Toggle("PlayerController")
//	e.Pan(40, 0)
//	e.Zoom(2)
//
// Record extraction (parsing source text, scanning runtime object graphs) is
// an external collaborator's concern; this package consumes the resulting
// records read-only. See the internal/records package for the record shape.
package scenemap
