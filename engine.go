package scenemap

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jward/scenemap/internal/config"
	"github.com/jward/scenemap/internal/graph"
	"github.com/jward/scenemap/internal/layout"
	"github.com/jward/scenemap/internal/records"
	"github.com/jward/scenemap/internal/store"
	"github.com/jward/scenemap/internal/view"
)

// Engine orchestrates the scenemap pipeline: record deserialization, graph
// build, layout, and the interactive view. One Engine owns one graph at a
// time; every load fully rebuilds it. The Engine is single-threaded —
// graph state is exclusively owned by the session that built it.
type Engine struct {
	cfg    *config.Config
	logger *zap.Logger
	clock  view.Clock

	graph   *graph.Graph
	view    *view.View
	buildID string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithConfig supplies a loaded configuration instead of the defaults.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithClock injects the clock used for double-click coalescing, so the
// toggle state machine is testable without wall-clock waits.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates an Engine with no graph loaded.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:    config.Default(),
		logger: zap.NewNop(),
		clock:  view.SystemClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildGraph performs an idempotent full rebuild from a record set. The
// record set is validated first; on validation failure the previously built
// graph (if any) remains intact and rendered. A successful build replaces
// graph, layout, and view state atomically and stamps a fresh build id.
func (e *Engine) BuildGraph(rs *records.RecordSet) error {
	if rs == nil {
		return fmt.Errorf("build graph: nil record set")
	}
	if err := rs.Validate(); err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	// A fresh builder per build: the outgoing graph stays observable until
	// the swap below, so a caller never sees partially built state.
	builder := graph.NewBuilder(
		e.cfg.Filter.ExtraBuiltinTypes,
		e.cfg.Filter.ExtraBlockedNamespaces,
		e.cfg.Filter.ExtraSignificantCalls,
		e.logger,
	)
	g := builder.Build(rs)
	res := layout.Apply(g)

	e.graph = g
	e.view = view.New(g, res,
		view.WithClock(e.clock),
		view.WithDoubleClickWindow(e.cfg.DoubleClickWindow()),
		view.WithZoomStep(e.cfg.Interaction.ZoomStep),
		view.WithDimOpacity(e.cfg.Interaction.DimOpacity),
	)
	e.buildID = uuid.NewString()
	return nil
}

// LoadFile deserializes a JSON or YAML record file and rebuilds the graph.
func (e *Engine) LoadFile(path string) error {
	rs, err := records.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return e.BuildGraph(rs)
}

// Graph returns the current graph, or nil before the first successful build.
func (e *Engine) Graph() *Graph {
	return e.graph
}

// View returns the current interaction controller, or nil before the first
// successful build.
func (e *Engine) View() *View {
	return e.view
}

// BuildID returns the id stamped on the last successful build.
func (e *Engine) BuildID() string {
	return e.buildID
}

// Filter applies a live search query to the view. A no-op with no graph.
func (e *Engine) Filter(query string) {
	if e.view != nil {
		e.view.Filter(query)
	}
}

// Toggle flips a component's constant-node visibility. Returns whether the
// state changed.
func (e *Engine) Toggle(nodeKey string) bool {
	if e.view == nil {
		return false
	}
	return e.view.Toggle(nodeKey)
}

// Click records a primary-button activation for double-click coalescing.
// Returns whether a toggle fired.
func (e *Engine) Click(nodeKey string) bool {
	if e.view == nil {
		return false
	}
	return e.view.Click(nodeKey)
}

// Pan shifts the viewport.
func (e *Engine) Pan(dx, dy float64) {
	if e.view != nil {
		e.view.Pan(dx, dy)
	}
}

// Zoom applies exponential zoom steps; positive ticks zoom in.
func (e *Engine) Zoom(ticks int) {
	if e.view != nil {
		e.view.Zoom(ticks)
	}
}

// Clear drops the current graph and view state entirely.
func (e *Engine) Clear() {
	e.graph = nil
	e.view = nil
	e.buildID = ""
}

// Stats summarizes the current build.
type Stats struct {
	Nodes        int
	Edges        int
	DroppedEdges int
	BuildID      string
}

// Stats returns counts for the current build; zero values with no graph.
func (e *Engine) Stats() Stats {
	if e.graph == nil {
		return Stats{}
	}
	return Stats{
		Nodes:        len(e.graph.Nodes()),
		Edges:        len(e.graph.Edges()),
		DroppedEdges: e.graph.DroppedEdges(),
		BuildID:      e.buildID,
	}
}

// Export writes the current graph to a SQLite snapshot at dbPath. Requires
// a successful build.
func (e *Engine) Export(dbPath string) error {
	if e.graph == nil {
		return fmt.Errorf("export: no graph built")
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := s.Save(e.graph, e.buildID); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
