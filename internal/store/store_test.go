package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/scenemap/internal/graph"
	"github.com/jward/scenemap/internal/layout"
	"github.com/jward/scenemap/internal/records"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "snapshot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func builtGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewBuilder(nil, nil, nil, nil).Build(&records.RecordSet{
		Scenes: []records.Scene{{
			SceneName: "Main",
			GameObjects: []records.GameObject{{
				Name:       "Player",
				InstanceID: 100,
				Components: []records.Component{{
					ClassName:  "PlayerController",
					InstanceID: 101,
					Properties: map[string]string{"speed": "4.5"},
				}},
			}},
		}},
		Calls: []records.Call{
			{FromID: "PlayerController", ToID: "Foo.Bar", CallKind: "method", MethodName: "Parse"},
			{FromID: "PlayerController", ToID: "Foo.Bar", CallKind: "method", MethodName: "Parse"},
		},
	})
	layout.Apply(g)
	return g
}

func TestNewStore_InvalidPath(t *testing.T) {
	_, err := NewStore("/nonexistent/dir/snapshot.db")
	require.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestSave_WritesNodesEdgesAndLabels(t *testing.T) {
	s := newTestStore(t)
	g := builtGraph(t)

	require.NoError(t, s.Save(g, "build-1"))

	nodes, edges, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, len(g.Nodes()), nodes)
	assert.Equal(t, len(g.Edges()), edges)

	var label string
	var occurrences int
	err = s.DB().QueryRow(
		`SELECT label, occurrences FROM edge_labels el
		 JOIN edges e ON e.id = el.edge_id
		 WHERE e.to_key = 'Foo'`).Scan(&label, &occurrences)
	require.NoError(t, err)
	assert.Equal(t, "Parse", label)
	assert.Equal(t, 2, occurrences)

	var x, y float64
	err = s.DB().QueryRow("SELECT x, y FROM nodes WHERE key = 'PlayerController'").Scan(&x, &y)
	require.NoError(t, err)
}

func TestSave_ReplacesPreviousSnapshot(t *testing.T) {
	s := newTestStore(t)
	g := builtGraph(t)

	require.NoError(t, s.Save(g, "build-1"))
	require.NoError(t, s.Save(g, "build-2"))

	nodes, edges, err := s.Counts()
	require.NoError(t, err)
	assert.Equal(t, len(g.Nodes()), nodes, "re-save must not accumulate rows")
	assert.Equal(t, len(g.Edges()), edges)

	id, err := s.GetMetadata("build_id")
	require.NoError(t, err)
	assert.Equal(t, "build-2", id)
}

func TestGetMetadata_Missing(t *testing.T) {
	s := newTestStore(t)
	value, err := s.GetMetadata("never_written")
	require.NoError(t, err)
	assert.Empty(t, value)
}
