package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/scenemap/internal/records"
)

// testRecordSet builds a small but representative project: one scene with a
// parented object tree, a component with scalar and reference properties,
// external code types, and cross-references between them.
func testRecordSet() *records.RecordSet {
	return &records.RecordSet{
		Scenes: []records.Scene{{
			SceneName: "Main",
			ScenePath: "Scenes/Main.unity",
			GameObjects: []records.GameObject{{
				Name:       "Player",
				InstanceID: 100,
				Components: []records.Component{{
					ComponentType: "MonoBehaviour",
					ClassName:     "PlayerController",
					InstanceID:    101,
					Methods: []records.Method{
						{MethodName: "Fire", MemberID: "m#1"},
						{MethodName: "Reload", MemberID: "m#2"},
					},
					Properties: map[string]string{
						"speed":  "4.5",
						"name":   "hero",
						"target": "ref:200",
					},
				}},
				Children: []records.GameObject{{
					Name:       "Weapon",
					InstanceID: 200,
				}},
			}},
		}},
		ExternalClasses: []records.ExternalClass{
			{
				NamespaceName:   "Game.Core",
				ClassName:       "EnemySpawner",
				Type:            "class",
				IsLifecycleType: true,
				Methods:         []records.Method{{MethodName: "Spawn", MemberID: "m#3"}},
			},
			{ClassName: "IDamageable", Type: "interface"},
		},
		Calls: []records.Call{
			{FromID: "m#1", ToID: "Game.Core.EnemySpawner.Spawn", CallKind: "method", MethodName: "Spawn"},
			{FromID: "m#3", ToID: "Foo.Bar.Baz", CallKind: "method", MethodName: "Parse", LibraryName: "Foo"},
		},
		StructureRelations: []records.StructureRelation{
			{FromID: "Game.Core.EnemySpawner", ToID: "IDamageable", RelationKind: records.RelationImplements},
		},
	}
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(nil, nil, nil, nil)
}

func TestBuild_EmptyRecordSet(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(&records.RecordSet{})

	assert.Empty(t, g.Nodes())
	assert.Empty(t, g.Edges())
	assert.Zero(t, g.DroppedEdges())
}

func TestBuild_RegistersSceneHierarchy(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(testRecordSet())

	scene := g.Node("Scenes/Main.unity")
	require.NotNil(t, scene)
	assert.Equal(t, KindScene, scene.Kind)
	assert.Equal(t, "Main", scene.DisplayName)
	assert.Same(t, scene, g.Node("Main"), "scene name aliases the path key")

	player := g.Node("100")
	require.NotNil(t, player)
	assert.Equal(t, KindObject, player.Kind)
	assert.Equal(t, "Player", player.DisplayName)

	weapon := g.Node("200")
	require.NotNil(t, weapon)
	assert.Equal(t, "Weapon", weapon.DisplayName)
}

func TestBuild_ComponentMultiKeying(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(testRecordSet())

	comp := g.Node("PlayerController")
	require.NotNil(t, comp)
	assert.Equal(t, KindComponent, comp.Kind)

	assert.Same(t, comp, g.Node("101"), "instance id aliases the class key")
	assert.Same(t, comp, g.Node("MonoBehaviour"), "component type aliases the class key")
}

func TestBuild_ScalarPropertiesBecomeDetachedConstants(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(testRecordSet())

	// Three properties, one of them a reference: exactly two constants.
	constants := g.ConstantsOf("PlayerController")
	require.Len(t, constants, 2)
	assert.Equal(t, "name = hero", constants[0].DisplayName)
	assert.Equal(t, "speed = 4.5", constants[1].DisplayName)
	for _, c := range constants {
		assert.Equal(t, "PlayerController", c.OwnerKey)
	}
}

func TestBuild_ComponentUnifiesWithDeclaredClass(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(&records.RecordSet{
		Scenes: []records.Scene{{
			SceneName: "Main",
			GameObjects: []records.GameObject{{
				Name:       "Player",
				InstanceID: 100,
				Components: []records.Component{{
					ClassName:  "PlayerController",
					InstanceID: 101,
					Properties: map[string]string{"speed": "4.5", "jump": "2"},
				}},
			}},
		}},
		ExternalClasses: []records.ExternalClass{{
			NamespaceName: "Game",
			ClassName:     "PlayerController",
			Type:          "class",
			Methods:       []records.Method{{MethodName: "Fire", MemberID: "m#1"}},
		}},
	})

	// The scene component and the declared class are one node, keyed by the
	// qualified name.
	comp := g.Node("Game.PlayerController")
	require.NotNil(t, comp)
	assert.Same(t, comp, g.Node("PlayerController"))
	assert.Same(t, comp, g.Node("101"), "instance id aliases the unified node")

	// Constants belong to the canonical key, not the bare class name.
	constants := g.ConstantsOf("Game.PlayerController")
	require.Len(t, constants, 2)
	for _, c := range constants {
		assert.Equal(t, "Game.PlayerController", c.OwnerKey)
	}
	assert.Empty(t, g.ConstantsOf("PlayerController"),
		"ConstantsOf matches canonical keys only")

	// The has_component edge lands on the canonical key as well.
	var hasComponent *Edge
	for _, e := range g.Edges() {
		if e.Kind == EdgeHasComponent {
			hasComponent = e
		}
	}
	require.NotNil(t, hasComponent)
	assert.Equal(t, "Game.PlayerController", hasComponent.ToKey)
}

func TestBuild_ReferencePropertyBecomesUsesEdge(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(testRecordSet())

	var found *Edge
	for _, e := range g.Edges() {
		if e.Kind == EdgeUses && e.FromKey == "PlayerController" && e.ToKey == "200" {
			found = e
		}
	}
	require.NotNil(t, found, "ref:200 property must become an edge to the weapon object")
	assert.Equal(t, []string{"target"}, found.Labels())
}

func TestBuild_ContainmentEdges(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(testRecordSet())

	kinds := make(map[EdgeKind]int)
	for _, e := range g.Edges() {
		kinds[e.Kind]++
	}
	assert.Equal(t, 1, kinds[EdgeContains], "scene contains the root object")
	assert.Equal(t, 1, kinds[EdgeChildOf], "nested child points back to its parent")
	assert.Equal(t, 1, kinds[EdgeHasComponent])
}

func TestBuild_MemberIDsResolveToOwningType(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(testRecordSet())

	var call *Edge
	for _, e := range g.Edges() {
		if e.Kind == EdgeCall && e.FromKey == "PlayerController" {
			call = e
		}
	}
	require.NotNil(t, call, "m#1 must resolve to PlayerController")
	assert.Equal(t, "Game.Core.EnemySpawner", call.ToKey)
	assert.Equal(t, []string{"Spawn"}, call.Labels())
}

func TestBuild_ExternalClassesAndLibraries(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(testRecordSet())

	spawner := g.Node("Game.Core.EnemySpawner")
	require.NotNil(t, spawner)
	assert.Equal(t, KindClass, spawner.Kind)
	assert.True(t, spawner.Lifecycle)
	assert.Equal(t, 1, spawner.MethodCount)
	assert.Same(t, spawner, g.Node("EnemySpawner"), "bare class name aliases the qualified key")

	iface := g.Node("IDamageable")
	require.NotNil(t, iface)
	assert.Equal(t, KindInterface, iface.Kind)

	lib := g.Node("Foo")
	require.NotNil(t, lib, "external call target materializes a library node")
	assert.Equal(t, KindLibrary, lib.Kind)
}

func TestBuild_NoSelfEdges(t *testing.T) {
	rs := testRecordSet()
	rs.Calls = append(rs.Calls, records.Call{FromID: "m#1", ToID: "PlayerController", CallKind: "method", MethodName: "Fire"})

	b := newTestBuilder(t)
	g := b.Build(rs)

	for _, e := range g.Edges() {
		assert.NotEqual(t, e.FromKey, e.ToKey)
	}
	assert.Equal(t, 1, g.DroppedEdges())
}

func TestBuild_RebuildClearsPriorState(t *testing.T) {
	b := newTestBuilder(t)
	first := b.Build(testRecordSet())
	require.NotEmpty(t, first.Nodes())

	second := b.Build(&records.RecordSet{
		Scenes: []records.Scene{{SceneName: "Other"}},
	})

	assert.Nil(t, second.Node("PlayerController"), "no node survives a rebuild")
	assert.Empty(t, second.Edges())
	require.NotNil(t, second.Node("Other"))
}

func TestBuild_Prefabs(t *testing.T) {
	b := newTestBuilder(t)
	g := b.Build(&records.RecordSet{
		Prefabs: []records.Prefab{{
			PrefabPath: "Prefabs/Rocket.prefab",
			RootObject: records.GameObject{Name: "Rocket", InstanceID: 300},
		}},
	})

	root := g.Node("Prefabs/Rocket.prefab")
	require.NotNil(t, root)
	assert.Equal(t, KindScene, root.Kind)
	require.NotNil(t, g.Node("300"))
	require.Len(t, g.Edges(), 1)
	assert.Equal(t, EdgeContains, g.Edges()[0].Kind)
}
