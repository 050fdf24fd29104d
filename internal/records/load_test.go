package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonRecords = `{
  "scenes": [{
    "sceneName": "Main",
    "scenePath": "Scenes/Main.unity",
    "gameObjects": [{
      "name": "Player",
      "instanceId": 100,
      "components": [{
        "componentType": "MonoBehaviour",
        "className": "PlayerController",
        "instanceId": 101,
        "methods": [{"methodName": "Fire", "memberId": "m#1"}],
        "properties": {"speed": "4.5", "target": "ref:200"}
      }],
      "children": [{"name": "Weapon", "instanceId": 200}]
    }]
  }],
  "externalClasses": [{
    "namespaceName": "Game",
    "className": "Spawner",
    "type": "class",
    "isLifecycleType": true,
    "methods": [{"methodName": "Spawn", "memberId": "m#2", "isStatic": true}]
  }],
  "calls": [{"fromId": "m#1", "toId": "Game.Spawner.Spawn", "callKind": "method", "methodName": "Spawn"}],
  "structureRelations": [{"fromId": "Game.Spawner", "toId": "PlayerController", "relationKind": "uses"}]
}`

const yamlRecords = `
scenes:
  - sceneName: Main
    scenePath: Scenes/Main.unity
    gameObjects:
      - name: Player
        instanceId: 100
externalClasses:
  - className: Spawner
    namespaceName: Game
    type: class
calls:
  - fromId: "100"
    toId: Game.Spawner
    callKind: method
    methodName: Spawn
`

func TestLoad_JSON(t *testing.T) {
	rs, err := Load([]byte(jsonRecords), "json")
	require.NoError(t, err)

	require.Len(t, rs.Scenes, 1)
	scene := rs.Scenes[0]
	assert.Equal(t, "Main", scene.SceneName)
	require.Len(t, scene.GameObjects, 1)
	assert.Equal(t, int64(100), scene.GameObjects[0].InstanceID)
	require.Len(t, scene.GameObjects[0].Components, 1)
	assert.Equal(t, "PlayerController", scene.GameObjects[0].Components[0].ClassName)
	require.Len(t, scene.GameObjects[0].Children, 1)

	require.Len(t, rs.ExternalClasses, 1)
	assert.True(t, rs.ExternalClasses[0].IsLifecycleType)
	assert.Equal(t, "Game.Spawner", rs.ExternalClasses[0].QualifiedName())

	require.Len(t, rs.Calls, 1)
	require.Len(t, rs.StructureRelations, 1)
}

func TestLoad_YAML(t *testing.T) {
	rs, err := Load([]byte(yamlRecords), "yaml")
	require.NoError(t, err)

	require.Len(t, rs.Scenes, 1)
	assert.Equal(t, int64(100), rs.Scenes[0].GameObjects[0].InstanceID)
	require.Len(t, rs.Calls, 1)
	assert.Equal(t, "Game.Spawner", rs.Calls[0].ToID)
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load([]byte("{not json"), "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load([]byte(":\n\t- bad"), "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode yaml")
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	_, err := Load([]byte("a,b,c"), "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported record format")
}

func TestLoadFile_PicksFormatFromExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "records.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsonRecords), 0644))
	rs, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, rs.Scenes, 1)

	yamlPath := filepath.Join(dir, "records.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlRecords), 0644))
	rs, err = LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, rs.Scenes, 1)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rs      RecordSet
		wantErr string
	}{
		{"empty set is valid", RecordSet{}, ""},
		{
			"scene missing identity",
			RecordSet{Scenes: []Scene{{}}},
			"missing both name and path",
		},
		{
			"game object missing instance id",
			RecordSet{Scenes: []Scene{{
				SceneName:   "Main",
				GameObjects: []GameObject{{Name: "Player"}},
			}}},
			"missing instance id",
		},
		{
			"nested child missing instance id",
			RecordSet{Scenes: []Scene{{
				SceneName: "Main",
				GameObjects: []GameObject{{
					Name:       "Player",
					InstanceID: 100,
					Children:   []GameObject{{Name: "Weapon"}},
				}},
			}}},
			"missing instance id",
		},
		{
			"prefab root missing instance id",
			RecordSet{Prefabs: []Prefab{{
				PrefabPath: "Prefabs/Rocket.prefab",
				RootObject: GameObject{Name: "Rocket"},
			}}},
			"missing instance id",
		},
		{
			"class missing name",
			RecordSet{ExternalClasses: []ExternalClass{{Type: "class"}}},
			"missing class name",
		},
		{
			"class with bad type",
			RecordSet{ExternalClasses: []ExternalClass{{ClassName: "A", Type: "delegate"}}},
			"unknown type",
		},
		{
			"call missing endpoint",
			RecordSet{Calls: []Call{{FromID: "A"}}},
			"missing endpoint id",
		},
		{
			"relation missing kind",
			RecordSet{StructureRelations: []StructureRelation{{FromID: "A", ToID: "B"}}},
			"missing relation kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rs.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReferenceValues(t *testing.T) {
	assert.True(t, IsReference("ref:200"))
	assert.False(t, IsReference("4.5"))
	assert.False(t, IsReference("ref:"), "empty target is not a reference")

	assert.Equal(t, "200", ReferenceTarget("ref:200"))
	assert.Equal(t, "", ReferenceTarget("plain"))
}
