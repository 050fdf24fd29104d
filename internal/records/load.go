package records

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load deserializes a RecordSet from JSON or YAML data. format is a file
// extension ("json", "yaml", "yml"); anything else is rejected. A malformed
// document is a single terminal error for the load — the caller keeps its
// previously built graph.
func Load(data []byte, format string) (*RecordSet, error) {
	var rs RecordSet
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		if err := json.Unmarshal(data, &rs); err != nil {
			return nil, fmt.Errorf("decode json records: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &rs); err != nil {
			return nil, fmt.Errorf("decode yaml records: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported record format %q", format)
	}
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("validate records: %w", err)
	}
	return &rs, nil
}

// LoadFile reads and deserializes a record file, picking the format from the
// file extension.
func LoadFile(path string) (*RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Validate rejects record sets the builder cannot consume. It checks only
// structural requirements; unresolvable identities are a non-fatal build
// concern, not a validation error.
func (rs *RecordSet) Validate() error {
	for i, s := range rs.Scenes {
		if s.SceneName == "" && s.ScenePath == "" {
			return fmt.Errorf("scene %d: missing both name and path", i)
		}
		for _, o := range s.GameObjects {
			if err := validateObject(o); err != nil {
				return fmt.Errorf("scene %d: %w", i, err)
			}
		}
	}
	for i, p := range rs.Prefabs {
		if err := validateObject(p.RootObject); err != nil {
			return fmt.Errorf("prefab %d: %w", i, err)
		}
	}
	for i, c := range rs.ExternalClasses {
		if c.ClassName == "" {
			return fmt.Errorf("external class %d: missing class name", i)
		}
		switch c.Type {
		case "", "class", "interface", "struct", "enum":
		default:
			return fmt.Errorf("external class %d (%s): unknown type %q", i, c.ClassName, c.Type)
		}
	}
	for i, c := range rs.Calls {
		if c.FromID == "" || c.ToID == "" {
			return fmt.Errorf("call %d: missing endpoint id", i)
		}
	}
	for i, r := range rs.StructureRelations {
		if r.FromID == "" || r.ToID == "" {
			return fmt.Errorf("structure relation %d: missing endpoint id", i)
		}
		if r.RelationKind == "" {
			return fmt.Errorf("structure relation %d: missing relation kind", i)
		}
	}
	return nil
}

// validateObject checks an object subtree. Instance ids key game object
// nodes, so a zero id would silently merge distinct objects.
func validateObject(o GameObject) error {
	if o.InstanceID == 0 {
		return fmt.Errorf("game object %q: missing instance id", o.Name)
	}
	for _, c := range o.Children {
		if err := validateObject(c); err != nil {
			return err
		}
	}
	return nil
}
