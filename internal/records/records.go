// Package records defines the input record model consumed by the graph
// builder. Records are produced by external extractors (scene scanners,
// source analyzers) and delivered as a single deserialized RecordSet; this
// package owns only the shape and the JSON/YAML deserialization, never the
// extraction itself.
package records

// RecordSet is the complete input for one graph build. Every build consumes
// a whole RecordSet; there is no partial or incremental form.
type RecordSet struct {
	Scenes             []Scene             `json:"scenes" yaml:"scenes"`
	ExternalClasses    []ExternalClass     `json:"externalClasses" yaml:"externalClasses"`
	Calls              []Call              `json:"calls" yaml:"calls"`
	StructureRelations []StructureRelation `json:"structureRelations" yaml:"structureRelations"`
	Prefabs            []Prefab            `json:"prefabs" yaml:"prefabs"`
}

// Scene is a named hierarchy of game objects.
type Scene struct {
	SceneName   string       `json:"sceneName" yaml:"sceneName"`
	ScenePath   string       `json:"scenePath" yaml:"scenePath"`
	GameObjects []GameObject `json:"gameObjects" yaml:"gameObjects"`
}

// Prefab is a reusable object tree identified by its asset path.
type Prefab struct {
	PrefabPath string     `json:"prefabPath" yaml:"prefabPath"`
	RootObject GameObject `json:"rootObject" yaml:"rootObject"`
}

// GameObject is one node of a scene or prefab tree. InstanceID is a runtime
// instance id, unique within one extraction pass.
type GameObject struct {
	Name       string       `json:"name" yaml:"name"`
	InstanceID int64        `json:"instanceId" yaml:"instanceId"`
	Components []Component  `json:"components" yaml:"components"`
	Children   []GameObject `json:"children" yaml:"children"`
}

// Component is a behavior attached to a game object. Properties map property
// names to either scalar values or reference strings (see IsReference).
type Component struct {
	ComponentType string            `json:"componentType" yaml:"componentType"`
	ClassName     string            `json:"className" yaml:"className"`
	InstanceID    int64             `json:"instanceId" yaml:"instanceId"`
	Methods       []Method          `json:"methods" yaml:"methods"`
	Properties    map[string]string `json:"properties" yaml:"properties"`
}

// Method is a declared method with its synthetic member id. Member ids are
// assigned by the extractor and are unique per build; the resolver maps them
// back to their owning type.
type Method struct {
	MethodName string `json:"methodName" yaml:"methodName"`
	MethodType string `json:"methodType" yaml:"methodType"`
	IsStatic   bool   `json:"isStatic" yaml:"isStatic"`
	MemberID   string `json:"memberId" yaml:"memberId"`
}

// ExternalClass is a code type declared outside any scene: a class,
// interface, struct, or enum discovered by source analysis.
type ExternalClass struct {
	NamespaceName   string   `json:"namespaceName" yaml:"namespaceName"`
	ClassName       string   `json:"className" yaml:"className"`
	Type            string   `json:"type" yaml:"type"` // "class", "interface", "struct", "enum"
	IsLifecycleType bool     `json:"isLifecycleType" yaml:"isLifecycleType"`
	Methods         []Method `json:"methods" yaml:"methods"`
	Events          []string `json:"events" yaml:"events"`
}

// Call is a call-site record between two identities. Exactly one of
// MethodName or FieldName is usually set; both may be empty for opaque calls.
type Call struct {
	FromID      string `json:"fromId" yaml:"fromId"`
	ToID        string `json:"toId" yaml:"toId"`
	CallKind    string `json:"callKind" yaml:"callKind"` // "method", "field", "event"
	LibraryName string `json:"libraryName" yaml:"libraryName"`
	MethodName  string `json:"methodName" yaml:"methodName"`
	FieldName   string `json:"fieldName" yaml:"fieldName"`
}

// StructureRelation is a non-call relationship between two identities.
type StructureRelation struct {
	FromID       string `json:"fromId" yaml:"fromId"`
	ToID         string `json:"toId" yaml:"toId"`
	RelationKind string `json:"relationKind" yaml:"relationKind"`
}

// Structure relation kinds.
const (
	RelationInherits     = "inherits"
	RelationImplements   = "implements"
	RelationUses         = "uses"
	RelationContains     = "contains"
	RelationChildOf      = "child_of"
	RelationHasComponent = "has_component"
)

// QualifiedName returns the namespace-qualified name of the class, or the
// bare class name when no namespace was recorded.
func (c ExternalClass) QualifiedName() string {
	if c.NamespaceName == "" {
		return c.ClassName
	}
	return c.NamespaceName + "." + c.ClassName
}

// refPrefix marks a property value as a reference to another runtime
// instance rather than a scalar.
const refPrefix = "ref:"

// IsReference reports whether a property value is a reference string.
func IsReference(value string) bool {
	return len(value) > len(refPrefix) && value[:len(refPrefix)] == refPrefix
}

// ReferenceTarget returns the raw identity a reference value points at.
// Returns "" for non-reference values.
func ReferenceTarget(value string) string {
	if !IsReference(value) {
		return ""
	}
	return value[len(refPrefix):]
}
