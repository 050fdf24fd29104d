package graph

import (
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/jward/scenemap/internal/records"
)

// Builder runs one full graph build pass over a record set. Registry,
// resolver and aggregator state are cleared atomically at the start of each
// pass; a Graph is only ever observed fully built.
type Builder struct {
	registry   *Registry
	resolver   *Resolver
	aggregator *Aggregator
	logger     *zap.Logger

	// pendingRefs defers reference-valued property edges until every node
	// from the record set has been registered.
	pendingRefs []propertyRef
}

type propertyRef struct {
	componentKey string
	targetID     string
	property     string
}

// NewBuilder returns a builder with the default filter table extended by the
// given config lists. logger may be nil.
func NewBuilder(extraBuiltins, extraNamespaces, extraSignificant []string, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := NewRegistry()
	resolver := NewResolver(registry, extraBuiltins, extraNamespaces, extraSignificant)
	return &Builder{
		registry:   registry,
		resolver:   resolver,
		aggregator: NewAggregator(registry, resolver, logger),
		logger:     logger,
	}
}

// Build constructs the graph for a record set. The previous build's state is
// cleared first; no node or edge survives into the new graph.
func (b *Builder) Build(rs *records.RecordSet) *Graph {
	b.registry.Clear()
	b.resolver.Clear()
	b.aggregator.Clear()
	b.pendingRefs = nil

	// Registration pass: scenes, prefabs, and code types. Containment edges
	// are synthesized inline — both endpoints are registered by the time the
	// relation is added. Member ids are indexed as declarations are seen.
	for _, class := range rs.ExternalClasses {
		b.registerClass(class)
	}
	for _, scene := range rs.Scenes {
		b.registerScene(scene)
	}
	for _, prefab := range rs.Prefabs {
		b.registerPrefab(prefab)
	}

	// Relation pass: everything resolvable is now registered.
	for _, call := range rs.Calls {
		b.aggregator.AddCall(call)
	}
	for _, rel := range rs.StructureRelations {
		b.aggregator.AddRelation(rel)
	}
	for _, ref := range b.pendingRefs {
		b.aggregator.AddPropertyReference(ref.componentKey, ref.targetID, ref.property)
	}

	g := &Graph{registry: b.registry, aggregator: b.aggregator}
	b.logger.Info("graph built",
		zap.Int("nodes", b.registry.Len()),
		zap.Int("edges", len(b.aggregator.Edges())),
		zap.Int("dropped", b.aggregator.Dropped()),
	)
	return g
}

// classKind maps an external class type to its node kind.
func classKind(t string) NodeKind {
	switch t {
	case "interface":
		return KindInterface
	case "struct":
		return KindStruct
	case "enum":
		return KindEnum
	default:
		return KindClass
	}
}

func (b *Builder) registerClass(class records.ExternalClass) {
	qualified := class.QualifiedName()
	node := b.registry.Register(qualified, &Node{
		Key:         qualified,
		Kind:        classKind(class.Type),
		DisplayName: class.ClassName,
		MethodCount: len(class.Methods),
		Lifecycle:   class.IsLifecycleType,
	})
	if class.NamespaceName != "" {
		b.registry.Alias(class.ClassName, node)
	}
	for _, m := range class.Methods {
		b.resolver.IndexMember(m.MemberID, qualified)
	}
}

func (b *Builder) registerScene(scene records.Scene) {
	key := scene.ScenePath
	if key == "" {
		key = scene.SceneName
	}
	name := scene.SceneName
	if name == "" {
		name = scene.ScenePath
	}
	node := b.registry.Register(key, &Node{
		Key:         key,
		Kind:        KindScene,
		DisplayName: name,
	})
	if scene.SceneName != "" && scene.SceneName != key {
		b.registry.Alias(scene.SceneName, node)
	}
	for _, obj := range scene.GameObjects {
		b.registerObject(obj, key, records.RelationContains)
	}
}

// registerPrefab registers a prefab root as a scene-kind node; the tree
// beneath it is walked exactly like a scene's.
func (b *Builder) registerPrefab(prefab records.Prefab) {
	b.registry.Register(prefab.PrefabPath, &Node{
		Key:         prefab.PrefabPath,
		Kind:        KindScene,
		DisplayName: prefab.PrefabPath,
	})
	b.registerObject(prefab.RootObject, prefab.PrefabPath, records.RelationContains)
}

// registerObject registers an object subtree. parentKey receives one
// containment relation per direct child: contains for roots under a scene,
// child_of from nested children back to their parent.
func (b *Builder) registerObject(obj records.GameObject, parentKey, relation string) {
	key := strconv.FormatInt(obj.InstanceID, 10)
	b.registry.Register(key, &Node{
		Key:         key,
		Kind:        KindObject,
		DisplayName: obj.Name,
	})

	switch relation {
	case records.RelationChildOf:
		b.aggregator.AddRelation(records.StructureRelation{
			FromID: key, ToID: parentKey, RelationKind: records.RelationChildOf,
		})
	default:
		b.aggregator.AddRelation(records.StructureRelation{
			FromID: parentKey, ToID: key, RelationKind: records.RelationContains,
		})
	}

	for _, comp := range obj.Components {
		b.registerComponent(comp, key)
	}
	for _, child := range obj.Children {
		b.registerObject(child, key, records.RelationChildOf)
	}
}

// componentKey picks the canonical key for a component: the class name when
// known, falling back to the component type.
func componentKey(c records.Component) string {
	if c.ClassName != "" {
		return c.ClassName
	}
	return c.ComponentType
}

func (b *Builder) registerComponent(c records.Component, ownerKey string) {
	key := componentKey(c)
	node := b.registry.Register(key, &Node{
		Key:         key,
		Kind:        KindComponent,
		DisplayName: key,
		MethodCount: len(c.Methods),
	})

	// The component's class may already be registered from the external
	// class declarations, in which case Register returned that node and its
	// canonical key is the qualified name. Everything below keys off the
	// canonical instance, never the bare name.
	canonical := node.Key

	// Multi-keying: the same component node is reachable by class name,
	// component type, and runtime instance id.
	if c.ComponentType != "" && c.ComponentType != canonical {
		b.registry.Alias(c.ComponentType, node)
	}
	if c.InstanceID != 0 {
		b.registry.Alias(strconv.FormatInt(c.InstanceID, 10), node)
	}

	b.aggregator.AddRelation(records.StructureRelation{
		FromID: ownerKey, ToID: canonical, RelationKind: records.RelationHasComponent,
	})

	for _, m := range c.Methods {
		b.resolver.IndexMember(m.MemberID, canonical)
	}

	// Properties iterate in sorted name order so constant node registration
	// order is deterministic.
	names := make([]string, 0, len(c.Properties))
	for name := range c.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := c.Properties[name]
		if records.IsReference(value) {
			b.pendingRefs = append(b.pendingRefs, propertyRef{
				componentKey: canonical,
				targetID:     records.ReferenceTarget(value),
				property:     name,
			})
			continue
		}
		constKey := canonical + "." + name
		b.registry.Register(constKey, &Node{
			Key:         constKey,
			Kind:        KindConstant,
			DisplayName: fmt.Sprintf("%s = %s", name, value),
			OwnerKey:    canonical,
		})
	}
}
