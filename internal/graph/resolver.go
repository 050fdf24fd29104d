package graph

import (
	"regexp"
	"strings"
)

// globalPrefix is the literal global-scope qualifier some extractors emit on
// fully qualified names.
const globalPrefix = "global::"

// memberIDPattern matches synthetic member ids assigned by the extractor
// ("m#" followed by a per-build sequence number).
var memberIDPattern = regexp.MustCompile(`^m#\d+$`)

// defaultBuiltinTypes are scalar type names that never produce nodes.
var defaultBuiltinTypes = []string{
	"void", "bool", "byte", "char", "short", "int", "long",
	"float", "double", "decimal", "string", "object",
}

// defaultBlockedNamespaces are framework and system roots whose members
// never produce nodes of their own.
var defaultBlockedNamespaces = []string{
	"System", "UnityEngine", "UnityEditor", "Microsoft", "Mono",
}

// defaultSignificantCalls are framework entry points that stay visible as
// call targets despite living in blocked namespaces: object instantiation,
// scene loading, resource loading.
var defaultSignificantCalls = []string{
	"Instantiate", "Destroy", "LoadScene", "LoadSceneAsync", "Load", "LoadAsync",
}

// Resolver normalizes raw identities from input records into canonical node
// keys and resolves edge endpoints against the registry.
type Resolver struct {
	registry    *Registry
	memberIndex map[string]string // synthetic member id -> owning-type key

	builtinTypes      map[string]bool
	blockedNamespaces map[string]bool
	significantCalls  map[string]bool
}

// NewResolver returns a resolver bound to a registry, with the default
// filter table. extraBuiltins, extraNamespaces and extraSignificant extend
// the defaults (from configuration).
func NewResolver(registry *Registry, extraBuiltins, extraNamespaces, extraSignificant []string) *Resolver {
	r := &Resolver{
		registry:          registry,
		memberIndex:       make(map[string]string),
		builtinTypes:      make(map[string]bool),
		blockedNamespaces: make(map[string]bool),
		significantCalls:  make(map[string]bool),
	}
	for _, t := range defaultBuiltinTypes {
		r.builtinTypes[t] = true
	}
	for _, t := range extraBuiltins {
		r.builtinTypes[t] = true
	}
	for _, ns := range defaultBlockedNamespaces {
		r.blockedNamespaces[ns] = true
	}
	for _, ns := range extraNamespaces {
		r.blockedNamespaces[ns] = true
	}
	for _, c := range defaultSignificantCalls {
		r.significantCalls[c] = true
	}
	for _, c := range extraSignificant {
		r.significantCalls[c] = true
	}
	return r
}

// IndexMember records a synthetic member id as belonging to ownerKey. Built
// once per load from every declared method; first write wins, matching
// registry semantics.
func (r *Resolver) IndexMember(memberID, ownerKey string) {
	if memberID == "" {
		return
	}
	if _, ok := r.memberIndex[memberID]; ok {
		return
	}
	r.memberIndex[memberID] = ownerKey
}

// Clear drops the member index. Called at the start of each build.
func (r *Resolver) Clear() {
	r.memberIndex = make(map[string]string)
}

// isNumeric reports whether s is a non-empty string of decimal digits, i.e.
// a runtime instance id.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// normalize strips the global-scope prefix.
func normalize(raw string) string {
	return strings.TrimPrefix(raw, globalPrefix)
}

// simplify drops the trailing ".member" segment of a member-qualified name,
// producing a type-level key. Names without a dot pass through.
func simplify(id string) string {
	if i := strings.LastIndexByte(id, '.'); i > 0 {
		return id[:i]
	}
	return id
}

// Resolve maps a raw identity to its canonical key without consulting the
// registry: member ids resolve to their owning type, numeric ids pass
// through as runtime instance ids, and member-qualified names simplify to
// their type-level key.
func (r *Resolver) Resolve(rawID string) string {
	id := normalize(rawID)
	if memberIDPattern.MatchString(id) {
		if owner, ok := r.memberIndex[id]; ok {
			return owner
		}
	}
	if isNumeric(id) {
		return id
	}
	return simplify(id)
}

// ResolveEndpoint resolves a raw identity to a registered node. Lookup
// order: exact key, normalized key, resolved (simplified) key, then suffix
// fallback. The fallback scans registered keys in insertion order and takes
// the first key where either string is a suffix of the other; it tolerates
// partial-vs-fully-qualified mismatches between record sources. Ties resolve
// by insertion order — kept from the source behavior rather than upgraded
// to a longest-suffix rule.
func (r *Resolver) ResolveEndpoint(rawID string) *Node {
	if n := r.registry.Lookup(rawID); n != nil {
		return n
	}
	id := normalize(rawID)
	if n := r.registry.Lookup(id); n != nil {
		return n
	}
	resolved := r.Resolve(rawID)
	if n := r.registry.Lookup(resolved); n != nil {
		return n
	}
	if isNumeric(resolved) {
		// Instance ids are exact; a suffix scan over them is meaningless.
		return nil
	}
	for _, key := range r.registry.Keys() {
		if strings.HasSuffix(key, resolved) || strings.HasSuffix(resolved, key) {
			return r.registry.Lookup(key)
		}
	}
	return nil
}

// Blocked reports whether a raw identity names a built-in scalar type or
// lives under a blocked framework/system namespace, and therefore must not
// produce a node. Structurally significant call targets are exempt.
func (r *Resolver) Blocked(rawID string) bool {
	id := simplify(normalize(rawID))
	if r.builtinTypes[id] {
		return true
	}
	member := normalize(rawID)
	if i := strings.LastIndexByte(member, '.'); i >= 0 {
		if r.significantCalls[member[i+1:]] {
			return false
		}
	}
	root := id
	if i := strings.IndexByte(root, '.'); i > 0 {
		root = root[:i]
	}
	return r.blockedNamespaces[root]
}

// IsExternalReference reports whether an unresolved identity looks like a
// reference into an external library: namespace-qualified, not numeric, and
// not blocked by the filter table.
func (r *Resolver) IsExternalReference(rawID string) bool {
	id := normalize(rawID)
	if isNumeric(id) || !strings.Contains(id, ".") {
		return false
	}
	return !r.Blocked(rawID)
}
