package jsonschema

import (
	"sort"
	"sync"
)

// KeywordDescriptor is the registry's unit of pluggable keyword behavior: a
// name, the drafts/vocabularies it participates in, the sibling keywords its
// evaluation depends on (for annotation visibility, e.g. unevaluatedProperties
// depends on properties/patternProperties/additionalProperties/allOf/anyOf/
// oneOf/if-then-else/$ref/$dynamicRef), and the factory that turns a *Schema
// carrying this keyword into a compiled KeywordConstraint.
//
// Third-party vocabularies (OpenAPI-style keywords, custom annotations) plug
// in by constructing their own KeywordDescriptor and calling Register -
// nothing in the compiler or driver is specific to the built-in keyword set.
type KeywordDescriptor struct {
	// Name is the JSON Schema keyword this descriptor compiles, e.g. "allOf".
	Name string

	// Priority breaks ties between keywords with no declared dependency
	// relationship; lower runs first. Keywords with a declared AnnotationDeps
	// edge always run after their dependency regardless of Priority.
	Priority int

	// Drafts restricts this descriptor to the named drafts (as returned by
	// Compiler.EvaluatingAs); empty means "every draft this module supports".
	Drafts []string

	// Vocabularies names the JSON Schema vocabulary URIs this keyword
	// belongs to, for documentation and future vocabulary-gating; compile
	// does not currently reject a keyword whose vocabulary isn't declared.
	Vocabularies []string

	// AnnotationDeps lists sibling keyword names that must be evaluated (and
	// have their annotations/evaluated-item bookkeeping settled) before this
	// keyword runs. Declaring a dependency on a keyword absent from a given
	// schema is harmless; Ordered simply has no edge to place.
	AnnotationDeps []string

	// Applies reports whether schema carries a value for this keyword. Most
	// descriptors check a single struct field for non-nil/non-zero.
	Applies func(s *Schema) bool

	// Compile builds the KeywordConstraint for schema's value of this
	// keyword. Compile must not inspect the instance being validated; it
	// runs once per compiled schema node, independent of any instance. A nil
	// Compile is only valid for a descriptor that exists purely to record
	// AnnotationDeps ordering; every built-in descriptor sets one.
	Compile func(s *Schema, cc *CompileContext) (*KeywordConstraint, error)

	order int // registration sequence, used as the final tie-break
}

// KeywordRegistry maps keyword names to their descriptors and produces the
// draft-aware, dependency-respecting evaluation order the Constraint Compiler
// walks. A zero-value KeywordRegistry is not usable; build one with
// NewKeywordRegistry.
type KeywordRegistry struct {
	mu    sync.RWMutex
	descs map[string]*KeywordDescriptor
	seq   int
}

// NewKeywordRegistry returns an empty registry.
func NewKeywordRegistry() *KeywordRegistry {
	return &KeywordRegistry{descs: make(map[string]*KeywordDescriptor)}
}

// Register adds or replaces the descriptor for d.Name. Re-registering a name
// is how a caller overrides a built-in keyword's compile factory.
func (r *KeywordRegistry) Register(d KeywordDescriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	d.order = r.seq
	r.descs[d.Name] = &d
}

// Lookup returns the descriptor registered for name, if any.
func (r *KeywordRegistry) Lookup(name string) (*KeywordDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descs[name]
	return d, ok
}

// Names returns every registered keyword name, for strict-mode unknown-
// keyword detection.
func (r *KeywordRegistry) Names() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]struct{}, len(r.descs))
	for name := range r.descs {
		out[name] = struct{}{}
	}
	return out
}

// Clone returns a registry carrying the same descriptors as r, independent
// of further registrations on either copy. Compilers start from a clone of
// the package default registry so that RegisterKeyword on one *Compiler
// never leaks a custom vocabulary into another.
func (r *KeywordRegistry) Clone() *KeywordRegistry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := NewKeywordRegistry()
	out.seq = r.seq
	for name, d := range r.descs {
		cp := *d
		out.descs[name] = &cp
	}
	return out
}

func (d *KeywordDescriptor) appliesToDraft(draft string) bool {
	if len(d.Drafts) == 0 || draft == "" {
		return true
	}
	for _, dr := range d.Drafts {
		if dr == draft {
			return true
		}
	}
	return false
}

// Ordered returns, for the keywords schema actually carries (per each
// descriptor's Applies) and that participate in draft, the evaluation order:
// a topological sort over AnnotationDeps edges, with ties broken first by
// ascending Priority and then by registration (source) order. A cycle in the
// declared dependency graph fails fast with ErrRegistryCycle, wrapped in a
// SchemaError naming the schema's location.
func (r *KeywordRegistry) Ordered(schema *Schema, draft, location string) ([]*KeywordDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	present := make(map[string]*KeywordDescriptor)
	for name, d := range r.descs {
		if !d.appliesToDraft(draft) {
			continue
		}
		if d.Applies != nil && d.Applies(schema) {
			present[name] = d
		}
	}

	// indegree[k] counts dependency edges dep->k for deps that are themselves present.
	indegree := make(map[string]int, len(present))
	dependents := make(map[string][]string, len(present))
	for name, d := range present {
		for _, dep := range d.AnnotationDeps {
			if _, ok := present[dep]; ok {
				indegree[name]++
				dependents[dep] = append(dependents[dep], name)
			}
		}
	}

	ready := make([]*KeywordDescriptor, 0, len(present))
	for name, d := range present {
		if indegree[name] == 0 {
			ready = append(ready, d)
		}
	}

	byPriorityThenOrder := func(a, b *KeywordDescriptor) bool {
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.order < b.order
	}

	result := make([]*KeywordDescriptor, 0, len(present))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return byPriorityThenOrder(ready[i], ready[j]) })
		next := ready[0]
		ready = ready[1:]
		result = append(result, next)

		for _, depName := range dependents[next.Name] {
			indegree[depName]--
			if indegree[depName] == 0 {
				ready = append(ready, present[depName])
			}
		}
	}

	if len(result) != len(present) {
		return nil, NewSchemaError("RegistryCycle", location, "", ErrRegistryCycle)
	}
	return result, nil
}
