package jsonschema

import (
	"context"
	"sync"
)

// CompileContext carries the information the Constraint Compiler and
// Evaluation Driver need but that isn't reachable from a *Schema alone: which
// draft/registry to compile against, the per-node compilation cache, and the
// evaluation-time knobs (cancellation, ref-depth limit) a Compiler exposes.
type CompileContext struct {
	Registry          *KeywordRegistry
	Draft             string
	CancellationToken context.Context
	MaxRefDepth        int

	mu    sync.Mutex
	cache map[*Schema]*SchemaConstraint
}

// NewCompileContext builds a CompileContext over registry for the named
// draft. draft may be empty to mean "whatever each descriptor allows".
func NewCompileContext(registry *KeywordRegistry, draft string) *CompileContext {
	return &CompileContext{Registry: registry, Draft: draft, MaxRefDepth: DefaultMaxRefDepth, cache: make(map[*Schema]*SchemaConstraint)}
}

// Cancelled reports whether cc carries a cancellation token that has already
// fired.
func (cc *CompileContext) Cancelled() bool {
	if cc == nil || cc.CancellationToken == nil {
		return false
	}
	select {
	case <-cc.CancellationToken.Done():
		return true
	default:
		return false
	}
}

// KeywordConstraint is the compiled, instance-independent form of a single
// keyword on a single schema node: its evaluator closure (bound to the
// owning schema and, for applicators, to its already-compiled child
// SchemaConstraints), its declared sibling-annotation dependencies, and -
// for keywords that apply a child schema to a computed subset of the
// instance rather than to the whole instance in place - the instance-locator
// closure that computes that subset at drive time.
type KeywordConstraint struct {
	// Name is the keyword this constraint evaluates, copied from the
	// KeywordDescriptor that built it.
	Name string

	// SiblingDeps mirrors the descriptor's AnnotationDeps: the sibling
	// keyword names this constraint's Evaluate assumes have already run
	// against the same instance. Recorded on the compiled constraint (not
	// just the descriptor) so introspection/debugging can walk a compiled
	// SchemaConstraint without going back through the registry.
	SiblingDeps []string

	// Children holds the compiled SchemaConstraints for this keyword's
	// statically-known subschemas (e.g. allOf's branches, $ref's target).
	// It is nil for keywords whose children are resolved per-instance-key
	// rather than as a fixed list (object/array property and item schemas)
	// or per-dynamic-scope ($dynamicRef, $recursiveRef) - see Locator and
	// the per-descriptor comments in builtin_keywords.go for why.
	Children []*SchemaConstraint

	// Locator, when non-nil, computes the sub-instance pointers (JSON
	// Pointer reference tokens relative to the current instance) that a
	// child constraint should be driven against, given the instance and the
	// annotations sibling keywords have produced so far. additionalProperties
	// and unevaluated{Properties,Items} are the built-in examples: they
	// apply a child schema to "every key/index not already covered", a set
	// that can only be computed after sibling annotations are in.
	Locator func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool) []string

	// Evaluate runs this keyword against instance, folding annotations into
	// evaluatedProps/evaluatedItems and errors/details into result. It is a
	// closure over the owning *Schema and any Children built at Compile
	// time; Drive (evaluate.go) only decides when to call it.
	Evaluate func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult)
}

// SchemaConstraint is the compiled form of a single schema node: the ordered
// list of keyword constraints it carries, precomputed once and reused across
// every instance validated against that node. Compilation never touches an
// instance; only Drive (evaluate.go) does.
type SchemaConstraint struct {
	Schema *Schema
	Order  []*KeywordConstraint
}

// CompileSchema returns the SchemaConstraint for s, building and memoizing it
// on first use. Memoization is keyed by schema pointer identity: the same
// compiled *Schema node always yields the same keyword ordering regardless of
// the dynamic scope it's reached through, since only $dynamicRef/$recursiveRef
// resolution targets vary with dynamic scope, and those are resolved at drive
// time.
//
// A placeholder SchemaConstraint is cached before descriptors are compiled so
// that a keyword whose Compile recursively calls CompileSchema on a schema
// already being compiled (a directly or indirectly self-referential $ref)
// observes the same *SchemaConstraint pointer instead of recursing forever;
// its Order field is filled in once the outer call finishes building it.
func CompileSchema(s *Schema, cc *CompileContext) (*SchemaConstraint, error) {
	cc.mu.Lock()
	if sc, ok := cc.cache[s]; ok {
		cc.mu.Unlock()
		return sc, nil
	}
	sc := &SchemaConstraint{Schema: s}
	cc.cache[s] = sc
	cc.mu.Unlock()

	descriptors, err := cc.Registry.Ordered(s, cc.Draft, s.GetSchemaLocation(""))
	if err != nil {
		return nil, err
	}

	order := make([]*KeywordConstraint, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Compile == nil {
			continue
		}
		kw, err := d.Compile(s, cc)
		if err != nil {
			return nil, err
		}
		if kw == nil {
			continue
		}
		if kw.Name == "" {
			kw.Name = d.Name
		}
		if kw.SiblingDeps == nil {
			kw.SiblingDeps = d.AnnotationDeps
		}
		order = append(order, kw)
	}

	cc.mu.Lock()
	sc.Order = order
	cc.mu.Unlock()

	return sc, nil
}
