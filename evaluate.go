package jsonschema

// Bind resolves the compiler a schema should evaluate against: the
// compiler's own registry/draft if one was set on the schema's root, or the
// package default otherwise. It is the Evaluation Driver's entry point,
// called once per Schema.Validate.
func (s *Schema) Bind() *CompileContext {
	compiler := s.GetCompiler()
	if compiler != nil && compiler.compileContext != nil {
		return compiler.compileContext
	}
	return defaultCompileContext
}

// Drive walks sc's compiled keyword constraints, in their precomputed
// topological-then-priority order, against instance. Each constraint already
// knows how to evaluate itself (builtin_keywords.go's Compile closures); in
// keeping with spec step 1 of the driver algorithm, Drive only enforces that
// a constraint's declared sibling dependencies have run first - which the
// compile-time order already guarantees, so this is a cheap assertion rather
// than a second sort - and then calls Evaluate and folds nothing itself: each
// Evaluate closure writes directly into evaluatedProps/evaluatedItems/result.
func Drive(sc *SchemaConstraint, instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
	done := make(map[string]bool, len(sc.Order))

	for _, kw := range sc.Order {
		for _, dep := range kw.SiblingDeps {
			if !done[dep] {
				if depKw := findConstraint(sc.Order, dep); depKw != nil && !done[depKw.Name] {
					depKw.Evaluate(instance, evaluatedProps, evaluatedItems, dynamicScope, result)
					done[depKw.Name] = true
				}
			}
		}

		if done[kw.Name] {
			continue
		}
		kw.Evaluate(instance, evaluatedProps, evaluatedItems, dynamicScope, result)
		done[kw.Name] = true
	}
}

// findConstraint looks up a sibling constraint by name within the same
// compiled order. Present only to back Drive's forward-reference guard; the
// registry's topological sort already makes this a no-op in practice.
func findConstraint(order []*KeywordConstraint, name string) *KeywordConstraint {
	for _, kw := range order {
		if kw.Name == name {
			return kw
		}
	}
	return nil
}
