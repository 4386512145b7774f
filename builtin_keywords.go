package jsonschema

import "strconv"

// defaultKeywordRegistry is the registry every *Compiler starts from. It
// describes the same keyword groupings validate.go has always evaluated, now
// expressed as KeywordDescriptors so Ordered can compute evaluation order
// from declared sibling-annotation dependencies instead of a hardcoded
// if-chain, and so a caller can register additional vocabularies alongside
// the built-in ones. Each descriptor's Compile closure is where a keyword's
// evaluator, and - for applicators - its compiled child SchemaConstraints and
// instance-locator, actually get built; CompileSchema (constraint.go) invokes
// Compile once per schema node, and Drive (evaluate.go) only calls the
// resulting KeywordConstraint.Evaluate.
//
// Applies/AnnotationDeps mirror the existing grouping in validate.go: several
// descriptors here (object, numeric, string, array) bundle multiple JSON
// Schema keywords evaluated together in one pass, because they share a
// single type-assertion on the instance. Those bundles don't get a Children
// list: their subschemas are keyed per-property or per-index rather than
// forming one fixed list, and are compiled lazily (each *Schema.evaluate call
// already drives its own CompileSchema), so Children stays nil for them by
// design rather than by omission.
var defaultKeywordRegistry = newDefaultKeywordRegistry()

func newDefaultKeywordRegistry() *KeywordRegistry {
	r := NewKeywordRegistry()

	r.Register(KeywordDescriptor{
		Name: "$ref",
		Applies: func(s *Schema) bool {
			return s.ResolvedRef != nil
		},
		Compile: compileRef,
	})
	r.Register(KeywordDescriptor{
		Name: "$dynamicRef",
		Applies: func(s *Schema) bool {
			return s.ResolvedDynamicRef != nil
		},
		Compile: compileDynamicRef,
	})
	r.Register(KeywordDescriptor{
		Name: "$recursiveRef",
		Applies: func(s *Schema) bool {
			return s.ResolvedRecursiveRef != nil
		},
		Compile: compileRecursiveRef,
	})
	r.Register(KeywordDescriptor{
		Name:    "type",
		Applies: func(s *Schema) bool { return s.Type != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			return &KeywordConstraint{
				Evaluate: func(instance interface{}, _ map[string]bool, _ map[int]bool, _ *DynamicScope, result *EvaluationResult) {
					if err := evaluateType(s, instance); err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "enum",
		Applies: func(s *Schema) bool { return s.Enum != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			return &KeywordConstraint{
				Evaluate: func(instance interface{}, _ map[string]bool, _ map[int]bool, _ *DynamicScope, result *EvaluationResult) {
					if err := evaluateEnum(s, instance); err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "const",
		Applies: func(s *Schema) bool { return s.Const != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			return &KeywordConstraint{
				Evaluate: func(instance interface{}, _ map[string]bool, _ map[int]bool, _ *DynamicScope, result *EvaluationResult) {
					if err := evaluateConst(s, instance); err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "allOf",
		Applies: func(s *Schema) bool { return s.AllOf != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			children := compileChildren(s.AllOf, cc)
			return &KeywordConstraint{
				Children: children,
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					results, err := evaluateAllOf(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					for _, r := range results {
						//nolint:errcheck
						result.AddDetail(r)
					}
					if err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "anyOf",
		Applies: func(s *Schema) bool { return s.AnyOf != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			children := compileChildren(s.AnyOf, cc)
			return &KeywordConstraint{
				Children: children,
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					results, err := evaluateAnyOf(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					for _, r := range results {
						//nolint:errcheck
						result.AddDetail(r)
					}
					if err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "oneOf",
		Applies: func(s *Schema) bool { return s.OneOf != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			children := compileChildren(s.OneOf, cc)
			return &KeywordConstraint{
				Children: children,
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					results, err := evaluateOneOf(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					for _, r := range results {
						//nolint:errcheck
						result.AddDetail(r)
					}
					if err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "not",
		Applies: func(s *Schema) bool { return s.Not != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			children := compileChildren([]*Schema{s.Not}, cc)
			return &KeywordConstraint{
				Children: children,
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					notResult, err := evaluateNot(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					if notResult != nil {
						//nolint:errcheck
						result.AddDetail(notResult)
					}
					if err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name: "conditional",
		Applies: func(s *Schema) bool {
			return s.If != nil || s.Then != nil || s.Else != nil
		},
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			children := compileChildren([]*Schema{s.If, s.Then, s.Else}, cc)
			return &KeywordConstraint{
				Children: children,
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					results, err := evaluateConditional(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					for _, r := range results {
						//nolint:errcheck
						result.AddDetail(r)
					}
					if err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name: "array",
		Applies: func(s *Schema) bool {
			return len(s.PrefixItems) > 0 ||
				s.Items != nil ||
				s.Contains != nil ||
				s.MaxContains != nil ||
				s.MinContains != nil ||
				s.MaxItems != nil ||
				s.MinItems != nil ||
				s.UniqueItems != nil
		},
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			return &KeywordConstraint{
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					results, errs := evaluateArray(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					for _, r := range results {
						//nolint:errcheck
						result.AddDetail(r)
					}
					for _, e := range errs {
						//nolint:errcheck
						result.AddError(e)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name: "numeric",
		Applies: func(s *Schema) bool {
			return s.MultipleOf != nil || s.Maximum != nil || s.ExclusiveMaximum != nil ||
				s.Minimum != nil || s.ExclusiveMinimum != nil
		},
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			return &KeywordConstraint{
				Evaluate: func(instance interface{}, _ map[string]bool, _ map[int]bool, _ *DynamicScope, result *EvaluationResult) {
					for _, e := range evaluateNumeric(s, instance) {
						//nolint:errcheck
						result.AddError(e)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name: "string",
		Applies: func(s *Schema) bool {
			return s.MaxLength != nil || s.MinLength != nil || s.Pattern != nil
		},
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			return &KeywordConstraint{
				Evaluate: func(instance interface{}, _ map[string]bool, _ map[int]bool, _ *DynamicScope, result *EvaluationResult) {
					for _, e := range evaluateString(s, instance) {
						//nolint:errcheck
						result.AddError(e)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "format",
		Applies: func(s *Schema) bool { return s.Format != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			return &KeywordConstraint{
				Evaluate: func(instance interface{}, _ map[string]bool, _ map[int]bool, _ *DynamicScope, result *EvaluationResult) {
					if err := evaluateFormat(s, instance); err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name: "object",
		Applies: func(s *Schema) bool {
			return s.Properties != nil ||
				s.PatternProperties != nil ||
				s.AdditionalProperties != nil ||
				s.PropertyNames != nil ||
				s.MaxProperties != nil ||
				s.MinProperties != nil ||
				len(s.Required) > 0 ||
				len(s.DependentRequired) > 0
		},
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			return &KeywordConstraint{
				// additionalProperties' real target set - object keys not
				// covered by properties/patternProperties - depends on
				// evaluatedProps, which is only settled at drive time;
				// evaluateObject already recomputes it inline, so Locator
				// here documents the rule rather than driving it a second
				// time.
				Locator: func(instance interface{}, evaluatedProps map[string]bool, _ map[int]bool) []string {
					obj, ok := instance.(map[string]interface{})
					if !ok {
						return nil
					}
					var keys []string
					for key := range obj {
						if !evaluatedProps[key] {
							keys = append(keys, key)
						}
					}
					return keys
				},
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					results, errs := evaluateObject(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					for _, r := range results {
						//nolint:errcheck
						result.AddDetail(r)
					}
					for _, e := range errs {
						//nolint:errcheck
						result.AddError(e)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "dependentSchemas",
		Applies: func(s *Schema) bool { return s.DependentSchemas != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			var children []*Schema
			for _, dep := range s.DependentSchemas {
				children = append(children, dep)
			}
			return &KeywordConstraint{
				Children: compileChildren(children, cc),
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					results, err := evaluateDependentSchemas(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					for _, r := range results {
						//nolint:errcheck
						result.AddDetail(r)
					}
					if err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "content",
		Applies: func(s *Schema) bool { return s.ContentEncoding != nil || s.ContentMediaType != nil || s.ContentSchema != nil },
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			children := compileChildren([]*Schema{s.ContentSchema}, cc)
			return &KeywordConstraint{
				Children: children,
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					contentResult, err := evaluateContent(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					if contentResult != nil {
						//nolint:errcheck
						result.AddDetail(contentResult)
					}
					if err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "unevaluatedProperties",
		Applies: func(s *Schema) bool { return s.UnevaluatedProperties != nil },
		AnnotationDeps: []string{
			"object", "allOf", "anyOf", "oneOf", "conditional", "dependentSchemas", "$ref", "$dynamicRef", "$recursiveRef",
		},
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			children := compileChildren([]*Schema{s.UnevaluatedProperties}, cc)
			return &KeywordConstraint{
				Children: children,
				Locator: func(instance interface{}, evaluatedProps map[string]bool, _ map[int]bool) []string {
					obj, ok := instance.(map[string]interface{})
					if !ok {
						return nil
					}
					var keys []string
					for key := range obj {
						if !evaluatedProps[key] {
							keys = append(keys, key)
						}
					}
					return keys
				},
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					results, err := evaluateUnevaluatedProperties(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					for _, r := range results {
						//nolint:errcheck
						result.AddDetail(r)
					}
					if err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})
	r.Register(KeywordDescriptor{
		Name:    "unevaluatedItems",
		Applies: func(s *Schema) bool { return s.UnevaluatedItems != nil },
		AnnotationDeps: []string{
			"array", "allOf", "anyOf", "oneOf", "conditional", "$ref", "$dynamicRef", "$recursiveRef",
		},
		Compile: func(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
			children := compileChildren([]*Schema{s.UnevaluatedItems}, cc)
			return &KeywordConstraint{
				Children: children,
				Locator: func(instance interface{}, _ map[string]bool, evaluatedItems map[int]bool) []string {
					arr, ok := instance.([]interface{})
					if !ok {
						return nil
					}
					var indices []string
					for i := range arr {
						if !evaluatedItems[i] {
							indices = append(indices, strconv.Itoa(i))
						}
					}
					return indices
				},
				Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
					results, err := evaluateUnevaluatedItems(s, instance, evaluatedProps, evaluatedItems, dynamicScope)
					for _, r := range results {
						//nolint:errcheck
						result.AddDetail(r)
					}
					if err != nil {
						//nolint:errcheck
						result.AddError(err)
					}
				},
			}, nil
		},
	})

	return r
}

// compileChildren compiles each non-nil schema in schemas against cc,
// skipping (rather than failing) a child whose own compilation errors, since
// the corresponding evaluate* helper already re-derives and reports that
// failure through the normal error path when it drives the child itself.
func compileChildren(schemas []*Schema, cc *CompileContext) []*SchemaConstraint {
	var out []*SchemaConstraint
	for _, child := range schemas {
		if child == nil {
			continue
		}
		if sc, err := CompileSchema(child, cc); err == nil {
			out = append(out, sc)
		}
	}
	return out
}

// compileRef builds the $ref constraint. Its child is the statically
// resolved target; $ref, unlike $dynamicRef/$recursiveRef, never depends on
// dynamic scope, so Children is always populated when ResolvedRef compiles
// cleanly.
func compileRef(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
	children := compileChildren([]*Schema{s.ResolvedRef}, cc)
	return &KeywordConstraint{
		Children: children,
		Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
			refResult, props, items := s.ResolvedRef.evaluate(instance, dynamicScope)
			if refResult != nil {
				//nolint:errcheck
				result.AddDetail(refResult)
				if !refResult.IsValid() {
					//nolint:errcheck
					result.AddError(NewEvaluationError("$ref", "ref_mismatch", "Value does not match the reference schema"))
				}
			}
			mergeStringMaps(evaluatedProps, props)
			mergeIntMaps(evaluatedItems, items)
		},
	}, nil
}

// compileDynamicRef builds the $dynamicRef constraint. Its real target can
// only be known once the dynamic scope is walked at evaluation time (the
// outermost schema in scope declaring a matching $dynamicAnchor wins over the
// statically resolved ResolvedDynamicRef), so it carries no Children; the
// static target is still used as the no-match fallback.
func compileDynamicRef(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
	return &KeywordConstraint{
		Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
			anchorSchema := s.ResolvedDynamicRef
			_, anchor := splitRef(s.DynamicRef)
			if !isJSONPointer(anchor) {
				dynamicAnchor := s.ResolvedDynamicRef.DynamicAnchor
				if dynamicAnchor != "" {
					if schema := dynamicScope.LookupDynamicAnchor(dynamicAnchor); schema != nil {
						anchorSchema = schema
					}
				}
			}
			dynamicRefResult, props, items := anchorSchema.evaluate(instance, dynamicScope)
			if dynamicRefResult != nil {
				//nolint:errcheck
				result.AddDetail(dynamicRefResult)
				if !dynamicRefResult.IsValid() {
					//nolint:errcheck
					result.AddError(NewEvaluationError("$dynamicRef", "dynamic_ref_mismatch", "Value does not match the dynamic reference schema"))
				}
			}
			mergeStringMaps(evaluatedProps, props)
			mergeIntMaps(evaluatedItems, items)
		},
	}, nil
}

// compileRecursiveRef builds the $recursiveRef constraint, the draft
// 2019-09 predecessor of $dynamicRef. $recursiveRef is always "#"; its
// dynamic target is the outermost schema in the active dynamic scope that
// declares $recursiveAnchor: true (DynamicScope.LookupRecursiveAnchor),
// falling back to the statically resolved ResolvedRecursiveRef (the document
// root, since "#" always resolves there) when no scope frame opted in. Like
// $dynamicRef, its real target varies with dynamic scope, so it carries no
// Children.
func compileRecursiveRef(s *Schema, cc *CompileContext) (*KeywordConstraint, error) {
	return &KeywordConstraint{
		Evaluate: func(instance interface{}, evaluatedProps map[string]bool, evaluatedItems map[int]bool, dynamicScope *DynamicScope, result *EvaluationResult) {
			target := s.ResolvedRecursiveRef
			if anchored := dynamicScope.LookupRecursiveAnchor(); anchored != nil {
				target = anchored
			}
			if target == nil {
				return
			}
			recursiveRefResult, props, items := target.evaluate(instance, dynamicScope)
			if recursiveRefResult != nil {
				//nolint:errcheck
				result.AddDetail(recursiveRefResult)
				if !recursiveRefResult.IsValid() {
					//nolint:errcheck
					result.AddError(NewEvaluationError("$recursiveRef", "recursive_ref_mismatch", "Value does not match the recursive reference schema"))
				}
			}
			mergeStringMaps(evaluatedProps, props)
			mergeIntMaps(evaluatedItems, items)
		},
	}, nil
}
