package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordRegistryOrderedRespectsAnnotationDeps(t *testing.T) {
	r := NewKeywordRegistry()
	r.Register(KeywordDescriptor{
		Name:    "base",
		Applies: func(s *Schema) bool { return true },
	})
	r.Register(KeywordDescriptor{
		Name:           "dependent",
		Applies:        func(s *Schema) bool { return true },
		AnnotationDeps: []string{"base"},
	})

	order, err := r.Ordered(&Schema{}, "", "#")
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, "base", order[0].Name)
	assert.Equal(t, "dependent", order[1].Name)
}

func TestKeywordRegistryOrderedBreaksTiesByPriorityThenSourceOrder(t *testing.T) {
	r := NewKeywordRegistry()
	r.Register(KeywordDescriptor{Name: "second", Priority: 5, Applies: func(s *Schema) bool { return true }})
	r.Register(KeywordDescriptor{Name: "first", Priority: 1, Applies: func(s *Schema) bool { return true }})
	r.Register(KeywordDescriptor{Name: "third", Priority: 5, Applies: func(s *Schema) bool { return true }})

	order, err := r.Ordered(&Schema{}, "", "#")
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{order[0].Name, order[1].Name, order[2].Name})
}

func TestKeywordRegistryOrderedDetectsCycle(t *testing.T) {
	r := NewKeywordRegistry()
	r.Register(KeywordDescriptor{Name: "a", Applies: func(s *Schema) bool { return true }, AnnotationDeps: []string{"b"}})
	r.Register(KeywordDescriptor{Name: "b", Applies: func(s *Schema) bool { return true }, AnnotationDeps: []string{"a"}})

	_, err := r.Ordered(&Schema{}, "", "#/cyclic")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRegistryCycle)
}

func TestKeywordRegistryOrderedSkipsKeywordsNotApplying(t *testing.T) {
	r := NewKeywordRegistry()
	r.Register(KeywordDescriptor{Name: "present", Applies: func(s *Schema) bool { return true }})
	r.Register(KeywordDescriptor{Name: "absent", Applies: func(s *Schema) bool { return false }})

	order, err := r.Ordered(&Schema{}, "", "#")
	require.NoError(t, err)
	require.Len(t, order, 1)
	assert.Equal(t, "present", order[0].Name)
}

func TestCompileSchemaPopulatesKeywordConstraints(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"type": "object",
		"properties": {"name": {"type": "string"}},
		"allOf": [{"required": ["name"]}]
	}`))
	require.NoError(t, err)

	cc := schema.Bind()
	sc, err := CompileSchema(schema, cc)
	require.NoError(t, err)
	require.NotEmpty(t, sc.Order)

	var sawAllOf, sawObject bool
	for _, kw := range sc.Order {
		assert.NotNil(t, kw.Evaluate, "every compiled constraint must carry an Evaluate closure")
		switch kw.Name {
		case "allOf":
			sawAllOf = true
			require.Len(t, kw.Children, 1, "allOf's single branch should be eagerly compiled as a child constraint")
		case "object":
			sawObject = true
		}
	}
	assert.True(t, sawAllOf, "expected an allOf constraint")
	assert.True(t, sawObject, "expected an object constraint")
}

func TestCompileSchemaTerminatesOnSelfReferentialRef(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"$id": "https://example.com/recursive-list",
		"type": "object",
		"properties": {
			"value": {"type": "integer"},
			"next": {"$ref": "#"}
		}
	}`))
	require.NoError(t, err)

	cc := schema.Bind()
	sc, err := CompileSchema(schema, cc)
	require.NoError(t, err)
	require.NotEmpty(t, sc.Order)

	result := schema.Validate(map[string]interface{}{
		"value": 1,
		"next":  map[string]interface{}{"value": 2},
	})
	assert.True(t, result.IsValid())
}
