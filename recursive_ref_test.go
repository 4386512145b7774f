package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecursiveRefExtensibleSchema models the canonical draft 2019-09
// $recursiveRef/$recursiveAnchor example: a base "extensible list" schema
// that marks itself $recursiveAnchor: true so a stricter schema built from
// it (via allOf) can have its own $recursiveRef("#") resolve to the
// stricter schema instead of back to the base.
func TestRecursiveRefExtensibleSchema(t *testing.T) {
	compiler := NewCompiler()

	baseJSON := `{
		"$id": "https://example.com/tree/base",
		"$recursiveAnchor": true,
		"type": "object",
		"properties": {
			"data": true,
			"children": {
				"type": "array",
				"items": {"$recursiveRef": "#"}
			}
		}
	}`
	_, err := compiler.Compile([]byte(baseJSON))
	require.NoError(t, err)

	strictJSON := `{
		"$id": "https://example.com/tree/strict",
		"$recursiveAnchor": true,
		"allOf": [{"$ref": "https://example.com/tree/base"}],
		"properties": {
			"data": {"type": "string"}
		}
	}`
	strict, err := compiler.Compile([]byte(strictJSON))
	require.NoError(t, err)

	valid := map[string]interface{}{
		"data": "root",
		"children": []interface{}{
			map[string]interface{}{"data": "child"},
		},
	}
	result := strict.Validate(valid)
	assert.True(t, result.IsValid(), "every node's data should be validated against the strict schema via $recursiveRef")

	invalid := map[string]interface{}{
		"data": "root",
		"children": []interface{}{
			map[string]interface{}{"data": 5},
		},
	}
	result = strict.Validate(invalid)
	assert.False(t, result.IsValid(), "a nested child with non-string data should fail once $recursiveRef resolves to the strict schema")
}

func TestRecursiveRefFallsBackWithoutAnchor(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"$id": "https://example.com/plain",
		"type": "object",
		"properties": {
			"next": {"$recursiveRef": "#"}
		}
	}`))
	require.NoError(t, err)

	result := schema.Validate(map[string]interface{}{
		"next": map[string]interface{}{},
	})
	assert.True(t, result.IsValid())
}

func TestDynamicScopeLookupRecursiveAnchor(t *testing.T) {
	anchored := true
	outer := &Schema{RecursiveAnchor: &anchored}
	inner := &Schema{}

	ds := NewDynamicScope()
	ds.Push(outer)
	ds.Push(inner)

	found := ds.LookupRecursiveAnchor()
	require.NotNil(t, found)
	assert.Same(t, outer, found, "the outermost anchored frame should win")
}

func TestDynamicScopeLookupRecursiveAnchorNoMatch(t *testing.T) {
	ds := NewDynamicScope()
	ds.Push(&Schema{})
	assert.Nil(t, ds.LookupRecursiveAnchor())
}
