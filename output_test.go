package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDetailedOutputKeepsAnnotationsOnValidNestedNode guards against a prior
// bug where a valid node's annotations were only attached in Verbose mode,
// so a passing `properties` node nested inside a passing `allOf` branch was
// always pruned from Detailed output even though it carried annotations
// unevaluatedProperties elsewhere in the schema needs to see.
func TestDetailedOutputKeepsAnnotationsOnValidNestedNode(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"type": "object",
		"allOf": [
			{"properties": {"name": {"type": "string"}}}
		],
		"unevaluatedProperties": false
	}`))
	require.NoError(t, err)

	result := schema.Validate(map[string]interface{}{"name": "ok"})
	require.True(t, result.IsValid())

	unit := result.ToOutput("detailed")
	assert.True(t, unit.Valid)
	assert.True(t, containsAnnotatedNode(unit), "Detailed output should retain at least one node carrying annotations")
}

func containsAnnotatedNode(unit *OutputUnit) bool {
	if unit == nil {
		return false
	}
	if len(unit.Annotations) > 0 {
		return true
	}
	for _, nested := range unit.Nested {
		if containsAnnotatedNode(nested) {
			return true
		}
	}
	return false
}

func TestKeepInDetailedDropsCleanValidLeaf(t *testing.T) {
	leaf := &EvaluationResult{Valid: true}
	assert.False(t, leaf.keepInDetailed(), "a valid leaf with no annotations and no children should be dropped")
}

func TestKeepInDetailedKeepsAnnotatedValidLeaf(t *testing.T) {
	leaf := &EvaluationResult{Valid: true, Annotations: map[string]any{"properties": []string{"name"}}}
	assert.True(t, leaf.keepInDetailed(), "a valid leaf carrying annotations must survive Detailed pruning")
}

func TestKeepInDetailedKeepsInvalidNode(t *testing.T) {
	node := &EvaluationResult{Valid: false}
	assert.True(t, node.keepInDetailed())
}

func TestKeepInDetailedKeepsParentOfAnnotatedChild(t *testing.T) {
	parent := &EvaluationResult{
		Valid: true,
		Details: []*EvaluationResult{
			{Valid: true, Annotations: map[string]any{"format": "email"}},
		},
	}
	assert.True(t, parent.keepInDetailed())
}
