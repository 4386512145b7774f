package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalAppliesDefaultsToMap(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"role": {"type": "string", "default": "member"}
		}
	}`))
	require.NoError(t, err)

	var dst map[string]interface{}
	err = schema.Unmarshal(&dst, []byte(`{"name": "ada"}`))
	require.NoError(t, err)

	assert.Equal(t, "ada", dst["name"])
	assert.Equal(t, "member", dst["role"])
}

func TestUnmarshalDoesNotOverrideProvidedValue(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"type": "object",
		"properties": {
			"role": {"type": "string", "default": "member"}
		}
	}`))
	require.NoError(t, err)

	var dst map[string]interface{}
	err = schema.Unmarshal(&dst, []byte(`{"role": "admin"}`))
	require.NoError(t, err)

	assert.Equal(t, "admin", dst["role"])
}

func TestUnmarshalAppliesNestedDefaults(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"type": "object",
		"properties": {
			"address": {
				"type": "object",
				"properties": {
					"country": {"type": "string", "default": "US"}
				}
			}
		}
	}`))
	require.NoError(t, err)

	var dst map[string]interface{}
	err = schema.Unmarshal(&dst, []byte(`{"address": {}}`))
	require.NoError(t, err)

	address, ok := dst["address"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "US", address["country"])
}

func TestUnmarshalAppliesArrayItemDefaults(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"type": "object",
		"properties": {
			"tags": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"active": {"type": "boolean", "default": true}
					}
				}
			}
		}
	}`))
	require.NoError(t, err)

	var dst map[string]interface{}
	err = schema.Unmarshal(&dst, []byte(`{"tags": [{}, {}]}`))
	require.NoError(t, err)

	tags, ok := dst["tags"].([]interface{})
	require.True(t, ok)
	require.Len(t, tags, 2)
	for _, tag := range tags {
		item, ok := tag.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, true, item["active"])
	}
}

func TestUnmarshalRejectsNonPointerDestination(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{"type": "object"}`))
	require.NoError(t, err)

	var dst map[string]interface{}
	err = schema.Unmarshal(dst, []byte(`{}`))
	require.Error(t, err)
}

func TestUnmarshalRejectsNilDestination(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{"type": "object"}`))
	require.NoError(t, err)

	err = schema.Unmarshal(nil, []byte(`{}`))
	require.Error(t, err)
}

func TestUnmarshalDynamicDefault(t *testing.T) {
	compiler := NewCompiler()
	compiler.RegisterDefaultFunc("$now", DefaultNowFunc)
	schema, err := compiler.Compile([]byte(`{
		"type": "object",
		"properties": {
			"createdAt": {"type": "string", "default": "$now()"}
		}
	}`))
	require.NoError(t, err)

	var dst map[string]interface{}
	err = schema.Unmarshal(&dst, []byte(`{}`))
	require.NoError(t, err)
	assert.NotEmpty(t, dst["createdAt"])
}
