package jsonschema

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNilDestination is returned when Unmarshal's destination is nil.
	ErrNilDestination = errors.New("destination cannot be nil")

	// ErrNotPointer is returned when Unmarshal's destination is not a pointer.
	ErrNotPointer = errors.New("destination must be a pointer")

	// ErrNilPointer is returned when Unmarshal's destination is a nil pointer.
	ErrNilPointer = errors.New("destination pointer cannot be nil")
)

// UnmarshalError reports a failure converting source data into an Unmarshal
// destination or applying the schema's default values to it.
type UnmarshalError struct {
	Type   string
	Field  string
	Reason string
	Err    error
}

func (e *UnmarshalError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("unmarshal error at field '%s': %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("unmarshal error: %s", e.Reason)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

// Unmarshal decodes src into dst, filling in any object property whose
// schema carries a "default" (including a RegisterDefaultFunc-style dynamic
// default, evaluated via evaluateDefaultValue/parseFunctionCall) that src
// does not already set. It performs no validation; call Validate separately
// if conformance needs checking.
//
// Supported source types: []byte (JSON), map[string]interface{}, and
// anything else (converted via a JSON round-trip). Supported destinations:
// *map[string]interface{}, any other pointer (via JSON round-trip).
func (s *Schema) Unmarshal(dst, src interface{}) error {
	if err := s.validateDestination(dst); err != nil {
		return err
	}

	intermediate, isObject, err := s.convertSource(src)
	if err != nil {
		return &UnmarshalError{Type: "source", Reason: "failed to convert source", Err: err}
	}

	if !isObject {
		return s.unmarshalNonObject(dst, intermediate)
	}

	objData, ok := intermediate.(map[string]interface{})
	if !ok {
		return &UnmarshalError{Type: "source", Reason: "expected object but got different type"}
	}

	if err := s.applyDefaults(objData, s); err != nil {
		return &UnmarshalError{Type: "defaults", Reason: "failed to apply defaults", Err: err}
	}

	return s.unmarshalToDestination(dst, objData)
}

func (s *Schema) validateDestination(dst interface{}) error {
	if dst == nil {
		return &UnmarshalError{Type: "destination", Reason: ErrNilDestination.Error()}
	}

	dstVal := reflect.ValueOf(dst)
	if dstVal.Kind() != reflect.Ptr {
		return &UnmarshalError{Type: "destination", Reason: ErrNotPointer.Error()}
	}

	if dstVal.IsNil() {
		return &UnmarshalError{Type: "destination", Reason: ErrNilPointer.Error()}
	}

	return nil
}

// unmarshalNonObject handles a non-object source: no defaults apply, so the
// intermediate value is decoded into dst via a JSON round-trip.
func (s *Schema) unmarshalNonObject(dst, intermediate interface{}) error {
	jsonData, err := s.GetCompiler().jsonEncoder(intermediate)
	if err != nil {
		return &UnmarshalError{Type: "marshal", Reason: "failed to encode intermediate data", Err: err}
	}

	if err := s.GetCompiler().jsonDecoder(jsonData, dst); err != nil {
		return &UnmarshalError{Type: "unmarshal", Reason: "failed to decode to destination", Err: err}
	}

	return nil
}

// convertSource converts various source types to intermediate format for
// processing. Returns (data, isObject, error) where isObject indicates
// whether the result is a JSON object.
func (s *Schema) convertSource(src interface{}) (interface{}, bool, error) {
	switch v := src.(type) {
	case []byte:
		return s.convertBytesSource(v)
	case map[string]interface{}:
		return deepCopyMap(v), true, nil
	default:
		return s.convertGenericSource(v)
	}
}

func (s *Schema) convertBytesSource(data []byte) (interface{}, bool, error) {
	var parsed interface{}
	if err := s.GetCompiler().jsonDecoder(data, &parsed); err == nil {
		if objData, ok := parsed.(map[string]interface{}); ok {
			return objData, true, nil
		}
		return parsed, false, nil
	} else if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return nil, false, fmt.Errorf("failed to decode JSON: %w", err)
	} else {
		return data, false, nil
	}
}

func (s *Schema) convertGenericSource(src interface{}) (interface{}, bool, error) {
	if objData, ok := src.(map[string]interface{}); ok {
		return deepCopyMap(objData), true, nil
	}

	data, err := s.GetCompiler().jsonEncoder(src)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode source: %w", err)
	}

	var parsed interface{}
	if err := s.GetCompiler().jsonDecoder(data, &parsed); err != nil {
		return nil, false, fmt.Errorf("failed to decode intermediate JSON: %w", err)
	}

	if objData, ok := parsed.(map[string]interface{}); ok {
		return objData, true, nil
	}

	return parsed, false, nil
}

// applyDefaults recursively fills in schema-declared defaults for any
// property data doesn't already set, descending into nested objects and
// array items the same way evaluateObject/evaluateArray do at validate time.
func (s *Schema) applyDefaults(data map[string]interface{}, schema *Schema) error {
	if schema == nil || schema.Properties == nil {
		return nil
	}

	for propName, propSchema := range *schema.Properties {
		if err := s.applyPropertyDefaults(data, propName, propSchema); err != nil {
			return fmt.Errorf("failed to apply defaults for property '%s': %w", propName, err)
		}
	}

	return nil
}

func (s *Schema) applyPropertyDefaults(data map[string]interface{}, propName string, propSchema *Schema) error {
	if _, exists := data[propName]; !exists && propSchema.Default != nil {
		defaultValue, err := s.evaluateDefaultValue(propSchema.Default)
		if err != nil {
			return fmt.Errorf("failed to evaluate default value for property '%s': %w", propName, err)
		}
		data[propName] = defaultValue
	}

	propData, exists := data[propName]
	if !exists {
		return nil
	}

	if objData, ok := propData.(map[string]interface{}); ok {
		return s.applyDefaults(objData, propSchema)
	}

	if arrayData, ok := propData.([]interface{}); ok && propSchema.Items != nil {
		return s.applyArrayDefaults(arrayData, propSchema.Items, propName)
	}

	return nil
}

// evaluateDefaultValue resolves a "default" keyword value, dispatching
// through parseFunctionCall/Compiler.getDefaultFunc for the dynamic-default
// form (default_funcs.go) and falling back to the literal value otherwise -
// including when the named function isn't registered or fails, so a typo'd
// or unregistered default never blocks Unmarshal.
func (s *Schema) evaluateDefaultValue(defaultValue interface{}) (interface{}, error) {
	defaultStr, ok := defaultValue.(string)
	if !ok {
		return defaultValue, nil
	}

	call, err := parseFunctionCall(defaultStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse function call: %w", err)
	}
	if call == nil {
		return defaultStr, nil
	}

	compiler := s.GetCompiler()
	if compiler == nil {
		return defaultStr, nil
	}

	fn, exists := compiler.getDefaultFunc(call.Name)
	if !exists {
		return defaultStr, nil
	}

	value, err := fn(call.Args...)
	if err != nil {
		return defaultStr, nil //nolint:nilerr // intentional fallback to the literal value on function failure
	}

	return value, nil
}

func (s *Schema) applyArrayDefaults(arrayData []interface{}, itemSchema *Schema, propName string) error {
	for _, item := range arrayData {
		if itemMap, ok := item.(map[string]interface{}); ok {
			if err := s.applyDefaults(itemMap, itemSchema); err != nil {
				return fmt.Errorf("failed to apply defaults for array item in '%s': %w", propName, err)
			}
		}
	}
	return nil
}

// unmarshalToDestination converts the defaults-applied map to the
// destination type. Map destinations are populated field-by-field; every
// other pointer type (including structs) goes through a JSON round-trip,
// which already honors the destination's own `json` tags.
func (s *Schema) unmarshalToDestination(dst interface{}, data map[string]interface{}) error {
	dstVal := reflect.ValueOf(dst).Elem()

	switch dstVal.Kind() {
	case reflect.Map:
		return s.unmarshalToMap(dstVal, data)
	case reflect.Ptr:
		if dstVal.IsNil() {
			dstVal.Set(reflect.New(dstVal.Type().Elem()))
		}
		return s.unmarshalToDestination(dstVal.Interface(), data)
	default:
		return s.unmarshalViaJSON(dst, data)
	}
}

func (s *Schema) unmarshalViaJSON(dst interface{}, data map[string]interface{}) error {
	jsonData, err := s.GetCompiler().jsonEncoder(data)
	if err != nil {
		return fmt.Errorf("failed to encode data for fallback: %w", err)
	}
	return s.GetCompiler().jsonDecoder(jsonData, dst)
}

func (s *Schema) unmarshalToMap(dstVal reflect.Value, data map[string]interface{}) error {
	if dstVal.IsNil() {
		dstVal.Set(reflect.MakeMap(dstVal.Type()))
	}

	for key, value := range data {
		keyVal := reflect.ValueOf(key)
		valueVal := reflect.ValueOf(value)

		if valueVal.IsValid() && valueVal.Type().ConvertibleTo(dstVal.Type().Elem()) {
			valueVal = valueVal.Convert(dstVal.Type().Elem())
		}

		dstVal.SetMapIndex(keyVal, valueVal)
	}

	return nil
}

func deepCopyMap(original map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(original))
	for key, value := range original {
		switch v := value.(type) {
		case map[string]interface{}:
			out[key] = deepCopyMap(v)
		case []interface{}:
			out[key] = deepCopySlice(v)
		default:
			out[key] = value
		}
	}
	return out
}

func deepCopySlice(original []interface{}) []interface{} {
	out := make([]interface{}, len(original))
	for i, value := range original {
		switch v := value.(type) {
		case map[string]interface{}:
			out[i] = deepCopyMap(v)
		case []interface{}:
			out[i] = deepCopySlice(v)
		default:
			out[i] = value
		}
	}
	return out
}
