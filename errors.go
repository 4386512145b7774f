package jsonschema

import (
	"errors"
	"fmt"
)

// === Network and IO Related Errors ===
var (
	// ErrNoLoaderRegistered is returned when no loader is registered for the specified scheme.
	ErrNoLoaderRegistered = errors.New("no loader registered for scheme")

	// ErrDataRead is returned when data cannot be read from the specified URL.
	ErrDataRead = errors.New("data read failed")

	// ErrNetworkFetch is returned when there is an error fetching from the URL.
	ErrNetworkFetch = errors.New("network fetch failed")

	// ErrInvalidStatusCode is returned when an invalid HTTP status code is returned.
	ErrInvalidStatusCode = errors.New("invalid http status code")
)

// === Serialization Related Errors ===
var (
	// ErrJSONUnmarshal is returned when there is an error unmarshalling JSON.
	ErrJSONUnmarshal = errors.New("json unmarshal failed")

	// ErrXMLUnmarshal is returned when there is an error unmarshalling XML.
	ErrXMLUnmarshal = errors.New("xml unmarshal failed")

	// ErrYAMLUnmarshal is returned when there is an error unmarshalling YAML.
	ErrYAMLUnmarshal = errors.New("yaml unmarshal failed")
)

// === Schema Compilation and Parsing Related Errors ===
var (
	// ErrSchemaCompilation is returned when a schema fails to compile.
	ErrSchemaCompilation = errors.New("schema compilation failed")

	// ErrReferenceResolution is returned when a local reference cannot be resolved.
	ErrReferenceResolution = errors.New("reference resolution failed")

	// ErrGlobalReferenceResolution is returned when a reference cannot be resolved
	// against the compiler's global schema cache or any registered loader.
	ErrGlobalReferenceResolution = errors.New("global reference resolution failed")

	// ErrJSONPointerSegmentDecode is returned when a JSON Pointer segment cannot be
	// percent-decoded.
	ErrJSONPointerSegmentDecode = errors.New("json pointer segment decode failed")

	// ErrJSONPointerSegmentNotFound is returned when a JSON Pointer segment does not
	// resolve to a schema within the current schema context.
	ErrJSONPointerSegmentNotFound = errors.New("json pointer segment not found")

	// ErrInvalidSchemaType is returned when the "type" keyword is neither a string
	// nor an array of strings.
	ErrInvalidSchemaType = errors.New("invalid schema type")

	// ErrRegexValidation wraps one or more RegexPatternError values collected while
	// compiling a schema tree's "pattern"/"patternProperties" keywords.
	ErrRegexValidation = errors.New("schema contains invalid regular expressions")

	// ErrUnknownKeyword is returned in strict mode when a schema object contains a
	// keyword the registry has no descriptor for.
	ErrUnknownKeyword = errors.New("unknown keyword")

	// ErrInvalidKeywordForm is returned when a keyword's value does not have the
	// shape its vocabulary requires (e.g. a non-array "required").
	ErrInvalidKeywordForm = errors.New("invalid keyword form")

	// ErrRegistryCycle is returned when KeywordRegistry.Ordered detects a cycle in
	// the declared sibling-annotation dependency graph.
	ErrRegistryCycle = errors.New("keyword registry dependency cycle")
)

// === Resolution Errors ===
var (
	// ErrSchemaNotFound names the SchemaNotFound resolution error. No function in
	// this package returns it: a $ref/$dynamicRef that cannot be resolved is
	// recorded and listed by Schema.GetUnresolvedReferenceURIs.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrRecursionLimitExceeded names the RecursionLimitExceeded resolution error.
	// No function in this package returns it: Compiler.MaxRefDepth is not enforced.
	ErrRecursionLimitExceeded = errors.New("reference recursion limit exceeded")
)

// === Infrastructure Errors ===
var (
	// ErrCancelled names the Cancelled infrastructure error. No function in this
	// package returns it: a cancelled Validate records a "cancelled"
	// EvaluationError in its result instead.
	ErrCancelled = errors.New("evaluation cancelled")

	// ErrInternalInvariantViolation is returned when the evaluation driver observes a
	// state its own invariants say is unreachable (e.g. a keyword constraint with no
	// registered evaluator reaching the driver loop).
	ErrInternalInvariantViolation = errors.New("internal invariant violation")
)

// === Value Conversion Related Errors ===
var (
	// ErrRatConversion is returned when a numeric literal cannot be parsed into a
	// big.Rat.
	ErrRatConversion = errors.New("rat conversion failed")

	// ErrUnsupportedRatType is returned when NewRat is given a value with no numeric
	// representation.
	ErrUnsupportedRatType = errors.New("unsupported rat type")

	// ErrNilConstValue is returned when trying to unmarshal into a nil ConstValue.
	ErrNilConstValue = errors.New("cannot unmarshal into nil ConstValue")

	// ErrIPv6AddressFormat is returned when an IPv6 host is not bracket-enclosed in
	// a URI.
	ErrIPv6AddressFormat = errors.New("ipv6 address format error")

	// ErrInvalidIPv6 is returned when a bracket-enclosed host is not a valid IPv6
	// address.
	ErrInvalidIPv6 = errors.New("invalid ipv6 address")
)

// RegexPatternError reports a single invalid regular expression found while
// compiling a schema's "pattern" or "patternProperties" keyword.
type RegexPatternError struct {
	Keyword  string
	Location string
	Pattern  string
	Err      error
}

func (e *RegexPatternError) Error() string {
	return fmt.Sprintf("%s at %s: invalid pattern %q: %v", e.Keyword, e.Location, e.Pattern, e.Err)
}

func (e *RegexPatternError) Unwrap() error {
	return e.Err
}

// SchemaError reports a compile-time failure: UnknownKeyword, InvalidKeywordForm,
// InvalidPattern, InvalidReference, or RegistryCycle, each carrying the schema
// location the failure was observed at.
type SchemaError struct {
	Code     string
	Location string
	Keyword  string
	Err      error
}

func (e *SchemaError) Error() string {
	if e.Keyword != "" {
		return fmt.Sprintf("%s: keyword %q at %s: %v", e.Code, e.Keyword, e.Location, e.Err)
	}
	return fmt.Sprintf("%s at %s: %v", e.Code, e.Location, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// NewSchemaError builds a SchemaError for the compile-time error taxonomy:
// UnknownKeyword, InvalidKeywordForm, InvalidPattern, InvalidReference, RegistryCycle.
func NewSchemaError(code, location, keyword string, cause error) *SchemaError {
	return &SchemaError{Code: code, Location: location, Keyword: keyword, Err: cause}
}

// ResolutionError reports a $ref/$dynamicRef that could not be resolved
// (SchemaNotFound) or whose resolution chain exceeded Compiler.MaxRefDepth
// (RecursionLimitExceeded).
type ResolutionError struct {
	Code string
	Ref  string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %q: %v", e.Code, e.Ref, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// NewResolutionError builds a ResolutionError for the given ref.
func NewResolutionError(code, ref string, cause error) *ResolutionError {
	return &ResolutionError{Code: code, Ref: ref, Err: cause}
}

// InfrastructureError reports a Cancelled or InternalInvariantViolation failure
// observed while driving an evaluation, with the schema/instance location it was
// observed at attached, per the engine's error-propagation policy.
type InfrastructureError struct {
	Code             string
	SchemaLocation   string
	InstanceLocation string
	Err              error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: schemaLocation=%s instanceLocation=%s: %v", e.Code, e.SchemaLocation, e.InstanceLocation, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// NewInfrastructureError builds an InfrastructureError for the given locations.
func NewInfrastructureError(code, schemaLocation, instanceLocation string, cause error) *InfrastructureError {
	return &InfrastructureError{Code: code, SchemaLocation: schemaLocation, InstanceLocation: instanceLocation, Err: cause}
}
