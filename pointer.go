package jsonschema

import (
	"strings"

	"github.com/kaptinlin/jsonpointer"
)

// Pointer is an immutable JSON Pointer (RFC 6901), used throughout the
// evaluation driver to track both the evaluation path (the trail of keyword
// names and indices walked to reach a constraint) and the instance location
// (the trail walked to reach a value inside the instance being validated).
//
// Pointer never mutates in place; Append and Combine both return a new value,
// so a caller can fan a single Pointer out across sibling keyword evaluations
// without them observing each other's appends.
type Pointer struct {
	tokens []string
}

// RootPointer is the empty JSON Pointer, denoting the document root.
func RootPointer() Pointer {
	return Pointer{}
}

// ParsePointer parses a JSON Pointer string (leading "/" required for
// non-empty pointers) into a Pointer.
func ParsePointer(s string) Pointer {
	if s == "" || s == "/" {
		return Pointer{}
	}
	return Pointer{tokens: jsonpointer.Parse(s)}
}

// Append returns a new Pointer with the given raw (unescaped) tokens appended.
func (p Pointer) Append(tokens ...string) Pointer {
	if len(tokens) == 0 {
		return p
	}
	next := make([]string, 0, len(p.tokens)+len(tokens))
	next = append(next, p.tokens...)
	next = append(next, tokens...)
	return Pointer{tokens: next}
}

// Combine returns a new Pointer formed by appending other's tokens after p's.
func (p Pointer) Combine(other Pointer) Pointer {
	return p.Append(other.tokens...)
}

// Tokens returns the raw (unescaped) tokens making up the pointer.
func (p Pointer) Tokens() []string {
	return p.tokens
}

// String renders the pointer in RFC 6901 escaped form, e.g. "/a~1b/0".
func (p Pointer) String() string {
	if len(p.tokens) == 0 {
		return ""
	}
	return "/" + jsonpointer.Format(p.tokens...)
}

// IsRoot reports whether the pointer addresses the document root.
func (p Pointer) IsRoot() bool {
	return len(p.tokens) == 0
}

// schemaLocation joins a base URI with this pointer rendered as a URI
// fragment, matching Schema.GetSchemaLocation's "<uri>#<pointer>" form.
func (p Pointer) schemaLocation(baseURI string) string {
	var b strings.Builder
	b.WriteString(baseURI)
	b.WriteByte('#')
	b.WriteString(p.String())
	return b.String()
}
