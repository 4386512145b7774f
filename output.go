package jsonschema

import "github.com/kaptinlin/go-i18n"

// OutputUnit is one node of a JSON Schema 2020-12 output structure. Field
// names and nesting follow the specification exactly so callers can encode
// an OutputUnit straight to JSON and get a conformant output document in any
// of the four formats: Flag drops everything but Valid, Basic flattens every
// failure into a single array of leaf units, Detailed mirrors the schema's
// own applicator tree, and Verbose is Detailed without pruning: every node,
// pass or fail, is kept. Both carry each kept node's annotations.
type OutputUnit struct {
	Valid                   bool              `json:"valid"`
	KeywordLocation         string            `json:"keywordLocation,omitempty"`
	AbsoluteKeywordLocation string            `json:"absoluteKeywordLocation,omitempty"`
	InstanceLocation        string            `json:"instanceLocation,omitempty"`
	Annotations             map[string]any    `json:"annotations,omitempty"`
	Errors                  map[string]string `json:"errors,omitempty"`
	Nested                  []*OutputUnit     `json:"nested,omitempty"`
}

// ToOutput renders e in the named format ("flag", "basic", "detailed", or
// "verbose"); an unrecognized or empty format falls back to "detailed", the
// richest format that still mirrors the schema's own structure.
func (e *EvaluationResult) ToOutput(format string, localizer ...*i18n.Localizer) *OutputUnit {
	var loc *i18n.Localizer
	if len(localizer) > 0 {
		loc = localizer[0]
	}

	switch format {
	case "flag":
		return &OutputUnit{Valid: e.Valid}
	case "basic":
		return e.ToBasic(loc)
	case "verbose":
		return e.toUnit(loc, true)
	default:
		return e.toUnit(loc, false)
	}
}

// ToBasic flattens every failing (or, if e itself is valid, every annotating)
// node in the Details tree into one array of leaf units carried under the
// root's Nested field, per the "Basic" structure in the 2020-12 output spec.
func (e *EvaluationResult) ToBasic(localizer *i18n.Localizer) *OutputUnit {
	root := &OutputUnit{
		Valid:                   e.Valid,
		KeywordLocation:         e.EvaluationPath,
		AbsoluteKeywordLocation: e.SchemaLocation,
		InstanceLocation:        e.InstanceLocation,
	}
	var leaves []*OutputUnit
	e.collectBasicLeaves(localizer, &leaves)
	root.Nested = leaves
	return root
}

func (e *EvaluationResult) collectBasicLeaves(localizer *i18n.Localizer, out *[]*OutputUnit) {
	if len(e.Errors) > 0 {
		*out = append(*out, &OutputUnit{
			Valid:                   false,
			KeywordLocation:         e.EvaluationPath,
			AbsoluteKeywordLocation: e.SchemaLocation,
			InstanceLocation:        e.InstanceLocation,
			Errors:                  e.convertErrors(localizer),
		})
	} else if e.Valid && len(e.Annotations) > 0 {
		*out = append(*out, &OutputUnit{
			Valid:                   true,
			KeywordLocation:         e.EvaluationPath,
			AbsoluteKeywordLocation: e.SchemaLocation,
			InstanceLocation:        e.InstanceLocation,
			Annotations:             e.Annotations,
		})
	}
	for _, detail := range e.Details {
		detail.collectBasicLeaves(localizer, out)
	}
}

// toUnit builds Detailed (verbose=false) or Verbose (verbose=true) output.
// Both carry every kept node's annotations. Detailed drops the children that
// keepInDetailed rejects (valid, unannotated, with no kept descendant);
// Verbose keeps every node, pass or fail, so the full applicator tree is
// reconstructable.
func (e *EvaluationResult) toUnit(localizer *i18n.Localizer, verbose bool) *OutputUnit {
	unit := &OutputUnit{
		Valid:                   e.Valid,
		KeywordLocation:         e.EvaluationPath,
		AbsoluteKeywordLocation: e.SchemaLocation,
		InstanceLocation:        e.InstanceLocation,
	}

	if !e.Valid {
		unit.Errors = e.convertErrors(localizer)
	}
	// Annotations are carried whenever present, independent of validity: a
	// valid node's annotations (e.g. properties covering keys inside a
	// passing allOf branch) are still consumed by sibling keywords like
	// unevaluatedProperties and must survive into Detailed output, not just
	// Verbose.
	unit.Annotations = e.Annotations

	for _, detail := range e.Details {
		if !verbose && !detail.keepInDetailed() {
			continue
		}
		unit.Nested = append(unit.Nested, detail.toUnit(localizer, verbose))
	}

	return unit
}

// keepInDetailed reports whether a node survives Detailed-mode pruning: a
// node is dropped iff it is valid, carries no annotations, and every child is
// also dropped.
func (e *EvaluationResult) keepInDetailed() bool {
	if !e.Valid {
		return true
	}
	if len(e.Annotations) > 0 {
		return true
	}
	for _, detail := range e.Details {
		if detail.keepInDetailed() {
			return true
		}
	}
	return false
}
