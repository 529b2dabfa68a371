package models

import "strings"

// ExtractionResult holds the per-page text segments and hyperlinks
// produced by one text extractor. Segment order follows document order.
type ExtractionResult struct {
	Segments []string
	Links    []string
}

// Empty reports whether extraction yielded no usable text. Links are
// intentionally ignored here: a PDF can carry link annotations even
// when its text layer is missing.
func (r ExtractionResult) Empty() bool {
	if len(r.Segments) == 0 {
		return true
	}
	return strings.TrimSpace(strings.Join(r.Segments, "")) == ""
}

// PassResult is the outcome of a single schema pass: either a parsed
// JSON object or a failure carrying the raw model output.
type PassResult struct {
	Name  string
	Value map[string]any
	Raw   string
	Err   error
}

func (p PassResult) Failed() bool {
	return p.Err != nil
}

// CVRecord is the merged output of all schema passes, keyed by the
// top-level field names the front end renders.
type CVRecord map[string]any
