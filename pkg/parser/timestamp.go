package parser

import (
	"fmt"
	"time"
)

// Normalizer parses the bracketed timestamp text of a line.
// Timestamps are wall-clock values as written; they are parsed in UTC and
// never converted.
type Normalizer struct {
	layout string
}

// NewNormalizer creates a normalizer for a Go time layout.
func NewNormalizer(layout string) *Normalizer {
	return &Normalizer{layout: layout}
}

// Normalize parses s. Any deviation from the layout, including impossible
// dates and times, returns an error wrapping ErrParseFailure.
func (n *Normalizer) Normalize(s string) (time.Time, error) {
	ts, err := time.ParseInLocation(n.layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrParseFailure, s, err)
	}
	return ts, nil
}
