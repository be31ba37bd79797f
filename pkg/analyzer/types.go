// Package analyzer turns transcript lines into an event collection.
package analyzer

import (
	"errors"
	"time"

	"github.com/ccollicutt/chatstat/pkg/chat"
)

// ErrEmptyResult is returned, together with a non-nil Result, when the
// transcript was read but no event could be built from it.
var ErrEmptyResult = errors.New("no events extracted")

// DefaultSampleSize is the number of discarded lines kept as samples.
const DefaultSampleSize = 5

// DateRange is an inclusive time window. A zero bound is open.
type DateRange struct {
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

// Contains reports whether ts falls inside the range.
func (r *DateRange) Contains(ts time.Time) bool {
	if !r.Start.IsZero() && ts.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && ts.After(r.End) {
		return false
	}
	return true
}

// DiscardReason tells why a line produced no event.
type DiscardReason string

const (
	ReasonUnrecognized DiscardReason = "unrecognized"
	ReasonBadTimestamp DiscardReason = "bad_timestamp"
	ReasonTooLong      DiscardReason = "too_long"
)

// Sample is one discarded line kept for diagnostics.
type Sample struct {
	Line    int           `json:"line"`
	Reason  DiscardReason `json:"reason"`
	Content string        `json:"content"`
}

// Diagnostics counts what happened to every non-blank line.
type Diagnostics struct {
	LinesRead     int      `json:"lines_read"`
	Authored      int      `json:"authored"`
	Notices       int      `json:"notices"`
	Unrecognized  int      `json:"unrecognized"`
	BadTimestamps int      `json:"bad_timestamps"`
	Filtered      int      `json:"filtered"`
	Samples       []Sample `json:"samples,omitempty"`
}

// Discarded returns the number of lines that failed grammar or timestamp parsing.
func (d *Diagnostics) Discarded() int {
	return d.Unrecognized + d.BadTimestamps
}

// Metadata provides context about the ingestion run.
type Metadata struct {
	Source    string     `json:"source"`
	Locale    string     `json:"locale"`
	DateRange *DateRange `json:"date_range,omitempty"`
	Senders   []string   `json:"senders,omitempty"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
}

// Result is the output of one ingestion.
type Result struct {
	Events      *chat.Collection
	Diagnostics Diagnostics
	Metadata    Metadata
}

// IsEmpty reports whether no event was built.
func (r *Result) IsEmpty() bool {
	return r.Events == nil || r.Events.Len() == 0
}
