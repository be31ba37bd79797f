// Package chat holds the event model built from a transcript.
package chat

import (
	"time"

	"github.com/ccollicutt/chatstat/pkg/content"
)

// Kind distinguishes participant messages from platform notices.
type Kind int

const (
	// KindUser is a message written by a participant.
	KindUser Kind = iota
	// KindSystem is a platform notice.
	KindSystem
)

func (k Kind) String() string {
	if k == KindSystem {
		return "system"
	}
	return "user"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is one transcript line turned into a record.
// Fields after Line are derived and only populated for KindUser events.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	Kind      Kind      `json:"kind"`
	Line      int       `json:"line"`

	Date     time.Time        `json:"date"`
	Hour     int              `json:"hour"`
	Weekday  time.Weekday     `json:"weekday"`
	Month    time.Month       `json:"month"`
	Year     int              `json:"year"`
	Category content.Category `json:"category"`
	Emojis   []string         `json:"emojis,omitempty"`
	Links    []string         `json:"links,omitempty"`
	Words    int              `json:"words"`
}

// IsUser reports whether the event was written by a participant.
func (e *Event) IsUser() bool {
	return e.Kind == KindUser
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Before reports whether ym is earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// YearMonth returns the calendar month of the event.
func (e *Event) YearMonth() YearMonth {
	return YearMonth{Year: e.Year, Month: e.Month}
}
