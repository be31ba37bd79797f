// Package parser reads transcript lines and recognizes the line grammar.
package parser

// RawLine is one trimmed, non-empty transcript line before grammar matching.
type RawLine struct {
	// Content is the line text with surrounding whitespace removed.
	Content string

	// Source is the file path (or "-" for stdin) this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int

	// Truncated marks a line too long to keep. Content holds only its head.
	Truncated bool
}

// MatchKind tells which grammar a line satisfied.
type MatchKind int

const (
	// MatchUnrecognized lines satisfy neither grammar and are dropped.
	MatchUnrecognized MatchKind = iota
	// MatchAuthored lines carry a sender and a body.
	MatchAuthored
	// MatchNotice lines are platform notices containing a known phrase.
	MatchNotice
)

func (k MatchKind) String() string {
	switch k {
	case MatchAuthored:
		return "authored"
	case MatchNotice:
		return "notice"
	default:
		return "unrecognized"
	}
}

// Match is the result of matching one line against the grammar.
// Timestamp holds the raw bracketed text; Sender is empty for notices.
type Match struct {
	Kind      MatchKind
	Timestamp string
	Sender    string
	Body      string
}
