package output

import (
	"context"
	"io"
)

// Formatter renders a chat report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds per-sender metrics, the word table and ingestion diagnostics.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool

	// Color enables ANSI colors in text output.
	Color bool

	// TopSenders limits the ranking tables. Zero shows every sender.
	TopSenders int

	// PreviewWidth truncates the longest-message preview, in display columns.
	// Zero disables truncation.
	PreviewWidth int
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, opts FormatOptions) (Formatter, bool) {
	switch name {
	case "text":
		return NewTextFormatter(opts), true
	case "json":
		return NewJSONFormatter(opts), true
	default:
		return nil, false
	}
}
