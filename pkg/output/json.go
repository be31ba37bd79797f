package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter writes the report as indented JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format encodes the overview alone in quiet mode. Discarded-line samples
// hold raw transcript text and are only included when verbose.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if f.opts.Quiet {
		return enc.Encode(report.Overview)
	}
	if f.opts.Verbose || len(report.Diagnostics.Samples) == 0 {
		return enc.Encode(report)
	}

	trimmed := *report
	trimmed.Diagnostics.Samples = nil
	return enc.Encode(&trimmed)
}
