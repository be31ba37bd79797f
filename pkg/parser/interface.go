//go:generate go run go.uber.org/mock/mockgen -source=interface.go -destination=../../mocks/mock_line_source.go -package=mocks

package parser

import "context"

// LineSource provides an iterator over transcript lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next non-empty line.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (*RawLine, error)

	// Close releases any resources held by the source.
	Close() error
}
