package parser

import "errors"

var (
	// ErrResourceNotFound means the transcript does not exist or cannot be opened.
	ErrResourceNotFound = errors.New("transcript not found")

	// ErrReadFailure means an I/O error interrupted reading the transcript.
	ErrReadFailure = errors.New("reading transcript failed")

	// ErrUnsupportedFormat means the input is not a text file.
	ErrUnsupportedFormat = errors.New("unsupported transcript format")

	// ErrParseFailure means a timestamp did not match the locale layout.
	ErrParseFailure = errors.New("invalid timestamp")
)
