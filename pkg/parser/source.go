package parser

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// StdinName is the path that selects standard input.
const StdinName = "-"

const (
	// maxLineSize is the longest line kept whole. Longer lines are skipped
	// and reported as Truncated.
	maxLineSize = 1024 * 1024

	// truncatedHead is how much of a skipped line is kept as its Content.
	truncatedHead = 120
)

// FileSource implements LineSource over a single transcript.
// Blank lines are skipped and every line is trimmed.
type FileSource struct {
	closer  io.Closer
	scanner *bufio.Scanner
	source  string
	lineNum int

	// set while the rest of an over-long line is being dropped
	overflow bool
	head     string
	long     bool
}

// Open opens a transcript file, or standard input when path is "-".
// A missing or unreadable file returns ErrResourceNotFound; a file that is
// not text returns ErrUnsupportedFormat.
func Open(path string) (*FileSource, error) {
	if path == StdinName {
		return NewReaderSource(os.Stdin, StdinName), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrResourceNotFound, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrResourceNotFound, path)
	}

	if info.Size() > 0 {
		if err := checkText(path); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided transcript path is expected
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResourceNotFound, path, err)
	}

	src := NewReaderSource(f, path)
	src.closer = f
	return src, nil
}

// NewReaderSource creates a LineSource reading from r. name is reported as
// the Source of every line. The reader is not closed by Close.
func NewReaderSource(r io.Reader, name string) *FileSource {
	s := &FileSource{source: name}
	s.scanner = bufio.NewScanner(r)
	s.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	s.scanner.Split(s.splitLines)
	return s
}

// splitLines is bufio.ScanLines, except that a line filling the whole
// buffer is consumed up to its newline and yields an empty token with
// s.long set, instead of failing the scan with bufio.ErrTooLong.
func (s *FileSource) splitLines(data []byte, atEOF bool) (int, []byte, error) {
	if s.overflow {
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			s.overflow, s.long = false, true
			return i + 1, []byte{}, nil
		}
		if atEOF {
			s.overflow, s.long = false, true
			return len(data), []byte{}, nil
		}
		return len(data), nil, nil
	}

	advance, token, err := bufio.ScanLines(data, atEOF)
	if advance == 0 && token == nil && err == nil && len(data) >= maxLineSize {
		s.overflow = true
		s.head = strings.ToValidUTF8(string(data[:truncatedHead]), "")
		return len(data), nil, nil
	}
	return advance, token, err
}

// Next returns the next non-blank line, or io.EOF.
func (s *FileSource) Next(ctx context.Context) (*RawLine, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrReadFailure, s.source, err)
			}
			return nil, io.EOF
		}
		s.lineNum++

		if s.long {
			s.long = false
			return &RawLine{
				Content:   strings.TrimSpace(s.head),
				Source:    s.source,
				LineNum:   s.lineNum,
				Truncated: true,
			}, nil
		}

		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		return &RawLine{
			Content: line,
			Source:  s.source,
			LineNum: s.lineNum,
		}, nil
	}
}

// Close releases the underlying file, if any.
func (s *FileSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// checkText sniffs the head of the file and rejects anything that is not
// plain text or a text subtype.
func checkText(path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrResourceNotFound, path, err)
	}
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is %s", ErrUnsupportedFormat, path, mtype.String())
}
