package parser

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, src LineSource) []*RawLine {
	t.Helper()
	var lines []*RawLine
	for {
		line, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestOpen_ReadsTrimmedNonBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.txt")
	content := "[15/08/23, 14:30:05] ~ Ana: Hola\n\n   \n  [15/08/23, 14:31:00] Luis: ok  \r\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	lines := readAll(t, src)
	require.Len(t, lines, 2)
	require.Equal(t, "[15/08/23, 14:30:05] ~ Ana: Hola", lines[0].Content)
	require.Equal(t, 1, lines[0].LineNum)
	require.Equal(t, path, lines[0].Source)
	require.Equal(t, "[15/08/23, 14:31:00] Luis: ok", lines[1].Content)
	require.Equal(t, 4, lines[1].LineNum)
}

func TestOpen_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	require.Empty(t, readAll(t, src))
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, ErrResourceNotFound)

	_, err = Open(t.TempDir())
	require.ErrorIs(t, err, ErrResourceNotFound)
}

func TestOpen_RejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.txt")
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(path, png, 0644))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReaderSource_LineTooLong(t *testing.T) {
	// Given an over-long line between two normal ones
	long := strings.Repeat("a", maxLineSize+10)
	input := "first\n" + long + "\n[15/08/23, 09:00:00] Ana: hola\n"
	src := NewReaderSource(strings.NewReader(input), "long")
	ctx := context.Background()

	// When reading every line
	first, err := src.Next(ctx)
	require.NoError(t, err)
	skipped, err := src.Next(ctx)
	require.NoError(t, err)
	last, err := src.Next(ctx)
	require.NoError(t, err)
	_, err = src.Next(ctx)

	// Then the long line is flagged with only its head kept and reading goes on
	require.Equal(t, "first", first.Content)
	require.False(t, first.Truncated)
	require.True(t, skipped.Truncated)
	require.Equal(t, 2, skipped.LineNum)
	require.Equal(t, strings.Repeat("a", truncatedHead), skipped.Content)
	require.Equal(t, "[15/08/23, 09:00:00] Ana: hola", last.Content)
	require.Equal(t, 3, last.LineNum)
	require.False(t, last.Truncated)
	require.ErrorIs(t, err, io.EOF)
}

func TestReaderSource_LineTooLongAtEOF(t *testing.T) {
	src := NewReaderSource(strings.NewReader(strings.Repeat("é", maxLineSize)), "long")

	line, err := src.Next(context.Background())
	require.NoError(t, err)
	require.True(t, line.Truncated)
	require.True(t, utf8.ValidString(line.Content))

	_, err = src.Next(context.Background())
	require.ErrorIs(t, err, io.EOF)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestReaderSource_ReadError(t *testing.T) {
	src := NewReaderSource(failingReader{}, "broken")
	_, err := src.Next(context.Background())
	require.ErrorIs(t, err, ErrReadFailure)
	require.Contains(t, err.Error(), "disk gone")
}

func TestReaderSource_ContextCancelled(t *testing.T) {
	src := NewReaderSource(strings.NewReader("line\n"), "ctx")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Next(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFileSource_CloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))

	src, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
}
