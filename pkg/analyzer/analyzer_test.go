package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ccollicutt/chatstat/mocks"
	"github.com/ccollicutt/chatstat/pkg/chat"
	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/content"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

const transcript = `[15/08/23, 09:00:00] Se creó este grupo
[15/08/23, 14:30:05] ~ Ana: Hola a todos 😀 https://example.com
[15/08/23, 14:31:00] Luis: sticker omitido
esta línea sigue el mensaje anterior
[32/13/23, 99:99:99] Ana: fecha imposible
[16/08/23, 08:00:00] ~ Ana: Se eliminó este mensaje.
[17/08/23, 20:15:00] Luis: ENCUESTA: ¿Pizza o tacos?
`

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	require.NoError(t, config.Validate(cfg))
	return cfg
}

func ingest(t *testing.T, text string, opts ...Option) (*Result, error) {
	t.Helper()
	a, err := New(newTestConfig(t), opts...)
	require.NoError(t, err)
	return a.Ingest(context.Background(), parser.NewReaderSource(strings.NewReader(text), "chat.txt"))
}

func TestIngest_Transcript(t *testing.T) {
	req := require.New(t)

	result, err := ingest(t, transcript)
	req.NoError(err)

	events := result.Events.Events()
	req.Len(events, 5)

	// Scenario B
	req.Equal(chat.KindSystem, events[0].Kind)
	req.Equal("System", events[0].Sender)

	// Scenario A
	ana := events[1]
	req.Equal(chat.KindUser, ana.Kind)
	req.Equal("Ana", ana.Sender)
	req.Equal(14, ana.Hour)
	req.Equal([]string{"😀"}, ana.Emojis)
	req.Equal([]string{"https://example.com"}, ana.Links)
	req.Equal(content.PlainText, ana.Category)
	req.Equal(2, ana.Line)

	req.Equal(content.Multimedia, events[2].Category)
	req.Equal(content.Deleted, events[3].Category)
	req.Equal(content.Poll, events[4].Category)

	d := result.Diagnostics
	req.Equal(7, d.LinesRead)
	req.Equal(4, d.Authored)
	req.Equal(1, d.Notices)
	req.Equal(1, d.Unrecognized)
	req.Equal(1, d.BadTimestamps)
	req.Equal(2, d.Discarded())
	req.Len(d.Samples, 2)
	req.Equal(ReasonUnrecognized, d.Samples[0].Reason)
	req.Equal(4, d.Samples[0].Line)
	req.Equal(ReasonBadTimestamp, d.Samples[1].Reason)

	req.Equal("chat.txt", result.Metadata.Source)
	req.Equal("es", result.Metadata.Locale)
}

func TestIngest_BadTimestampOnlyIsNotFatal(t *testing.T) {
	// Scenario E
	result, err := ingest(t, "[32/13/23, 99:99:99] Ana: hola\n[15/08/23, 10:00:00] Ana: sigo aquí\n")
	require.NoError(t, err)
	require.Equal(t, 1, result.Events.Len())
	require.Equal(t, 1, result.Diagnostics.BadTimestamps)
}

func TestIngest_EmptyInput(t *testing.T) {
	// Scenario F
	result, err := ingest(t, "")
	require.ErrorIs(t, err, ErrEmptyResult)
	require.NotNil(t, result)
	require.True(t, result.IsEmpty())
	require.False(t, errors.Is(err, parser.ErrResourceNotFound))
}

func TestIngest_FullyUnparseable(t *testing.T) {
	result, err := ingest(t, "nada\n[99/99/99, 00:00:00] x: y\n")
	require.ErrorIs(t, err, ErrEmptyResult)
	require.Equal(t, 2, result.Diagnostics.Discarded())
}

func TestIngest_WithDateRange(t *testing.T) {
	start := time.Date(2023, 8, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 8, 16, 23, 59, 59, 0, time.UTC)

	result, err := ingest(t, transcript, WithDateRange(start, end))
	require.NoError(t, err)
	require.Equal(t, 1, result.Events.Len())
	require.Equal(t, 4, result.Diagnostics.Filtered)
	require.NotNil(t, result.Metadata.DateRange)
}

func TestIngest_WithDateRangeOpenEnd(t *testing.T) {
	start := time.Date(2023, 8, 16, 0, 0, 0, 0, time.UTC)
	result, err := ingest(t, transcript, WithDateRange(start, time.Time{}))
	require.NoError(t, err)
	require.Equal(t, 2, result.Events.Len())
}

func TestIngest_WithSenders(t *testing.T) {
	result, err := ingest(t, transcript, WithSenders([]string{"Luis"}))
	require.NoError(t, err)

	// System notices survive the sender filter.
	require.Equal(t, 3, result.Events.Len())
	require.Equal(t, 2, result.Events.UserCount())
	require.Equal(t, []string{"Luis"}, result.Metadata.Senders)
}

func TestIngest_FilteredToNothing(t *testing.T) {
	result, err := ingest(t, "[15/08/23, 10:00:00] Ana: hola\n", WithSenders([]string{"Zoe"}))
	require.ErrorIs(t, err, ErrEmptyResult)
	require.Equal(t, 1, result.Diagnostics.Filtered)
}

func TestIngest_SampleSize(t *testing.T) {
	result, err := ingest(t, "a\nb\nc\n", WithSampleSize(1))
	require.ErrorIs(t, err, ErrEmptyResult)
	require.Len(t, result.Diagnostics.Samples, 1)
	require.Equal(t, 3, result.Diagnostics.Unrecognized)
}

func TestIngest_ReadFailureDiscardsPartialData(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	src := mocks.NewMockLineSource(ctrl)

	// Given one good line followed by an I/O error
	gomock.InOrder(
		src.EXPECT().Next(gomock.Any()).Return(&parser.RawLine{Content: "[15/08/23, 10:00:00] Ana: hola", Source: "chat.txt", LineNum: 1}, nil),
		src.EXPECT().Next(gomock.Any()).Return(nil, parser.ErrReadFailure),
	)

	a, err := New(newTestConfig(t), WithLogger(logs.GetLoggerFromLevel(slog.LevelDebug)))
	req.NoError(err)

	// When the transcript is ingested
	result, err := a.Ingest(context.Background(), src)

	// Then the run fails as a whole
	req.ErrorIs(err, parser.ErrReadFailure)
	req.Nil(result)
}

func TestIngest_TruncatedLineIsDiscarded(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	src := mocks.NewMockLineSource(ctrl)

	// Given an over-long line whose head still looks like a message
	gomock.InOrder(
		src.EXPECT().Next(gomock.Any()).Return(&parser.RawLine{Content: "[15/08/23, 10:00:00] Ana: aaaa", Source: "chat.txt", LineNum: 1, Truncated: true}, nil),
		src.EXPECT().Next(gomock.Any()).Return(&parser.RawLine{Content: "[15/08/23, 10:05:00] Luis: hola", Source: "chat.txt", LineNum: 2}, nil),
		src.EXPECT().Next(gomock.Any()).Return(nil, io.EOF),
	)

	a, err := New(newTestConfig(t))
	req.NoError(err)

	// When the transcript is ingested
	result, err := a.Ingest(context.Background(), src)

	// Then only the intact line becomes an event
	req.NoError(err)
	req.Equal(1, result.Events.Len())
	req.Equal(1, result.Diagnostics.Unrecognized)
	req.Len(result.Diagnostics.Samples, 1)
	req.Equal(ReasonTooLong, result.Diagnostics.Samples[0].Reason)
	req.Equal(1, result.Diagnostics.Samples[0].Line)
}

func TestIngest_PreservesSourceOrder(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	src := mocks.NewMockLineSource(ctrl)

	lines := []*parser.RawLine{
		{Content: "[16/08/23, 10:00:00] Luis: después", LineNum: 1},
		{Content: "[15/08/23, 10:00:00] Ana: antes", LineNum: 2},
	}
	i := 0
	src.EXPECT().Next(gomock.Any()).DoAndReturn(func(context.Context) (*parser.RawLine, error) {
		if i >= len(lines) {
			return nil, io.EOF
		}
		i++
		return lines[i-1], nil
	}).Times(len(lines) + 1)

	a, err := New(newTestConfig(t))
	req.NoError(err)

	result, err := a.Ingest(context.Background(), src)
	req.NoError(err)

	events := result.Events.Events()
	req.Equal("Luis", events[0].Sender)
	req.Equal("Ana", events[1].Sender)
}

func TestIngest_ContextCancelled(t *testing.T) {
	a, err := New(newTestConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = a.Ingest(ctx, parser.NewReaderSource(strings.NewReader(transcript), "chat.txt"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDateRange_Contains(t *testing.T) {
	ts := time.Date(2023, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		r    DateRange
		want bool
	}{
		{"open", DateRange{}, true},
		{"inside", DateRange{Start: ts.Add(-time.Hour), End: ts.Add(time.Hour)}, true},
		{"inclusive bounds", DateRange{Start: ts, End: ts}, true},
		{"before start", DateRange{Start: ts.Add(time.Second)}, false},
		{"after end", DateRange{End: ts.Add(-time.Second)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(ts); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}
