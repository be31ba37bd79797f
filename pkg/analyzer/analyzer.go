package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/ccollicutt/chatstat/pkg/chat"
	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/content"
	"github.com/ccollicutt/chatstat/pkg/entity"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// Analyzer ingests a transcript line by line, in order, and builds the
// event collection.
type Analyzer struct {
	cfg        *config.Config
	grammar    *parser.Grammar
	normalizer *parser.Normalizer
	builder    *chat.Builder
	log        *slog.Logger

	// Options
	dateRange  *DateRange
	senders    map[string]bool // nil means all senders
	sampleSize int
}

// Option configures analyzer behavior.
type Option func(*Analyzer)

// WithDateRange keeps only events whose timestamp lies in [start, end].
// A zero bound leaves that side open.
func WithDateRange(start, end time.Time) Option {
	return func(a *Analyzer) {
		if start.IsZero() && end.IsZero() {
			return
		}
		a.dateRange = &DateRange{Start: start, End: end}
	}
}

// WithSenders keeps only messages from the named senders. System notices
// are not affected.
func WithSenders(names []string) Option {
	return func(a *Analyzer) {
		if len(names) > 0 {
			a.senders = make(map[string]bool, len(names))
			for _, n := range names {
				a.senders[n] = true
			}
		}
	}
}

// WithLogger sets the logger used for per-line debug output and the summary.
func WithLogger(log *slog.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// WithSampleSize sets how many discarded lines are kept in Diagnostics.
func WithSampleSize(n int) Option {
	return func(a *Analyzer) {
		if n >= 0 {
			a.sampleSize = n
		}
	}
}

// New creates an analyzer from a validated configuration.
func New(cfg *config.Config, opts ...Option) (*Analyzer, error) {
	grammar, err := parser.NewGrammar(&cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("creating grammar: %w", err)
	}

	classifier, err := content.NewClassifier(&cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}

	a := &Analyzer{
		cfg:        cfg,
		grammar:    grammar,
		normalizer: parser.NewNormalizer(cfg.Locale.TimestampLayout),
		builder:    chat.NewBuilder(classifier, entity.NewExtractor(), cfg.Locale.SystemSender),
		log:        slog.New(slog.DiscardHandler),
		sampleSize: DefaultSampleSize,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Ingest reads every line of source and builds the event collection.
// Read errors abort the run and no partial result is returned. When no
// event could be built the result is still returned, with ErrEmptyResult.
func (a *Analyzer) Ingest(ctx context.Context, source parser.LineSource) (*Result, error) {
	result := &Result{
		Metadata: Metadata{
			Locale:    a.cfg.Locale.Name,
			DateRange: a.dateRange,
			Senders:   a.senderNames(),
			StartTime: time.Now(),
		},
	}
	diag := &result.Diagnostics

	var events []chat.Event
	for {
		line, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading transcript: %w", err)
		}

		if result.Metadata.Source == "" {
			result.Metadata.Source = line.Source
		}
		diag.LinesRead++

		event, ok := a.buildEvent(line, diag)
		if !ok {
			continue
		}

		if !a.keep(&event) {
			diag.Filtered++
			continue
		}
		events = append(events, event)
	}

	result.Events = chat.NewCollection(events)
	result.Metadata.EndTime = time.Now()

	a.log.Info("Transcript ingested",
		"source", result.Metadata.Source,
		"lines", diag.LinesRead,
		"events", result.Events.Len(),
		"discarded", diag.Discarded(),
		"filtered", diag.Filtered)

	if result.IsEmpty() {
		return result, ErrEmptyResult
	}
	return result, nil
}

func (a *Analyzer) buildEvent(line *parser.RawLine, diag *Diagnostics) (chat.Event, bool) {
	if line.Truncated {
		diag.Unrecognized++
		a.discard(line, ReasonTooLong, diag)
		return chat.Event{}, false
	}

	m := a.grammar.Match(line.Content)
	if m.Kind == parser.MatchUnrecognized {
		diag.Unrecognized++
		a.discard(line, ReasonUnrecognized, diag)
		return chat.Event{}, false
	}

	ts, err := a.normalizer.Normalize(m.Timestamp)
	if err != nil {
		diag.BadTimestamps++
		a.discard(line, ReasonBadTimestamp, diag)
		return chat.Event{}, false
	}

	if m.Kind == parser.MatchNotice {
		diag.Notices++
		return a.builder.BuildSystem(ts, m.Body, line.LineNum), true
	}
	diag.Authored++
	return a.builder.BuildUser(ts, m.Sender, m.Body, line.LineNum), true
}

func (a *Analyzer) discard(line *parser.RawLine, reason DiscardReason, diag *Diagnostics) {
	a.log.Debug("Line discarded", "line", line.LineNum, "reason", reason)
	if len(diag.Samples) < a.sampleSize {
		diag.Samples = append(diag.Samples, Sample{
			Line:    line.LineNum,
			Reason:  reason,
			Content: line.Content,
		})
	}
}

func (a *Analyzer) keep(e *chat.Event) bool {
	if a.dateRange != nil && !a.dateRange.Contains(e.Timestamp) {
		return false
	}
	if a.senders != nil && e.IsUser() && !a.senders[e.Sender] {
		return false
	}
	return true
}

func (a *Analyzer) senderNames() []string {
	if a.senders == nil {
		return nil
	}
	names := make([]string, 0, len(a.senders))
	for n := range a.senders {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
