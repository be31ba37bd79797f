// Package output builds the report handed to the presentation layer and
// renders it as text or JSON.
package output

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/stats"
)

// Report is the complete set of tables derived from one transcript.
type Report struct {
	Overview      stats.Overview          `json:"overview"`
	Senders       []stats.SenderCount     `json:"senders"`
	Hourly        []stats.HourBucket      `json:"hourly"`
	Weekdays      []WeekdayRow            `json:"weekdays"`
	Timeline      []stats.DayBucket       `json:"timeline"`
	Monthly       []MonthRow              `json:"monthly"`
	Emojis        []stats.EmojiCount      `json:"emojis"`
	Links         []stats.LinkCount       `json:"links"`
	Multimedia    []stats.MultimediaCount `json:"multimedia"`
	SenderMetrics []stats.SenderMetric    `json:"sender_metrics"`
	Longest       *LongestMessage         `json:"longest_message,omitempty"`
	MostVerbose   *stats.VerboseSender    `json:"most_verbose,omitempty"`
	Words         []stats.WordCount       `json:"words"`
	WordCorpus    string                  `json:"word_corpus"`

	Diagnostics analyzer.Diagnostics `json:"diagnostics"`
	Metadata    Metadata             `json:"metadata"`
}

// WeekdayRow is a weekday bucket with its locale label.
type WeekdayRow struct {
	stats.WeekdayBucket
	Label string `json:"label"`
}

// MonthRow is a month bucket with its locale label.
type MonthRow struct {
	stats.MonthBucket
	Label string `json:"label"`
}

// LongestMessage is the longest text message and its author.
type LongestMessage struct {
	Sender    string    `json:"sender"`
	Words     int       `json:"words"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	ConfigFile string              `json:"config_file,omitempty"`
	Source     string              `json:"source"`
	Locale     string              `json:"locale"`
	DateRange  *analyzer.DateRange `json:"date_range,omitempty"`
	Senders    []string            `json:"senders,omitempty"`
	AnalyzedAt time.Time           `json:"analyzed_at"`
	Duration   time.Duration       `json:"duration"`
}

// NewReport computes every table from an ingestion result. The tables are
// independent reads of an immutable collection, so they are built concurrently.
func NewReport(ctx context.Context, result *analyzer.Result, cfg *config.Config, configFile string) (*Report, error) {
	c := result.Events
	locale := &cfg.Locale
	report := &Report{
		Diagnostics: result.Diagnostics,
		Metadata: Metadata{
			ConfigFile: configFile,
			Source:     result.Metadata.Source,
			Locale:     result.Metadata.Locale,
			DateRange:  result.Metadata.DateRange,
			Senders:    result.Metadata.Senders,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
	}

	g, ctx := errgroup.WithContext(ctx)
	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() { report.Overview = stats.Summarize(c) })
	run(func() { report.Senders = stats.SenderActivity(c) })
	run(func() { report.Hourly = stats.HourlyHistogram(c) })
	run(func() {
		for _, b := range stats.WeekdayHistogram(c) {
			report.Weekdays = append(report.Weekdays, WeekdayRow{WeekdayBucket: b, Label: locale.WeekdayLabel(b.Weekday)})
		}
	})
	run(func() { report.Timeline = stats.DailyTimeline(c) })
	run(func() {
		report.Monthly = []MonthRow{}
		for _, b := range stats.MonthlyHistogram(c) {
			report.Monthly = append(report.Monthly, MonthRow{MonthBucket: b, Label: locale.MonthLabel(b.Month)})
		}
	})
	run(func() { report.Emojis = stats.EmojiFrequency(c, cfg.Report.TopEmojis) })
	run(func() { report.Links = stats.LinkFrequency(c, cfg.Report.TopLinks) })
	run(func() { report.Multimedia = stats.MultimediaBySender(c) })
	run(func() { report.SenderMetrics = stats.SenderMetrics(c) })
	run(func() {
		if e, ok := stats.LongestMessage(c); ok {
			report.Longest = &LongestMessage{Sender: e.Sender, Words: e.Words, Body: e.Body, Timestamp: e.Timestamp}
		}
	})
	run(func() {
		if v, ok := stats.MostVerboseSender(c); ok {
			report.MostVerbose = &v
		}
	})
	run(func() { report.Words = stats.WordFrequency(c, locale.Stopwords, cfg.Report.TopWords) })
	run(func() { report.WordCorpus = stats.WordCorpus(c) })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// HasEvents returns true if at least one message or notice was extracted.
func (r *Report) HasEvents() bool {
	return r.Overview.Messages > 0 || r.Overview.SystemNotices > 0
}
