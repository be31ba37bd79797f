// Package detector guesses the timestamp format and locale of a transcript.
package detector

import (
	"context"
	"errors"
	"io"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/content"
	"github.com/ccollicutt/chatstat/pkg/parser"
	"github.com/ccollicutt/chatstat/pkg/phrase"
)

// DefaultSampleSize is the number of lines read from the head of a transcript.
const DefaultSampleSize = 200

// DetectionResult holds the result of analyzing a transcript.
type DetectionResult struct {
	Formats       []FormatMatch // Formats that matched, sorted by confidence descending
	Locales       []LocaleMatch // Built-in locales, sorted by score descending
	Language      string        // ISO 639-1 code of the message text, empty if unknown
	SampledLines  int           // Number of lines sampled
	ParsedLines   int           // Number of lines parsed by the best format
	AmbiguityNote string        // Warning about date ordering if applicable
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     *TimestampFormat
	Confidence float64   // 0.0 to 1.0 (fraction of lines parsed)
	MatchCount int       // Number of lines that parsed
	SampleLine string    // Example line that matched
	ParsedTime time.Time // Parsed timestamp from sample
}

// LocaleMatch scores how well a built-in locale explains the sample.
type LocaleMatch struct {
	Name           string
	Score          float64  // Phrase hits per sampled line, plus 1 if the language matches
	NoticeHits     int      // Lines containing a notice phrase
	MultimediaHits int      // Lines classified as multimedia
	MarkerHits     int      // Lines carrying the poll marker or the deletion sentinel
	LanguageMatch  bool
	NoticePhrases  []string // Distinct notice phrases seen, in first-seen order
}

// Detector analyzes transcripts to identify their format and locale.
type Detector struct {
	formats    []*TimestampFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 200).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a transcript and returns what it detected.
// The file is opened with the same checks as ingestion.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of transcript lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{}

	trimmed := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			trimmed = append(trimmed, line)
		}
	}
	result.SampledLines = len(trimmed)
	if len(trimmed) == 0 {
		return result
	}

	result.Formats = d.detectFormats(trimmed)
	if len(result.Formats) > 0 {
		result.ParsedLines = result.Formats[0].MatchCount
		if result.Formats[0].Format.Ambiguous {
			result.AmbiguityNote = "This format has date ordering ambiguity (MM/DD vs DD/MM). " +
				"Check a message sent after the 12th of a month before trusting the layout."
		}
	}

	result.Language = detectLanguage(trimmed)
	result.Locales = scoreLocales(trimmed, result.Language)

	return result
}

func (d *Detector) detectFormats(lines []string) []FormatMatch {
	type formatStats struct {
		format     *TimestampFormat
		order      int
		matchCount int
		sampleLine string
		parsedTime time.Time
	}

	stats := make(map[string]*formatStats)

	for _, line := range lines {
		for i, format := range d.formats {
			matches := format.Pattern.FindStringSubmatch(line)
			if len(matches) < 2 {
				continue
			}

			parsedTime, err := time.ParseInLocation(format.Layout, matches[1], time.UTC)
			if err != nil {
				continue
			}

			key := format.Name
			if stats[key] == nil {
				stats[key] = &formatStats{
					format:     format,
					order:      i,
					sampleLine: line,
					parsedTime: parsedTime,
				}
			}
			stats[key].matchCount++
		}
	}

	all := make([]*formatStats, 0, len(stats))
	for _, s := range stats {
		all = append(all, s)
	}
	// Table order breaks ties between formats sharing a pattern.
	sort.Slice(all, func(i, j int) bool {
		if all[i].matchCount != all[j].matchCount {
			return all[i].matchCount > all[j].matchCount
		}
		return all[i].order < all[j].order
	})

	matches := make([]FormatMatch, 0, len(all))
	for _, s := range all {
		matches = append(matches, FormatMatch{
			Format:     s.format,
			Confidence: float64(s.matchCount) / float64(len(lines)),
			MatchCount: s.matchCount,
			SampleLine: s.sampleLine,
			ParsedTime: s.parsedTime,
		})
	}
	return matches
}

// bodyPattern strips the bracketed prefix and an optional "sender: " segment.
var bodyPattern = regexp.MustCompile(`^\[[^\]]*\]\s*(?:[^:]{1,64}:\s)?(.*)$`)

func detectLanguage(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		if m := bodyPattern.FindStringSubmatch(line); m != nil {
			b.WriteString(m[1])
			b.WriteByte('\n')
		}
	}
	if b.Len() == 0 {
		return ""
	}
	info := whatlanggo.Detect(b.String())
	return info.Lang.Iso6391()
}

func scoreLocales(lines []string, language string) []LocaleMatch {
	names := config.BuiltinLocaleNames()
	matches := make([]LocaleMatch, 0, len(names))

	for _, name := range names {
		locale, _ := config.BuiltinLocale(name)
		notices, err := phrase.NewSet(locale.NoticePhrases)
		if err != nil {
			continue
		}
		classifier, err := content.NewClassifier(&locale)
		if err != nil {
			continue
		}

		m := LocaleMatch{Name: name, LanguageMatch: language != "" && language == locale.Language}
		for _, line := range lines {
			body := line
			if sub := bodyPattern.FindStringSubmatch(line); sub != nil {
				body = sub[1]
			}
			if found := notices.Find(line); len(found) > 0 {
				m.NoticeHits++
				for _, p := range found {
					if !slices.Contains(m.NoticePhrases, p) {
						m.NoticePhrases = append(m.NoticePhrases, p)
					}
				}
			}
			switch classifier.Classify(body) {
			case content.Multimedia:
				m.MultimediaHits++
			case content.Poll, content.Deleted:
				m.MarkerHits++
			}
		}

		m.Score = float64(m.NoticeHits+m.MultimediaHits+m.MarkerHits) / float64(len(lines))
		if m.LanguageMatch {
			m.Score++
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// sampleFile reads up to sampleSize non-blank lines from a transcript.
func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	src, err := parser.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var lines []string
	for len(lines) < d.sampleSize {
		line, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line.Content)
	}

	return lines, nil
}

// BestFormat returns the highest confidence format, or nil if none matched.
func (r *DetectionResult) BestFormat() *FormatMatch {
	if len(r.Formats) == 0 {
		return nil
	}
	return &r.Formats[0]
}

// BestLocale returns the highest scoring locale, or nil if nothing scored.
func (r *DetectionResult) BestLocale() *LocaleMatch {
	if len(r.Locales) == 0 || r.Locales[0].Score == 0 {
		return nil
	}
	return &r.Locales[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Formats) > 0
}
