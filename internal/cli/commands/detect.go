package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <transcript>",
		Short: "Detect the timestamp format and locale of a transcript",
		Long: `Sample the head of a transcript and guess how it was exported.

Each known timestamp format is tried against the sampled lines, and each
built-in locale is scored by its notice phrases, multimedia placeholders,
poll and deletion markers, and the detected language of the messages.

Optionally generates a starter config file with --write-config.

Example:
  chatstat detect chat.txt
  chatstat detect --sample 500 --all chat.txt
  chatstat detect -w chatstat.yaml chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", detector.DefaultSampleSize, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every candidate, not just the best match")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	transcript := args[0]
	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))
	result, err := d.DetectFromFile(commandContext(cmd), transcript)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	w := cmd.OutOrStdout()
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, transcript, opts.WriteConfig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote starter config to: %s\n", opts.WriteConfig)
	}

	if opts.Output == "json" {
		return outputDetectJSON(w, result, transcript, opts)
	}
	return outputDetectText(w, result, transcript, opts)
}

func outputDetectText(w io.Writer, result *detector.DetectionResult, transcript string, opts *DetectOptions) error {
	fmt.Fprintln(w, "=== Transcript Format Detection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", transcript)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Lines with timestamps: %d\n", result.ParsedLines)
	if result.Language != "" {
		fmt.Fprintf(w, "Message language: %s\n", result.Language)
	}
	fmt.Fprintln(w)

	if !result.HasMatch() {
		fmt.Fprintln(w, "No timestamp format detected.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: lines should start with a bracketed timestamp, e.g. [15/08/23, 14:30:05].")
		fmt.Fprintln(w, "Check that the file is a chat export and not a copy of the chat window.")
		return nil
	}

	best := result.BestFormat()
	fmt.Fprintf(w, "Detected Format: %s\n", best.Format.Name)
	fmt.Fprintf(w, "Confidence: %.1f%% (%d/%d lines matched)\n",
		best.Confidence*100, best.MatchCount, result.SampledLines)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sample match:\n  %s\n", best.SampleLine)
	fmt.Fprintf(w, "Parsed as: %s\n", best.ParsedTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w)

	if result.AmbiguityNote != "" {
		fmt.Fprintf(w, "Note: %s\n", result.AmbiguityNote)
		fmt.Fprintln(w)
	}

	if locale := result.BestLocale(); locale != nil {
		fmt.Fprintf(w, "Detected Locale: %s (score %.2f)\n", locale.Name, locale.Score)
		fmt.Fprintf(w, "  Notice lines: %d, multimedia: %d, poll/deleted markers: %d\n",
			locale.NoticeHits, locale.MultimediaHits, locale.MarkerHits)
	} else {
		fmt.Fprintf(w, "Detected Locale: none (no built-in locale phrase found, %q assumed)\n", config.DefaultLocale)
	}
	fmt.Fprintln(w)

	snippet, err := starterConfigYAML(result)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "--- Configuration snippet (copy to your config file) ---")
	fmt.Fprintln(w)
	fmt.Fprint(w, snippet)
	fmt.Fprintln(w)

	if opts.ShowAll {
		if len(result.Formats) > 1 {
			fmt.Fprintln(w, "--- Alternative formats detected ---")
			for i, m := range result.Formats[1:] {
				fmt.Fprintf(w, "%d. %s (%.1f%% confidence)\n", i+2, m.Format.Name, m.Confidence*100)
				fmt.Fprintf(w, "   timestamp_pattern: '%s'\n", m.Format.PatternStr)
				fmt.Fprintf(w, "   timestamp_layout: %q\n", m.Format.Layout)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "--- Locale scores ---")
		for _, l := range result.Locales {
			fmt.Fprintf(w, "  %-4s %.2f (language match: %t)\n", l.Name, l.Score, l.LanguageMatch)
			if len(l.NoticePhrases) > 0 {
				fmt.Fprintf(w, "       notices: %s\n", strings.Join(l.NoticePhrases, ", "))
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

// JSONFormat represents a format match in JSON output.
type JSONFormat struct {
	Name       string  `json:"name"`
	Pattern    string  `json:"pattern"`
	Layout     string  `json:"layout"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"match_count"`
	SampleLine string  `json:"sample_line"`
	Ambiguous  bool    `json:"ambiguous,omitempty"`
}

// JSONLocale represents a locale score in JSON output.
type JSONLocale struct {
	Name           string   `json:"name"`
	Score          float64  `json:"score"`
	NoticeHits     int      `json:"notice_hits"`
	MultimediaHits int      `json:"multimedia_hits"`
	MarkerHits     int      `json:"marker_hits"`
	LanguageMatch  bool     `json:"language_match"`
	NoticePhrases  []string `json:"notice_phrases,omitempty"`
}

// JSONOutput represents the full JSON output.
type JSONOutput struct {
	File          string       `json:"file"`
	Formats       []JSONFormat `json:"formats"`
	Locales       []JSONLocale `json:"locales"`
	Language      string       `json:"language,omitempty"`
	SampledLines  int          `json:"sampled_lines"`
	ParsedLines   int          `json:"parsed_lines"`
	AmbiguityNote string       `json:"ambiguity_note,omitempty"`
}

func outputDetectJSON(w io.Writer, result *detector.DetectionResult, transcript string, opts *DetectOptions) error {
	out := JSONOutput{
		File:          transcript,
		Language:      result.Language,
		SampledLines:  result.SampledLines,
		ParsedLines:   result.ParsedLines,
		AmbiguityNote: result.AmbiguityNote,
		Formats:       make([]JSONFormat, 0),
		Locales:       make([]JSONLocale, 0),
	}

	formats := result.Formats
	if !opts.ShowAll && len(formats) > 1 {
		formats = formats[:1]
	}
	for _, m := range formats {
		out.Formats = append(out.Formats, JSONFormat{
			Name:       m.Format.Name,
			Pattern:    m.Format.PatternStr,
			Layout:     m.Format.Layout,
			Confidence: m.Confidence,
			MatchCount: m.MatchCount,
			SampleLine: m.SampleLine,
			Ambiguous:  m.Format.Ambiguous,
		})
	}

	locales := result.Locales
	if !opts.ShowAll {
		locales = nil
		if best := result.BestLocale(); best != nil {
			locales = []detector.LocaleMatch{*best}
		}
	}
	for _, l := range locales {
		out.Locales = append(out.Locales, JSONLocale(l))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

type starterLocale struct {
	TimestampPattern string `yaml:"timestamp_pattern"`
	TimestampLayout  string `yaml:"timestamp_layout"`
}

type starterConfig struct {
	LocaleName string              `yaml:"locale_name"`
	Locale     starterLocale       `yaml:"locale"`
	Report     config.ReportConfig `yaml:"report"`
	LogLevel   string              `yaml:"log_level"`
}

// starterConfigYAML renders a config that loads the detected built-in
// locale with the detected timestamp grammar.
func starterConfigYAML(result *detector.DetectionResult) (string, error) {
	best := result.BestFormat()
	if best == nil {
		return "", errors.New("cannot generate config: no timestamp format detected")
	}

	name := config.DefaultLocale
	if locale := result.BestLocale(); locale != nil {
		name = locale.Name
	}

	defaults := config.DefaultConfig()
	data, err := yaml.Marshal(starterConfig{
		LocaleName: name,
		Locale: starterLocale{
			TimestampPattern: best.Format.PatternStr,
			TimestampLayout:  best.Format.Layout,
		},
		Report:   defaults.Report,
		LogLevel: defaults.LogLevel,
	})
	if err != nil {
		return "", fmt.Errorf("rendering config: %w", err)
	}
	return string(data), nil
}

// writeStarterConfig generates a starter config file with the detected format.
func writeStarterConfig(result *detector.DetectionResult, transcript, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	body, err := starterConfigYAML(result)
	if err != nil {
		return err
	}

	abs := transcript
	if p, err := filepath.Abs(transcript); err == nil {
		abs = p
	}
	best := result.BestFormat()
	header := fmt.Sprintf(`# chatstat configuration
# Generated by: chatstat detect %s
# Detected format: %s (%.0f%% confidence)
#
# Add or override locale fields (notice_phrases, multimedia_phrases,
# stopwords, ...) under "locale". Webhooks receive the JSON report:
# webhooks:
#   - url: https://example.com/hook
#     token: ${CHATSTAT_WEBHOOK_TOKEN}
#     trigger: on_events

`, abs, best.Format.Name, best.Confidence*100)

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, []byte(header+body), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
