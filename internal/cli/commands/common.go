package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Exit codes shared by every command.
const (
	ExitOK    = 0
	ExitEmpty = 1
	ExitError = 2
)

// Names of the persistent flags registered on the root command.
const (
	ConfigFlag   = "config"
	LogLevelFlag = "log-level"
)

// DateLayout is the layout of --since and --until.
const DateLayout = "2006-01-02"

var logLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig loads the file named by --config, or the defaults, and applies
// --log-level. It returns the config path so reports can name it.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString(ConfigFlag)

	cfg, err := config.Load(commandContext(cmd), path)
	if err != nil {
		return nil, path, fmt.Errorf("loading config: %w", err)
	}

	if level, _ := cmd.Flags().GetString(LogLevelFlag); level != "" {
		level = strings.ToUpper(level)
		if !lo.Contains(logLevels, level) {
			return nil, path, fmt.Errorf("invalid log level %q (use %s)", level, strings.Join(logLevels, ", "))
		}
		cfg.LogLevel = level
	}

	return cfg, path, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logs.GetLoggerFromString(cfg.LogLevel)
}

// openSource opens a transcript; "-" reads the command's input stream.
func openSource(cmd *cobra.Command, path string) (parser.LineSource, error) {
	if path == parser.StdinName {
		return parser.NewReaderSource(cmd.InOrStdin(), parser.StdinName), nil
	}
	return parser.Open(path)
}

// ingest runs the analyzer over one transcript. Like Analyzer.Ingest it
// returns the result together with ErrEmptyResult.
func ingest(cmd *cobra.Command, cfg *config.Config, path string, opts ...analyzer.Option) (*analyzer.Result, error) {
	opts = append(opts, analyzer.WithLogger(newLogger(cfg)))
	a, err := analyzer.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating analyzer: %w", err)
	}

	source, err := openSource(cmd, path)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	return a.Ingest(commandContext(cmd), source)
}

// FilterOptions holds the ingestion filters shared by analyze and events.
type FilterOptions struct {
	Since   string
	Until   string
	Senders []string
}

func (f *FilterOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Since, "since", "", "Only keep events on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.Until, "until", "", "Only keep events on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&f.Senders, "sender", nil, "Only keep messages from this sender (can be repeated)")
}

// analyzerOptions converts the flags into analyzer options. --until covers
// the whole day it names.
func (f *FilterOptions) analyzerOptions() ([]analyzer.Option, error) {
	var opts []analyzer.Option

	start, err := parseDate("since", f.Since)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("until", f.Until)
	if err != nil {
		return nil, err
	}
	if !end.IsZero() {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return nil, fmt.Errorf("--until %s is before --since %s", f.Until, f.Since)
	}
	opts = append(opts, analyzer.WithDateRange(start, end))

	senders := lo.Compact(lo.Map(f.Senders, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	if len(senders) > 0 {
		opts = append(opts, analyzer.WithSenders(senders))
	}

	return opts, nil
}

func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", flag, value)
	}
	return t, nil
}
