package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/output"
	"github.com/ccollicutt/chatstat/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output  string
	Top     int
	Verbose bool
	Quiet   bool
	NoColor bool
	Filter  FilterOptions

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <transcript>",
		Short: "Report statistics for a chat transcript",
		Long: `Parse an exported chat transcript and report statistics about it.

Reports:
  - Messages per sender and per hour, weekday, day and month
  - Most used emojis and shared links
  - Multimedia per sender, longest message and most verbose sender
  - Per-sender metrics (words, emojis, favourite hour)

Use "-" to read the transcript from standard input.

Exit codes:
  0 - Report produced
  1 - No message or notice could be extracted
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVar(&opts.Top, "top", 0, "Limit the sender, emoji and link rankings (overrides the config)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Add per-sender metrics, words and diagnostics")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	opts.Filter.register(cmd)

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnEvents), "When to fire webhook (on_events|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	transcript := args[0]
	ctx := commandContext(cmd)

	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("top") {
		if opts.Top < 0 {
			return fmt.Errorf("invalid --top %d: must not be negative", opts.Top)
		}
		cfg.Report.TopSenders = opts.Top
		cfg.Report.TopEmojis = opts.Top
		cfg.Report.TopLinks = opts.Top
	}

	switch config.WebhookTrigger(opts.WebhookTrigger) {
	case config.WebhookTriggerOnEvents, config.WebhookTriggerAlways, config.WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid --webhook-trigger %q (use on_events, always, or never)", opts.WebhookTrigger)
	}

	formatter, err := createFormatter(opts, cfg)
	if err != nil {
		return err
	}

	analyzerOpts, err := opts.Filter.analyzerOptions()
	if err != nil {
		return err
	}

	result, err := ingest(cmd, cfg, transcript, analyzerOpts...)
	if errors.Is(err, analyzer.ErrEmptyResult) {
		reportEmpty(cmd.ErrOrStderr(), transcript, result)
		ExitCode = ExitEmpty
		return nil
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report, err := output.NewReport(ctx, result, cfg, configPath)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged but don't fail the analysis
	sendWebhooks(ctx, newLogger(cfg), cmd.ErrOrStderr(), cfg, opts, report)

	ExitCode = ExitOK
	return nil
}

func reportEmpty(w io.Writer, transcript string, result *analyzer.Result) {
	fmt.Fprintf(w, "No messages extracted from %s\n", transcript)
	if result == nil {
		return
	}
	d := result.Diagnostics
	fmt.Fprintf(w, "  Lines read: %d, unrecognized: %d, bad timestamps: %d, filtered: %d\n",
		d.LinesRead, d.Unrecognized, d.BadTimestamps, d.Filtered)
	if d.Discarded() > 0 {
		fmt.Fprintf(w, "  Run 'chatstat diagnose %s' to see why lines were discarded.\n", transcript)
	}
}

func createFormatter(opts *AnalyzeOptions, cfg *config.Config) (output.Formatter, error) {
	f, ok := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose:      opts.Verbose,
		Quiet:        opts.Quiet,
		Color:        !opts.NoColor,
		TopSenders:   cfg.Report.TopSenders,
		PreviewWidth: cfg.Report.PreviewWidth,
	})
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
	return f, nil
}

// sendWebhooks sends the report to every configured webhook whose trigger fires.
func sendWebhooks(ctx context.Context, log *slog.Logger, w io.Writer, cfg *config.Config, opts *AnalyzeOptions, report *output.Report) {
	hooks := collectWebhooks(cfg, opts)
	if len(hooks) == 0 {
		return
	}

	for _, resp := range webhook.NewClient(Version).Deliver(ctx, hooks, report) {
		if resp.Success() {
			log.Info("Webhook delivered", "webhook", resp.Name, "delivery", resp.DeliveryID, "status", resp.StatusCode, "duration", resp.Duration)
			fmt.Fprintf(w, "Webhook %s: sent (%d, %s)\n", resp.Name, resp.StatusCode, resp.Duration)
			continue
		}

		err := resp.Error
		if err == nil {
			err = fmt.Errorf("status %d", resp.StatusCode)
		}
		log.Warn("Webhook failed", "webhook", resp.Name, "delivery", resp.DeliveryID, "error", err)
		fmt.Fprintf(w, "Webhook %s: failed (%v)\n", resp.Name, err)
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	hooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	hooks = append(hooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnEvents
		}

		hooks = append(hooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return hooks
}
