package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/detector"
	"github.com/ccollicutt/chatstat/pkg/output"
	"github.com/ccollicutt/chatstat/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
	Samples int
}

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <transcript>",
		Short: "Explain why transcript lines are discarded",
		Long: `Check a transcript against the configured locale.

This command reports:
- Whether the config loads and the transcript is readable text
- How many lines match the message or notice grammar
- Lines whose timestamp does not parse with the configured layout
- Whether another built-in locale fits the transcript better
- Webhook configuration problems

Example:
  chatstat diagnose chat.txt
  chatstat --config chatstat.yaml diagnose -v chat.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := runDiagnose(cmd, args[0], opts)
			printDiagnostics(cmd.OutOrStdout(), results, opts)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")
	cmd.Flags().IntVar(&opts.Samples, "samples", analyzer.DefaultSampleSize, "Number of discarded lines to show")

	return cmd
}

func runDiagnose(cmd *cobra.Command, transcript string, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	cfg, result := checkConfig(cmd)
	results = append(results, result)
	if result.Status == StatusError {
		return results
	}

	ingested, ingestResults := checkTranscript(cmd, cfg, transcript, opts)
	results = append(results, ingestResults...)

	if ingested != nil {
		results = append(results, checkLocale(cmd, cfg, transcript, ingested)...)
	}

	results = append(results, checkWebhooks(commandContext(cmd), cfg, opts)...)
	return results
}

func checkConfig(cmd *cobra.Command) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{Check: "Config"}

	cfg, path, err := loadConfig(cmd)
	if err != nil {
		result.Status = StatusError
		result.Message = err.Error()
		if strings.Contains(err.Error(), "parsing config file") {
			result.Suggests = []string{"Check YAML syntax - ensure proper indentation (use spaces, not tabs)"}
		}
		result.Suggests = append(result.Suggests,
			"Use 'chatstat detect <transcript> --write-config chatstat.yaml' to generate a starter config")
		return nil, result
	}

	result.Status = StatusOK
	if path == "" {
		result.Message = "Using built-in defaults"
	} else {
		result.Message = fmt.Sprintf("Loaded %s", path)
	}
	result.Details = []string{
		fmt.Sprintf("Locale: %s", cfg.Locale.Name),
		fmt.Sprintf("Timestamp pattern: %s", cfg.Locale.TimestampPattern),
		fmt.Sprintf("Timestamp layout: %s", cfg.Locale.TimestampLayout),
	}
	return cfg, result
}

// checkTranscript ingests the transcript and turns the counters into checks.
// It returns nil diagnostics when the file could not be read.
func checkTranscript(cmd *cobra.Command, cfg *config.Config, transcript string, opts *DiagnoseOptions) (*analyzer.Diagnostics, []DiagnosticResult) {
	readable := DiagnosticResult{Check: "Transcript"}

	result, err := ingest(cmd, cfg, transcript, analyzer.WithSampleSize(opts.Samples))
	if err != nil && !errors.Is(err, analyzer.ErrEmptyResult) {
		readable.Status = StatusError
		readable.Message = err.Error()
		switch {
		case errors.Is(err, parser.ErrResourceNotFound):
			readable.Suggests = []string{"Check the transcript path is correct"}
		case errors.Is(err, parser.ErrUnsupportedFormat):
			readable.Suggests = []string{"Export the chat as text (without media) and pass the .txt file"}
		case errors.Is(err, parser.ErrReadFailure):
			readable.Suggests = []string{"Check the file is not truncated and has no line longer than 1 MiB"}
		}
		return nil, []DiagnosticResult{readable}
	}

	diag := result.Diagnostics
	if diag.LinesRead == 0 {
		readable.Status = StatusError
		readable.Message = "Transcript has no non-blank lines"
		return &diag, []DiagnosticResult{readable}
	}
	readable.Status = StatusOK
	readable.Message = fmt.Sprintf("Read %d non-blank lines", diag.LinesRead)

	results := []DiagnosticResult{readable, checkGrammar(&diag, transcript)}
	if diag.BadTimestamps > 0 || opts.Verbose {
		results = append(results, checkTimestamps(&diag, cfg))
	}
	return &diag, results
}

func checkGrammar(diag *analyzer.Diagnostics, transcript string) DiagnosticResult {
	result := DiagnosticResult{Check: "Line Grammar"}
	matched := diag.Authored + diag.Notices + diag.BadTimestamps

	result.Details = []string{
		fmt.Sprintf("Messages: %d", diag.Authored),
		fmt.Sprintf("Notices: %d", diag.Notices),
		fmt.Sprintf("Unrecognized: %d", diag.Unrecognized),
	}
	result.Details = append(result.Details, sampleDetails(diag, analyzer.ReasonUnrecognized, analyzer.ReasonTooLong)...)

	switch {
	case matched == 0:
		result.Status = StatusError
		result.Message = "No line matches the message or notice grammar"
		result.Suggests = []string{
			"The transcript may use another timestamp format or language",
			fmt.Sprintf("Use 'chatstat detect %s' to find the right locale and pattern", transcript),
		}
	case diag.Unrecognized*2 > diag.LinesRead:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Only %d/%d lines match the grammar", matched, diag.LinesRead)
		result.Suggests = []string{
			"Many unrecognized lines usually mean the notice_phrases or timestamp_pattern are wrong",
		}
	case diag.Unrecognized > 0:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("%d/%d lines match the grammar (%d unrecognized)", matched, diag.LinesRead, diag.Unrecognized)
	default:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("All %d lines match the grammar", diag.LinesRead)
	}
	return result
}

func checkTimestamps(diag *analyzer.Diagnostics, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{Check: "Timestamps"}

	if diag.BadTimestamps == 0 {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Every timestamp parses with layout %q", cfg.Locale.TimestampLayout)
		return result
	}

	result.Status = StatusWarning
	if diag.Authored+diag.Notices == 0 {
		result.Status = StatusError
	}
	result.Message = fmt.Sprintf("%d timestamp(s) do not parse with layout %q", diag.BadTimestamps, cfg.Locale.TimestampLayout)
	result.Details = sampleDetails(diag, analyzer.ReasonBadTimestamp)
	result.Suggests = []string{
		"Day and month may be swapped (DD/MM vs MM/DD); check timestamp_layout",
	}
	return result
}

func sampleDetails(diag *analyzer.Diagnostics, reasons ...analyzer.DiscardReason) []string {
	var details []string
	for _, s := range diag.Samples {
		if slices.Contains(reasons, s.Reason) {
			details = append(details, fmt.Sprintf("line %d: %s", s.Line, output.Preview(s.Content, 80)))
		}
	}
	return details
}

// checkLocale compares the configured locale with the best detected one.
func checkLocale(cmd *cobra.Command, cfg *config.Config, transcript string, diag *analyzer.Diagnostics) []DiagnosticResult {
	if transcript == parser.StdinName {
		return nil
	}
	result := DiagnosticResult{Check: "Locale"}

	detected, err := detector.New().DetectFromFile(commandContext(cmd), transcript)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Locale detection failed: %v", err)
		return []DiagnosticResult{result}
	}

	best := detected.BestLocale()
	switch {
	case best == nil:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Using %q; no built-in locale phrase found in the sample", cfg.Locale.Name)
	case best.Name == cfg.Locale.Name:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Transcript matches locale %q", best.Name)
	case diag.Notices == 0 && best.NoticeHits > 0:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Transcript looks like locale %q, configured %q", best.Name, cfg.Locale.Name)
		result.Suggests = []string{
			fmt.Sprintf("Set locale_name: %s in the config, or CHATSTAT_LOCALE=%s", best.Name, best.Name),
		}
	default:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Using %q (best built-in match: %q)", cfg.Locale.Name, best.Name)
	}
	if detected.Language != "" {
		result.Details = append(result.Details, fmt.Sprintf("Message language: %s", detected.Language))
	}
	return []DiagnosticResult{result}
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== chatstat Transcript Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case StatusOK:
			icon = "PASS"
			okCount++
		case StatusWarning:
			icon = "WARN"
			warnCount++
		case StatusError:
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != StatusOK {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
	case warnCount > 0:
		fmt.Fprintln(w, "\nThe transcript can be analyzed but some lines will be discarded.")
	default:
		fmt.Fprintln(w, "\nTranscript looks good!")
	}
}

func checkWebhooks(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	if len(cfg.Webhooks) == 0 {
		if opts.Verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  StatusOK,
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		name := webhookName(wh)
		result := DiagnosticResult{
			Check: fmt.Sprintf("Webhook: %s", name),
		}

		issues := []string{}
		warnings := []string{}

		if u, err := url.Parse(wh.URL); err != nil {
			issues = append(issues, fmt.Sprintf("Invalid URL: %v", err))
		} else if u.Scheme == "http" && u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
			warnings = append(warnings, "Report is sent over plain http")
		}

		if wh.Trigger == config.WebhookTriggerNever {
			warnings = append(warnings, "Trigger is never; the webhook is disabled")
		}

		switch {
		case len(issues) > 0:
			result.Status = StatusError
			result.Message = fmt.Sprintf("%d configuration issue(s)", len(issues))
			result.Details = issues
		case len(warnings) > 0:
			result.Status = StatusWarning
			result.Message = fmt.Sprintf("%d warning(s)", len(warnings))
			result.Details = warnings
		default:
			result.Status = StatusOK
			result.Message = fmt.Sprintf("Trigger: %s", wh.Trigger)
			result.Details = []string{
				fmt.Sprintf("URL: %s", wh.URL),
				fmt.Sprintf("Timeout: %s", wh.Timeout),
			}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}

		results = append(results, result)
	}

	if opts.Verbose {
		for _, wh := range cfg.Webhooks {
			if wh.Trigger == config.WebhookTriggerNever {
				continue
			}
			result := checkWebhookConnectivity(ctx, wh)
			result.Check = fmt.Sprintf("Webhook Connectivity: %s", webhookName(wh))
			results = append(results, result)
		}
	}

	return results
}

func webhookName(wh config.WebhookConfig) string {
	if wh.Name != "" {
		return wh.Name
	}
	return wh.URL
}

func checkWebhookConnectivity(ctx context.Context, wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot create request: %v", err)
		return result
	}

	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may only accept POST (the report is sent with POST)",
			"Check authentication if using a token",
		}
	}

	return result
}
