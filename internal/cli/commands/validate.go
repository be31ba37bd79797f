package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a chatstat configuration file without reading a transcript.

Checks:
  - YAML or TOML syntax
  - Locale tables (notice and multimedia phrases, labels, markers)
  - Timestamp pattern validity (no capture groups)
  - Report limits and webhook settings

Environment overrides (CHATSTAT_*) are applied before validation.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(commandContext(cmd), configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	l := &cfg.Locale
	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Locale:       %s", l.Name)
	if _, ok := config.BuiltinLocale(l.Name); !ok {
		fmt.Fprint(w, " (custom)")
	}
	fmt.Fprintln(w)
	if l.Language != "" {
		fmt.Fprintf(w, "  Language:     %s\n", l.Language)
	}
	fmt.Fprintf(w, "  Timestamp:    [%s] parsed as %q\n", l.TimestampPattern, l.TimestampLayout)
	fmt.Fprintf(w, "  Notices:      %d phrase(s)\n", len(l.NoticePhrases))
	fmt.Fprintf(w, "  Multimedia:   %d phrase(s)\n", len(l.MultimediaPhrases))
	fmt.Fprintf(w, "  Stopwords:    %d\n", len(l.Stopwords))
	fmt.Fprintf(w, "  Weekdays:     %s\n", strings.Join(l.WeekdayLabels, " "))
	fmt.Fprintf(w, "  Log level:    %s\n", cfg.LogLevel)

	r := cfg.Report
	fmt.Fprintf(w, "\nReport limits:\n")
	fmt.Fprintf(w, "  Senders: %d, emojis: %d, links: %d, words: %d, preview width: %d\n",
		r.TopSenders, r.TopEmojis, r.TopLinks, r.TopWords, r.PreviewWidth)

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, wh.Trigger, webhookName(wh))
		}
	}

	return nil
}
