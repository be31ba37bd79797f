package commands

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/pkg/analyzer"
	"github.com/ccollicutt/chatstat/pkg/chat"
	"github.com/ccollicutt/chatstat/pkg/content"
	"github.com/ccollicutt/chatstat/pkg/output"
)

// EventsOptions holds command-line options for the events command.
type EventsOptions struct {
	Output string
	Kind       string
	Categories []string
	Limit      int
	Filter     FilterOptions
}

// NewEventsCommand creates the events command.
func NewEventsCommand() *cobra.Command {
	opts := &EventsOptions{}

	cmd := &cobra.Command{
		Use:   "events <transcript>",
		Short: "Dump the parsed events of a transcript",
		Long: `Parse a transcript and print every extracted event, in transcript order.

The jsonl output carries every derived field (category, emojis, links, word
count) and is meant for external tools. The table output is for reading.

Example:
  chatstat events chat.txt
  chatstat events -o table --kind system chat.txt
  chatstat events --category multimedia --category poll chat.txt
  chatstat events --sender Ana --since 2023-08-01 chat.txt | jq .body`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "jsonl", "Output format (jsonl|table)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "all", "Events to print (all|user|system)")
	cmd.Flags().StringArrayVar(&opts.Categories, "category", nil, "Only print events of this category (repeatable)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Print at most this many events (0 prints all)")
	opts.Filter.register(cmd)

	return cmd
}

func runEvents(cmd *cobra.Command, args []string, opts *EventsOptions) error {
	if opts.Output != "jsonl" && opts.Output != "table" {
		return fmt.Errorf("unknown output format %q (use jsonl or table)", opts.Output)
	}

	categories, err := parseCategories(opts.Categories)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	analyzerOpts, err := opts.Filter.analyzerOptions()
	if err != nil {
		return err
	}

	result, err := ingest(cmd, cfg, args[0], analyzerOpts...)
	if errors.Is(err, analyzer.ErrEmptyResult) {
		reportEmpty(cmd.ErrOrStderr(), args[0], result)
		ExitCode = ExitEmpty
		return nil
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	events, err := selectEvents(result.Events, opts.Kind)
	if err != nil {
		return err
	}
	if len(categories) > 0 {
		events = lo.Filter(events, func(e chat.Event, _ int) bool {
			return lo.Contains(categories, e.Category)
		})
	}
	if opts.Limit > 0 && len(events) > opts.Limit {
		events = events[:opts.Limit]
	}

	ExitCode = ExitOK
	if opts.Output == "table" {
		return output.WriteEventTable(cmd.OutOrStdout(), events, cfg.Report.PreviewWidth)
	}
	return output.WriteEventLines(cmd.OutOrStdout(), events)
}

func selectEvents(c *chat.Collection, kind string) ([]chat.Event, error) {
	switch kind {
	case "", "all":
		return c.Events(), nil
	case "user":
		return c.UserEvents(), nil
	case "system":
		return c.SystemEvents(), nil
	default:
		return nil, fmt.Errorf("unknown event kind %q (use all, user, or system)", kind)
	}
}

func parseCategories(names []string) ([]content.Category, error) {
	categories := make([]content.Category, 0, len(names))
	for _, name := range names {
		c, err := content.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}
