package output

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
)

// Medals decorate the first three places of a ranking; later places get
// the last glyph.
var Medals = []string{"🥇", "🥈", "🥉", "🏅"}

// Medal returns the badge for a zero-based rank.
func Medal(rank int) string {
	if rank < len(Medals)-1 {
		return Medals[rank]
	}
	return Medals[len(Medals)-1]
}

// TextFormatter formats reports as human-readable tables.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	o := report.Overview
	_, err := fmt.Fprintf(w, "chatstat: %d messages from %d participants, %d emojis, %d multimedia\n",
		o.Messages, o.Participants, o.Emojis, o.Multimedia)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, f.heading("=== Chat Report ==="))
	fmt.Fprintln(w)

	f.formatOverview(report, w)
	f.formatSenders(report, w)
	f.formatHourly(report, w)
	f.formatWeekdays(report, w)
	f.formatMonthly(report, w)
	f.formatEmojis(report, w)
	f.formatMultimedia(report, w)
	f.formatSuperlatives(report, w)

	if f.opts.Verbose {
		f.formatSenderMetrics(report, w)
		f.formatLinks(report, w)
		f.formatWords(report, w)
		f.formatDiagnostics(report, w)
	}

	return nil
}

func (f *TextFormatter) formatOverview(report *Report, w io.Writer) {
	o := report.Overview
	fmt.Fprintf(w, "Messages:      %d\n", o.Messages)
	fmt.Fprintf(w, "Participants:  %d\n", o.Participants)
	fmt.Fprintf(w, "Emojis:        %d\n", o.Emojis)
	fmt.Fprintf(w, "Multimedia:    %d\n", o.Multimedia)
	fmt.Fprintf(w, "Links:         %d\n", o.Links)
	fmt.Fprintf(w, "Polls:         %d\n", o.Polls)
	fmt.Fprintf(w, "Deleted:       %d\n", o.Deleted)
	fmt.Fprintf(w, "Notices:       %d\n", o.SystemNotices)
	if !o.First.IsZero() {
		fmt.Fprintf(w, "Period:        %s to %s (%d active days)\n",
			o.First.Format("02/01/2006"), o.Last.Format("02/01/2006"), o.ActiveDays)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatSenders(report *Report, w io.Writer) {
	f.section(w, "Most active")
	table := newTable(w, []string{"", "Sender", "Messages", "Percent"})
	for i, s := range limit(report.Senders, f.opts.TopSenders) {
		table.Append([]string{Medal(i), s.Sender, strconv.Itoa(s.Messages), fmt.Sprintf("%.2f%%", s.Percent)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatHourly(report *Report, w io.Writer) {
	f.section(w, "Messages by hour")
	table := newTable(w, []string{"Hour", "Messages"})
	for _, b := range report.Hourly {
		table.Append([]string{fmt.Sprintf("%02d:00", b.Hour), strconv.Itoa(b.Messages)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatWeekdays(report *Report, w io.Writer) {
	f.section(w, "Messages by weekday")
	table := newTable(w, []string{"Day", "Messages"})
	for _, b := range report.Weekdays {
		table.Append([]string{b.Label, strconv.Itoa(b.Messages)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatMonthly(report *Report, w io.Writer) {
	if len(report.Monthly) == 0 {
		return
	}
	f.section(w, "Messages by month")
	table := newTable(w, []string{"Month", "Messages"})
	for _, b := range report.Monthly {
		table.Append([]string{fmt.Sprintf("%s %d", b.Label, b.Year), strconv.Itoa(b.Messages)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatEmojis(report *Report, w io.Writer) {
	f.section(w, "Top emojis")
	if len(report.Emojis) == 0 {
		fmt.Fprintln(w, "  No emojis found")
		fmt.Fprintln(w)
		return
	}
	table := newTable(w, []string{"Emoji", "Count", "Percent"})
	for _, e := range report.Emojis {
		table.Append([]string{e.Emoji, strconv.Itoa(e.Count), fmt.Sprintf("%.1f%%", e.Percent)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatMultimedia(report *Report, w io.Writer) {
	if len(report.Multimedia) == 0 {
		return
	}
	f.section(w, "Multimedia by sender")
	table := newTable(w, []string{"Sender", "Count"})
	for _, m := range limit(report.Multimedia, f.opts.TopSenders) {
		table.Append([]string{m.Sender, strconv.Itoa(m.Count)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatSuperlatives(report *Report, w io.Writer) {
	if report.Longest == nil && report.MostVerbose == nil {
		return
	}
	f.section(w, "Records")
	if l := report.Longest; l != nil {
		fmt.Fprintf(w, "Longest message: %s (%d words)\n", l.Sender, l.Words)
		fmt.Fprintf(w, "  %s\n", Preview(l.Body, f.opts.PreviewWidth))
	}
	if v := report.MostVerbose; v != nil {
		fmt.Fprintf(w, "Most verbose:    %s (%.1f words per message)\n", v.Sender, v.AvgWords)
	}
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatSenderMetrics(report *Report, w io.Writer) {
	f.section(w, "Sender details")
	table := newTable(w, []string{"Sender", "Messages", "Avg words", "Multimedia", "Emojis", "Links", "Favorite hour"})
	for _, m := range report.SenderMetrics {
		table.Append([]string{
			m.Sender,
			strconv.Itoa(m.Messages),
			fmt.Sprintf("%.1f", m.AvgWords),
			strconv.Itoa(m.Multimedia),
			strconv.Itoa(m.Emojis),
			strconv.Itoa(m.Links),
			fmt.Sprintf("%02d:00", m.FavoriteHour),
		})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatLinks(report *Report, w io.Writer) {
	if len(report.Links) == 0 {
		return
	}
	f.section(w, "Shared links")
	table := newTable(w, []string{"Link", "Count"})
	for _, l := range report.Links {
		table.Append([]string{l.Link, strconv.Itoa(l.Count)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatWords(report *Report, w io.Writer) {
	if len(report.Words) == 0 {
		return
	}
	f.section(w, "Frequent words")
	table := newTable(w, []string{"Word", "Count"})
	for _, wc := range report.Words {
		table.Append([]string{wc.Word, strconv.Itoa(wc.Count)})
	}
	table.Render()
	fmt.Fprintln(w)
}

func (f *TextFormatter) formatDiagnostics(report *Report, w io.Writer) {
	d := report.Diagnostics
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Lines read: %d (authored %d, notices %d, unrecognized %d, bad timestamps %d, filtered %d)\n",
		d.LinesRead, d.Authored, d.Notices, d.Unrecognized, d.BadTimestamps, d.Filtered)
	fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
}

func (f *TextFormatter) section(w io.Writer, title string) {
	fmt.Fprintln(w, f.heading("## "+title))
}

func (f *TextFormatter) heading(s string) string {
	if !f.opts.Color {
		return s
	}
	return color.New(color.OpBold, color.FgGreen).Render(s)
}

// Preview truncates s to width display columns, appending "..." when cut.
// A width of zero returns s unchanged.
func Preview(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func limit[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
