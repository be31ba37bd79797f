package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/ccollicutt/chatstat/pkg/chat"
)

// EventLayout is the timestamp layout used in event tables.
const EventLayout = "2006-01-02 15:04:05"

// WriteEventLines writes one JSON object per event.
func WriteEventLines(w io.Writer, events []chat.Event) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i := range events {
		if err := enc.Encode(&events[i]); err != nil {
			return fmt.Errorf("encoding event on line %d: %w", events[i].Line, err)
		}
	}
	return nil
}

// WriteEventTable renders events as a table, truncating bodies to
// previewWidth display columns.
func WriteEventTable(w io.Writer, events []chat.Event, previewWidth int) error {
	table := newTable(w, []string{"Line", "Time", "Sender", "Category", "Message"})
	for _, e := range events {
		category := e.Kind.String()
		if e.IsUser() {
			category = e.Category.String()
		}
		table.Append([]string{
			strconv.Itoa(e.Line),
			e.Timestamp.Format(EventLayout),
			e.Sender,
			category,
			Preview(e.Body, previewWidth),
		})
	}
	table.Render()
	return nil
}
