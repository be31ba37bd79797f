// Package content classifies message bodies into content categories.
package content

import (
	"fmt"
	"strings"
)

// Category is the content category of an event body.
type Category int

const (
	// PlainText is an ordinary message.
	PlainText Category = iota
	// Multimedia is a placeholder left where media was omitted from the export.
	Multimedia
	// Poll is a message starting with the poll marker.
	Poll
	// Deleted is the sentinel left by a deleted message.
	Deleted
	// System is the category of every platform notice.
	System
)

var categoryNames = [...]string{
	PlainText:  "plain_text",
	Multimedia: "multimedia",
	Poll:       "poll",
	Deleted:    "deleted",
	System:     "system",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCategory returns the category named s, ignoring case.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(i), nil
		}
	}
	return PlainText, fmt.Errorf("unknown category %q", s)
}
