package content

import (
	"fmt"
	"strings"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/phrase"
)

// Classifier assigns content categories using a locale's tables.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	multimedia      *phrase.Set
	pollMarker      string
	deletedSentinel string
}

// NewClassifier builds a classifier from a locale.
func NewClassifier(locale *config.LocaleConfig) (*Classifier, error) {
	media, err := phrase.NewSet(locale.MultimediaPhrases, phrase.WithFoldCase())
	if err != nil {
		return nil, fmt.Errorf("building multimedia phrases: %w", err)
	}
	return &Classifier{
		multimedia:      media,
		pollMarker:      locale.PollMarker,
		deletedSentinel: locale.DeletedSentinel,
	}, nil
}

// IsMultimedia reports whether body contains an omitted-media placeholder,
// ignoring case.
func (c *Classifier) IsMultimedia(body string) bool {
	return c.multimedia.Contains(body)
}

// IsPoll reports whether the trimmed body starts with the poll marker.
func (c *Classifier) IsPoll(body string) bool {
	return c.pollMarker != "" && strings.HasPrefix(strings.TrimSpace(body), c.pollMarker)
}

// IsDeleted reports whether the trimmed body is exactly the deletion sentinel.
func (c *Classifier) IsDeleted(body string) bool {
	return strings.TrimSpace(body) == c.deletedSentinel
}

// Classify returns the single category of a user message body.
// Precedence is Deleted, Poll, Multimedia, then PlainText.
func (c *Classifier) Classify(body string) Category {
	switch {
	case c.IsDeleted(body):
		return Deleted
	case c.IsPoll(body):
		return Poll
	case c.IsMultimedia(body):
		return Multimedia
	default:
		return PlainText
	}
}
