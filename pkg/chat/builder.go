package chat

import (
	"slices"
	"strings"
	"time"

	"github.com/ccollicutt/chatstat/pkg/content"
	"github.com/ccollicutt/chatstat/pkg/entity"
)

// Builder assembles fully populated events. Each event is built once and
// never modified afterwards.
type Builder struct {
	classifier   *content.Classifier
	extractor    *entity.Extractor
	systemSender string
}

// NewBuilder creates a Builder. systemSender is the sender recorded for notices.
func NewBuilder(classifier *content.Classifier, extractor *entity.Extractor, systemSender string) *Builder {
	return &Builder{
		classifier:   classifier,
		extractor:    extractor,
		systemSender: systemSender,
	}
}

// BuildUser creates a participant message with every derived field set.
func (b *Builder) BuildUser(ts time.Time, sender, body string, line int) Event {
	body = strings.TrimSpace(body)
	return Event{
		Timestamp: ts,
		Sender:    sender,
		Body:      body,
		Kind:      KindUser,
		Line:      line,
		Date:      time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
		Hour:      ts.Hour(),
		Weekday:   ts.Weekday(),
		Month:     ts.Month(),
		Year:      ts.Year(),
		Category:  b.classifier.Classify(body),
		Emojis:    b.extractor.Emojis(body),
		Links:     b.extractor.Links(body),
		Words:     len(strings.Fields(body)),
	}
}

// BuildSystem creates a platform notice.
func (b *Builder) BuildSystem(ts time.Time, body string, line int) Event {
	return Event{
		Timestamp: ts,
		Sender:    b.systemSender,
		Body:      strings.TrimSpace(body),
		Kind:      KindSystem,
		Line:      line,
		Category:  content.System,
	}
}

func cloneEvent(e Event) Event {
	e.Emojis = slices.Clone(e.Emojis)
	e.Links = slices.Clone(e.Links)
	return e
}
