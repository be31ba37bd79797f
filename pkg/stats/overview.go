package stats

import (
	"time"

	"github.com/ccollicutt/chatstat/pkg/chat"
	"github.com/ccollicutt/chatstat/pkg/content"
)

// Overview is the headline summary of a transcript.
type Overview struct {
	Messages      int       `json:"messages"`
	Participants  int       `json:"participants"`
	ActiveDays    int       `json:"active_days"`
	First         time.Time `json:"first,omitzero"`
	Last          time.Time `json:"last,omitzero"`
	Multimedia    int       `json:"multimedia"`
	Polls         int       `json:"polls"`
	Deleted       int       `json:"deleted"`
	Emojis        int       `json:"emojis"`
	Links         int       `json:"links"`
	SystemNotices int       `json:"system_notices"`
}

// Summarize computes the overview. First and Last are the earliest and
// latest message timestamps, since transcripts are not guaranteed sorted.
func Summarize(c *chat.Collection) Overview {
	o := Overview{SystemNotices: c.SystemCount()}
	senders := make(map[string]struct{})
	days := make(map[time.Time]struct{})

	c.EachUser(func(e chat.Event) {
		o.Messages++
		senders[e.Sender] = struct{}{}
		days[e.Date] = struct{}{}
		o.Emojis += len(e.Emojis)
		o.Links += len(e.Links)

		switch e.Category {
		case content.Multimedia:
			o.Multimedia++
		case content.Poll:
			o.Polls++
		case content.Deleted:
			o.Deleted++
		}

		if o.First.IsZero() || e.Timestamp.Before(o.First) {
			o.First = e.Timestamp
		}
		if e.Timestamp.After(o.Last) {
			o.Last = e.Timestamp
		}
	})

	o.Participants = len(senders)
	o.ActiveDays = len(days)
	return o
}
