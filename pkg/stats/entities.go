package stats

import (
	"github.com/samber/lo"

	"github.com/ccollicutt/chatstat/pkg/chat"
)

// EmojiCount is one row of the emoji frequency table.
type EmojiCount struct {
	Emoji   string  `json:"emoji"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// EmojiFrequency ranks emojis by occurrences. Percentages are of all emoji
// occurrences, rounded to one decimal. limit <= 0 returns every emoji.
func EmojiFrequency(c *chat.Collection, limit int) []EmojiCount {
	t := newTally[string]()
	c.EachUser(func(e chat.Event) {
		for _, g := range e.Emojis {
			t.add(g, 1)
		}
	})

	total := t.total()
	rows := lo.Map(t.ranked(), func(g string, _ int) EmojiCount {
		return EmojiCount{Emoji: g, Count: t.counts[g], Percent: percent(t.counts[g], total, 1)}
	})
	return limitTo(rows, limit)
}

// LinkCount is one row of the shared-link table.
type LinkCount struct {
	Link  string `json:"link"`
	Count int    `json:"count"`
}

// LinkFrequency ranks links by how often they were shared.
// limit <= 0 returns every link.
func LinkFrequency(c *chat.Collection, limit int) []LinkCount {
	t := newTally[string]()
	c.EachUser(func(e chat.Event) {
		for _, l := range e.Links {
			t.add(l, 1)
		}
	})
	rows := lo.Map(t.ranked(), func(l string, _ int) LinkCount {
		return LinkCount{Link: l, Count: t.counts[l]}
	})
	return limitTo(rows, limit)
}
