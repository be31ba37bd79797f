package stats

import (
	"github.com/samber/lo"

	"github.com/ccollicutt/chatstat/pkg/chat"
	"github.com/ccollicutt/chatstat/pkg/content"
)

// SenderCount is one row of the activity ranking.
type SenderCount struct {
	Sender   string  `json:"sender"`
	Messages int     `json:"messages"`
	Percent  float64 `json:"percent"`
}

// SenderActivity ranks senders by message count. Percentages are of all
// participant messages, rounded to two decimals.
func SenderActivity(c *chat.Collection) []SenderCount {
	t := newTally[string]()
	c.EachUser(func(e chat.Event) { t.add(e.Sender, 1) })

	total := t.total()
	return lo.Map(t.ranked(), func(sender string, _ int) SenderCount {
		return SenderCount{
			Sender:   sender,
			Messages: t.counts[sender],
			Percent:  percent(t.counts[sender], total, 2),
		}
	})
}

// MultimediaCount is one row of the multimedia ranking.
type MultimediaCount struct {
	Sender string `json:"sender"`
	Count  int    `json:"count"`
}

// MultimediaBySender ranks senders by multimedia messages. Senders who never
// sent media are absent.
func MultimediaBySender(c *chat.Collection) []MultimediaCount {
	t := newTally[string]()
	c.EachUser(func(e chat.Event) {
		if e.Category == content.Multimedia {
			t.add(e.Sender, 1)
		}
	})
	return lo.Map(t.ranked(), func(sender string, _ int) MultimediaCount {
		return MultimediaCount{Sender: sender, Count: t.counts[sender]}
	})
}

// SenderMetric describes the writing style of one sender.
type SenderMetric struct {
	Sender       string  `json:"sender"`
	Messages     int     `json:"messages"`
	AvgWords     float64 `json:"avg_words"`
	Multimedia   int     `json:"multimedia"`
	Emojis       int     `json:"emojis"`
	Links        int     `json:"links"`
	FavoriteHour int     `json:"favorite_hour"`
}

type senderAcc struct {
	messages   int
	textMsgs   int
	textWords  int
	multimedia int
	emojis     int
	links      int
	hours      [24]int
}

// SenderMetrics returns per-sender metrics ordered by message count.
// AvgWords covers non-multimedia messages only and is 0 when there are none.
// FavoriteHour is the most frequent hour, the smallest on ties.
func SenderMetrics(c *chat.Collection) []SenderMetric {
	order := newTally[string]()
	accs := make(map[string]*senderAcc)

	c.EachUser(func(e chat.Event) {
		order.add(e.Sender, 1)
		acc, ok := accs[e.Sender]
		if !ok {
			acc = &senderAcc{}
			accs[e.Sender] = acc
		}
		acc.messages++
		acc.emojis += len(e.Emojis)
		acc.links += len(e.Links)
		acc.hours[e.Hour]++
		if e.Category == content.Multimedia {
			acc.multimedia++
		} else {
			acc.textMsgs++
			acc.textWords += e.Words
		}
	})

	return lo.Map(order.ranked(), func(sender string, _ int) SenderMetric {
		acc := accs[sender]
		return SenderMetric{
			Sender:       sender,
			Messages:     acc.messages,
			AvgWords:     round(average(acc.textWords, acc.textMsgs), 1),
			Multimedia:   acc.multimedia,
			Emojis:       acc.emojis,
			Links:        acc.links,
			FavoriteHour: favoriteHour(acc.hours),
		}
	})
}

func favoriteHour(hours [24]int) int {
	best := 0
	for h, n := range hours {
		if n > hours[best] {
			best = h
		}
	}
	return best
}

// VerboseSender is the sender with the highest average message length.
type VerboseSender struct {
	Sender   string  `json:"sender"`
	AvgWords float64 `json:"avg_words"`
	Messages int     `json:"messages"`
}

// MostVerboseSender returns the sender with the highest average word count
// over non-multimedia, non-deleted messages. Ties go to the sender ranked
// higher by SenderActivity. ok is false when no message qualifies.
func MostVerboseSender(c *chat.Collection) (VerboseSender, bool) {
	activity := newTally[string]()
	words := newTally[string]()
	msgs := newTally[string]()
	c.EachUser(func(e chat.Event) {
		activity.add(e.Sender, 1)
		if countsForLength(e) {
			words.add(e.Sender, e.Words)
			msgs.add(e.Sender, 1)
		}
	})

	best, found := "", false
	for _, sender := range activity.ranked() {
		n := msgs.counts[sender]
		if n == 0 {
			continue
		}
		if !found || average(words.counts[sender], n) > average(words.counts[best], msgs.counts[best]) {
			best, found = sender, true
		}
	}
	if !found {
		return VerboseSender{}, false
	}
	return VerboseSender{
		Sender:   best,
		AvgWords: round(average(words.counts[best], msgs.counts[best]), 1),
		Messages: msgs.counts[best],
	}, true
}

// countsForLength reports whether an event takes part in length superlatives.
func countsForLength(e chat.Event) bool {
	return e.Category != content.Multimedia && e.Category != content.Deleted
}
