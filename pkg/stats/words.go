package stats

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/ccollicutt/chatstat/pkg/chat"
	"github.com/ccollicutt/chatstat/pkg/content"
)

// LongestMessage returns the non-multimedia, non-deleted message with the
// most words, the earliest on ties. ok is false when there is none.
func LongestMessage(c *chat.Collection) (chat.Event, bool) {
	var (
		best  chat.Event
		found bool
	)
	c.EachUser(func(e chat.Event) {
		if !countsForLength(e) {
			return
		}
		if !found || e.Words > best.Words {
			best, found = e, true
		}
	})
	if !found {
		return chat.Event{}, false
	}
	best.Emojis = slices.Clone(best.Emojis)
	best.Links = slices.Clone(best.Links)
	return best, true
}

// WordCorpus joins the lowercased bodies of plain-text messages with single
// spaces. Multimedia, polls and deleted messages are left out. This is the
// input of an external word-cloud renderer.
func WordCorpus(c *chat.Collection) string {
	var b strings.Builder
	c.EachUser(func(e chat.Event) {
		if e.Category != content.PlainText {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToLower(e.Body))
	})
	return b.String()
}

// WordCount is one row of the word frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Words of two or more letters, digits or underscores, with inner apostrophes.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']+`)

// WordFrequency ranks the words of the corpus. Stopwords (matched without
// regard to case), purely numeric tokens and possessive "'s" endings are
// dropped. limit <= 0 returns every word.
func WordFrequency(c *chat.Collection, stopwords []string, limit int) []WordCount {
	stop := lo.SliceToMap(stopwords, func(w string) (string, struct{}) {
		return strings.ToLower(w), struct{}{}
	})

	t := newTally[string]()
	for _, w := range wordPattern.FindAllString(WordCorpus(c), -1) {
		w = strings.TrimSuffix(w, "'s")
		w = strings.Trim(w, "'")
		if len([]rune(w)) < 2 || isNumeric(w) {
			continue
		}
		if _, ok := stop[w]; ok {
			continue
		}
		t.add(w, 1)
	}

	rows := lo.Map(t.ranked(), func(w string, _ int) WordCount {
		return WordCount{Word: w, Count: t.counts[w]}
	})
	return limitTo(rows, limit)
}

func isNumeric(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}
