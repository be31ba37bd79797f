// Package entity extracts emoji glyphs and links from message bodies.
package entity

import (
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

const variationSelector16 = "\uFE0F"

var linkPattern = regexp.MustCompile(`https?://\S+`)

// Extractor scans bodies for entities. It is stateless and safe for
// concurrent use.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Emojis returns every emoji in body in order, duplicates included.
// Each user-perceived character (grapheme cluster) is tested as a whole, so
// skin tones, flags and joined sequences count once.
func (e *Extractor) Emojis(body string) []string {
	var found []string
	g := uniseg.NewGraphemes(body)
	for g.Next() {
		cluster := g.Str()
		if IsEmoji(cluster) {
			found = append(found, cluster)
		}
	}
	return found
}

// Links returns every http(s) URL in body in order. URLs are not validated.
func (e *Extractor) Links(body string) []string {
	return linkPattern.FindAllString(body, -1)
}

// IsEmoji reports whether a single grapheme cluster is an emoji.
func IsEmoji(cluster string) bool {
	if cluster == "" {
		return false
	}
	if _, err := gomoji.GetInfo(cluster); err == nil {
		return true
	}
	// Exports sometimes drop or add the emoji presentation selector.
	if bare := strings.ReplaceAll(cluster, variationSelector16, ""); bare != cluster && bare != "" {
		_, err := gomoji.GetInfo(bare)
		return err == nil
	}
	return false
}
