package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ccollicutt/chatstat/pkg/config"
	"github.com/ccollicutt/chatstat/pkg/phrase"
)

// Grammar recognizes authored messages and system notices.
type Grammar struct {
	authored     *regexp.Regexp
	notice       *regexp.Regexp
	notices      *phrase.Set
	senderPrefix string
}

// NewGrammar builds a grammar from a validated locale.
func NewGrammar(locale *config.LocaleConfig) (*Grammar, error) {
	if locale.CompiledAuthored() == nil || locale.CompiledNotice() == nil {
		return nil, fmt.Errorf("locale %q has not been validated", locale.Name)
	}

	notices, err := phrase.NewSet(locale.NoticePhrases)
	if err != nil {
		return nil, fmt.Errorf("building notice phrases: %w", err)
	}

	return &Grammar{
		authored:     locale.CompiledAuthored(),
		notice:       locale.CompiledNotice(),
		notices:      notices,
		senderPrefix: locale.SenderPrefix,
	}, nil
}

// Match classifies one trimmed line. The authored grammar wins; the notice
// grammar applies only when the body contains a known notice phrase.
func (g *Grammar) Match(line string) Match {
	if m := g.authored.FindStringSubmatch(line); m != nil {
		// A sender made only of the decorative prefix is no sender at all.
		if sender := g.cleanSender(m[2]); sender != "" {
			return Match{
				Kind:      MatchAuthored,
				Timestamp: m[1],
				Sender:    sender,
				Body:      strings.TrimSpace(m[3]),
			}
		}
	}

	if m := g.notice.FindStringSubmatch(line); m != nil && g.notices.Contains(m[2]) {
		return Match{
			Kind:      MatchNotice,
			Timestamp: m[1],
			Body:      strings.TrimSpace(m[2]),
		}
	}

	return Match{Kind: MatchUnrecognized}
}

func (g *Grammar) cleanSender(s string) string {
	if g.senderPrefix != "" {
		s = strings.ReplaceAll(s, g.senderPrefix, "")
	}
	return strings.TrimSpace(s)
}
