// Package phrase provides multi-phrase substring containment backed by an
// Aho-Corasick automaton, so a body is scanned once regardless of how many
// phrases a locale declares.
package phrase

import (
	"errors"
	"slices"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

// ErrNoPhrases is returned when a Set is built from an empty phrase list.
var ErrNoPhrases = errors.New("no phrases to match")

// Set matches text against a fixed list of phrases.
type Set struct {
	machine *goahocorasick.Machine
	fold    bool
}

// Option configures a Set.
type Option func(*Set)

// WithFoldCase lowercases both the phrases and the scanned text.
func WithFoldCase() Option {
	return func(s *Set) {
		s.fold = true
	}
}

// NewSet builds the automaton for the given phrases.
// Empty phrases are ignored; duplicates are collapsed.
func NewSet(phrases []string, opts ...Option) (*Set, error) {
	s := &Set{}
	for _, opt := range opts {
		opt(s)
	}

	patterns := make([][]rune, 0, len(phrases))
	for _, p := range phrases {
		if p == "" {
			continue
		}
		if s.fold {
			p = strings.ToLower(p)
		}
		patterns = append(patterns, []rune(p))
	}
	if len(patterns) == 0 {
		return nil, ErrNoPhrases
	}

	// The double-array trie under the automaton is built from sorted keys.
	slices.SortFunc(patterns, slices.Compare[[]rune])
	patterns = slices.CompactFunc(patterns, slices.Equal[[]rune])

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	s.machine = m
	return s, nil
}

// Contains reports whether text contains at least one phrase.
func (s *Set) Contains(text string) bool {
	if text == "" {
		return false
	}
	return len(s.machine.MultiPatternSearch(s.runes(text), true)) > 0
}

// Find returns every phrase occurrence in text, in scan order.
func (s *Set) Find(text string) []string {
	if text == "" {
		return nil
	}
	terms := s.machine.MultiPatternSearch(s.runes(text), false)
	found := make([]string, 0, len(terms))
	for _, t := range terms {
		found = append(found, string(t.Word))
	}
	return found
}

func (s *Set) runes(text string) []rune {
	if s.fold {
		text = strings.ToLower(text)
	}
	return []rune(text)
}
