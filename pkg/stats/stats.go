// Package stats derives aggregate tables from an event collection.
//
// Every function is a pure read of the collection: only participant
// messages are counted, nothing is cached, and calling a function twice
// yields identical tables. Rankings are stable, so ties keep the order in
// which the key was first seen in the transcript.
package stats

import (
	"math"
	"slices"
)

// tally counts keys while remembering first-encounter order.
type tally[K comparable] struct {
	order  []K
	counts map[K]int
}

func newTally[K comparable]() *tally[K] {
	return &tally[K]{counts: make(map[K]int)}
}

func (t *tally[K]) add(k K, n int) {
	if _, ok := t.counts[k]; !ok {
		t.order = append(t.order, k)
	}
	t.counts[k] += n
}

func (t *tally[K]) total() int {
	sum := 0
	for _, n := range t.counts {
		sum += n
	}
	return sum
}

// ranked returns keys by descending count, ties in encounter order.
func (t *tally[K]) ranked() []K {
	keys := slices.Clone(t.order)
	slices.SortStableFunc(keys, func(a, b K) int {
		return t.counts[b] - t.counts[a]
	})
	return keys
}

func percent(part, whole int, decimals int) float64 {
	if whole == 0 {
		return 0
	}
	return round(float64(part)/float64(whole)*100, decimals)
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

func average(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func limitTo[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
