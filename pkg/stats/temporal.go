package stats

import (
	"slices"
	"time"

	"github.com/ccollicutt/chatstat/pkg/chat"
)

// HourBucket is the message count for one hour of the day.
type HourBucket struct {
	Hour     int `json:"hour"`
	Messages int `json:"messages"`
}

// HourlyHistogram always returns 24 buckets, hour 0 first.
func HourlyHistogram(c *chat.Collection) []HourBucket {
	buckets := make([]HourBucket, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}
	c.EachUser(func(e chat.Event) { buckets[e.Hour].Messages++ })
	return buckets
}

// WeekdayBucket is the message count for one day of the week.
type WeekdayBucket struct {
	Weekday  time.Weekday `json:"weekday"`
	Messages int          `json:"messages"`
}

// WeekOrder lists the weekdays in calendar order, Monday first.
var WeekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeekdayHistogram always returns 7 buckets, Monday through Sunday.
func WeekdayHistogram(c *chat.Collection) []WeekdayBucket {
	var counts [7]int
	c.EachUser(func(e chat.Event) { counts[e.Weekday]++ })

	buckets := make([]WeekdayBucket, 0, len(WeekOrder))
	for _, d := range WeekOrder {
		buckets = append(buckets, WeekdayBucket{Weekday: d, Messages: counts[d]})
	}
	return buckets
}

// DayBucket is one active calendar day of the timeline.
type DayBucket struct {
	Date       time.Time `json:"date"`
	Messages   int       `json:"messages"`
	Cumulative int       `json:"cumulative"`
}

// DailyTimeline returns only days with at least one message, in date order,
// with a running total.
func DailyTimeline(c *chat.Collection) []DayBucket {
	t := newTally[time.Time]()
	c.EachUser(func(e chat.Event) { t.add(e.Date, 1) })

	days := slices.Clone(t.order)
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	buckets := make([]DayBucket, 0, len(days))
	running := 0
	for _, d := range days {
		running += t.counts[d]
		buckets = append(buckets, DayBucket{Date: d, Messages: t.counts[d], Cumulative: running})
	}
	return buckets
}

// MonthBucket is one active calendar month.
type MonthBucket struct {
	chat.YearMonth
	Messages int `json:"messages"`
}

// MonthlyHistogram returns only months with at least one message, in
// chronological order.
func MonthlyHistogram(c *chat.Collection) []MonthBucket {
	t := newTally[chat.YearMonth]()
	c.EachUser(func(e chat.Event) { t.add(e.YearMonth(), 1) })

	months := slices.Clone(t.order)
	slices.SortFunc(months, func(a, b chat.YearMonth) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		default:
			return 0
		}
	})

	buckets := make([]MonthBucket, 0, len(months))
	for _, m := range months {
		buckets = append(buckets, MonthBucket{YearMonth: m, Messages: t.counts[m]})
	}
	return buckets
}
