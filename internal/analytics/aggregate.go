// AngelaMos | 2026
// aggregate.go

package analytics

import (
	"sort"
	"time"
)

const (
	RecentForAnalytics = 50
	RecentForStats     = 100

	DefaultPeriod = "7d"
)

var periods = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

// Period is a trailing window ending now.
type Period struct {
	Label    string
	Duration time.Duration
}

// ParsePeriod accepts 1d, 7d, 30d or 90d. Anything else, including the
// empty string, is the 7 day window.
func ParsePeriod(s string) Period {
	if d, ok := periods[s]; ok {
		return Period{Label: s, Duration: d}
	}
	return Period{Label: DefaultPeriod, Duration: periods[DefaultPeriod]}
}

func (p Period) Since(now time.Time) time.Time {
	return now.Add(-p.Duration)
}

type Summary struct {
	Total      int            `json:"total"`
	ByDate     map[string]int `json:"byDate"`
	ByDevice   map[string]int `json:"byDevice"`
	ByLocation map[string]int `json:"byLocation"`
	Recent     []Event        `json:"recent"`
}

// Aggregate buckets events by UTC day, coarse device and location and keeps
// the recent most recent events, newest first.
func Aggregate(events []Event, recent int) Summary {
	s := Summary{
		Total:      len(events),
		ByDate:     make(map[string]int),
		ByDevice:   make(map[string]int),
		ByLocation: make(map[string]int),
	}

	for _, e := range events {
		s.ByDate[e.CreatedAt.UTC().Format(time.DateOnly)]++
		s.ByDevice[CoarseDevice(e.UserAgent)]++

		location := e.Location
		if location == "" {
			location = UnknownLocation
		}
		s.ByLocation[location]++
	}

	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if recent < 0 {
		recent = 0
	}
	s.Recent = sorted[:min(recent, len(sorted))]

	return s
}
