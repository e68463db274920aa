// Package metrics computes dashboard aggregates over the static dataset.
//
// Every helper is a single pass over its input, has no side effects and
// returns zero values for empty input.
package metrics

import (
	"math"
	"time"
)

// CountWhere counts items matching pred.
func CountWhere[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// SumUnits adds the numeric magnitude extracted from each item and rounds
// the total to one decimal place.
func SumUnits[T any](items []T, extract func(T) float64) float64 {
	total := 0.0
	for _, item := range items {
		total += extract(item)
	}
	return RoundTenth(total)
}

// RoundTenth rounds v to one decimal place, halves away from zero.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// CountWithin counts items whose timestamp is no older than window before
// now. Items later than now are included.
func CountWithin[T any](items []T, ts func(T) time.Time, now time.Time, window time.Duration) int {
	cutoff := now.Add(-window)
	return CountWhere(items, func(item T) bool {
		return !ts(item).Before(cutoff)
	})
}

// CountSince counts items whose timestamp is at or after cutoff.
func CountSince[T any](items []T, ts func(T) time.Time, cutoff time.Time) int {
	return CountWhere(items, func(item T) bool {
		return !ts(item).Before(cutoff)
	})
}

// CountOnDay counts items on the calendar date of day, in day's location.
func CountOnDay[T any](items []T, ts func(T) time.Time, day time.Time) int {
	y, m, d := day.Date()
	return CountWhere(items, func(item T) bool {
		iy, im, id := ts(item).In(day.Location()).Date()
		return iy == y && im == m && id == d
	})
}

// CountByKey groups items by key and counts each group.
func CountByKey[T any](items []T, key func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// AverageInt returns the mean of the extracted values rounded to one
// decimal place.
func AverageInt[T any](items []T, extract func(T) int) float64 {
	if len(items) == 0 {
		return 0
	}
	total := 0
	for _, item := range items {
		total += extract(item)
	}
	return RoundTenth(float64(total) / float64(len(items)))
}

// Delta compares two readings of the same metric.
type Delta struct {
	Current  float64
	Previous float64
	Change   float64
	// Percent is the change relative to Previous, rounded to one decimal.
	// It is zero when Previous is zero.
	Percent float64
}

// Up reports whether the metric increased.
func (d Delta) Up() bool { return d.Change > 0 }

// Trend computes the delta from previous to current.
func Trend(current, previous float64) Delta {
	d := Delta{
		Current:  current,
		Previous: previous,
		Change:   RoundTenth(current - previous),
	}
	if previous != 0 {
		d.Percent = RoundTenth((current - previous) / math.Abs(previous) * 100)
	}
	return d
}
