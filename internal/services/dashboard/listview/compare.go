package listview

import (
	"cmp"
	"regexp"
	"strconv"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator orders two records, returning <0, 0 or >0.
type Comparator[T any] func(a, b T) int

// ByTime orders records by a timestamp field.
func ByTime[T any](field func(T) time.Time) Comparator[T] {
	return func(a, b T) int { return field(a).Compare(field(b)) }
}

// ByInt orders records by an integer field.
func ByInt[T any](field func(T) int) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(field(a), field(b)) }
}

// ByFloat orders records by a float field.
func ByFloat[T any](field func(T) float64) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(field(a), field(b)) }
}

// ByText orders records by a string field using English collation, matching
// what a browser's localeCompare shows users.
func ByText[T any](field func(T) string) Comparator[T] {
	c := newTextCollator()
	return func(a, b T) int { return c.compare(field(a), field(b)) }
}

// ByNumberIn orders records by the magnitude embedded in a display string.
func ByNumberIn[T any](extract func(string) float64, field func(T) string) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(extract(field(a)), extract(field(b))) }
}

// NumberIn returns an extractor reading the first capture group of pattern
// as a float. Strings that do not match, or whose capture does not parse,
// yield 0.
func NumberIn(pattern string) func(string) float64 {
	re := regexp.MustCompile(pattern)
	return func(value string) float64 {
		match := re.FindStringSubmatch(value)
		if len(match) < 2 {
			return 0
		}
		n, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			return 0
		}
		return n
	}
}

// Patterns for the display strings used by the dataset.
const (
	PatternKilometers = `(\d+\.?\d*)\s*km`
	PatternMinutes    = `(\d+)\s+min`
)

var (
	// Kilometers reads "12.5 km" as 12.5.
	Kilometers = NumberIn(PatternKilometers)
	// Minutes reads "45 minutes" as 45; "15 seconds" reads as 0.
	Minutes = NumberIn(PatternMinutes)
)

// textCollator serializes access to a collate.Collator, which keeps
// internal buffers and is not safe for concurrent use.
type textCollator struct {
	mu       sync.Mutex
	collator *collate.Collator
}

func newTextCollator() *textCollator {
	return &textCollator{collator: collate.New(language.English)}
}

func (c *textCollator) compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collator.CompareString(a, b)
}
