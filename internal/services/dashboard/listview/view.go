package listview

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	apperrors "github.com/safedrive/dashboard/internal/platform/errors"
	"github.com/safedrive/dashboard/internal/platform/filter"
	"github.com/safedrive/dashboard/internal/platform/pagination"
)

// DefaultPageSize applies when a view does not configure one.
var DefaultPageSize = pagination.PageSizeConfig{Default: 10, Max: 50}

// View configures the pipeline for one record type.
type View[T any] struct {
	Name string

	// SearchFields are matched case-insensitively; any field may match.
	SearchFields []func(T) string

	// Category is the enum field filtered by Query.Category. Nil disables
	// category filtering.
	Category   func(T) string
	Categories []string

	// Timestamp is the field filtered by Query.Date. Nil disables date
	// filtering.
	Timestamp  func(T) time.Time
	DateRanges []DateRange

	Sorts map[string]Comparator[T]
	// DefaultSort is the initial sort of the page.
	DefaultSort SortState
	// DefaultDirections is the direction applied when a column is newly
	// selected. Columns missing here default to Asc.
	DefaultDirections map[string]Direction

	// FilterFields and Resolve expose records to AIP-160 filter expressions.
	FilterFields filter.Fields
	Resolve      func(T) filter.Resolver

	PageSize pagination.PageSizeConfig
}

// Result is the output of one pipeline run.
type Result[T any] struct {
	Items     []T // the current page, sorted
	Filtered  int // records left after filtering
	Total     int // records before filtering
	Page      int
	PageCount int
	Query     Query // normalized query that produced the result
}

// Empty reports whether filtering left no records.
func (r Result[T]) Empty() bool { return r.Filtered == 0 }

// SortKeys returns the view's sort columns in stable order.
func (v View[T]) SortKeys() []string {
	keys := make([]string, 0, len(v.Sorts))
	for key := range v.Sorts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DefaultDirection returns the direction used when key is newly selected.
func (v View[T]) DefaultDirection(key string) Direction {
	if d, ok := v.DefaultDirections[key]; ok && d.Valid() {
		return d
	}
	return Asc
}

// Toggle returns the sort state after clicking column: the active column
// flips direction, a new column takes its default direction.
func (v View[T]) Toggle(current SortState, column string) (SortState, error) {
	if _, ok := v.Sorts[column]; !ok {
		return SortState{}, invalidArgument("sort", column)
	}
	if current.Key == column && current.Direction.Valid() {
		return SortState{Key: column, Direction: current.Direction.Flip()}, nil
	}
	return SortState{Key: column, Direction: v.DefaultDirection(column)}, nil
}

// Normalize validates q against the view and fills defaults.
func (v View[T]) Normalize(q Query) (Query, error) {
	if q.Category == "" {
		q.Category = CategoryAll
	}
	if q.Category != CategoryAll && (v.Category == nil || !slices.Contains(v.Categories, q.Category)) {
		return Query{}, invalidArgument("category", q.Category)
	}

	if q.Date == "" {
		q.Date = DateAll
	}
	if q.Date != DateAll && (v.Timestamp == nil || !slices.Contains(v.DateRanges, q.Date)) {
		return Query{}, invalidArgument("date", string(q.Date))
	}

	allowed := v.SortKeys()
	key, err := pagination.NormalizeOrderBy(q.Sort.Key, pagination.OrderByConfig{
		Default: v.DefaultSort.Key,
		Allowed: allowed,
	})
	if err != nil {
		return Query{}, invalidArgument("sort", q.Sort.Key)
	}
	switch {
	case q.Sort.Direction == "" && key == v.DefaultSort.Key:
		q.Sort.Direction = v.DefaultSort.Direction
	case q.Sort.Direction == "":
		q.Sort.Direction = v.DefaultDirection(key)
	case !q.Sort.Direction.Valid():
		return Query{}, invalidArgument("dir", string(q.Sort.Direction))
	}
	q.Sort.Key = key

	sizes := v.PageSize
	if sizes.Default == 0 && sizes.Max == 0 {
		sizes = DefaultPageSize
	}
	q.PageSize = pagination.ClampPageSize(q.PageSize, sizes)
	if q.Page < 1 {
		q.Page = 1
	}
	return q, nil
}

// Run filters by search, category, date and filter expression, then sorts
// stably and paginates. Sorting always happens after filtering.
func (v View[T]) Run(items []T, q Query, now time.Time) (Result[T], error) {
	q, err := v.Normalize(q)
	if err != nil {
		return Result[T]{}, err
	}
	matcher, err := v.compileFilter(q.Filter)
	if err != nil {
		return Result[T]{}, err
	}

	needle := strings.ToLower(q.Search)
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if !v.matchesSearch(item, needle) {
			continue
		}
		if q.Category != CategoryAll && v.Category(item) != q.Category {
			continue
		}
		if q.Date != DateAll && !MatchDate(q.Date, v.Timestamp(item), now) {
			continue
		}
		if !matcher.Empty() {
			ok, err := matcher.Match(v.Resolve(item))
			if err != nil {
				return Result[T]{}, apperrors.Wrap(apperrors.CodeInvalidArgument, "evaluate filter", err)
			}
			if !ok {
				continue
			}
		}
		filtered = append(filtered, item)
	}

	compare := v.Sorts[q.Sort.Key]
	if q.Sort.Direction == Desc {
		asc := compare
		compare = func(a, b T) int { return asc(b, a) }
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return compare(filtered[i], filtered[j]) < 0
	})

	window := pagination.PageWindow(len(filtered), q.Page, q.PageSize)
	q.Page = window.Page
	return Result[T]{
		Items:     filtered[window.Start:window.End],
		Filtered:  len(filtered),
		Total:     len(items),
		Page:      window.Page,
		PageCount: window.PageCount,
		Query:     q,
	}, nil
}

func (v View[T]) matchesSearch(item T, needle string) bool {
	if needle == "" || len(v.SearchFields) == 0 {
		return true
	}
	for _, field := range v.SearchFields {
		if strings.Contains(strings.ToLower(field(item)), needle) {
			return true
		}
	}
	return false
}

func (v View[T]) compileFilter(expression string) (filter.Matcher, error) {
	if expression == "" {
		return filter.Matcher{}, nil
	}
	if v.Resolve == nil || len(v.FilterFields) == 0 {
		return filter.Matcher{}, invalidArgument("filter", expression)
	}
	matcher, err := filter.Compile(expression, v.FilterFields)
	if err != nil {
		return filter.Matcher{}, apperrors.Wrap(apperrors.CodeInvalidArgument, fmt.Sprintf("invalid filter %q", expression), err)
	}
	return matcher, nil
}

// MatchDate reports whether ts falls in r relative to now. Calendar
// comparisons use now's location.
func MatchDate(r DateRange, ts, now time.Time) bool {
	switch r {
	case DateToday:
		return sameDay(ts, now)
	case DateYesterday:
		return sameDay(ts, now.AddDate(0, 0, -1))
	case DateWeek:
		return !ts.Before(now.AddDate(0, 0, -7))
	case DateMonth:
		return !ts.Before(now.AddDate(0, -1, 0))
	default:
		return true
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func invalidArgument(field, value string) error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidArgument,
		fmt.Sprintf("invalid %s %q", field, value),
		map[string]string{"field": field, "value": value},
	)
}
