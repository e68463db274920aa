// Package listview implements the filter, sort and paginate pipeline shared
// by every table page of the dashboard.
package listview

import (
	"net/url"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is asc or desc.
func (d Direction) Valid() bool { return d == Asc || d == Desc }

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// DateRange selects records relative to the current time.
type DateRange string

const (
	DateAll       DateRange = "all"
	DateToday     DateRange = "today"
	DateYesterday DateRange = "yesterday"
	DateWeek      DateRange = "week"
	DateMonth     DateRange = "month"
)

// CategoryAll bypasses the category filter.
const CategoryAll = "all"

// SortState is the active sort column and direction.
type SortState struct {
	Key       string
	Direction Direction
}

// Query is the per-view filter and sort state carried in the page URL.
type Query struct {
	Search   string
	Category string
	Date     DateRange
	Sort     SortState
	Filter   string
	Page     int
	PageSize int
}

// Query string parameter names.
const (
	ParamSearch   = "q"
	ParamCategory = "category"
	ParamDate     = "date"
	ParamSort     = "sort"
	ParamDir      = "dir"
	ParamFilter   = "filter"
	ParamPage     = "page"
	ParamPageSize = "size"
	ParamToggle   = "toggle"
)

// ParseQuery reads a Query from URL parameters. Values are validated by
// View.Normalize, not here; malformed page numbers read as zero.
func ParseQuery(values url.Values) Query {
	page, _ := strconv.Atoi(strings.TrimSpace(values.Get(ParamPage)))
	size, _ := strconv.Atoi(strings.TrimSpace(values.Get(ParamPageSize)))
	return Query{
		Search:   strings.TrimSpace(values.Get(ParamSearch)),
		Category: strings.TrimSpace(values.Get(ParamCategory)),
		Date:     DateRange(strings.TrimSpace(values.Get(ParamDate))),
		Sort: SortState{
			Key:       strings.TrimSpace(values.Get(ParamSort)),
			Direction: Direction(strings.ToLower(strings.TrimSpace(values.Get(ParamDir)))),
		},
		Filter:   strings.TrimSpace(values.Get(ParamFilter)),
		Page:     page,
		PageSize: size,
	}
}

// Values encodes q as URL parameters, omitting empty and bypass values.
func (q Query) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set(ParamSearch, q.Search)
	if q.Category != CategoryAll {
		set(ParamCategory, q.Category)
	}
	if q.Date != DateAll {
		set(ParamDate, string(q.Date))
	}
	set(ParamSort, q.Sort.Key)
	set(ParamDir, string(q.Sort.Direction))
	set(ParamFilter, q.Filter)
	if q.Page > 1 {
		values.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set(ParamPageSize, strconv.Itoa(q.PageSize))
	}
	return values
}

// WithSort returns a copy of q sorted by s and reset to the first page.
func (q Query) WithSort(s SortState) Query {
	q.Sort = s
	q.Page = 1
	return q
}

// WithPage returns a copy of q on page.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}
