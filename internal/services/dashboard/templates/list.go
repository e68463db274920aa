package templates

import (
	"context"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/platform/i18n"
	"github.com/safedrive/dashboard/internal/services/dashboard/dataset"
	"github.com/safedrive/dashboard/internal/services/dashboard/listview"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
)

// Column is one table header.
type Column struct {
	Key      string
	Label    string
	Sortable bool
}

// Cell is one table cell.
type Cell struct {
	Text  string
	Class string
}

// Option is one select option.
type Option struct {
	Value string
	Label string
}

// ListTable is a filterable, sortable table page.
type ListTable struct {
	Path              string
	Query             listview.Query
	SearchPlaceholder string
	CategoryLabel     string
	Categories        []Option
	Dates             []Option
	Columns           []Column
	Rows              [][]Cell
	Filtered          int
	Total             int
	Page              int
	PageCount         int
}

// ListPage renders filters, the table or its empty state, and pagination.
func ListPage(list ListTable, loc Localizer) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<section class="list">`)
		listFilters(h, list, loc)
		h.element("p", "muted list-count", T(loc, i18n.KeyShowing, list.Filtered, list.Total))
		if len(list.Rows) == 0 {
			h.element("div", "empty", T(loc, i18n.KeyNoRecords))
		} else {
			listTable(h, list, loc)
		}
		listPagination(h, list, loc)
		h.raw("</section>")
	})
}

func listFilters(h *html, list ListTable, loc Localizer) {
	q := list.Query
	h.raw(`<form method="get" class="filters"`)
	h.attr("action", list.Path)
	h.raw(`><input type="search"`)
	h.attr("name", listview.ParamSearch)
	h.attr("value", q.Search)
	h.attr("placeholder", T(loc, list.SearchPlaceholder))
	h.raw(">")
	if len(list.Categories) > 0 {
		options := append([]Option{{Value: listview.CategoryAll, Label: T(loc, "All")}}, list.Categories...)
		selectField(h, listview.ParamCategory, T(loc, list.CategoryLabel), q.Category, options)
	}
	if len(list.Dates) > 0 {
		selectField(h, listview.ParamDate, T(loc, "Date"), string(q.Date), list.Dates)
	}
	h.raw(`<input type="text" class="expression"`)
	h.attr("name", listview.ParamFilter)
	h.attr("value", q.Filter)
	h.attr("placeholder", T(loc, "Filter expression"))
	h.raw(">")
	hidden(h, listview.ParamSort, q.Sort.Key)
	hidden(h, listview.ParamDir, string(q.Sort.Direction))
	h.raw(`<button type="submit" class="button">`)
	h.text(T(loc, "Apply"))
	h.raw("</button></form>")
}

func selectField(h *html, name, label, selected string, options []Option) {
	h.raw(`<label class="select"><span>`)
	h.text(label)
	h.raw("</span><select")
	h.attr("name", name)
	h.raw(">")
	for _, opt := range options {
		h.raw("<option")
		h.attr("value", opt.Value)
		if opt.Value == selected {
			h.raw(" selected")
		}
		h.raw(">")
		h.text(opt.Label)
		h.raw("</option>")
	}
	h.raw("</select></label>")
}

func hidden(h *html, name, value string) {
	if value == "" {
		return
	}
	h.raw(`<input type="hidden"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(">")
}

func listTable(h *html, list ListTable, loc Localizer) {
	h.raw(`<table class="table"><thead><tr>`)
	for _, col := range list.Columns {
		h.raw("<th")
		h.attr("scope", "col")
		if !col.Sortable {
			h.raw(">")
			h.text(T(loc, col.Label))
			h.raw("</th>")
			continue
		}
		active := list.Query.Sort.Key == col.Key
		if active {
			sort := "ascending"
			if list.Query.Sort.Direction == listview.Desc {
				sort = "descending"
			}
			h.attr("aria-sort", sort)
		}
		h.raw("><a")
		h.attr("href", toggleURL(list.Path, list.Query, col.Key))
		h.raw(">")
		h.text(T(loc, col.Label))
		if active {
			if list.Query.Sort.Direction == listview.Asc {
				h.raw(" &#8593;")
			} else {
				h.raw(" &#8595;")
			}
		}
		h.raw("</a></th>")
	}
	h.raw("</tr></thead><tbody>")
	for _, row := range list.Rows {
		h.raw("<tr>")
		for _, cell := range row {
			h.raw("<td>")
			if cell.Class != "" {
				h.element("span", cell.Class, cell.Text)
			} else {
				h.text(cell.Text)
			}
			h.raw("</td>")
		}
		h.raw("</tr>")
	}
	h.raw("</tbody></table>")
}

func toggleURL(path string, q listview.Query, column string) string {
	values := q.Values()
	values.Del(listview.ParamPage)
	values.Set(listview.ParamToggle, column)
	return routepath.WithQuery(path, values.Encode())
}

// PageURL returns the list URL of page.
func PageURL(path string, q listview.Query, page int) string {
	return routepath.WithQuery(path, q.WithPage(page).Values().Encode())
}

func listPagination(h *html, list ListTable, loc Localizer) {
	if list.PageCount <= 1 {
		return
	}
	h.raw(`<nav class="pagination">`)
	if list.Page > 1 {
		h.raw("<a")
		h.attr("href", PageURL(list.Path, list.Query, list.Page-1))
		h.attr("rel", "prev")
		h.raw(">")
		h.text(T(loc, "Previous"))
		h.raw("</a>")
	}
	h.element("span", "", T(loc, "Page %d of %d", list.Page, list.PageCount))
	if list.Page < list.PageCount {
		h.raw("<a")
		h.attr("href", PageURL(list.Path, list.Query, list.Page+1))
		h.attr("rel", "next")
		h.raw(">")
		h.text(T(loc, "Next"))
		h.raw("</a>")
	}
	h.raw("</nav>")
}

var dateLabels = map[listview.DateRange]string{
	listview.DateAll:       "All time",
	listview.DateToday:     "Today",
	listview.DateYesterday: "Yesterday",
	listview.DateWeek:      "Last 7 days",
	listview.DateMonth:     "Last 30 days",
}

// DateOptions returns the date select options of ranges, led by all time.
func DateOptions(loc Localizer, ranges []listview.DateRange) []Option {
	options := []Option{{Value: string(listview.DateAll), Label: T(loc, dateLabels[listview.DateAll])}}
	for _, r := range ranges {
		options = append(options, Option{Value: string(r), Label: T(loc, dateLabels[r])})
	}
	return options
}

// AlertTypeOptions returns the alert type select options for audience.
func AlertTypeOptions(loc Localizer, audience Audience) []Option {
	options := make([]Option, 0, len(dataset.AlertTypes))
	for _, t := range dataset.AlertTypes {
		options = append(options, Option{Value: string(t), Label: AlertLabel(loc, audience, t)})
	}
	return options
}

// StatusOptions returns the driver status select options.
func StatusOptions(loc Localizer) []Option {
	options := make([]Option, 0, len(dataset.DriverStatuses))
	for _, s := range dataset.DriverStatuses {
		options = append(options, Option{Value: string(s), Label: StatusLabel(loc, s)})
	}
	return options
}

// StatusLabel returns the localized label of a driver status.
func StatusLabel(loc Localizer, status dataset.DriverStatus) string {
	switch status {
	case dataset.DriverActive:
		return T(loc, "Active")
	case dataset.DriverInactive:
		return T(loc, "Inactive")
	case dataset.DriverSuspended:
		return T(loc, "Suspended")
	default:
		return string(status)
	}
}
