// Package listpage serves filterable list views as pages.
package listpage

import (
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/platform/otel"
	"github.com/safedrive/dashboard/internal/services/dashboard/listview"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/httpx"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/pagerender"
	"github.com/safedrive/dashboard/internal/services/dashboard/platform/weberror"
	"github.com/safedrive/dashboard/internal/services/dashboard/routepath"
	"github.com/safedrive/dashboard/internal/services/dashboard/templates"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Page serves one list view.
type Page[T any] struct {
	Title    string
	Subtitle string
	Path     string
	View     listview.View[T]
	Items    func() []T
	Now      func() time.Time
	Logger   *zap.Logger

	// Table returns the static table parts: columns, select options and
	// placeholders. Rows, counts and the query are filled per request.
	Table func(loc templates.Localizer) templates.ListTable
	Row   func(loc templates.Localizer, item T) []templates.Cell
	// Summary, when set, renders between the header and the table.
	Summary func(loc templates.Localizer) templ.Component
}

// ServeHTTP runs the view over the request's query. A toggle parameter
// redirects to the canonical URL of the toggled sort.
func (p Page[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := listview.ParseQuery(values)

	if column := strings.TrimSpace(values.Get(listview.ParamToggle)); column != "" {
		location, err := p.toggle(q, column)
		if err != nil {
			weberror.Write(w, r, p.log(), err)
			return
		}
		httpx.WriteRedirect(w, r, location)
		return
	}

	_, span := otel.Tracer().Start(r.Context(), "listview.Run", trace.WithAttributes(
		attribute.String("listview.name", p.View.Name),
	))
	result, err := p.View.Run(p.items(), q, p.now())
	if err != nil {
		span.RecordError(err)
		span.End()
		weberror.Write(w, r, p.log(), err)
		return
	}
	span.SetAttributes(
		attribute.Int("listview.total", result.Total),
		attribute.Int("listview.filtered", result.Filtered),
	)
	span.End()

	loc := pagerender.Localizer(r)
	title := templates.T(loc, p.Title)
	components := []templ.Component{templates.PageHeader(title, templates.T(loc, p.Subtitle))}
	if p.Summary != nil {
		components = append(components, p.Summary(loc))
	}
	components = append(components, templates.ListPage(p.table(loc, result), loc))

	if err := pagerender.Write(w, r, pagerender.Page{Title: title, Fragment: templ.Join(components...)}); err != nil {
		p.log().Warn("render list page", zap.String("view", p.View.Name), zap.Error(err))
	}
}

func (p Page[T]) toggle(q listview.Query, column string) (string, error) {
	q, err := p.View.Normalize(q)
	if err != nil {
		return "", err
	}
	sort, err := p.View.Toggle(q.Sort, column)
	if err != nil {
		return "", err
	}
	return routepath.WithQuery(p.Path, q.WithSort(sort).Values().Encode()), nil
}

func (p Page[T]) table(loc templates.Localizer, result listview.Result[T]) templates.ListTable {
	var table templates.ListTable
	if p.Table != nil {
		table = p.Table(loc)
	}
	table.Path = p.Path
	table.Query = result.Query
	table.Filtered = result.Filtered
	table.Total = result.Total
	table.Page = result.Page
	table.PageCount = result.PageCount
	table.Rows = make([][]templates.Cell, 0, len(result.Items))
	for _, item := range result.Items {
		table.Rows = append(table.Rows, p.Row(loc, item))
	}
	return table
}

func (p Page[T]) items() []T {
	if p.Items == nil {
		return nil
	}
	return p.Items()
}

func (p Page[T]) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p Page[T]) log() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
