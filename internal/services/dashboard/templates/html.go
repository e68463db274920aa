// Package templates renders the dashboard's HTML as templ components.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/safedrive/dashboard/internal/platform/i18n"
)

// Localizer formats message keys for one language.
type Localizer = i18n.Localizer

// T localizes key. A nil loc uses the default language.
func T(loc Localizer, key string, args ...any) string {
	if loc == nil {
		loc = i18n.Printer(i18n.Default)
	}
	return loc.Sprintf(key, args...)
}

// html accumulates the first write error so components read top to bottom.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (h *html) int(v int) {
	h.raw(strconv.Itoa(v))
}

func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// element writes <tag class="class">text</tag>.
func (h *html) element(tag, class, text string) {
	h.raw("<" + tag)
	if class != "" {
		h.attr("class", class)
	}
	h.raw(">")
	h.text(text)
	h.raw("</" + tag + ">")
}

func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}
