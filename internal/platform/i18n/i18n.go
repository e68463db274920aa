// Package i18n resolves request languages and localized message printers.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Default is the fallback language.
var Default = language.English

// Supported lists the languages with a message table, fallback first.
var Supported = []language.Tag{language.English, language.Spanish}

var (
	matcher  = language.NewMatcher(Supported)
	messages = mustBuildCatalog()
)

// Localizer formats message keys for one language.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// ResolveLanguage picks the best supported language from Accept-Language.
func ResolveLanguage(r *http.Request) language.Tag {
	if r == nil {
		return Default
	}
	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	return Supported[index]
}

// Printer returns a message printer bound to the SafeDrive catalog.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// ForRequest resolves the request language and returns its printer.
func ForRequest(r *http.Request) (*message.Printer, language.Tag) {
	tag := ResolveLanguage(r)
	return Printer(tag), tag
}

func mustBuildCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(Default))
	for tag, table := range tables {
		for key, text := range table {
			if err := builder.SetString(tag, key, text); err != nil {
				panic("i18n: " + err.Error())
			}
		}
	}
	return builder
}
