package i18n

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestResolveLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   language.Tag
	}{
		{name: "missing", header: "", want: language.English},
		{name: "spanish region", header: "es-MX,es;q=0.9", want: language.Spanish},
		{name: "english preferred", header: "en-US,es;q=0.5", want: language.English},
		{name: "unsupported falls back", header: "ja-JP", want: language.English},
		{name: "malformed", header: ";;;", want: language.English},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Accept-Language", tc.header)
			}
			if got := ResolveLanguage(req); got != tc.want {
				t.Fatalf("ResolveLanguage() = %v, want %v", got, tc.want)
			}
		})
	}
	if got := ResolveLanguage(nil); got != Default {
		t.Fatalf("nil request = %v, want %v", got, Default)
	}
}

func TestPrinterTranslates(t *testing.T) {
	t.Parallel()

	if got := Printer(language.English).Sprintf(KeyAlertDrunk); got != "Drunk" {
		t.Fatalf("en drunk = %q", got)
	}
	if got := Printer(language.Spanish).Sprintf(KeyAlertImpairment); got != "Deterioro" {
		t.Fatalf("es impairment = %q", got)
	}
	if got := Printer(language.English).Sprintf(KeyShowing, 3, 10); got != "Showing 3 of 10" {
		t.Fatalf("en showing = %q", got)
	}
}

func TestTablesHaveSameKeys(t *testing.T) {
	t.Parallel()

	base := tables[Default]
	for tag, table := range tables {
		if len(table) != len(base) {
			t.Fatalf("%v has %d keys, want %d", tag, len(table), len(base))
		}
		for key := range base {
			if _, ok := table[key]; !ok {
				t.Fatalf("%v missing key %q", tag, key)
			}
		}
	}
}
