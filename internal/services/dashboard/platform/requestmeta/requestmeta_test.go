package requestmeta

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsHTTPS(t *testing.T) {
	t.Parallel()

	plain := httptest.NewRequest(http.MethodGet, "http://localhost:8080/login", nil)
	if IsHTTPS(plain) {
		t.Fatal("expected plain request to be http")
	}

	secure := httptest.NewRequest(http.MethodGet, "/login", nil)
	secure.TLS = &tls.ConnectionState{}
	if !IsHTTPS(secure) {
		t.Fatal("expected TLS request to be https")
	}

	proxied := httptest.NewRequest(http.MethodGet, "/login", nil)
	proxied.Header.Set("X-Forwarded-Proto", "https")
	if IsHTTPS(proxied) {
		t.Fatal("expected forwarded proto to be ignored by default")
	}
	if !IsHTTPSWithPolicy(proxied, SchemePolicy{TrustForwardedProto: true}) {
		t.Fatal("expected forwarded proto to be trusted by policy")
	}
}

func TestHasSameOriginProof(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		host    string
		origin  string
		referer string
		want    bool
	}{
		{name: "matching origin", host: "localhost:8080", origin: "http://localhost:8080", want: true},
		{name: "matching referer", host: "localhost:8080", referer: "http://localhost:8080/login", want: true},
		{name: "default port", host: "example.com", origin: "http://example.com:80", want: true},
		{name: "other host", host: "localhost:8080", origin: "http://evil.test:8080"},
		{name: "other port", host: "localhost:8080", origin: "http://localhost:9090"},
		{name: "other scheme", host: "localhost:8080", origin: "https://localhost:8080"},
		{name: "origin wins over referer", host: "localhost:8080", origin: "http://evil.test", referer: "http://localhost:8080/"},
		{name: "no proof", host: "localhost:8080"},
		{name: "garbage origin", host: "localhost:8080", origin: "::::"},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodPost, "/logout", nil)
		req.Host = tc.host
		if tc.origin != "" {
			req.Header.Set("Origin", tc.origin)
		}
		if tc.referer != "" {
			req.Header.Set("Referer", tc.referer)
		}
		if got := HasSameOriginProof(req); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
	if HasSameOriginProof(nil) {
		t.Fatal("expected nil request to have no proof")
	}
}
