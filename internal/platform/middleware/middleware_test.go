package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func containsHeader(headerValue, target string) bool {
	for part := range strings.SplitSeq(headerValue, ",") {
		if strings.EqualFold(strings.TrimSpace(part), target) {
			return true
		}
	}
	return false
}

func TestSecuritySetsHeaders(t *testing.T) {
	resp := httptest.NewRecorder()
	Security()(http.HandlerFunc(ok)).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))

	for _, kv := range securityHeaders {
		if got := resp.Header().Get(kv[0]); got != kv[1] {
			t.Errorf("%s: expected %q, got %q", kv[0], kv[1], got)
		}
	}
}

func TestSecuritySkipsPaths(t *testing.T) {
	resp := httptest.NewRecorder()
	Security("/api-docs")(http.HandlerFunc(ok)).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api-docs", nil))

	if got := resp.Header().Get("X-Frame-Options"); got != "" {
		t.Fatalf("expected no security headers on skipped path, got %q", got)
	}
}

func TestVary(t *testing.T) {
	resp := httptest.NewRecorder()
	Vary()(http.HandlerFunc(ok)).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	vary := resp.Header().Values("Vary")
	if len(vary) != 2 || vary[0] != "Accept" || vary[1] != "Authorization" {
		t.Fatalf("expected Vary Accept and Authorization, got %v", vary)
	}
}

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	var captured string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		captured = chimiddleware.GetReqID(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get(chimiddleware.RequestIDHeader) != captured {
		t.Fatalf("expected response header %q", captured)
	}
	parsed, err := uuid.Parse(captured)
	if err != nil {
		t.Fatalf("request ID %q is not a UUID: %v", captured, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
}

func TestRequestIDIncomingHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{"valid", "external-id", true},
		{"control character", "bad\nid", false},
		{"too long", strings.Repeat("a", maxRequestIDLength+1), false},
		{"max length", strings.Repeat("a", maxRequestIDLength), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured string
			h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				captured = chimiddleware.GetReqID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(chimiddleware.RequestIDHeader, tt.header)
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got := captured == tt.header; got != tt.reused {
				t.Fatalf("expected reused=%v, got id %q", tt.reused, captured)
			}
		})
	}
}

func TestCORSSimpleRequest(t *testing.T) {
	called := false
	h := CORS()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "http://localhost/v1/profile", nil)
	req.Header.Set("Origin", "http://example.com")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if !called {
		t.Fatal("expected downstream handler to be called")
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected '*', got %q", got)
	}
	expose := resp.Header().Get("Access-Control-Expose-Headers")
	for _, name := range []string{"Link", "X-Request-Id", "Www-Authenticate"} {
		if !containsHeader(expose, name) {
			t.Errorf("expected %s exposed, got %q", name, expose)
		}
	}
}

func TestCORSPreflightPatch(t *testing.T) {
	called := false
	h := CORS()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	req := httptest.NewRequest(http.MethodOptions, "http://localhost/v1/profile", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, traceparent")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if called {
		t.Fatal("expected preflight to be answered by CORS")
	}
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	allow := resp.Header().Get("Access-Control-Allow-Headers")
	for _, name := range []string{"Authorization", "traceparent"} {
		if !containsHeader(allow, name) {
			t.Errorf("expected %s allowed, got %q", name, allow)
		}
	}
}

func TestCORSRestrictedOrigin(t *testing.T) {
	h := CORS("https://nexar.ro")(http.HandlerFunc(ok))
	req := httptest.NewRequest(http.MethodGet, "http://localhost/v1/profile", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow-origin for foreign origin, got %q", got)
	}
}
