package respond

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

type testProblem struct {
	Schema string `json:"$schema"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func decodeProblem(t *testing.T, resp *httptest.ResponseRecorder) testProblem {
	t.Helper()
	if ct := resp.Header().Get("Content-Type"); ct != problemContentType {
		t.Fatalf("expected %s, got %q", problemContentType, ct)
	}
	link := resp.Header().Get("Link")
	if !strings.Contains(link, errorSchemaPath) || !strings.Contains(link, "describedBy") {
		t.Fatalf("expected Link header with schema, got %q", link)
	}
	var p testProblem
	if err := json.Unmarshal(resp.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to unmarshal problem: %v", err)
	}
	if !strings.HasSuffix(p.Schema, errorSchemaPath) {
		t.Fatalf("expected $schema, got %q", p.Schema)
	}
	return p
}

func TestNotFoundHandler(t *testing.T) {
	router := chi.NewRouter()
	router.NotFound(NotFoundHandler())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/missing", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	p := decodeProblem(t, resp)
	if p.Title != "Not Found" || p.Status != http.StatusNotFound || p.Detail != "resource not found" {
		t.Fatalf("unexpected problem %+v", p)
	}
	if p.Schema != "http://example.com"+errorSchemaPath {
		t.Fatalf("unexpected schema %q", p.Schema)
	}
}

func TestSchemaURLUsesHTTPSUnderTLS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.TLS = &tls.ConnectionState{}
	if got := schemaURL(req); got != "https://example.com"+errorSchemaPath {
		t.Fatalf("unexpected schema url %q", got)
	}
}

func TestMethodNotAllowedHandler(t *testing.T) {
	router := chi.NewRouter()
	router.MethodNotAllowed(MethodNotAllowedHandler())
	router.Get("/v1/profile", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Patch("/v1/profile", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/v1/profile", nil))

	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.Code)
	}
	allow := resp.Header().Get("Allow")
	if !strings.Contains(allow, http.MethodGet) || !strings.Contains(allow, http.MethodPatch) {
		t.Fatalf("expected Allow to list GET and PATCH, got %q", allow)
	}
	if p := decodeProblem(t, resp); !strings.Contains(p.Detail, "DELETE") {
		t.Fatalf("expected detail to mention DELETE, got %q", p.Detail)
	}
}

func TestRecovererReturnsProblem(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	api := humachi.New(router, huma.DefaultConfig("Test", "test"))
	huma.Get(api, "/panic", func(context.Context, *struct{}) (*struct{}, error) {
		panic("boom")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if p := decodeProblem(t, resp); p.Detail != "internal server error" {
		t.Fatalf("unexpected detail %q", p.Detail)
	}
}

func TestRecovererSkipsWriteWhenResponseStarted(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/partial", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("late")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/partial", nil))

	if resp.Code != http.StatusAccepted || resp.Body.String() != "partial" {
		t.Fatalf("expected untouched response, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestRecovererRePanicsOnErrAbortHandler(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Recoverer())
	router.Get("/abort", func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, http.ErrAbortHandler) {
			t.Fatalf("expected http.ErrAbortHandler to be re-panicked, got %v", rec)
		}
	}()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
	t.Fatal("expected panic to propagate")
}

func TestInstallKeepsHumaErrorShape(t *testing.T) {
	Install()
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("Test", "test"))
	huma.Get(api, "/fail", func(context.Context, *struct{}) (*struct{}, error) {
		return nil, errors.New("db exploded")
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/fail", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var model huma.ErrorModel
	if err := json.Unmarshal(resp.Body.Bytes(), &model); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if model.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", model.Status)
	}
}

func TestResponseWriterUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}
	if rw.Unwrap() != rec {
		t.Fatal("expected Unwrap to return the underlying writer")
	}
	if _, err := rw.Write([]byte("x")); err != nil || !rw.wroteHeader {
		t.Fatalf("expected write to mark header, err=%v", err)
	}
}
