package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/RedPhoenixQ/reddit-proxy/internal/shared"
)

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := shared.NewLogger(&logs)

	var seen string
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/r/golang", nil))

	id := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected uuid request id, got %q", id)
	}
	if seen != id {
		t.Errorf("context request id = %q, header = %q", seen, id)
	}

	out := logs.String()
	for _, want := range []string{"path=/r/golang", "status=418", "request_id=" + id} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output %q", want, out)
		}
	}
}

func TestRequestIDOutsideRequest(t *testing.T) {
	if id := RequestID(context.Background()); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}
}

func TestRecoverer(t *testing.T) {
	var logs bytes.Buffer
	h := Recoverer(shared.NewLogger(&logs))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(logs.String(), "handler panic") {
		t.Errorf("expected panic to be logged, got %q", logs.String())
	}
}

func TestListenAndServe(t *testing.T) {
	srv := NewHTTPServer("127.0.0.1:0", http.NotFoundHandler())
	if srv.ReadHeaderTimeout == 0 || srv.IdleTimeout == 0 {
		t.Fatal("expected server timeouts to be set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ListenAndServe(ctx, srv, shared.NewLogger(&bytes.Buffer{})) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
