package admin_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"ultra-news/internal/handler/http/admin"
)

type stubRunner struct {
	scheduled bool
	calls     int
}

func (s *stubRunner) Trigger() bool {
	s.calls++
	return s.scheduled
}

func testMux(key string, runner *stubRunner, seedErr error) *http.ServeMux {
	mux := http.NewServeMux()
	seed := func(context.Context) error { return seedErr }
	admin.Register(mux, key, runner, seed, slog.Default())
	return mux
}

func doPost(mux *http.ServeMux, target, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	if key != "" {
		req.Header.Set(admin.KeyHeader, key)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestIngestHandler_Scheduled(t *testing.T) {
	runner := &stubRunner{scheduled: true}
	mux := testMux("secret", runner, nil)

	rec := doPost(mux, "/admin/ingest", "secret")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("code = %d, want 202", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "scheduled" {
		t.Errorf("status = %q, want scheduled", body["status"])
	}
	if runner.calls != 1 {
		t.Errorf("trigger calls = %d, want 1", runner.calls)
	}
}

func TestIngestHandler_AlreadyRunning(t *testing.T) {
	mux := testMux("secret", &stubRunner{scheduled: false}, nil)

	rec := doPost(mux, "/admin/ingest", "secret")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("code = %d, want 202", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "already_running" {
		t.Errorf("status = %q, want already_running", body["status"])
	}
}

func TestRequireKey(t *testing.T) {
	runner := &stubRunner{scheduled: true}
	mux := testMux("secret", runner, nil)

	tests := []struct {
		name     string
		key      string
		wantCode int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "guess", http.StatusUnauthorized},
		{"correct key", "secret", http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doPost(mux, "/admin/ingest", tt.key)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
	if runner.calls != 1 {
		t.Errorf("trigger calls = %d, want 1: rejected requests must not trigger", runner.calls)
	}
}

func TestRequireKey_Unconfigured(t *testing.T) {
	mux := testMux("", &stubRunner{scheduled: true}, nil)

	rec := doPost(mux, "/admin/ingest", "anything")
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404 when no admin key is configured", rec.Code)
	}
}

func TestSeedHandler(t *testing.T) {
	mux := testMux("secret", &stubRunner{}, nil)

	rec := doPost(mux, "/admin/seed", "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}

	mux = testMux("secret", &stubRunner{}, errors.New("insert failed"))
	rec = doPost(mux, "/admin/seed", "secret")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", rec.Code)
	}
}
