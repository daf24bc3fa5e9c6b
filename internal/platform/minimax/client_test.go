package minimax

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/doomlearn/doomfeed-backend/internal/llm"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newClientAgainst(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("MINIMAX_BASE_URL", url)
	t.Setenv("MINIMAX_API_KEY", "mm-key")
	c, err := NewClient(testLogger(t))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestGenerateSuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello from minimax"}}]}`))
	}))
	defer srv.Close()

	c := newClientAgainst(t, srv.URL)
	text, err := c.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "hello from minimax" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotAuth != "Bearer mm-key" {
		t.Fatalf("auth header wrong: %q", gotAuth)
	}
}

func TestGenerateEmptyChoicesRetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newClientAgainst(t, srv.URL)
	_, err := c.Generate(context.Background(), "hi")
	var pe *llm.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if pe.Attempts != 2 || calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d (error %+v)", calls.Load(), pe)
	}
}

func TestNewClientMissingKey(t *testing.T) {
	t.Setenv("MINIMAX_API_KEY", "")
	if _, err := NewClient(testLogger(t)); err == nil {
		t.Fatal("expected error without credential")
	}
}
