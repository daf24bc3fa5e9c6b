package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

type fakeProvider struct {
	name  string
	text  string
	err   error
	calls int
	key   string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(context.Context, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func registerFake(m *Manager, f *fakeProvider) {
	m.Register(f.name, func(key string) (TextProvider, error) {
		f.key = key
		return f, nil
	})
}

func TestManagerFirstSuccessWins(t *testing.T) {
	primary := &fakeProvider{name: "gemini", text: "from gemini"}
	secondary := &fakeProvider{name: "minimax", text: "from minimax"}
	m := NewManager(testLogger(t))
	registerFake(m, primary)
	registerFake(m, secondary)

	res, err := m.Generate(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Provider != "gemini" || res.Text != "from gemini" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if secondary.calls != 0 {
		t.Fatalf("lower-priority provider contacted after success: %d calls", secondary.calls)
	}
}

func TestManagerFailsOver(t *testing.T) {
	primary := &fakeProvider{name: "gemini", err: errors.New("quota exhausted")}
	secondary := &fakeProvider{name: "minimax", text: "rescued"}
	m := NewManager(testLogger(t))
	registerFake(m, primary)
	registerFake(m, secondary)

	res, err := m.Generate(context.Background(), "hi", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Provider != "minimax" || res.Text != "rescued" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if primary.calls != 1 {
		t.Fatalf("primary called %d times", primary.calls)
	}
}

func TestManagerAllProvidersFailed(t *testing.T) {
	primary := &fakeProvider{name: "gemini", err: errors.New("down")}
	secondary := &fakeProvider{name: "minimax", err: errors.New("also down")}
	m := NewManager(testLogger(t))
	registerFake(m, primary)
	registerFake(m, secondary)

	_, err := m.Generate(context.Background(), "hi", nil)
	var apf *AllProvidersFailedError
	if !errors.As(err, &apf) {
		t.Fatalf("expected AllProvidersFailedError, got %v", err)
	}
	if apf.Last == nil || apf.Last.Error() != "also down" {
		t.Fatalf("last error not preserved: %v", apf.Last)
	}
}

func TestManagerNoProvidersConfigured(t *testing.T) {
	m := NewManager(testLogger(t))
	m.Register("gemini", func(string) (TextProvider, error) {
		return nil, errors.New("missing GEMINI_API_KEY")
	})

	_, err := m.Generate(context.Background(), "hi", nil)
	var npe *NoProvidersAvailableError
	if !errors.As(err, &npe) {
		t.Fatalf("expected NoProvidersAvailableError, got %v", err)
	}
	if names := m.ProviderNames(); len(names) != 0 {
		t.Fatalf("expected no configured providers, got %v", names)
	}
}

func TestManagerOverrideBuildsTransientProvider(t *testing.T) {
	resident := &fakeProvider{name: "gemini", text: "resident"}
	var overrideKey string
	m := NewManager(testLogger(t))
	m.Register("gemini", func(key string) (TextProvider, error) {
		if key != "" {
			overrideKey = key
			return &fakeProvider{name: "gemini", text: "override"}, nil
		}
		return resident, nil
	})

	res, err := m.Generate(context.Background(), "hi", map[string]string{"gemini": "user-key"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text != "override" {
		t.Fatalf("override adapter not used: %+v", res)
	}
	if overrideKey != "user-key" {
		t.Fatalf("override key not passed through: %q", overrideKey)
	}
	if resident.calls != 0 {
		t.Fatalf("resident provider called despite override: %d", resident.calls)
	}
}

func TestManagerOverrideFallsBackToResident(t *testing.T) {
	resident := &fakeProvider{name: "gemini", text: "resident"}
	m := NewManager(testLogger(t))
	m.Register("gemini", func(key string) (TextProvider, error) {
		if key != "" {
			return nil, errors.New("bad key")
		}
		return resident, nil
	})

	res, err := m.Generate(context.Background(), "hi", map[string]string{"gemini": "broken"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Text != "resident" {
		t.Fatalf("resident fallback not used: %+v", res)
	}
}
