package llm

import (
	"context"
	"errors"
	"testing"
)

type sequenceProvider struct {
	name    string
	outputs []string
	calls   int
}

func (p *sequenceProvider) Name() string { return p.name }

func (p *sequenceProvider) Generate(context.Context, string) (string, error) {
	if p.calls >= len(p.outputs) {
		return "", errors.New("sequence exhausted")
	}
	out := p.outputs[p.calls]
	p.calls++
	return out, nil
}

func sequenceManager(t *testing.T, outputs ...string) (*Manager, *sequenceProvider) {
	t.Helper()
	p := &sequenceProvider{name: "stub", outputs: outputs}
	m := NewManager(testLogger(t))
	m.Register("stub", func(string) (TextProvider, error) { return p, nil })
	return m, p
}

func TestGenerateStructuredFirstTry(t *testing.T) {
	m, p := sequenceManager(t, `{"a":1}`)
	var out map[string]int
	provider, err := GenerateStructured(context.Background(), testLogger(t), m, "prompt", nil, &out)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if provider != "stub" || out["a"] != 1 {
		t.Fatalf("unexpected result: provider=%q out=%v", provider, out)
	}
	if p.calls != 1 {
		t.Fatalf("expected 1 call, got %d", p.calls)
	}
}

func TestGenerateStructuredRecoversOnce(t *testing.T) {
	m, p := sequenceManager(t, "garbage", "```json\n{\"a\":2}\n```")
	var out map[string]int
	_, err := GenerateStructured(context.Background(), testLogger(t), m, "prompt", nil, &out)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out["a"] != 2 {
		t.Fatalf("second completion not used: %v", out)
	}
	if p.calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", p.calls)
	}
}

func TestGenerateStructuredExhaustsRecovery(t *testing.T) {
	m, p := sequenceManager(t, "garbage", "more garbage")
	var out map[string]int
	_, err := GenerateStructured(context.Background(), testLogger(t), m, "prompt", nil, &out)
	var mre *MalformedResponseError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
	if p.calls != 2 {
		t.Fatalf("recovery must regenerate exactly once, got %d calls", p.calls)
	}
}

func TestGenerateStructuredSurfacesGenerationFailure(t *testing.T) {
	m := NewManager(testLogger(t))
	m.Register("stub", func(string) (TextProvider, error) {
		return nil, errors.New("not configured")
	})
	var out map[string]int
	_, err := GenerateStructured(context.Background(), testLogger(t), m, "prompt", nil, &out)
	var npe *NoProvidersAvailableError
	if !errors.As(err, &npe) {
		t.Fatalf("expected NoProvidersAvailableError, got %v", err)
	}
}

func TestGenerateStringsBestEffortDegrades(t *testing.T) {
	m, p := sequenceManager(t, "definitely not an array")
	vals, provider, err := GenerateStringsBestEffort(context.Background(), testLogger(t), m, "prompt", nil)
	if err != nil {
		t.Fatalf("best effort must not fail on parse errors: %v", err)
	}
	if len(vals) != 0 {
		t.Fatalf("expected empty list, got %v", vals)
	}
	if provider != "stub" {
		t.Fatalf("provider name lost: %q", provider)
	}
	if p.calls != 1 {
		t.Fatalf("best effort must not regenerate, got %d calls", p.calls)
	}
}

func TestGenerateStringsBestEffortParses(t *testing.T) {
	m, _ := sequenceManager(t, "```json\n[\"one\", \"two\"]\n```")
	vals, _, err := GenerateStringsBestEffort(context.Background(), testLogger(t), m, "prompt", nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(vals) != 2 || vals[0] != "one" {
		t.Fatalf("unexpected values: %v", vals)
	}
}
