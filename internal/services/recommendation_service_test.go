package services

import (
	"context"
	"errors"
	"testing"

	"github.com/doomlearn/doomfeed-backend/internal/data/sessions"
	"github.com/doomlearn/doomfeed-backend/internal/llm"
)

func TestRecommendationsCappedAtFive(t *testing.T) {
	log := newTestLogger(t)
	repo := sessions.NewMemoryRepo()
	manager, _ := newStubManager(t, log, `["a", "b", "c", "d", "e", "f", "g"]`)
	sessionSvc := NewSessionService(log, repo)
	recSvc := NewRecommendationService(log, repo, manager)

	id := seedSession(t, repo, sessionSvc)
	recs, err := recSvc.Generate(context.Background(), id, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(recs) != 5 {
		t.Fatalf("expected 5 recommendations, got %d", len(recs))
	}
	if recs[0] != "a" || recs[4] != "e" {
		t.Fatalf("wrong ordering: %v", recs)
	}
}

func TestRecommendationsDegradeToEmptyOnBadOutput(t *testing.T) {
	log := newTestLogger(t)
	repo := sessions.NewMemoryRepo()
	manager, _ := newStubManager(t, log, "I would suggest reading more about audio.")
	sessionSvc := NewSessionService(log, repo)
	recSvc := NewRecommendationService(log, repo, manager)

	id := seedSession(t, repo, sessionSvc)
	recs, err := recSvc.Generate(context.Background(), id, nil)
	if err != nil {
		t.Fatalf("expected graceful degradation, got %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected empty list, got %v", recs)
	}
}

func TestRecommendationsSurfaceProviderFailure(t *testing.T) {
	log := newTestLogger(t)
	repo := sessions.NewMemoryRepo()
	manager := llm.NewManager(log)
	manager.Register("down", func(string) (llm.TextProvider, error) {
		return nil, errors.New("missing credential")
	})
	sessionSvc := NewSessionService(log, repo)
	recSvc := NewRecommendationService(log, repo, manager)

	id := seedSession(t, repo, sessionSvc)
	_, err := recSvc.Generate(context.Background(), id, nil)
	var npe *llm.NoProvidersAvailableError
	if !errors.As(err, &npe) {
		t.Fatalf("expected NoProvidersAvailableError, got %v", err)
	}
}
