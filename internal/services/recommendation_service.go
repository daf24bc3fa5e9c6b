package services

import (
	"context"

	"github.com/doomlearn/doomfeed-backend/internal/data/sessions"
	"github.com/doomlearn/doomfeed-backend/internal/llm"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

const maxRecommendations = 5

// RecommendationService suggests follow-up prompts for a session. Parse
// failures degrade to an empty list instead of failing the request.
type RecommendationService struct {
	log     *logger.Logger
	repo    sessions.Repo
	manager *llm.Manager
}

func NewRecommendationService(log *logger.Logger, repo sessions.Repo, manager *llm.Manager) *RecommendationService {
	return &RecommendationService{
		log:     log.With("service", "RecommendationService"),
		repo:    repo,
		manager: manager,
	}
}

func (s *RecommendationService) Generate(ctx context.Context, sessionID string, overrides map[string]string) ([]string, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	prompt := recommendationsPrompt(session.SourceText)
	recs, provider, err := llm.GenerateStringsBestEffort(ctx, s.log, s.manager, prompt, overrides)
	if err != nil {
		return nil, err
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	s.log.Info("Recommendations generated", "session_id", sessionID, "provider", provider, "count", len(recs))
	return recs, nil
}
