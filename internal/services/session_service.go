package services

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/doomlearn/doomfeed-backend/internal/data/sessions"
	"github.com/doomlearn/doomfeed-backend/internal/domain"
	"github.com/doomlearn/doomfeed-backend/internal/ingestion"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

// SessionService creates and retrieves document sessions. All source text is
// truncated before it is stored so downstream prompts stay bounded.
type SessionService struct {
	log  *logger.Logger
	repo sessions.Repo
}

func NewSessionService(log *logger.Logger, repo sessions.Repo) *SessionService {
	return &SessionService{
		log:  log.With("service", "SessionService"),
		repo: repo,
	}
}

func (s *SessionService) Create(ctx context.Context, sourceText, platform string) (*domain.Session, error) {
	session := &domain.Session{
		ID:         uuid.NewString(),
		SourceText: ingestion.Truncate(sourceText),
		Platform:   platform,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	s.log.Info("Session created", "session_id", session.ID, "platform", platform, "source_chars", utf8.RuneCountInString(session.SourceText))
	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.repo.Get(ctx, id)
}
