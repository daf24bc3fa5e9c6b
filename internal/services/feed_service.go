package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/doomlearn/doomfeed-backend/internal/data/sessions"
	"github.com/doomlearn/doomfeed-backend/internal/domain"
	"github.com/doomlearn/doomfeed-backend/internal/llm"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

const DefaultPostCount = 10

// FeedService turns a session's source text into a batch of simulated posts.
// Concurrent generations for the same session share one in-flight call so a
// double-submitted request cannot race the session's stored posts.
type FeedService struct {
	log     *logger.Logger
	repo    sessions.Repo
	manager *llm.Manager
	group   singleflight.Group
}

type FeedResult struct {
	SessionID string        `json:"session_id"`
	Posts     []domain.Post `json:"posts"`
	Platform  string        `json:"platform"`
	Provider  string        `json:"-"`
}

func NewFeedService(log *logger.Logger, repo sessions.Repo, manager *llm.Manager) *FeedService {
	return &FeedService{
		log:     log.With("service", "FeedService"),
		repo:    repo,
		manager: manager,
	}
}

func (s *FeedService) Generate(ctx context.Context, sessionID, platform string, postCount int, overrides map[string]string) (*FeedResult, error) {
	if postCount <= 0 {
		postCount = DefaultPostCount
	}
	key := fmt.Sprintf("%s|%s|%d", sessionID, platform, postCount)
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.generate(ctx, sessionID, platform, postCount, overrides)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.Debug("Feed generation deduplicated", "session_id", sessionID)
	}
	return v.(*FeedResult), nil
}

func (s *FeedService) generate(ctx context.Context, sessionID, platform string, postCount int, overrides map[string]string) (*FeedResult, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	prompt := feedPrompt(session.SourceText, platform, postCount)
	var posts []domain.Post
	provider, err := llm.GenerateStructured(ctx, s.log, s.manager, prompt, overrides, &posts)
	if err != nil {
		return nil, err
	}
	s.log.Info("Feed generated", "session_id", sessionID, "provider", provider, "posts", len(posts))

	normalizePosts(posts, platform)

	if err := s.repo.UpdatePosts(ctx, sessionID, posts); err != nil {
		return nil, err
	}
	return &FeedResult{
		SessionID: sessionID,
		Posts:     posts,
		Platform:  platform,
		Provider:  provider,
	}, nil
}

// normalizePosts guarantees every post carries a usable id and platform
// before it is persisted, regardless of what the model produced.
func normalizePosts(posts []domain.Post, platform string) {
	for i := range posts {
		if posts[i].ID == "" {
			posts[i].ID = uuid.NewString()
		}
		if posts[i].Platform == "" {
			posts[i].Platform = platform
		}
	}
}
