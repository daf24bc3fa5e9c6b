package services

import (
	"context"
	"errors"
	"testing"

	"github.com/doomlearn/doomfeed-backend/internal/data/sessions"
	"github.com/doomlearn/doomfeed-backend/internal/llm"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

type scriptedProvider struct {
	name    string
	outputs []string
	calls   int
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) Generate(_ context.Context, _ string) (string, error) {
	if p.calls >= len(p.outputs) {
		return "", errors.New("no more scripted outputs")
	}
	out := p.outputs[p.calls]
	p.calls++
	return out, nil
}

func newStubManager(t *testing.T, log *logger.Logger, outputs ...string) (*llm.Manager, *scriptedProvider) {
	t.Helper()
	stub := &scriptedProvider{name: "stub", outputs: outputs}
	m := llm.NewManager(log)
	m.Register("stub", func(string) (llm.TextProvider, error) { return stub, nil })
	return m, stub
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func seedSession(t *testing.T, repo sessions.Repo, svc *SessionService) string {
	t.Helper()
	session, err := svc.Create(context.Background(), "analog audio basics", "reddit")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session.ID
}

const twoPostFeed = `[
  {"id": "p1", "platform": "reddit", "post_type": "question", "title": "How do turntables work?",
   "body": "asking for a friend", "author_handle": "u/vinyl_head", "upvotes": 1200,
   "timestamp": "2 hours ago", "citations": ["Source: doc"], "comments": []},
  {"post_type": "rant", "title": "Digital killed warmth", "body": "fight me",
   "author_handle": "u/warm_sound", "upvotes": 5000, "timestamp": "1 day ago",
   "citations": [], "comments": []}
]`

func TestFeedGenerateNormalizesPosts(t *testing.T) {
	log := newTestLogger(t)
	repo := sessions.NewMemoryRepo()
	manager, _ := newStubManager(t, log, twoPostFeed)
	sessionSvc := NewSessionService(log, repo)
	feedSvc := NewFeedService(log, repo, manager)

	id := seedSession(t, repo, sessionSvc)
	res, err := feedSvc.Generate(context.Background(), id, "reddit", 2, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(res.Posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(res.Posts))
	}
	if res.Posts[0].ID != "p1" {
		t.Fatalf("provided id overwritten: %q", res.Posts[0].ID)
	}
	if res.Posts[1].ID == "" {
		t.Fatal("missing id was not synthesized")
	}
	if res.Posts[1].Platform != "reddit" {
		t.Fatalf("platform not backfilled: %q", res.Posts[1].Platform)
	}

	stored, err := repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(stored.GeneratedPosts) != 2 {
		t.Fatalf("posts not persisted, got %d", len(stored.GeneratedPosts))
	}
}

func TestFeedGenerateRecoversFromUnparsableOutput(t *testing.T) {
	log := newTestLogger(t)
	repo := sessions.NewMemoryRepo()
	manager, stub := newStubManager(t, log, "sorry, I can't do that", twoPostFeed)
	sessionSvc := NewSessionService(log, repo)
	feedSvc := NewFeedService(log, repo, manager)

	id := seedSession(t, repo, sessionSvc)
	res, err := feedSvc.Generate(context.Background(), id, "reddit", 2, nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if stub.calls != 2 {
		t.Fatalf("expected one regeneration, provider called %d times", stub.calls)
	}
	if len(res.Posts) != 2 {
		t.Fatalf("expected 2 posts after recovery, got %d", len(res.Posts))
	}
}

func TestFeedGenerateHardFailsAfterSecondParseFailure(t *testing.T) {
	log := newTestLogger(t)
	repo := sessions.NewMemoryRepo()
	manager, _ := newStubManager(t, log, "not json", "still not json")
	sessionSvc := NewSessionService(log, repo)
	feedSvc := NewFeedService(log, repo, manager)

	id := seedSession(t, repo, sessionSvc)
	_, err := feedSvc.Generate(context.Background(), id, "reddit", 2, nil)
	var mre *llm.MalformedResponseError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}

	stored, err := repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if len(stored.GeneratedPosts) != 0 {
		t.Fatalf("failed generation must not persist posts, got %d", len(stored.GeneratedPosts))
	}
}

func TestFeedGenerateUnknownSession(t *testing.T) {
	log := newTestLogger(t)
	repo := sessions.NewMemoryRepo()
	manager, stub := newStubManager(t, log, twoPostFeed)
	feedSvc := NewFeedService(log, repo, manager)

	_, err := feedSvc.Generate(context.Background(), "missing", "reddit", 2, nil)
	var nf *sessions.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("provider contacted for unknown session: %d calls", stub.calls)
	}
}
