package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/doomlearn/doomfeed-backend/internal/domain"
)

func newTestSession(id string) *domain.Session {
	return &domain.Session{
		ID:         id,
		SourceText: "a short document",
		Platform:   "reddit",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestMemoryRepoCreateGet(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, newTestSession("s1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "s1" || got.SourceText != "a short document" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestMemoryRepoGetMissing(t *testing.T) {
	repo := NewMemoryRepo()
	_, err := repo.Get(context.Background(), "nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "nope" {
		t.Fatalf("wrong id in error: %q", nf.ID)
	}
}

func TestMemoryRepoUpdatePostsMissing(t *testing.T) {
	repo := NewMemoryRepo()
	err := repo.UpdatePosts(context.Background(), "nope", nil)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, newTestSession("s1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.UpdatePosts(ctx, "s1", []domain.Post{{ID: "p1", Title: "original"}}); err != nil {
		t.Fatalf("update posts: %v", err)
	}

	first, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first.GeneratedPosts[0].Title = "mutated"

	second, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if second.GeneratedPosts[0].Title != "original" {
		t.Fatalf("stored session mutated through returned copy: %+v", second.GeneratedPosts[0])
	}
}

func TestMemoryRepoConcurrentUpdates(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	if err := repo.Create(ctx, newTestSession("s1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			posts := []domain.Post{{ID: fmt.Sprintf("p%d", i), Platform: "reddit"}}
			if err := repo.UpdatePosts(ctx, "s1", posts); err != nil {
				t.Errorf("update posts: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.GeneratedPosts) != 1 {
		t.Fatalf("expected a single winning write, got %d posts", len(got.GeneratedPosts))
	}
}
