package sessions

import (
	"context"
	"fmt"

	"github.com/doomlearn/doomfeed-backend/internal/domain"
)

// Repo stores sessions keyed by id. Sessions are created once, read by the
// generation endpoints, have posts attached after a successful feed
// generation, and are never deleted.
type Repo interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	UpdatePosts(ctx context.Context, id string, posts []domain.Post) error
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.ID)
}

func clonePosts(posts []domain.Post) []domain.Post {
	if posts == nil {
		return nil
	}
	out := make([]domain.Post, len(posts))
	copy(out, posts)
	for i := range out {
		if out[i].Citations != nil {
			out[i].Citations = append([]string(nil), out[i].Citations...)
		}
		if out[i].Comments != nil {
			comments := make([]domain.Comment, len(out[i].Comments))
			copy(comments, out[i].Comments)
			for j := range comments {
				if comments[j].Citations != nil {
					comments[j].Citations = append([]string(nil), comments[j].Citations...)
				}
			}
			out[i].Comments = comments
		}
	}
	return out
}

func cloneSession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	out := *s
	out.GeneratedPosts = clonePosts(s.GeneratedPosts)
	return &out
}
