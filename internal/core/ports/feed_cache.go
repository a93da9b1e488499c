package ports

import (
	"context"

	"github.com/flocknet/social-api/internal/core/domain"
)

// FeedCache caches the global all-posts feed. A miss returns ok=false and no
// error; cache failures are soft and callers fall back to the repository.
type FeedCache interface {
	GetAll(ctx context.Context) ([]*domain.Post, bool)
	SetAll(ctx context.Context, posts []*domain.Post)
	Invalidate(ctx context.Context)
}
