package ports

import (
	"context"

	"github.com/flocknet/social-api/internal/core/domain"
)

// PostRepository defines persistence for posts. All read operations expand
// author and comment-author identity (handle, full name, profile image) and
// never surface password hashes. FindAll, FindByAuthors and FindByAuthor
// return newest-first; FindByIDs preserves no particular order.
type PostRepository interface {
	Create(ctx context.Context, authorID, text, mediaURL string) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	DeleteByID(ctx context.Context, id string) error

	AppendComment(ctx context.Context, postID string, comment domain.Comment) error
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error

	FindAll(ctx context.Context) ([]*domain.Post, error)
	FindByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error)
	FindByAuthors(ctx context.Context, authorIDs []string) ([]*domain.Post, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Post, error)
}
