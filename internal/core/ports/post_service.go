package ports

import (
	"context"

	"github.com/flocknet/social-api/internal/core/domain"
)

// CreatePostInput carries the content of a new post. Media, when present, is
// the raw payload; the service uploads it and persists the returned URL.
type CreatePostInput struct {
	Text             string
	Media            []byte
	MediaContentType string
}

// LikeResult reports the outcome of a like toggle.
type LikeResult struct {
	Liked bool // true = like applied, false = unlike applied
}

// PostService is the interaction engine: post lifecycle, comments, the
// like/unlike toggle, and the feed queries. Every operation takes the acting
// user resolved by the auth middleware; caller-supplied identity is never
// trusted for authorization decisions.
type PostService interface {
	CreatePost(ctx context.Context, acting *domain.User, in CreatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, acting *domain.User, postID string) error
	CommentPost(ctx context.Context, acting *domain.User, postID, text string) error
	LikeUnlikePost(ctx context.Context, acting *domain.User, postID string) (*LikeResult, error)

	GetAllPosts(ctx context.Context) ([]*domain.Post, error)
	GetFollowingPosts(ctx context.Context, acting *domain.User) ([]*domain.Post, error)
	GetLikedPosts(ctx context.Context, acting *domain.User) ([]*domain.Post, error)
	GetUserPosts(ctx context.Context, handle string) ([]*domain.Post, error)
}
