package ports

import (
	"context"

	"github.com/flocknet/social-api/internal/core/domain"
)

// UserRepository defines persistence for user records, including the
// set-like edge updates the interaction service relies on. Add/Remove
// operations are idempotent at the store level ($addToSet/$pull semantics):
// adding an id twice leaves one copy, removing a missing id is a no-op.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByHandle(ctx context.Context, handle string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	AddPost(ctx context.Context, userID, postID string) error
	AddLikedPost(ctx context.Context, userID, postID string) error
	RemoveLikedPost(ctx context.Context, userID, postID string) error
}
