package ports

import (
	"context"

	"github.com/flocknet/social-api/internal/core/domain"
)

// NotificationService is the notification read-model. List has a documented
// observable side effect: every returned notification is marked read in the
// same call (read-on-fetch). Clear is idempotent.
type NotificationService interface {
	List(ctx context.Context, acting *domain.User) ([]*domain.Notification, error)
	Clear(ctx context.Context, acting *domain.User) error
}
