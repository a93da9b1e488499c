package ports

import (
	"context"

	"github.com/flocknet/social-api/internal/core/domain"
)

// NotificationRepository defines persistence for notification records.
// FindByRecipient expands the actor to handle + profile image only.
type NotificationRepository interface {
	Create(ctx context.Context, fromID, toID string, kind domain.NotificationKind) error
	FindByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) error
	DeleteByRecipient(ctx context.Context, recipientID string) error
}
