package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/flocknet/social-api/internal/core/domain"
	"github.com/flocknet/social-api/internal/core/ports"
)

// NotificationService is the notification read-model.
type NotificationService struct {
	notifs ports.NotificationRepository
	log    zerolog.Logger
}

func NewNotificationService(notifs ports.NotificationRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{notifs: notifs, log: log}
}

// List returns all notifications addressed to the acting user and marks them
// read in the same call. Read-on-fetch is the contract: the returned slice
// reflects the pre-fetch read flags, the store is updated after. A mark-read
// failure is logged but does not fail the fetch.
func (s *NotificationService) List(ctx context.Context, acting *domain.User) ([]*domain.Notification, error) {
	notifications, err := s.notifs.FindByRecipient(ctx, acting.ID)
	if err != nil {
		return nil, err
	}

	if err := s.notifs.MarkAllRead(ctx, acting.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", acting.ID).Msg("failed to mark notifications read")
	}

	return notifications, nil
}

// Clear deletes all notifications addressed to the acting user. Idempotent:
// clearing an empty inbox is a no-op.
func (s *NotificationService) Clear(ctx context.Context, acting *domain.User) error {
	return s.notifs.DeleteByRecipient(ctx, acting.ID)
}
