package domain

import "time"

// NotificationKind enumerates the event kinds a notification can carry.
type NotificationKind string

const (
	// NotificationLike is emitted when a user likes a post. It is the only
	// kind emitted today; unlike never retracts it.
	NotificationLike NotificationKind = "like"
)

// Notification is a one-way "event occurred" record addressed to a single
// recipient. From is expanded to handle + profile image on read.
type Notification struct {
	ID        string           `json:"id"`
	From      UserSummary      `json:"from"`
	To        string           `json:"to"`
	Kind      NotificationKind `json:"kind"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
