package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flocknet/social-api/internal/core/domain"
)

const notificationCollection = "notifications"

// MongoNotificationRepository persists notification records. Reads expand
// the actor to handle and profile image only.
type MongoNotificationRepository struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{
		coll:  db.Collection(notificationCollection),
		users: db.Collection(userCollection),
	}
}

type mongoNotification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FromID    string             `bson:"from_id"`
	ToID      string             `bson:"to_id"`
	Kind      string             `bson:"kind"`
	Read      bool               `bson:"read"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *MongoNotificationRepository) Create(ctx context.Context, fromID, toID string, kind domain.NotificationKind) error {
	_, err := r.coll.InsertOne(ctx, mongoNotification{
		FromID:    fromID,
		ToID:      toID,
		Kind:      string(kind),
		Read:      false,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) FindByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	cur, err := r.coll.Find(ctx, bson.M{"to_id": recipientID})
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoNotification
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	actors, err := r.lookupActors(ctx, docs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Notification{
			ID:        d.ID.Hex(),
			From:      actors[d.FromID],
			To:        d.ToID,
			Kind:      domain.NotificationKind(d.Kind),
			Read:      d.Read,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}

func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"to_id": recipientID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) DeleteByRecipient(ctx context.Context, recipientID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"to_id": recipientID}); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return nil
}

// lookupActors batch-resolves actor handles and profile images. The full
// name is deliberately not expanded here; notification rows only render the
// handle and avatar.
func (r *MongoNotificationRepository) lookupActors(ctx context.Context, docs []mongoNotification) (map[string]domain.UserSummary, error) {
	actors := make(map[string]domain.UserSummary, len(docs))
	if len(docs) == 0 {
		return actors, nil
	}

	seen := make(map[string]struct{})
	var oids []primitive.ObjectID
	for _, d := range docs {
		if _, ok := seen[d.FromID]; ok {
			continue
		}
		seen[d.FromID] = struct{}{}
		if oid, err := primitive.ObjectIDFromHex(d.FromID); err == nil {
			oids = append(oids, oid)
		}
	}

	projection := bson.M{"handle": 1, "profile_img": 1}
	cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("expand notification actors: %w", err)
	}
	defer cur.Close(ctx)

	var users []mongoUser
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode notification actors: %w", err)
	}

	for _, u := range users {
		actors[u.ID.Hex()] = domain.UserSummary{
			ID:         u.ID.Hex(),
			Handle:     u.Handle,
			ProfileImg: u.ProfileImg,
		}
	}
	return actors, nil
}
