package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/flocknet/social-api/internal/core/domain"
)

const userCollection = "users"

// MongoUserRepository persists user records. A unique index on email (and
// handle) is expected on the collection; duplicate inserts surface as
// domain.ErrEmailTaken.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FullName     string             `bson:"full_name"`
	Handle       string             `bson:"handle"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Following    []string           `bson:"following"`
	Followers    []string           `bson:"followers"`
	Posts        []string           `bson:"posts"`
	LikedPosts   []string           `bson:"liked_posts"`
	ProfileImg   string             `bson:"profile_img,omitempty"`
	CoverImg     string             `bson:"cover_img,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := mongoUser{
		FullName:     user.FullName,
		Handle:       user.Handle,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Following:    emptyIfNil(user.Following),
		Followers:    emptyIfNil(user.Followers),
		Posts:        emptyIfNil(user.Posts),
		LikedPosts:   emptyIfNil(user.LikedPosts),
		ProfileImg:   user.ProfileImg,
		CoverImg:     user.CoverImg,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	out := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		out.ID = oid.Hex()
	}
	return &out, nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"handle": handle})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// AddPost appends a post id to the user's post list ($addToSet: adding the
// same id twice keeps one copy).
func (r *MongoUserRepository) AddPost(ctx context.Context, userID, postID string) error {
	return r.updateSet(ctx, userID, bson.M{"$addToSet": bson.M{"posts": postID}})
}

func (r *MongoUserRepository) AddLikedPost(ctx context.Context, userID, postID string) error {
	return r.updateSet(ctx, userID, bson.M{"$addToSet": bson.M{"liked_posts": postID}})
}

func (r *MongoUserRepository) RemoveLikedPost(ctx context.Context, userID, postID string) error {
	return r.updateSet(ctx, userID, bson.M{"$pull": bson.M{"liked_posts": postID}})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) updateSet(ctx context.Context, userID string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	update["$set"] = bson.M{"updated_at": time.Now().UTC()}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		FullName:     mu.FullName,
		Handle:       mu.Handle,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		Following:    emptyIfNil(mu.Following),
		Followers:    emptyIfNil(mu.Followers),
		Posts:        emptyIfNil(mu.Posts),
		LikedPosts:   emptyIfNil(mu.LikedPosts),
		ProfileImg:   mu.ProfileImg,
		CoverImg:     mu.CoverImg,
		CreatedAt:    mu.CreatedAt,
		UpdatedAt:    mu.UpdatedAt,
	}
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
