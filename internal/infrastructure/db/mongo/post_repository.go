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

const postCollection = "posts"

// MongoPostRepository persists posts and expands author identity on read.
// Documents store author ids only; every read batch-resolves the referenced
// users (handle, full name, profile image, never the password hash) from
// the user collection.
type MongoPostRepository struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		coll:  db.Collection(postCollection),
		users: db.Collection(userCollection),
	}
}

type mongoComment struct {
	AuthorID  string    `bson:"author_id"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}

type mongoPost struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID  string             `bson:"author_id"`
	Text      string             `bson:"text,omitempty"`
	MediaURL  string             `bson:"media_url,omitempty"`
	Likes     []string           `bson:"likes"`
	Comments  []mongoComment     `bson:"comments"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *MongoPostRepository) Create(ctx context.Context, authorID, text, mediaURL string) (*domain.Post, error) {
	doc := mongoPost{
		AuthorID:  authorID,
		Text:      text,
		MediaURL:  mediaURL,
		Likes:     []string{},
		Comments:  []mongoComment{},
		CreatedAt: time.Now().UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)

	posts, err := r.expand(ctx, []mongoPost{doc})
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	var mp mongoPost
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	posts, err := r.expand(ctx, []mongoPost{mp})
	if err != nil {
		return nil, err
	}
	return posts[0], nil
}

func (r *MongoPostRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) AppendComment(ctx context.Context, postID string, comment domain.Comment) error {
	return r.updateOne(ctx, postID, bson.M{"$push": bson.M{"comments": mongoComment{
		AuthorID:  comment.Author.ID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}}})
}

func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID string) error {
	return r.updateOne(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.updateOne(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *MongoPostRepository) FindAll(ctx context.Context) ([]*domain.Post, error) {
	return r.find(ctx, bson.M{}, newestFirst())
}

func (r *MongoPostRepository) FindByAuthor(ctx context.Context, authorID string) ([]*domain.Post, error) {
	return r.find(ctx, bson.M{"author_id": authorID}, newestFirst())
}

func (r *MongoPostRepository) FindByAuthors(ctx context.Context, authorIDs []string) ([]*domain.Post, error) {
	return r.find(ctx, bson.M{"author_id": bson.M{"$in": authorIDs}}, newestFirst())
}

// FindByIDs returns posts matching the given ids, in store order. Invalid
// ids are skipped rather than failing the whole query.
func (r *MongoPostRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Post, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (r *MongoPostRepository) updateOne(ctx context.Context, postID string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Post, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	cur, err := r.coll.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPost
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return r.expand(ctx, docs)
}

// expand resolves every referenced author (post and comment authors alike)
// in one batch lookup and maps the documents to domain posts.
func (r *MongoPostRepository) expand(ctx context.Context, docs []mongoPost) ([]*domain.Post, error) {
	seen := make(map[string]struct{})
	var oids []primitive.ObjectID
	collect := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	for _, d := range docs {
		collect(d.AuthorID)
		for _, cm := range d.Comments {
			collect(cm.AuthorID)
		}
	}

	summaries, err := r.lookupSummaries(ctx, oids)
	if err != nil {
		return nil, err
	}

	posts := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		comments := make([]domain.Comment, 0, len(d.Comments))
		for _, cm := range d.Comments {
			comments = append(comments, domain.Comment{
				Author:    summaries[cm.AuthorID],
				Text:      cm.Text,
				CreatedAt: cm.CreatedAt,
			})
		}

		likes := d.Likes
		if likes == nil {
			likes = []string{}
		}

		posts = append(posts, &domain.Post{
			ID:        d.ID.Hex(),
			Author:    summaries[d.AuthorID],
			Text:      d.Text,
			MediaURL:  d.MediaURL,
			Likes:     likes,
			Comments:  comments,
			CreatedAt: d.CreatedAt,
		})
	}
	return posts, nil
}

func (r *MongoPostRepository) lookupSummaries(ctx context.Context, oids []primitive.ObjectID) (map[string]domain.UserSummary, error) {
	summaries := make(map[string]domain.UserSummary, len(oids))
	if len(oids) == 0 {
		return summaries, nil
	}

	projection := bson.M{"handle": 1, "full_name": 1, "profile_img": 1}
	cur, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("expand authors: %w", err)
	}
	defer cur.Close(ctx)

	var users []mongoUser
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}

	for _, u := range users {
		summaries[u.ID.Hex()] = domain.UserSummary{
			ID:         u.ID.Hex(),
			Handle:     u.Handle,
			FullName:   u.FullName,
			ProfileImg: u.ProfileImg,
		}
	}
	return summaries, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}
