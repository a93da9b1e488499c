package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flocknet/social-api/internal/api/metrics"
	"github.com/flocknet/social-api/internal/core/domain"
	"github.com/flocknet/social-api/internal/core/ports"
)

// PostService implements the post, comment, like, and feed operations.
// Cross-record pairs (post.Likes with user.LikedPosts, post insert with the
// user post list) are written in a fixed order behind single operations;
// the store offers no multi-document transaction, so a failure between the
// two writes leaves a documented inconsistency window rather than a rollback.
type PostService struct {
	posts   ports.PostRepository
	users   ports.UserRepository
	notifs  ports.NotificationRepository
	media   ports.MediaStore
	cleaner ports.MediaCleaner
	cache   ports.FeedCache
	log     zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	users ports.UserRepository,
	notifs ports.NotificationRepository,
	media ports.MediaStore,
	cleaner ports.MediaCleaner,
	cache ports.FeedCache,
	log zerolog.Logger,
) *PostService {
	return &PostService{
		posts:   posts,
		users:   users,
		notifs:  notifs,
		media:   media,
		cleaner: cleaner,
		cache:   cache,
		log:     log,
	}
}

// CreatePost persists a new post authored by acting, then indexes its id on
// the author's post list. If the index write fails after the insert
// succeeded, the post exists but is missing from the user record; the error
// is surfaced, not rolled back.
func (s *PostService) CreatePost(ctx context.Context, acting *domain.User, in ports.CreatePostInput) (*domain.Post, error) {
	if strings.TrimSpace(in.Text) == "" && len(in.Media) == 0 {
		return nil, domain.ErrEmptyPost
	}

	mediaURL := ""
	if len(in.Media) > 0 {
		url, err := s.media.Upload(ctx, in.Media, in.MediaContentType)
		if err != nil {
			s.log.Error().Err(err).Str("user_id", acting.ID).Msg("media upload failed")
			return nil, err
		}
		mediaURL = url
	}

	post, err := s.posts.Create(ctx, acting.ID, in.Text, mediaURL)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddPost(ctx, acting.ID, post.ID); err != nil {
		s.log.Error().Err(err).
			Str("user_id", acting.ID).
			Str("post_id", post.ID).
			Msg("post created but not indexed on user record")
		return nil, err
	}

	s.cache.Invalidate(ctx)
	metrics.PostsCreatedTotal.WithLabelValues(mediaLabel(mediaURL)).Inc()
	s.log.Info().Str("post_id", post.ID).Str("author", acting.Handle).Msg("post created")
	return post, nil
}

// DeletePost removes a post the acting user owns. Ownership is decided by
// the stored author id, never by caller claims. Media cleanup is enqueued
// best-effort and never blocks the record deletion.
func (s *PostService) DeletePost(ctx context.Context, acting *domain.User, postID string) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.Author.ID != acting.ID {
		return domain.ErrForbidden
	}

	if post.MediaURL != "" {
		s.cleaner.Enqueue(post.MediaURL)
	}

	if err := s.posts.DeleteByID(ctx, postID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	metrics.PostsDeletedTotal.Inc()
	s.log.Info().Str("post_id", postID).Str("author", acting.Handle).Msg("post deleted")
	return nil
}

// CommentPost appends a comment to the post's sequence. Insertion order only.
func (s *PostService) CommentPost(ctx context.Context, acting *domain.User, postID, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.ErrEmptyComment
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return err
	}

	comment := domain.Comment{
		Author:    acting.Summary(),
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.posts.AppendComment(ctx, postID, comment); err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	metrics.CommentsTotal.Inc()
	return nil
}

// LikeUnlikePost toggles the acting user's like on a post. The two sides of
// the relationship (post.Likes, user.LikedPosts) are written as a matched
// pair, post side first; the second write is always attempted even though
// atomicity across the pair is not guaranteed. A like emits a notification
// to the post author, fire-and-forget: its failure is logged and never rolls
// back the like. Concurrent toggles on the same post by the same user race
// with last-write-wins per field; no locking is added.
func (s *PostService) LikeUnlikePost(ctx context.Context, acting *domain.User, postID string) (*ports.LikeResult, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, acting.ID)
	if err != nil {
		return nil, err
	}

	if post.LikedBy(user.ID) {
		if err := s.posts.RemoveLike(ctx, postID, user.ID); err != nil {
			return nil, err
		}
		if err := s.users.RemoveLikedPost(ctx, user.ID, postID); err != nil {
			s.log.Error().Err(err).
				Str("user_id", user.ID).
				Str("post_id", postID).
				Msg("like removed from post but not from user liked set")
			return nil, err
		}
		s.cache.Invalidate(ctx)
		metrics.LikesToggledTotal.WithLabelValues("unlike").Inc()
		return &ports.LikeResult{Liked: false}, nil
	}

	if err := s.posts.AddLike(ctx, postID, user.ID); err != nil {
		return nil, err
	}
	if err := s.users.AddLikedPost(ctx, user.ID, postID); err != nil {
		s.log.Error().Err(err).
			Str("user_id", user.ID).
			Str("post_id", postID).
			Msg("like added to post but not to user liked set")
		return nil, err
	}

	if err := s.notifs.Create(ctx, user.ID, post.Author.ID, domain.NotificationLike); err != nil {
		s.log.Warn().Err(err).
			Str("from", user.ID).
			Str("to", post.Author.ID).
			Msg("like applied but notification not created")
	} else {
		metrics.NotificationsEmittedTotal.Inc()
	}

	s.cache.Invalidate(ctx)
	metrics.LikesToggledTotal.WithLabelValues("like").Inc()
	return &ports.LikeResult{Liked: true}, nil
}

// GetAllPosts returns every post, newest first, served from the feed cache
// when warm.
func (s *PostService) GetAllPosts(ctx context.Context) ([]*domain.Post, error) {
	if posts, ok := s.cache.GetAll(ctx); ok {
		metrics.FeedCacheTotal.WithLabelValues("hit").Inc()
		return posts, nil
	}
	metrics.FeedCacheTotal.WithLabelValues("miss").Inc()

	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetAll(ctx, posts)
	return posts, nil
}

// GetFollowingPosts returns posts authored by anyone the acting user
// follows, newest first. Following nobody yields an empty feed, not an error.
func (s *PostService) GetFollowingPosts(ctx context.Context, acting *domain.User) ([]*domain.Post, error) {
	user, err := s.users.FindByID(ctx, acting.ID)
	if err != nil {
		return nil, err
	}
	if len(user.Following) == 0 {
		return []*domain.Post{}, nil
	}
	return s.posts.FindByAuthors(ctx, user.Following)
}

// GetLikedPosts returns exactly the posts in the acting user's liked set,
// regardless of author. Order follows the store's id lookup, not created-at.
func (s *PostService) GetLikedPosts(ctx context.Context, acting *domain.User) ([]*domain.Post, error) {
	user, err := s.users.FindByID(ctx, acting.ID)
	if err != nil {
		return nil, err
	}
	if len(user.LikedPosts) == 0 {
		return []*domain.Post{}, nil
	}
	return s.posts.FindByIDs(ctx, user.LikedPosts)
}

// GetUserPosts returns the posts authored by the user with the given handle,
// newest first.
func (s *PostService) GetUserPosts(ctx context.Context, handle string) ([]*domain.Post, error) {
	user, err := s.users.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	return s.posts.FindByAuthor(ctx, user.ID)
}

func mediaLabel(url string) string {
	if url == "" {
		return "text"
	}
	return "media"
}
