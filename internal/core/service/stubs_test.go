package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flocknet/social-api/internal/core/domain"
)

// In-memory stand-ins for the store adapters. They copy on read and write so
// tests observe persisted state, not shared pointers.

var errStubFailure = errors.New("stub failure")

type stubUserRepo struct {
	users   map[string]*domain.User
	nextID  int
	failOps map[string]bool // op name -> fail next call
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), failOps: make(map[string]bool)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Following = append([]string{}, u.Following...)
	clone.Followers = append([]string{}, u.Followers...)
	clone.Posts = append([]string{}, u.Posts...)
	clone.LikedPosts = append([]string{}, u.LikedPosts...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByHandle(_ context.Context, handle string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Handle == handle {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) AddPost(_ context.Context, userID, postID string) error {
	return r.edgeOp("AddPost", userID, func(u *domain.User) {
		u.Posts = addToSet(u.Posts, postID)
	})
}

func (r *stubUserRepo) AddLikedPost(_ context.Context, userID, postID string) error {
	return r.edgeOp("AddLikedPost", userID, func(u *domain.User) {
		u.LikedPosts = addToSet(u.LikedPosts, postID)
	})
}

func (r *stubUserRepo) RemoveLikedPost(_ context.Context, userID, postID string) error {
	return r.edgeOp("RemoveLikedPost", userID, func(u *domain.User) {
		u.LikedPosts = removeFromSet(u.LikedPosts, postID)
	})
}

func (r *stubUserRepo) edgeOp(name, userID string, apply func(*domain.User)) error {
	if r.failOps[name] {
		return errStubFailure
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	apply(u)
	return nil
}

type stubPostRepo struct {
	posts      map[string]*domain.Post
	nextID     int
	createTime time.Time
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{
		posts:      make(map[string]*domain.Post),
		createTime: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	clone.Likes = append([]string{}, p.Likes...)
	clone.Comments = append([]domain.Comment{}, p.Comments...)
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, authorID, text, mediaURL string) (*domain.Post, error) {
	r.nextID++
	r.createTime = r.createTime.Add(time.Minute)
	post := &domain.Post{
		ID:        fmt.Sprintf("p%d", r.nextID),
		Author:    domain.UserSummary{ID: authorID},
		Text:      text,
		MediaURL:  mediaURL,
		Likes:     []string{},
		Comments:  []domain.Comment{},
		CreatedAt: r.createTime,
	}
	r.posts[post.ID] = clonePost(post)
	return post, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *stubPostRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *stubPostRepo) AppendComment(_ context.Context, postID string, comment domain.Comment) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Comments = append(p.Comments, comment)
	return nil
}

func (r *stubPostRepo) AddLike(_ context.Context, postID, userID string) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Likes = addToSet(p.Likes, userID)
	return nil
}

func (r *stubPostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	p, ok := r.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Likes = removeFromSet(p.Likes, userID)
	return nil
}

func (r *stubPostRepo) FindAll(_ context.Context) ([]*domain.Post, error) {
	return r.collect(func(*domain.Post) bool { return true }, true), nil
}

func (r *stubPostRepo) FindByAuthor(_ context.Context, authorID string) ([]*domain.Post, error) {
	return r.collect(func(p *domain.Post) bool { return p.Author.ID == authorID }, true), nil
}

func (r *stubPostRepo) FindByAuthors(_ context.Context, authorIDs []string) ([]*domain.Post, error) {
	return r.collect(func(p *domain.Post) bool {
		for _, id := range authorIDs {
			if p.Author.ID == id {
				return true
			}
		}
		return false
	}, true), nil
}

func (r *stubPostRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Post, error) {
	return r.collect(func(p *domain.Post) bool {
		for _, id := range ids {
			if p.ID == id {
				return true
			}
		}
		return false
	}, false), nil
}

func (r *stubPostRepo) collect(match func(*domain.Post) bool, newestFirst bool) []*domain.Post {
	out := []*domain.Post{}
	for _, p := range r.posts {
		if match(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out
}

type stubNotifRepo struct {
	notifications []*domain.Notification
	nextID        int
	failCreate    bool
}

func newStubNotifRepo() *stubNotifRepo {
	return &stubNotifRepo{}
}

func (r *stubNotifRepo) Create(_ context.Context, fromID, toID string, kind domain.NotificationKind) error {
	if r.failCreate {
		return errStubFailure
	}
	r.nextID++
	r.notifications = append(r.notifications, &domain.Notification{
		ID:        fmt.Sprintf("n%d", r.nextID),
		From:      domain.UserSummary{ID: fromID},
		To:        toID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (r *stubNotifRepo) FindByRecipient(_ context.Context, recipientID string) ([]*domain.Notification, error) {
	out := []*domain.Notification{}
	for _, n := range r.notifications {
		if n.To == recipientID {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubNotifRepo) MarkAllRead(_ context.Context, recipientID string) error {
	for _, n := range r.notifications {
		if n.To == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (r *stubNotifRepo) DeleteByRecipient(_ context.Context, recipientID string) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.To != recipientID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

type stubMediaStore struct {
	uploads    int
	failUpload bool
	deleted    []string
}

func (m *stubMediaStore) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	if m.failUpload {
		return "", errStubFailure
	}
	m.uploads++
	return fmt.Sprintf("https://media.test/media/obj%d.jpg", m.uploads), nil
}

func (m *stubMediaStore) Delete(_ context.Context, url string) error {
	m.deleted = append(m.deleted, url)
	return nil
}

type stubCleaner struct {
	enqueued []string
}

func (c *stubCleaner) Enqueue(url string) {
	c.enqueued = append(c.enqueued, url)
}

type stubFeedCache struct {
	posts       []*domain.Post
	warm        bool
	invalidated int
}

func (c *stubFeedCache) GetAll(_ context.Context) ([]*domain.Post, bool) {
	if !c.warm {
		return nil, false
	}
	return c.posts, true
}

func (c *stubFeedCache) SetAll(_ context.Context, posts []*domain.Post) {
	c.posts = posts
	c.warm = true
}

func (c *stubFeedCache) Invalidate(_ context.Context) {
	c.posts = nil
	c.warm = false
	c.invalidated++
}

func addToSet(set []string, id string) []string {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

func removeFromSet(set []string, id string) []string {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
