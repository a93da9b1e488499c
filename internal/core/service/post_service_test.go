package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/flocknet/social-api/internal/core/domain"
	"github.com/flocknet/social-api/internal/core/ports"
)

type postServiceFixture struct {
	users   *stubUserRepo
	posts   *stubPostRepo
	notifs  *stubNotifRepo
	media   *stubMediaStore
	cleaner *stubCleaner
	cache   *stubFeedCache
	svc     *PostService
}

func newPostServiceFixture() *postServiceFixture {
	f := &postServiceFixture{
		users:   newStubUserRepo(),
		posts:   newStubPostRepo(),
		notifs:  newStubNotifRepo(),
		media:   &stubMediaStore{},
		cleaner: &stubCleaner{},
		cache:   &stubFeedCache{},
	}
	f.svc = NewPostService(f.posts, f.users, f.notifs, f.media, f.cleaner, f.cache, zerolog.Nop())
	return f
}

func (f *postServiceFixture) addUser(t *testing.T, handle string) *domain.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), &domain.User{
		FullName:   handle,
		Handle:     handle,
		Email:      handle + "@example.com",
		Following:  []string{},
		Followers:  []string{},
		Posts:      []string{},
		LikedPosts: []string{},
	})
	if err != nil {
		t.Fatalf("create user %s: %v", handle, err)
	}
	return u
}

func TestPostService_CreatePost_Text(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")

	post, err := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "hello"})
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}
	if post.Text != "hello" || post.Author.ID != alice.ID {
		t.Fatalf("unexpected post: %+v", post)
	}

	stored, err := f.users.FindByID(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if len(stored.Posts) != 1 || stored.Posts[0] != post.ID {
		t.Fatalf("post not indexed on user record: %v", stored.Posts)
	}
	if f.media.uploads != 0 {
		t.Fatalf("no media expected, got %d uploads", f.media.uploads)
	}
}

func TestPostService_CreatePost_Media(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")

	post, err := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{
		Media:            []byte{0xFF, 0xD8},
		MediaContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}
	if post.MediaURL == "" {
		t.Fatalf("expected durable media URL on post")
	}
	if f.media.uploads != 1 {
		t.Fatalf("expected one upload, got %d", f.media.uploads)
	}
}

func TestPostService_CreatePost_Empty(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")

	for _, text := range []string{"", "   "} {
		if _, err := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: text}); err != domain.ErrEmptyPost {
			t.Fatalf("text %q: expected ErrEmptyPost, got %v", text, err)
		}
	}
}

func TestPostService_CreatePost_IndexFailureSurfaced(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	f.users.failOps["AddPost"] = true

	// The insert succeeds and the index write fails: the error is surfaced
	// and the post is left behind: the accepted inconsistency window, not a
	// rollback.
	if _, err := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "hello"}); err == nil {
		t.Fatalf("expected error from failed index write")
	}
	all, _ := f.posts.FindAll(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected orphaned post to remain, got %d posts", len(all))
	}
}

func TestPostService_DeletePost_Owner(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")

	post, err := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{
		Text:             "with media",
		Media:            []byte{1},
		MediaContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.DeletePost(context.Background(), alice, post.ID); err != nil {
		t.Fatalf("DeletePost returned error: %v", err)
	}
	if _, err := f.posts.FindByID(context.Background(), post.ID); err != domain.ErrPostNotFound {
		t.Fatalf("post still present after delete")
	}
	if len(f.cleaner.enqueued) != 1 || f.cleaner.enqueued[0] != post.MediaURL {
		t.Fatalf("media cleanup not enqueued: %v", f.cleaner.enqueued)
	}
}

func TestPostService_DeletePost_Forbidden(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	post, err := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "mine"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := f.svc.DeletePost(context.Background(), bob, post.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.posts.FindByID(context.Background(), post.ID); err != nil {
		t.Fatalf("post must be untouched after forbidden delete")
	}
}

func TestPostService_DeletePost_NotFound(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")

	if err := f.svc.DeletePost(context.Background(), alice, "missing"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if len(f.cleaner.enqueued) != 0 {
		t.Fatalf("no cleanup expected on failed delete")
	}
}

func TestPostService_CommentPost(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	post, _ := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "hello"})

	if err := f.svc.CommentPost(context.Background(), bob, post.ID, "first"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if err := f.svc.CommentPost(context.Background(), alice, post.ID, "second"); err != nil {
		t.Fatalf("comment: %v", err)
	}

	stored, _ := f.posts.FindByID(context.Background(), post.ID)
	if len(stored.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(stored.Comments))
	}
	// Insertion order, no reordering.
	if stored.Comments[0].Text != "first" || stored.Comments[1].Text != "second" {
		t.Fatalf("comments out of order: %+v", stored.Comments)
	}
	if stored.Comments[0].Author.ID != bob.ID {
		t.Fatalf("comment author mismatch: %+v", stored.Comments[0])
	}
}

func TestPostService_CommentPost_Empty(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	post, _ := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "hello"})

	if err := f.svc.CommentPost(context.Background(), alice, post.ID, "  "); err != domain.ErrEmptyComment {
		t.Fatalf("expected ErrEmptyComment, got %v", err)
	}
}

func TestPostService_CommentPost_NotFound(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")

	if err := f.svc.CommentPost(context.Background(), alice, "missing", "hi"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

// Two toggles in sequence return to the original state on both sides of the
// denormalized pair, and only the first like emits a notification.
func TestPostService_LikeUnlike_DoubleToggleIsIdentity(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	post, _ := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "hello"})

	res, err := f.svc.LikeUnlikePost(context.Background(), bob, post.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !res.Liked {
		t.Fatalf("first toggle should like")
	}

	stored, _ := f.posts.FindByID(context.Background(), post.ID)
	likedUser, _ := f.users.FindByID(context.Background(), bob.ID)
	if !stored.LikedBy(bob.ID) || !likedUser.HasLiked(post.ID) {
		t.Fatalf("like not applied to both sides: likes=%v likedPosts=%v", stored.Likes, likedUser.LikedPosts)
	}

	res, err = f.svc.LikeUnlikePost(context.Background(), bob, post.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if res.Liked {
		t.Fatalf("second toggle should unlike")
	}

	stored, _ = f.posts.FindByID(context.Background(), post.ID)
	likedUser, _ = f.users.FindByID(context.Background(), bob.ID)
	if stored.LikedBy(bob.ID) || likedUser.HasLiked(post.ID) {
		t.Fatalf("unlike did not clear both sides: likes=%v likedPosts=%v", stored.Likes, likedUser.LikedPosts)
	}

	// Exactly one notification total: the like emitted one, the unlike
	// neither emitted nor retracted.
	inbox, _ := f.notifs.FindByRecipient(context.Background(), alice.ID)
	if len(inbox) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(inbox))
	}
	if inbox[0].From.ID != bob.ID || inbox[0].Kind != domain.NotificationLike {
		t.Fatalf("unexpected notification: %+v", inbox[0])
	}
}

func TestPostService_Like_NotificationFailureDoesNotRollBack(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.notifs.failCreate = true

	post, _ := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "hello"})

	res, err := f.svc.LikeUnlikePost(context.Background(), bob, post.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !res.Liked {
		t.Fatalf("expected like to apply")
	}

	stored, _ := f.posts.FindByID(context.Background(), post.ID)
	if !stored.LikedBy(bob.ID) {
		t.Fatalf("like rolled back on notification failure")
	}
}

func TestPostService_Like_PostNotFound(t *testing.T) {
	f := newPostServiceFixture()
	bob := f.addUser(t, "bob")

	if _, err := f.svc.LikeUnlikePost(context.Background(), bob, "missing"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

// The toggle is read-then-write with no serialization: interleaved calls see
// last-write-wins per field, by design. This test pins the single-caller
// behavior only; the concurrent interleaving is a known, documented race.
func TestPostService_Like_SequentialTogglesStayPaired(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	post, _ := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "hello"})

	for i := 0; i < 6; i++ {
		if _, err := f.svc.LikeUnlikePost(context.Background(), bob, post.ID); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		stored, _ := f.posts.FindByID(context.Background(), post.ID)
		user, _ := f.users.FindByID(context.Background(), bob.ID)
		if stored.LikedBy(bob.ID) != user.HasLiked(post.ID) {
			t.Fatalf("toggle %d left the pair split: likes=%v likedPosts=%v", i, stored.Likes, user.LikedPosts)
		}
	}
}

func TestPostService_GetAllPosts_CacheRoundTrip(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "one"})
	f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "two"})

	posts, err := f.svc.GetAllPosts(context.Background())
	if err != nil {
		t.Fatalf("GetAllPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	// Newest first.
	if posts[0].Text != "two" || posts[1].Text != "one" {
		t.Fatalf("posts not newest-first: %s, %s", posts[0].Text, posts[1].Text)
	}
	if !f.cache.warm {
		t.Fatalf("expected cache warmed after miss")
	}

	// Second read is served from the cache.
	again, err := f.svc.GetAllPosts(context.Background())
	if err != nil {
		t.Fatalf("GetAllPosts (cached): %v", err)
	}
	if len(again) != 2 {
		t.Fatalf("cached read wrong size: %d", len(again))
	}
}

func TestPostService_GetFollowingPosts_EmptyFollowing(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	f.svc.CreatePost(context.Background(), bob, ports.CreatePostInput{Text: "not followed"})

	posts, err := f.svc.GetFollowingPosts(context.Background(), alice)
	if err != nil {
		t.Fatalf("expected empty feed, got error %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty feed, got %d posts", len(posts))
	}
}

func TestPostService_GetFollowingPosts(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	carol := f.addUser(t, "carol")

	f.svc.CreatePost(context.Background(), bob, ports.CreatePostInput{Text: "bob post"})
	f.svc.CreatePost(context.Background(), carol, ports.CreatePostInput{Text: "carol post"})

	f.users.users[alice.ID].Following = []string{bob.ID}

	posts, err := f.svc.GetFollowingPosts(context.Background(), alice)
	if err != nil {
		t.Fatalf("GetFollowingPosts: %v", err)
	}
	if len(posts) != 1 || posts[0].Text != "bob post" {
		t.Fatalf("unexpected feed: %+v", posts)
	}
}

// The liked feed follows the liked set, independent of who authored the
// posts.
func TestPostService_GetLikedPosts(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	p1, _ := f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "alice one"})
	f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "alice two"})
	p3, _ := f.svc.CreatePost(context.Background(), bob, ports.CreatePostInput{Text: "bob one"})

	f.svc.LikeUnlikePost(context.Background(), bob, p1.ID)
	f.svc.LikeUnlikePost(context.Background(), bob, p3.ID)

	posts, err := f.svc.GetLikedPosts(context.Background(), bob)
	if err != nil {
		t.Fatalf("GetLikedPosts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 liked posts, got %d", len(posts))
	}
	got := map[string]bool{}
	for _, p := range posts {
		got[p.ID] = true
	}
	if !got[p1.ID] || !got[p3.ID] {
		t.Fatalf("liked feed does not match liked set: %v", got)
	}
}

func TestPostService_GetLikedPosts_Empty(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")

	posts, err := f.svc.GetLikedPosts(context.Background(), alice)
	if err != nil || len(posts) != 0 {
		t.Fatalf("expected empty slice, got %v / %v", posts, err)
	}
}

func TestPostService_GetUserPosts(t *testing.T) {
	f := newPostServiceFixture()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "a1"})
	f.svc.CreatePost(context.Background(), bob, ports.CreatePostInput{Text: "b1"})
	f.svc.CreatePost(context.Background(), alice, ports.CreatePostInput{Text: "a2"})

	posts, err := f.svc.GetUserPosts(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserPosts: %v", err)
	}
	if len(posts) != 2 || posts[0].Text != "a2" || posts[1].Text != "a1" {
		t.Fatalf("unexpected user feed: %+v", posts)
	}
}

func TestPostService_GetUserPosts_UnknownHandle(t *testing.T) {
	f := newPostServiceFixture()

	if _, err := f.svc.GetUserPosts(context.Background(), "ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
