package domain

import "time"

// User is the account aggregate. Following/Followers/Posts/LikedPosts are
// denormalized id sets maintained by the services that mutate them; in
// particular LikedPosts mirrors Post.Likes and the two are always written as
// a pair (no multi-document transaction backs them).
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Handle       string    `json:"handle"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Following    []string  `json:"following"`
	Followers    []string  `json:"followers"`
	Posts        []string  `json:"posts"`
	LikedPosts   []string  `json:"liked_posts"`
	ProfileImg   string    `json:"profile_img,omitempty"`
	CoverImg     string    `json:"cover_img,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the projection attached to posts, comments, and
// notifications when author identity is expanded on read. It never carries
// credentials.
type UserSummary struct {
	ID         string `json:"id"`
	Handle     string `json:"handle"`
	FullName   string `json:"full_name,omitempty"`
	ProfileImg string `json:"profile_img,omitempty"`
}

// Summary returns the public projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Handle:     u.Handle,
		FullName:   u.FullName,
		ProfileImg: u.ProfileImg,
	}
}

// HasLiked reports whether the user's liked-post set contains postID.
func (u *User) HasLiked(postID string) bool {
	for _, id := range u.LikedPosts {
		if id == postID {
			return true
		}
	}
	return false
}
