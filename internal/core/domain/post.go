package domain

import "time"

// Comment is embedded in a post's comment sequence. Append-only, ordered by
// insertion; there is no edit or delete.
type Comment struct {
	Author    UserSummary `json:"author"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// Post is the feed aggregate. Author is immutable after creation and is the
// sole basis for ownership checks. Likes holds user ids; it mirrors each
// liker's User.LikedPosts set. A post with neither text nor media is invalid
// and is never persisted.
type Post struct {
	ID        string      `json:"id"`
	Author    UserSummary `json:"author"`
	Text      string      `json:"text,omitempty"`
	MediaURL  string      `json:"media_url,omitempty"`
	Likes     []string    `json:"likes"`
	Comments  []Comment   `json:"comments"`
	CreatedAt time.Time   `json:"created_at"`
}

// LikedBy reports whether userID is in the post's like set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
