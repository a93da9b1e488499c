package handler

import "github.com/flocknet/social-api/internal/core/domain"

// All responses share the {success, message, ...payload} envelope; handlers
// embed envelope in their payload structs and the error handler renders the
// failure shape. HTTP 200 for success, 400/404/500 by failure class.

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Auth ---

type signupRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Handle   string `json:"handle"    validate:"required"`
	Email    string `json:"email"     validate:"required"`
	Password string `json:"password"  validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	envelope
	User *domain.User `json:"user"`
}

type loginResponse struct {
	envelope
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type userResponse struct {
	envelope
	User *domain.User `json:"user"`
}

// --- Posts ---

type createPostRequest struct {
	Text string `json:"text"`
	// Media is the raw image payload, base64-encoded by encoding/json.
	Media            []byte `json:"media,omitempty"`
	MediaContentType string `json:"media_content_type,omitempty"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type postResponse struct {
	envelope
	Post *domain.Post `json:"post"`
}

type postsResponse struct {
	envelope
	Posts []*domain.Post `json:"posts"`
}

type likeResponse struct {
	envelope
	Liked bool `json:"liked"`
}

// --- Notifications ---

type notificationsResponse struct {
	envelope
	Notifications []*domain.Notification `json:"notifications"`
}
