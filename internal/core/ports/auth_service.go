package ports

import (
	"context"

	"github.com/flocknet/social-api/internal/core/domain"
)

// SignupInput carries the fields required to create an account.
type SignupInput struct {
	FullName string
	Handle   string
	Email    string
	Password string
}

// AuthService implements signup and login. Login returns the signed session
// token alongside the user; the transport layer attaches it as an HTTP-only
// cookie. Logout is purely a transport concern (cookie expiry) and has no
// service-side state.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
