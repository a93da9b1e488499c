package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/flocknet/social-api/internal/api/metrics"
	"github.com/flocknet/social-api/internal/core/domain"
	"github.com/flocknet/social-api/internal/core/ports"
)

// emailPattern rejects embedded whitespace and anything without a
// local@domain.tld shape.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 5

// AuthService implements signup and login. Emails are lowercased before
// lookup and storage, so duplicate detection is case-insensitive.
type AuthService struct {
	users ports.UserRepository
	codec *TokenCodec
}

func NewAuthService(users ports.UserRepository, codec *TokenCodec) *AuthService {
	return &AuthService{users: users, codec: codec}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.ErrWeakPassword
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		FullName:     in.FullName,
		Handle:       in.Handle,
		Email:        email,
		PasswordHash: string(hash),
		Following:    []string{},
		Followers:    []string{},
		Posts:        []string{},
		LikedPosts:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.SignupsTotal.Inc()
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrMissingCredentials
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		return "", nil, err
	}

	// CompareHashAndPassword blocks until the comparison completes; the
	// branch below sees the real result, never a pending one.
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return "", nil, domain.ErrBadCredentials
	}

	token, err := s.codec.Issue(SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Handle: user.Handle,
	})
	if err != nil {
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return token, user, nil
}
