package ports

import (
	"context"
	"time"
)

// FileInput is an in-memory upload received from the transport layer.
type FileInput struct {
	Data        []byte
	Filename    string
	ContentType string
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Bio      string
	Avatar   *FileInput // optional
}

// UpdateProfileInput carries the profile patch. Bio is a pointer so the
// service can distinguish "field omitted" (nil, keep previous value) from
// "explicit empty string" (clear the bio). Name and Password only take
// effect when non-empty.
type UpdateProfileInput struct {
	Name     string
	Bio      *string
	Password string
	Avatar   *FileInput // optional replacement
}

// AuthResult is returned by Register and Login: the profile view plus a
// freshly issued session token.
type AuthResult struct {
	ID     string
	Name   string
	Email  string
	Bio    string
	Avatar string
	Token  string
}

// UserProfile is the token-less profile view.
type UserProfile struct {
	ID        string
	Name      string
	Email     string
	Bio       string
	Avatar    string
	CreatedAt time.Time
}

// AccountService defines the account workflow use cases.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*UserProfile, error)
}
