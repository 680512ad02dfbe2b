package domain

import (
	"errors"
	"time"
)

var ErrMissingFields = errors.New("missing required fields")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")

// User models a registered account.
//
// AvatarKey is the storage-provider object key when the avatar was uploaded
// through this system. It is empty for externally supplied avatar URLs, which
// is what the replacement policy keys off: only self-hosted objects are ever
// deleted.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	AvatarURL    string    `json:"avatar"`
	AvatarKey    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SelfHostedAvatar reports whether the current avatar is an object owned by
// this system's media store (as opposed to an external URL).
func (u *User) SelfHostedAvatar() bool {
	return u.AvatarKey != ""
}
