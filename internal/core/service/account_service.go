package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// AccountService implements registration, login, and profile management.
type AccountService struct {
	repo      ports.AccountRepository
	media     ports.MediaStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, media ports.MediaStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{repo: repo, media: media, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a new account. When an avatar file is supplied it is
// uploaded first, so an upload failure never leaves a partial user behind.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	var avatarURL, avatarKey string
	if input.Avatar != nil {
		stored, err := s.media.Upload(ctx, ports.UploadInput{
			Data:        input.Avatar.Data,
			Filename:    input.Avatar.Filename,
			ContentType: input.Avatar.ContentType,
			Folder:      ports.MediaFolderAvatars,
		})
		if err != nil {
			return nil, fmt.Errorf("upload avatar: %w", err)
		}
		avatarURL = stored.URL
		avatarKey = stored.Key
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Bio:          input.Bio,
		AvatarURL:    avatarURL,
		AvatarKey:    avatarKey,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")

	return &ports.AuthResult{
		ID:     created.ID,
		Name:   created.Name,
		Email:  created.Email,
		Bio:    created.Bio,
		Avatar: created.AvatarURL,
		Token:  token,
	}, nil
}

// Login verifies the credentials and issues a fresh session token. Unknown
// email and wrong password collapse into the same error so the response
// never reveals which one was off.
func (s *AccountService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Bio:    user.Bio,
		Avatar: user.AvatarURL,
		Token:  token,
	}, nil
}

// Profile returns the token-less profile view for an authenticated user.
func (s *AccountService) Profile(ctx context.Context, userID string) (*ports.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// UpdateProfile applies a partial update:
//   - name and password only when a non-empty value is supplied (password is re-hashed)
//   - bio whenever the field is present, including an explicit empty string
//   - avatar replacement per replaceAvatar below
//
// All mutations stay in memory until the single repository save, so an
// upload failure aborts the update without persisting any field change.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*ports.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if input.Avatar != nil {
		if err := s.replaceAvatar(ctx, user, input.Avatar); err != nil {
			return nil, err
		}
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return toProfile(user), nil
}

// replaceAvatar deletes the previous self-hosted object (best effort: the
// update must never fail because cleanup of the old object failed) and
// uploads the new file. Externally supplied avatar URLs carry no storage key
// and are left alone.
func (s *AccountService) replaceAvatar(ctx context.Context, user *domain.User, file *ports.FileInput) error {
	if user.SelfHostedAvatar() {
		if err := s.media.Delete(ctx, user.AvatarKey); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Str("key", user.AvatarKey).Msg("failed to delete old avatar")
		}
	}

	stored, err := s.media.Upload(ctx, ports.UploadInput{
		Data:        file.Data,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Folder:      ports.MediaFolderAvatars,
	})
	if err != nil {
		return fmt.Errorf("upload avatar: %w", err)
	}

	user.AvatarURL = stored.URL
	user.AvatarKey = stored.Key
	return nil
}

func (s *AccountService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func toProfile(user *domain.User) *ports.UserProfile {
	return &ports.UserProfile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		Avatar:    user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}
