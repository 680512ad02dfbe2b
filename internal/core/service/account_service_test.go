package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	byID         map[string]*domain.User
	nextID       int
	updates      int
	findEmailErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneUser(user)
	copy.ID = "user_" + string(rune('0'+r.nextID))
	r.nextID++
	r.byID[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findEmailErr != nil {
		return nil, r.findEmailErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubAccountRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.updates++
	r.byID[user.ID] = cloneUser(user)
	return nil
}

// ---------------------------------------------------------------------------
// Stub media store recording every call
// ---------------------------------------------------------------------------

type stubMediaStore struct {
	uploads   []ports.UploadInput
	deletes   []string
	uploadErr error
	deleteErr error
}

func (m *stubMediaStore) Upload(_ context.Context, in ports.UploadInput) (*ports.StoredObject, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.uploads = append(m.uploads, in)
	key := in.Folder + "/obj-" + string(rune('0'+len(m.uploads)))
	return &ports.StoredObject{Key: key, URL: "http://media.local/blog-media/" + key}, nil
}

func (m *stubMediaStore) Delete(_ context.Context, key string) error {
	m.deletes = append(m.deletes, key)
	return m.deleteErr
}

func newAccountService(repo *stubAccountRepo, media *stubMediaStore) *AccountService {
	return NewAccountService(repo, media, "secret", time.Hour, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAccountService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	media := &stubMediaStore{}
	svc := newAccountService(repo, media)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "alice", Email: "alice@example.com", Password: "pass123",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.ID == "" {
		t.Fatalf("expected user id")
	}
	if result.Bio != "" || result.Avatar != "" {
		t.Fatalf("expected empty bio and avatar defaults, got %q %q", result.Bio, result.Avatar)
	}
	if len(media.uploads) != 0 {
		t.Fatalf("no upload expected without avatar file")
	}

	stored, _ := repo.FindByEmail(context.Background(), "alice@example.com")
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != result.ID {
		t.Fatalf("expected sub %s, got %v", result.ID, claims["sub"])
	}
}

func TestAccountService_Register_MissingFields(t *testing.T) {
	repo := newStubAccountRepo()
	media := &stubMediaStore{}
	svc := newAccountService(repo, media)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "bob", Email: "bob@example.com",
		Avatar: &ports.FileInput{Data: []byte("img"), Filename: "a.png"},
	})
	if !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("no record should be created")
	}
	if len(media.uploads) != 0 {
		t.Fatalf("no upload should be attempted")
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, &stubMediaStore{})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "bob", Email: "bob@example.com", Password: "pass"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "robert", Email: "bob@example.com", Password: "pass2"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected one record, got %d", len(repo.byID))
	}
}

func TestAccountService_Register_WithAvatar(t *testing.T) {
	repo := newStubAccountRepo()
	media := &stubMediaStore{}
	svc := newAccountService(repo, media)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "carol", Email: "carol@example.com", Password: "pass",
		Avatar: &ports.FileInput{Data: []byte("img"), Filename: "me.png", ContentType: "image/png"},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(media.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(media.uploads))
	}
	if media.uploads[0].Folder != ports.MediaFolderAvatars {
		t.Fatalf("expected avatars folder, got %s", media.uploads[0].Folder)
	}
	if result.Avatar == "" {
		t.Fatalf("expected avatar URL in result")
	}

	stored, _ := repo.FindByEmail(context.Background(), "carol@example.com")
	if !stored.SelfHostedAvatar() {
		t.Fatalf("expected stored avatar key")
	}
}

func TestAccountService_Register_UploadFailure(t *testing.T) {
	repo := newStubAccountRepo()
	media := &stubMediaStore{uploadErr: errors.New("bucket unavailable")}
	svc := newAccountService(repo, media)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "dave", Email: "dave@example.com", Password: "pass",
		Avatar: &ports.FileInput{Data: []byte("img"), Filename: "me.png"},
	})
	if err == nil {
		t.Fatalf("expected upload error to propagate")
	}
	if len(repo.byID) != 0 {
		t.Fatalf("no partial user should be created on upload failure")
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAccountService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, &stubMediaStore{})

	reg, err := svc.Register(context.Background(), ports.RegisterInput{Name: "erin", Email: "erin@example.com", Password: "s3cret", Bio: "hi"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "erin@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.ID != reg.ID || result.Bio != "hi" {
		t.Fatalf("unexpected view: %+v", result)
	}
}

func TestAccountService_Login_IndistinguishableFailures(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, &stubMediaStore{})

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "frank", Email: "frank@example.com", Password: "goodpass"})

	_, wrongPass := svc.Login(context.Background(), "frank@example.com", "badpass")
	_, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "whatever")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPass)
	}
	if !errors.Is(unknownEmail, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownEmail)
	}
	if wrongPass.Error() != unknownEmail.Error() {
		t.Fatalf("failure messages must not reveal which field was wrong: %q vs %q", wrongPass, unknownEmail)
	}
}

func TestAccountService_Login_RepositoryFailureSurfaces(t *testing.T) {
	repo := newStubAccountRepo()
	repo.findEmailErr = errors.New("server selection error: context deadline exceeded")
	svc := newAccountService(repo, &stubMediaStore{})

	_, err := svc.Login(context.Background(), "erin@example.com", "s3cret")
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("a database outage must not be reported as bad credentials: %v", err)
	}
	if !errors.Is(err, repo.findEmailErr) {
		t.Fatalf("expected the repository error to surface, got %v", err)
	}
}

func TestAccountService_Login_MissingFields(t *testing.T) {
	svc := newAccountService(newStubAccountRepo(), &stubMediaStore{})

	if _, err := svc.Login(context.Background(), "", "pass"); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@b.c", ""); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Profile / UpdateProfile
// ---------------------------------------------------------------------------

func registerUser(t *testing.T, svc *AccountService, email string) string {
	t.Helper()
	result, err := svc.Register(context.Background(), ports.RegisterInput{Name: "user", Email: email, Password: "pass", Bio: "old bio"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return result.ID
}

func TestAccountService_Profile_NotFound(t *testing.T) {
	svc := newAccountService(newStubAccountRepo(), &stubMediaStore{})
	if _, err := svc.Profile(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAccountService_UpdateProfile_BioPresenceSemantics(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, &stubMediaStore{})
	id := registerUser(t, svc, "g@example.com")

	// Omitted bio keeps the previous value.
	profile, err := svc.UpdateProfile(context.Background(), id, ports.UpdateProfileInput{Name: "renamed"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if profile.Bio != "old bio" {
		t.Fatalf("omitted bio must keep prior value, got %q", profile.Bio)
	}
	if profile.Name != "renamed" {
		t.Fatalf("expected name replaced, got %q", profile.Name)
	}

	// Explicit empty string clears it.
	empty := ""
	profile, err = svc.UpdateProfile(context.Background(), id, ports.UpdateProfileInput{Bio: &empty})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if profile.Bio != "" {
		t.Fatalf("explicit empty bio must clear it, got %q", profile.Bio)
	}
}

func TestAccountService_UpdateProfile_EmptyNameAndPasswordIgnored(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, &stubMediaStore{})
	id := registerUser(t, svc, "h@example.com")

	before, _ := repo.FindByID(context.Background(), id)

	if _, err := svc.UpdateProfile(context.Background(), id, ports.UpdateProfileInput{}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	after, _ := repo.FindByID(context.Background(), id)
	if after.Name != before.Name {
		t.Fatalf("empty name must not replace the old one")
	}
	if after.PasswordHash != before.PasswordHash {
		t.Fatalf("empty password must not be re-hashed")
	}
}

func TestAccountService_UpdateProfile_PasswordRehashed(t *testing.T) {
	repo := newStubAccountRepo()
	svc := newAccountService(repo, &stubMediaStore{})
	id := registerUser(t, svc, "i@example.com")

	if _, err := svc.UpdateProfile(context.Background(), id, ports.UpdateProfileInput{Password: "newpass"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "i@example.com", "newpass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "i@example.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must no longer verify, got %v", err)
	}
}

func TestAccountService_UpdateProfile_NotFound(t *testing.T) {
	svc := newAccountService(newStubAccountRepo(), &stubMediaStore{})
	if _, err := svc.UpdateProfile(context.Background(), "missing", ports.UpdateProfileInput{Name: "x"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Avatar replacement policy
// ---------------------------------------------------------------------------

func TestAccountService_UpdateProfile_ReplaceSelfHostedAvatar(t *testing.T) {
	repo := newStubAccountRepo()
	media := &stubMediaStore{}
	svc := newAccountService(repo, media)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "j", Email: "j@example.com", Password: "pass",
		Avatar: &ports.FileInput{Data: []byte("v1"), Filename: "v1.png"},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	oldKey := repo.byID[result.ID].AvatarKey

	if _, err := svc.UpdateProfile(context.Background(), result.ID, ports.UpdateProfileInput{
		Avatar: &ports.FileInput{Data: []byte("v2"), Filename: "v2.png"},
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(media.deletes) != 1 || media.deletes[0] != oldKey {
		t.Fatalf("expected exactly one delete with the stored key %q, got %v", oldKey, media.deletes)
	}
	if len(media.uploads) != 2 {
		t.Fatalf("expected exactly one replacement upload, got %d total", len(media.uploads))
	}

	after, _ := repo.FindByID(context.Background(), result.ID)
	if after.AvatarKey == oldKey {
		t.Fatalf("avatar key should point at the new object")
	}
}

func TestAccountService_UpdateProfile_DeleteFailureSwallowed(t *testing.T) {
	repo := newStubAccountRepo()
	media := &stubMediaStore{deleteErr: errors.New("object store down")}
	svc := newAccountService(repo, media)

	result, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "k", Email: "k@example.com", Password: "pass",
		Avatar: &ports.FileInput{Data: []byte("v1"), Filename: "v1.png"},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	profile, err := svc.UpdateProfile(context.Background(), result.ID, ports.UpdateProfileInput{
		Avatar: &ports.FileInput{Data: []byte("v2"), Filename: "v2.png"},
	})
	if err != nil {
		t.Fatalf("delete failure must not fail the update: %v", err)
	}
	if profile.Avatar == result.Avatar {
		t.Fatalf("new avatar must be persisted despite the failed cleanup")
	}
}

func TestAccountService_UpdateProfile_ExternalAvatarNotDeleted(t *testing.T) {
	repo := newStubAccountRepo()
	media := &stubMediaStore{}
	svc := newAccountService(repo, media)
	id := registerUser(t, svc, "l@example.com")

	// Simulate an externally supplied avatar URL: no storage key.
	ext := repo.byID[id]
	ext.AvatarURL = "https://gravatar.example.com/l.png"
	ext.AvatarKey = ""

	if _, err := svc.UpdateProfile(context.Background(), id, ports.UpdateProfileInput{
		Avatar: &ports.FileInput{Data: []byte("v2"), Filename: "v2.png"},
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(media.deletes) != 0 {
		t.Fatalf("external URLs must never trigger deletion, got %v", media.deletes)
	}
	if len(media.uploads) != 1 {
		t.Fatalf("expected exactly one upload, got %d", len(media.uploads))
	}
}

func TestAccountService_UpdateProfile_UploadFailureAbortsAllChanges(t *testing.T) {
	repo := newStubAccountRepo()
	media := &stubMediaStore{}
	svc := newAccountService(repo, media)
	id := registerUser(t, svc, "m@example.com")

	media.uploadErr = errors.New("bucket unavailable")
	newBio := "new bio"
	_, err := svc.UpdateProfile(context.Background(), id, ports.UpdateProfileInput{
		Name:   "newname",
		Bio:    &newBio,
		Avatar: &ports.FileInput{Data: []byte("v2"), Filename: "v2.png"},
	})
	if err == nil {
		t.Fatalf("expected upload error to propagate")
	}

	after, _ := repo.FindByID(context.Background(), id)
	if after.Name == "newname" || after.Bio == "new bio" {
		t.Fatalf("no field change may be persisted when the upload fails")
	}
	if repo.updates != 0 {
		t.Fatalf("save must not be reached on upload failure")
	}
}
