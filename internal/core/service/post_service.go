package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-platform/internal/core/domain"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// ViewCounter abstracts the per-post view tally (Redis).
type ViewCounter interface {
	Increment(ctx context.Context, slug string) (int64, error)
	Get(ctx context.Context, slug string) (int64, error)
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type PostService struct {
	repo   ports.PostRepository
	media  ports.MediaStore
	views  ViewCounter
	logger zerolog.Logger
}

func NewPostService(repo ports.PostRepository, media ports.MediaStore, views ViewCounter, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, media: media, views: views, logger: logger}
}

// Create publishes a new post. An optional cover image is uploaded before
// the record is created, so an upload failure leaves no partial post.
func (s *PostService) Create(ctx context.Context, input ports.CreatePostInput) (*ports.PostDetail, error) {
	if input.Title == "" || input.Content == "" {
		return nil, domain.ErrMissingFields
	}

	var coverURL, coverKey string
	if input.Cover != nil {
		stored, err := s.media.Upload(ctx, ports.UploadInput{
			Data:        input.Cover.Data,
			Filename:    input.Cover.Filename,
			ContentType: input.Cover.ContentType,
			Folder:      ports.MediaFolderCovers,
		})
		if err != nil {
			return nil, fmt.Errorf("upload cover: %w", err)
		}
		coverURL = stored.URL
		coverKey = stored.Key
	}

	now := time.Now().UTC()
	post := &domain.Post{
		AuthorID:  input.AuthorID,
		Title:     input.Title,
		Slug:      makeSlug(input.Title),
		Content:   input.Content,
		Tags:      input.Tags,
		CoverURL:  coverURL,
		CoverKey:  coverKey,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("post_id", created.ID).Str("slug", created.Slug).Str("author_id", created.AuthorID).Msg("post created")

	return s.toDetail(ctx, created), nil
}

// Get returns a single post by slug and bumps its view counter. A counter
// failure is logged and ignored so a Redis outage never breaks reads.
func (s *PostService) Get(ctx context.Context, slug string) (*ports.PostDetail, error) {
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	detail := s.toDetail(ctx, post)
	views, err := s.views.Increment(ctx, post.Slug)
	if err != nil {
		s.logger.Warn().Err(err).Str("slug", post.Slug).Msg("view counter unavailable")
	} else {
		detail.Views = views
	}
	return detail, nil
}

// List returns a paginated page of post summaries, newest first.
func (s *PostService) List(ctx context.Context, filter ports.ListPostsFilter) (*ports.ListPostsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	posts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ports.PostSummary, len(posts))
	for i, p := range posts {
		items[i] = ports.PostSummary{
			ID:        p.ID,
			AuthorID:  p.AuthorID,
			Title:     p.Title,
			Slug:      p.Slug,
			Tags:      p.Tags,
			Cover:     p.CoverURL,
			CreatedAt: p.CreatedAt,
		}
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListPostsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial edit. Only the author may modify a post. Cover
// replacement follows the avatar policy: best-effort delete of the previous
// self-hosted object, then upload; all field changes are persisted by one
// save after the upload succeeded.
func (s *PostService) Update(ctx context.Context, postID, authorID string, input ports.UpdatePostInput) (*ports.PostDetail, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != authorID {
		return nil, domain.ErrForbidden
	}

	if input.Title != nil && *input.Title != "" {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Tags != nil {
		post.Tags = input.Tags
	}

	if input.Cover != nil {
		if post.SelfHostedCover() {
			if err := s.media.Delete(ctx, post.CoverKey); err != nil {
				s.logger.Warn().Err(err).Str("post_id", post.ID).Str("key", post.CoverKey).Msg("failed to delete old cover")
			}
		}
		stored, err := s.media.Upload(ctx, ports.UploadInput{
			Data:        input.Cover.Data,
			Filename:    input.Cover.Filename,
			ContentType: input.Cover.ContentType,
			Folder:      ports.MediaFolderCovers,
		})
		if err != nil {
			return nil, fmt.Errorf("upload cover: %w", err)
		}
		post.CoverURL = stored.URL
		post.CoverKey = stored.Key
	}

	post.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.toDetail(ctx, post), nil
}

// Delete removes a post owned by the caller. The self-hosted cover is
// cleaned up best effort once the record is gone.
func (s *PostService) Delete(ctx context.Context, postID, authorID string) error {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != authorID {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}

	if post.SelfHostedCover() {
		if err := s.media.Delete(ctx, post.CoverKey); err != nil {
			s.logger.Warn().Err(err).Str("post_id", post.ID).Str("key", post.CoverKey).Msg("failed to delete cover")
		}
	}

	s.logger.Info().Str("post_id", post.ID).Str("author_id", authorID).Msg("post deleted")
	return nil
}

func (s *PostService) toDetail(ctx context.Context, post *domain.Post) *ports.PostDetail {
	detail := &ports.PostDetail{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Slug:      post.Slug,
		Content:   post.Content,
		Tags:      post.Tags,
		Cover:     post.CoverURL,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if views, err := s.views.Get(ctx, post.Slug); err == nil {
		detail.Views = views
	}
	return detail
}

// makeSlug builds a URL slug from the title plus a short random suffix so
// identical titles never collide on the unique slug index.
func makeSlug(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "post"
	}
	return slug + "-" + randomSuffix()
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%08x", buf)
}
