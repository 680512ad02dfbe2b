package ports

import (
	"context"
	"time"
)

// CreatePostInput carries all data needed to publish a new post.
type CreatePostInput struct {
	AuthorID string
	Title    string
	Content  string
	Tags     []string
	Cover    *FileInput // optional
}

// UpdatePostInput carries the post patch. Title and Content are pointers so
// an explicit empty value can be told apart from an omitted field.
type UpdatePostInput struct {
	Title   *string
	Content *string
	Tags    []string   // nil means "leave unchanged"
	Cover   *FileInput // optional replacement
}

// PostDetail is the full post view, including the running view count.
type PostDetail struct {
	ID        string
	AuthorID  string
	Title     string
	Slug      string
	Content   string
	Tags      []string
	Cover     string
	Views     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostSummary is the lightweight item used in list responses (no content body).
type PostSummary struct {
	ID        string
	AuthorID  string
	Title     string
	Slug      string
	Tags      []string
	Cover     string
	CreatedAt time.Time
}

// ListPostsResult is returned by List.
type ListPostsResult struct {
	Items      []PostSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PostService defines use-case operations for blog posts.
type PostService interface {
	Create(ctx context.Context, input CreatePostInput) (*PostDetail, error)
	Get(ctx context.Context, slug string) (*PostDetail, error)
	List(ctx context.Context, filter ListPostsFilter) (*ListPostsResult, error)
	Update(ctx context.Context, postID, authorID string, input UpdatePostInput) (*PostDetail, error)
	Delete(ctx context.Context, postID, authorID string) error
}
