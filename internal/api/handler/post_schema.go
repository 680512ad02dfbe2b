package handler

import (
	"strings"
	"time"

	"github.com/inkpress/blog-platform/internal/core/ports"
)

type postResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Cover     string    `json:"cover"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// postSummaryResponse intentionally omits the content body to keep list
// payloads small.
type postSummaryResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Tags      []string  `json:"tags"`
	Cover     string    `json:"cover"`
	CreatedAt time.Time `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listPostsResponse struct {
	Posts      []postSummaryResponse `json:"posts"`
	Pagination paginationResponse    `json:"pagination"`
}

func toPostResponse(d *ports.PostDetail) postResponse {
	return postResponse{
		ID:        d.ID,
		AuthorID:  d.AuthorID,
		Title:     d.Title,
		Slug:      d.Slug,
		Content:   d.Content,
		Tags:      d.Tags,
		Cover:     d.Cover,
		Views:     d.Views,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func toListPostsResponse(r *ports.ListPostsResult) listPostsResponse {
	items := make([]postSummaryResponse, len(r.Items))
	for i, p := range r.Items {
		items[i] = postSummaryResponse{
			ID:        p.ID,
			AuthorID:  p.AuthorID,
			Title:     p.Title,
			Slug:      p.Slug,
			Tags:      p.Tags,
			Cover:     p.Cover,
			CreatedAt: p.CreatedAt.UTC(),
		}
	}
	return listPostsResponse{
		Posts: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

// parseTags splits a comma-separated tags field into a clean slice.
// Returns nil for an empty field.
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
