package domain

import (
	"errors"
	"time"
)

var ErrPostNotFound = errors.New("post not found")
var ErrForbidden = errors.New("access forbidden")

// Post is a published blog entry. CoverURL/CoverKey follow the same
// self-hosted convention as the user avatar: a non-empty key means the cover
// image lives in this system's media store.
type Post struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Title     string    `json:"title" bson:"title"`
	Slug      string    `json:"slug" bson:"slug"`
	Content   string    `json:"content" bson:"content"`
	Tags      []string  `json:"tags" bson:"tags"`
	CoverURL  string    `json:"cover" bson:"cover_url"`
	CoverKey  string    `json:"-" bson:"cover_key"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (p *Post) SelfHostedCover() bool {
	return p.CoverKey != ""
}
