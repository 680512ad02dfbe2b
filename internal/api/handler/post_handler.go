package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/api/metrics"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

// PostHandler handles HTTP requests for blog post operations.
type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// Create publishes a new post from a multipart form with an optional cover image.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        title    formData  string  true   "Title"
// @Param        content  formData  string  true   "Body content"
// @Param        tags     formData  string  false  "Comma-separated tags"
// @Param        cover    formData  file    false  "Cover image"
// @Success      201  {object}  apiResponse{data=postResponse}
// @Failure      400  {object}  apiResponse
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	authorID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cover, err := formFile(c, "cover")
	if err != nil {
		return err
	}

	detail, err := h.posts.Create(c.Request().Context(), ports.CreatePostInput{
		AuthorID: authorID,
		Title:    c.FormValue("title"),
		Content:  c.FormValue("content"),
		Tags:     parseTags(c.FormValue("tags")),
		Cover:    cover,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return respond(c, http.StatusCreated, "post created", toPostResponse(detail))
}

// Get returns a single post by slug.
//
// @Summary      Get a post by slug
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  apiResponse{data=postResponse}
// @Failure      404   {object}  apiResponse
// @Router       /api/posts/{slug} [get]
func (h *PostHandler) Get(c echo.Context) error {
	detail, err := h.posts.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}

	metrics.PostViewsTotal.Inc()
	return respond(c, http.StatusOK, "post", toPostResponse(detail))
}

// List returns a paginated page of posts, newest first.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        tag     query     string  false  "Filter by tag"
// @Param        author  query     string  false  "Filter by author id"
// @Param        page    query     int     false  "Page number (1-based)"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  apiResponse{data=listPostsResponse}
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.posts.List(c.Request().Context(), ports.ListPostsFilter{
		Tag:      c.QueryParam("tag"),
		AuthorID: c.QueryParam("author"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "posts", toListPostsResponse(result))
}

// Update edits a post owned by the caller.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true   "Post id"
// @Param        title    formData  string  false  "Title"
// @Param        content  formData  string  false  "Body content"
// @Param        tags     formData  string  false  "Comma-separated tags"
// @Param        cover    formData  file    false  "Replacement cover image"
// @Success      200  {object}  apiResponse{data=postResponse}
// @Failure      403  {object}  apiResponse
// @Failure      404  {object}  apiResponse
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	authorID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	cover, err := formFile(c, "cover")
	if err != nil {
		return err
	}

	input := ports.UpdatePostInput{Cover: cover}
	if title, ok := lookupForm(c, "title"); ok {
		input.Title = &title
	}
	if content, ok := lookupForm(c, "content"); ok {
		input.Content = &content
	}
	if tags, ok := lookupForm(c, "tags"); ok {
		input.Tags = parseTags(tags)
	}

	detail, err := h.posts.Update(c.Request().Context(), c.Param("id"), authorID, input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "post updated", toPostResponse(detail))
}

// Delete removes a post owned by the caller.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Post id"
// @Success      200  {object}  apiResponse
// @Failure      403  {object}  apiResponse
// @Failure      404  {object}  apiResponse
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	authorID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.posts.Delete(c.Request().Context(), c.Param("id"), authorID); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "post deleted", nil)
}
