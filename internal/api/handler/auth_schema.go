package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/ports"
)

// apiResponse is the success envelope shared by every endpoint.
// Errors use the same shape with success=false (see internal/api).
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, apiResponse{Success: true, Message: message, Data: data})
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authUserResponse is the registration/login view: profile fields plus the
// freshly issued session token. The password hash is never part of any view.
type authUserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
	Token  string `json:"token"`
}

// profileResponse is the token-less profile view. CreatedAt is a pointer so
// the update view can leave the key out entirely; omitempty never drops a
// zero time.Time value.
type profileResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Bio       string     `json:"bio"`
	Avatar    string     `json:"avatar"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func toAuthUserResponse(r *ports.AuthResult) authUserResponse {
	return authUserResponse{
		ID:     r.ID,
		Name:   r.Name,
		Email:  r.Email,
		Bio:    r.Bio,
		Avatar: r.Avatar,
		Token:  r.Token,
	}
}

func toProfileResponse(p *ports.UserProfile, withCreatedAt bool) profileResponse {
	resp := profileResponse{
		ID:     p.ID,
		Name:   p.Name,
		Email:  p.Email,
		Bio:    p.Bio,
		Avatar: p.Avatar,
	}
	if withCreatedAt {
		createdAt := p.CreatedAt.UTC()
		resp.CreatedAt = &createdAt
	}
	return resp
}
