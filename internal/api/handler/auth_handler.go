package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/api/metrics"
	"github.com/inkpress/blog-platform/internal/core/ports"
)

type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register creates a new account from a multipart form, optionally uploading
// an avatar file first.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Param        name      formData  string  true   "Display name"
// @Param        email     formData  string  true   "Email address"
// @Param        password  formData  string  true   "Password"
// @Param        bio       formData  string  false  "Short bio"
// @Param        avatar    formData  file    false  "Avatar image"
// @Success      201  {object}  apiResponse{data=authUserResponse}
// @Failure      400  {object}  apiResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	avatar, err := formFile(c, "avatar")
	if err != nil {
		return err
	}

	bio, _ := lookupForm(c, "bio")
	result, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Bio:      bio,
		Avatar:   avatar,
	})
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return respond(c, http.StatusCreated, "user registered", toAuthUserResponse(result))
}

// Login authenticates a user and returns a fresh session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  apiResponse{data=authUserResponse}
// @Failure      400   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return respond(c, http.StatusOK, "login successful", toAuthUserResponse(result))
}

// Me returns the authenticated user's profile.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse{data=profileResponse}
// @Failure      401  {object}  apiResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.accounts.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "profile", toProfileResponse(profile, true))
}

// UpdateProfile applies a partial profile update from a multipart form.
// A present-but-empty bio field clears the bio; an absent field leaves it.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        name      formData  string  false  "Display name"
// @Param        bio       formData  string  false  "Short bio (empty string clears it)"
// @Param        password  formData  string  false  "New password"
// @Param        avatar    formData  file    false  "Replacement avatar image"
// @Success      200  {object}  apiResponse{data=profileResponse}
// @Failure      404  {object}  apiResponse
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	avatar, err := formFile(c, "avatar")
	if err != nil {
		return err
	}

	input := ports.UpdateProfileInput{
		Name:     c.FormValue("name"),
		Password: c.FormValue("password"),
		Avatar:   avatar,
	}
	if bio, ok := lookupForm(c, "bio"); ok {
		input.Bio = &bio
	}

	profile, err := h.accounts.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "profile updated", toProfileResponse(profile, false))
}
