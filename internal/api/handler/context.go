package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-platform/internal/core/ports"
)

const maxUploadBytes = 8 << 20 // 8 MiB per file

// ctxUserID extracts the user id injected by the Auth middleware. Its
// presence proves the middleware ran; handlers behind Auth fast-fail with
// 401 if it is missing.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// formFile reads an optional multipart file field into memory. Returns
// (nil, nil) when the field is absent.
func formFile(c echo.Context, name string) (*ports.FileInput, error) {
	fh, err := c.FormFile(name)
	if err != nil {
		// http.ErrMissingFile and "not multipart" both mean "no file sent".
		return nil, nil
	}
	if fh.Size > maxUploadBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	src, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	if int64(len(data)) > maxUploadBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	return &ports.FileInput{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}

// lookupForm reports a text form field together with whether the key was
// present at all. Handlers use this to tell "field omitted" apart from
// "explicit empty string" (the bio-clearing case).
func lookupForm(c echo.Context, name string) (string, bool) {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		vs, ok := form.Value[name]
		if !ok || len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	}
	if err := c.Request().ParseForm(); err == nil {
		if vs, ok := c.Request().PostForm[name]; ok && len(vs) > 0 {
			return vs[0], true
		}
	}
	return "", false
}
