// Package response holds the error response shape shared by all
// handlers. Success payloads are endpoint-specific and returned
// directly, matching the read API contract.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is the standard error response shape.
type APIError struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Path    string `json:"path"`
	Status  int    `json:"status"`
}

// Error sends a JSON error response.
func Error(c echo.Context, status int, message, errDetail string) error {
	path := ""
	if c.Request() != nil {
		path = c.Request().URL.Path
	}
	return c.JSON(status, APIError{
		Message: message,
		Error:   errDetail,
		Path:    path,
		Status:  status,
	})
}

// BadRequest sends 400 with message and error detail.
func BadRequest(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusBadRequest, message, errDetail)
}

// NotFound sends 404 with message.
func NotFound(c echo.Context, message string) error {
	return Error(c, http.StatusNotFound, message, "")
}

// InternalError sends 500 with message and error detail.
func InternalError(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusInternalServerError, message, errDetail)
}

// BadGateway sends 502 with message and error detail, used when an
// upstream dependency fails.
func BadGateway(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusBadGateway, message, errDetail)
}
