// Package response defines the error payload shared by all JSON endpoints.
// Success payloads are plain resource shapes; only failures get an envelope.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the JSON body of every non-2xx response.
type ErrorBody struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries the business error code and optional detail.
type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// Error writes an error response.
func Error(c echo.Context, statusCode int, errorCode, message, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorBody{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}

// BindingError reports a malformed request body.
func BindingError(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, "INVALID_INPUT", message, "")
}
