// Package handler contains the HTTP handlers for the storefront API.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports process liveness.
func HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
