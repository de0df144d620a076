package middleware

import (
	"crypto/subtle"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// HeaderAdminKey carries the shared admin key. The key is also accepted as a
// ?key= query parameter so the CSV export works as a plain browser link.
const HeaderAdminKey = "x-admin-key"

// AdminKeyMiddleware guards operator endpoints with the shared admin key.
type AdminKeyMiddleware struct {
	key string
}

// NewAdminKeyMiddleware creates the admin auth middleware.
func NewAdminKeyMiddleware(cfg *config.Config) *AdminKeyMiddleware {
	return &AdminKeyMiddleware{key: cfg.Admin.Key}
}

// Require rejects requests without the configured key. An unconfigured key
// locks the endpoints entirely rather than leaving them open.
func (m *AdminKeyMiddleware) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		got := c.Request().Header.Get(HeaderAdminKey)
		if got == "" {
			got = c.QueryParam("key")
		}

		if m.key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(m.key)) != 1 {
			return domainerrors.ErrUnauthorized
		}

		return next(c)
	}
}
