package middleware

import (
	"log/slog"

	logctx "storefront/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware tags every request with an id and a request-scoped
// logger, both reachable downstream through the request context.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

// NewRequestIDMiddleware creates the request id middleware.
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{logger: logger}
}

// Handle honors an inbound X-Request-Id, generating one otherwise, and
// echoes it back on the response.
func (m *RequestIDMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logctx.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		logctx.SetRequestID(c, requestID)
		c.Response().Header().Set(logctx.HeaderXRequestID, requestID)

		requestLogger := m.logger.With(slog.String("request_id", requestID))
		ctx := logctx.WithRequestID(c.Request().Context(), requestID)
		ctx = logctx.WithLogger(ctx, requestLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
