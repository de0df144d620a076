package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CheckoutHandler creates hosted payment sessions.
type CheckoutHandler struct {
	uc usecase.CheckoutUsecase
}

// NewCheckoutHandler is the constructor for CheckoutHandler, injected by Fx.
func NewCheckoutHandler(uc usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

// Create validates the submitted cart and returns the payment page URL.
func (h *CheckoutHandler) Create(c echo.Context) error {
	var req *usecase.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "Invalid checkout payload")
	}

	url, err := h.uc.CreateSession(c.Request().Context(), req)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
