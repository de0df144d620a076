package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PromoHandler validates storefront promotion codes.
type PromoHandler struct {
	uc usecase.PromoUsecase
}

// NewPromoHandler is the constructor for PromoHandler, injected by Fx.
func NewPromoHandler(uc usecase.PromoUsecase) *PromoHandler {
	return &PromoHandler{uc: uc}
}

// Validate resolves a promotion code to its coupon summary.
func (h *PromoHandler) Validate(c echo.Context) error {
	var body struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&body); err != nil {
		return response.BindingError(c, "Invalid promo payload")
	}

	promo, err := h.uc.Validate(c.Request().Context(), body.Code)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, promo)
}
