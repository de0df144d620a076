package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler serves the key-protected operator endpoints.
type AdminHandler struct {
	catalog usecase.CatalogUsecase
	orders  usecase.OrderUsecase
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(catalog usecase.CatalogUsecase, orders usecase.OrderUsecase) *AdminHandler {
	return &AdminHandler{catalog: catalog, orders: orders}
}

// CreateProduct adds a catalog entry.
func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var product *entity.Product
	if err := c.Bind(&product); err != nil {
		return response.BindingError(c, "Invalid product payload")
	}

	created, err := h.catalog.CreateProduct(c.Request().Context(), product)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateProduct replaces a catalog entry.
func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	var product *entity.Product
	if err := c.Bind(&product); err != nil {
		return response.BindingError(c, "Invalid product payload")
	}

	updated, err := h.catalog.UpdateProduct(c.Request().Context(), c.Param("id"), product)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteProduct removes a catalog entry.
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	if err := h.catalog.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// SetInventory replaces a product's per-size stock counts.
func (h *AdminHandler) SetInventory(c echo.Context) error {
	var body struct {
		Inventory map[string]int `json:"inventory"`
	}
	if err := c.Bind(&body); err != nil {
		return response.BindingError(c, "Invalid inventory payload")
	}

	product, err := h.catalog.SetInventory(c.Request().Context(), c.Param("id"), body.Inventory)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, product)
}

// ListOrders returns every recorded order.
func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.orders.ListOrders(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, orders)
}

// ExportOrdersCSV downloads all orders as CSV.
func (h *AdminHandler) ExportOrdersCSV(c echo.Context) error {
	csv, err := h.orders.ExportCSV(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)

	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
