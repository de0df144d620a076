// Package router contains routing setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	WebhookHandler  *handler.WebhookHandler
	CheckoutHandler *handler.CheckoutHandler
	CatalogHandler  *handler.CatalogHandler
	AdminHandler    *handler.AdminHandler
	PromoHandler    *handler.PromoHandler

	AdminKeyMiddleware *middleware.AdminKeyMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	webhook  *handler.WebhookHandler
	checkout *handler.CheckoutHandler
	catalog  *handler.CatalogHandler
	admin    *handler.AdminHandler
	promo    *handler.PromoHandler

	adminKey *middleware.AdminKeyMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		webhook:  params.WebhookHandler,
		checkout: params.CheckoutHandler,
		catalog:  params.CatalogHandler,
		admin:    params.AdminHandler,
		promo:    params.PromoHandler,
		adminKey: params.AdminKeyMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Payment provider callback; body must reach the handler unparsed.
	e.POST("/api/stripe-webhook", r.webhook.Handle)

	// Storefront routes
	e.POST("/api/checkout", r.checkout.Create)
	e.GET("/api/products", r.catalog.List)
	e.GET("/api/products/:id", r.catalog.Get)
	e.POST("/promo/validate", r.promo.Validate)

	// Operator routes behind the shared admin key
	adminGroup := e.Group("/api/admin")
	adminGroup.Use(r.adminKey.Require)
	{
		adminGroup.POST("/products", r.admin.CreateProduct)
		adminGroup.PUT("/products/:id", r.admin.UpdateProduct)
		adminGroup.DELETE("/products/:id", r.admin.DeleteProduct)
		adminGroup.PATCH("/products/:id/inventory", r.admin.SetInventory)
		adminGroup.GET("/orders", r.admin.ListOrders)
		adminGroup.GET("/orders.csv", r.admin.ExportOrdersCSV)
	}
}
