// Package errors defines application errors carried across the usecase and
// delivery layers.
package errors

import (
	"net/http"

	"storefront/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Checkout-related errors
	ErrAddressRequired = NewBaseError(
		http.StatusBadRequest,
		"ADDRESS_REQUIRED",
		"Shipping address required",
		"",
	)

	ErrEmptyCart = NewBaseError(
		http.StatusBadRequest,
		"EMPTY_CART",
		"No items in request",
		"",
	)

	ErrMissingPriceRef = NewBaseError(
		http.StatusBadRequest,
		"MISSING_PRICE_REF",
		"Item has no price reference",
		"",
	)

	ErrStockConflict = NewBaseError(
		http.StatusConflict,
		"STOCK_CONFLICT",
		"Cart items are out of stock",
		"",
	)

	// Catalog-related errors
	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"Product not found",
		"",
	)

	ErrProductExists = NewBaseError(
		http.StatusConflict,
		"PRODUCT_EXISTS",
		"Product id already exists",
		"",
	)

	ErrInvalidProduct = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PRODUCT",
		"id, name and price are required",
		"",
	)

	ErrInvalidInventory = NewBaseError(
		http.StatusBadRequest,
		"INVALID_INVENTORY",
		`inventory must be an object like {"S":10,"M":5}`,
		"",
	)

	// Promo-related errors
	ErrPromoCodeMissing = NewBaseError(
		http.StatusBadRequest,
		"PROMO_CODE_MISSING",
		"Missing code",
		"",
	)

	ErrPromoCodeInvalid = NewBaseError(
		http.StatusNotFound,
		"PROMO_CODE_INVALID",
		"Invalid or expired code",
		"",
	)

	// Admin auth
	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"Unauthorized",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)
)
