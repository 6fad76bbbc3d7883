package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error independently of its message so callers can branch on it
type Kind string

const (
	KindInsufficientStock  Kind = "insufficient_stock"
	KindEmptyCart          Kind = "empty_cart"
	KindInvalidDiscount    Kind = "invalid_discount"
	KindNotFound           Kind = "not_found"
	KindPersistenceFailure Kind = "persistence_failure"
	KindRenderFailure      Kind = "render_failure"
	KindUnauthorized       Kind = "unauthorized"
	KindBadRequest         Kind = "bad_request"
	KindInternal           Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors of the same kind, so sentinels work with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Kind == "" || e.Kind == "" {
		return e == t
	}
	return e.Kind == t.Kind
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid token"}

	ErrEmptyCart          = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindEmptyCart, Message: "Please select at least one item with quantity"}
	ErrInvalidDiscount    = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInvalidDiscount, Message: "Invalid discount"}
	ErrInsufficientStock  = &AppError{Code: http.StatusConflict, Kind: KindInsufficientStock, Message: "Insufficient stock"}
	ErrPersistenceFailure = &AppError{Code: http.StatusInternalServerError, Kind: KindPersistenceFailure, Message: "Failed to save bill"}
	ErrRenderFailure      = &AppError{Code: http.StatusInternalServerError, Kind: KindRenderFailure, Message: "Failed to generate invoice"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewInvalidDiscountError rejects a discount before any stock is looked at
func NewInvalidDiscountError(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidDiscount,
		Message: message,
		Errors:  []FieldError{{Field: "discount", Message: message}},
	}
}

// NewPersistenceError wraps a storage failure that aborted a bill transaction
func NewPersistenceError(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistenceFailure,
		Message: "Failed to save bill",
		Err:     err,
	}
}

// NewRenderError wraps a failure to produce or store an invoice artifact.
// The bill it belongs to is already committed.
func NewRenderError(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindRenderFailure,
		Message: "Failed to generate invoice",
		Err:     err,
	}
}

// InsufficientStockError reports the first cart line asking for more than is on hand
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Available: %d", e.ProductName, e.Available)
}

// Is lets errors.Is(err, ErrInsufficientStock) match
func (e *InsufficientStockError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Kind == KindInsufficientStock
}

// NewInsufficientStockError creates a stock shortage error
func NewInsufficientStockError(productID uint, name string, available int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, ProductName: name, Available: available}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return &AppError{
			Code:    http.StatusConflict,
			Kind:    KindInsufficientStock,
			Message: stockErr.Error(),
			Err:     stockErr,
		}
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}
