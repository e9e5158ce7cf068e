package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes and user-facing messages.
var (
	ErrProductNotFound       = errors.New("product not found")
	ErrProductNotAvailable   = errors.New("product not available")
	ErrCartNotFound          = errors.New("cart not found")
	ErrItemNotInCart         = errors.New("item not in cart")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderStatusInvalid    = errors.New("order status transition not allowed")
	ErrOrderNumberCollision  = errors.New("order number collision")
	ErrDuplicateSubmission   = errors.New("duplicate order submission")
	ErrGuestEmailRequired    = errors.New("guest email required")
	ErrGuestPasswordRequired = errors.New("guest access password required")
	ErrGuestPasswordInvalid  = errors.New("guest access password invalid")
	ErrShippingIncomplete    = errors.New("shipping information incomplete")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrPromotionInvalid      = errors.New("promotion invalid")
)

// StockShortfall names one product that could not cover a requested
// quantity.
type StockShortfall struct {
	ProductNo string `json:"product_no"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// Shortfall is the number of units that could not be covered.
func (s StockShortfall) Shortfall() int {
	short := s.Requested - s.Available
	if short < 0 {
		return 0
	}
	return short
}

// InsufficientStockError reports every product that fell short of a
// request. It matches ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Shortfalls []StockShortfall
}

// Error implements error.
func (e *InsufficientStockError) Error() string {
	if len(e.Shortfalls) == 1 {
		s := e.Shortfalls[0]
		return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
			s.ProductNo, s.Requested, s.Available)
	}
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (requested %d, available %d)",
			s.ProductNo, s.Requested, s.Available))
	}
	return "insufficient stock for " + strings.Join(parts, ", ")
}

// Is lets errors.Is treat this as ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// TransactionError wraps a database failure that rolled back a
// multi-step write.
type TransactionError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *TransactionError) Unwrap() error {
	return e.Err
}
