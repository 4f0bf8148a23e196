package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrCartItemNotFound     = errors.New("item is not in the cart")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrProductUnavailable   = errors.New("product is unavailable")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderNumberExhausted = errors.New("exhausted order number generation attempts")
	ErrOrderNotFound        = errors.New("order not found")
	ErrSessionNotFound      = errors.New("session not found")
)

// InsufficientStock carries the quantity still available so callers can
// render it inline.
type InsufficientStock struct {
	ProductID string
	Available int32
	Requested int32
}

func (e InsufficientStock) Error() string {
	return fmt.Sprintf(
		"insufficient stock for product=%s requested=%d available=%d",
		e.ProductID,
		e.Requested,
		e.Available,
	)
}

func (e InsufficientStock) Unwrap() error { return ErrInsufficientStock }
