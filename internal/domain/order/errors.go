package order

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrEmptyOrderItems = errors.New("no items to order")
	ErrInvalidQuantity = errors.New("cart item quantity must be positive to order")
)
