package cart

import "errors"

var (
	ErrDuplicateItem     = errors.New("product is already in the cart")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrNotInCustomerCart = errors.New("product is not in the customer's cart")
)
