package cart

import "context"

// Repository persists cart rows one at a time. A Cart itself is never stored;
// it is rebuilt from LoadItems on every operation.
type Repository interface {
	// LoadItems returns the customer's items in insertion order. An unknown
	// customer yields an empty slice.
	LoadItems(ctx context.Context, customerID int64) ([]Item, error)
	// AddItem inserts a row with quantity 1 and returns its generated id. It
	// does not check that the product exists.
	AddItem(ctx context.Context, customerID, productID int64) (int64, error)
	// UpdateQuantity is a no-op when the row does not exist.
	UpdateQuantity(ctx context.Context, customerID, productID int64, quantity int) error
	DeleteItem(ctx context.Context, customerID, productID int64) error
	// DeleteItems removes every listed product in a single statement.
	DeleteItems(ctx context.Context, customerID int64, productIDs []int64) error
	DeleteAllItems(ctx context.Context, customerID int64) error
}
