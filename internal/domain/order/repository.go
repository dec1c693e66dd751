package order

import "context"

type Repository interface {
	// Create stores the order and its lines and removes the ordered products
	// from the customer's cart in one transaction.
	Create(ctx context.Context, customerID int64, items []OrderItem) (*Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
}
