package order

import (
	"time"

	domcart "example.com/shoppingcart/internal/domain/cart"
)

type Order struct {
	ID          int64
	CustomerID  int64
	TotalAmount int64
	Items       []OrderItem
	CreatedAt   time.Time
}

// OrderItem snapshots a cart line at the time the order was placed.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	Price     int64
	Quantity  int
}

func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// ItemsFromCart converts cart lines into order lines, keeping cart order.
func ItemsFromCart(items []domcart.Item) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, OrderItem{
			ProductID: item.ProductID(),
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		})
	}
	return out
}

func Total(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
