package cart

import domproduct "example.com/shoppingcart/internal/domain/product"

// DefaultQuantity is the quantity of a freshly added item.
const DefaultQuantity = 1

type Item struct {
	Product  domproduct.Product
	Quantity int
}

func NewItem(p domproduct.Product, quantity int) Item {
	return Item{Product: p, Quantity: quantity}
}

func (i Item) ProductID() int64 {
	return i.Product.ID
}

func (i *Item) UpdateQuantity(quantity int) {
	i.Quantity = quantity
}

func (i Item) Subtotal() int64 {
	return i.Product.Price * int64(i.Quantity)
}

// Cart is the working set of one customer's items for the duration of a
// single operation. Items are unique by product ID and keep insertion order.
type Cart struct {
	items []Item
}

// New builds a Cart from persisted rows. Rows are trusted to be unique per
// product; a repeated product keeps its first position.
func New(items []Item) *Cart {
	c := &Cart{items: make([]Item, 0, len(items))}
	for _, item := range items {
		_ = c.Add(item)
	}
	return c
}

func (c *Cart) Add(item Item) error {
	if c.indexOf(item.ProductID()) >= 0 {
		return ErrDuplicateItem
	}
	c.items = append(c.items, item)
	return nil
}

func (c *Cart) UpdateQuantity(productID int64, quantity int) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return ErrItemNotFound
	}
	c.items[idx].UpdateQuantity(quantity)
	return nil
}

func (c *Cart) Delete(productID int64) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return ErrItemNotFound
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return nil
}

// Items returns a copy of the current items in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Item(productID int64) (Item, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return Item{}, false
	}
	return c.items[idx], true
}

func (c *Cart) Contains(productID int64) bool {
	return c.indexOf(productID) >= 0
}

// ContainsAll reports whether every id is present. An empty list is trivially
// contained.
func (c *Cart) ContainsAll(productIDs []int64) bool {
	for _, id := range productIDs {
		if !c.Contains(id) {
			return false
		}
	}
	return true
}

func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c.items))
	for _, item := range c.items {
		ids = append(ids, item.ProductID())
	}
	return ids
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

func (c *Cart) indexOf(productID int64) int {
	for i := range c.items {
		if c.items[i].ProductID() == productID {
			return i
		}
	}
	return -1
}
