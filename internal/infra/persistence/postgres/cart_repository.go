package postgres

import (
	"context"

	domcart "example.com/shoppingcart/internal/domain/cart"
	domproduct "example.com/shoppingcart/internal/domain/product"
	"example.com/shoppingcart/internal/infra/persistence/dbtrace"
)

const loadCartItemsQuery = `
        SELECT p.id, p.name, p.price, p.thumbnail, ci.quantity
        FROM cart_item ci JOIN product p ON p.id = ci.product_id
        WHERE ci.customer_id = $1
        ORDER BY ci.id
    `

type CartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) LoadItems(ctx context.Context, customerID int64) (_ []domcart.Item, err error) {
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.LoadItems", loadCartItemsQuery)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, loadCartItemsQuery, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domcart.Item{}
	for rows.Next() {
		var item domcart.Item
		if err = rows.Scan(&item.Product.ID, &item.Product.Name, &item.Product.Price, &item.Product.ThumbnailURL, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartRepository) AddItem(ctx context.Context, customerID, productID int64) (_ int64, err error) {
	const q = `INSERT INTO cart_item (customer_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.AddItem", q)
	defer func() { end(err) }()

	var id int64
	if err = r.db.QueryRow(ctx, q, customerID, productID, domcart.DefaultQuantity).Scan(&id); err != nil {
		switch pgErrorCode(err) {
		case uniqueViolation:
			return 0, domcart.ErrDuplicateItem
		case foreignKeyViolation:
			return 0, domproduct.ErrProductNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, customerID, productID int64, quantity int) (err error) {
	const q = `UPDATE cart_item SET quantity = $1 WHERE customer_id = $2 AND product_id = $3`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.UpdateQuantity", q)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, q, quantity, customerID, productID)
	return err
}

func (r *CartRepository) DeleteItem(ctx context.Context, customerID, productID int64) (err error) {
	const q = `DELETE FROM cart_item WHERE customer_id = $1 AND product_id = $2`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.DeleteItem", q)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, q, customerID, productID)
	return err
}

func (r *CartRepository) DeleteItems(ctx context.Context, customerID int64, productIDs []int64) (err error) {
	if len(productIDs) == 0 {
		return nil
	}
	const q = `DELETE FROM cart_item WHERE customer_id = $1 AND product_id = ANY($2)`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.DeleteItems", q)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, q, customerID, productIDs)
	return err
}

func (r *CartRepository) DeleteAllItems(ctx context.Context, customerID int64) (err error) {
	const q = `DELETE FROM cart_item WHERE customer_id = $1`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.DeleteAllItems", q)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, q, customerID)
	return err
}
