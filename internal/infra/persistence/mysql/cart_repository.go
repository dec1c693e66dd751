package mysql

import (
	"context"
	"database/sql"

	domcart "example.com/shoppingcart/internal/domain/cart"
	domproduct "example.com/shoppingcart/internal/domain/product"
	"example.com/shoppingcart/internal/infra/persistence/dbtrace"
)

const dbSystem = "mysql"

const loadCartItemsQuery = `
        SELECT p.id, p.name, p.price, p.thumbnail, ci.quantity
        FROM cart_item ci
        JOIN product p ON p.id = ci.product_id
        WHERE ci.customer_id = ?
        ORDER BY ci.id
    `

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) LoadItems(ctx context.Context, customerID int64) (_ []domcart.Item, err error) {
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.LoadItems", loadCartItemsQuery)
	defer func() { end(err) }()

	rows, err := r.db.QueryContext(ctx, loadCartItemsQuery, customerID)
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
	const q = `INSERT INTO cart_item (customer_id, product_id, quantity) VALUES (?, ?, ?)`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.AddItem", q)
	defer func() { end(err) }()

	res, err := r.db.ExecContext(ctx, q, customerID, productID, domcart.DefaultQuantity)
	if err != nil {
		switch {
		case isDuplicateEntry(err):
			return 0, domcart.ErrDuplicateItem
		case isForeignKeyViolation(err):
			return 0, domproduct.ErrProductNotFound
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, customerID, productID int64, quantity int) (err error) {
	const q = `UPDATE cart_item SET quantity = ? WHERE customer_id = ? AND product_id = ?`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.UpdateQuantity", q)
	defer func() { end(err) }()

	_, err = r.db.ExecContext(ctx, q, quantity, customerID, productID)
	return err
}

func (r *CartRepository) DeleteItem(ctx context.Context, customerID, productID int64) (err error) {
	const q = `DELETE FROM cart_item WHERE customer_id = ? AND product_id = ?`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.DeleteItem", q)
	defer func() { end(err) }()

	_, err = r.db.ExecContext(ctx, q, customerID, productID)
	return err
}

func (r *CartRepository) DeleteItems(ctx context.Context, customerID int64, productIDs []int64) (err error) {
	if len(productIDs) == 0 {
		return nil
	}
	q := `DELETE FROM cart_item WHERE customer_id = ? AND product_id IN (` + placeholders(len(productIDs)) + `)`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.DeleteItems", q)
	defer func() { end(err) }()

	args := append([]any{customerID}, int64Args(productIDs)...)
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *CartRepository) DeleteAllItems(ctx context.Context, customerID int64) (err error) {
	const q = `DELETE FROM cart_item WHERE customer_id = ?`
	ctx, end := dbtrace.Start(ctx, dbSystem, "cart.DeleteAllItems", q)
	defer func() { end(err) }()

	_, err = r.db.ExecContext(ctx, q, customerID)
	return err
}
