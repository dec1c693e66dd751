package mysql

import (
	"context"
	"database/sql"
	"errors"

	domorder "example.com/shoppingcart/internal/domain/order"
	"example.com/shoppingcart/internal/infra/persistence/dbtrace"
)

const (
	insertOrderQuery = `
        INSERT INTO orders (customer_id, total_amount)
        VALUES (?, ?)
    `
	insertOrderDetailQuery = `
        INSERT INTO orders_detail (orders_id, product_id, product_name, price, quantity)
        VALUES (?, ?, ?, ?, ?)
    `
	selectOrderQuery = `
        SELECT id, customer_id, total_amount, created_at
        FROM orders WHERE id = ?
    `
	listOrdersQuery = `
        SELECT id, customer_id, total_amount, created_at
        FROM orders
        WHERE customer_id = ?
        ORDER BY id
    `
	listOrderItemsQuery = `
        SELECT id, orders_id, product_id, product_name, price, quantity
        FROM orders_detail WHERE orders_id = ?
        ORDER BY id
    `
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, customerID int64, items []domorder.OrderItem) (_ *domorder.Order, err error) {
	if len(items) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	ctx, end := dbtrace.Start(ctx, dbSystem, "order.Create", insertOrderQuery)
	defer func() { end(err) }()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, insertOrderQuery, customerID, domorder.Total(items))
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		_, err = tx.ExecContext(ctx, insertOrderDetailQuery, orderID, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return nil, err
		}
		productIDs = append(productIDs, item.ProductID)
	}

	args := append([]any{customerID}, int64Args(productIDs)...)
	_, err = tx.ExecContext(ctx,
		`DELETE FROM cart_item WHERE customer_id = ? AND product_id IN (`+placeholders(len(productIDs))+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, orderID)
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) (_ []*domorder.Order, err error) {
	ctx, end := dbtrace.Start(ctx, dbSystem, "order.ListByCustomer", listOrdersQuery)
	defer func() { end(err) }()

	rows, err := r.db.QueryContext(ctx, listOrdersQuery, customerID)
	if err != nil {
		return nil, err
	}

	orders := []*domorder.Order{}
	for rows.Next() {
		var o domorder.Order
		if err = rows.Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, &o)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if o.Items, err = r.listOrderItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (_ *domorder.Order, err error) {
	ctx, end := dbtrace.Start(ctx, dbSystem, "order.GetByID", selectOrderQuery)
	defer func() { end(err) }()

	var o domorder.Order
	err = r.db.QueryRowContext(ctx, selectOrderQuery, id).Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	items, err := r.listOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepository) listOrderItems(ctx context.Context, orderID int64) ([]domorder.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, listOrderItemsQuery, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.OrderItem
	for rows.Next() {
		var item domorder.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
