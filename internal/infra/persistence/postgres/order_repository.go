package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domorder "example.com/shoppingcart/internal/domain/order"
	"example.com/shoppingcart/internal/infra/persistence/dbtrace"
)

const (
	insertOrderQuery       = `INSERT INTO orders (customer_id, total_amount) VALUES ($1, $2) RETURNING id, created_at`
	selectOrderQuery       = `SELECT id, customer_id, total_amount, created_at FROM orders WHERE id = $1`
	listOrdersQuery        = `SELECT id, customer_id, total_amount, created_at FROM orders WHERE customer_id = $1 ORDER BY id`
	listOrderItemsQuery    = `SELECT id, orders_id, product_id, product_name, price, quantity FROM orders_detail WHERE orders_id = $1 ORDER BY id`
	insertOrderDetailQuery = `INSERT INTO orders_detail (orders_id, product_id, product_name, price, quantity) VALUES ($1, $2, $3, $4, $5) RETURNING id`
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, customerID int64, items []domorder.OrderItem) (_ *domorder.Order, err error) {
	if len(items) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	ctx, end := dbtrace.Start(ctx, dbSystem, "order.Create", insertOrderQuery)
	defer func() { end(err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o := &domorder.Order{
		CustomerID:  customerID,
		TotalAmount: domorder.Total(items),
	}
	err = tx.QueryRow(ctx, insertOrderQuery, customerID, o.TotalAmount).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	productIDs := make([]int64, 0, len(items))
	for _, item := range items {
		item.OrderID = o.ID
		err = tx.QueryRow(ctx, insertOrderDetailQuery,
			o.ID, item.ProductID, item.Name, item.Price, item.Quantity,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		o.Items = append(o.Items, item)
		productIDs = append(productIDs, item.ProductID)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM cart_item WHERE customer_id = $1 AND product_id = ANY($2)`,
		customerID, productIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("remove ordered cart items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return o, nil
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) (_ []*domorder.Order, err error) {
	ctx, end := dbtrace.Start(ctx, dbSystem, "order.ListByCustomer", listOrdersQuery)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, listOrdersQuery, customerID)
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
	err = r.db.QueryRow(ctx, selectOrderQuery, id).Scan(&o.ID, &o.CustomerID, &o.TotalAmount, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	if o.Items, err = r.listOrderItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) listOrderItems(ctx context.Context, orderID int64) ([]domorder.OrderItem, error) {
	rows, err := r.db.Query(ctx, listOrderItemsQuery, orderID)
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
