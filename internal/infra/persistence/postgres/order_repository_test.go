package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domorder "example.com/shoppingcart/internal/domain/order"
)

var (
	orderColumns     = []string{"id", "customer_id", "total_amount", "created_at"}
	orderItemColumns = []string{"id", "orders_id", "product_id", "product_name", "price", "quantity"}
)

func sampleOrderItems() []domorder.OrderItem {
	return []domorder.OrderItem{
		{ProductID: 1, Name: "banana", Price: 1000, Quantity: 2},
		{ProductID: 3, Name: "kiwi", Price: 3000, Quantity: 1},
	}
}

func TestOrderRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders \\(").
		WithArgs(int64(1), int64(5000)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), now))
	mock.ExpectQuery("INSERT INTO orders_detail").
		WithArgs(int64(10), int64(1), "banana", int64(1000), 2).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectQuery("INSERT INTO orders_detail").
		WithArgs(int64(10), int64(3), "kiwi", int64(3000), 1).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(101)))
	mock.ExpectExec("DELETE FROM cart_item").
		WithArgs(int64(1), []int64{1, 3}).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()

	o, err := repo.Create(context.Background(), 1, sampleOrderItems())

	require.NoError(t, err)
	assert.Equal(t, int64(10), o.ID)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, int64(5000), o.TotalAmount)
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(10), o.Items[0].OrderID)
	assert.Equal(t, int64(101), o.Items[1].ID)
}

func TestOrderRepository_Create_RollsBackOnFailure(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)
	boom := errors.New("serialization failure")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders \\(").
		WithArgs(int64(1), int64(5000)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), time.Now()))
	mock.ExpectQuery("INSERT INTO orders_detail").
		WithArgs(int64(10), int64(1), "banana", int64(1000), 2).
		WillReturnError(boom)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), 1, sampleOrderItems())

	assert.ErrorIs(t, err, boom)
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)

	mock.ExpectQuery("FROM orders WHERE customer_id").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(orderColumns).AddRow(int64(10), int64(1), int64(2000), now))
	mock.ExpectQuery("FROM orders_detail WHERE orders_id").
		WithArgs(int64(10)).
		WillReturnRows(pgxmock.NewRows(orderItemColumns).
			AddRow(int64(100), int64(10), int64(1), "banana", int64(1000), 2))

	orders, err := repo.ListByCustomer(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "banana", orders[0].Items[0].Name)
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery("FROM orders WHERE id").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)

	assert.ErrorIs(t, err, domorder.ErrOrderNotFound)
}
