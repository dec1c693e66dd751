package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	domcart "example.com/shoppingcart/internal/domain/cart"
	domproduct "example.com/shoppingcart/internal/domain/product"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestCartRepository_LoadItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "price", "thumbnail", "quantity"}).
		AddRow(2, "carrot", 300, "carrot.jpg", 1).
		AddRow(1, "potato", 200, "potato.jpg", 4)
	mock.ExpectQuery("FROM cart_item ci JOIN product p").
		WithArgs(7).
		WillReturnRows(rows)

	items, err := repo.LoadItems(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, int64(2), items[0].ProductID())
	require.Equal(t, "carrot", items[0].Product.Name)
	require.Equal(t, 4, items[1].Quantity)
	require.Equal(t, int64(200), items[1].Product.Price)
}

func TestCartRepository_LoadItems_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)

	mock.ExpectQuery("FROM cart_item ci").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "thumbnail", "quantity"}))

	items, err := repo.LoadItems(context.Background(), 7)

	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestCartRepository_AddItem(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)

	mock.ExpectExec("INSERT INTO cart_item").
		WithArgs(7, 3, domcart.DefaultQuantity).
		WillReturnResult(sqlmock.NewResult(42, 1))

	id, err := repo.AddItem(context.Background(), 7, 3)

	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestCartRepository_AddItem_DuplicateKey(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)

	mock.ExpectExec("INSERT INTO cart_item").
		WillReturnError(&mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry '7-3'"})

	_, err := repo.AddItem(context.Background(), 7, 3)

	require.ErrorIs(t, err, domcart.ErrDuplicateItem)
}

func TestCartRepository_AddItem_UnknownProduct(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)

	mock.ExpectExec("INSERT INTO cart_item").
		WillReturnError(&mysqldrv.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	_, err := repo.AddItem(context.Background(), 7, 99)

	require.ErrorIs(t, err, domproduct.ErrProductNotFound)
}

func TestCartRepository_UpdateQuantity(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)

	mock.ExpectExec("UPDATE cart_item SET quantity").
		WithArgs(5, 7, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateQuantity(context.Background(), 7, 3, 5))
}

func TestCartRepository_DeleteItem(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)

	mock.ExpectExec("DELETE FROM cart_item WHERE customer_id = \\? AND product_id = \\?").
		WithArgs(7, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteItem(context.Background(), 7, 3))
}

func TestCartRepository_DeleteItems_SingleStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)

	mock.ExpectExec("DELETE FROM cart_item WHERE customer_id = \\? AND product_id IN \\(\\?,\\?,\\?\\)").
		WithArgs(7, 1, 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteItems(context.Background(), 7, []int64{1, 2, 3}))
}

func TestCartRepository_DeleteItems_EmptyIsNoop(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewCartRepository(db)

	require.NoError(t, repo.DeleteItems(context.Background(), 7, nil))
}

func TestCartRepository_DeleteAllItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)

	mock.ExpectExec("DELETE FROM cart_item WHERE customer_id = \\?$").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DeleteAllItems(context.Background(), 7))
}

func TestCartRepository_PropagatesDriverError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCartRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectExec("UPDATE cart_item").WillReturnError(boom)

	err := repo.UpdateQuantity(context.Background(), 7, 3, 2)

	require.ErrorIs(t, err, boom)
}
