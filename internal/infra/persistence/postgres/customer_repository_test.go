package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domcustomer "example.com/shoppingcart/internal/domain/customer"
)

func TestCustomerRepository_Save(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectQuery("INSERT INTO customer").
		WithArgs("puterism", "hash", "puter", 27).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))

	c := &domcustomer.Customer{Username: "Puterism", PasswordHash: "hash", Nickname: "puter", Age: 27}
	id, err := repo.Save(context.Background(), c)

	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
	assert.Equal(t, int64(5), c.ID)
}

func TestCustomerRepository_Save_DuplicateUsername(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectQuery("INSERT INTO customer").
		WithArgs("puterism", "hash", "puter", 27).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := repo.Save(context.Background(), &domcustomer.Customer{Username: "puterism", PasswordHash: "hash", Nickname: "puter", Age: 27})

	assert.ErrorIs(t, err, domcustomer.ErrDuplicateUsername)
}

func TestCustomerRepository_FindIDByUsername(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectQuery("SELECT id FROM customer WHERE username").
		WithArgs("puterism").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT id FROM customer WHERE username").
		WithArgs("nobody").
		WillReturnError(pgx.ErrNoRows)

	id, err := repo.FindIDByUsername(context.Background(), "PUTERISM")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = repo.FindIDByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, domcustomer.ErrInvalidCustomer)
}

func TestCustomerRepository_FindByUsername(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectQuery("SELECT id, username, password, nickname, age FROM customer").
		WithArgs("puterism").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password", "nickname", "age"}).
			AddRow(int64(1), "puterism", "hash", "puter", 27))

	c, err := repo.FindByUsername(context.Background(), "puterism")

	require.NoError(t, err)
	assert.Equal(t, "puter", c.Nickname)
	assert.Equal(t, 27, c.Age)
}

func TestCustomerRepository_ExistsByUsername(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("puterism").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByUsername(context.Background(), "puterism")

	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCustomerRepository_UpdateInfo_MissingCustomer(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectExec("UPDATE customer SET nickname").
		WithArgs("tori", 30, int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateInfo(context.Background(), &domcustomer.Customer{ID: 9, Nickname: "tori", Age: 30})

	assert.ErrorIs(t, err, domcustomer.ErrInvalidCustomer)
}

func TestCustomerRepository_UpdatePassword(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectExec("UPDATE customer SET password").
		WithArgs("new-hash", int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.UpdatePassword(context.Background(), &domcustomer.Customer{ID: 1, PasswordHash: "new-hash"}))
}

func TestCustomerRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewCustomerRepository(mock)

	mock.ExpectExec("DELETE FROM customer").
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), 1))
}
