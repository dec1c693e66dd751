package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domcustomer "example.com/shoppingcart/internal/domain/customer"
	"example.com/shoppingcart/internal/infra/persistence/dbtrace"
)

type CustomerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Save(ctx context.Context, c *domcustomer.Customer) (_ int64, err error) {
	const q = `INSERT INTO customer (username, password, nickname, age) VALUES ($1, $2, $3, $4) RETURNING id`
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.Save", q)
	defer func() { end(err) }()

	var id int64
	err = r.db.QueryRow(ctx, q,
		domcustomer.NormalizeUsername(c.Username), c.PasswordHash, c.Nickname, c.Age,
	).Scan(&id)
	if err != nil {
		if pgErrorCode(err) == uniqueViolation {
			return 0, domcustomer.ErrDuplicateUsername
		}
		return 0, err
	}
	c.ID = id
	return id, nil
}

func (r *CustomerRepository) FindIDByUsername(ctx context.Context, username string) (_ int64, err error) {
	const q = `SELECT id FROM customer WHERE username = $1`
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.FindIDByUsername", q)
	defer func() { end(err) }()

	var id int64
	err = r.db.QueryRow(ctx, q, domcustomer.NormalizeUsername(username)).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domcustomer.ErrInvalidCustomer
		}
		return 0, err
	}
	return id, nil
}

func (r *CustomerRepository) FindByUsername(ctx context.Context, username string) (_ *domcustomer.Customer, err error) {
	const q = `SELECT id, username, password, nickname, age FROM customer WHERE username = $1`
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.FindByUsername", q)
	defer func() { end(err) }()

	var c domcustomer.Customer
	err = r.db.QueryRow(ctx, q, domcustomer.NormalizeUsername(username)).
		Scan(&c.ID, &c.Username, &c.PasswordHash, &c.Nickname, &c.Age)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domcustomer.ErrInvalidCustomer
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ExistsByUsername(ctx context.Context, username string) (_ bool, err error) {
	const q = `SELECT EXISTS(SELECT 1 FROM customer WHERE username = $1)`
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.ExistsByUsername", q)
	defer func() { end(err) }()

	var exists bool
	err = r.db.QueryRow(ctx, q, domcustomer.NormalizeUsername(username)).Scan(&exists)
	return exists, err
}

func (r *CustomerRepository) UpdatePassword(ctx context.Context, c *domcustomer.Customer) error {
	return r.updateOne(ctx, "customer.UpdatePassword", `UPDATE customer SET password = $1 WHERE id = $2`, c.PasswordHash, c.ID)
}

func (r *CustomerRepository) UpdateInfo(ctx context.Context, c *domcustomer.Customer) error {
	return r.updateOne(ctx, "customer.UpdateInfo", `UPDATE customer SET nickname = $1, age = $2 WHERE id = $3`, c.Nickname, c.Age, c.ID)
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	return r.updateOne(ctx, "customer.Delete", `DELETE FROM customer WHERE id = $1`, id)
}

// updateOne reports ErrInvalidCustomer when the statement matched no row.
func (r *CustomerRepository) updateOne(ctx context.Context, op, query string, args ...any) (err error) {
	ctx, end := dbtrace.Start(ctx, dbSystem, op, query)
	defer func() { end(err) }()

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domcustomer.ErrInvalidCustomer
	}
	return nil
}
