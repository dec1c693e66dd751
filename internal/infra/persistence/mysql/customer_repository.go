package mysql

import (
	"context"
	"database/sql"
	"errors"

	domcustomer "example.com/shoppingcart/internal/domain/customer"
	"example.com/shoppingcart/internal/infra/persistence/dbtrace"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Save(ctx context.Context, c *domcustomer.Customer) (_ int64, err error) {
	const q = `
        INSERT INTO customer (username, password, nickname, age)
        VALUES (?, ?, ?, ?)
    `
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.Save", q)
	defer func() { end(err) }()

	res, err := r.db.ExecContext(ctx, q, domcustomer.NormalizeUsername(c.Username), c.PasswordHash, c.Nickname, c.Age)
	if err != nil {
		if isDuplicateEntry(err) {
			return 0, domcustomer.ErrDuplicateUsername
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

func (r *CustomerRepository) FindIDByUsername(ctx context.Context, username string) (_ int64, err error) {
	const q = `SELECT id FROM customer WHERE username = ?`
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.FindIDByUsername", q)
	defer func() { end(err) }()

	var id int64
	err = r.db.QueryRowContext(ctx, q, domcustomer.NormalizeUsername(username)).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domcustomer.ErrInvalidCustomer
		}
		return 0, err
	}
	return id, nil
}

func (r *CustomerRepository) FindByUsername(ctx context.Context, username string) (_ *domcustomer.Customer, err error) {
	const q = `
        SELECT id, username, password, nickname, age
        FROM customer WHERE username = ?
    `
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.FindByUsername", q)
	defer func() { end(err) }()

	var c domcustomer.Customer
	err = r.db.QueryRowContext(ctx, q, domcustomer.NormalizeUsername(username)).
		Scan(&c.ID, &c.Username, &c.PasswordHash, &c.Nickname, &c.Age)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcustomer.ErrInvalidCustomer
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) ExistsByUsername(ctx context.Context, username string) (_ bool, err error) {
	const q = `SELECT EXISTS(SELECT 1 FROM customer WHERE username = ?)`
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.ExistsByUsername", q)
	defer func() { end(err) }()

	var exists bool
	err = r.db.QueryRowContext(ctx, q, domcustomer.NormalizeUsername(username)).Scan(&exists)
	return exists, err
}

func (r *CustomerRepository) UpdatePassword(ctx context.Context, c *domcustomer.Customer) (err error) {
	const q = `UPDATE customer SET password = ? WHERE id = ?`
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.UpdatePassword", q)
	defer func() { end(err) }()

	_, err = r.db.ExecContext(ctx, q, c.PasswordHash, c.ID)
	return err
}

func (r *CustomerRepository) UpdateInfo(ctx context.Context, c *domcustomer.Customer) (err error) {
	const q = `UPDATE customer SET nickname = ?, age = ? WHERE id = ?`
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.UpdateInfo", q)
	defer func() { end(err) }()

	_, err = r.db.ExecContext(ctx, q, c.Nickname, c.Age, c.ID)
	return err
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) (err error) {
	const q = `DELETE FROM customer WHERE id = ?`
	ctx, end := dbtrace.Start(ctx, dbSystem, "customer.Delete", q)
	defer func() { end(err) }()

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domcustomer.ErrInvalidCustomer
	}
	return nil
}
