package mysql

import (
	"context"
	"database/sql"
	"errors"

	domproduct "example.com/shoppingcart/internal/domain/product"
	"example.com/shoppingcart/internal/infra/persistence/dbtrace"
)

const productSelectColumns = `id, name, price, thumbnail`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (_ *domproduct.Product, err error) {
	const q = `
        INSERT INTO product (name, price, thumbnail)
        VALUES (?, ?, ?)
    `
	ctx, end := dbtrace.Start(ctx, dbSystem, "product.Create", q)
	defer func() { end(err) }()

	res, err := r.db.ExecContext(ctx, q, p.Name, p.Price, p.ThumbnailURL)
	if err != nil {
		return nil, err
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) (err error) {
	const q = `DELETE FROM product WHERE id = ?`
	ctx, end := dbtrace.Start(ctx, dbSystem, "product.Delete", q)
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
		return domproduct.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (_ *domproduct.Product, err error) {
	const q = `
        SELECT ` + productSelectColumns + `
        FROM product WHERE id = ?
    `
	ctx, end := dbtrace.Start(ctx, dbSystem, "product.GetByID", q)
	defer func() { end(err) }()

	var p domproduct.Product
	err = r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Name, &p.Price, &p.ThumbnailURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context) (_ []*domproduct.Product, err error) {
	const q = `
        SELECT ` + productSelectColumns + `
        FROM product
        ORDER BY id
    `
	ctx, end := dbtrace.Start(ctx, dbSystem, "product.List", q)
	defer func() { end(err) }()

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*domproduct.Product{}
	for rows.Next() {
		var p domproduct.Product
		if err = rows.Scan(&p.ID, &p.Name, &p.Price, &p.ThumbnailURL); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
