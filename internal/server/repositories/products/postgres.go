package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
)

const columns = `id, name, category_id, description, price::text, stock_quantity, image, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Product, error) {
	p := &models.Product{}
	err := s.Scan(&p.ID, &p.Name, &p.CategoryID, &p.Description, &p.Price, &p.StockQuantity, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	query :=
		`INSERT INTO products (name, category_id, description, price, stock_quantity, image)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + columns

	return scan(r.db.QueryRowContext(ctx, query,
		product.Name, product.CategoryID, product.Description, product.Price, product.StockQuantity, product.Image))
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + columns + ` FROM products WHERE id = $1`
	return scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Product, error) {
	query := `SELECT ` + columns + ` FROM products ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return products, nil
}

func (r *PostgresRepository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	query :=
		`UPDATE products SET name = $2, category_id = $3, description = $4, price = $5,
		   stock_quantity = $6, image = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	return scan(r.db.QueryRowContext(ctx, query,
		product.ID, product.Name, product.CategoryID, product.Description, product.Price, product.StockQuantity, product.Image))
}

// SetImage records the object storage key of the product picture.
func (r *PostgresRepository) SetImage(ctx context.Context, id int64, image string) (*models.Product, error) {
	query :=
		`UPDATE products SET image = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	return scan(r.db.QueryRowContext(ctx, query, id, image))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
