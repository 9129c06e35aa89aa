package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
)

const columns = `id, customer_id, product_id, status, quantity, total_price, gender, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Order, error) {
	o := &models.Order{}
	err := s.Scan(&o.ID, &o.CustomerID, &o.ProductID, &o.Status, &o.Quantity, &o.TotalPrice, &o.Gender, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return o, nil
}

func (r *PostgresRepository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	query :=
		`INSERT INTO orders (customer_id, product_id, status, quantity, total_price, gender)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + columns

	return scan(r.db.QueryRowContext(ctx, query,
		order.CustomerID, order.ProductID, order.Status, order.Quantity, order.TotalPrice, order.Gender))
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Order, error) {
	query := `SELECT ` + columns + ` FROM orders WHERE id = $1`
	return scan(r.db.QueryRowContext(ctx, query, id))
}

// List returns every order; there is no pagination.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Order, error) {
	query := `SELECT ` + columns + ` FROM orders ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return orders, nil
}

func (r *PostgresRepository) Update(ctx context.Context, order *models.Order) (*models.Order, error) {
	query :=
		`UPDATE orders SET customer_id = $2, product_id = $3, status = $4, quantity = $5,
		   total_price = $6, gender = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	return scan(r.db.QueryRowContext(ctx, query,
		order.ID, order.CustomerID, order.ProductID, order.Status, order.Quantity, order.TotalPrice, order.Gender))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
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
