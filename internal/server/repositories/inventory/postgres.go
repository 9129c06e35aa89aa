package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
)

const columns = `id, product_id, quantity, restock_date, location, parent_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Inventory, error) {
	i := &models.Inventory{}
	err := s.Scan(&i.ID, &i.ProductID, &i.Quantity, &i.RestockDate, &i.Location, &i.ParentID, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return i, nil
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.Inventory) (*models.Inventory, error) {
	query :=
		`INSERT INTO inventory (product_id, quantity, restock_date, location, parent_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + columns

	return scan(r.db.QueryRowContext(ctx, query,
		item.ProductID, item.Quantity, item.RestockDate, item.Location, item.ParentID))
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Inventory, error) {
	query := `SELECT ` + columns + ` FROM inventory WHERE id = $1`
	return scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Inventory, error) {
	query := `SELECT ` + columns + ` FROM inventory ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Inventory, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

// Update writes every mutable column of item and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, item *models.Inventory) (*models.Inventory, error) {
	query :=
		`UPDATE inventory SET product_id = $2, quantity = $3, restock_date = $4,
		   location = $5, parent_id = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	return scan(r.db.QueryRowContext(ctx, query,
		item.ID, item.ProductID, item.Quantity, item.RestockDate, item.Location, item.ParentID))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, id)
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
