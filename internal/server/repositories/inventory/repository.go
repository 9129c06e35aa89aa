package inventory

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, item *models.Inventory) (*models.Inventory, error)
	Get(ctx context.Context, id int64) (*models.Inventory, error)
	List(ctx context.Context) ([]*models.Inventory, error)
	Update(ctx context.Context, item *models.Inventory) (*models.Inventory, error)
	Delete(ctx context.Context, id int64) error
}
