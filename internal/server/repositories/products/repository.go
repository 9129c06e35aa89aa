package products

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	SetImage(ctx context.Context, id int64, image string) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}
