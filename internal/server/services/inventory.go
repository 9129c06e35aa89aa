package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/repomanager"
)

// restockLayouts are the accepted ISO-8601 forms, tried in order.
// Fractional seconds are accepted by time.Parse without being in the layout.
var restockLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// InventoryInput is a create or partial-update payload. Nil fields are
// absent unless listed in Nulls; RestockDate is an ISO-8601 string.
type InventoryInput struct {
	ProductID   *int64  `json:"product_id"`
	Quantity    *int    `json:"quantity"`
	RestockDate *string `json:"restock_date"`
	Location    *string `json:"location"`
	ParentID    *int64  `json:"parent_id"`

	Nulls nullKeys `json:"-"`
}

func (in *InventoryInput) UnmarshalJSON(data []byte) error {
	type plain InventoryInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	var err error
	in.Nulls, err = scanNulls(data)
	return err
}

type InventoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewInventoryService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *InventoryService {
	return &InventoryService{db: db, repomanager: m, logger: logger, now: time.Now}
}

func parseRestockDate(s string) (time.Time, error) {
	for _, layout := range restockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.ErrInvalidRestock
}

func (s *InventoryService) Create(ctx context.Context, in InventoryInput) (*models.Inventory, error) {
	item := &models.Inventory{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		RestockDate: s.now().UTC(),
		Location:    in.Location,
		ParentID:    in.ParentID,
	}
	if in.RestockDate != nil && *in.RestockDate != "" {
		t, err := parseRestockDate(*in.RestockDate)
		if err != nil {
			return nil, err
		}
		item.RestockDate = t
	}

	var created *models.Inventory
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Inventory(tx).Create(ctx, item)
		return err
	})
	if err != nil {
		return nil, failure(ctx, s.logger, "inventory create", err)
	}
	return created, nil
}

// Update overwrites the fields present in in and keeps the rest.
func (s *InventoryService) Update(ctx context.Context, id int64, in InventoryInput) (*models.Inventory, error) {
	var restock *time.Time
	if in.RestockDate != nil && *in.RestockDate != "" {
		t, err := parseRestockDate(*in.RestockDate)
		if err != nil {
			return nil, err
		}
		restock = &t
	}

	var updated *models.Inventory
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Inventory(tx)

		item, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		item.ProductID = pick(in.ProductID, item.ProductID, in.Nulls["product_id"])
		item.Quantity = pick(in.Quantity, item.Quantity, in.Nulls["quantity"])
		item.Location = pick(in.Location, item.Location, in.Nulls["location"])
		item.ParentID = pick(in.ParentID, item.ParentID, in.Nulls["parent_id"])
		if restock != nil {
			item.RestockDate = *restock
		}

		updated, err = repo.Update(ctx, item)
		return err
	})
	if err != nil {
		return nil, failure(ctx, s.logger, "inventory update", err)
	}
	return updated, nil
}

func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Inventory(tx).Delete(ctx, id)
	})
	if err != nil {
		return failure(ctx, s.logger, "inventory delete", err)
	}
	return nil
}

func (s *InventoryService) Get(ctx context.Context, id int64) (*models.Inventory, error) {
	item, err := s.repomanager.Inventory(s.db).Get(ctx, id)
	if err != nil {
		return nil, failure(ctx, s.logger, "inventory get", err)
	}
	return item, nil
}

func (s *InventoryService) List(ctx context.Context) ([]*models.Inventory, error) {
	items, err := s.repomanager.Inventory(s.db).List(ctx)
	if err != nil {
		return nil, failure(ctx, s.logger, "inventory list", err)
	}
	return items, nil
}
