package services

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/repomanager"
)

// OrderInput is a create or partial-update payload; nil fields are absent
// unless listed in Nulls. Customer and product ids are stored as given.
type OrderInput struct {
	CustomerID *int64   `json:"customer_id"`
	ProductID  *int64   `json:"product_id"`
	Status     *string  `json:"status"`
	Quantity   *int     `json:"quantity"`
	TotalPrice *float64 `json:"total_price"`
	Gender     *string  `json:"gender"`

	Nulls nullKeys `json:"-"`
}

func (in *OrderInput) UnmarshalJSON(data []byte) error {
	type plain OrderInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	var err error
	in.Nulls, err = scanNulls(data)
	return err
}

type OrderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewOrderService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *OrderService {
	return &OrderService{db: db, repomanager: m, logger: logger}
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	order := &models.Order{
		CustomerID: in.CustomerID,
		ProductID:  in.ProductID,
		Status:     in.Status,
		Quantity:   in.Quantity,
		TotalPrice: in.TotalPrice,
		Gender:     in.Gender,
	}

	var created *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Orders(tx).Create(ctx, order)
		return err
	})
	if err != nil {
		return nil, failure(ctx, s.logger, "order create", err)
	}
	return created, nil
}

func (s *OrderService) Update(ctx context.Context, id int64, in OrderInput) (*models.Order, error) {
	var updated *models.Order
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Orders(tx)

		order, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		order.CustomerID = pick(in.CustomerID, order.CustomerID, in.Nulls["customer_id"])
		order.ProductID = pick(in.ProductID, order.ProductID, in.Nulls["product_id"])
		order.Status = pick(in.Status, order.Status, in.Nulls["status"])
		order.Quantity = pick(in.Quantity, order.Quantity, in.Nulls["quantity"])
		order.TotalPrice = pick(in.TotalPrice, order.TotalPrice, in.Nulls["total_price"])
		order.Gender = pick(in.Gender, order.Gender, in.Nulls["gender"])

		updated, err = repo.Update(ctx, order)
		return err
	})
	if err != nil {
		return nil, failure(ctx, s.logger, "order update", err)
	}
	return updated, nil
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Orders(tx).Delete(ctx, id)
	})
	if err != nil {
		return failure(ctx, s.logger, "order delete", err)
	}
	return nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.repomanager.Orders(s.db).Get(ctx, id)
	if err != nil {
		return nil, failure(ctx, s.logger, "order get", err)
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]*models.Order, error) {
	list, err := s.repomanager.Orders(s.db).List(ctx)
	if err != nil {
		return nil, failure(ctx, s.logger, "order list", err)
	}
	return list, nil
}
