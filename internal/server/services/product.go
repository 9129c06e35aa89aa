package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/repomanager"
)

var errInvalidPrice = errors.New("price must be a decimal number")

// Price is a decimal accepted from JSON as either a number or a string.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return errInvalidPrice
	}
	*p = Price(data)
	return nil
}

// ProductInput is a create or partial-update payload; nil fields are absent
// unless listed in Nulls.
type ProductInput struct {
	Name          *string `json:"name"`
	CategoryID    *int64  `json:"category_id"`
	Description   *string `json:"description"`
	Price         *Price  `json:"price"`
	StockQuantity *int    `json:"stock_quantity"`
	Image         *string `json:"image"`

	Nulls nullKeys `json:"-"`
}

func (in *ProductInput) UnmarshalJSON(data []byte) error {
	type plain ProductInput
	if err := json.Unmarshal(data, (*plain)(in)); err != nil {
		return err
	}
	var err error
	in.Nulls, err = scanNulls(data)
	return err
}

func (in ProductInput) price() *string {
	if in.Price == nil {
		return nil
	}
	s := string(*in.Price)
	return &s
}

// ImageStore issues presigned URLs for product images.
type ImageStore interface {
	PresignUpload(ctx context.Context, productID int64) (key string, url string, err error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

type ProductService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      ImageStore
	logger      logging.Logger
}

func NewProductService(db *sql.DB, m repomanager.RepositoryManager, images ImageStore, logger logging.Logger) *ProductService {
	return &ProductService{db: db, repomanager: m, images: images, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:          in.Name,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		Price:         in.price(),
		StockQuantity: in.StockQuantity,
		Image:         in.Image,
	}

	var created *models.Product
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		created, err = s.repomanager.Products(tx).Create(ctx, product)
		return err
	})
	if err != nil {
		return nil, failure(ctx, s.logger, "product create", err)
	}
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) (*models.Product, error) {
	var updated *models.Product
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)

		p, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		p.Name = pick(in.Name, p.Name, in.Nulls["name"])
		p.CategoryID = pick(in.CategoryID, p.CategoryID, in.Nulls["category_id"])
		p.Description = pick(in.Description, p.Description, in.Nulls["description"])
		p.Price = pick(in.price(), p.Price, in.Nulls["price"])
		p.StockQuantity = pick(in.StockQuantity, p.StockQuantity, in.Nulls["stock_quantity"])
		p.Image = pick(in.Image, p.Image, in.Nulls["image"])

		updated, err = repo.Update(ctx, p)
		return err
	})
	if err != nil {
		return nil, failure(ctx, s.logger, "product update", err)
	}
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Products(tx).Delete(ctx, id)
	})
	if err != nil {
		return failure(ctx, s.logger, "product delete", err)
	}
	return nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.repomanager.Products(s.db).Get(ctx, id)
	if err != nil {
		return nil, failure(ctx, s.logger, "product get", err)
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	list, err := s.repomanager.Products(s.db).List(ctx)
	if err != nil {
		return nil, failure(ctx, s.logger, "product list", err)
	}
	return list, nil
}

// RequestImageUpload allocates a storage key for the product's image,
// records it and returns the updated product with a presigned PUT URL.
func (s *ProductService) RequestImageUpload(ctx context.Context, id int64) (*models.Product, string, error) {
	var (
		updated *models.Product
		url     string
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Products(tx)

		if _, err := repo.Get(ctx, id); err != nil {
			return err
		}

		key, u, err := s.images.PresignUpload(ctx, id)
		if err != nil {
			return err
		}
		url = u

		updated, err = repo.SetImage(ctx, id, key)
		return err
	})
	if err != nil {
		return nil, "", failure(ctx, s.logger, "product image upload", err)
	}
	return updated, url, nil
}

// ImageURL returns a presigned GET URL for the product's stored image.
func (s *ProductService) ImageURL(ctx context.Context, id int64) (string, error) {
	p, err := s.repomanager.Products(s.db).Get(ctx, id)
	if err != nil {
		return "", failure(ctx, s.logger, "product image", err)
	}
	if p.Image == nil || *p.Image == "" {
		return "", common.ErrNoImage
	}

	url, err := s.images.PresignDownload(ctx, *p.Image)
	if err != nil {
		return "", failure(ctx, s.logger, "product image presign", err)
	}
	return url, nil
}
