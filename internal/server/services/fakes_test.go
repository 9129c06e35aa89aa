package services

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/inventory"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/products"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func quietLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard, "error")
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// --- repository manager ---

type fakeRepoManager struct {
	users     *fakeUsersRepo
	inventory *fakeInventoryRepo
	orders    *fakeOrdersRepo
	products  *fakeProductsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:     &fakeUsersRepo{byID: map[int64]*models.User{}},
		inventory: &fakeInventoryRepo{items: map[int64]*models.Inventory{}},
		orders:    &fakeOrdersRepo{items: map[int64]*models.Order{}},
		products:  &fakeProductsRepo{items: map[int64]*models.Product{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository         { return m.users }
func (m *fakeRepoManager) Inventory(dbx.DBTX) inventory.Repository { return m.inventory }
func (m *fakeRepoManager) Orders(dbx.DBTX) orders.Repository       { return m.orders }
func (m *fakeRepoManager) Products(dbx.DBTX) products.Repository   { return m.products }

// --- users ---

type fakeUsersRepo struct {
	byID   map[int64]*models.User
	nextID int64

	getErr    error
	createErr error
	updateErr error
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt, u.UpdatedAt = epoch, epoch
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := *u
	return f.add(&c), nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, id int64, ch models.UserChanges) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if ch.Email != "" {
		u.Email = ch.Email
	}
	if ch.Password != "" {
		u.Password = ch.Password
	}
	if ch.FirstName != "" {
		u.FirstName = ch.FirstName
	}
	if ch.LastName != "" {
		u.LastName = ch.LastName
	}
	u.UpdatedAt = u.UpdatedAt.Add(time.Minute)
	c := *u
	return &c, nil
}

// --- inventory ---

type fakeInventoryRepo struct {
	items  map[int64]*models.Inventory
	nextID int64
	err    error
}

func (f *fakeInventoryRepo) Create(ctx context.Context, i *models.Inventory) (*models.Inventory, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	c := *i
	c.ID = f.nextID
	f.items[c.ID] = &c
	return &c, nil
}

func (f *fakeInventoryRepo) Get(ctx context.Context, id int64) (*models.Inventory, error) {
	if f.err != nil {
		return nil, f.err
	}
	i, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *i
	return &c, nil
}

func (f *fakeInventoryRepo) List(ctx context.Context) ([]*models.Inventory, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Inventory, 0, len(f.items))
	for id := int64(1); id <= f.nextID; id++ {
		if i, ok := f.items[id]; ok {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) Update(ctx context.Context, i *models.Inventory) (*models.Inventory, error) {
	if _, ok := f.items[i.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	c := *i
	f.items[i.ID] = &c
	return &c, nil
}

func (f *fakeInventoryRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

// --- orders ---

type fakeOrdersRepo struct {
	items  map[int64]*models.Order
	nextID int64
	err    error
}

func (f *fakeOrdersRepo) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	c := *o
	c.ID = f.nextID
	f.items[c.ID] = &c
	return &c, nil
}

func (f *fakeOrdersRepo) Get(ctx context.Context, id int64) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *o
	return &c, nil
}

func (f *fakeOrdersRepo) List(ctx context.Context) ([]*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Order, 0, len(f.items))
	for id := int64(1); id <= f.nextID; id++ {
		if o, ok := f.items[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrdersRepo) Update(ctx context.Context, o *models.Order) (*models.Order, error) {
	if _, ok := f.items[o.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	c := *o
	f.items[o.ID] = &c
	return &c, nil
}

func (f *fakeOrdersRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

// --- products ---

type fakeProductsRepo struct {
	items  map[int64]*models.Product
	nextID int64
	err    error
}

func (f *fakeProductsRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	c := *p
	c.ID = f.nextID
	f.items[c.ID] = &c
	return &c, nil
}

func (f *fakeProductsRepo) Get(ctx context.Context, id int64) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeProductsRepo) List(ctx context.Context) ([]*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Product, 0, len(f.items))
	for id := int64(1); id <= f.nextID; id++ {
		if p, ok := f.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductsRepo) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	if _, ok := f.items[p.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	f.items[p.ID] = &c
	return &c, nil
}

func (f *fakeProductsRepo) SetImage(ctx context.Context, id int64, image string) (*models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Image = &image
	c := *p
	return &c, nil
}

func (f *fakeProductsRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

// --- image store ---

type fakeImageStore struct {
	uploadErr   error
	downloadErr error
}

func (f *fakeImageStore) PresignUpload(ctx context.Context, productID int64) (string, string, error) {
	if f.uploadErr != nil {
		return "", "", f.uploadErr
	}
	return "products/key", "http://s3/put", nil
}

func (f *fakeImageStore) PresignDownload(ctx context.Context, key string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return "http://s3/get/" + key, nil
}
