package rest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/server/config"
	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/inventory"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/products"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/shopkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	cfg.BcryptCost = bcrypt.MinCost
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func quietLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard, "error")
}

// openDB returns an in-memory database used only to hand out transactions.
func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// --- in-memory users backend for the real UserService ---

type memUsers struct {
	byID   map[int64]*models.User
	nextID int64
}

func (m *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return nil, common.ErrEmailInUse
		}
	}
	m.nextID++
	c := *u
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) Update(ctx context.Context, id int64, ch models.UserChanges) (*models.User, error) {
	u, ok := m.byID[id]
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
	u.UpdatedAt = u.UpdatedAt.Add(time.Second)
	c := *u
	return &c, nil
}

type memRepoManager struct {
	users *memUsers
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) users.Repository         { return m.users }
func (m *memRepoManager) Inventory(dbx.DBTX) inventory.Repository { return nil }
func (m *memRepoManager) Orders(dbx.DBTX) orders.Repository       { return nil }
func (m *memRepoManager) Products(dbx.DBTX) products.Repository   { return nil }

// --- fake resource services ---

type fakeCRUD[In, Out any] struct {
	items map[int64]Out
	next  int64
	build func(id int64, in In) Out
	err   error
}

func newFakeCRUD[In, Out any](build func(id int64, in In) Out) *fakeCRUD[In, Out] {
	return &fakeCRUD[In, Out]{items: map[int64]Out{}, build: build}
}

func (f *fakeCRUD[In, Out]) Create(ctx context.Context, in In) (Out, error) {
	var zero Out
	if f.err != nil {
		return zero, f.err
	}
	f.next++
	f.items[f.next] = f.build(f.next, in)
	return f.items[f.next], nil
}

func (f *fakeCRUD[In, Out]) Update(ctx context.Context, id int64, in In) (Out, error) {
	var zero Out
	if f.err != nil {
		return zero, f.err
	}
	if _, ok := f.items[id]; !ok {
		return zero, common.ErrorNotFound
	}
	f.items[id] = f.build(id, in)
	return f.items[id], nil
}

func (f *fakeCRUD[In, Out]) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCRUD[In, Out]) Get(ctx context.Context, id int64) (Out, error) {
	var zero Out
	if f.err != nil {
		return zero, f.err
	}
	out, ok := f.items[id]
	if !ok {
		return zero, common.ErrorNotFound
	}
	return out, nil
}

func (f *fakeCRUD[In, Out]) List(ctx context.Context) ([]Out, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Out, 0, len(f.items))
	for id := int64(1); id <= f.next; id++ {
		if v, ok := f.items[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeProducts struct {
	*fakeCRUD[services.ProductInput, *models.Product]
	uploadErr error
}

func (f *fakeProducts) RequestImageUpload(ctx context.Context, id int64) (*models.Product, string, error) {
	p, err := f.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if f.uploadErr != nil {
		return nil, "", f.uploadErr
	}
	key := "products/1/2025/01/01/abc"
	p.Image = &key
	return p, "http://s3/put", nil
}

func (f *fakeProducts) ImageURL(ctx context.Context, id int64) (string, error) {
	p, err := f.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if p.Image == nil || *p.Image == "" {
		return "", common.ErrNoImage
	}
	return "http://s3/get/" + *p.Image, nil
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{fakeCRUD: newFakeCRUD(func(id int64, in services.ProductInput) *models.Product {
		p := &models.Product{ID: id, Name: in.Name, Image: in.Image}
		if in.Price != nil {
			s := string(*in.Price)
			p.Price = &s
		}
		return p
	})}
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

// --- wiring ---

type testEnv struct {
	handler   http.Handler
	users     *memUsers
	inventory *fakeCRUD[services.InventoryInput, *models.Inventory]
	orders    *fakeCRUD[services.OrderInput, *models.Order]
	products  *fakeProducts
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	env := &testEnv{
		users: &memUsers{byID: map[int64]*models.User{}},
		inventory: newFakeCRUD(func(id int64, in services.InventoryInput) *models.Inventory {
			return &models.Inventory{ID: id, ProductID: in.ProductID, Quantity: in.Quantity, Location: in.Location}
		}),
		orders: newFakeCRUD(func(id int64, in services.OrderInput) *models.Order {
			return &models.Order{ID: id, Status: in.Status, Quantity: in.Quantity}
		}),
		products: newFakeProducts(),
	}

	db := openDB(t)
	us, err := services.NewUserService(db, &memRepoManager{users: env.users}, cfg, quietLogger())
	require.NoError(t, err)

	srv := NewServer(cfg, quietLogger(), Services{
		Users:     us,
		Inventory: env.inventory,
		Orders:    env.orders,
		Products:  env.products,
		DB:        fakePinger{},
	})
	env.handler = srv.Handler()
	return env
}

type response struct {
	Code int
	Body map[string]any
	Raw  *httptest.ResponseRecorder
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) response {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	out := response{Code: rec.Code, Raw: rec}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out.Body), rec.Body.String())
	}
	return out
}
