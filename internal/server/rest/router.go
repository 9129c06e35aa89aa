package rest

import (
	"context"

	"github.com/dmitrijs2005/shopkeeper/internal/server/models"
	"github.com/dmitrijs2005/shopkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Update(ctx context.Context, in services.UpdateInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// crudService is the shape shared by the inventory, order and product services.
type crudService[In, Out any] interface {
	Create(ctx context.Context, in In) (Out, error)
	Update(ctx context.Context, id int64, in In) (Out, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Out, error)
	List(ctx context.Context) ([]Out, error)
}

type InventoryService = crudService[services.InventoryInput, *models.Inventory]

type OrderService = crudService[services.OrderInput, *models.Order]

type ProductService interface {
	crudService[services.ProductInput, *models.Product]
	RequestImageUpload(ctx context.Context, id int64) (*models.Product, string, error)
	ImageURL(ctx context.Context, id int64) (string, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/ping", s.ping)
	r.GET("/healthz", s.healthz)

	a := r.Group("/api/v1/auth")
	a.POST("/register_user", s.registerUser)
	a.POST("/update_user", s.updateUser)
	a.POST("/login", s.login)
	a.GET("/me", BearerAuth(s.jwtSecret), s.me)

	var guard []gin.HandlerFunc
	if s.protectResources {
		guard = append(guard, BearerAuth(s.jwtSecret))
	}

	inventory := &resource[services.InventoryInput, *models.Inventory]{
		svc: s.services.Inventory, key: "inventory", listKey: "inventory", label: "Inventory item",
	}
	inventory.mount(r.Group("/api/inventory", guard...))

	orders := &resource[services.OrderInput, *models.Order]{
		svc: s.services.Orders, key: "order", listKey: "orders", label: "Order",
	}
	orders.mount(r.Group("/api/orders", guard...))

	products := &resource[services.ProductInput, *models.Product]{
		svc: s.services.Products, key: "product", listKey: "products", label: "Product",
	}
	pg := r.Group("/api/products", guard...)
	products.mount(pg)
	pg.POST("/:id/image", s.requestProductImageUpload)
	pg.GET("/:id/image", s.productImage)
}
