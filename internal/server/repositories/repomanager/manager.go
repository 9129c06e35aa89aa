package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/shopkeeper/internal/dbx"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/inventory"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/orders"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/products"
	"github.com/dmitrijs2005/shopkeeper/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so the same
// service code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Inventory(db dbx.DBTX) inventory.Repository
	Orders(db dbx.DBTX) orders.Repository
	Products(db dbx.DBTX) products.Repository
}
