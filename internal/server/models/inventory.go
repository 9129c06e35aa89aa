package models

import "time"

// Inventory is a stock record. ProductID and ParentID are stored as given,
// without referential checks.
type Inventory struct {
	ID          int64     `json:"id"`
	ProductID   *int64    `json:"product_id"`
	Quantity    *int      `json:"quantity"`
	RestockDate time.Time `json:"restock_date"`
	Location    *string   `json:"location"`
	ParentID    *int64    `json:"parent_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
