package models

import "time"

// Product is a catalogue item. Price is kept as the decimal text of a
// NUMERIC(10,2) column; Image is an object storage key or free text.
type Product struct {
	ID            int64     `json:"id"`
	Name          *string   `json:"name"`
	CategoryID    *int64    `json:"category_id"`
	Description   *string   `json:"description"`
	Price         *string   `json:"price"`
	StockQuantity *int      `json:"stock_quantity"`
	Image         *string   `json:"image"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
