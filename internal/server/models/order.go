package models

import "time"

// Order is a customer order. CustomerID and ProductID are not validated.
type Order struct {
	ID         int64     `json:"id"`
	CustomerID *int64    `json:"customer_id"`
	ProductID  *int64    `json:"product_id"`
	Status     *string   `json:"status"`
	Quantity   *int      `json:"quantity"`
	TotalPrice *float64  `json:"total_price"`
	Gender     *string   `json:"gender"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
