package models

import "time"

// Event types published after a successful write.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// ProductEvent is the message body published when a product changes.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  uint      `json:"product_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}
