package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OrderLineEvent struct {
	ProductID   uuid.UUID `json:"product_id"`
	FarmerID    uuid.UUID `json:"farmer_id"`
	ProductName string    `json:"product_name"`
	Quantity    int32     `json:"quantity"`
	PriceCents  int64     `json:"price_cents"`
}

type OrderPlacedEvent struct {
	OrderID    uuid.UUID        `json:"order_id"`
	UserID     uuid.UUID        `json:"user_id"`
	Items      []OrderLineEvent `json:"items"`
	TotalCents int64            `json:"total_cents"`
	PlacedAt   time.Time        `json:"placed_at"`
}

type EventBus interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlacedEvent) error
}
