package service

import (
	"context"

	"github.com/google/uuid"
)

type ShippingInfo struct {
	Address    string
	City       string
	State      string
	PostalCode string
}

type CheckoutInput struct {
	UserID   uuid.UUID
	Shipping ShippingInfo
}

type CheckoutResult struct {
	OrderID    uuid.UUID
	TotalCents int64
	Status     string
}

type CheckoutService interface {
	Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error)
}
