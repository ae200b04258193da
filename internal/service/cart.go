package service

import (
	"context"

	"github.com/google/uuid"
)

type CartItemView struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	Name       string
	PriceCents int64
	Unit       string
	ImageURL   string
	Quantity   int32
	Stock      int32
	FarmerID   uuid.UUID
	FarmName   string
}

type CartView struct {
	Items         []CartItemView
	SubtotalCents int64
	ItemCount     int64
}

type AddCartItemInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
}

type UpdateCartItemInput struct {
	UserID   uuid.UUID
	ItemID   uuid.UUID
	Quantity int32
}

// CartCountCache — кэш количества позиций в корзине (например, Redis).
// Реализация может отсутствовать — сервис обязан работать и без кэша.
type CartCountCache interface {
	GetCount(ctx context.Context, userID uuid.UUID) (int64, bool, error)
	SetCount(ctx context.Context, userID uuid.UUID, count int64) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, in AddCartItemInput) (*CartItemView, error)
	UpdateItem(ctx context.Context, in UpdateCartItemInput) error
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
	CountItems(ctx context.Context, userID uuid.UUID) (int64, error)
}
