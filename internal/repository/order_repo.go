package repository

import (
	"context"
	"errors"
	"time"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FarmerOrderLine — позиция заказа с контекстом заказа для ленты фермера.
type FarmerOrderLine struct {
	models.OrderItem
	OrderStatus       models.OrderStatus
	OrderCreatedAt    time.Time
	CustomerFirstName string
	CustomerLastName  string
	ShippingCity      string
	ShippingState     string
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	ListFarmerLines(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*FarmerOrderLine, int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&ord, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var list []*models.Order
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Preload("Items").Find(&list).Error
	return list, total, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *orderRepo) ListFarmerLines(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*FarmerOrderLine, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN users ON users.id = orders.user_id").
		Where("order_items.farmer_id = ?", farmerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var list []*FarmerOrderLine
	err := q.Select(`order_items.*,
		orders.status AS order_status,
		orders.created_at AS order_created_at,
		users.first_name AS customer_first_name,
		users.last_name AS customer_last_name,
		orders.shipping_city,
		orders.shipping_state`).
		Order("orders.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, total, err
}
