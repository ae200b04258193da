package repository

import (
	"context"
	"errors"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartLine — строка корзины вместе с актуальными данными товара.
type CartLine struct {
	models.CartItem
	ProductName string
	PriceCents  int64
	Unit        string
	ImageURL    string
	Stock       int32
	FarmerID    uuid.UUID
	FarmName    string
}

type CartRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CartItem, error)
	ListDetailedByUser(ctx context.Context, userID uuid.UUID) ([]*CartLine, error)
	GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int32) error
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
	ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CartItem, error) {
	var list []*models.CartItem
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *cartRepo) ListDetailedByUser(ctx context.Context, userID uuid.UUID) ([]*CartLine, error) {
	var list []*CartLine
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Select(`cart_items.*,
			products.name AS product_name,
			products.price_cents,
			products.unit,
			products.image_url,
			products.stock,
			products.farmer_id,
			farmers.farm_name`).
		Joins("JOIN products ON products.id = cart_items.product_id").
		Joins("JOIN farmers ON farmers.id = products.farmer_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *cartRepo) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).First(&item, "user_id = ? AND product_id = ?", userID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *cartRepo) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int32) error {
	return r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *cartRepo) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.CartItem{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return tx.RowsAffected, tx.Error
}

func (r *cartRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}
