package repository

import (
	"context"
	"errors"
	"time"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TopProduct — товар в рейтинге продаж фермера.
type TopProduct struct {
	ProductID         uuid.UUID
	ProductName       string
	TotalSold         int64
	TotalRevenueCents int64
}

type AnalyticsRepo interface {
	GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (*models.CustomerAnalytics, error)
	CreateCustomer(ctx context.Context, ca *models.CustomerAnalytics) error
	// AccumulateCustomer: total_orders += orders, total_spent_cents += spent, last_order_date = lastOrder
	AccumulateCustomer(ctx context.Context, id uuid.UUID, orders, spentCents int64, lastOrder time.Time) error
	AddPreferredFarmers(ctx context.Context, analyticsID uuid.UUID, farmerIDs []uuid.UUID) error
	ListPreferredFarmers(ctx context.Context, analyticsID uuid.UUID) ([]uuid.UUID, error)

	GetProductByProductID(ctx context.Context, productID uuid.UUID) (*models.ProductAnalytics, error)
	CreateProduct(ctx context.Context, pa *models.ProductAnalytics) error
	// AccumulateProduct: total_sold += sold, total_revenue_cents += revenue, last_sold_date = lastSold
	AccumulateProduct(ctx context.Context, id uuid.UUID, sold, revenueCents int64, lastSold time.Time) error

	TopProductsByFarmer(ctx context.Context, farmerID uuid.UUID, limit int) ([]*TopProduct, error)
}

type analyticsRepo struct{ db *gorm.DB }

func NewAnalyticsRepo(db *gorm.DB) AnalyticsRepo { return &analyticsRepo{db: db} }

func (r *analyticsRepo) GetCustomerByUserID(ctx context.Context, userID uuid.UUID) (*models.CustomerAnalytics, error) {
	var ca models.CustomerAnalytics
	err := r.db.WithContext(ctx).First(&ca, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ca, err
}

func (r *analyticsRepo) CreateCustomer(ctx context.Context, ca *models.CustomerAnalytics) error {
	return r.db.WithContext(ctx).Create(ca).Error
}

func (r *analyticsRepo) AccumulateCustomer(ctx context.Context, id uuid.UUID, orders, spentCents int64, lastOrder time.Time) error {
	// относительное обновление, чтобы параллельные заказы не теряли счётчики
	return r.db.WithContext(ctx).Exec(`
UPDATE customer_analytics
SET total_orders      = total_orders + @orders,
    total_spent_cents = total_spent_cents + @spent,
    last_order_date   = @last,
    updated_at        = now()
WHERE id = @id
`, map[string]any{
		"id":     id,
		"orders": orders,
		"spent":  spentCents,
		"last":   lastOrder,
	}).Error
}

func (r *analyticsRepo) AddPreferredFarmers(ctx context.Context, analyticsID uuid.UUID, farmerIDs []uuid.UUID) error {
	if len(farmerIDs) == 0 {
		return nil
	}
	rows := make([]models.CustomerPreferredFarmer, 0, len(farmerIDs))
	for _, fid := range farmerIDs {
		rows = append(rows, models.CustomerPreferredFarmer{AnalyticsID: analyticsID, FarmerID: fid})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *analyticsRepo) ListPreferredFarmers(ctx context.Context, analyticsID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.CustomerPreferredFarmer{}).
		Where("analytics_id = ?", analyticsID).
		Pluck("farmer_id", &ids).Error
	return ids, err
}

func (r *analyticsRepo) GetProductByProductID(ctx context.Context, productID uuid.UUID) (*models.ProductAnalytics, error) {
	var pa models.ProductAnalytics
	err := r.db.WithContext(ctx).First(&pa, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &pa, err
}

func (r *analyticsRepo) CreateProduct(ctx context.Context, pa *models.ProductAnalytics) error {
	return r.db.WithContext(ctx).Create(pa).Error
}

func (r *analyticsRepo) AccumulateProduct(ctx context.Context, id uuid.UUID, sold, revenueCents int64, lastSold time.Time) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE product_analytics
SET total_sold          = total_sold + @sold,
    total_revenue_cents = total_revenue_cents + @rev,
    last_sold_date      = @last,
    updated_at          = now()
WHERE id = @id
`, map[string]any{
		"id":   id,
		"sold": sold,
		"rev":  revenueCents,
		"last": lastSold,
	}).Error
}

func (r *analyticsRepo) TopProductsByFarmer(ctx context.Context, farmerID uuid.UUID, limit int) ([]*TopProduct, error) {
	if limit <= 0 {
		limit = 5
	}
	var list []*TopProduct
	err := r.db.WithContext(ctx).Model(&models.ProductAnalytics{}).
		Select(`product_analytics.product_id,
			products.name AS product_name,
			product_analytics.total_sold,
			product_analytics.total_revenue_cents`).
		Joins("JOIN products ON products.id = product_analytics.product_id").
		Where("products.farmer_id = ?", farmerID).
		Order("product_analytics.total_sold DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
