package repository

import (
	"context"
	"errors"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductListFilter struct {
	FarmerID    *uuid.UUID
	CategoryID  *uuid.UUID
	Query       string
	InStockOnly bool
	Limit       int
	Offset      int
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]*models.Product, int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id, farmerID uuid.UUID) (bool, error)

	// DecrementStock: if stock >= qty then stock -= qty (атомарно)
	DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error)
	// AdjustStock: stock += delta, если не уходит ниже нуля
	AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (bool, error)

	ListCategories(ctx context.Context) ([]*models.ProductCategory, error)
	CreateCategory(ctx context.Context, c *models.ProductCategory) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []*models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *productRepo) List(ctx context.Context, f ProductListFilter) ([]*models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if f.FarmerID != nil {
		q = q.Where("farmer_id = ?", *f.FarmerID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Query != "" {
		q = q.Where("name ILIKE ?", "%"+f.Query+"%")
	}
	if f.InStockOnly {
		q = q.Where("stock > 0")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []*models.Product
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&list).Error
	return list, total, err
}

func (r *productRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
}

func (r *productRepo) Delete(ctx context.Context, id, farmerID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("id = ? AND farmer_id = ?", id, farmerID).Delete(&models.Product{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, qty int32) (bool, error) {
	// атомарно: stock -= qty, только если хватает остатка
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock = stock - @q
WHERE id = @pid
  AND stock >= @q
`, map[string]any{
		"pid": id,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE products
SET stock = stock + @delta
WHERE id = @pid
  AND stock + @delta >= 0
`, map[string]any{
		"pid":   id,
		"delta": delta,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *productRepo) ListCategories(ctx context.Context) ([]*models.ProductCategory, error) {
	var list []*models.ProductCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *productRepo) CreateCategory(ctx context.Context, c *models.ProductCategory) error {
	return r.db.WithContext(ctx).Create(c).Error
}
