package repository

import (
	"context"
	"time"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RevenueSummary struct {
	TotalCents int64
	OrderCount int64
}

type DailyRevenue struct {
	Date       time.Time
	TotalCents int64
}

type RevenueRepo interface {
	BulkCreate(ctx context.Context, rows []*models.FarmerRevenue) error
	SummaryByFarmer(ctx context.Context, farmerID uuid.UUID, from, to time.Time) (*RevenueSummary, error)
	DailyByFarmer(ctx context.Context, farmerID uuid.UUID, from, to time.Time) ([]*DailyRevenue, error)
}

type revenueRepo struct{ db *gorm.DB }

func NewRevenueRepo(db *gorm.DB) RevenueRepo { return &revenueRepo{db: db} }

func (r *revenueRepo) BulkCreate(ctx context.Context, rows []*models.FarmerRevenue) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *revenueRepo) SummaryByFarmer(ctx context.Context, farmerID uuid.UUID, from, to time.Time) (*RevenueSummary, error) {
	var s RevenueSummary
	err := r.db.WithContext(ctx).Model(&models.FarmerRevenue{}).
		Select("COALESCE(SUM(amount_cents), 0) AS total_cents, COUNT(DISTINCT order_id) AS order_count").
		Where("farmer_id = ? AND date >= ? AND date <= ?", farmerID, from, to).
		Scan(&s).Error
	return &s, err
}

func (r *revenueRepo) DailyByFarmer(ctx context.Context, farmerID uuid.UUID, from, to time.Time) ([]*DailyRevenue, error) {
	var list []*DailyRevenue
	err := r.db.WithContext(ctx).Model(&models.FarmerRevenue{}).
		Select("date, SUM(amount_cents) AS total_cents").
		Where("farmer_id = ? AND date >= ? AND date <= ?", farmerID, from, to).
		Group("date").
		Order("date ASC").
		Find(&list).Error
	return list, err
}
