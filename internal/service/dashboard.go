package service

import (
	"context"
	"time"

	"farmmarket/internal/models"
	"farmmarket/internal/repository"

	"github.com/google/uuid"
)

type RevenuePoint struct {
	Date       time.Time
	TotalCents int64
}

type DashboardSummary struct {
	TotalRevenueCents int64
	OrderCount        int64
	Daily             []RevenuePoint
	TopProducts       []repository.TopProduct
	LowStock          []*models.Product
}

type FarmerService interface {
	ListFarmers(ctx context.Context, limit, offset int) ([]*repository.FarmerProfile, int64, error)
	GetFarmer(ctx context.Context, id uuid.UUID) (*repository.FarmerProfile, error)
	Dashboard(ctx context.Context, farmerID uuid.UUID, from, to time.Time) (*DashboardSummary, error)
}
