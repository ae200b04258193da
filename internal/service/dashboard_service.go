package service

import (
	"context"
	"time"

	"farmmarket/internal/repository"

	"github.com/google/uuid"
)

const lowStockThreshold = 10

type farmerService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewFarmerService(repo *repository.Repository) FarmerService {
	return &farmerService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *farmerService) ListFarmers(ctx context.Context, limit, offset int) ([]*repository.FarmerProfile, int64, error) {
	return s.repo.Users.ListFarmers(ctx, limit, offset)
}

func (s *farmerService) GetFarmer(ctx context.Context, id uuid.UUID) (*repository.FarmerProfile, error) {
	fp, err := s.repo.Users.GetFarmer(ctx, id)
	if err != nil {
		return nil, err
	}
	if fp == nil {
		return nil, ErrFarmerNotFound
	}
	return fp, nil
}

func (s *farmerService) Dashboard(ctx context.Context, farmerID uuid.UUID, from, to time.Time) (*DashboardSummary, error) {
	if to.IsZero() {
		now := s.now()
		to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}

	summary, err := s.repo.Revenue.SummaryByFarmer(ctx, farmerID, from, to)
	if err != nil {
		return nil, err
	}

	daily, err := s.repo.Revenue.DailyByFarmer(ctx, farmerID, from, to)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.Analytics.TopProductsByFarmer(ctx, farmerID, 5)
	if err != nil {
		return nil, err
	}

	low, _, err := s.repo.Products.List(ctx, repository.ProductListFilter{
		FarmerID: &farmerID,
		Limit:    100,
	})
	if err != nil {
		return nil, err
	}

	out := &DashboardSummary{
		TotalRevenueCents: summary.TotalCents,
		OrderCount:        summary.OrderCount,
		Daily:             make([]RevenuePoint, 0, len(daily)),
		TopProducts:       make([]repository.TopProduct, 0, len(top)),
	}
	for _, d := range daily {
		out.Daily = append(out.Daily, RevenuePoint{Date: d.Date, TotalCents: d.TotalCents})
	}
	for _, t := range top {
		out.TopProducts = append(out.TopProducts, *t)
	}
	for _, p := range low {
		if p.Stock < lowStockThreshold {
			out.LowStock = append(out.LowStock, p)
		}
	}
	return out, nil
}
