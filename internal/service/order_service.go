package service

import (
	"context"

	"farmmarket/internal/models"
	"farmmarket/internal/repository"

	"github.com/google/uuid"
)

type orderQueryService struct {
	repo *repository.Repository
}

func NewOrderQueryService(repo *repository.Repository) OrderQueryService {
	return &orderQueryService{repo: repo}
}

func (s *orderQueryService) GetOrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	ord, err := s.repo.Orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderQueryService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, int64, error) {
	return s.repo.Orders.ListByUser(ctx, userID, limit, offset)
}

func (s *orderQueryService) ListFarmerLines(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*repository.FarmerOrderLine, int64, error) {
	return s.repo.Orders.ListFarmerLines(ctx, farmerID, limit, offset)
}
