package service

import (
	"context"

	"farmmarket/internal/models"
	"farmmarket/internal/repository"

	"github.com/google/uuid"
)

type OrderQueryService interface {
	GetOrderForUser(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, int64, error)
	ListFarmerLines(ctx context.Context, farmerID uuid.UUID, limit, offset int) ([]*repository.FarmerOrderLine, int64, error)
}
