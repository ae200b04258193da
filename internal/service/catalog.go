package service

import (
	"context"

	"farmmarket/internal/models"

	"github.com/google/uuid"
)

type CreateProductInput struct {
	FarmerID    uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	Unit        string
	ImageURL    string
	Stock       int32
	CategoryID  *uuid.UUID

	IsOrganic       bool
	IsNonGMO        bool
	IsSustainable   bool
	IsPastureRaised bool
}

type UpdateProductInput struct {
	FarmerID  uuid.UUID
	ProductID uuid.UUID

	Name        *string
	Description *string
	PriceCents  *int64
	Unit        *string
	ImageURL    *string
	Stock       *int32
	CategoryID  *uuid.UUID
}

type ProductFilter struct {
	FarmerID    *uuid.UUID
	CategoryID  *uuid.UUID
	Query       string
	InStockOnly bool
	Limit       int
	Offset      int
}

type CatalogService interface {
	CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]*models.Product, int64, error)
	UpdateProduct(ctx context.Context, in UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID, farmerID uuid.UUID) error
	ListCategories(ctx context.Context) ([]*models.ProductCategory, error)
}
