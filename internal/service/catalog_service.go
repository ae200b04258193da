package service

import (
	"context"
	"time"

	"farmmarket/internal/models"
	"farmmarket/internal/repository"

	"github.com/google/uuid"
)

type catalogService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCatalogService(repo *repository.Repository) CatalogService {
	return &catalogService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if in.PriceCents < 0 {
		return nil, ErrPriceInvalid
	}
	if in.Stock < 0 {
		return nil, ErrStockInvalid
	}

	p := &models.Product{
		Name:            in.Name,
		Description:     in.Description,
		PriceCents:      in.PriceCents,
		Unit:            in.Unit,
		ImageURL:        in.ImageURL,
		Stock:           in.Stock,
		CategoryID:      in.CategoryID,
		FarmerID:        in.FarmerID,
		IsOrganic:       in.IsOrganic,
		IsNonGMO:        in.IsNonGMO,
		IsSustainable:   in.IsSustainable,
		IsPastureRaised: in.IsPastureRaised,
		CreatedAt:       s.now(),
	}
	if err := s.repo.Products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, f ProductFilter) ([]*models.Product, int64, error) {
	return s.repo.Products.List(ctx, repository.ProductListFilter{
		FarmerID:    f.FarmerID,
		CategoryID:  f.CategoryID,
		Query:       f.Query,
		InStockOnly: f.InStockOnly,
		Limit:       f.Limit,
		Offset:      f.Offset,
	})
}

func (s *catalogService) UpdateProduct(ctx context.Context, in UpdateProductInput) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if p.FarmerID != in.FarmerID {
		return nil, ErrForbidden
	}

	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, ErrPriceInvalid
		}
		fields["price_cents"] = *in.PriceCents
	}
	if in.Unit != nil {
		fields["unit"] = *in.Unit
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, ErrStockInvalid
		}
		fields["stock"] = *in.Stock
	}
	if in.CategoryID != nil {
		fields["category_id"] = *in.CategoryID
	}

	if len(fields) > 0 {
		if err := s.repo.Products.UpdateFields(ctx, in.ProductID, fields); err != nil {
			return nil, err
		}
	}

	return s.repo.Products.GetByID(ctx, in.ProductID)
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID, farmerID uuid.UUID) error {
	ok, err := s.repo.Products.Delete(ctx, productID, farmerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	return nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*models.ProductCategory, error) {
	return s.repo.Products.ListCategories(ctx)
}
