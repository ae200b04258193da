package service

import (
	"context"
	"time"

	"farmmarket/internal/models"
	"farmmarket/internal/repository"

	"github.com/google/uuid"
)

type cartService struct {
	repo  *repository.Repository
	cache CartCountCache
	now   func() time.Time
}

func NewCartService(repo *repository.Repository, cache CartCountCache) CartService {
	return &cartService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	lines, err := s.repo.Carts.ListDetailedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartItemView, 0, len(lines))}
	for _, l := range lines {
		view.Items = append(view.Items, CartItemView{
			ID:         l.ID,
			ProductID:  l.ProductID,
			Name:       l.ProductName,
			PriceCents: l.PriceCents,
			Unit:       l.Unit,
			ImageURL:   l.ImageURL,
			Quantity:   l.Quantity,
			Stock:      l.Stock,
			FarmerID:   l.FarmerID,
			FarmName:   l.FarmName,
		})
		view.SubtotalCents += int64(l.Quantity) * l.PriceCents
		view.ItemCount += int64(l.Quantity)
	}
	return view, nil
}

func (s *cartService) AddItem(ctx context.Context, in AddCartItemInput) (*CartItemView, error) {
	if in.Quantity <= 0 {
		return nil, ErrQuantityInvalid
	}

	p, err := s.repo.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.repo.Carts.GetByUserAndProduct(ctx, in.UserID, in.ProductID)
	if err != nil {
		return nil, err
	}

	var item *models.CartItem
	if existing != nil {
		// повторное добавление того же товара наращивает количество
		newQty := existing.Quantity + in.Quantity
		if newQty > p.Stock {
			return nil, &InsufficientStockError{Items: []OutOfStockItem{{
				ProductID:      p.ID,
				Name:           p.Name,
				RequestedQty:   newQty,
				AvailableStock: p.Stock,
			}}}
		}
		if err := s.repo.Carts.UpdateQuantity(ctx, existing.ID, newQty); err != nil {
			return nil, err
		}
		existing.Quantity = newQty
		item = existing
	} else {
		if in.Quantity > p.Stock {
			return nil, &InsufficientStockError{Items: []OutOfStockItem{{
				ProductID:      p.ID,
				Name:           p.Name,
				RequestedQty:   in.Quantity,
				AvailableStock: p.Stock,
			}}}
		}
		item = &models.CartItem{
			UserID:    in.UserID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			CreatedAt: s.now(),
		}
		if err := s.repo.Carts.Create(ctx, item); err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, in.UserID)
	}

	return &CartItemView{
		ID:         item.ID,
		ProductID:  p.ID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Unit:       p.Unit,
		ImageURL:   p.ImageURL,
		Quantity:   item.Quantity,
		Stock:      p.Stock,
		FarmerID:   p.FarmerID,
	}, nil
}

func (s *cartService) UpdateItem(ctx context.Context, in UpdateCartItemInput) error {
	if in.Quantity <= 0 {
		return ErrQuantityInvalid
	}

	lines, err := s.repo.Carts.ListDetailedByUser(ctx, in.UserID)
	if err != nil {
		return err
	}

	for _, l := range lines {
		if l.ID != in.ItemID {
			continue
		}
		if in.Quantity > l.Stock {
			return &InsufficientStockError{Items: []OutOfStockItem{{
				ProductID:      l.ProductID,
				Name:           l.ProductName,
				RequestedQty:   in.Quantity,
				AvailableStock: l.Stock,
			}}}
		}
		if err := s.repo.Carts.UpdateQuantity(ctx, l.ID, in.Quantity); err != nil {
			return err
		}
		if s.cache != nil {
			_ = s.cache.Invalidate(ctx, in.UserID)
		}
		return nil
	}
	return ErrCartItemNotFound
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	ok, err := s.repo.Carts.Delete(ctx, itemID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCartItemNotFound
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repo.Carts.ClearByUser(ctx, userID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
	return nil
}

func (s *cartService) CountItems(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.cache != nil {
		if count, ok, err := s.cache.GetCount(ctx, userID); err == nil && ok {
			return count, nil
		}
	}

	count, err := s.repo.Carts.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		_ = s.cache.SetCount(ctx, userID, count)
	}
	return count, nil
}
