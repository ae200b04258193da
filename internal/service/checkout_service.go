package service

import (
	"context"
	"time"

	"farmmarket/internal/models"
	"farmmarket/internal/repository"

	"github.com/google/uuid"
)

type checkoutService struct {
	repo   *repository.Repository
	events EventBus
	cache  CartCountCache
	now    func() time.Time
}

func NewCheckoutService(repo *repository.Repository, events EventBus, cache CartCountCache) CheckoutService {
	return &checkoutService{
		repo:   repo,
		events: events,
		cache:  cache,
		now:    time.Now,
	}
}

func (s *checkoutService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	lines, err := s.repo.Carts.ListDetailedByUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Сначала собираем ВСЕ проблемные позиции, а не первую попавшуюся
	var short []OutOfStockItem
	for _, l := range lines {
		if l.Quantity > l.Stock {
			short = append(short, OutOfStockItem{
				ProductID:      l.ProductID,
				Name:           l.ProductName,
				RequestedQty:   l.Quantity,
				AvailableStock: l.Stock,
			})
		}
	}
	if len(short) > 0 {
		return nil, &InsufficientStockError{Items: short}
	}

	var total int64
	for _, l := range lines {
		total += int64(l.Quantity) * l.PriceCents
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		order   *models.Order
		itemsDB []*models.OrderItem
	)

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		order = &models.Order{
			UserID:             in.UserID,
			TotalCents:         total,
			Status:             models.OrderStatusProcessing,
			ShippingAddress:    in.Shipping.Address,
			ShippingCity:       in.Shipping.City,
			ShippingState:      in.Shipping.State,
			ShippingPostalCode: in.Shipping.PostalCode,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		itemsDB = make([]*models.OrderItem, 0, len(lines))
		for _, l := range lines {
			itemsDB = append(itemsDB, &models.OrderItem{
				OrderID:           order.ID,
				ProductID:         l.ProductID,
				FarmerID:          l.FarmerID,
				Quantity:          l.Quantity,
				PricePerUnitCents: l.PriceCents,
				ProductName:       l.ProductName,
				CreatedAt:         now,
			})
		}
		if err := tx.OrderItems.BulkCreate(ctx, itemsDB); err != nil {
			return err
		}

		// Списание остатков с защитой от гонок: UPDATE срабатывает только
		// если stock ещё достаточен, иначе вся транзакция откатывается
		for _, l := range lines {
			ok, err := tx.Products.DecrementStock(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				p, err := tx.Products.GetByID(ctx, l.ProductID)
				if err != nil {
					return err
				}
				available := int32(0)
				if p != nil {
					available = p.Stock
				}
				return &InsufficientStockError{Items: []OutOfStockItem{{
					ProductID:      l.ProductID,
					Name:           l.ProductName,
					RequestedQty:   l.Quantity,
					AvailableStock: available,
				}}}
			}
		}

		// Выручка: одна строка на фермера
		byFarmer := map[uuid.UUID]int64{}
		farmerIDs := make([]uuid.UUID, 0)
		for _, l := range lines {
			if _, seen := byFarmer[l.FarmerID]; !seen {
				farmerIDs = append(farmerIDs, l.FarmerID)
			}
			byFarmer[l.FarmerID] += int64(l.Quantity) * l.PriceCents
		}
		revRows := make([]*models.FarmerRevenue, 0, len(farmerIDs))
		for _, fid := range farmerIDs {
			revRows = append(revRows, &models.FarmerRevenue{
				FarmerID:    fid,
				OrderID:     order.ID,
				AmountCents: byFarmer[fid],
				Date:        today,
				CreatedAt:   now,
			})
		}
		if err := tx.Revenue.BulkCreate(ctx, revRows); err != nil {
			return err
		}

		// Аналитика по товарам
		for _, l := range lines {
			lineTotal := int64(l.Quantity) * l.PriceCents
			pa, err := tx.Analytics.GetProductByProductID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if pa == nil {
				if err := tx.Analytics.CreateProduct(ctx, &models.ProductAnalytics{
					ProductID:         l.ProductID,
					TotalSold:         int64(l.Quantity),
					TotalRevenueCents: lineTotal,
					LastSoldDate:      today,
					UpdatedAt:         now,
				}); err != nil {
					return err
				}
				continue
			}
			if err := tx.Analytics.AccumulateProduct(ctx, pa.ID, int64(l.Quantity), lineTotal, today); err != nil {
				return err
			}
		}

		// Аналитика по покупателю
		ca, err := tx.Analytics.GetCustomerByUserID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if ca == nil {
			ca = &models.CustomerAnalytics{
				UserID:          in.UserID,
				TotalOrders:     1,
				TotalSpentCents: total,
				FirstOrderDate:  today,
				LastOrderDate:   today,
				UpdatedAt:       now,
			}
			if err := tx.Analytics.CreateCustomer(ctx, ca); err != nil {
				return err
			}
		} else if err := tx.Analytics.AccumulateCustomer(ctx, ca.ID, 1, total, today); err != nil {
			return err
		}
		if err := tx.Analytics.AddPreferredFarmers(ctx, ca.ID, farmerIDs); err != nil {
			return err
		}

		// Корзина очищается в той же транзакции
		if _, err := tx.Carts.ClearByUser(ctx, in.UserID); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, in.UserID)
	}

	if s.events != nil {
		evLines := make([]OrderLineEvent, 0, len(itemsDB))
		for _, it := range itemsDB {
			evLines = append(evLines, OrderLineEvent{
				ProductID:   it.ProductID,
				FarmerID:    it.FarmerID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				PriceCents:  it.PricePerUnitCents,
			})
		}
		_ = s.events.PublishOrderPlaced(ctx, OrderPlacedEvent{
			OrderID:    order.ID,
			UserID:     order.UserID,
			Items:      evLines,
			TotalCents: order.TotalCents,
			PlacedAt:   now,
		})
	}

	return &CheckoutResult{
		OrderID:    order.ID,
		TotalCents: order.TotalCents,
		Status:     string(order.Status),
	}, nil
}
