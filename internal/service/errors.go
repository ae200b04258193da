package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("forbidden")

	ErrProductNotFound  = errors.New("product not found")
	ErrFarmerNotFound   = errors.New("farmer not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")

	ErrEmptyCart       = errors.New("cart is empty")
	ErrQuantityInvalid = errors.New("quantity must be > 0")
	ErrPriceInvalid    = errors.New("price must be >= 0")
	ErrStockInvalid    = errors.New("stock must be >= 0")
)

// OutOfStockItem — позиция, которую нельзя выполнить по текущему остатку.
type OutOfStockItem struct {
	ProductID      uuid.UUID
	Name           string
	RequestedQty   int32
	AvailableStock int32
}

// InsufficientStockError перечисляет все проблемные позиции корзины разом,
// а не только первую найденную.
type InsufficientStockError struct {
	Items []OutOfStockItem
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Items))
}
