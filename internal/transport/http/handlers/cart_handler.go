package handlers

import (
	"errors"
	"net/http"

	"farmmarket/internal/service"
	"farmmarket/internal/transport/http/dto"
	"farmmarket/internal/transport/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts service.CartService
	log   *zap.Logger
}

func NewCartHandler(carts service.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		carts: carts,
		log:   log,
	}
}

func outOfStockItems(e *service.InsufficientStockError) []dto.OutOfStockItem {
	items := make([]dto.OutOfStockItem, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, dto.OutOfStockItem{
			ProductID:         it.ProductID.String(),
			Name:              it.Name,
			RequestedQuantity: it.RequestedQty,
			AvailableStock:    it.AvailableStock,
		})
	}
	return items
}

// GetCart godoc
// @Summary Корзина пользователя
// @Description Возвращает содержимое корзины с актуальными ценами и остатками
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CartResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Не авторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	view, err := h.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to load cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	resp := dto.CartResponse{
		Items:     make([]dto.CartItemResponse, 0, len(view.Items)),
		Subtotal:  dollars(view.SubtotalCents),
		ItemCount: view.ItemCount,
	}
	for _, it := range view.Items {
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID:        it.ID.String(),
			ProductID: it.ProductID.String(),
			Name:      it.Name,
			Price:     dollars(it.PriceCents),
			Unit:      it.Unit,
			ImageURL:  it.ImageURL,
			Quantity:  it.Quantity,
			Stock:     it.Stock,
			FarmerID:  it.FarmerID.String(),
			FarmName:  it.FarmName,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// AddItem godoc
// @Summary Добавить товар в корзину
// @Description Повторное добавление того же товара увеличивает количество
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body dto.AddCartItemRequest true "Товар и количество"
// @Success 200 {object} dto.CartItemResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 409 {object} dto.OutOfStockErrorResponse "Недостаточно остатка"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	item, err := h.carts.AddItem(c.Request.Context(), service.AddCartItemInput{
		UserID:    userID,
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
		case errors.Is(err, service.ErrQuantityInvalid):
			c.JSON(http.StatusBadRequest, dto.NewValidationError("quantity must be positive", []dto.FieldError{}))
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, dto.NewOutOfStockError(outOfStockItems(stockErr)))
		default:
			h.log.Error("Failed to add cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.JSON(http.StatusOK, dto.CartItemResponse{
		ID:        item.ID.String(),
		ProductID: item.ProductID.String(),
		Name:      item.Name,
		Price:     dollars(item.PriceCents),
		Unit:      item.Unit,
		ImageURL:  item.ImageURL,
		Quantity:  item.Quantity,
		Stock:     item.Stock,
		FarmerID:  item.FarmerID.String(),
	})
}

// UpdateItem godoc
// @Summary Изменить количество позиции
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID позиции корзины"
// @Param item body dto.UpdateCartItemRequest true "Новое количество"
// @Success 204 "Количество обновлено"
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 404 {object} dto.NotFoundErrorResponse "Позиция не найдена"
// @Failure 409 {object} dto.OutOfStockErrorResponse "Недостаточно остатка"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/items/{id} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid item id", []dto.FieldError{}))
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	err = h.carts.UpdateItem(c.Request.Context(), service.UpdateCartItemInput{
		UserID:   userID,
		ItemID:   itemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("cart item not found"))
		case errors.Is(err, service.ErrQuantityInvalid):
			c.JSON(http.StatusBadRequest, dto.NewValidationError("quantity must be positive", []dto.FieldError{}))
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, dto.NewOutOfStockError(outOfStockItems(stockErr)))
		default:
			h.log.Error("Failed to update cart item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveItem godoc
// @Summary Удалить позицию из корзины
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID позиции корзины"
// @Success 204 "Позиция удалена"
// @Failure 404 {object} dto.NotFoundErrorResponse "Позиция не найдена"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid item id", []dto.FieldError{}))
		return
	}

	if err := h.carts.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("cart item not found"))
			return
		}
		h.log.Error("Failed to remove cart item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearCart godoc
// @Summary Очистить корзину
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 204 "Корзина очищена"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	if err := h.carts.ClearCart(c.Request.Context(), userID); err != nil {
		h.log.Error("Failed to clear cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.Status(http.StatusNoContent)
}

// Count godoc
// @Summary Количество товаров в корзине
// @Description Суммарное количество единиц товара, может отдаваться из кэша
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CartCountResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/cart/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	count, err := h.carts.CountItems(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to count cart items", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, dto.CartCountResponse{Count: count})
}
