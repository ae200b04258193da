package handlers

import (
	"errors"
	"net/http"

	"farmmarket/internal/service"
	"farmmarket/internal/transport/http/dto"
	"farmmarket/internal/transport/http/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	log      *zap.Logger
}

func NewCheckoutHandler(checkout service.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		log:      log,
	}
}

// Checkout godoc
// @Summary Оформление заказа
// @Description Атомарно превращает корзину в заказ: проверяет остатки, фиксирует цены,
// @Description списывает склад, начисляет выручку фермерам и очищает корзину
// @Tags checkout
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param checkout body dto.CheckoutRequest true "Адрес доставки"
// @Success 201 {object} dto.CheckoutResponse "Заказ создан"
// @Failure 400 {object} dto.OutOfStockErrorResponse "Пустая корзина или недостаточно остатка"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Не авторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/checkout [post]
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	res, err := h.checkout.Checkout(c.Request.Context(), service.CheckoutInput{
		UserID: userID,
		Shipping: service.ShippingInfo{
			Address:    req.ShippingAddress,
			City:       req.ShippingCity,
			State:      req.ShippingState,
			PostalCode: req.ShippingPostalCode,
		},
	})
	if err != nil {
		var stockErr *service.InsufficientStockError
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, dto.NewValidationError("cart is empty", []dto.FieldError{}))
		case errors.As(err, &stockErr):
			c.JSON(http.StatusBadRequest, dto.NewOutOfStockError(outOfStockItems(stockErr)))
		default:
			h.log.Error("Checkout failed", zap.String("user_id", userID.String()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	h.log.Info("Order placed",
		zap.String("order_id", res.OrderID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("total_cents", res.TotalCents),
	)

	c.JSON(http.StatusCreated, dto.CheckoutResponse{
		OrderID: res.OrderID.String(),
		Total:   dollars(res.TotalCents),
		Status:  res.Status,
		Message: "Order placed successfully",
	})
}
