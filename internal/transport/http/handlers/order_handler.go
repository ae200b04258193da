package handlers

import (
	"errors"
	"net/http"

	"farmmarket/internal/models"
	"farmmarket/internal/service"
	"farmmarket/internal/transport/http/dto"
	"farmmarket/internal/transport/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders service.OrderQueryService
	log    *zap.Logger
}

func NewOrderHandler(orders service.OrderQueryService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		log:    log,
	}
}

func toOrderResponse(o *models.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                 o.ID.String(),
		Total:              dollars(o.TotalCents),
		Status:             string(o.Status),
		CreatedAt:          o.CreatedAt,
		Items:              make([]dto.OrderItemResponse, 0, len(o.Items)),
		ShippingAddress:    o.ShippingAddress,
		ShippingCity:       o.ShippingCity,
		ShippingState:      o.ShippingState,
		ShippingPostalCode: o.ShippingPostalCode,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:          it.ID.String(),
			ProductID:   it.ProductID.String(),
			FarmerID:    it.FarmerID.String(),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       dollars(it.PricePerUnitCents),
		})
	}
	return resp
}

// ListOrders godoc
// @Summary Заказы пользователя
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.OrderListResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Не авторизован"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	list, total, err := h.orders.ListByUser(c.Request.Context(), userID, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		h.log.Error("Failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	resp := dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(list)),
		Total:  total,
	}
	for _, o := range list {
		resp.Orders = append(resp.Orders, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, resp)
}

// GetOrder godoc
// @Summary Заказ по ID
// @Description Возвращает заказ только его владельцу
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid order id", []dto.FieldError{}))
		return
	}

	ord, err := h.orders.GetOrderForUser(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("order not found"))
			return
		}
		h.log.Error("Failed to get order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(ord))
}
