package handlers

import (
	"errors"
	"net/http"
	"time"

	"farmmarket/internal/repository"
	"farmmarket/internal/service"
	"farmmarket/internal/transport/http/dto"
	"farmmarket/internal/transport/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FarmerHandler struct {
	farmers service.FarmerService
	orders  service.OrderQueryService
	log     *zap.Logger
}

func NewFarmerHandler(farmers service.FarmerService, orders service.OrderQueryService, log *zap.Logger) *FarmerHandler {
	return &FarmerHandler{
		farmers: farmers,
		orders:  orders,
		log:     log,
	}
}

func toFarmerResponse(fp *repository.FarmerProfile) dto.FarmerResponse {
	return dto.FarmerResponse{
		ID:              fp.ID.String(),
		FarmName:        fp.FarmName,
		FarmDescription: fp.FarmDescription,
		FarmAddress:     fp.FarmAddress,
		City:            fp.City,
		State:           fp.State,
		PostalCode:      fp.PostalCode,
		PhoneNumber:     fp.PhoneNumber,
		OwnerFirstName:  fp.FirstName,
		OwnerLastName:   fp.LastName,
		IsOrganic:       fp.IsOrganic,
		IsNonGMO:        fp.IsNonGMO,
		IsSustainable:   fp.IsSustainable,
		IsPastureRaised: fp.IsPastureRaised,
	}
}

// ListFarmers godoc
// @Summary Список ферм
// @Tags farmers
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.FarmerListResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/farmers [get]
func (h *FarmerHandler) ListFarmers(c *gin.Context) {
	list, total, err := h.farmers.ListFarmers(c.Request.Context(), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		h.log.Error("Failed to list farmers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	resp := dto.FarmerListResponse{
		Farmers: make([]dto.FarmerResponse, 0, len(list)),
		Total:   total,
	}
	for _, fp := range list {
		resp.Farmers = append(resp.Farmers, toFarmerResponse(fp))
	}

	c.JSON(http.StatusOK, resp)
}

// GetFarmer godoc
// @Summary Карточка фермы
// @Tags farmers
// @Produce json
// @Param id path string true "ID фермера"
// @Success 200 {object} dto.FarmerResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Ферма не найдена"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/farmers/{id} [get]
func (h *FarmerHandler) GetFarmer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid farmer id", []dto.FieldError{}))
		return
	}

	fp, err := h.farmers.GetFarmer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrFarmerNotFound) {
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("farmer not found"))
			return
		}
		h.log.Error("Failed to get farmer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, toFarmerResponse(fp))
}

// Dashboard godoc
// @Summary Дашборд фермера
// @Description Сводка выручки за период, динамика по дням, топ товаров и товары с низким остатком
// @Tags farmers
// @Produce json
// @Security BearerAuth
// @Param from query string false "Начало периода (YYYY-MM-DD)"
// @Param to query string false "Конец периода (YYYY-MM-DD)"
// @Success 200 {object} dto.DashboardResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не фермер"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/farmers/dashboard [get]
func (h *FarmerHandler) Dashboard(c *gin.Context) {
	farmerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid from date", []dto.FieldError{}))
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid to date", []dto.FieldError{}))
			return
		}
		to = t
	}

	sum, err := h.farmers.Dashboard(c.Request.Context(), farmerID, from, to)
	if err != nil {
		h.log.Error("Failed to build dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	resp := dto.DashboardResponse{
		TotalRevenue: dollars(sum.TotalRevenueCents),
		OrderCount:   sum.OrderCount,
		Daily:        make([]dto.RevenuePointResponse, 0, len(sum.Daily)),
		TopProducts:  make([]dto.TopProductResponse, 0, len(sum.TopProducts)),
		LowStock:     make([]dto.ProductResponse, 0, len(sum.LowStock)),
	}
	for _, d := range sum.Daily {
		resp.Daily = append(resp.Daily, dto.RevenuePointResponse{
			Date:    d.Date.Format("2006-01-02"),
			Revenue: dollars(d.TotalCents),
		})
	}
	for _, t := range sum.TopProducts {
		resp.TopProducts = append(resp.TopProducts, dto.TopProductResponse{
			ProductID:    t.ProductID.String(),
			Name:         t.ProductName,
			TotalSold:    t.TotalSold,
			TotalRevenue: dollars(t.TotalRevenueCents),
		})
	}
	for _, p := range sum.LowStock {
		resp.LowStock = append(resp.LowStock, toProductResponse(p))
	}

	c.JSON(http.StatusOK, resp)
}

// FarmerOrders godoc
// @Summary Заказы на товары фермера
// @Description Позиции чужих заказов, относящиеся к товарам текущего фермера
// @Tags farmers
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.FarmerOrderListResponse
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не фермер"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/farmers/orders [get]
func (h *FarmerHandler) FarmerOrders(c *gin.Context) {
	farmerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	list, total, err := h.orders.ListFarmerLines(c.Request.Context(), farmerID, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		h.log.Error("Failed to list farmer orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	resp := dto.FarmerOrderListResponse{
		Orders: make([]dto.FarmerOrderLineResponse, 0, len(list)),
		Total:  total,
	}
	for _, l := range list {
		resp.Orders = append(resp.Orders, dto.FarmerOrderLineResponse{
			OrderID:      l.OrderID.String(),
			ProductID:    l.ProductID.String(),
			ProductName:  l.ProductName,
			Quantity:     l.Quantity,
			Price:        dollars(l.PricePerUnitCents),
			Status:       string(l.OrderStatus),
			OrderedAt:    l.OrderCreatedAt,
			CustomerName: l.CustomerFirstName + " " + l.CustomerLastName,
			City:         l.ShippingCity,
			State:        l.ShippingState,
		})
	}

	c.JSON(http.StatusOK, resp)
}
