package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"farmmarket/internal/models"
	"farmmarket/internal/service"
	"farmmarket/internal/transport/http/dto"
	"farmmarket/internal/transport/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalog service.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(catalog service.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		log:     log,
	}
}

func toProductResponse(p *models.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Description:     p.Description,
		Price:           dollars(p.PriceCents),
		Unit:            p.Unit,
		ImageURL:        p.ImageURL,
		Stock:           p.Stock,
		FarmerID:        p.FarmerID.String(),
		CreatedAt:       p.CreatedAt,
		IsOrganic:       p.IsOrganic,
		IsNonGMO:        p.IsNonGMO,
		IsSustainable:   p.IsSustainable,
		IsPastureRaised: p.IsPastureRaised,
	}
	if p.CategoryID != nil {
		cid := p.CategoryID.String()
		resp.CategoryID = &cid
	}
	return resp
}

func queryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// ListProducts godoc
// @Summary Каталог товаров
// @Description Список товаров с фильтрами по фермеру, категории, поиску и наличию
// @Tags products
// @Produce json
// @Param farmerId query string false "Фильтр по фермеру"
// @Param categoryId query string false "Фильтр по категории"
// @Param q query string false "Поиск по названию"
// @Param inStock query bool false "Только в наличии"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} dto.ProductListResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	f := service.ProductFilter{
		Query:       c.Query("q"),
		InStockOnly: c.Query("inStock") == "true",
		Limit:       queryInt(c, "limit", 20),
		Offset:      queryInt(c, "offset", 0),
	}

	if v := c.Query("farmerId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid farmer id", []dto.FieldError{}))
			return
		}
		f.FarmerID = &id
	}
	if v := c.Query("categoryId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid category id", []dto.FieldError{}))
			return
		}
		f.CategoryID = &id
	}

	list, total, err := h.catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		h.log.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	resp := dto.ProductListResponse{
		Products: make([]dto.ProductResponse, 0, len(list)),
		Total:    total,
	}
	for _, p := range list {
		resp.Products = append(resp.Products, toProductResponse(p))
	}

	c.JSON(http.StatusOK, resp)
}

// GetProduct godoc
// @Summary Карточка товара
// @Tags products
// @Produce json
// @Param id path string true "ID товара"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
			return
		}
		h.log.Error("Failed to get product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, toProductResponse(p))
}

// CreateProduct godoc
// @Summary Создать товар
// @Description Доступно только фермерам, товар привязывается к текущему аккаунту
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body dto.CreateProductRequest true "Данные товара"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Не фермер"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products [post]
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	farmerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	in := service.CreateProductInput{
		FarmerID:        farmerID,
		Name:            req.Name,
		Description:     req.Description,
		PriceCents:      cents(req.Price),
		Unit:            req.Unit,
		ImageURL:        req.ImageURL,
		Stock:           req.Stock,
		IsOrganic:       req.IsOrganic,
		IsNonGMO:        req.IsNonGMO,
		IsSustainable:   req.IsSustainable,
		IsPastureRaised: req.IsPastureRaised,
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid category id", []dto.FieldError{}))
			return
		}
		in.CategoryID = &cid
	}

	p, err := h.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPriceInvalid), errors.Is(err, service.ErrStockInvalid):
			c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), []dto.FieldError{}))
		default:
			h.log.Error("Failed to create product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(p))
}

// UpdateProduct godoc
// @Summary Изменить товар
// @Description Фермер может менять только свои товары
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Param product body dto.UpdateProductRequest true "Изменяемые поля"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Чужой товар"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	farmerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	in := service.UpdateProductInput{
		FarmerID:    farmerID,
		ProductID:   productID,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	}
	if req.Price != nil {
		pc := cents(*req.Price)
		in.PriceCents = &pc
	}
	if req.CategoryID != nil {
		cid, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid category id", []dto.FieldError{}))
			return
		}
		in.CategoryID = &cid
	}

	p, err := h.catalog.UpdateProduct(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, dto.NewForbiddenError("product belongs to another farmer"))
		case errors.Is(err, service.ErrPriceInvalid), errors.Is(err, service.ErrStockInvalid):
			c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), []dto.FieldError{}))
		default:
			h.log.Error("Failed to update product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.JSON(http.StatusOK, toProductResponse(p))
}

// DeleteProduct godoc
// @Summary Удалить товар
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Success 204 "Товар удалён"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	farmerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid product id", []dto.FieldError{}))
		return
	}

	if err := h.catalog.DeleteProduct(c.Request.Context(), productID, farmerID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("product not found"))
			return
		}
		h.log.Error("Failed to delete product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCategories godoc
// @Summary Категории товаров
// @Tags products
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, cat := range list {
		resp = append(resp, dto.CategoryResponse{
			ID:          cat.ID.String(),
			Name:        cat.Name,
			Description: cat.Description,
		})
	}

	c.JSON(http.StatusOK, resp)
}
