package handlers

import (
	"errors"
	"net/http"

	"farmmarket/internal/service"
	"farmmarket/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *service.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

func toAuthResponse(res *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		UserID:      res.UserID.String(),
		UserType:    res.UserType,
		FirstName:   res.FirstName,
		LastName:    res.LastName,
		Email:       res.Email,
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt,
	}
}

// RegisterConsumer godoc
// @Summary Регистрация покупателя
// @Description Создаёт аккаунт покупателя и выдаёт access-токен
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterConsumerRequest true "Данные регистрации"
// @Success 200 {object} dto.AuthResponse "Успешная регистрация"
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 409 {object} dto.ConflictErrorResponse "Email уже занят"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/register/consumer [post]
func (h *AuthHandler) RegisterConsumer(c *gin.Context) {
	var req dto.RegisterConsumerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid registration request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	res, err := h.auth.RegisterConsumer(c.Request.Context(), service.RegisterConsumerInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			h.log.Warn("Email already registered", zap.String("email", req.Email))
			c.JSON(http.StatusConflict, dto.NewConflictError("user with this email already exists"))
			return
		}
		h.log.Error("Consumer registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(res))
}

// RegisterFarmer godoc
// @Summary Регистрация фермера
// @Description Создаёт аккаунт фермера с профилем фермы и выдаёт access-токен
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterFarmerRequest true "Данные регистрации"
// @Success 200 {object} dto.AuthResponse "Успешная регистрация"
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 409 {object} dto.ConflictErrorResponse "Email уже занят"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/register/farmer [post]
func (h *AuthHandler) RegisterFarmer(c *gin.Context) {
	var req dto.RegisterFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid registration request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	res, err := h.auth.RegisterFarmer(c.Request.Context(), service.RegisterFarmerInput{
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		FarmName:        req.FarmName,
		FarmDescription: req.FarmDescription,
		FarmAddress:     req.FarmAddress,
		City:            req.City,
		State:           req.State,
		PostalCode:      req.PostalCode,
		PhoneNumber:     req.PhoneNumber,
		IsOrganic:       req.IsOrganic,
		IsNonGMO:        req.IsNonGMO,
		IsSustainable:   req.IsSustainable,
		IsPastureRaised: req.IsPastureRaised,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			h.log.Warn("Email already registered", zap.String("email", req.Email))
			c.JSON(http.StatusConflict, dto.NewConflictError("user with this email already exists"))
			return
		}
		h.log.Error("Farmer registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(res))
}

// Login godoc
// @Summary Авторизация пользователя
// @Description Авторизует пользователя и выдаёт access-токен
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Данные авторизации"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неверный email или пароль"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{}))
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.log.Warn("Invalid credentials", zap.String("email", req.Email))
			c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid email or password"))
			return
		}
		h.log.Error("Login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(res))
}
