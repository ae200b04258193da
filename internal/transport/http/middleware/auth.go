package middleware

import (
	"net/http"
	"strings"

	"farmmarket/internal/token"
	"farmmarket/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys for user info
const (
	CtxUserID   = "user_id"
	CtxUserType = "user_type"
)

// AuthRequired validates Bearer token and injects user info into context.
func AuthRequired(tokens *token.HSProvider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("missing Authorization header"))
			return
		}
		tok, ok := ExtractBearerToken(authz)
		if !ok || tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid Authorization header"))
			return
		}

		claims, err := tokens.ParseAndValidateAccess(c.Request.Context(), tok)
		if err != nil {
			log.Warn("token validation failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserType, claims.UserType)
		c.Next()
	}
}

// FarmerOnly пропускает только пользователей с типом farmer.
func FarmerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserType) != "farmer" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewForbiddenError("farmer account required"))
			return
		}
		c.Next()
	}
}

// UserID достаёт идентификатор пользователя, положенный AuthRequired.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// ExtractBearerToken извлекает токен из заголовка Authorization
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.TrimSpace(parts[1])
	t = strings.Trim(t, " \"'")
	return t, true
}
