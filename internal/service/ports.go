package service

import (
	"context"
	"time"

	"farmmarket/internal/models"

	"github.com/google/uuid"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Пользователь и профиль создаются одной транзакцией
	CreateConsumerAccount(ctx context.Context, u *models.User, c *models.Consumer) error
	CreateFarmerAccount(ctx context.Context, u *models.User, f *models.Farmer) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, userType string, ttl time.Duration) (token string, exp time.Time, err error)
}
