package repository

import (
	"context"
	"errors"

	"farmmarket/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FarmerProfile — фермер вместе с именем владельца из users.
type FarmerProfile struct {
	models.Farmer
	FirstName string
	LastName  string
	Email     string
}

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create*Account пишут пользователя и профиль одной транзакцией:
	// без профиля запись в users не остаётся
	CreateConsumerAccount(ctx context.Context, u *models.User, c *models.Consumer) error
	CreateFarmerAccount(ctx context.Context, u *models.User, f *models.Farmer) error

	CreateConsumer(ctx context.Context, c *models.Consumer) error
	GetConsumer(ctx context.Context, id uuid.UUID) (*models.Consumer, error)

	CreateFarmer(ctx context.Context, f *models.Farmer) error
	GetFarmer(ctx context.Context, id uuid.UUID) (*FarmerProfile, error)
	ListFarmers(ctx context.Context, limit, offset int) ([]*FarmerProfile, int64, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) UserRepo { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&cnt).Error
	return cnt > 0, err
}

func (r *userRepo) CreateConsumerAccount(ctx context.Context, u *models.User, c *models.Consumer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		c.ID = u.ID
		return tx.Create(c).Error
	})
}

func (r *userRepo) CreateFarmerAccount(ctx context.Context, u *models.User, f *models.Farmer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		f.ID = u.ID
		return tx.Create(f).Error
	})
}

func (r *userRepo) CreateConsumer(ctx context.Context, c *models.Consumer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *userRepo) GetConsumer(ctx context.Context, id uuid.UUID) (*models.Consumer, error) {
	var c models.Consumer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *userRepo) CreateFarmer(ctx context.Context, f *models.Farmer) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *userRepo) GetFarmer(ctx context.Context, id uuid.UUID) (*FarmerProfile, error) {
	var fp FarmerProfile
	err := r.db.WithContext(ctx).Model(&models.Farmer{}).
		Select("farmers.*, users.first_name, users.last_name, users.email").
		Joins("JOIN users ON users.id = farmers.id").
		Where("farmers.id = ?", id).
		Take(&fp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &fp, err
}

func (r *userRepo) ListFarmers(ctx context.Context, limit, offset int) ([]*FarmerProfile, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Farmer{}).
		Joins("JOIN users ON users.id = farmers.id")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var list []*FarmerProfile
	err := q.Select("farmers.*, users.first_name, users.last_name, users.email").
		Order("farmers.farm_name ASC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, total, err
}
