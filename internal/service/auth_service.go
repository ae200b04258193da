package service

import (
	"context"
	"time"

	"farmmarket/internal/models"

	"go.uber.org/zap"
)

type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenProvider

	accessTTL time.Duration
	now       func() time.Time

	log *zap.Logger
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenProvider, accessTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		accessTTL: accessTTL,
		now:       time.Now,
		log:       log,
	}
}

func (s *AuthService) RegisterConsumer(ctx context.Context, in RegisterConsumerInput) (*AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		UserType:     models.UserTypeConsumer,
		CreatedAt:    s.now(),
	}
	c := &models.Consumer{
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		PostalCode:  in.PostalCode,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.users.CreateConsumerAccount(ctx, u, c); err != nil {
		return nil, err
	}

	return s.issueToken(ctx, u)
}

func (s *AuthService) RegisterFarmer(ctx context.Context, in RegisterFarmerInput) (*AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		UserType:     models.UserTypeFarmer,
		CreatedAt:    s.now(),
	}
	f := &models.Farmer{
		FarmName:        in.FarmName,
		FarmDescription: in.FarmDescription,
		FarmAddress:     in.FarmAddress,
		City:            in.City,
		State:           in.State,
		PostalCode:      in.PostalCode,
		PhoneNumber:     in.PhoneNumber,
		IsOrganic:       in.IsOrganic,
		IsNonGMO:        in.IsNonGMO,
		IsSustainable:   in.IsSustainable,
		IsPastureRaised: in.IsPastureRaised,
	}
	if err := s.users.CreateFarmerAccount(ctx, u, f); err != nil {
		return nil, err
	}

	return s.issueToken(ctx, u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(ctx, user)
}

func (s *AuthService) issueToken(ctx context.Context, u *models.User) (*AuthResult, error) {
	access, exp, err := s.tokens.SignAccess(ctx, u.ID, string(u.UserType), s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		UserID:      u.ID,
		UserType:    string(u.UserType),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		AccessToken: access,
		ExpiresAt:   exp,
	}, nil
}
