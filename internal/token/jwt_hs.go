package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID   uuid.UUID
	UserType string
	Exp      time.Time
}

// HSProvider подписывает и проверяет access-токены по HMAC-SHA256.
type HSProvider struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewHSProvider(secret, issuer string) *HSProvider {
	return &HSProvider{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

func (p *HSProvider) SignAccess(ctx context.Context, sub uuid.UUID, userType string, ttl time.Duration) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub":       sub.String(),
		"user_type": userType,
		"iss":       p.issuer,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (p *HSProvider) ParseAndValidateAccess(ctx context.Context, tokenStr string) (*Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mc["sub"].(string)
	uid, err := uuid.Parse(sub)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userType, _ := mc["user_type"].(string)

	var exp time.Time
	if expNum, ok := mc["exp"].(float64); ok {
		exp = time.Unix(int64(expNum), 0)
	}

	return &Claims{
		UserID:   uid,
		UserType: userType,
		Exp:      exp,
	}, nil
}
