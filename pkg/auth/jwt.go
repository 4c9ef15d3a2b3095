package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/turboapi/turbo/pkg/errors"
)

// Claims is the token payload carried for a requester.
type Claims struct {
	UserID string `json:"uid"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HMAC-signed requester tokens.
type JWTManager struct {
	secretKey string
	expiry    time.Duration
}

func NewJWTManager(secretKey string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: secretKey,
		expiry:    expiry,
	}
}

func (m *JWTManager) GenerateToken(userID string, admin bool) (string, error) {
	claims := Claims{
		UserID: userID,
		Admin:  admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.NewAuthError("unexpected signing method")
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, errors.NewAuthError("invalid token").WithReason(err.Error())
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.NewAuthError("invalid token")
	}
	return claims, nil
}

// Authenticate implements Authenticator over a bearer token.
func (m *JWTManager) Authenticate(ctx context.Context, credential string) (*User, error) {
	claims, err := m.ValidateToken(credential)
	if err != nil {
		return nil, err
	}
	return &User{UID: claims.UserID, Admin: claims.Admin}, nil
}
