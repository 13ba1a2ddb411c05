package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/farellandr/civic-events/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the payload the auth service signs into every bearer token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token for the given identity.
func NewToken(userID uuid.UUID, role string, secret string, duration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	})

	return token.SignedString([]byte(secret))
}

// ParseToken validates signature and expiry and returns the caller encoded in the token.
func ParseToken(tokenString string, secret string) (models.Caller, error) {
	const op = "jwt.ParseToken"

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Caller{}, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return models.Caller{}, fmt.Errorf("%s: %w: %v", op, ErrInvalidToken, err)
	}

	if claims.UserID == uuid.Nil {
		return models.Caller{}, fmt.Errorf("%s: %w: missing user_id", op, ErrInvalidToken)
	}

	role := claims.Role
	if role == "" {
		role = models.RoleUser
	}

	return models.Caller{UserID: claims.UserID, Role: role}, nil
}
