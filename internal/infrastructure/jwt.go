package infrastructure

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadToken = errors.New("invalid token")

type JWTService struct {
	secret string
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: secret}
}

func (j *JWTService) GenerateToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"userID": userID,
		"role":   role,
		"exp":    time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secret))
}

// ParseToken verifies the signature and returns the caller identity.
func (j *JWTService) ParseToken(raw string) (userID, role string, err error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(j.secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrBadToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrBadToken
	}
	userID, _ = claims["userID"].(string)
	role, _ = claims["role"].(string)
	if userID == "" {
		return "", "", ErrBadToken
	}
	return userID, role, nil
}
