package service

import (
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// CustomerJWTClaims is the token payload issued by the account service.
// This core only verifies tokens; it never issues them in production.
type CustomerJWTClaims struct {
	CustomerID uint   `json:"customer_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateCustomerJWT signs a customer token. Used by the seed tool and
// tests so the API can be exercised without the account service running.
func GenerateCustomerJWT(customer *models.Customer, secretKey string, expireHours int) (string, time.Time, error) {
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := CustomerJWTClaims{
		CustomerID: customer.ID,
		Username:   customer.Username,
		Email:      customer.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseCustomerJWT validates a customer token and returns its claims.
func ParseCustomerJWT(tokenString, secretKey string) (*CustomerJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &CustomerJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*CustomerJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
