package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens emitidos por el servicio de autenticación externo; aquí solo se verifican.
var (
	ErrNoSecret = errors.New("jwt: secret vacío")
	ErrNoUser   = errors.New("jwt: token sin operador")
)

// Tolerancia de reloj entre el emisor y esta API.
const leeway = 30 * time.Second

// Claims claims registrados más el operador que firma los movimientos.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Operator devuelve user_id, o sub cuando el emisor no manda user_id.
func (c *Claims) Operator() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// Generate firma un token HS256 para un operador (pruebas y herramientas locales).
func Generate(secret, userID, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifica firma HS256 y vigencia y devuelve el operador del token.
func Parse(secret, tokenString string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(leeway),
	)
	if err != nil {
		return "", fmt.Errorf("jwt: %w", err)
	}
	op := claims.Operator()
	if op == "" {
		return "", ErrNoUser
	}
	return op, nil
}
