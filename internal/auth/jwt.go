// Package auth issues and verifies the bearer tokens gating the
// key-export and file-decrypt endpoints, adapted from the teacher's
// internal/auth/jwt.go (which hardcoded its signing key; this version
// takes one from service config instead — see DESIGN.md for why the
// teacher's other jwt library, the unmaintained dgrijalva/jwt-go, was
// dropped rather than carried alongside golang-jwt/jwt/v5).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identifies the operator a token was issued for.
type Claims struct {
	OperatorID string `json:"operator_id"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens under one secret and expiry.
type Issuer struct {
	secret []byte
	expiry time.Duration
}

func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiry: expiry}
}

func (i *Issuer) GenerateToken(operatorID string) (string, error) {
	claims := &Claims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth: parsing token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid token")
	}
	return claims, nil
}
