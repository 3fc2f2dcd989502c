package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"spendlog/internal/core"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer signs and verifies HS256 bearer tokens. The claims carry the
// full principal so verification does not need a store round trip.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the principal, expiring after the
// configured TTL.
func (ti *TokenIssuer) Issue(p core.Principal, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", p.ID),
		"email": p.Email,
		"name":  p.DisplayName,
		"iat":   now.Unix(),
		"exp":   now.Add(ti.ttl).Unix(),
	})
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and reconstructs the principal.
// Any failure (bad signature, wrong algorithm, expiry, malformed claims)
// comes back as ErrInvalidToken.
func (ti *TokenIssuer) Verify(tokenString string) (core.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return core.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return core.Principal{}, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	var id int64
	if _, err := fmt.Sscanf(sub, "%d", &id); err != nil || id <= 0 {
		return core.Principal{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return core.Principal{ID: id, Email: email, DisplayName: name}, nil
}
