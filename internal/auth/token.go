// Package auth verifies the bearer tokens issued by the external auth service.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/metinatakli/seat-reservation/internal/domain"
)

var ErrInvalidToken = errors.New("invalid authentication token")

type Claims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for identity. The auth service owns token
// issuance; this exists for local development and tests.
func IssueToken(secret []byte, identity domain.Identity, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		Role:  identity.Role,
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(identity.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ParseToken(secret []byte, tokenString string) (domain.Identity, error) {
	if len(secret) == 0 {
		return domain.Identity{}, ErrInvalidToken
	}

	var claims Claims

	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return domain.Identity{}, errors.Join(ErrInvalidToken, err)
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID < 1 {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{
		UserID: userID,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
