package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the actor identity inside a signed token. The workflow
// core trusts this as given; verifying it is this package's job.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for a user.
func IssueToken(secret string, userID uuid.UUID, role programs.Role, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(role),
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry and returns the actor.
func ParseToken(secret, raw string) (programs.Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return programs.Actor{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return programs.Actor{}, ErrInvalidToken
	}
	role := programs.Role(claims.Role)
	if !role.IsValid() {
		return programs.Actor{}, ErrInvalidToken
	}
	return programs.Actor{ID: userID, Role: role, Name: claims.Name}, nil
}
