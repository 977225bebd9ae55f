// Package auth issues and verifies the operator tokens guarding admin routes.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/samvyt/rifa/internal/shared/biztime"
)

const (
	issuer          = "rifa"
	defaultTokenTTL = 12 * time.Hour
	minSecretLength = 16
)

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

const ScopeAdmin = "admin"

type JWTService struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTService(secret string, ttl time.Duration) (*JWTService, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("admin jwt secret must be at least %d characters", minSecretLength)
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs an admin token for the given operator name.
func (s *JWTService) Issue(subject string) (string, time.Time, error) {
	now := biztime.NowUTC()
	exp := now.Add(s.ttl)
	claims := &Claims{
		Scope: ScopeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, exp, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Scope != ScopeAdmin {
		return nil, fmt.Errorf("token scope %q is not admin", claims.Scope)
	}
	return claims, nil
}

func (s *JWTService) TTL() time.Duration {
	return s.ttl
}
