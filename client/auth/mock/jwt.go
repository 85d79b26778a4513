package mock

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type accessClaims struct {
	Role       string `json:"role"`
	Version    int    `json:"ver"`
	Generation int64  `json:"gen"`
	jwt.RegisteredClaims
}

// createJWT creates a signed access token for acc
func (s *Service) createJWT(acc account) (string, error) {
	now := time.Now()
	claims := accessClaims{
		Role:       string(acc.profile.Role),
		Version:    acc.version,
		Generation: s.generation.Load(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   acc.profile.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.AccessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// verifyJWT returns the account the access token was issued to.
func (s *Service) verifyJWT(tokenString string) (account, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return account{}, err
	}
	if claims.Generation != s.generation.Load() {
		return account{}, errors.New("token expired")
	}
	acc, ok := s.accounts.Get(claims.Subject)
	if !ok {
		return account{}, fmt.Errorf("unknown subject: %v", claims.Subject)
	}
	if acc.version != claims.Version {
		return account{}, errors.New("token revoked")
	}
	return acc, nil
}
