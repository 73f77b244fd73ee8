package leaderboardhttp

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	leaderboarddomain "github.com/Black-And-White-Club/rock-destroyer/app/modules/leaderboard/domain"
)

// TokenProvider issues and validates HS256 tokens whose subject is a player identity.
type TokenProvider struct {
	secret []byte
}

// NewTokenProvider creates a TokenProvider. With an empty secret every issue and
// validation fails with ErrMissingSecret.
func NewTokenProvider(secret string) *TokenProvider {
	return &TokenProvider{secret: []byte(secret)}
}

// IssueToken signs a token for id valid for ttl.
func (p *TokenProvider) IssueToken(id leaderboarddomain.Identity, ttl time.Duration) (string, error) {
	if len(p.secret) == 0 {
		return "", ErrMissingSecret
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   id.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks the token and returns the identity in its subject.
func (p *TokenProvider) ValidateToken(tokenString string) (leaderboarddomain.Identity, error) {
	if len(p.secret) == 0 {
		return leaderboarddomain.Identity{}, ErrMissingSecret
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return leaderboarddomain.Identity{}, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return leaderboarddomain.Identity{}, ErrInvalidSignature
		}
		return leaderboarddomain.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return leaderboarddomain.Identity{}, ErrInvalidToken
	}

	id, err := leaderboarddomain.ParseIdentity(claims.Subject)
	if err != nil {
		return leaderboarddomain.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return id, nil
}
