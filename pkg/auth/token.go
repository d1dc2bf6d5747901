package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintAccessToken issues a short-lived JWT signed with the access secret.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mint(cfg.AccessSecret, cfg.Issuer, cfg.AccessTokenTTL, tokenUseAccess, now, payload)
}

// MintRefreshToken issues a long-lived JWT signed with the refresh secret.
func MintRefreshToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mint(cfg.RefreshSecret, cfg.Issuer, cfg.RefreshTokenTTL, tokenUseRefresh, now, payload)
}

// ParseAccessToken validates an access JWT and returns typed claims.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	return parse(cfg.AccessSecret, cfg.Issuer, tokenUseAccess, tokenString)
}

// ParseRefreshToken validates a refresh JWT and returns typed claims.
func ParseRefreshToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	return parse(cfg.RefreshSecret, cfg.Issuer, tokenUseRefresh, tokenString)
}

func mint(secret, issuer string, ttl time.Duration, use string, now time.Time, payload TokenPayload) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("jwt ttl must be positive")
	}
	if payload.PrincipalID == 0 {
		return "", fmt.Errorf("principal id is required")
	}
	if !payload.Kind.IsValid() {
		return "", fmt.Errorf("invalid principal kind %q", payload.Kind)
	}

	claims := Claims{
		PrincipalID: payload.PrincipalID,
		Kind:        payload.Kind,
		StoreID:     payload.StoreID,
		Use:         use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

func parse(secret, issuer, use, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwtSigningMethod.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}
	if claims.Use != use {
		return nil, fmt.Errorf("token is not a %s token", use)
	}
	if claims.PrincipalID == 0 || !claims.Kind.IsValid() {
		return nil, fmt.Errorf("token is missing principal claims")
	}
	return claims, nil
}
