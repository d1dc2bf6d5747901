package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		Issuer:          "shopdesk",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, TokenPayload{PrincipalID: 7, Kind: enums.PrincipalUser})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.PrincipalID)
	assert.Equal(t, enums.PrincipalUser, claims.Kind)
	assert.Nil(t, claims.StoreID)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
	assert.WithinDuration(t, now.Add(cfg.AccessTokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestRefreshTokenCarriesStoreScope(t *testing.T) {
	cfg := testJWTConfig()
	storeID := uint(3)

	token, err := MintRefreshToken(cfg, time.Now(), TokenPayload{PrincipalID: 9, Kind: enums.PrincipalCustomer, StoreID: &storeID})
	require.NoError(t, err)

	claims, err := ParseRefreshToken(cfg, token)
	require.NoError(t, err)
	require.NotNil(t, claims.StoreID)
	assert.Equal(t, storeID, *claims.StoreID)
	assert.Equal(t, enums.PrincipalCustomer, claims.Kind)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()

	access, err := MintAccessToken(cfg, now, TokenPayload{PrincipalID: 1, Kind: enums.PrincipalUser})
	require.NoError(t, err)
	refresh, err := MintRefreshToken(cfg, now, TokenPayload{PrincipalID: 1, Kind: enums.PrincipalUser})
	require.NoError(t, err)

	_, err = ParseRefreshToken(cfg, access)
	assert.Error(t, err)
	_, err = ParseAccessToken(cfg, refresh)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpiredAndTampered(t *testing.T) {
	cfg := testJWTConfig()

	expired, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), TokenPayload{PrincipalID: 1, Kind: enums.PrincipalUser})
	require.NoError(t, err)
	_, err = ParseAccessToken(cfg, expired)
	assert.Error(t, err)

	valid, err := MintAccessToken(cfg, time.Now(), TokenPayload{PrincipalID: 1, Kind: enums.PrincipalUser})
	require.NoError(t, err)
	other := cfg
	other.AccessSecret = "different"
	_, err = ParseAccessToken(other, valid)
	assert.Error(t, err)
}

func TestMintValidatesPayload(t *testing.T) {
	cfg := testJWTConfig()
	_, err := MintAccessToken(cfg, time.Now(), TokenPayload{Kind: enums.PrincipalUser})
	assert.Error(t, err)
	_, err = MintAccessToken(cfg, time.Now(), TokenPayload{PrincipalID: 1, Kind: "admin"})
	assert.Error(t, err)
	cfg.AccessSecret = ""
	_, err = MintAccessToken(cfg, time.Now(), TokenPayload{PrincipalID: 1, Kind: enums.PrincipalUser})
	assert.Error(t, err)
}
