package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/shopdesk-backend/pkg/auth"
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

// ErrInvalidRefreshToken is returned for unknown, expired, or superseded refresh tokens.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

// SlotStore persists the single refresh token slot held on a principal row.
type SlotStore interface {
	SaveRefreshToken(ctx context.Context, id uint, token *string) error
	RefreshToken(ctx context.Context, id uint) (*string, error)
}

// TokenPair is returned after a successful login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Manager issues access/refresh pairs for one principal kind and keeps the
// latest refresh token in its slot. Issuing a new pair supersedes the old one.
type Manager struct {
	cfg   config.JWTConfig
	kind  enums.PrincipalKind
	store SlotStore
	now   func() time.Time
}

// NewManager constructs a session manager for the given principal kind.
func NewManager(cfg config.JWTConfig, kind enums.PrincipalKind, store SlotStore) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("slot store is required")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid principal kind %q", kind)
	}
	if cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", cfg.RefreshTokenTTL, cfg.AccessTokenTTL)
	}
	return &Manager{cfg: cfg, kind: kind, store: store, now: time.Now}, nil
}

// Issue mints a new pair for the principal and stores the refresh token.
func (m *Manager) Issue(ctx context.Context, id uint, storeID *uint) (TokenPair, error) {
	payload := auth.TokenPayload{PrincipalID: id, Kind: m.kind, StoreID: storeID}
	now := m.now()

	access, err := auth.MintAccessToken(m.cfg, now, payload)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.MintRefreshToken(m.cfg, now, payload)
	if err != nil {
		return TokenPair{}, err
	}
	if err := m.store.SaveRefreshToken(ctx, id, &refresh); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh validates the refresh token against the stored slot and returns a
// new access token. The refresh token itself is not rotated.
func (m *Manager) Refresh(ctx context.Context, provided string) (string, *auth.Claims, error) {
	provided = strings.TrimSpace(provided)
	if provided == "" {
		return "", nil, ErrInvalidRefreshToken
	}

	claims, err := auth.ParseRefreshToken(m.cfg, provided)
	if err != nil || claims.Kind != m.kind {
		return "", nil, ErrInvalidRefreshToken
	}

	stored, err := m.store.RefreshToken(ctx, claims.PrincipalID)
	if err != nil {
		return "", nil, err
	}
	if stored == nil || subtle.ConstantTimeCompare([]byte(*stored), []byte(provided)) != 1 {
		return "", nil, ErrInvalidRefreshToken
	}

	access, err := auth.MintAccessToken(m.cfg, m.now(), auth.TokenPayload{
		PrincipalID: claims.PrincipalID,
		Kind:        claims.Kind,
		StoreID:     claims.StoreID,
	})
	if err != nil {
		return "", nil, err
	}
	return access, claims, nil
}

// Revoke clears the refresh slot for the principal.
func (m *Manager) Revoke(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("principal id is required")
	}
	return m.store.SaveRefreshToken(ctx, id, nil)
}
