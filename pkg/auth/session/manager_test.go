package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopdesk-backend/pkg/auth"
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/enums"
)

type mockSlots struct {
	mu   sync.Mutex
	data map[uint]string
	err  error
}

func newMockSlots() *mockSlots {
	return &mockSlots{data: make(map[uint]string)}
}

func (m *mockSlots) SaveRefreshToken(ctx context.Context, id uint, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if token == nil {
		delete(m.data, id)
		return nil
	}
	m.data[id] = *token
	return nil
}

func (m *mockSlots) RefreshToken(ctx context.Context, id uint) (*string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	val, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	return &val, nil
}

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:    "access",
		RefreshSecret:   "refresh",
		Issuer:          "shopdesk",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func TestManagerIssueAndRefresh(t *testing.T) {
	slots := newMockSlots()
	manager, err := NewManager(testConfig(), enums.PrincipalUser, slots)
	require.NoError(t, err)

	pair, err := manager.Issue(context.Background(), 4, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, pair.RefreshToken, slots.data[4])

	access, claims, err := manager.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint(4), claims.PrincipalID)

	parsed, err := auth.ParseAccessToken(testConfig(), access)
	require.NoError(t, err)
	assert.Equal(t, uint(4), parsed.PrincipalID)
	assert.Equal(t, enums.PrincipalUser, parsed.Kind)
}

func TestManagerRefreshRejectsSupersededToken(t *testing.T) {
	slots := newMockSlots()
	manager, err := NewManager(testConfig(), enums.PrincipalUser, slots)
	require.NoError(t, err)

	first, err := manager.Issue(context.Background(), 4, nil)
	require.NoError(t, err)
	manager.now = func() time.Time { return time.Now().Add(time.Second) }
	_, err = manager.Issue(context.Background(), 4, nil)
	require.NoError(t, err)

	_, _, err = manager.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestManagerRefreshRejectsOtherKindAndRevoked(t *testing.T) {
	slots := newMockSlots()
	users, err := NewManager(testConfig(), enums.PrincipalUser, slots)
	require.NoError(t, err)
	customers, err := NewManager(testConfig(), enums.PrincipalCustomer, newMockSlots())
	require.NoError(t, err)

	pair, err := users.Issue(context.Background(), 2, nil)
	require.NoError(t, err)

	_, _, err = customers.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	require.NoError(t, users.Revoke(context.Background(), 2))
	_, _, err = users.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, _, err = users.Refresh(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestManagerPropagatesStoreErrors(t *testing.T) {
	slots := newMockSlots()
	slots.err = errors.New("db down")
	manager, err := NewManager(testConfig(), enums.PrincipalCustomer, slots)
	require.NoError(t, err)

	storeID := uint(1)
	_, err = manager.Issue(context.Background(), 1, &storeID)
	assert.EqualError(t, err, "db down")
}

func TestNewManagerValidates(t *testing.T) {
	_, err := NewManager(testConfig(), enums.PrincipalUser, nil)
	assert.Error(t, err)

	_, err = NewManager(testConfig(), "admin", newMockSlots())
	assert.Error(t, err)

	cfg := testConfig()
	cfg.RefreshTokenTTL = cfg.AccessTokenTTL
	_, err = NewManager(cfg, enums.PrincipalUser, newMockSlots())
	assert.Error(t, err)
}
