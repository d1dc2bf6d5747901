package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/shopdesk-backend/pkg/config"
)

type fakeCommands struct {
	counts  map[string]int64
	ttls    map[string]time.Duration
	incrErr error
	expires []string
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCommands) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCommands) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.incrErr != nil {
		return redis.NewIntResult(0, f.incrErr)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCommands) PExpire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires = append(f.expires, key)
	f.ttls[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCommands) PTTL(_ context.Context, key string) *redis.DurationCmd {
	ttl, ok := f.ttls[key]
	if !ok {
		return redis.NewDurationResult(-1, nil)
	}
	return redis.NewDurationResult(ttl-time.Second, nil)
}

func TestHitStartsWindowOnFirstIncrement(t *testing.T) {
	ctx := context.Background()
	cmds := newFakeCommands()
	client := &Client{cmd: cmds}

	count, resetIn, err := client.Hit(ctx, "login:ip:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, resetIn)
	assert.Equal(t, []string{"sd:rate_limit:login:ip:1.2.3.4"}, cmds.expires)

	count, resetIn, err = client.Hit(ctx, "login:ip:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 59*time.Second, resetIn)
	assert.Len(t, cmds.expires, 1)
}

func TestHitRepairsCounterWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	cmds := newFakeCommands()
	cmds.counts["sd:rate_limit:stuck"] = 4
	client := &Client{cmd: cmds}

	count, resetIn, err := client.Hit(ctx, "stuck", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.Equal(t, time.Minute, resetIn)
	assert.Equal(t, []string{"sd:rate_limit:stuck"}, cmds.expires)
}

func TestHitPropagatesErrors(t *testing.T) {
	cmds := newFakeCommands()
	cmds.incrErr = errors.New("connection refused")

	_, _, err := (&Client{cmd: cmds}).Hit(context.Background(), "k", time.Second)
	assert.ErrorContains(t, err, "connection refused")

	_, _, err = (&Client{}).Hit(context.Background(), "k", time.Second)
	assert.ErrorIs(t, err, errNotInitialized)
	assert.ErrorIs(t, (*Client)(nil).Ping(context.Background()), errNotInitialized)
}

func TestRateLimitKeySkipsEmptyBucket(t *testing.T) {
	assert.Equal(t, "sd:rate_limit:scope", RateLimitKey("scope"))
	assert.Equal(t, "sd:rate_limit", RateLimitKey(" "))
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7})
	require.NoError(t, err)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 1, DialTimeout: 3 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 1, opts.DB)
	assert.Equal(t, 3*time.Second, opts.DialTimeout)
}
