package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/model"
)

type countingLoader struct {
	calls int
	data  model.Settings
	err   error
}

func (l *countingLoader) List(ctx context.Context) (model.Settings, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	out := model.Settings{}
	for k, v := range l.data {
		out[k] = v
	}
	return out, nil
}

func loader() *countingLoader {
	return &countingLoader{data: model.Settings{model.StayNightly: model.DefaultSetting(model.StayNightly)}}
}

func cfg() config.SettingsCacheConfig {
	return config.SettingsCacheConfig{Enabled: true, TTL: 10 * time.Minute, Key: "test:settings"}
}

func TestSnapshotServesFromMemoryWithinTTL(t *testing.T) {
	l := loader()
	c := NewSettingsCache(l, nil, cfg())
	clock := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	clock = clock.Add(9 * time.Minute)
	_, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, l.calls)

	clock = clock.Add(2 * time.Minute)
	_, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, l.calls)
}

func TestSnapshotReturnsCallerOwnedCopy(t *testing.T) {
	c := NewSettingsCache(loader(), nil, cfg())
	s, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	delete(s, model.StayNightly)

	again, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Contains(t, again, model.StayNightly)
}

func TestInvalidateForcesReload(t *testing.T) {
	l := loader()
	c := NewSettingsCache(l, nil, cfg())
	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(context.Background()))
	l.data[model.StayNightly] = model.AvailabilitySetting{StayType: model.StayNightly, RateTable: model.RateTable{Weekday: 1}}

	s, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), s[model.StayNightly].Weekday)
	require.Equal(t, 2, l.calls)
}

func TestDisabledAlwaysLoads(t *testing.T) {
	l := loader()
	conf := cfg()
	conf.Enabled = false
	c := NewSettingsCache(l, nil, conf)
	for i := 0; i < 3; i++ {
		_, err := c.Snapshot(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, 3, l.calls)
}

func TestLoaderErrorIsReturned(t *testing.T) {
	boom := errors.New("db down")
	c := NewSettingsCache(&countingLoader{err: boom}, nil, cfg())
	_, err := c.Snapshot(context.Background())
	require.ErrorIs(t, err, boom)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestSnapshotBackfillsRedis(t *testing.T) {
	mr, rdb := newRedis(t)
	l := loader()
	c := NewSettingsCache(l, rdb, cfg())

	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, l.calls)
	require.True(t, mr.Exists("test:settings"))
	require.Equal(t, 10*time.Minute, mr.TTL("test:settings"))

	raw, err := mr.Get("test:settings")
	require.NoError(t, err)
	require.Contains(t, raw, `"nightly"`)
}

func TestSnapshotServesRedisWithoutLoader(t *testing.T) {
	_, rdb := newRedis(t)
	warm := NewSettingsCache(loader(), rdb, cfg())
	_, err := warm.Snapshot(context.Background())
	require.NoError(t, err)

	l := loader()
	c := NewSettingsCache(l, rdb, cfg())
	s, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Zero(t, l.calls)
	require.Equal(t, model.DefaultSetting(model.StayNightly), s[model.StayNightly])
}

func TestSnapshotIgnoresCorruptRedisValue(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("test:settings", "not json"))

	l := loader()
	c := NewSettingsCache(l, rdb, cfg())
	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, l.calls)
}

func TestInvalidateRemovesRedisKey(t *testing.T) {
	mr, rdb := newRedis(t)
	l := loader()
	c := NewSettingsCache(l, rdb, cfg())
	_, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.True(t, mr.Exists("test:settings"))

	require.NoError(t, c.Invalidate(context.Background()))
	require.False(t, mr.Exists("test:settings"))

	_, err = c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, l.calls)
}

func TestUnreachableRedisFallsBackToLoader(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { rdb.Close() })

	l := loader()
	c := NewSettingsCache(l, rdb, cfg())
	s, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	require.Contains(t, s, model.StayNightly)
	require.Equal(t, 1, l.calls)
}
