package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/timewindow"
)

// fakeRedis keeps values in a map; ttl is recorded but not enforced.
type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	n, _ := strconv.ParseInt(f.values[key], 10, 64)
	n++
	f.values[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func TestRedisReportCache_PutGet(t *testing.T) {
	common.SetTestLoggerNop()

	fake := newFakeRedis()
	c := NewRedisReportCache(fake, time.Minute)
	ctx := context.Background()
	window := timewindow.ForDate(2024, time.March, 16, time.UTC)

	_, ticket, ok := c.Get(ctx, "csv", window)
	assert.False(t, ok)

	c.Put(ctx, ticket, "csv", window, []byte("a,b\n"))
	body, _, ok := c.Get(ctx, "csv", window)
	require.True(t, ok)
	assert.Equal(t, "a,b\n", string(body))
	assert.Equal(t, time.Minute, fake.ttls["energy:report:0:csv:2024-03-16T00:00:00Z"])

	_, _, ok = c.Get(ctx, "html", window)
	assert.False(t, ok, "formats are cached separately")

	_, _, ok = c.Get(ctx, "csv", timewindow.ForDate(2024, time.March, 17, time.UTC))
	assert.False(t, ok, "days are cached separately")
}

func TestRedisReportCache_Invalidate(t *testing.T) {
	common.SetTestLoggerNop()

	c := NewRedisReportCache(newFakeRedis(), time.Minute)
	ctx := context.Background()
	window := timewindow.ForDate(2024, time.March, 16, time.UTC)

	_, ticket, _ := c.Get(ctx, "json", window)
	c.Put(ctx, ticket, "json", window, []byte("{}"))
	c.Invalidate(ctx)

	_, ticket, ok := c.Get(ctx, "json", window)
	assert.False(t, ok)

	c.Put(ctx, ticket, "json", window, []byte(`{"v":2}`))
	body, _, ok := c.Get(ctx, "json", window)
	require.True(t, ok)
	assert.Equal(t, `{"v":2}`, string(body))
}

func TestRedisReportCache_InvalidateBetweenGetAndPut(t *testing.T) {
	common.SetTestLoggerNop()

	c := NewRedisReportCache(newFakeRedis(), time.Minute)
	ctx := context.Background()
	window := timewindow.ForDate(2024, time.March, 16, time.UTC)

	// a report misses and is rendered from rows read before the ingest below
	_, ticket, ok := c.Get(ctx, "csv", window)
	require.False(t, ok)

	c.Invalidate(ctx)
	c.Put(ctx, ticket, "csv", window, []byte("stale"))

	_, _, ok = c.Get(ctx, "csv", window)
	assert.False(t, ok, "a body rendered before the ingest must not be served after it")
}

func TestRedisReportCache_ErrorsAreMisses(t *testing.T) {
	common.SetTestLoggerNop()

	fake := newFakeRedis()
	fake.err = errors.New("connection refused")
	c := NewRedisReportCache(fake, time.Minute)
	ctx := context.Background()
	window := timewindow.ForDate(2024, time.March, 16, time.UTC)

	_, ticket, ok := c.Get(ctx, "csv", window)
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		c.Put(ctx, ticket, "csv", window, []byte("x"))
		c.Invalidate(ctx)
	})
	assert.Empty(t, fake.values, "nothing is written with an invalid ticket")
}

func TestNopCache(t *testing.T) {
	var c ReportCache = NopCache{}
	ctx := context.Background()
	window := timewindow.ForDate(2024, time.March, 16, time.UTC)

	_, ticket, ok := c.Get(ctx, "csv", window)
	assert.False(t, ok)
	c.Put(ctx, ticket, "csv", window, []byte("x"))
	c.Invalidate(ctx)
	_, _, ok = c.Get(ctx, "csv", window)
	assert.False(t, ok)
}

func TestNewRedisClient_EmptyAddr(t *testing.T) {
	_, err := NewRedisClient("  ", "")
	assert.Error(t, err)
}
