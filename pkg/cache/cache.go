// Package cache keeps rendered reports in Redis until the next ingest.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"energy-report-service/pkg/common"
	"energy-report-service/pkg/metrics"
	"energy-report-service/pkg/timewindow"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second

	keyPrefix     = "energy:report"
	generationKey = keyPrefix + ":generation"
)

// Ticket is the generation a Get saw. Putting under it instead of the current
// generation keeps a body rendered before an Invalidate out of later lookups.
type Ticket struct {
	generation int64
	valid      bool
}

// ReportCache stores rendered report bodies by format and day. Failures are
// logged and behave as misses; the cache never fails a request.
type ReportCache interface {
	Get(ctx context.Context, format string, window timewindow.DayWindow) ([]byte, Ticket, bool)
	// Put stores body under the generation of ticket. An invalid ticket is
	// a no-op.
	Put(ctx context.Context, ticket Ticket, format string, window timewindow.DayWindow, body []byte)
	// Invalidate drops every cached report by moving to a new generation.
	Invalidate(ctx context.Context)
}

// NewRedisClient returns a configured go-redis client and validates the
// connection with PING.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis: addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

// redisClient is the part of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

var (
	_ ReportCache = (*RedisReportCache)(nil)
	_ ReportCache = NopCache{}
)

type RedisReportCache struct {
	client redisClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisReportCache(client redisClient, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{
		client: client,
		ttl:    ttl,
		logger: common.GetLoggerWith(common.LoggerNameReportCache),
	}
}

func (c *RedisReportCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func reportKey(gen int64, format string, window timewindow.DayWindow) string {
	return fmt.Sprintf("%s:%d:%s:%s", keyPrefix, gen, format, window.StartAbsolute.UTC().Format(time.RFC3339))
}

func (c *RedisReportCache) Get(ctx context.Context, format string, window timewindow.DayWindow) ([]byte, Ticket, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("Failed to read report generation", zap.Error(err))
		metrics.IncReportCache(false)
		return nil, Ticket{}, false
	}
	ticket := Ticket{generation: gen, valid: true}

	body, err := c.client.Get(ctx, reportKey(gen, format, window)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read cached report", zap.String("format", format), zap.Error(err))
		}
		metrics.IncReportCache(false)
		return nil, ticket, false
	}

	metrics.IncReportCache(true)
	return body, ticket, true
}

func (c *RedisReportCache) Put(ctx context.Context, ticket Ticket, format string, window timewindow.DayWindow, body []byte) {
	if !ticket.valid {
		return
	}

	if err := c.client.Set(ctx, reportKey(ticket.generation, format, window), body, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache report", zap.String("format", format), zap.Error(err))
	}
}

func (c *RedisReportCache) Invalidate(ctx context.Context) {
	gen, err := c.client.Incr(ctx, generationKey).Result()
	if err != nil {
		c.logger.Warn("Failed to bump report generation", zap.Error(err))
		return
	}
	c.logger.Debug("Bumped report generation", zap.Int64("generation", gen))
}

// NopCache never hits. It is used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, timewindow.DayWindow) ([]byte, Ticket, bool) {
	return nil, Ticket{}, false
}

func (NopCache) Put(context.Context, Ticket, string, timewindow.DayWindow, []byte) {}

func (NopCache) Invalidate(context.Context) {}
