package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/flightledger/config"
	"github.com/Domenick1991/flightledger/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLock deletes the lock only while it still carries our token, so an
// expired holder cannot drop a lock that another writer took over.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// setOverviewIfCurrent writes the overview only while the generation still
// matches the one read before the ledger was loaded.
var setOverviewIfCurrent = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[2]) or "0")
if current ~= tonumber(ARGV[1]) then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

type RedisCache struct {
	client      *redis.Client
	flightNo    string
	overviewTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightNo string, overviewTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightNo:    flightNo,
		overviewTTL: overviewTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetOverview returns the cached overview, or nil on a miss, and the
// current overview generation.
func (c *RedisCache) GetOverview(ctx context.Context) (*domain.FlightOverview, int64, error) {
	vals, err := c.client.MGet(ctx, overviewKey(c.flightNo), generationKey(c.flightNo)).Result()
	if err != nil {
		return nil, 0, err
	}

	generation, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, err
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, generation, nil
	}

	var overview domain.FlightOverview
	if err := json.Unmarshal([]byte(data), &overview); err != nil {
		return nil, 0, err
	}
	return &overview, generation, nil
}

func (c *RedisCache) SetOverview(ctx context.Context, overview *domain.FlightOverview, generation int64) (bool, error) {
	payload, err := json.Marshal(overview)
	if err != nil {
		return false, err
	}

	keys := []string{overviewKey(c.flightNo), generationKey(c.flightNo)}
	stored, err := setOverviewIfCurrent.Run(ctx, c.client, keys, generation, payload, c.overviewTTL.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// InvalidateOverview bumps the generation and drops the cached overview in
// one transaction, so an overview built from an older ledger is never stored.
func (c *RedisCache) InvalidateOverview(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(c.flightNo))
		pipe.Del(ctx, overviewKey(c.flightNo))
		return nil
	})
	return err
}

// AcquireLedgerLock tries once to take the ledger write lock. The returned
// token must be passed to ReleaseLedgerLock.
func (c *RedisCache) AcquireLedgerLock(ctx context.Context, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, ledgerLockKey(c.flightNo), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (c *RedisCache) ReleaseLedgerLock(ctx context.Context, token string) error {
	return releaseLock.Run(ctx, c.client, []string{ledgerLockKey(c.flightNo)}, token).Err()
}

func overviewKey(flightNo string) string {
	return "cache:flight:" + flightNo + ":overview"
}

func generationKey(flightNo string) string {
	return "cache:flight:" + flightNo + ":generation"
}

func parseGeneration(v interface{}) (int64, error) {
	switch g := v.(type) {
	case nil:
		return 0, nil
	case string:
		n, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse overview generation %q: %w", g, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("unexpected overview generation type %T", v)
	}
}

func ledgerLockKey(flightNo string) string {
	return "lock:flight:" + flightNo + ":ledger"
}
