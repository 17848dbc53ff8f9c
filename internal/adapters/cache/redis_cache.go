package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/SscSPs/fuel_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/fuel_ledger/internal/core/ports/services"
)

const keyPrefix = "fuel_ledger"

// Client is the part of the go-redis API the station cache uses.
// *redis.Client satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

var _ Client = (*redis.Client)(nil)

// RedisStationCache stores stock snapshots under per-station keys and
// publishes rollback events on a pub/sub channel.
type RedisStationCache struct {
	client  Client
	ttl     time.Duration
	channel string
}

var (
	_ portssvc.StockCache       = (*RedisStationCache)(nil)
	_ portssvc.RollbackNotifier = (*RedisStationCache)(nil)
)

func NewRedisClient(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisStationCache(client Client, ttl time.Duration, channel string) *RedisStationCache {
	return &RedisStationCache{client: client, ttl: ttl, channel: channel}
}

func (c *RedisStationCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStationCache) Close() error {
	return c.client.Close()
}

func stationPattern(stationID string) string {
	return fmt.Sprintf("%s:station:%s:*", keyPrefix, stationID)
}

func stockKey(stationID, tankID string) string {
	return fmt.Sprintf("%s:station:%s:stock:%s", keyPrefix, stationID, tankID)
}

func (c *RedisStationCache) GetStock(ctx context.Context, stationID, tankID string) (*domain.StockSnapshot, bool, error) {
	val, err := c.client.Get(ctx, stockKey(stationID, tankID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var snap domain.StockSnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, false, err
	}
	return &snap, true, nil
}

func (c *RedisStationCache) SetStock(ctx context.Context, stationID string, snap *domain.StockSnapshot) error {
	if snap == nil {
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, stockKey(stationID, snap.TankID), payload, c.ttl).Err()
}

func (c *RedisStationCache) InvalidateStation(ctx context.Context, stationID string) error {
	iter := c.client.Scan(ctx, 0, stationPattern(stationID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan station keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// RollbackCompleted drops the station's cached views and publishes the event.
func (c *RedisStationCache) RollbackCompleted(ctx context.Context, event domain.RollbackEvent) error {
	if err := c.InvalidateStation(ctx, event.StationID); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, c.channel, payload).Err()
}
