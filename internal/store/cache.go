package store

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps the short-lived state that used to live in ambient globals:
// the last raw reply per chat session (so history re-renders without a
// round-trip) and the payment handoff written across the payment redirect.
type Cache interface {
	SetReply(ctx context.Context, sessionID string, raw []byte)
	GetReply(ctx context.Context, sessionID string) ([]byte, bool)
	SetPayment(ctx context.Context, orderID, status string)
	GetPayment(ctx context.Context, orderID string) (string, bool)
	SetCurrentOrder(ctx context.Context, sessionKey, orderID string)
	GetCurrentOrder(ctx context.Context, sessionKey string) (string, bool)
	Close() error
}

const (
	replyTTL   = 10 * time.Minute
	paymentTTL = 15 * time.Minute
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) SetReply(ctx context.Context, sessionID string, raw []byte) {
	c.client.Set(ctx, "reply:"+sessionID, raw, replyTTL)
}

func (c *RedisCache) GetReply(ctx context.Context, sessionID string) ([]byte, bool) {
	data, err := c.client.Get(ctx, "reply:"+sessionID).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *RedisCache) SetPayment(ctx context.Context, orderID, status string) {
	c.client.Set(ctx, "payment:"+orderID, status, paymentTTL)
}

func (c *RedisCache) GetPayment(ctx context.Context, orderID string) (string, bool) {
	s, err := c.client.Get(ctx, "payment:"+orderID).Result()
	if err != nil {
		return "", false
	}
	return s, true
}

func (c *RedisCache) SetCurrentOrder(ctx context.Context, sessionKey, orderID string) {
	c.client.Set(ctx, "order:"+sessionKey, orderID, paymentTTL)
}

func (c *RedisCache) GetCurrentOrder(ctx context.Context, sessionKey string) (string, bool) {
	s, err := c.client.Get(ctx, "order:"+sessionKey).Result()
	if err != nil {
		return "", false
	}
	return s, true
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// MemoryCache backs deployments without Redis. Single-process only, which
// matches how the development setup runs.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   []byte
	expires time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]memoryEntry{}}
}

func (c *MemoryCache) set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expires: time.Now().Add(ttl)}
}

func (c *MemoryCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) SetReply(_ context.Context, sessionID string, raw []byte) {
	c.set("reply:"+sessionID, raw, replyTTL)
}

func (c *MemoryCache) GetReply(_ context.Context, sessionID string) ([]byte, bool) {
	return c.get("reply:" + sessionID)
}

func (c *MemoryCache) SetPayment(_ context.Context, orderID, status string) {
	c.set("payment:"+orderID, []byte(status), paymentTTL)
}

func (c *MemoryCache) GetPayment(_ context.Context, orderID string) (string, bool) {
	v, ok := c.get("payment:" + orderID)
	return string(v), ok
}

func (c *MemoryCache) SetCurrentOrder(_ context.Context, sessionKey, orderID string) {
	c.set("order:"+sessionKey, []byte(orderID), paymentTTL)
}

func (c *MemoryCache) GetCurrentOrder(_ context.Context, sessionKey string) (string, bool) {
	v, ok := c.get("order:" + sessionKey)
	return string(v), ok
}

func (c *MemoryCache) Close() error { return nil }
