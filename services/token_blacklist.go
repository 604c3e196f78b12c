package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist remembers revoked tokens until they would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Ping(ctx context.Context) error
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*MemoryTokenBlacklist)(nil)
)

func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "blacklist:" + hex.EncodeToString(sum[:])
}

type RedisTokenBlacklist struct {
	Client *redis.Client
}

// NewTokenBlacklist creates a new Redis-backed token blacklist
func NewTokenBlacklist(ctx context.Context, redisURL string) (*RedisTokenBlacklist, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisTokenBlacklist{Client: client}, nil
}

func (tb *RedisTokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := tb.Client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (tb *RedisTokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := tb.Client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

func (tb *RedisTokenBlacklist) Ping(ctx context.Context) error {
	return tb.Client.Ping(ctx).Err()
}

// MemoryTokenBlacklist is used when no Redis URL is configured. Revocations
// are lost on restart.
type MemoryTokenBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (tb *MemoryTokenBlacklist) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	if !expiresAt.After(now) {
		return nil
	}

	for key, exp := range tb.entries {
		if !exp.After(now) {
			delete(tb.entries, key)
		}
	}
	tb.entries[blacklistKey(token)] = expiresAt
	return nil
}

func (tb *MemoryTokenBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	exp, ok := tb.entries[blacklistKey(token)]
	if !ok {
		return false, nil
	}
	if !exp.After(tb.now()) {
		delete(tb.entries, blacklistKey(token))
		return false, nil
	}
	return true, nil
}

func (tb *MemoryTokenBlacklist) Ping(context.Context) error {
	return nil
}
