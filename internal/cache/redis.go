package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/matheuskafuri/newsvoice/internal/analysis"
)

const digestKeyPrefix = "newsvoice:digest:"

// DigestCache is a short-lived cache of finished digests, keyed by company.
type DigestCache interface {
	Get(ctx context.Context, company string) (*analysis.Digest, bool, error)
	Set(ctx context.Context, d *analysis.Digest) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr and checks the connection.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func digestKey(company string) string {
	return digestKeyPrefix + companyKey(company)
}

func (r *RedisCache) Get(ctx context.Context, company string) (*analysis.Digest, bool, error) {
	data, err := r.client.Get(ctx, digestKey(company)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var d analysis.Digest
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, false, fmt.Errorf("decoding cached digest: %w", err)
	}
	return &d, true, nil
}

func (r *RedisCache) Set(ctx context.Context, d *analysis.Digest) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding digest: %w", err)
	}
	if err := r.client.Set(ctx, digestKey(d.Company), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

// NopCache never stores anything. Used when redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*analysis.Digest, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, *analysis.Digest) error                { return nil }
func (NopCache) Close() error                                               { return nil }
