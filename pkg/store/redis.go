package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// DialTimeout bounds the initial ping. Defaults to 5s.
	DialTimeout time.Duration
}

// RedisStore keeps keys as plain redis strings without expiry.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis store: empty address")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	return newRedisStore(ctx, client)
}

func newRedisStore(ctx context.Context, client *redis.Client) (*RedisStore, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := remoteBackoff.do(pingCtx, func() error {
		return redisErr(client.Ping(pingCtx).Err())
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: redis ping: %v", ErrNetwork, err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := remoteBackoff.do(ctx, func() error {
		v, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			return redisErr(err)
		}
		data = v
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, data []byte) error {
	err := remoteBackoff.do(ctx, func() error {
		return redisErr(s.client.Set(ctx, key, data, 0).Err())
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	err := remoteBackoff.do(ctx, func() error {
		return redisErr(s.client.Del(ctx, key).Err())
	})
	if err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// redisErr marks connection-level failures as retryable.
func redisErr(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return transient(err)
	}
	return err
}

var _ Store = (*RedisStore)(nil)
