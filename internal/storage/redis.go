package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(ctx context.Context, redisURL, prefix string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (s *Redis) key(name string) string {
	return fmt.Sprintf("%s:%s", s.prefix, name)
}

func (s *Redis) get(ctx context.Context, name string) (string, error) {
	value, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", name, err)
	}
	return value, nil
}

func (s *Redis) set(ctx context.Context, name, value string) error {
	if err := s.client.Set(ctx, s.key(name), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	return nil
}

func (s *Redis) AccessKey(ctx context.Context) (string, error) {
	return s.get(ctx, AccessKeyName)
}

func (s *Redis) SetAccessKey(ctx context.Context, key string) error {
	return s.set(ctx, AccessKeyName, key)
}

func (s *Redis) Enabled(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, EnabledName)
	return value == "yes", err
}

func (s *Redis) SetEnabled(ctx context.Context, enabled bool) error {
	return s.set(ctx, EnabledName, formatEnabled(enabled))
}

func (s *Redis) KeyValid(ctx context.Context) (bool, error) {
	value, err := s.get(ctx, KeyValidName)
	return value == "1", err
}

func (s *Redis) SetKeyValid(ctx context.Context, valid bool) error {
	return s.set(ctx, KeyValidName, formatBool(valid))
}

func (s *Redis) Close() error {
	return s.client.Close()
}
