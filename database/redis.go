package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"matchai-service/config"

	"github.com/redis/go-redis/v9"
)

func RedisConnect() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf(
			"%s:%s",
			config.Config("REDIS_HOST"),
			config.Config("REDIS_PORT"),
		),
		Password: config.Config("REDIS_PASSWORD"),
		DB:       config.Int("REDIS_DB", 0),
	})

	slog.Info("connection opened to Redis")
	return client
}

// TokenStore keeps the single live refresh token of each user.
type TokenStore interface {
	SaveRefresh(ctx context.Context, userID, token string, ttl time.Duration) error
	// Refresh returns "" when no token is stored.
	Refresh(ctx context.Context, userID string) (string, error)
	RevokeRefresh(ctx context.Context, userID string) error
}

type RedisTokenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: "refresh:"}
}

func (s *RedisTokenStore) SaveRefresh(ctx context.Context, userID, token string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+userID, token, ttl).Err()
}

func (s *RedisTokenStore) Refresh(ctx context.Context, userID string) (string, error) {
	token, err := s.client.Get(ctx, s.prefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (s *RedisTokenStore) RevokeRefresh(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.prefix+userID).Err()
}
