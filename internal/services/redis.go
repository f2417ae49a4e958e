package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/turn"
	"github.com/redis/go-redis/v9"
)

// RedisService implements Store using Redis
type RedisService struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Store = (*RedisService)(nil)

// NewRedisService creates a new Redis service. redisURL may be a redis://
// URL or a bare host:port address.
func NewRedisService(redisURL string, logger *slog.Logger) (*RedisService, error) {
	opt := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opt = parsed
	}

	return &RedisService{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

func (r *RedisService) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	r.logger.Debug("Redis ping successful", "result", cmd.Val())
	return nil
}

// ReadSnapshot loads the player's snapshot. A missing key returns
// turn.ErrSnapshotNotFound.
func (r *RedisService) ReadSnapshot(ctx context.Context, playerID string) (*turn.Snapshot, error) {
	if strings.TrimSpace(playerID) == "" {
		return nil, fmt.Errorf("player id is required")
	}

	key := SnapshotKey(playerID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Player snapshot not found", "key", key)
			return nil, turn.ErrSnapshotNotFound
		}
		r.logger.Error("Redis GET failed", "key", key, "error", err)
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot turn.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot for %s: %w", playerID, err)
	}

	r.logger.Debug("Player snapshot loaded", "key", key, "value_length", len(data))
	return &snapshot, nil
}

// Record appends an experiment link to the experiment's link list.
func (r *RedisService) Record(ctx context.Context, link capability.Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to encode link: %w", err)
	}

	key := LinksKey(link.ExperimentID)
	if err := r.client.RPush(ctx, key, data).Err(); err != nil {
		r.logger.Error("Redis RPUSH failed", "key", key, "error", err)
		return fmt.Errorf("redis rpush failed: %w", err)
	}

	r.logger.Info("Experiment link recorded",
		"experiment_id", link.ExperimentID,
		"entity_id", link.EntityID,
		"tool", link.Tool)
	return nil
}

// Links returns the links recorded for an experiment, oldest first.
func (r *RedisService) Links(ctx context.Context, experimentID string) ([]capability.Link, error) {
	values, err := r.client.LRange(ctx, LinksKey(experimentID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange failed: %w", err)
	}

	links := make([]capability.Link, 0, len(values))
	for _, v := range values {
		var link capability.Link
		if err := json.Unmarshal([]byte(v), &link); err != nil {
			return nil, fmt.Errorf("failed to decode link: %w", err)
		}
		links = append(links, link)
	}
	return links, nil
}

func (r *RedisService) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}

	r.logger.Info("Redis connection closed")
	return nil
}

func (r *RedisService) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}
