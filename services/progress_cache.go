package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"main/model"

	"github.com/redis/go-redis/v9"
)

// ProgressCache keeps recently read progress records in Redis so
// dashboard endpoints don't hit Mongo on every poll. Entries are
// invalidated on every applied interaction, so a hit is never stale.
type ProgressCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// GlobalProgressCache is nil when Redis is not configured; callers
// must tolerate that.
var GlobalProgressCache *ProgressCache

// NewProgressCache creates and connects a Redis-backed progress cache
func NewProgressCache(redisURL string, ttl time.Duration) (*ProgressCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &ProgressCache{Client: client, TTL: ttl}, nil
}

func progressKey(userID string) string {
	return fmt.Sprintf("progress:%s", userID)
}

// GetSnapshot returns the cached record, or (nil, nil) on a miss.
func (pc *ProgressCache) GetSnapshot(ctx context.Context, userID string) (*model.ProgressRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID cannot be empty")
	}

	data, err := pc.Client.Get(ctx, progressKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress from cache: %v", err)
	}

	var record model.ProgressRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached progress: %v", err)
	}

	return &record, nil
}

// SetSnapshot caches a record under its user id.
func (pc *ProgressCache) SetSnapshot(ctx context.Context, record *model.ProgressRecord) error {
	if record == nil {
		return fmt.Errorf("cannot cache nil progress record")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal progress record: %v", err)
	}

	if err := pc.Client.Set(ctx, progressKey(record.UserID), data, pc.TTL).Err(); err != nil {
		return fmt.Errorf("failed to cache progress record: %v", err)
	}

	return nil
}

// Invalidate drops the cached record after a write.
func (pc *ProgressCache) Invalidate(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}
	return pc.Client.Del(ctx, progressKey(userID)).Err()
}
