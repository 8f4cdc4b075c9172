package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CacheService is the redis-backed second-level cache for display payloads:
// reconstructed game lists, matched trends, and the daily schedule. Keys for
// catalogue-derived payloads embed the catalogue snapshot id, so a reload
// orphans stale entries and TTL reaps them.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client: client,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("key not found")
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

// Cache key generators
func TrendGamesCacheKey(snapshot, trendID string, count int) string {
	return fmt.Sprintf("trend:games:%s:%s:%d", snapshot, trendID, count)
}

func TrendStatsCacheKey(snapshot, trendID string, window string) string {
	return fmt.Sprintf("trend:stats:%s:%s:%s", snapshot, trendID, window)
}

func ScheduleCacheKey(date string, sport string) string {
	return fmt.Sprintf("schedule:%s:%s", date, sport)
}

func MatchedTrendsCacheKey(snapshot, gameID string) string {
	return fmt.Sprintf("game:trends:%s:%s", snapshot, gameID)
}

// Cache with retry logic
func (s *CacheService) SetWithRetry(ctx context.Context, key string, value interface{}, expiration time.Duration, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = s.Set(ctx, key, value, expiration); err == nil {
			return nil
		}
		logrus.Warnf("Cache set failed (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(time.Millisecond * 100 * time.Duration(i+1))
	}
	return err
}
