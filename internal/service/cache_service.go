package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

// CacheService wraps the optional Redis summary cache. A nil service or a
// disabled one is safe to call and behaves as a permanent miss.
type CacheService struct {
	client     *redis.Client
	defaultTTL time.Duration
	logger     *zap.Logger
	metrics    *MetricsService
	enabled    bool
}

// NewCacheService constructs a cache service. metrics may be nil.
func NewCacheService(client *redis.Client, defaultTTL time.Duration, logger *zap.Logger, metrics *MetricsService, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{client: client, defaultTTL: defaultTTL, logger: logger, metrics: metrics, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.client != nil
}

// Get attempts to retrieve a cached entry, returning true on a hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		s.metrics.RecordCacheOperation(false)
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.metrics.RecordCacheOperation(false)
		return false, err
	}
	s.metrics.RecordCacheOperation(true)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, ttl).Err()
}

// Invalidate removes the cached value for the provided key.
func (s *CacheService) Invalidate(ctx context.Context, key string) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Del(ctx, key).Err()
}
