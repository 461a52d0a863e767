// Package cache keeps the latest per-pair analysis snapshots in Redis so
// API consumers can read them without re-running the robots.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"forex-signal-engine/internal/robot"
)

// ErrMiss is returned when no snapshot exists for the requested key.
var ErrMiss = errors.New("cache: miss")

// DefaultTTL bounds how stale a cached analysis may get.
const DefaultTTL = 5 * time.Minute

// Config holds Redis connection settings.
type Config struct {
	Address  string
	Password string
	DB       int
	PoolSize int
	TTL      time.Duration
}

// store abstracts the Redis commands the cache uses. Tests swap in an
// in-memory implementation.
type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

type redisStore struct {
	client *redis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// AnalysisCache stores one Analysis snapshot per robot and pair.
type AnalysisCache struct {
	store store
	ttl   time.Duration
	log   zerolog.Logger
}

// NewAnalysisCache connects to Redis. A failed initial ping logs a
// warning and returns the cache anyway; operations will error until
// Redis recovers and callers fall back to recomputing.
func NewAnalysisCache(cfg Config, log zerolog.Logger) *AnalysisCache {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	log = log.With().Str("component", "cache").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("address", cfg.Address).Msg("initial Redis connection failed")
	} else {
		log.Info().Str("address", cfg.Address).Msg("Redis connected")
	}

	return &AnalysisCache{
		store: &redisStore{client: client},
		ttl:   ttl,
		log:   log,
	}
}

func analysisKey(robotName, pair string) string {
	return fmt.Sprintf("analysis:%s:%s", robotName, pair)
}

// PutAnalysis stores the snapshot under the robot+pair key with the
// configured TTL.
func (c *AnalysisCache) PutAnalysis(ctx context.Context, robotName string, analysis *robot.Analysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis for %s: %w", analysis.Pair, err)
	}
	if err := c.store.Set(ctx, analysisKey(robotName, analysis.Pair), string(data), c.ttl); err != nil {
		return fmt.Errorf("cache analysis for %s: %w", analysis.Pair, err)
	}
	return nil
}

// GetAnalysis returns the cached snapshot, or ErrMiss when absent or
// expired.
func (c *AnalysisCache) GetAnalysis(ctx context.Context, robotName, pair string) (*robot.Analysis, error) {
	val, err := c.store.Get(ctx, analysisKey(robotName, pair))
	if err != nil {
		return nil, err
	}
	var analysis robot.Analysis
	if err := json.Unmarshal([]byte(val), &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal cached analysis for %s: %w", pair, err)
	}
	return &analysis, nil
}

// InvalidateAnalysis drops the snapshot for a robot+pair.
func (c *AnalysisCache) InvalidateAnalysis(ctx context.Context, robotName, pair string) error {
	return c.store.Del(ctx, analysisKey(robotName, pair))
}

// Healthy reports whether Redis currently answers pings.
func (c *AnalysisCache) Healthy(ctx context.Context) bool {
	return c.store.Ping(ctx) == nil
}
