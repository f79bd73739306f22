package offers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// AnalysisCache is a Redis read-through cache for profile analyses.
// Generate invalidates the profile's entry before recomputing.
type AnalysisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAnalysisCache creates an AnalysisCache with the given entry TTL.
func NewAnalysisCache(rdb *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, eris.Wrap(err, "cache: parse redis url")
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, eris.Wrap(err, "cache: ping redis")
	}
	return rdb, nil
}

func analysisKey(profileID string) string {
	return "offers:analysis:" + profileID
}

// Get returns the cached analysis for a profile, or nil on a miss.
func (c *AnalysisCache) Get(ctx context.Context, profileID string) (*ProfileAnalysis, error) {
	raw, err := c.rdb.Get(ctx, analysisKey(profileID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "cache: get analysis")
	}
	var dto ProfileAnalysis
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, eris.Wrap(err, "cache: unmarshal analysis")
	}
	return &dto, nil
}

// Set stores the analysis for a profile.
func (c *AnalysisCache) Set(ctx context.Context, profileID string, dto *ProfileAnalysis) error {
	raw, err := json.Marshal(dto)
	if err != nil {
		return eris.Wrap(err, "cache: marshal analysis")
	}
	if err := c.rdb.Set(ctx, analysisKey(profileID), raw, c.ttl).Err(); err != nil {
		return eris.Wrap(err, "cache: set analysis")
	}
	return nil
}

// Invalidate drops the cached analysis for a profile.
func (c *AnalysisCache) Invalidate(ctx context.Context, profileID string) error {
	if err := c.rdb.Del(ctx, analysisKey(profileID)).Err(); err != nil {
		return eris.Wrap(err, "cache: invalidate analysis")
	}
	return nil
}
