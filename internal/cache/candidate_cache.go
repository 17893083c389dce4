package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/medingen/catalog_api/internal/models"
)

// CandidateCache keeps recent find-matches responses keyed by the normalized
// search phrase. Keys embed a catalog epoch counter; every catalog write bumps
// the epoch so cached candidate lists from before the write can never be
// served again. Entries self-expire via TTL.
type CandidateCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCandidateCache creates a CandidateCache with the given entry TTL.
func NewCandidateCache(redis *RedisClient, ttl time.Duration) *CandidateCache {
	return &CandidateCache{redis: redis, ttl: ttl}
}

const epochKey = "catalog:epoch"

func (c *CandidateCache) key(epoch int64, term string) string {
	return fmt.Sprintf("match:candidates:%d:%s", epoch, term)
}

func (c *CandidateCache) currentEpoch(ctx context.Context) int64 {
	raw, err := c.redis.Get(ctx, epochKey)
	if err != nil {
		// Missing key means no write has happened yet; epoch zero.
		return 0
	}
	var epoch int64
	if _, err := fmt.Sscanf(raw, "%d", &epoch); err != nil {
		return 0
	}
	return epoch
}

// Get returns the cached candidate list for a term, or nil on miss.
// Cache failures degrade to a miss; the caller recomputes from the store.
func (c *CandidateCache) Get(ctx context.Context, term string) []models.MatchCandidate {
	raw, err := c.redis.Get(ctx, c.key(c.currentEpoch(ctx), term))
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("candidate cache read failed")
		}
		return nil
	}

	var candidates []models.MatchCandidate
	if err := json.Unmarshal([]byte(raw), &candidates); err != nil {
		log.Warn().Err(err).Msg("candidate cache entry corrupt")
		return nil
	}
	return candidates
}

// Set stores a candidate list under the current epoch.
func (c *CandidateCache) Set(ctx context.Context, term string, candidates []models.MatchCandidate) {
	raw, err := json.Marshal(candidates)
	if err != nil {
		log.Warn().Err(err).Msg("candidate cache marshal failed")
		return
	}
	if err := c.redis.Set(ctx, c.key(c.currentEpoch(ctx), term), string(raw), c.ttl); err != nil {
		log.Warn().Err(err).Msg("candidate cache write failed")
	}
}

// Invalidate bumps the catalog epoch, orphaning every cached candidate list.
// Called after any write that can change match results.
func (c *CandidateCache) Invalidate(ctx context.Context) {
	if _, err := c.redis.Incr(ctx, epochKey); err != nil {
		log.Warn().Err(err).Msg("candidate cache invalidation failed")
	}
}
