package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"gate-tutor-backend/internal/logger"
	"gate-tutor-backend/internal/models"
)

const (
	studyPlanGenerationKey = "study_plans:gen"
	studyPlanListKeyPrefix = "study_plans:all:"
)

// ListCache holds serialized copies of the full plan list, keyed by a
// generation counter. Bumping the generation retires every list cached
// under an older one.
type ListCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64) ([]*models.StudyPlan, bool, error)
	Set(ctx context.Context, gen int64, plans []*models.StudyPlan) error
	Bump(ctx context.Context) error
}

type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListCache(client *redis.Client, ttl time.Duration) *RedisListCache {
	return &RedisListCache{client: client, ttl: ttl}
}

func studyPlanListKey(gen int64) string {
	return studyPlanListKeyPrefix + strconv.FormatInt(gen, 10)
}

func (c *RedisListCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, studyPlanGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

func (c *RedisListCache) Get(ctx context.Context, gen int64) ([]*models.StudyPlan, bool, error) {
	raw, err := c.client.Get(ctx, studyPlanListKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var plans []*models.StudyPlan
	if err := json.Unmarshal(raw, &plans); err != nil {
		return nil, false, fmt.Errorf("decode cached plans: %w", err)
	}
	return plans, true, nil
}

func (c *RedisListCache) Set(ctx context.Context, gen int64, plans []*models.StudyPlan) error {
	data, err := json.Marshal(plans)
	if err != nil {
		return fmt.Errorf("encode plans: %w", err)
	}
	return c.client.Set(ctx, studyPlanListKey(gen), data, c.ttl).Err()
}

func (c *RedisListCache) Bump(ctx context.Context) error {
	return c.client.Incr(ctx, studyPlanGenerationKey).Err()
}

// CachedStudyPlanRepo serves ListAll from cache and bumps the cache
// generation on every Create. A list read from the store is cached under the
// generation observed before the read, so a Create racing with a cache fill
// can never leave a stale list visible. Cache failures are logged and never
// reach the caller.
type CachedStudyPlanRepo struct {
	inner StudyPlanStore
	cache ListCache
	log   *logger.Logger
}

func NewCachedStudyPlanRepo(inner StudyPlanStore, cache ListCache, log *logger.Logger) *CachedStudyPlanRepo {
	return &CachedStudyPlanRepo{inner: inner, cache: cache, log: log}
}

func (r *CachedStudyPlanRepo) ListAll(ctx context.Context) ([]*models.StudyPlan, error) {
	gen, err := r.cache.Generation(ctx)
	if err != nil {
		r.log.Warn("schedule cache read failed", "error", err)
		return r.inner.ListAll(ctx)
	}

	plans, ok, err := r.cache.Get(ctx, gen)
	if err != nil {
		r.log.Warn("schedule cache read failed", "error", err)
	}
	if ok {
		return plans, nil
	}

	plans, err = r.inner.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, gen, plans); err != nil {
		r.log.Warn("schedule cache write failed", "error", err)
	}
	return plans, nil
}

func (r *CachedStudyPlanRepo) Create(ctx context.Context, p *models.StudyPlan) error {
	if err := r.inner.Create(ctx, p); err != nil {
		return err
	}
	if err := r.cache.Bump(ctx); err != nil {
		r.log.Warn("schedule cache invalidate failed", "error", err)
	}
	return nil
}

func (r *CachedStudyPlanRepo) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}

func (r *CachedStudyPlanRepo) Close(ctx context.Context) error {
	return r.inner.Close(ctx)
}
