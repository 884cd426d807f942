package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/caredesk/clinic-scheduler/internal/domain/scheduling"
)

const availabilityTTL = 60 * time.Second

// AvailabilityCache is a read-side cache for computed day availability.
// Keys embed a per-clinic version counter; any reservation write bumps the
// version, which orphans every cached range for that clinic at once.
//
// The cache is strictly best-effort: a nil client or any redis error means
// the caller falls through to the database.
type AvailabilityCache struct {
	rdb *redis.Client
}

func NewAvailabilityCache(addr string) *AvailabilityCache {
	if addr == "" {
		return &AvailabilityCache{}
	}
	return &AvailabilityCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (c *AvailabilityCache) enabled() bool {
	return c != nil && c.rdb != nil
}

func (c *AvailabilityCache) version(ctx context.Context, clinicID uint) int64 {
	v, err := c.rdb.Get(ctx, fmt.Sprintf("avail:ver:%d", clinicID)).Int64()
	if err != nil && err != redis.Nil {
		log.Debug().Err(err).Msg("availability cache version read failed")
	}
	return v
}

func (c *AvailabilityCache) key(ctx context.Context, clinicID uint, rangeKey string) string {
	return fmt.Sprintf("avail:%d:%d:%s", clinicID, c.version(ctx, clinicID), rangeKey)
}

func (c *AvailabilityCache) Get(
	ctx context.Context,
	clinicID uint,
	rangeKey string,
) ([]scheduling.DayAvailability, bool) {

	if !c.enabled() {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, c.key(ctx, clinicID, rangeKey)).Bytes()
	if err != nil {
		return nil, false
	}

	var days []scheduling.DayAvailability
	if err := json.Unmarshal(raw, &days); err != nil {
		return nil, false
	}
	return days, true
}

func (c *AvailabilityCache) Set(
	ctx context.Context,
	clinicID uint,
	rangeKey string,
	days []scheduling.DayAvailability,
) {

	if !c.enabled() {
		return
	}

	raw, err := json.Marshal(days)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, c.key(ctx, clinicID, rangeKey), raw, availabilityTTL).Err(); err != nil {
		log.Debug().Err(err).Msg("availability cache write failed")
	}
}

// Invalidate bumps the clinic's version counter after any reservation write.
func (c *AvailabilityCache) Invalidate(ctx context.Context, clinicID uint) {
	if !c.enabled() {
		return
	}

	if err := c.rdb.Incr(ctx, fmt.Sprintf("avail:ver:%d", clinicID)).Err(); err != nil {
		log.Debug().Err(err).Msg("availability cache invalidation failed")
	}
}
