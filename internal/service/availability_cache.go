package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"hospital-management-backend/internal/domain/entity"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// AvailabilityKeyPrefix prefixes the per-doctor availability cache keys.
	AvailabilityKeyPrefix = "availability:doctor:"

	// AvailabilityVersionPrefix prefixes the per-doctor invalidation counters.
	AvailabilityVersionPrefix = "availability:version:"

	// AvailabilityGenerationKey is bumped when the whole cache is dropped.
	AvailabilityGenerationKey = "availability:generation"

	// Timeout for individual Redis operations
	redisOpTimeout = 5 * time.Second

	// Keys deleted per pipeline when the whole cache is dropped
	invalidateBatchSize = 500

	// Version counters outlive any in-flight read by a wide margin
	versionKeyTTL = 24 * time.Hour

	// Doctors kept by the in-process cache
	localCacheSize = 1024
)

// AvailabilityCache is a best-effort read cache for a doctor's availability
// rows. Failures are logged and reported as misses; the database stays the
// source of truth.
//
// Get returns a version token alongside the result. Set only stores rows if
// no invalidation for that doctor happened since the token was taken, so a
// read that races a write never caches the pre-write rows.
type AvailabilityCache interface {
	Get(ctx context.Context, doctorID string) (rows []entity.DoctorAvailability, version string, ok bool)
	Set(ctx context.Context, doctorID, version string, rows []entity.DoctorAvailability)
	Invalidate(ctx context.Context, doctorIDs ...string)
	InvalidateAll(ctx context.Context)
}

// setIfCurrent writes KEYS[1] only while the doctor version (KEYS[2]) and
// the cache generation (KEYS[3]) still match the token.
var setIfCurrent = redis.NewScript(`
local version = redis.call('GET', KEYS[2]) or '0'
local generation = redis.call('GET', KEYS[3]) or '0'
if version ~= ARGV[2] or generation ~= ARGV[3] then
	return 0
end
if tonumber(ARGV[4]) > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[4])
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

type redisAvailabilityCache struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

// NewAvailabilityCache returns a redis-backed cache, or an in-process LRU
// when client is nil. Without Redis there is a single replica, so local
// invalidation is enough.
func NewAvailabilityCache(client *redis.Client, log *logrus.Logger, ttl time.Duration) AvailabilityCache {
	if client == nil {
		return newLocalAvailabilityCache(localCacheSize, ttl)
	}
	return &redisAvailabilityCache{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func availabilityKey(doctorID string) string {
	return AvailabilityKeyPrefix + doctorID
}

func versionKey(doctorID string) string {
	return AvailabilityVersionPrefix + doctorID
}

func counterValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

func (c *redisAvailabilityCache) Get(ctx context.Context, doctorID string) ([]entity.DoctorAvailability, string, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	pipe := c.client.Pipeline()
	dataCmd := pipe.Get(ctx, availabilityKey(doctorID))
	versionCmd := pipe.MGet(ctx, versionKey(doctorID), AvailabilityGenerationKey)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warnf("Failed to read availability cache for doctor %s: %+v", doctorID, err)
		return nil, "", false
	}

	counters := versionCmd.Val()
	if len(counters) != 2 {
		return nil, "", false
	}
	version := counterValue(counters[0]) + ":" + counterValue(counters[1])

	raw, err := dataCmd.Bytes()
	if err != nil {
		return nil, version, false
	}

	var rows []entity.DoctorAvailability
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.log.Warnf("Failed to decode availability cache for doctor %s: %+v", doctorID, err)
		return nil, version, false
	}
	return rows, version, true
}

func (c *redisAvailabilityCache) Set(ctx context.Context, doctorID, version string, rows []entity.DoctorAvailability) {
	doctorVersion, generation, ok := strings.Cut(version, ":")
	if !ok {
		return
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		c.log.Warnf("Failed to encode availability for doctor %s: %+v", doctorID, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	keys := []string{availabilityKey(doctorID), versionKey(doctorID), AvailabilityGenerationKey}
	stored, err := setIfCurrent.Run(ctx, c.client, keys, raw, doctorVersion, generation, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warnf("Failed to write availability cache for doctor %s: %+v", doctorID, err)
		return
	}
	if stored == 0 {
		c.log.WithField("doctor_id", doctorID).Debug("Availability changed during read, cache write skipped")
	}
}

func (c *redisAvailabilityCache) Invalidate(ctx context.Context, doctorIDs ...string) {
	if len(doctorIDs) == 0 {
		return
	}
	keys := make([]string, len(doctorIDs))
	for i, id := range doctorIDs {
		keys[i] = availabilityKey(id)
	}

	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, keys...)
	for _, id := range doctorIDs {
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), versionKeyTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warnf("Failed to invalidate availability cache: %+v", err)
	}
}

// InvalidateAll drops every cached doctor. The generation bump stops
// in-flight reads from writing back; keys are then collected with SCAN and
// removed one pipeline per batch so a large keyspace is never held in memory.
func (c *redisAvailabilityCache) InvalidateAll(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := c.client.Incr(ctx, AvailabilityGenerationKey).Err(); err != nil {
		c.log.Warnf("Failed to bump availability cache generation: %+v", err)
	}

	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, AvailabilityKeyPrefix+"*", invalidateBatchSize).Result()
		if err != nil {
			c.log.Warnf("Failed to scan availability cache: %+v", err)
			return
		}

		if len(keys) > 0 {
			pipe := c.client.TxPipeline()
			pipe.Del(ctx, keys...)
			if _, err := pipe.Exec(ctx); err != nil {
				c.log.Warnf("Failed to invalidate availability cache batch: %+v", err)
				return
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.log.WithField("keys", deleted).Debug("Availability cache cleared")
}

type localAvailabilityCache struct {
	mu         sync.Mutex
	cache      *expirable.LRU[string, []entity.DoctorAvailability]
	versions   map[string]uint64
	generation uint64
}

func newLocalAvailabilityCache(size int, ttl time.Duration) *localAvailabilityCache {
	return &localAvailabilityCache{
		cache:    expirable.NewLRU[string, []entity.DoctorAvailability](size, nil, ttl),
		versions: make(map[string]uint64),
	}
}

func (c *localAvailabilityCache) versionLocked(doctorID string) string {
	return strconv.FormatUint(c.versions[doctorID], 10) + ":" + strconv.FormatUint(c.generation, 10)
}

func (c *localAvailabilityCache) Get(_ context.Context, doctorID string) ([]entity.DoctorAvailability, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	version := c.versionLocked(doctorID)
	rows, ok := c.cache.Get(doctorID)
	if !ok {
		return nil, version, false
	}
	return append([]entity.DoctorAvailability(nil), rows...), version, true
}

func (c *localAvailabilityCache) Set(_ context.Context, doctorID, version string, rows []entity.DoctorAvailability) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if version != c.versionLocked(doctorID) {
		return
	}
	c.cache.Add(doctorID, append([]entity.DoctorAvailability(nil), rows...))
}

func (c *localAvailabilityCache) Invalidate(_ context.Context, doctorIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range doctorIDs {
		c.cache.Remove(id)
		c.versions[id]++
	}
}

func (c *localAvailabilityCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Purge()
	c.generation++
	// The generation bump already invalidates every outstanding token.
	c.versions = make(map[string]uint64)
}

// NoopAvailabilityCache never stores anything. Tests use it to read
// storage directly.
type NoopAvailabilityCache struct{}

func (NoopAvailabilityCache) Get(context.Context, string) ([]entity.DoctorAvailability, string, bool) {
	return nil, "", false
}
func (NoopAvailabilityCache) Set(context.Context, string, string, []entity.DoctorAvailability) {}
func (NoopAvailabilityCache) Invalidate(context.Context, ...string)                            {}
func (NoopAvailabilityCache) InvalidateAll(context.Context)                                    {}
