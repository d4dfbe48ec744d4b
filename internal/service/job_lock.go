package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// JobLockKeyPrefix prefixes the per-task lock keys.
const JobLockKeyPrefix = "maintenance:lock:"

// releaseLockScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by another replica is never released by us.
var releaseLockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// JobLock serialises maintenance runs across replicas.
type JobLock interface {
	// Acquire returns ok=false when another holder owns the lock. The
	// returned release func is always safe to call.
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

type redisJobLock struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewJobLock returns a redis-backed lock, or a lock that always succeeds when
// client is nil.
func NewJobLock(client *redis.Client, log *logrus.Logger) JobLock {
	if client == nil {
		return NoopJobLock{}
	}
	return &redisJobLock{client: client, log: log}
}

func (l *redisJobLock) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := JobLockKeyPrefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return func() {}, false, err
	}
	if !ok {
		return func() {}, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
		defer cancel()
		if err := releaseLockScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warnf("Failed to release job lock %s: %+v", key, err)
		}
	}
	return release, true, nil
}

// NoopJobLock always grants the lock.
type NoopJobLock struct{}

func (NoopJobLock) Acquire(context.Context, string, time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}
