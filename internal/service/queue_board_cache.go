package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"clinic-frontdesk/internal/scheduling"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	// Redis key prefix for cached queue boards, one key per calendar date
	RedisQueueBoardKeyPrefix = "queue:board:"

	// Redis key prefix for the per-date invalidation counter
	RedisQueueBoardGenKeyPrefix = "queue:board:gen:"

	// Timeout for individual Redis operations
	redisOpTimeout = 5 * time.Second

	// Generation counters outlive any board of their date
	queueBoardGenTTL = 48 * time.Hour
)

// setBoardIfCurrentScript stores a board only while the date's generation still
// matches the one read before the board was built.
// KEYS[1] board key, KEYS[2] generation key
// ARGV[1] expected generation, ARGV[2] payload, ARGV[3] ttl in milliseconds
var setBoardIfCurrentScript = redis.NewScript(`
	local gen = redis.call('GET', KEYS[2]) or '0'
	if gen ~= ARGV[1] then
		return 0
	end
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
	return 1
`)

// QueueBoardCache caches the rendered queue board of a date.
type QueueBoardCache interface {
	// Load returns the cached board or builds it with fill and stores it.
	Load(ctx context.Context, date time.Time, fill func(ctx context.Context) ([]byte, error)) ([]byte, error)
	// Invalidate drops the cached boards of the given dates.
	Invalidate(ctx context.Context, dates ...time.Time)
}

// boardStore is the Redis surface of the cache.
type boardStore interface {
	Get(ctx context.Context, date time.Time) ([]byte, error)
	Generation(ctx context.Context, date time.Time) (string, error)
	SetIfGeneration(ctx context.Context, date time.Time, generation string, payload []byte, ttl time.Duration) (bool, error)
	Bump(ctx context.Context, dates ...time.Time) error
}

type redisQueueBoardCache struct {
	store  boardStore
	log    *logrus.Logger
	maxTTL time.Duration
	group  singleflight.Group
}

// NewQueueBoardCache returns a Redis-backed cache. A Redis failure never fails
// a read; the board is then built from the database.
func NewQueueBoardCache(redisClient *redis.Client, log *logrus.Logger, maxTTL time.Duration) QueueBoardCache {
	return newQueueBoardCache(&redisBoardStore{redisClient: redisClient}, log, maxTTL)
}

func newQueueBoardCache(store boardStore, log *logrus.Logger, maxTTL time.Duration) *redisQueueBoardCache {
	return &redisQueueBoardCache{
		store:  store,
		log:    log,
		maxTTL: maxTTL,
	}
}

func (c *redisQueueBoardCache) Load(ctx context.Context, date time.Time, fill func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	key := queueBoardKey(date)

	cached, err := c.store.Get(ctx, date)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.log.Warnf("Failed to read queue board cache %s: %+v", key, err)
	}

	// Concurrent misses for the same date share one database read
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Read before the fill so an invalidation during it is detected
		generation, genErr := c.store.Generation(ctx, date)
		if genErr != nil {
			c.log.Warnf("Failed to read queue board generation %s: %+v", key, genErr)
		}

		payload, err := fill(ctx)
		if err != nil {
			return nil, err
		}
		if genErr != nil {
			return payload, nil
		}

		setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), redisOpTimeout)
		defer cancel()
		stored, err := c.store.SetIfGeneration(setCtx, date, generation, payload, c.calculateTTL(date))
		switch {
		case err != nil:
			c.log.Warnf("Failed to store queue board cache %s: %+v", key, err)
		case !stored:
			c.log.Debugf("Queue board %s invalidated while building, not cached", key)
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *redisQueueBoardCache) Invalidate(ctx context.Context, dates ...time.Time) {
	if len(dates) == 0 {
		return
	}

	for _, d := range dates {
		c.group.Forget(queueBoardKey(d))
	}

	delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), redisOpTimeout)
	defer cancel()
	if err := c.store.Bump(delCtx, dates...); err != nil {
		c.log.Warnf("Failed to invalidate queue board cache %v: %+v", dates, err)
		return
	}

	c.log.Debugf("Invalidated queue board cache for %d date(s)", len(dates))
}

// calculateTTL keeps a board no longer than maxTTL and never past the end of its date.
func (c *redisQueueBoardCache) calculateTTL(date time.Time) time.Duration {
	ttl := time.Until(scheduling.NextDay(date))
	if ttl <= 0 {
		// Past date - short TTL for cleanup
		return 1 * time.Minute
	}
	if c.maxTTL > 0 && ttl > c.maxTTL {
		return c.maxTTL
	}
	return ttl
}

type redisBoardStore struct {
	redisClient *redis.Client
}

func (s *redisBoardStore) Get(ctx context.Context, date time.Time) ([]byte, error) {
	return s.redisClient.Get(ctx, queueBoardKey(date)).Bytes()
}

func (s *redisBoardStore) Generation(ctx context.Context, date time.Time) (string, error) {
	generation, err := s.redisClient.Get(ctx, queueBoardGenKey(date)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return generation, err
}

func (s *redisBoardStore) SetIfGeneration(ctx context.Context, date time.Time, generation string, payload []byte, ttl time.Duration) (bool, error) {
	keys := []string{queueBoardKey(date), queueBoardGenKey(date)}
	stored, err := setBoardIfCurrentScript.Run(ctx, s.redisClient, keys, generation, payload, strconv.FormatInt(ttl.Milliseconds(), 10)).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// Bump advances the generation of every date and drops its board in one transaction.
func (s *redisBoardStore) Bump(ctx context.Context, dates ...time.Time) error {
	_, err := s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, d := range dates {
			genKey := queueBoardGenKey(d)
			pipe.Incr(ctx, genKey)
			pipe.Expire(ctx, genKey, queueBoardGenTTL)
			pipe.Del(ctx, queueBoardKey(d))
		}
		return nil
	})
	return err
}

func queueBoardKey(date time.Time) string {
	return fmt.Sprintf("%s%s", RedisQueueBoardKeyPrefix, scheduling.FormatDate(date))
}

func queueBoardGenKey(date time.Time) string {
	return fmt.Sprintf("%s%s", RedisQueueBoardGenKeyPrefix, scheduling.FormatDate(date))
}
