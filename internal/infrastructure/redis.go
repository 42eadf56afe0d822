package infrastructure

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisService wraps the shared Redis client used as the side cache.
// The cache is never the source of truth: reads degrade to misses and
// writes to no-ops when the connection is down, deletes are always
// attempted, and a background reconnect loop brings the connection back
// without involving request handlers.
type RedisService struct {
	client       *redis.Client
	available    atomic.Bool
	reconnecting atomic.Bool
	done         chan struct{}
	closeOnce    sync.Once
}

func NewRedisService(addr, password string, db int) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	r := &RedisService{client: client, done: make(chan struct{})}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v", err)
		log.Printf("Caching disabled until Redis comes back; reads fall through to the store.")
		r.startReconnect()
	} else {
		r.available.Store(true)
		log.Printf("Connected to Redis at %s", addr)
	}
	return r
}

// Get returns the cached value for key and whether it was present.
// Misses, expiry and connection trouble all report absence.
func (r *RedisService) Get(ctx context.Context, key string) (string, bool) {
	if !r.available.Load() {
		return "", false
	}
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		r.markDown(err)
		return "", false
	}
	return val, true
}

// Set stores value under key with the given TTL. Failures are absorbed;
// the next read simply misses.
func (r *RedisService) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if !r.available.Load() {
		return
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.markDown(err)
	}
}

// Delete removes the given keys. Deleting absent keys is a no-op.
// Invalidation is attempted even while the connection looks down: a
// skipped delete would keep a stale snapshot alive for the full TTL
// once the connection comes back.
func (r *RedisService) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.markDown(err)
	}
}

func (r *RedisService) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return r.client.Close()
}

func (r *RedisService) markDown(err error) {
	// a canceled or expired request context is the caller's doing,
	// not a connection loss
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if r.available.CompareAndSwap(true, false) {
		log.Printf("Redis error: %v", err)
		log.Printf("Redis client disconnected. Reconnecting...")
	}
	r.startReconnect()
}

func (r *RedisService) startReconnect() {
	if !r.reconnecting.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer r.reconnecting.Store(false)
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-r.done:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				err := r.client.Ping(ctx).Err()
				cancel()
				if err == nil {
					r.available.Store(true)
					log.Printf("Connected to Redis")
					return
				}
			}
		}
	}()
}
