package httpcache

import (
	"fmt"
	"time"

	redisCache "github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack"
)

// RedisGenerationKey holds the cache generation shared by every node using
// the same redis; purging bumps it, so the older entries are never read
// again and expire by themselves.
const RedisGenerationKey = "httpcache-generation"

type generationStore interface {
	Current() (int64, error)
	Next() (int64, error)
}

type redisGeneration struct {
	ring *redis.Ring
	key  string
}

func (g redisGeneration) Current() (int64, error) {
	n, err := g.ring.Get(g.key).Int64()
	if err == redis.Nil {
		return 0, nil
	}

	return n, err
}

func (g redisGeneration) Next() (int64, error) {
	return g.ring.Incr(g.key).Result()
}

// RedisCacheAdapter shares cached responses between nodes.
type RedisCacheAdapter struct {
	store      *redisCache.Codec
	generation generationStore
}

type RedisRingOptions redis.RingOptions

func NewRedisCacheAdapter(opt *RedisRingOptions) *RedisCacheAdapter {
	ropt := redis.RingOptions(*opt)
	ring := redis.NewRing(&ropt)

	return &RedisCacheAdapter{
		store: &redisCache.Codec{
			Redis: ring,
			Marshal: func(v interface{}) ([]byte, error) {
				return msgpack.Marshal(v)
			},
			Unmarshal: func(b []byte, v interface{}) error {
				return msgpack.Unmarshal(b, v)
			},
		},
		generation: redisGeneration{ring: ring, key: RedisGenerationKey},
	}
}

// key prefixes `key` with the current generation; without the generation
// nothing can be cached safely.
func (a *RedisCacheAdapter) key(key string) (string, bool) {
	g, err := a.generation.Current()
	if err != nil {
		return "", false
	}

	return fmt.Sprintf("%d:%s", g, key), true
}

func (a *RedisCacheAdapter) Get(key string) (*Response, bool) {
	k, ok := a.key(key)
	if !ok {
		return nil, false
	}

	var resp Response
	if err := a.store.Get(k, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (a *RedisCacheAdapter) Set(key string, resp *Response, expir time.Time) {
	k, ok := a.key(key)
	if !ok {
		return
	}

	var e time.Duration = 0
	if !expir.IsZero() {
		e = time.Until(expir)
	}
	a.store.Set(&redisCache.Item{
		Key:        k,
		Object:     resp,
		Expiration: e,
	})
}

func (a *RedisCacheAdapter) Remove(key string) {
	if k, ok := a.key(key); ok {
		a.store.Delete(k)
	}
}

func (a *RedisCacheAdapter) Purge() {
	a.generation.Next()
}
