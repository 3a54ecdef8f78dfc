package httpcache

import (
	"net/http"

	"github.com/pkg/errors"

	"boscoin.io/ballotbox/lib/common"
)

// Cache is satisfied by `*Client` and `*NopClient`.
type Cache interface {
	Middleware(next http.Handler) http.Handler
	WrapHandlerFunc(handlerFunc http.HandlerFunc) http.HandlerFunc
}

func NewAdapter(cfg common.Config) (Adapter, error) {
	switch cfg.HTTPCacheAdapter {
	case common.HTTPCacheMemoryAdapterName:
		return NewMemCacheAdapter(cfg.HTTPCachePoolSize), nil
	case common.HTTPCacheRedisAdapterName:
		if len(cfg.HTTPCacheRedisAddrs) < 1 {
			return nil, errors.New("redis cache adapter needs at least one address")
		}
		return NewRedisCacheAdapter(&RedisRingOptions{Addrs: cfg.HTTPCacheRedisAddrs}), nil
	default:
		return nil, errors.Errorf("adapter not found: '%s'", cfg.HTTPCacheAdapter)
	}
}

// NewCache builds the cache of the api from node config; without adapter
// nothing is cached.
func NewCache(cfg common.Config, opts ...ClientOption) (Cache, error) {
	if len(cfg.HTTPCacheAdapter) < 1 {
		return NewNopClient(), nil
	}

	adapter, err := NewAdapter(cfg)
	if err != nil {
		return nil, err
	}

	return NewClient(append([]ClientOption{WithAdapter(adapter), WithExpire(cfg.HTTPCacheTTL)}, opts...)...)
}
