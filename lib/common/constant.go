package common

import "time"

const (
	// MaxPollOptions is the upper bound of options a poll can be created with.
	MaxPollOptions int = 10

	HTTPCacheMemoryAdapterName = "mem"
	HTTPCacheRedisAdapterName  = "redis"
	HTTPCachePoolSize          = 10000
	DefaultHTTPCacheTTL        = 2 * time.Second

	// RateLimitAPI is the default rate of requests per client ip, in the
	// `github.com/ulule/limiter` formatted string.
	RateLimitAPI = "100-S"
)
