package common

import (
	"time"
)

//
// Config has the node settings which are not part of the contract state:
// request rate limit and http response cache.
//
type Config struct {
	RateLimitRuleAPI RateLimitRule

	HTTPCacheAdapter    string
	HTTPCachePoolSize   int
	HTTPCacheRedisAddrs map[string]string
	HTTPCacheTTL        time.Duration
}

func NewConfig() Config {
	p := Config{}

	p.RateLimitRuleAPI = NewRateLimitRule(MustParseRate(RateLimitAPI))

	p.HTTPCachePoolSize = HTTPCachePoolSize
	p.HTTPCacheTTL = DefaultHTTPCacheTTL

	return p
}
