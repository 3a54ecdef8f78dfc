// Provide test utilities for the common package
package common

// Initialize a new config object for unittests
func NewTestConfig() Config {
	p := Config{}

	p.RateLimitRuleAPI = NewRateLimitRule(MustParseRate("0-S"))

	p.HTTPCacheAdapter = ""
	p.HTTPCachePoolSize = HTTPCachePoolSize
	p.HTTPCacheTTL = 0

	return p
}
