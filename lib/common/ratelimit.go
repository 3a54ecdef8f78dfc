package common

import (
	"github.com/ulule/limiter"
)

type RateLimitRule struct {
	Default     limiter.Rate
	ByIPAddress map[string]limiter.Rate
}

func NewRateLimitRule(rate limiter.Rate) RateLimitRule {
	return RateLimitRule{
		Default:     rate,
		ByIPAddress: map[string]limiter.Rate{},
	}
}

// ParseRate parses the formatted rate, like "100-S" or "1000-H"; "0-S" means
// unlimited.
func ParseRate(s string) (limiter.Rate, error) {
	return limiter.NewRateFromFormatted(s)
}

func MustParseRate(s string) limiter.Rate {
	rate, err := ParseRate(s)
	if err != nil {
		panic(err)
	}

	return rate
}
