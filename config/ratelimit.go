package config

import (
	"sync"
	"time"
)

var (
	rateLimitOnce   sync.Once
	rateLimitConfig *RateLimitConfig
)

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

func GetRateLimitConfig() *RateLimitConfig {
	rateLimitOnce.Do(func() {
		loadEnv()

		rateLimitConfig = &RateLimitConfig{
			MaxRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 30),
			Window:      getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		}
	})
	return rateLimitConfig
}
