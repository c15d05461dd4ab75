package config

import (
	"fmt"
	"time"
)

// RateLimitConfig bounds how often one client IP may hit the guest endpoints.
type RateLimitConfig struct {
	// Requests is the number of requests allowed per Window.
	Requests int
	Window   time.Duration
	// Burst allows temporary bursts above the steady rate.
	Burst int
}

// DefaultGuestRateLimit is strict enough to make guessing invitation codes slow.
var DefaultGuestRateLimit = RateLimitConfig{
	Requests: 10,
	Window:   time.Minute,
	Burst:    10,
}

func LoadRateLimitConfigFromEnv() (RateLimitConfig, error) {
	cfg := DefaultGuestRateLimit

	var err error
	if cfg.Requests, err = positiveIntFromEnv("RATELIMIT_GUEST_REQUESTS", cfg.Requests); err != nil {
		return RateLimitConfig{}, err
	}
	if cfg.Window, err = durationFromEnv("RATELIMIT_GUEST_WINDOW", cfg.Window); err != nil {
		return RateLimitConfig{}, err
	}
	if cfg.Window == 0 {
		return RateLimitConfig{}, fmt.Errorf("RATELIMIT_GUEST_WINDOW must be positive")
	}
	if cfg.Burst, err = positiveIntFromEnv("RATELIMIT_GUEST_BURST", cfg.Burst); err != nil {
		return RateLimitConfig{}, err
	}
	return cfg, nil
}
