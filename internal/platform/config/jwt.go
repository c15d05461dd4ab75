package config

import (
	"fmt"
	"os"
	"time"
)

// JWTConfig configures dashboard token verification against the credential service's JWKS.
type JWTConfig struct {
	Issuer   string
	Audience string
	JWKSURL  string

	ClockSkew              time.Duration
	JWKSRefreshInterval    time.Duration
	JWKSMinRefreshInterval time.Duration

	HTTPTimeout time.Duration
}

func LoadJWTConfigFromEnv() (JWTConfig, error) {
	issuer := os.Getenv("JWT_ISSUER")
	audience := os.Getenv("JWT_AUDIENCE")
	jwksURL := os.Getenv("JWT_JWKS_URL")
	if issuer == "" || audience == "" || jwksURL == "" {
		return JWTConfig{}, fmt.Errorf("missing required env vars: JWT_ISSUER, JWT_AUDIENCE, JWT_JWKS_URL")
	}

	cfg := JWTConfig{
		Issuer:    issuer,
		Audience:  audience,
		JWKSURL:   jwksURL,
		ClockSkew: 30 * time.Second,
		// Refresh periodically to pick up key rotation even if an old key is still cached.
		JWKSRefreshInterval: 5 * time.Minute,
		// Bound refresh frequency when a token presents an unknown kid (avoid thundering herd).
		JWKSMinRefreshInterval: 10 * time.Second,
		HTTPTimeout:            5 * time.Second,
	}

	var err error
	if cfg.ClockSkew, err = durationFromEnv("JWT_CLOCK_SKEW", cfg.ClockSkew); err != nil {
		return JWTConfig{}, err
	}
	if cfg.JWKSRefreshInterval, err = durationFromEnv("JWT_JWKS_REFRESH_INTERVAL", cfg.JWKSRefreshInterval); err != nil {
		return JWTConfig{}, err
	}
	if cfg.JWKSMinRefreshInterval, err = durationFromEnv("JWT_JWKS_MIN_REFRESH_INTERVAL", cfg.JWKSMinRefreshInterval); err != nil {
		return JWTConfig{}, err
	}
	if cfg.HTTPTimeout, err = durationFromEnv("JWT_HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return JWTConfig{}, err
	}

	return cfg, nil
}
