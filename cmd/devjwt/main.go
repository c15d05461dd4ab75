package main

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/config"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/logging"
)

// Tiny dev-only credential service: hosts trade the shared dashboard password for an RS256
// JWT, and the API verifies it through the JWKS endpoint.
//
// This is NOT a full OIDC provider. It exists to support local development against
// real RS256 JWT verification (iss/aud/exp + JWKS).

func main() {
	logCfg, err := config.LoadLogConfigFromEnv()
	if err != nil {
		logCfg = config.LogConfig{Level: zerolog.InfoLevel, Format: config.LogFormatJSON}
	}
	log := logging.New(logCfg, "devjwt")

	port := getenv("PORT", "5556")
	ttl := getenvDuration("TTL", 30*time.Minute)

	hash, err := passwordHash()
	if err != nil {
		log.Fatal().Err(err).Msg("password not configured")
	}

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatal().Err(err).Msg("generate key")
	}

	iss := &issuer{
		Issuer:       getenv("ISSUER", "http://devjwt:5556"),
		Audience:     getenv("AUDIENCE", "wedding-rsvp"),
		Kid:          getenv("KID", "dev-kid-1"),
		Subject:      getenv("SUBJECT", "dev|host"),
		TTL:          ttl,
		PasswordHash: hash,
		Key:          priv,
		Now:          time.Now,
	}
	handler, err := newHandler(iss, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build handler")
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().
		Str("port", port).
		Str("iss", iss.Issuer).
		Str("aud", iss.Audience).
		Str("kid", iss.Kid).
		Dur("ttl", ttl).
		Msg("devjwt listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("listen")
	}
}

// passwordHash reads HOST_PASSWORD_HASH, or hashes HOST_PASSWORD when only the plain
// password is given.
func passwordHash() ([]byte, error) {
	if h := strings.TrimSpace(os.Getenv("HOST_PASSWORD_HASH")); h != "" {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, err
		}
		return []byte(h), nil
	}
	if p := os.Getenv("HOST_PASSWORD"); p != "" {
		return bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	}
	return nil, errors.New("set HOST_PASSWORD_HASH or HOST_PASSWORD")
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
