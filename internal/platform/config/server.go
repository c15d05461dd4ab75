package config

import (
	"fmt"
	"os"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"

	AuthModeJWT = "jwt"
	AuthModeDev = "dev"
)

// ServerConfig is the process-level configuration of cmd/api.
type ServerConfig struct {
	Port string

	StorageBackend string
	DatabaseURL    string
	SQLitePath     string

	AuthMode   string
	DevSubject string

	ShutdownTimeout time.Duration
}

func LoadServerConfigFromEnv() (ServerConfig, error) {
	cfg := ServerConfig{
		Port:           getenv("PORT", "8080"),
		StorageBackend: getenv("STORAGE_BACKEND", StorageMemory),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getenv("SQLITE_PATH", "wedding-rsvp.db"),
		AuthMode:       getenv("AUTH_MODE", AuthModeJWT),
		DevSubject:     getenv("DEV_SUBJECT", "dev|host"),
	}

	if err := oneOf("STORAGE_BACKEND", cfg.StorageBackend, StorageMemory, StoragePostgres, StorageSQLite); err != nil {
		return ServerConfig{}, err
	}
	if cfg.StorageBackend == StoragePostgres && cfg.DatabaseURL == "" {
		return ServerConfig{}, fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
	}
	if err := oneOf("AUTH_MODE", cfg.AuthMode, AuthModeJWT, AuthModeDev); err != nil {
		return ServerConfig{}, err
	}

	var err error
	if cfg.ShutdownTimeout, err = durationFromEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}
