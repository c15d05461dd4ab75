package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/httpapi"
	memidempotency "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/memory/idempotency"
	memindividualrepo "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/memory/individualrepo"
	postgres "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/postgres"
	pgidempotency "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/postgres/idempotency"
	pgindividualrepo "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/postgres/individualrepo"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/sqlite"
	sqliteidempotency "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/sqlite/idempotency"
	sqliteindividualrepo "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/sqlite/individualrepo"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/guests"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/rsvpflow"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/clock"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/config"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/platform/logging"
	idempotencyport "github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/idempotency"
	individualrepoport "github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

func main() {
	logCfg, err := config.LoadLogConfigFromEnv()
	if err != nil {
		// Logging is not configured yet; fall back to defaults to report the problem.
		l := logging.New(config.LogConfig{Level: zerolog.InfoLevel, Format: config.LogFormatJSON}, "api")
		l.Fatal().Err(err).Msg("invalid log config")
	}
	log := logging.New(logCfg, "api")

	cfg, err := config.LoadServerConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid server config")
	}
	guestLimit, err := config.LoadRateLimitConfigFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid rate limit config")
	}

	// Auth configuration:
	// - Production: require JWT_* env vars and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Subject
	var authMW func(http.Handler) http.Handler
	switch cfg.AuthMode {
	case config.AuthModeDev:
		log.Warn().Str("default_subject", cfg.DevSubject).Msg("dev auth enabled; dashboard is not protected")
		authMW = httpapi.NewDevAuthMiddleware(cfg.DevSubject)
	default:
		jwtCfg, err := config.LoadJWTConfigFromEnv()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid auth config")
		}
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(jwtCfg))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	repo, idemStore, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("storage unavailable")
	}
	defer cleanup()

	clk := platformclock.NewSystemClock()
	api := httpapi.NewServer(guests.NewService(repo, clk), rsvpflow.NewService(repo, clk), idemStore, clk)

	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		GuestRateLimit: httpapi.NewIPRateLimitMiddleware(guestLimit),
		Logger:         &log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("storage", cfg.StorageBackend).
			Str("auth", cfg.AuthMode).
			Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func openStorage(ctx context.Context, cfg config.ServerConfig) (individualrepoport.Repository, idempotencyport.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{ConnectTimeout: 10 * time.Second})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.ApplyMigrations(pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		return pgindividualrepo.NewRepo(pool), pgidempotency.NewStore(pool), pool.Close, nil
	case config.StorageSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := sqlite.ApplyMigrations(db); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return sqliteindividualrepo.NewRepo(db), sqliteidempotency.NewStore(db), func() { _ = db.Close() }, nil
	default:
		if os.Getenv("DATABASE_URL") != "" {
			zerolog.Ctx(ctx).Warn().Msg("DATABASE_URL is set but STORAGE_BACKEND=memory; data will not persist")
		}
		return memindividualrepo.NewRepo(), memidempotency.NewStore(), func() {}, nil
	}
}
