// Package testutil provides a migrated Postgres pool for adapter and integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	postgres "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/postgres"
)

const (
	postgresImage = "postgres:16-alpine"
	dbUser        = "rsvp"
	dbPassword    = "rsvp"
	dbName        = "rsvp_test"
)

// OpenMigratedPool returns a pool against a database with every migration applied.
//
// Resolution order:
//   - TEST_DATABASE_URL, if set, is used as-is.
//   - ITEST_DOCKER=1 starts a throwaway Postgres container via testcontainers.
//   - Otherwise the test is skipped.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	dsn := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if dsn == "" {
		if os.Getenv("ITEST_DOCKER") != "1" {
			t.Skip("postgres tests need TEST_DATABASE_URL or ITEST_DOCKER=1")
		}
		dsn = startContainer(t, ctx)
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 4, ConnectTimeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.ApplyMigrations(pool); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}
	return pool
}

func startContainer(t *testing.T, ctx context.Context) string {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     dbUser,
			"POSTGRES_PASSWORD": dbPassword,
			"POSTGRES_DB":       dbName,
		},
		// Postgres logs readiness twice: once for the init run, once for the real server.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(context.Background())
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, host, port.Port(), dbName)
}
