package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/memory/clock"
	memidempotency "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/memory/idempotency"
	memindividualrepo "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/memory/individualrepo"
	pgidempotency "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/postgres/idempotency"
	pgindividualrepo "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/postgres/individualrepo"
	postgres_testutil "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/postgres/testutil"
	sqliteidempotency "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/sqlite/idempotency"
	sqliteindividualrepo "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/sqlite/individualrepo"
	sqlite_testutil "github.com/Overland-East-Bay/wedding-rsvp-api/internal/adapters/sqlite/testutil"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/guests"
	"github.com/Overland-East-Bay/wedding-rsvp-api/internal/app/rsvpflow"
	idempotencyport "github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/idempotency"
	individualrepoport "github.com/Overland-East-Bay/wedding-rsvp-api/internal/ports/out/individualrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendSQLite   backend = "sqlite"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "sqlite":
		return []backend{backendSQLite}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendSQLite, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|sqlite|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	clock   *memclock.ManualClock
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	var (
		repo      individualrepoport.Repository
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		repo = pgindividualrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendSQLite:
		db := sqlite_testutil.OpenMigratedDB(t)
		repo = sqliteindividualrepo.NewRepo(db)
		idemStore = sqliteidempotency.NewStore(db)
	case backendMemory:
		repo = memindividualrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	api := httpapi.NewServer(guests.NewService(repo, clk), rsvpflow.NewService(repo, clk), idemStore, clk)

	// Integration tests use the dev auth middleware to stay fully local and deterministic.
	// We pass empty default subject to ensure dashboard requests MUST provide
	// X-Debug-Subject, allowing auth-failure coverage.
	authMW := httpapi.NewDevAuthMiddleware("")
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		clock:   clk,
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, subject string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) errorResponse {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
	return got
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}
