//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/parleyhq/parley/internal/api/handlers"
	"github.com/parleyhq/parley/internal/domain"
	"github.com/parleyhq/parley/internal/repository"
	"github.com/parleyhq/parley/internal/server"
	"github.com/parleyhq/parley/internal/service"
	"github.com/parleyhq/parley/internal/testutil"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	AdvisorRepo  *repository.AdvisorRepository
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a database container
// and a running server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		AdvisorRepo:  repository.NewAdvisorRepository(pool),
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// SeedAdvisor inserts an advisor profile directly through the repository
func (e *E2ETestEnv) SeedAdvisor(mutate func(*domain.AdvisorProfile)) *domain.AdvisorProfile {
	advisor := &domain.AdvisorProfile{
		ID:        uuid.NewString(),
		FirstName: "Jordan",
		LastName:  "Lee",
		Category:  "engineering",
		Public:    true,
		Status:    domain.AdvisorStatusActive,
		Persona: domain.Persona{
			Title:      "Staff Engineer",
			Experience: "8 years",
		},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if mutate != nil {
		mutate(advisor)
	}
	if err := e.AdvisorRepo.Create(e.Ctx, advisor); err != nil {
		e.T.Fatalf("failed to seed advisor: %v", err)
	}
	return advisor
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request, optionally as the given user
func (e *E2ETestEnv) Get(path, userID string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, userID)
}

// Post performs a POST request, optionally as the given user
func (e *E2ETestEnv) Post(path string, body interface{}, userID string) (*APIResponse, error) {
	return e.doRequest("POST", path, body, userID)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, userID string) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// startServer starts the HTTP server with all handlers
func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	advisorRepo := repository.NewAdvisorRepository(pool)
	selectionRepo := repository.NewSelectionRepository(pool)

	discoverySvc := service.NewDiscoveryService(advisorRepo, selectionRepo, nil)
	chatSvc := service.NewChatService(advisorRepo, nil)

	router := server.NewRouter(server.RouterConfig{
		AdvisorHandler: handlers.NewAdvisorHandler(discoverySvc),
		ChatHandler:    handlers.NewChatHandler(chatSvc),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
