package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shiftline-hq/shiftline-client/internal/config"
	"github.com/shiftline-hq/shiftline-client/internal/domain"
	"github.com/shiftline-hq/shiftline-client/internal/storage"
	"github.com/shiftline-hq/shiftline-client/pkg/publishers"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func baseConfig(dir, apiURL string) *config.Config {
	return &config.Config{
		APIURL:                 apiURL,
		RequestTimeout:         2 * time.Second,
		PollInterval:           time.Hour,
		PollLimit:              10,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(dir, "relay.db"),
		StorageTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
		RelayEmail:             "relay@example.com",
		RelayPassword:          "correct-horse",
	}
}

func TestAPIConfigAppliesEndpointOverrides(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "endpoints.yaml", `
endpoints:
  notifications:
    markRead: /inbox/{id}/ack
`)
	cfg := baseConfig(dir, "https://wfm.example.com/api/v1")
	cfg.EndpointsFile = file

	apiCfg, err := APIConfig(cfg)
	if err != nil {
		t.Fatalf("APIConfig: %v", err)
	}
	path, err := apiCfg.Endpoints().Notifications.MarkRead.Resolve("abc123")
	if err != nil || path != "/inbox/abc123/ack" {
		t.Fatalf("Resolve = %q, %v", path, err)
	}
	if apiCfg.Headers()["Accept"] != "application/json" {
		t.Fatalf("default headers missing: %v", apiCfg.Headers())
	}
}

func TestNewRelayRequiresPublishers(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig(dir, "https://wfm.example.com/api/v1")
	cfg.PublishersFile = filepath.Join(dir, "missing.yaml")

	if _, err := NewRelay(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for missing publishers file")
	}
}

func TestRelayLogsInAndForwardsNotifications(t *testing.T) {
	var (
		mu       sync.Mutex
		marked   []string
		received []publishers.Event
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/login":
			_, _ = w.Write([]byte(`{"data":{"access_token":"tok","refresh_token":"ref"},"status":200}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/notifications":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"unauthorized","status":401}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":[{"id":"n1","type":"shift_swap","title":"Swap requested"}],"status":200}`))
		case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/api/v1/notifications/"):
			mu.Lock()
			marked = append(marked, r.URL.Path)
			mu.Unlock()
			_, _ = w.Write([]byte(`{"data":{"updated":1},"status":200}`))
			cancel()
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()

	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		_ = json.NewDecoder(r.Body).Decode(&evt)
		mu.Lock()
		received = append(received, evt)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer sink.Close()

	dir := t.TempDir()
	cfg := baseConfig(dir, backend.URL+"/api/v1")
	cfg.MarkRead = true
	cfg.PublishersFile = writeFile(t, dir, "publishers.yaml", `
publishers:
  - id: sink
    type: http
    http:
      url: `+sink.URL+`
`)

	r, err := NewRelay(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("NewRelay: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("relay did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0].NotificationID != "n1" {
		t.Fatalf("sink received %+v", received)
	}
	if received[0].Source != backend.URL+"/api/v1" {
		t.Fatalf("event source = %q", received[0].Source)
	}
	if len(marked) != 1 || marked[0] != "/api/v1/notifications/n1/read" {
		t.Fatalf("marked = %v", marked)
	}
}

// authBackend counts auth calls and notification polls by whether they carried
// the current access token.
type authBackend struct {
	mu           sync.Mutex
	logins       int
	refreshes    int
	authorized   int
	unauthorized int
}

func (b *authBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/login":
			b.logins++
			_, _ = w.Write([]byte(`{"data":{"access_token":"tok","refresh_token":"ref"},"status":200}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/refresh":
			b.refreshes++
			_, _ = w.Write([]byte(`{"data":{"access_token":"tok","refresh_token":"ref2"},"status":200}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/notifications":
			if r.Header.Get("Authorization") != "Bearer tok" {
				b.unauthorized++
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"unauthorized","status":401}`))
				return
			}
			b.authorized++
			_, _ = w.Write([]byte(`{"data":[],"status":200}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	})
}

func newAuthRelay(t *testing.T, cfg *config.Config, dir string) *Relay {
	t.Helper()
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(sink.Close)
	cfg.PublishersFile = writeFile(t, dir, "publishers.yaml", `
publishers:
  - id: sink
    type: http
    http:
      url: `+sink.URL+`
`)
	r, err := NewRelay(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewRelay: %v", err)
	}
	t.Cleanup(r.close)
	return r
}

func TestRelayWithoutPersistentStorageKeepsSession(t *testing.T) {
	b := &authBackend{}
	backend := httptest.NewServer(b.handler(t))
	defer backend.Close()

	dir := t.TempDir()
	cfg := baseConfig(dir, backend.URL+"/api/v1")
	cfg.StorageType = "none"
	r := newAuthRelay(t, cfg, dir)

	ctx := context.Background()
	if err := r.ensureSession(ctx); err != nil {
		t.Fatalf("ensureSession: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := r.service.RunOnce(ctx); err != nil {
			t.Fatalf("RunOnce #%d: %v", i+1, err)
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.logins != 1 || b.unauthorized != 0 || b.authorized != 2 {
		t.Fatalf("logins=%d unauthorized=%d authorized=%d", b.logins, b.unauthorized, b.authorized)
	}
}

func TestRelayRefreshesExpiredStoredSession(t *testing.T) {
	b := &authBackend{}
	backend := httptest.NewServer(b.handler(t))
	defer backend.Close()

	dir := t.TempDir()
	cfg := baseConfig(dir, backend.URL+"/api/v1")

	seed, err := storage.NewStore("bbolt", cfg.BBoltPath, storage.Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := seed.SaveSession(domain.Session{
		AccessToken:  "stale",
		RefreshToken: "ref",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := seed.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := newAuthRelay(t, cfg, dir)
	ctx := context.Background()
	if err := r.ensureSession(ctx); err != nil {
		t.Fatalf("ensureSession: %v", err)
	}
	if _, err := r.service.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refreshes != 1 || b.logins != 0 {
		t.Fatalf("refreshes=%d logins=%d", b.refreshes, b.logins)
	}
	if b.unauthorized != 0 || b.authorized != 1 {
		t.Fatalf("unauthorized=%d authorized=%d", b.unauthorized, b.authorized)
	}
}
