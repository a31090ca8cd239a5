package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/shiftline-hq/shiftline-client/internal/config"
	"github.com/shiftline-hq/shiftline-client/internal/domain"
	"github.com/shiftline-hq/shiftline-client/internal/logger"
	"github.com/shiftline-hq/shiftline-client/internal/metrics"
	"github.com/shiftline-hq/shiftline-client/internal/relay"
	"github.com/shiftline-hq/shiftline-client/internal/storage"
	"github.com/shiftline-hq/shiftline-client/pkg/api"
	"github.com/shiftline-hq/shiftline-client/pkg/client"
	"github.com/shiftline-hq/shiftline-client/pkg/publishers"
)

// Relay is the notification relay runtime. It owns the poll loop, the API
// client, the publishers and the local store, and releases them on exit.
type Relay struct {
	cfg          *config.Config
	client       *client.Client
	fanout       *publishers.Fanout
	service      *relay.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
	metrics      *metrics.RelayMetrics
	gatherer     prometheus.Gatherer
}

// NewRelay builds a relay runtime from config files.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	apiCfg, err := APIConfig(cfg)
	if err != nil {
		return nil, err
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		NotificationTTL: cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"notification_ttl_seconds": int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	apiClient, err := client.New(apiCfg,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithSessionStore(store),
		client.WithLogger(log),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Relay{
		cfg:          cfg,
		client:       apiClient,
		fanout:       fanout,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
		metrics:      metrics.NewRelayMetrics(promReg),
		gatherer:     promReg,
	}
	r.service = relay.NewService(apiClient, fanout, store, r.reauthenticate, log, relay.Options{
		Source:   apiCfg.BaseURL(),
		Limit:    cfg.PollLimit,
		MarkRead: cfg.MarkRead,
	})
	return r, nil
}

// APIConfig builds the API descriptor from the loaded configuration,
// applying the endpoint override file when one is configured.
func APIConfig(cfg *config.Config) (*api.Config, error) {
	endpoints, err := api.LoadEndpoints(cfg.EndpointsFile)
	if err != nil {
		return nil, fmt.Errorf("load endpoints: %w", err)
	}
	apiCfg, err := api.NewConfig(cfg.APIURL, endpoints, api.DefaultHeaders())
	if err != nil {
		return nil, fmt.Errorf("api config: %w", err)
	}
	return apiCfg, nil
}

// Run starts the poll loop until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.service == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.close()

	if err := r.ensureSession(ctx); err != nil {
		return err
	}
	if r.cfg.MetricsAddr != "" {
		stopMetrics := r.serveMetrics(r.cfg.MetricsAddr)
		defer stopMetrics()
	}

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"api_url":          r.client.Config().BaseURL(),
		"publishers_count": r.fanout.Size(),
		"poll_interval":    r.pollInterval.String(),
		"mark_read":        r.cfg.MarkRead,
	})

	if err := r.runOnce(ctx); err != nil {
		r.log.ErrorObj("initial relay pass failed", "error", err)
	}

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := r.runOnce(ctx); err != nil {
				r.log.ErrorObj("scheduled relay pass failed", "error", err)
			}
		}
	}
}

// runOnce performs a single relay pass.
func (r *Relay) runOnce(ctx context.Context) error {
	start := time.Now()
	sum, err := r.service.RunOnce(ctx)
	r.metrics.ObservePass(time.Since(start), sum.Published, sum.Failed, err)
	r.log.InfoObj("relay pass finished", "relay_meta", map[string]any{
		"fetched":    sum.Fetched,
		"published":  sum.Published,
		"failed":     sum.Failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

// serveMetrics exposes the relay metrics on addr until the returned func is called.
func (r *Relay) serveMetrics(addr string) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.Handler(r.gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.log.ErrorObj("metrics server failed", "error", err)
		}
	}()
	r.log.InfoObj("metrics server listening", "metrics_addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			r.log.WarnObj("metrics server shutdown failed", "error", err)
		}
	}
}

// ensureSession makes sure the first poll carries a usable session: an
// expired stored session is re-authenticated, a missing one is created with
// the configured relay credentials.
func (r *Relay) ensureSession(ctx context.Context) error {
	session, ok, err := r.client.CurrentSession()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if ok {
		if session.Valid(time.Now()) {
			return nil
		}
		r.log.InfoObj("stored session expired", "relay_auth", map[string]any{
			"expires_at": session.ExpiresAt,
		})
		return r.reauthenticate(ctx)
	}
	if r.cfg.RelayEmail == "" {
		return fmt.Errorf("no stored session and RELAY_EMAIL is not set")
	}
	return r.login(ctx)
}

// reauthenticate refreshes the session, falling back to a fresh login.
func (r *Relay) reauthenticate(ctx context.Context) error {
	_, refreshErr := r.client.Refresh(ctx)
	if refreshErr == nil {
		r.log.InfoObj("session refreshed", "relay_auth", map[string]any{"method": "refresh"})
		return nil
	}
	if r.cfg.RelayEmail == "" {
		return refreshErr
	}
	if err := r.login(ctx); err != nil {
		return errors.Join(refreshErr, err)
	}
	return nil
}

func (r *Relay) login(ctx context.Context) error {
	session, err := r.client.Login(ctx, domain.Credentials{
		Email:    r.cfg.RelayEmail,
		Password: r.cfg.RelayPassword,
	})
	if err != nil {
		return fmt.Errorf("relay login: %w", err)
	}
	r.log.InfoObj("relay logged in", "relay_auth", map[string]any{
		"method":     "login",
		"expires_at": session.ExpiresAt,
	})
	return nil
}

// close releases publishers and the storage backend, logging any errors encountered.
func (r *Relay) close() {
	if r == nil {
		return
	}
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publishers close failed", "error", err)
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.ErrorObj("storage close failed", "error", err)
		}
	}
}
