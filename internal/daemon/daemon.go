package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/pointmoney/pointmoney/internal/api"
	"github.com/pointmoney/pointmoney/internal/app/actions"
	"github.com/pointmoney/pointmoney/internal/app/auth"
	"github.com/pointmoney/pointmoney/internal/app/ledger"
	"github.com/pointmoney/pointmoney/internal/app/withdrawal"
	"github.com/pointmoney/pointmoney/internal/domain"
	"github.com/pointmoney/pointmoney/internal/infra/observability"
	rediskv "github.com/pointmoney/pointmoney/internal/infra/redis"
	"github.com/pointmoney/pointmoney/internal/infra/sqlite"
	"github.com/pointmoney/pointmoney/internal/infra/storage"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 10 * time.Second

// Daemon is one assembled pointmoney process.
type Daemon struct {
	Config      Config
	Log         zerolog.Logger
	Backend     domain.KeyValueStore
	Store       *storage.Adapter
	Users       *auth.Registry
	Credentials *auth.Credentials
	Ledger      *ledger.Ledger
	Withdrawals *withdrawal.Registry
	Recorder    *observability.Recorder
	Service     *actions.Service

	closeBackend func() error
}

// New opens the configured backend and restores the registries from it.
func New(cfg Config, log zerolog.Logger) (*Daemon, error) {
	kv, closer, err := openBackend(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		Config:       cfg,
		Log:          log,
		Backend:      kv,
		Store:        storage.New(kv, log),
		Credentials:  auth.NewCredentials(),
		Recorder:     observability.NewRecorder(observability.DefaultRecorderConfig()),
		closeBackend: closer,
	}
	d.Users = auth.NewRegistry(d.Store, log)
	d.Ledger = ledger.New(d.Store, log)
	d.Withdrawals = withdrawal.NewRegistry(d.Store, log)
	d.Service = actions.New(d.Users, d.Credentials, d.Ledger, d.Withdrawals, d.Recorder, log)

	log.Info().Str("backend", cfg.Storage.Backend).Msg("registries restored")
	return d, nil
}

// openBackend returns the key-value store for cfg and its closer.
func openBackend(cfg StorageConfig, log zerolog.Logger) (domain.KeyValueStore, func() error, error) {
	switch cfg.Backend {
	case BackendSQLite:
		db, err := sqlite.Open(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		log.Debug().Str("path", db.Path()).Msg("sqlite backend open")
		return db, db.Close, nil

	case BackendRedis:
		rc := rediskv.DefaultConfig()
		rc.URL = cfg.RedisURL
		if cfg.RedisPrefix != "" {
			rc.Prefix = cfg.RedisPrefix
		}
		client, err := rediskv.NewClient(rc, log)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; running on in-memory state until it returns")
		}
		return client, client.Close, nil

	case BackendMemory:
		return storage.NewMemoryStore(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// Close releases the storage backend.
func (d *Daemon) Close() error {
	if d.closeBackend == nil {
		return nil
	}
	return d.closeBackend()
}

// Handler builds the HTTP API for this daemon.
func (d *Daemon) Handler() http.Handler {
	srv := api.NewServer(d.Service, api.NewTokenManager(d.Config.Auth.JWTSecret, d.Config.Auth.TTL()), d.Log)
	if d.Config.API.Metrics {
		srv.EnableMetrics()
	}
	return srv.Handler()
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down
// gracefully.
func (d *Daemon) Serve(ctx context.Context) error {
	if d.Config.Auth.JWTSecret == "" {
		d.Log.Warn().Msg("auth.jwt_secret not set; session tokens will not survive a restart")
	}
	httpSrv := &http.Server{
		Addr:              d.Config.API.Addr(),
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		d.Log.Info().Str("addr", httpSrv.Addr).Msg("API listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	d.Log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
