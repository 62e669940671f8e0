package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"adminconsole/internal/api"
	"adminconsole/internal/cache"
	"adminconsole/internal/config"
	"adminconsole/internal/crypto"
	"adminconsole/internal/metrics"
	"adminconsole/internal/queries"
	"adminconsole/internal/session"
	"adminconsole/internal/storage"
	"adminconsole/internal/transport"
)

// ErrSignInRequired wraps session.ErrNoSession with a hint for the operator.
var ErrSignInRequired = fmt.Errorf("%w: run `adminctl login` first", session.ErrNoSession)

// App is the fully wired client: persisted state, session, query cache and the
// typed API behind it.
type App struct {
	Config  *config.Config
	Log     zerolog.Logger
	Metrics *metrics.Metrics
	Store   *storage.Store
	Session *session.Manager
	Cache   *cache.Cache
	API     *api.Client
	Queries *queries.Queries

	redis      *redis.Client
	metricsSrv *http.Server
}

func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log, Metrics: metrics.Global()}

	store, err := storage.Open(ctx, cfg.State.Driver, cfg.State.DSN, cfg.State.AutoMigrate)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	a.Store = store

	vault, err := newVault(cfg, store, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	cacheStore, err := a.newCacheStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Cache = cache.New(cache.Config{
		Store:     cacheStore,
		StaleTime: cfg.Cache.StaleTime,
		GCTime:    cfg.Cache.GCTime,
		Logger:    log.With().Str("component", "cache").Logger(),
		Metrics:   a.Metrics,
	})

	a.Session = session.New(session.Config{
		Store:  store,
		Vault:  vault,
		Logger: log.With().Str("component", "session").Logger(),
		OnClear: func(ctx context.Context) {
			if a.Queries == nil {
				return
			}
			if err := a.Queries.Reset(ctx); err != nil {
				log.Warn().Err(err).Msg("reset query cache")
			}
		},
	})

	tc, err := transport.New(transport.Config{
		BaseURL:     cfg.API.BaseURL,
		Credentials: a.Session,
		UserAgent:   cfg.API.UserAgent,
		HTTPClient:  &http.Client{Timeout: cfg.API.Timeout},
		Logger:      log.With().Str("component", "transport").Logger(),
		Metrics:     a.Metrics,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.API = api.New(tc, api.WithFallbackHook(func(candidate string, err error) {
		a.Metrics.Fallbacks.Inc()
		log.Warn().Err(err).Str("endpoint", candidate).Msg("endpoint failed, trying fallback")
	}))
	a.Session.Bind(a.API.Auth)
	a.Queries = queries.New(queries.Config{
		API:    a.API,
		Cache:  a.Cache,
		Logger: log.With().Str("component", "queries").Logger(),
	})

	if cfg.Metrics.Addr != "" {
		a.serveMetrics(cfg.Metrics.Addr)
	}
	return a, nil
}

func newVault(cfg *config.Config, store *storage.Store, log zerolog.Logger) (storage.TokenVault, error) {
	if cfg.State.Vault == config.VaultKeyring {
		return storage.NewKeyringVault("", ""), nil
	}
	var sealer *crypto.Sealer
	if len(cfg.Crypto.Keys) > 0 {
		s, err := crypto.NewSealer(cfg.Crypto.CurrentKeyID, cfg.Crypto.Keys)
		if err != nil {
			return nil, fmt.Errorf("init token sealer: %w", err)
		}
		sealer = s
	}
	return storage.NewDBVault(store, sealer, log.With().Str("component", "vault").Logger()), nil
}

func (a *App) newCacheStore(ctx context.Context) (cache.Store, error) {
	if a.Config.Cache.Backend != config.CacheRedis {
		return cache.NewMemoryStore(), nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.redis = rdb
	return cache.NewRedisStore(rdb, a.Config.Redis.Prefix), nil
}

func (a *App) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	a.metricsSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.Log.Info().Str("addr", addr).Msg("metrics server started")
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Error().Err(err).Msg("metrics server")
		}
	}()
}

// RequireSession restores the persisted session and drops tokens whose exp
// claim has already passed.
func (a *App) RequireSession(ctx context.Context) (*session.User, error) {
	u, err := a.Session.Restore(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil, ErrSignInRequired
	}
	if err != nil {
		return nil, err
	}
	if a.Session.Expired(time.Now()) {
		_ = a.Session.Logout(ctx)
		return nil, fmt.Errorf("session expired: %w", ErrSignInRequired)
	}
	return u, nil
}

// Close waits for background cache refreshes, then releases everything Open acquired.
func (a *App) Close() error {
	if a.Queries != nil {
		a.Queries.Wait()
	}
	var errs []error
	if a.metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.metricsSrv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("stop metrics server: %w", err))
		}
		cancel()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close state store: %w", err))
		}
	}
	return errors.Join(errs...)
}

type ctxKey struct{}

func WithContext(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the App stored by WithContext.
func FromContext(ctx context.Context) (*App, error) {
	a, ok := ctx.Value(ctxKey{}).(*App)
	if !ok || a == nil {
		return nil, errors.New("application is not initialized")
	}
	return a, nil
}
