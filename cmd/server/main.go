package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/MitroiBogdan/NEXAR/internal/config"
	"github.com/MitroiBogdan/NEXAR/internal/http/health"
	"github.com/MitroiBogdan/NEXAR/internal/http/v1/routes"
	"github.com/MitroiBogdan/NEXAR/internal/migrate"
	"github.com/MitroiBogdan/NEXAR/internal/platform/auth"
	"github.com/MitroiBogdan/NEXAR/internal/platform/firebase"
	applog "github.com/MitroiBogdan/NEXAR/internal/platform/logging"
	"github.com/MitroiBogdan/NEXAR/internal/platform/metrics"
	appmiddleware "github.com/MitroiBogdan/NEXAR/internal/platform/middleware"
	"github.com/MitroiBogdan/NEXAR/internal/platform/respond"
	profilesvc "github.com/MitroiBogdan/NEXAR/internal/service/profile"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const docsPath = "/api-docs"

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}
	if err := run(context.Background()); err != nil {
		applog.LogError(context.Background(), "server failed", err)
		_ = applog.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	applog.SetLevel(cfg.LogLevel)
	if cfg.Firebase.ProjectID != "" {
		applog.SetProjectID(cfg.Firebase.ProjectID)
	}
	respond.Install()

	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	router, _ := newRouter(cfg, deps)
	srv := newHTTPServer(cfg.Port, router)

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(ctx, "server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return err
	case <-stop:
		applog.LogInfo(ctx, "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(ctx, "server exited")
	return nil
}

// dependencies are the collaborators selected by configuration.
type dependencies struct {
	verifier auth.Verifier
	service  *profilesvc.Service
	ready    map[string]health.Pinger
	closers  []func()
}

// Close releases the dependencies in reverse order of creation.
func (d *dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// buildDependencies connects the configured store, token verifier and name
// cache. Without a Firebase project every bearer token is rejected, so only
// public reads work.
func buildDependencies(ctx context.Context, cfg *config.Config) (_ *dependencies, err error) {
	deps := &dependencies{
		verifier: &auth.MockVerifier{},
		ready:    map[string]health.Pinger{},
	}
	defer func() {
		if err != nil {
			deps.Close()
		}
	}()

	var store profilesvc.Store
	if cfg.Firebase.ProjectID != "" {
		clients, err := firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		}, cfg.Store == config.StoreFirestore)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, func() { _ = clients.Close() })
		deps.verifier = auth.NewFirebaseVerifier(clients.Auth)
		if clients.Firestore != nil {
			store = profilesvc.NewFirestoreStore(clients.Firestore)
		}
	}

	switch cfg.Store {
	case config.StorePostgres:
		if cfg.Postgres.Migrate {
			if err := migrate.Up(ctx, cfg.Postgres.DSN); err != nil {
				return nil, err
			}
		}
		pool, err := profilesvc.OpenPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, pool.Close)
		pg := profilesvc.NewPostgresStore(pool)
		deps.ready["postgres"] = pg
		store = pg
	case config.StoreMemory:
		store = profilesvc.NewMemoryStore()
	}

	var opts []profilesvc.Option
	if cfg.Redis.Enabled {
		client, err := profilesvc.ConnectRedis(ctx, profilesvc.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, func() { _ = client.Close() })
		cache := profilesvc.NewRedisNameCache(client)
		deps.ready["redis"] = cache
		opts = append(opts, profilesvc.WithNameCache(cache))
	}

	deps.service = profilesvc.NewService(store, auth.ContextIdentity{}, opts...)
	return deps, nil
}

func newRouter(cfg *config.Config, deps *dependencies) (chi.Router, huma.API) {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security(docsPath),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.CORSOrigins...),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger(),
		respond.Recoverer(),
	)

	router.Get("/health", health.Handler)
	router.Get("/health/ready", health.Readiness(deps.ready))
	router.Handle(cfg.MetricsPath, metrics.Handler())

	humaCfg := huma.DefaultConfig("NEXAR Profile API", Version)
	humaCfg.DocsPath = docsPath
	api := humachi.New(router, humaCfg)
	addCBORContent(api)

	routes.Register(api, deps.verifier, deps.service)
	return router, api
}

// addCBORContent advertises application/cbor wherever an operation accepts
// or returns JSON.
func addCBORContent(api huma.API) {
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			if op.RequestBody != nil && op.RequestBody.Content != nil {
				if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
					op.RequestBody.Content["application/cbor"] = jsonContent
				}
			}
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)
}

func newHTTPServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}
