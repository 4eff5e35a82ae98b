package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"

	"github.com/sgmproject/sgm/internal/adapters/http/api"
	"github.com/sgmproject/sgm/internal/adapters/ingest"
	"github.com/sgmproject/sgm/internal/adapters/repository"
	"github.com/sgmproject/sgm/internal/app"
	"github.com/sgmproject/sgm/internal/config"
	"github.com/sgmproject/sgm/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Only the custom registry is served; the default Go collectors
	// would duplicate what the pipeline metrics already cover.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := buildStore(ctx, cfg, log)
	if err != nil {
		// A dead database is not fatal: reads degrade to sample data
		// and writes are retried next run.
		log.Warn(ctx, "store unavailable at startup; continuing degraded", logger.Error(err))
		store = repository.NewFallback(repository.NewMemoryStore(), log.Named("store"))
	}

	svc := app.New(
		app.WithLogger(log.Named("app")),
		app.WithStore(store),
		app.WithGDELT(ingest.NewGDELTClient(log.Named("gdelt"), ingest.WithGDELTBaseURL(cfg.GDELTBaseURL))),
		app.WithACLED(ingest.NewACLEDClient(cfg.ACLEDKey, cfg.ACLEDEmail, log.Named("acled"), ingest.WithACLEDBaseURL(cfg.ACLEDBaseURL))),
		app.WithDaysBack(cfg.DaysBack),
		app.WithFetchLimit(cfg.FetchLimit),
		app.WithRunInterval(cfg.RunInterval),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxListLimit)
	apiServer.Register(ctx, mux)

	// The map frontend is served from another origin.
	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// buildStore constructs the configured score store wrapped with
// sample-data fallback semantics.
func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, error) {
	storeLog := log.Named("store")
	if cfg.StoreBackend == config.StoreMemory {
		return repository.NewFallback(repository.NewMemoryStore(), storeLog), nil
	}
	mongoStore, err := repository.NewMongoStore(ctx, cfg.MongoURI,
		repository.WithDatabase(cfg.MongoDatabase),
		repository.WithScoresCollection(cfg.ScoresCollection),
		repository.WithEventsCollection(cfg.EventsCollection),
	)
	if err != nil {
		return nil, err
	}
	return repository.NewFallback(mongoStore, storeLog), nil
}
