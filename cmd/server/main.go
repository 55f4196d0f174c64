// Package main implements the Cx gateway's server entry point. It wires
// C1 (the cache processor), C2 (the HSS connection or its Postgres
// fallback), C3/C4 (the task engine), and C5 (the router notifier) behind
// a chi router, following the phased bootstrap and graceful-shutdown
// structure of the teacher's cmd/server/main.go.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/clearwater-hss/cx-gateway/config"
	"github.com/clearwater-hss/cx-gateway/internal/cache"
	"github.com/clearwater-hss/cx-gateway/internal/cache/badgerbackend"
	"github.com/clearwater-hss/cx-gateway/internal/cache/redisbackend"
	httphandler "github.com/clearwater-hss/cx-gateway/internal/delivery/http"
	"github.com/clearwater-hss/cx-gateway/internal/domain"
	"github.com/clearwater-hss/cx-gateway/internal/health"
	"github.com/clearwater-hss/cx-gateway/internal/hss"
	"github.com/clearwater-hss/cx-gateway/internal/hss/fallback"
	"github.com/clearwater-hss/cx-gateway/internal/hss/transport"
	gatewaymiddleware "github.com/clearwater-hss/cx-gateway/internal/middleware"
	"github.com/clearwater-hss/cx-gateway/internal/metrics"
	"github.com/clearwater-hss/cx-gateway/internal/routernotify"
	"github.com/clearwater-hss/cx-gateway/internal/task"
	"github.com/clearwater-hss/cx-gateway/internal/telemetry"
)

func main() {
	var configPath string
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// PHASE 1: configuration and logging.
	cfg := config.MustLoad(configPath)

	logger := mustBuildLogger(cfg.Logging)
	defer logger.Sync()

	// PHASE 2: tracing.
	tel, err := telemetry.New(context.Background(), telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		logger.Fatal("failed to set up telemetry", zap.Error(err))
	}
	defer tel.Shutdown(context.Background())

	// PHASE 3: metrics.
	m := metrics.New()

	// PHASE 4: cache backend selection and C1's processor (§4.1, §6).
	backend, closeBackend := mustBuildCacheBackend(cfg.Cache, logger)
	defer closeBackend()

	processor := cache.NewProcessor(backend, cache.ProcessorConfig{
		WorkerCount: cfg.Cache.WorkerCount,
		QueueDepth:  cfg.Cache.QueueDepth,
	}, logger, m)
	defer processor.Close()

	// PHASE 5: C2, the HSS connection or its provisioning-store fallback
	// (OQ-4, §6's hss_configured).
	hssConn, closeHSS := mustBuildHSSConnection(cfg.HSS, logger, m)
	defer closeHSS()

	// PHASE 6: C5, the router notifier (§4.5).
	router := routernotify.New(routernotify.Config{
		BaseURL: cfg.Router.BaseURL,
		Timeout: cfg.Router.Timeout,
	}, telemetry.WrapClient(&http.Client{Timeout: cfg.Router.Timeout}), logger)

	healthChecker := health.New(2 * cfg.HSS.HSSReregistrationTime)

	// PHASE 7: the task engine's shared collaborators (C3/C4).
	deps := &task.Deps{
		Cache:   processor,
		HSS:     hssConn,
		Router:  router,
		Health:  healthChecker,
		Logger:  logger,
		Metrics: m,
		Config: task.Config{
			Realm:                 cfg.HSS.Realm,
			RecordTTL:             int(cfg.Cache.RecordTTL.Seconds()),
			HSSReregistrationTime: int(cfg.HSS.HSSReregistrationTime.Seconds()),
			SupportSharedIFCs:     cfg.HSS.SupportSharedIFCs,
			SchemeDigest:          cfg.HSS.Schemes.Digest,
			SchemeAKAv1:           cfg.HSS.Schemes.AKAv1,
			SchemeAKAv2:           cfg.HSS.Schemes.AKAv2,
			SchemeUnknown:         cfg.HSS.Schemes.Unknown,
		},
	}

	// PHASE 8: middleware.
	overload := gatewaymiddleware.NewOverloadMiddleware(m, 100, time.Second)
	defer overload.Stop()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(gatewaymiddleware.NewLoggingMiddleware(logger))
	r.Use(gatewaymiddleware.NewCORSMiddleware())
	r.Use(overload.Handler)
	r.Use(chimw.Timeout(10 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if !healthChecker.IsHealthy() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Mount("/", telemetry.WrapServer("cx-gateway", httphandler.NewRouter(deps)))

	// PHASE 9: serve with graceful shutdown.
	srv := &http.Server{Addr: cfg.ServerAddr(), Handler: r}

	go func() {
		logger.Info("cx gateway listening", zap.String("addr", cfg.ServerAddr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func mustBuildLogger(cfg config.LoggingConfig) *zap.Logger {
	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err == nil {
		zcfg.Level = level
	}
	logger, err := zcfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

// mustBuildCacheBackend selects redis or badger per cfg.Backend and returns
// a closer that releases the underlying client/DB.
func mustBuildCacheBackend(cfg config.CacheConfig, logger *zap.Logger) (cache.Backend, func()) {
	switch cfg.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		backend := redisbackend.New(client, redisbackend.Config{
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.RecordTTL,
		}, logger)
		return backend, func() { client.Close() }

	default:
		db, err := badger.Open(badger.DefaultOptions(cfg.Badger.Dir).WithLogger(nil))
		if err != nil {
			logger.Fatal("failed to open badger cache", zap.Error(err))
		}
		return badgerbackend.New(db), func() { db.Close() }
	}
}

// mustBuildHSSConnection selects the live Diameter connection or the
// Postgres provisioning-store fallback per cfg.Configured (OQ-4).
func mustBuildHSSConnection(cfg config.HSSConfig, logger *zap.Logger, m *metrics.Metrics) (domain.HSSConnection, func()) {
	if !cfg.Configured {
		pool, err := pgxpool.New(context.Background(), cfg.Fallback.DSN)
		if err != nil {
			logger.Fatal("failed to connect to fallback provisioning store", zap.Error(err))
		}
		return fallback.New(pool, cfg.Fallback.ServerName, logger), func() { pool.Close() }
	}

	// The production binary supplies a real transport.Client against the
	// Diameter stack here (OQ-5); none ships in this pack.
	client := &transport.Fake{}
	conn := hss.New(client, hss.Schemes{
		Digest: cfg.Schemes.Digest,
		AKAv1:  cfg.Schemes.AKAv1,
		AKAv2:  cfg.Schemes.AKAv2,
	}, logger, m)
	return conn, func() {}
}
