package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nishantgupta83/mindful-living-search/internal/api"
	"github.com/nishantgupta83/mindful-living-search/internal/search/concept"
	"github.com/nishantgupta83/mindful-living-search/internal/search/engine"
	"github.com/nishantgupta83/mindful-living-search/internal/store/content"
	"github.com/nishantgupta83/mindful-living-search/internal/store/freshness"
	"github.com/nishantgupta83/mindful-living-search/pkg/config"
	"github.com/nishantgupta83/mindful-living-search/pkg/health"
	"github.com/nishantgupta83/mindful-living-search/pkg/kafka"
	"github.com/nishantgupta83/mindful-living-search/pkg/logger"
	"github.com/nishantgupta83/mindful-living-search/pkg/metrics"
	pkgpostgres "github.com/nishantgupta83/mindful-living-search/pkg/postgres"
	pkgredis "github.com/nishantgupta83/mindful-living-search/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := pkgpostgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("content store unavailable", "error", err)
		os.Exit(1)
	}
	defer pg.Close()
	corpus := content.NewPostgres(pg)

	// redis holds only the freshness marker; losing it costs one extra
	// rebuild per restart, so the service degrades instead of failing
	var freshStore freshness.Store
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, freshness marker will not survive restarts", "error", err)
		freshStore = freshness.NewMemory()
	} else {
		defer redisClient.Close()
		freshStore = freshness.NewRedis(redisClient)
	}

	graph := concept.Default()
	if cfg.Engine.ConceptTablePath != "" {
		graph, err = concept.LoadFile(cfg.Engine.ConceptTablePath)
		if err != nil {
			slog.Error("loading concept table", "path", cfg.Engine.ConceptTablePath, "error", err)
			os.Exit(1)
		}
		slog.Info("concept table loaded", "path", cfg.Engine.ConceptTablePath, "terms", graph.Size())
	}

	var m *metrics.Metrics
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	engineOpts := []engine.Option{}
	if m != nil {
		engineOpts = append(engineOpts, engine.WithMetrics(m))
	}
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka, cfg.Kafka.RebuildTopic)
		defer producer.Close()
		engineOpts = append(engineOpts, engine.WithNotifier(producer))
		slog.Info("rebuild notifications enabled", "topic", cfg.Kafka.RebuildTopic)
	}

	eng := engine.New(cfg.Engine, corpus, freshStore, graph, engineOpts...)
	defer eng.Close()
	eng.Restore(ctx)

	checker := health.NewChecker()
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := pg.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	if redisClient != nil {
		checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
			if err := redisClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		stats := eng.IndexStats()
		if !stats.IsIndexed {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "index not built yet"}
		}
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents, state %s", stats.DocumentCount, stats.State),
		}
	})

	handler := api.NewHandler(eng, m, 100)
	router := api.NewRouter(handler, checker, m, cfg.Server.RequestTimeout)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slog.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown", "error", err)
	}
	if metricsShutdown != nil {
		if err := metricsShutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown", "error", err)
		}
	}
	slog.Info("stopped")
}
