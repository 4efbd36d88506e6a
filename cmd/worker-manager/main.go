// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"woundcare-workers/internal/catalogstore"
	"woundcare-workers/internal/clinical/assessment"
	"woundcare-workers/internal/common/aws"
	"woundcare-workers/internal/common/camunda"
	"woundcare-workers/internal/common/config"
	"woundcare-workers/internal/common/database"
	"woundcare-workers/internal/common/logger"
	"woundcare-workers/internal/common/observability"
	"woundcare-workers/internal/workers/clinical"

	at "woundcare-workers/internal/workers/clinical/analyze-tissue"
	aw "woundcare-workers/internal/workers/clinical/assess-wound"
	nua "woundcare-workers/internal/workers/clinical/notify-urgent-assessment"
	rp "woundcare-workers/internal/workers/clinical/recommend-products"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog, _ := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		zapLog, _ = logger.New("info", "console")
		zapLog.Warn("invalid logging config, using defaults", zap.Error(err))
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("ruleTable", cfg.Clinical.RuleTable),
		zap.String("catalogSource", cfg.Clinical.Catalog.Source),
	)

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Catalog dependencies, opened only when the configuration needs them ---
	deps := catalogstore.Deps{Logger: log}

	var pg *database.PostgresClient
	if cfg.Clinical.Catalog.Source == config.CatalogSourcePostgres {
		err = database.RetryWithBackoff(ctx, log, "PostgreSQL connection", 15, 2*time.Second, func(ctx context.Context) error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			return nil
		})
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		deps.DB = pg.DB
		zapLog.Info("PostgreSQL connected successfully")
	}

	var rdb *database.RedisClient
	if cfg.Clinical.Catalog.Cache.Enabled {
		rdb = database.NewRedis(cfg.Database.Redis)
		err = database.RetryWithBackoff(ctx, log, "Redis connection", 10, 2*time.Second, rdb.Ping)
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		deps.Redis = rdb.Client
		zapLog.Info("Redis connected successfully")
	}

	// --- Catalog and engines. A bad catalog stops startup. ---
	src, err := catalogstore.New(cfg.Clinical.Catalog, deps)
	if err != nil {
		zapLog.Fatal("catalog source config invalid", zap.Error(err))
	}
	loadCtx, cancelLoad := context.WithTimeout(ctx, 30*time.Second)
	cat, err := catalogstore.Load(loadCtx, src)
	cancelLoad()
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.String("source", src.Name()), zap.Error(err))
	}
	zapLog.Info("Catalog loaded",
		zap.String("source", src.Name()),
		zap.String("version", cat.Version()),
		zap.Int("products", cat.Len()),
	)

	engines, err := assessment.NewEngines(cfg.Clinical.RuleTable, cat)
	if err != nil {
		zapLog.Fatal("assessment engines init failed", zap.Error(err))
	}

	// --- Alert publisher ---
	var publisher nua.Publisher
	if cfg.Notifications.SNS.Enabled {
		snsPublisher, err := aws.NewAlertPublisher(ctx, cfg.Notifications.SNS.Region, cfg.Notifications.SNS.TopicARN)
		if err != nil {
			zapLog.Fatal("sns publisher init failed", zap.Error(err))
		}
		publisher = snsPublisher
		zapLog.Info("SNS alerts enabled", zap.String("topicArn", snsPublisher.TopicARN()))
	}

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(camunda.ConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	registry := camunda.NewRegistry(zeebe.GetClient(), log)

	assessHandler := aw.NewHandler(aw.LoadConfig(cfg), aw.Dependencies{Engines: engines, Observability: obs}, log)
	registry.Start(aw.TaskType, config.GetWorkerConfig(cfg, aw.TaskType), assessHandler.Handle)

	tissueHandler := at.NewHandler(at.LoadConfig(cfg), engines.Default(), log)
	registry.Start(at.TaskType, config.GetWorkerConfig(cfg, at.TaskType), tissueHandler.Handle)

	productsHandler := rp.NewHandler(rp.LoadConfig(cfg), engines.Default(), log)
	registry.Start(rp.TaskType, config.GetWorkerConfig(cfg, rp.TaskType), productsHandler.Handle)

	notifyHandler := nua.NewHandler(nua.LoadConfig(cfg), publisher, log)
	registry.Start(nua.TaskType, config.GetWorkerConfig(cfg, nua.TaskType), notifyHandler.Handle)

	zapLog.Info("Workers registered", zap.Strings("taskTypes", registry.TaskTypes()))

	// --- Health and metrics server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		status, code := "ready", http.StatusOK
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			status, code = "zeebe unavailable", http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status":         status,
			"workers":        registry.TaskTypes(),
			"ruleTable":      engines.Default().RuleTable().Version,
			"catalogVersion": cat.Version(),
			"time":           time.Now().Format(time.RFC3339),
		})
	})
	activities := clinical.Activities(cfg)
	mux.HandleFunc("/activities", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, activities)
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	registry.Close()
	if err := zeebe.Close(); err != nil {
		zapLog.Warn("zeebe client close failed", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("Health/Metrics server shutdown failed", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Warn("observability shutdown failed", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped")
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
