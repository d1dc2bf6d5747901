package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/shopdesk-backend/api/middleware"
	"github.com/angelmondragon/shopdesk-backend/api/routes"
	"github.com/angelmondragon/shopdesk-backend/pkg/config"
	"github.com/angelmondragon/shopdesk-backend/pkg/db"
	"github.com/angelmondragon/shopdesk-backend/pkg/instance"
	"github.com/angelmondragon/shopdesk-backend/pkg/logger"
	"github.com/angelmondragon/shopdesk-backend/pkg/mailer"
	"github.com/angelmondragon/shopdesk-backend/pkg/migrate"
	"github.com/angelmondragon/shopdesk-backend/pkg/redis"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage"
	"github.com/angelmondragon/shopdesk-backend/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient.Close)
	readiness := map[string]db.Pinger{"database": dbClient}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var rateLimiter middleware.RateLimitStore
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)
		rateLimiter = redisClient
		readiness["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis disabled, auth rate limiting is off")
	}

	var writer storage.ObjectWriter
	if cfg.GCS.Enabled() {
		gcsClient, err := gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
		if err != nil {
			return err
		}
		closers = append(closers, gcsClient.Close)
		writer = gcsClient
		readiness["gcs"] = gcsClient
	} else {
		logg.Warn(ctx, "gcs disabled, uploads will be rejected")
	}
	uploader := storage.NewUploader(writer, cfg.GCS.BucketName, cfg.GCS.PublicBaseURL, cfg.Upload.MaxBytes())

	renderer, err := mailer.NewRenderer("ShopDesk")
	if err != nil {
		return err
	}

	services, err := buildServices(cfg, dbClient, uploader, mailer.New(cfg.SMTP, logg), renderer, logg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:      cfg,
			Logger:      logg,
			RateLimiter: rateLimiter,
			Registry:    registry,
			Readiness:   readiness,
			Services:    services,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
