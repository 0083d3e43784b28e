package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sanjitr11/semiotic-logo-generator/config"
	"github.com/sanjitr11/semiotic-logo-generator/internal/bootstrap"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/cronjob"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/repository"
	"github.com/sanjitr11/semiotic-logo-generator/internal/branding/service"
	"github.com/sanjitr11/semiotic-logo-generator/internal/logging"
)

const serviceName = "semiotic-logo-generator"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level: cfg.App.LogLevel,
		File:  cfg.App.LogFile,
		JSON:  cfg.App.IsProduction(),
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var cache service.Cache
	if rdb != nil {
		defer rdb.Close()
		cache = repository.NewProjectCache(rdb, cfg.Redis.TTL)
		logger.Info("project cache enabled")
	}

	gen, metrics, err := bootstrap.NewGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return err
	}

	svc := service.New(repository.NewStore(db), gen, cache, logger)

	if cfg.Sweep.Enabled() {
		sched := cronjob.NewScheduler(svc, cfg.Sweep, logger)
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer sched.Stop()
	}

	r, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DB:             db,
		Redis:          rdb,
		Service:        svc,
		Metrics:        metrics,
		Log:            logger,
	})
	if err != nil {
		return err
	}

	// Full analysis runs four model calls, so writes get a long deadline.
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      15 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":     cfg.Server.Port,
			"provider": cfg.LLM.Provider,
			"env":      cfg.App.Environment,
		}).Info("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
