package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ota-reconciliation-backend/internal/cache"
	"ota-reconciliation-backend/internal/config"
	"ota-reconciliation-backend/internal/models"
	"ota-reconciliation-backend/internal/repository"
	service "ota-reconciliation-backend/internal/services/reconciliation"
	"ota-reconciliation-backend/internal/routes"
)

func serveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a.cfg)
		},
	}
}

func buildService(ctx context.Context, cfg *config.Config) (*service.ReconciliationService, func(), error) {
	var (
		opts    []service.Option
		closers []func()
	)

	if cfg.DatabaseURL != "" {
		db, err := config.InitDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := db.AutoMigrate(&models.ReconciliationRun{}, &models.MatchAuditLog{}); err != nil {
			return nil, nil, err
		}
		opts = append(opts, service.WithHistory(
			repository.NewRunRepository(db),
			repository.NewMatchAuditLogRepository(db),
		))
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}
	} else {
		logrus.Warn("OTARECON_DATABASE_URL not set, run history disabled")
	}

	c, err := cache.NewCache(ctx, cfg.RedisAddr, time.Minute)
	if err != nil {
		logrus.WithError(err).Warn("redis unavailable, using in-process cache only")
		if c, err = cache.NewCache(ctx, "", time.Minute); err != nil {
			return nil, nil, err
		}
	}
	closers = append(closers, func() { _ = c.Close() })
	opts = append(opts, service.WithCache(c, cfg.CacheTTL))

	cleanup := func() {
		for _, fn := range closers {
			fn()
		}
	}
	return service.NewReconciliationService(opts...), cleanup, nil
}

func newRouter(cfg *config.Config, svc *service.ReconciliationService) *gin.Engine {
	switch cfg.Env {
	case config.EnvDevelopment:
		gin.SetMode(gin.DebugMode)
	case config.EnvTest:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = cfg.MaxUploadBytes()

	routes.RegisterRoutes(r, svc, cfg.MaxUploadBytes())
	return r
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	svc, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("port", cfg.Port).Info("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
