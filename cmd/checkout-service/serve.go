package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-checkout-service/internal/app/background"
	"github.com/LavaJover/shvark-checkout-service/internal/app/setup"
	"github.com/LavaJover/shvark-checkout-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-checkout-service/internal/delivery/http/handlers"
	migrations "github.com/LavaJover/shvark-checkout-service/internal/infrastructure/migrate"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

const (
	shutdownTimeout     = 15 * time.Second
	healthProbeInterval = 10 * time.Second
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, the gRPC health endpoint and the background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrate, _ := cmd.Flags().GetBool("migrate")
			return serve(migrate)
		},
	}
	cmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")
	return cmd
}

func serve(runMigrations bool) error {
	cfg, logger := bootstrap()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("init dependencies: %w", err)
	}
	defer deps.Close()

	if runMigrations && deps.DB != nil {
		if err := migrations.RunMigrations(deps.DB, cfg.Migrations.Path, logger); err != nil {
			return err
		}
	}

	uc, err := setup.InitializeUseCases(ctx, deps)
	if err != nil {
		return fmt.Errorf("init usecases: %w", err)
	}
	defer uc.Tracker.Close()

	tasks := background.NewBackgroundTasks(uc.ChargeUsecase, deps.Subscriber, background.Config{
		SweepSchedule: cfg.Background.SweepSchedule,
		MinAge:        cfg.Background.MinAge,
		BatchSize:     cfg.Background.BatchSize,
		WebhookTopic:  cfg.KafkaService.WebhookTopic,
		GroupID:       cfg.KafkaService.GroupID,
	}, logger.WithField("component", "background"))
	if err := tasks.StartAll(ctx); err != nil {
		return fmt.Errorf("start background tasks: %w", err)
	}
	defer tasks.Stop()

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(&handlers.CheckoutHandler{
		ChargeUsecase:     uc.ChargeUsecase,
		SettlementUsecase: uc.SettlementUsecase,
		ProductUsecase:    uc.ProductUsecase,
		CartUsecase:       uc.CartUsecase,
		SettingsUsecase:   uc.SettingsUsecase,
		AdminUsecase:      uc.AdminUsecase,
		Logger:            logger.WithField("component", "http"),
	}, handlers.RouterConfig{
		AdminToken:    cfg.HTTPServer.AdminToken,
		WebhookSecret: cfg.HTTPServer.WebhookSecret,
		Gatherer:      deps.Registry,
	})
	if cfg.HTTPServer.AdminToken == "" {
		logger.Warn("admin token is not set, privileged routes will reject every request")
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	grpcServer := grpc.NewServer()
	health := grpcapi.NewHealthHandler(grpcServer, func(ctx context.Context) error {
		if deps.DB == nil {
			return nil
		}
		sqlDB, err := deps.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}, logger.WithField("component", "grpc"))
	go health.Watch(ctx, healthProbeInterval)

	lis, err := net.Listen("tcp", cfg.GRPCServer.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("gRPC server started on %s", cfg.GRPCServer.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()
	go func() {
		logger.Infof("HTTP server started on %s", cfg.HTTPServer.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errCh:
		logger.WithError(err).Error("server failed, shutting down")
	}

	health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("http shutdown")
	}
	grpcServer.GracefulStop()
	return err
}
