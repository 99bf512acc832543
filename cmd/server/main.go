package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/d60-Lab/marketplace/config"
	"github.com/d60-Lab/marketplace/internal/api"
	"github.com/d60-Lab/marketplace/internal/api/handler"
	"github.com/d60-Lab/marketplace/internal/cache"
	"github.com/d60-Lab/marketplace/internal/repository"
	"github.com/d60-Lab/marketplace/internal/service"
	"github.com/d60-Lab/marketplace/pkg/auth"
	"github.com/d60-Lab/marketplace/pkg/database"
	"github.com/d60-Lab/marketplace/pkg/logger"
	"github.com/d60-Lab/marketplace/pkg/monitor"
	"github.com/d60-Lab/marketplace/pkg/tracing"
)

var version = "dev"

// @title Marketplace API
// @version 1.0
// @description 二手交易平台后端，订单状态机与商品可售状态在同一事务内流转
// @BasePath /
func main() {
	configPath := pflag.StringP("config", "c", "", "config file path (default $CONFIG_PATH or config/config.yaml)")
	migrate := pflag.Bool("migrate", true, "auto-migrate schema on start")
	seed := pflag.Bool("seed", false, "insert demo users and products")
	swagger := pflag.Bool("swagger", true, "serve /swagger")
	pflag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		panic(err)
	}

	if err := logger.Init(cfg.Log); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Server.Name, cfg.Tracing)
	if err != nil {
		logger.Fatal("failed to init tracing", zap.Error(err))
	}
	sentryOn, err := monitor.Init(cfg.Sentry, version)
	if err != nil {
		logger.Fatal("failed to init sentry", zap.Error(err))
	}
	defer monitor.Flush()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer database.Close(db)

	if *migrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
	}
	if *seed {
		if err := database.Seed(db); err != nil {
			logger.Fatal("failed to seed database", zap.Error(err))
		}
	}

	var listCache service.ListCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer client.Close()
		listCache = cache.NewOrderListCache(client, cfg.Redis.CacheTTL)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	maxLimit := cfg.Order.ListMaxLimit

	orderService := service.NewOrderService(db, orderRepo, productRepo, repository.NewStatusLogRepository(db), listCache, service.OrderServiceConfig{
		ExclusivePending: cfg.Order.ExclusivePending,
		ListDefaultLimit: cfg.Order.ListDefaultLimit,
		ListMaxLimit:     cfg.Order.ListMaxLimit,
	})
	h := handler.New(
		orderService,
		service.NewProductService(db, productRepo, orderRepo, userRepo, maxLimit),
		service.NewUserService(userRepo, tokens),
		service.NewReviewService(repository.NewReviewRepository(db), orderRepo),
		service.NewMessageService(repository.NewMessageRepository(db), orderRepo),
		service.NewAnnouncementService(repository.NewAnnouncementRepository(db), maxLimit),
		service.NewReportService(repository.NewReportRepository(db), userRepo, productRepo, orderRepo, maxLimit),
		db,
	)
	if err := handler.RegisterValidators(); err != nil {
		logger.Fatal("failed to register validators", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.SetupRouter(cfg, h, tokens, api.RouterOptions{Sentry: sentryOn, Swagger: *swagger}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
}
