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

	"meal-planner/internal/api"
	"meal-planner/internal/api/handlers/health"
	"meal-planner/internal/core/auth"
	"meal-planner/internal/core/catalog"
	"meal-planner/internal/core/planner"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/database"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "meal-planner: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("token_store", cfg.TokenStore.Type),
		zap.String("shopping_scope", cfg.Shopping.Scope),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	checks := map[string]health.Pinger{
		"database": health.PingerFunc(func(ctx context.Context) error { return database.Ping(ctx, db) }),
	}

	store, err := newRevocationStore(ctx, cfg, checks)
	if err != nil {
		return err
	}
	defer store.Close()

	maker, err := auth.NewJWTMaker(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		return err
	}

	plannerSvc := planner.NewService(db)
	router := api.SetupRouter(cfg, api.Dependencies{
		Auth:     auth.NewService(db, maker, store),
		Catalog:  catalog.NewService(db),
		Planner:  plannerSvc,
		Shopping: shopping.NewAggregator(plannerSvc),
		Checks:   checks,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		common.LogInfo("啟動應用",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		common.LogInfo("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		common.LogError("Server stopped", zap.Error(err))
		return err
	}
	common.LogInfo("Server exited")
	return nil
}

// newRevocationStore 依設定建立撤銷清單，Redis 模式會加入健康檢查
func newRevocationStore(ctx context.Context, cfg *config.Config, checks map[string]health.Pinger) (auth.RevocationStore, error) {
	switch cfg.TokenStore.Type {
	case "redis":
		store, err := auth.NewRedisRevocationStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		checks["redis"] = store
		return store, nil
	default:
		return auth.NewMemoryRevocationStore(cfg.TokenStore.MaxSize, cfg.TokenStore.CleanupInterval), nil
	}
}
