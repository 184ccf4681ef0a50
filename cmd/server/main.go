package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"smartplanning/backend/config"
	"smartplanning/backend/internal/api/handler"
	"smartplanning/backend/internal/api/router"
	"smartplanning/backend/internal/repository"
	"smartplanning/backend/internal/service"
	"smartplanning/backend/pkg/database"
	"smartplanning/backend/pkg/jwt"
	applogger "smartplanning/backend/pkg/logger"
	"smartplanning/backend/pkg/redis"
)

func main() {
	// 1. load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration failed: %v\n", err)
		os.Exit(1)
	}

	// 2. initialize logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting up",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. connect to PostgreSQL
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	// 3.1 run migrations
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("getting underlying sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. connect to Redis (optional: degrade instead of aborting)
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis connection failed, token blacklist disabled and edit sessions fall back to memory", zap.Error(err))
		rdb = nil
	}

	// 5. JWT manager
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. dependency injection: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	h := handler.NewHandler(svc)

	// 7. router
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// 9. wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
