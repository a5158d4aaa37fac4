package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/blog-api/internal/config"
	"github.com/iliyamo/blog-api/internal/database"
	"github.com/iliyamo/blog-api/internal/handler"
	"github.com/iliyamo/blog-api/internal/logger"
	"github.com/iliyamo/blog-api/internal/queue"
	"github.com/iliyamo/blog-api/internal/repository"
	"github.com/iliyamo/blog-api/internal/router"
	"github.com/iliyamo/blog-api/internal/service"
	"github.com/iliyamo/blog-api/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg := logger.New()
	if err := lg.Init(cfg.LogLevel); err != nil {
		log.Fatalf("logger: %v", err)
	}
	zl := lg.Log
	defer func() { _ = zl.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()
	zl.Info("database connected", zap.String("host", cfg.DBHost), zap.String("name", cfg.DBName))

	if err := database.Migrate(db); err != nil {
		zl.Fatal("database migration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var events handler.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = service.NewRabbitPublisher(cfg.RabbitMQURL)
	}
	if cfg.EventsConsumerEnabled {
		go func() {
			if err := queue.StartBlogEventConsumer(ctx, cfg.RabbitMQURL, cfg.EventsLogPath, zl); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("blog event consumer stopped", zap.Error(err))
			}
		}()
	}

	e := router.NewServer(router.Deps{
		Log:        zl,
		Users:      repository.NewUserRepo(db),
		Blogs:      repository.NewBlogRepo(db),
		Tokens:     utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL()),
		Events:     events,
		BcryptCost: cfg.BcryptCost,
	})

	go func() {
		zl.Info("listening", zap.String("addr", cfg.Addr()), zap.String("env", cfg.Env))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
