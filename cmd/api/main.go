package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/secureapp/auth-api/internal/admission"
	"github.com/secureapp/auth-api/internal/api"
	"github.com/secureapp/auth-api/internal/audit"
	"github.com/secureapp/auth-api/internal/core/password"
	"github.com/secureapp/auth-api/internal/core/service"
	"github.com/secureapp/auth-api/internal/core/token"
	"github.com/secureapp/auth-api/internal/infrastructure/config"
	mongodb "github.com/secureapp/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/secureapp/auth-api/internal/infrastructure/db/redis"
	"github.com/secureapp/auth-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; this is a startup invariant violation.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	users := mongodb.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	policy, err := password.NewPolicy(cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("password policy initialisation failed")
	}

	codec, err := token.NewCodec(
		[]byte(cfg.AccessSecret),
		[]byte(cfg.RefreshSecret),
		cfg.AccessTTL,
		cfg.RefreshTTL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec initialisation failed")
	}

	auditor := audit.NewDispatcher(audit.NewLogSink(log), 0)
	defer auditor.Close()

	authService := service.NewAuthService(users, policy, codec, redisdb.NewRefreshTokenStore(rdb), auditor)

	gate := admission.NewGate(admission.Options{
		RateLimit:    cfg.RateLimitRequests,
		RateWindow:   cfg.RateLimitWindow,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, auditor)

	e := api.NewRouter(api.RouterConfig{
		AuthService:    authService,
		Gate:           gate,
		Mongo:          db,
		Redis:          rdb,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth api started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
