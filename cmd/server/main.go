// Command server runs the identity service: credential registration and
// login, token-gated routes, and the operational endpoints around them.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/adminhub/identity-service/internal/api"
	"github.com/adminhub/identity-service/internal/api/handler"
	"github.com/adminhub/identity-service/internal/core/secret"
	"github.com/adminhub/identity-service/internal/core/service"
	"github.com/adminhub/identity-service/internal/core/token"
	"github.com/adminhub/identity-service/internal/infrastructure/config"
	mongodb "github.com/adminhub/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/adminhub/identity-service/internal/infrastructure/db/redis"
	"github.com/adminhub/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Core wiring ---
	directory := redisdb.NewIdentityCache(
		mongodb.NewUserDirectory(db), rdb, cfg.Redis.CacheTTL, log)
	hasher := secret.NewHasher(cfg.BcryptCost)
	codec := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(directory, hasher, codec)

	e := api.NewRouter(api.RouterConfig{
		Directory:      directory,
		AuthService:    authService,
		Codec:          codec,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
		Log:            log,
		Readiness: []handler.DependencyChecker{
			{Name: "mongodb", Check: func(ctx context.Context) error {
				return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
			}},
			{Name: "redis", Check: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}},
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("identity service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
