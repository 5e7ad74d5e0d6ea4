package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	httpcontext "github.com/dtroode/recipe-server/internal/api/http/context"
	"github.com/dtroode/recipe-server/internal/api/http/router"
	httpserver "github.com/dtroode/recipe-server/internal/api/http/server"
	rediscache "github.com/dtroode/recipe-server/internal/cache/redis"
	"github.com/dtroode/recipe-server/internal/config"
	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/model"
	"github.com/dtroode/recipe-server/internal/password"
	"github.com/dtroode/recipe-server/internal/repository/postgres"
	"github.com/dtroode/recipe-server/internal/server"
	"github.com/dtroode/recipe-server/internal/service"
	storage "github.com/dtroode/recipe-server/internal/storage/minio"
	"github.com/dtroode/recipe-server/internal/token"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.WaitTimeout, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}

	var tokenCache model.TokenCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		tokenCache = rediscache.NewTokenCache(redisClient, cfg.Redis.TokenTTL)
		logger.Info("token cache enabled", "addr", cfg.Redis.Addr)
	}

	userRepo := postgres.NewUserRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	tagRepo := postgres.NewTagRepository(db)
	ingredientRepo := postgres.NewIngredientRepository(db)
	recipeRepo := postgres.NewRecipeRepository(db)

	userService := service.NewUser(userRepo, password.NewBcrypt(cfg.Password.BcryptCost), logger)
	tokenService := service.NewToken(token.NewJWT(cfg.JWT.Secret), tokenRepo, tokenCache, logger)
	tagService := service.NewCatalog(model.KindTag, tagRepo, logger)
	ingredientService := service.NewCatalog(model.KindIngredient, ingredientRepo, logger)
	recipeService := service.NewRecipe(recipeRepo, tagRepo, ingredientRepo, db, storageClient, logger)

	r := router.New(userService, tokenService, recipeService, tagService, ingredientService,
		httpcontext.NewManager(),
		router.Options{
			MediaURL:        cfg.Storage.PublicURL,
			MaxUploadBytes:  cfg.HTTP.MaxUploadBytes,
			AllowedOrigins:  cfg.CORS.AllowedOrigins,
			RateLimitCount:  cfg.RateLimit.Requests,
			RateLimitWindow: cfg.RateLimit.Window,
		},
		logger,
	)
	httpServer := httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout)

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
	return nil
}
