// @title Basket Service API
// @version 1.0
// @description Internal API for grocery catalog lookups, basket pricing and multi-store optimization.
// @BasePath /internal
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Internal-API-Key
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kosarica/basket-service/config"
	_ "github.com/kosarica/basket-service/docs"
	"github.com/kosarica/basket-service/internal/basket"
	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/database"
	"github.com/kosarica/basket-service/internal/fetch"
	"github.com/kosarica/basket-service/internal/handlers"
	"github.com/kosarica/basket-service/internal/middleware"
	"github.com/kosarica/basket-service/internal/parsers"
	"github.com/kosarica/basket-service/internal/recognition"
	"github.com/kosarica/basket-service/internal/storage"
	"github.com/kosarica/basket-service/internal/sweepers"
	"github.com/kosarica/basket-service/internal/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)
	log.Logger = *logger

	logger.Info().Str("version", version).Msg("Starting basket service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		Endpoint:       cfg.Telemetry.Endpoint,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Environment:    os.Getenv("ENVIRONMENT"),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	loader, err := catalogLoader(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to set up catalog source")
	}
	defer database.Close()

	provider := catalog.NewProvider(loader, catalog.ProviderOptions{
		LoadTimeout: cfg.Catalog.LoadTimeout,
		TTL:         cfg.Catalog.TTL,
		Breaker:     catalog.DefaultCircuitBreakerConfig(),
	})
	if _, err := provider.Refresh(ctx); err != nil {
		// Serve anyway; health reports degraded until a refresh succeeds.
		logger.Error().Err(err).Msg("Initial catalog load failed")
	}
	if cfg.Catalog.RefreshInterval > 0 {
		go provider.Run(ctx, cfg.Catalog.RefreshInterval)
	}

	store, err := storage.New(storage.Config{
		Type:      storage.StorageType(cfg.Storage.Type),
		BasePath:  cfg.Storage.BasePath,
		RedisAddr: cfg.Redis.Addr,
		RedisDB:   cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open basket storage")
	}
	if c, ok := store.(io.Closer); ok {
		defer c.Close()
	}
	logger.Info().Str("type", cfg.Storage.Type).Msg("Basket storage ready")

	baskets := basket.NewRepository(store)
	if cfg.Storage.BasketTTL > 0 && cfg.Storage.SweepInterval > 0 {
		sweepLogger := logger.With().Str("component", "basket_sweeper").Logger()
		sweeper := sweepers.NewBasketSweeper(baskets, &sweepLogger, cfg.Storage.BasketTTL, cfg.Storage.SweepInterval)
		go sweeper.Start(ctx)
	}

	handlers.InitPricing(provider, &cfg.Optimizer)
	handlers.InitBaskets(baskets)
	handlers.InitRecognition(recognition.Chain{
		recognition.NewBarcodeRecognizer(provider),
		recognition.NewTextRecognizer(provider, 0),
	})

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.Burst,
	})
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := limiter.Cleanup(10 * time.Minute); n > 0 {
					logger.Debug().Int("removed", n).Msg("Dropped idle rate limiters")
				}
			}
		}
	}()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(*logger))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := router.Group("/internal")
	internal.Use(middleware.APIKeyAuth(cfg.Server.APIKey))
	internal.Use(middleware.RateLimit(limiter))
	handlers.RegisterRoutes(internal)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
}

// catalogLoader builds the snapshot loader for the configured source. The
// database source connects the global pool and applies the schema.
func catalogLoader(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (catalog.Loader, error) {
	switch cfg.Catalog.Source {
	case "database":
		dbURL := config.GetDatabaseURL()
		if dbURL == "" {
			return nil, fmt.Errorf("DATABASE_URL not set")
		}
		if err := database.Connect(ctx, database.PoolConfig{
			URL:         dbURL,
			MaxConns:    cfg.Database.MaxConnections,
			MinConns:    cfg.Database.MinConnections,
			MaxLifetime: cfg.Database.MaxConnLifetime,
			MaxIdleTime: cfg.Database.MaxConnIdleTime,
		}); err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, database.Pool()); err != nil {
			return nil, err
		}
		logger.Info().Msg("Database connected")
		return database.NewCatalogRepository(database.Pool()), nil
	default:
		logger.Info().Strs("files", cfg.Catalog.Files).Bool("strict", cfg.Catalog.Strict).Msg("Loading catalog from files")
		fetcher := fetch.NewClient(cfg.Catalog.Fetch.ClientConfig())
		return parsers.NewFileLoader(cfg.Catalog.Strict, cfg.Catalog.Files...).WithFetcher(fetcher), nil
	}
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "basket-service").Logger()
	zerolog.SetGlobalLevel(level)
	return &logger
}
