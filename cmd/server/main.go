package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/saveit/shopping-service/config"
	"github.com/saveit/shopping-service/internal/equivalency"
	"github.com/saveit/shopping-service/internal/handlers"
	"github.com/saveit/shopping-service/internal/httpclient"
	"github.com/saveit/shopping-service/internal/httpclient/ratelimit"
	"github.com/saveit/shopping-service/internal/llm"
	"github.com/saveit/shopping-service/internal/middleware"
	"github.com/saveit/shopping-service/internal/platform"
	"github.com/saveit/shopping-service/internal/recipe"
	"github.com/saveit/shopping-service/internal/savings"
	"github.com/saveit/shopping-service/internal/search"
	"github.com/saveit/shopping-service/internal/selector"
	"github.com/saveit/shopping-service/internal/shopping"
	"github.com/saveit/shopping-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting shopping service")

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()
	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:  cfg.Telemetry.Enabled,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	llmClient, err := llm.NewClient(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create LLM client")
	}

	var cache *search.Cache
	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("Redis unreachable, search cache disabled")
		} else {
			cache = search.NewCache(rdb, cfg.Cache.TTL)
			logger.Info().Str("addr", cfg.Cache.RedisAddr).Msg("Search cache enabled")
		}
	}

	httpClient := httpclient.New(ratelimit.Config{
		RequestsPerSecond: cfg.Aggregator.RequestsPerSecond,
		MaxRetries:        cfg.Aggregator.MaxRetries,
		InitialBackoffMs:  cfg.Aggregator.InitialBackoffMs,
		MaxBackoffMs:      cfg.Aggregator.MaxBackoffMs,
	})
	searchClient := search.NewClient(httpClient, cfg.Aggregator.BaseURL, search.Location{
		Lat: cfg.Aggregator.Lat,
		Lon: cfg.Aggregator.Lon,
	}, cache)

	costs := platform.DefaultCostTable()
	sel := selector.New(selector.NewLLMPicker(llmClient), costs)
	finder := recipe.NewDiscovery(llmClient)
	orchestrator := shopping.New(searchClient, sel, finder, shopping.NewLLMFallback(llmClient), shopping.Config{
		MaxConcurrentSearches:   cfg.Shopping.MaxConcurrentSearches,
		MaxConcurrentSelections: cfg.Shopping.MaxConcurrentSelections,
	})

	shoppingHandler := handlers.NewShoppingHandler(orchestrator, finder, costs)
	cartHandler := handlers.NewCartHandler(savings.NewAdvisor(llmClient), costs)
	productsHandler := handlers.NewProductsHandler(equivalency.NewChecker(llmClient))

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.RateLimitMiddleware())
	{
		api.GET("/platforms", shoppingHandler.ListPlatforms)

		recipes := api.Group("/recipe")
		{
			recipes.POST("/ingredients", shoppingHandler.FindIngredients)
			recipes.POST("/shop", shoppingHandler.Shop)
		}

		prices := api.Group("/prices")
		{
			prices.POST("/search", shoppingHandler.SearchPrices)
		}

		carts := api.Group("/cart")
		{
			carts.POST("", cartHandler.BuildCart)
			carts.POST("/savings", cartHandler.Savings)
		}

		products := api.Group("/products")
		{
			products.POST("/equivalency", productsHandler.CheckEquivalency)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry shutdown failed")
	}

	logger.Info().Msg("Server exited")
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

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "shopping-service").Logger()
	zlog.Logger = logger
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
