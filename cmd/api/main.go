package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/allergycanada/find-allergist/backend/internal/adapters/cache"
	"github.com/allergycanada/find-allergist/backend/internal/adapters/database"
	"github.com/allergycanada/find-allergist/backend/internal/adapters/providers/geolocation"
	"github.com/allergycanada/find-allergist/backend/internal/adapters/search"
	"github.com/allergycanada/find-allergist/backend/internal/api/handlers"
	"github.com/allergycanada/find-allergist/backend/internal/api/middleware"
	"github.com/allergycanada/find-allergist/backend/internal/api/routes"
	"github.com/allergycanada/find-allergist/backend/internal/application/services"
	"github.com/allergycanada/find-allergist/backend/internal/domain/providers"
	"github.com/allergycanada/find-allergist/backend/internal/domain/repositories"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/postgres"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/redis"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/clients/typesense"
	"github.com/allergycanada/find-allergist/backend/internal/infrastructure/observability"
	"github.com/allergycanada/find-allergist/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// Redis is optional: without it search still works, but page navigation
	// re-runs the search and geocode results are uncached.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client, continuing without cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized")
	}

	// Typesense is optional: suggest-as-you-type degrades to empty results.
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Typesense client, suggest disabled")
		typesenseClient = nil
	} else {
		log.Info().Msg("Typesense client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize adapters
	physicianAdapter := database.NewPhysicianAdapter(pgClient)
	capabilityAdapter := database.NewCapabilityAdapter(pgClient)

	var indexRepo repositories.PhysicianIndexRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to init Typesense schema")
		}
		indexRepo = adapter
	}

	var geocoder providers.Geocoder
	switch cfg.Geocoder.Provider {
	case "google":
		if cfg.Geocoder.APIKey == "" {
			log.Warn().Msg("GEOCODER_API_KEY is not set; using mock geocoder")
			geocoder = geolocation.NewMockGeocoder()
		} else {
			geocoder = geolocation.NewGoogleGeocoder(cfg.Geocoder.APIKey, cfg.Geocoder.Region, cacheProvider)
		}
	default:
		geocoder = geolocation.NewMockGeocoder()
	}

	// Initialize services
	searchService := services.NewSearchService(physicianAdapter, geocoder, cfg.Search)
	searchService.SetMetrics(metrics)
	sessionService := services.NewSessionService(cacheProvider, cfg.Search.SessionTTLSeconds)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService, sessionService)
	physicianHandler := handlers.NewPhysicianHandler(physicianAdapter, indexRepo, capabilityAdapter)
	geolocationHandler := handlers.NewGeolocationHandler(geocoder)

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
		log.Info().Msg("cache middleware initialized")
	}

	// Set up router
	router := routes.NewRouter(
		searchHandler,
		physicianHandler,
		geolocationHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
