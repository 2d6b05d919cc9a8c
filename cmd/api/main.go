package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ayursutra/wellness-portal/internal/adapters/cache"
	"github.com/ayursutra/wellness-portal/internal/adapters/memory"
	"github.com/ayursutra/wellness-portal/internal/adapters/profile"
	"github.com/ayursutra/wellness-portal/internal/adapters/providers/places"
	"github.com/ayursutra/wellness-portal/internal/api/handlers"
	"github.com/ayursutra/wellness-portal/internal/api/routes"
	"github.com/ayursutra/wellness-portal/internal/application/services"
	"github.com/ayursutra/wellness-portal/internal/domain/entities"
	"github.com/ayursutra/wellness-portal/internal/domain/providers"
	"github.com/ayursutra/wellness-portal/internal/infrastructure/clients/redis"
	"github.com/ayursutra/wellness-portal/internal/infrastructure/clients/typesense"
	"github.com/ayursutra/wellness-portal/internal/infrastructure/observability"
	"github.com/ayursutra/wellness-portal/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
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
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Patient profile
	patientSource := profile.NewStaticPatientSource(profile.SamplePatient())
	if cfg.Patient.ProfilePath != "" {
		patientSource, err = profile.NewPatientSource(cfg.Patient.ProfilePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Patient.ProfilePath).Msg("failed to load patient profile")
		}
	}

	// Centre search
	searcher := newCentreSearcher(ctx, cfg)
	capability := searcher.Capability()
	if !capability.Available {
		log.Warn().Str("provider", capability.Provider).Msg(capability.Message)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, centre searches will not be cached")
		} else {
			searcher = places.NewCachedCentreSearcher(searcher, cache.NewRedisAdapter(redisClient), cfg.Redis.SearchCacheTTL, metrics)
			log.Info().Dur("ttl", cfg.Redis.SearchCacheTTL).Msg("centre search cache enabled")
		}
	}

	resolver := newPositionResolver(cfg)

	// Services
	store := memory.NewAppointmentAdapter()
	appointmentService := services.NewAppointmentService(store, services.SlotPolicy{
		ValidateTimestamp: cfg.Booking.ValidateSlotTimestamp,
		RejectPast:        cfg.Booking.RejectPastSlots,
	}, metrics)
	patientService := services.NewPatientService(patientSource)
	searchService := services.NewCentreSearchService(
		searcher,
		resolver,
		cfg.Places.DefaultKeyword,
		entities.LatLng{Lat: cfg.Places.DefaultLat, Lng: cfg.Places.DefaultLng},
		metrics,
	)

	router := routes.NewRouter(
		handlers.NewSystemHandler(cfg.Ping.Message),
		handlers.NewPatientHandler(patientService),
		handlers.NewAppointmentHandler(appointmentService),
		handlers.NewCentreHandler(searchService),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Places.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("places_provider", capability.Provider).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis")
		}
	}

	log.Info().Msg("server stopped")
}

func newCentreSearcher(ctx context.Context, cfg *config.Config) providers.CentreSearcher {
	switch cfg.Places.Provider {
	case places.ProviderTypesense:
		opts := places.TypesenseOptions{NearbyRadiusMeters: cfg.Places.NearbyRadiusMeters}
		client, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Error().Err(err).Msg("typesense unavailable")
			return places.NewTypesenseCentreSearcher(nil, opts)
		}
		if err := client.InitSchema(ctx); err != nil {
			log.Error().Err(err).Msg("failed to initialize typesense schema")
		}
		searcher := places.NewTypesenseCentreSearcher(client.Client(), opts)
		if cfg.Server.Env == "development" {
			for _, centre := range places.DemoCentres() {
				if err := searcher.Index(ctx, centre); err != nil {
					log.Warn().Err(err).Str("centre_id", centre.ID).Msg("failed to index demo centre")
				}
			}
		}
		return searcher
	case places.ProviderMock:
		return places.NewStaticCentreSearcher(cfg.Places.NearbyRadiusMeters, places.DemoCentres()...)
	default:
		return places.NewGoogleCentreSearcher(places.GoogleOptions{
			APIKey:             cfg.Places.APIKey,
			BaseURL:            cfg.Places.BaseURL,
			PlaceType:          cfg.Places.PlaceType,
			Region:             cfg.Places.Region,
			NearbyKeyword:      cfg.Places.DefaultKeyword,
			NearbyRadiusMeters: cfg.Places.NearbyRadiusMeters,
			Timeout:            cfg.Places.Timeout,
		})
	}
}

func newPositionResolver(cfg *config.Config) providers.PositionResolver {
	switch cfg.Location.Resolver {
	case "google":
		return places.NewGooglePositionResolver(places.GeolocationOptions{
			APIKey:  cfg.Location.APIKey,
			BaseURL: cfg.Location.BaseURL,
			Timeout: cfg.Places.Timeout,
		})
	case "static":
		return places.StaticPositionResolver{Position: entities.LatLng{Lat: cfg.Location.Lat, Lng: cfg.Location.Lng}}
	default:
		return places.UnavailablePositionResolver{}
	}
}
