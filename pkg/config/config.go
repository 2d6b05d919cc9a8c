package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Ping      PingConfig
	Log       LogConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Places    PlacesConfig
	Location  LocationConfig
	Booking   BookingConfig
	Patient   PatientConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins []string
}

// PingConfig holds the /api/ping reply
type PingConfig struct {
	Message string
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled        bool
	Host           string
	Port           int
	Password       string
	DB             int
	SearchCacheTTL time.Duration
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// PlacesConfig holds centre search provider configuration
type PlacesConfig struct {
	// Provider is one of "google", "typesense" or "mock".
	Provider           string
	APIKey             string
	BaseURL            string
	PlaceType          string
	Region             string
	DefaultKeyword     string
	DefaultLat         float64
	DefaultLng         float64
	NearbyRadiusMeters int
	Timeout            time.Duration
}

// LocationConfig holds current-position resolver configuration
type LocationConfig struct {
	// Resolver is one of "google", "static" or "none".
	Resolver string
	APIKey   string
	BaseURL  string
	Lat      float64
	Lng      float64
}

// BookingConfig holds the slot acceptance policy
type BookingConfig struct {
	ValidateSlotTimestamp bool
	RejectPastSlots       bool
}

// PatientConfig holds the patient profile source
type PatientConfig struct {
	ProfilePath string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	placesKey := getEnv("GOOGLE_MAPS_API_KEY", "")

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Env:            getEnv("APP_ENV", "development"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Ping: PingConfig{
			Message: getEnv("PING_MESSAGE", "ping"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			Enabled:        getEnvAsBool("REDIS_ENABLED", false),
			Host:           getEnv("REDIS_HOST", "localhost"),
			Port:           getEnvAsInt("REDIS_PORT", 6379),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvAsInt("REDIS_DB", 0),
			SearchCacheTTL: getEnvAsDuration("SEARCH_CACHE_TTL", 5*time.Minute),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey: getEnv("TYPESENSE_API_KEY", "xyz"),
		},
		Places: PlacesConfig{
			Provider:           strings.ToLower(getEnv("PLACES_PROVIDER", "google")),
			APIKey:             placesKey,
			BaseURL:            getEnv("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
			PlaceType:          getEnv("PLACES_TYPE", "spa"),
			Region:             getEnv("PLACES_REGION", "in"),
			DefaultKeyword:     getEnv("PLACES_DEFAULT_KEYWORD", "panchakarma centre"),
			DefaultLat:         getEnvAsFloat("PLACES_DEFAULT_LAT", 19.076),
			DefaultLng:         getEnvAsFloat("PLACES_DEFAULT_LNG", 72.8777),
			NearbyRadiusMeters: getEnvAsInt("PLACES_NEARBY_RADIUS_METERS", 5000),
			Timeout:            getEnvAsDuration("PLACES_TIMEOUT", 8*time.Second),
		},
		Location: LocationConfig{
			Resolver: strings.ToLower(getEnv("LOCATION_RESOLVER", "none")),
			APIKey:   getEnv("GOOGLE_GEOLOCATION_API_KEY", placesKey),
			BaseURL:  getEnv("GEOLOCATION_BASE_URL", "https://www.googleapis.com/geolocation/v1"),
			Lat:      getEnvAsFloat("LOCATION_LAT", 19.076),
			Lng:      getEnvAsFloat("LOCATION_LNG", 72.8777),
		},
		Booking: BookingConfig{
			ValidateSlotTimestamp: getEnvAsBool("BOOKING_VALIDATE_SLOT_TIMESTAMP", true),
			RejectPastSlots:       getEnvAsBool("BOOKING_REJECT_PAST_SLOTS", false),
		},
		Patient: PatientConfig{
			ProfilePath: getEnv("PATIENT_PROFILE_PATH", ""),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "wellness-portal"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Places.Provider {
	case "google", "typesense", "mock":
	default:
		return fmt.Errorf("unsupported PLACES_PROVIDER %q", c.Places.Provider)
	}
	switch c.Location.Resolver {
	case "google", "static", "none":
	default:
		return fmt.Errorf("unsupported LOCATION_RESOLVER %q", c.Location.Resolver)
	}
	if c.Booking.RejectPastSlots && !c.Booking.ValidateSlotTimestamp {
		return fmt.Errorf("BOOKING_REJECT_PAST_SLOTS requires BOOKING_VALIDATE_SLOT_TIMESTAMP")
	}
	if c.Places.Timeout <= 0 {
		return fmt.Errorf("PLACES_TIMEOUT must be positive")
	}
	return nil
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
