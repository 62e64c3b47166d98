package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Port           string
	Env            string
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	AllowedOrigins string
	LogLevel       string

	MovieDBAPIKey       string
	MovieDBBaseURL      string
	MovieDBImageBaseURL string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Signing keys are base64-encoded PEM. Two independent pairs: one
	// for access tokens, one for refresh tokens.
	AccessTokenPrivateKey  string
	AccessTokenPublicKey   string
	RefreshTokenPrivateKey string
	RefreshTokenPublicKey  string
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "movielist"),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		MovieDBAPIKey:       getEnv("MOVIEDB_API_KEY", ""),
		MovieDBBaseURL:      getEnv("MOVIEDB_BASE_URL", "https://api.themoviedb.org/3"),
		MovieDBImageBaseURL: getEnv("MOVIEDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),

		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 8760*time.Hour),

		AccessTokenPrivateKey:  os.Getenv("ACCESS_TOKEN_PRIVATE_KEY"),
		AccessTokenPublicKey:   os.Getenv("ACCESS_TOKEN_PUBLIC_KEY"),
		RefreshTokenPrivateKey: os.Getenv("REFRESH_TOKEN_PRIVATE_KEY"),
		RefreshTokenPublicKey:  os.Getenv("REFRESH_TOKEN_PUBLIC_KEY"),
	}

	// Missing key material is a deployment error, not a runtime
	// condition. Refuse to start rather than serve unsigned tokens.
	if cfg.AccessTokenPrivateKey == "" || cfg.AccessTokenPublicKey == "" ||
		cfg.RefreshTokenPrivateKey == "" || cfg.RefreshTokenPublicKey == "" {
		slog.Error("token signing keys must be set (base64-encoded PEM): ACCESS_TOKEN_PRIVATE_KEY, ACCESS_TOKEN_PUBLIC_KEY, REFRESH_TOKEN_PRIVATE_KEY, REFRESH_TOKEN_PUBLIC_KEY")
		os.Exit(1)
	}

	if cfg.Env == "production" && cfg.MovieDBAPIKey == "" {
		slog.Error("MOVIEDB_API_KEY must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using fallback", "key", key, "value", v)
		return fallback
	}
	return d
}
