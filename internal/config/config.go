package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port     string
	LogLevel string

	ClientID      string
	ClientSecret  string
	SessionSecret string
	RedirectURL   string

	APIURL      string
	AccountsURL string

	RemoteTimeout time.Duration
	SessionTTL    time.Duration
}

// Load reads configuration from .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment variables")
	}

	port := getEnv("PORT", "8080")
	clientSecret := getEnv("APP_CLIENT_SECRET", "")

	return &Config{
		Port:          port,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ClientID:      getEnv("APP_CLIENT_ID", ""),
		ClientSecret:  clientSecret,
		SessionSecret: getEnv("SESSION_SECRET", clientSecret),
		RedirectURL:   getEnv("REDIRECT_URL", fmt.Sprintf("http://localhost:%s/authorized", port)),
		APIURL:        getEnv("SPOTIFY_API_URL", ""),
		AccountsURL:   getEnv("SPOTIFY_ACCOUNTS_URL", ""),
		RemoteTimeout: getDuration("REMOTE_TIMEOUT", 15*time.Second),
		SessionTTL:    getDuration("SESSION_TTL", time.Hour),
	}
}

// Validate reports settings the server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.ClientID == "" {
		errs = append(errs, errors.New("APP_CLIENT_ID is required"))
	}
	if c.ClientSecret == "" {
		errs = append(errs, errors.New("APP_CLIENT_SECRET is required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warn("invalid duration, using default", "key", key, "value", value, "default", fallback)
	return fallback
}
