package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bombom/mc-status-bot/pkg/mcstatus"
)

const (
	defaultPollInterval = 60 * time.Second
	defaultHTTPTimeout  = 10 * time.Second
	minPollInterval     = time.Second
)

// Config is everything the bot reads from the environment.
type Config struct {
	Token          string
	ServerAddress  string
	StatusAPIURL   string
	PollInterval   time.Duration
	HTTPTimeout    time.Duration
	GuildID        string // empty registers commands globally
	RecipeImageURL string

	LogLevel  string
	LogFormat string

	APIPort        string // empty disables the HTTP API
	APIBearerToken string
}

// loadEnv seeds the process environment from ./.env when present.
// Variables already set in the environment are never overridden.
func loadEnv() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func validateConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		Token:          strings.TrimSpace(getenv("DISCORD_TOKEN")),
		ServerAddress:  strings.TrimSpace(getenv("MINECRAFT_SERVER_IP")),
		StatusAPIURL:   strings.TrimSpace(getenv("STATUS_API_URL")),
		GuildID:        strings.TrimSpace(getenv("GUILD_ID")),
		RecipeImageURL: strings.TrimSpace(getenv("RECIPE_IMAGE_URL")),
		LogLevel:       getenv("LOG_LEVEL"),
		LogFormat:      strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT"))),
		APIPort:        strings.TrimSpace(getenv("API_PORT")),
		APIBearerToken: getenv("API_BEARER_TOKEN"),
	}

	// the original deployment used TOKEN
	if cfg.Token == "" {
		cfg.Token = strings.TrimSpace(getenv("TOKEN"))
	}
	if cfg.Token == "" {
		return Config{}, fmt.Errorf("DISCORD_TOKEN environment variable not set")
	}

	// older deployments used a dashed name
	if cfg.ServerAddress == "" {
		cfg.ServerAddress = strings.TrimSpace(getenv("MINECRAFT-SERVER-IP"))
	}
	if cfg.ServerAddress == "" {
		return Config{}, fmt.Errorf("MINECRAFT_SERVER_IP environment variable not set")
	}

	if cfg.StatusAPIURL == "" {
		cfg.StatusAPIURL = mcstatus.DefaultBaseURL
	}

	var err error
	if cfg.PollInterval, err = parseDuration(getenv("POLL_INTERVAL"), defaultPollInterval); err != nil {
		return Config{}, fmt.Errorf("POLL_INTERVAL: %w", err)
	}
	if cfg.PollInterval < minPollInterval {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be at least %v (got %v)", minPollInterval, cfg.PollInterval)
	}

	if cfg.HTTPTimeout, err = parseDuration(getenv("HTTP_TIMEOUT"), defaultHTTPTimeout); err != nil {
		return Config{}, fmt.Errorf("HTTP_TIMEOUT: %w", err)
	}
	if cfg.HTTPTimeout <= 0 {
		return Config{}, fmt.Errorf("HTTP_TIMEOUT must be greater than zero")
	}

	if cfg.APIPort != "" && cfg.APIBearerToken == "" {
		return Config{}, fmt.Errorf("API_BEARER_TOKEN is required when API_PORT is set")
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("90s", "2m") and bare seconds ("60").
func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	if d, err := time.ParseDuration(raw + "s"); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("invalid duration %q", raw)
}
