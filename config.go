package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	defaultAddr       = ":3000"
	defaultAPIBaseURL = "http://localhost:8080/api/posts"
	defaultAPITimeout = 10 * time.Second

	minSessionKeyLength = 32
)

type Config struct {
	Env           string
	Addr          string
	APIBaseURL    string
	APITimeout    time.Duration
	SessionKey    string
	SecureCookies bool
}

// loadConfig reads the configuration through getenv, usually os.Getenv after
// godotenv has populated the environment.
func loadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Env:        getenv("APP_ENV"),
		Addr:       getenv("LISTEN_ADDR"),
		APIBaseURL: getenv("POSTS_API_URL"),
		APITimeout: defaultAPITimeout,
		SessionKey: getenv("SESSION_KEY"),
	}

	if cfg.Env == "" {
		cfg.Env = envLocal
	}
	switch cfg.Env {
	case envLocal, envDev, envProd:
	default:
		return nil, fmt.Errorf("APP_ENV: unknown environment %q", cfg.Env)
	}

	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("POSTS_API_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("POSTS_API_URL: %q is not an absolute http(s) URL", cfg.APIBaseURL)
	}

	if v := getenv("POSTS_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("POSTS_API_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("POSTS_API_TIMEOUT: must be positive, got %s", d)
		}
		cfg.APITimeout = d
	}

	if v := getenv("SECURE_COOKIES"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SECURE_COOKIES: %w", err)
		}
		cfg.SecureCookies = secure
	}

	if cfg.SessionKey == "" {
		slog.Warn("SESSION_KEY not set, using a random key; flash messages will not survive restarts")
		key, err := generateToken()
		if err != nil {
			return nil, fmt.Errorf("generating session key: %w", err)
		}
		cfg.SessionKey = key
	}
	if len(cfg.SessionKey) < minSessionKeyLength {
		return nil, fmt.Errorf("SESSION_KEY must be at least %d bytes", minSessionKeyLength)
	}

	return cfg, nil
}
