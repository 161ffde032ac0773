package main

import (
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

// envFrom parses dotenv text the same way main loads a .env file.
func envFrom(t *testing.T, dotenv string) func(string) string {
	t.Helper()
	env, err := godotenv.Unmarshal(dotenv)
	require.NoError(t, err)
	return func(key string) string { return env[key] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(envFrom(t, ""))
	require.NoError(t, err)

	assert.Equal(t, envLocal, cfg.Env)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "http://localhost:8080/api/posts", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.False(t, cfg.SecureCookies)
	assert.GreaterOrEqual(t, len(cfg.SessionKey), minSessionKeyLength)
}

func TestLoadConfig_FromDotenv(t *testing.T) {
	dotenv := strings.Join([]string{
		"APP_ENV=prod",
		"LISTEN_ADDR=127.0.0.1:9000",
		"POSTS_API_URL=https://api.example.com/api/posts",
		"POSTS_API_TIMEOUT=3s",
		"SESSION_KEY=" + testSessionKey,
		"SECURE_COOKIES=true",
	}, "\n")

	cfg, err := loadConfig(envFrom(t, dotenv))
	require.NoError(t, err)

	assert.Equal(t, envProd, cfg.Env)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "https://api.example.com/api/posts", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, testSessionKey, cfg.SessionKey)
	assert.True(t, cfg.SecureCookies)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		dotenv string
		errMsg string
	}{
		{"unknown env", "APP_ENV=staging", "APP_ENV"},
		{"relative api url", "POSTS_API_URL=/api/posts", "POSTS_API_URL"},
		{"non-http api url", "POSTS_API_URL=ftp://example.com/posts", "POSTS_API_URL"},
		{"bad timeout", "POSTS_API_TIMEOUT=soon", "POSTS_API_TIMEOUT"},
		{"negative timeout", "POSTS_API_TIMEOUT=-1s", "POSTS_API_TIMEOUT"},
		{"bad bool", "SECURE_COOKIES=maybe", "SECURE_COOKIES"},
		{"short session key", "SESSION_KEY=short", "SESSION_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(envFrom(t, tt.dotenv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
