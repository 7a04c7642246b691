// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GatewayURL    string
	GatewayKey    string
	OAuthProvider string
	ListenAddr    string
	DBPath        string
	PublicURL     string
	RedisAddr     string
	SecretKey     []byte // 32-byte AES-256 key for session cookie sealing; nil when unset.
}

// HasGatewayCredentials returns true when both GatewayURL and GatewayKey are
// non-empty. Used by the composition root to decide whether to create a real
// gateway client at startup or leave the port nil (unconfigured mode).
func (c *Config) HasGatewayCredentials() bool {
	return c.GatewayURL != "" && c.GatewayKey != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// Gateway credentials (BOOKMARKHUB_GATEWAY_URL, BOOKMARKHUB_GATEWAY_KEY) are optional;
// if absent, the app starts but every gateway-dependent operation degrades to an
// unconfigured error instead of crashing.
// Optional variables with defaults: BOOKMARKHUB_OAUTH_PROVIDER (google),
// BOOKMARKHUB_LISTEN_ADDR (127.0.0.1:8080), BOOKMARKHUB_DB_PATH (bookmarkhub.db).
// BOOKMARKHUB_SECRET_KEY must be 64 hex characters when set; when unset the
// composition root generates an ephemeral key and sessions do not survive restarts.
func Load() (*Config, error) {
	cfg := &Config{
		GatewayURL:    os.Getenv("BOOKMARKHUB_GATEWAY_URL"),
		GatewayKey:    os.Getenv("BOOKMARKHUB_GATEWAY_KEY"),
		PublicURL:     os.Getenv("BOOKMARKHUB_PUBLIC_URL"),
		RedisAddr:     os.Getenv("BOOKMARKHUB_REDIS_ADDR"),
		OAuthProvider: "google",
		ListenAddr:    "127.0.0.1:8080",
		DBPath:        "bookmarkhub.db",
	}

	if v, ok := os.LookupEnv("BOOKMARKHUB_OAUTH_PROVIDER"); ok && v != "" {
		cfg.OAuthProvider = v
	}
	if v, ok := os.LookupEnv("BOOKMARKHUB_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("BOOKMARKHUB_DB_PATH"); ok {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("BOOKMARKHUB_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("BOOKMARKHUB_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("BOOKMARKHUB_SECRET_KEY must be 32 bytes (64 hex chars), got %d bytes", len(key))
		}
		cfg.SecretKey = key
	}

	return cfg, nil
}
