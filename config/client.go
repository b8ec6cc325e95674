package config

import (
	"os"
	"strconv"
	"time"
)

// ClientConfig holds connection settings for the gateway client.
type ClientConfig struct {
	GatewayURL      string        // WebSocket endpoint, default "wss://gateway.qft.app/ws"
	APIBaseURL      string        // HTTP API base, default "https://gateway.qft.app"
	HTTPTimeout     time.Duration // per-request timeout for HTTP collaborators
	WriteTimeout    time.Duration // per-frame write deadline on the socket
	ReadBufferSize  int
	WriteBufferSize int
}

// DefaultConfig returns a ClientConfig with sensible defaults.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		GatewayURL:      "wss://gateway.qft.app/ws",
		APIBaseURL:      "https://gateway.qft.app",
		HTTPTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// FromEnv loads client configuration from environment variables.
// Falls back to defaults for any missing values.
func FromEnv() *ClientConfig {
	cfg := DefaultConfig()

	if u := os.Getenv("QFT_GATEWAY_URL"); u != "" {
		cfg.GatewayURL = u
	}
	if u := os.Getenv("QFT_API_BASE_URL"); u != "" {
		cfg.APIBaseURL = u
	}
	if t := os.Getenv("QFT_HTTP_TIMEOUT_SECONDS"); t != "" {
		if seconds, err := strconv.Atoi(t); err == nil && seconds > 0 {
			cfg.HTTPTimeout = time.Duration(seconds) * time.Second
		}
	}
	if t := os.Getenv("QFT_WRITE_TIMEOUT_SECONDS"); t != "" {
		if seconds, err := strconv.Atoi(t); err == nil && seconds > 0 {
			cfg.WriteTimeout = time.Duration(seconds) * time.Second
		}
	}
	return cfg
}
