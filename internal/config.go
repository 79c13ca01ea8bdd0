package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// BasePath is the URL prefix the dashboard is served under ("" for root).
	BasePath string

	// Navigation
	SidebarBreakpoint    int           // Viewport width (px) at or below which the sidebar collapses
	SidebarDefaultOpen   bool          // Sidebar state for clients without a stored preference
	ProgressTrickle      bool          // Advance the progress indicator while navigating
	ProgressTrickleSpeed time.Duration // Interval between progress increments
	ProgressSpeed        time.Duration // Delay before a completed indicator goes idle

	// Server timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		BasePath: getEnv("BASE_PATH", ""),

		SidebarBreakpoint:    getEnvInt("SIDEBAR_BREAKPOINT", 1024),
		SidebarDefaultOpen:   getEnvBool("SIDEBAR_DEFAULT_OPEN", true),
		ProgressTrickle:      getEnvBool("PROGRESS_TRICKLE", true),
		ProgressTrickleSpeed: getEnvDuration("PROGRESS_TRICKLE_SPEED", 200*time.Millisecond),
		ProgressSpeed:        getEnvDuration("PROGRESS_SPEED", 200*time.Millisecond),

		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got: %d", cfg.Port)
	}
	if cfg.SidebarBreakpoint <= 0 {
		return nil, fmt.Errorf("SIDEBAR_BREAKPOINT must be positive, got: %d", cfg.SidebarBreakpoint)
	}
	if cfg.ProgressTrickleSpeed <= 0 {
		return nil, fmt.Errorf("PROGRESS_TRICKLE_SPEED must be positive, got: %s", cfg.ProgressTrickleSpeed)
	}
	if cfg.ProgressSpeed < 0 {
		return nil, fmt.Errorf("PROGRESS_SPEED must not be negative, got: %s", cfg.ProgressSpeed)
	}
	if cfg.Env != "development" && cfg.MetricsUsername == "" && cfg.MetricsPassword == "" {
		fmt.Fprintln(os.Stderr, "warning: METRICS_USERNAME and METRICS_PASSWORD are empty; /metrics is unprotected")
	}

	return cfg, nil
}

// IsSecure reports whether cookies should carry the Secure flag.
func (c *Config) IsSecure() bool {
	return c.Env != "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
