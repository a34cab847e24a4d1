package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the TTS gateway service
type Config struct {
	// Server configuration
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port string `envconfig:"PORT" default:"8080"`

	// Edge speech service endpoints. Empty means the public endpoints; set
	// these to point the gateway at a stub in tests or at a proxy.
	VoiceListURL string `envconfig:"VOICE_LIST_URL" default:""`
	SynthesisURL string `envconfig:"SYNTHESIS_URL" default:""`

	// Synthesis defaults and bounds
	DefaultVoice  string `envconfig:"DEFAULT_VOICE" default:"ja-JP-NanamiNeural"` // Edge short name
	MaxTextLength int    `envconfig:"MAX_TEXT_LENGTH" default:"8192"`            // Upper bound on request text, in runes
	SynthTimeout  int    `envconfig:"SYNTH_TIMEOUT" default:"60"`                // Per-request synthesis timeout, seconds

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics

	// Auto-reload configuration
	EnvFile string `envconfig:"ENV_FILE" default:".env"` // File watched when --reload is set
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.MaxTextLength <= 0 {
		return nil, fmt.Errorf("MAX_TEXT_LENGTH must be positive, got %d", cfg.MaxTextLength)
	}
	if cfg.SynthTimeout <= 0 {
		return nil, fmt.Errorf("SYNTH_TIMEOUT must be positive, got %d", cfg.SynthTimeout)
	}

	return &cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
