package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "DEFAULT_VOICE", "MAX_TEXT_LENGTH", "LOG_LEVEL", "METRICS_ENABLED"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Expected default Host '0.0.0.0', got '%s'", cfg.Host)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default Port '8080', got '%s'", cfg.Port)
	}
	if cfg.DefaultVoice != "ja-JP-NanamiNeural" {
		t.Errorf("Expected default DefaultVoice 'ja-JP-NanamiNeural', got '%s'", cfg.DefaultVoice)
	}
	if cfg.MaxTextLength != 8192 {
		t.Errorf("Expected default MaxTextLength 8192, got %d", cfg.MaxTextLength)
	}
	if cfg.SynthTimeout != 60 {
		t.Errorf("Expected default SynthTimeout 60, got %d", cfg.SynthTimeout)
	}
	if cfg.VoiceListURL != "" {
		t.Errorf("Expected empty VoiceListURL, got '%s'", cfg.VoiceListURL)
	}
	if cfg.EnvFile != ".env" {
		t.Errorf("Expected default EnvFile '.env', got '%s'", cfg.EnvFile)
	}
}

func TestLoad_ObservabilityDefaults(t *testing.T) {
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_PRETTY")
	os.Unsetenv("METRICS_ENABLED")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default LogLevel 'info', got '%s'", cfg.LogLevel)
	}
	if cfg.LogPretty {
		t.Error("Expected default LogPretty false, got true")
	}
	if !cfg.MetricsEnabled {
		t.Error("Expected default MetricsEnabled true, got false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("DEFAULT_VOICE", "en-US-AriaNeural")
	os.Setenv("MAX_TEXT_LENGTH", "500")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("DEFAULT_VOICE")
	defer os.Unsetenv("MAX_TEXT_LENGTH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port '9000', got '%s'", cfg.Port)
	}
	if cfg.DefaultVoice != "en-US-AriaNeural" {
		t.Errorf("Expected DefaultVoice 'en-US-AriaNeural', got '%s'", cfg.DefaultVoice)
	}
	if cfg.MaxTextLength != 500 {
		t.Errorf("Expected MaxTextLength 500, got %d", cfg.MaxTextLength)
	}
}

func TestLoad_InvalidBounds(t *testing.T) {
	os.Setenv("MAX_TEXT_LENGTH", "0")
	defer os.Unsetenv("MAX_TEXT_LENGTH")

	if _, err := Load(); err == nil {
		t.Error("Expected error for MAX_TEXT_LENGTH=0, got nil")
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9090"}
	if got := cfg.Addr(); got != "127.0.0.1:9090" {
		t.Errorf("Expected '127.0.0.1:9090', got '%s'", got)
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_KEY", "test-value")
	defer os.Unsetenv("TEST_KEY")

	value := GetEnv("TEST_KEY", "default")
	if value != "test-value" {
		t.Errorf("Expected 'test-value', got '%s'", value)
	}

	value = GetEnv("NON_EXISTENT_KEY", "default")
	if value != "default" {
		t.Errorf("Expected 'default', got '%s'", value)
	}
}
