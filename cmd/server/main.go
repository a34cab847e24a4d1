package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgespeak/tts-gateway/internal/api"
	"github.com/edgespeak/tts-gateway/internal/config"
	"github.com/edgespeak/tts-gateway/internal/edge"
	"github.com/edgespeak/tts-gateway/internal/mcptool"
	"github.com/edgespeak/tts-gateway/internal/observability"
	"github.com/edgespeak/tts-gateway/internal/speech"
)

var (
	flagHost   string
	flagPort   string
	flagReload bool
)

var rootCmd = &cobra.Command{
	Use:   "tts-gateway",
	Short: "Edge text-to-speech gateway (HTTP + MCP)",
	Long: `Edge text-to-speech gateway.

Exposes Microsoft Edge's text-to-speech engine over an HTTP API and the
Model Context Protocol, so AI agents and plain HTTP clients can list
voices and synthesize speech with the same semantics.

Run without arguments to start the HTTP server; run "tts-gateway stdio"
to speak MCP over stdin/stdout instead.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve MCP over stdin/stdout",
	Args:  cobra.NoArgs,
	RunE:  runStdio,
}

func init() {
	rootCmd.Flags().StringVar(&flagHost, "host", "", "Bind host (overrides HOST)")
	rootCmd.Flags().StringVar(&flagPort, "port", "", "Bind port (overrides PORT)")
	rootCmd.Flags().BoolVar(&flagReload, "reload", false, "Watch the env file and reload config on change")
	rootCmd.AddCommand(stdioCmd)
}

// buildService assembles the shared speech service from configuration.
func buildService(cfg *config.Config) (*speech.Service, *config.Store) {
	store := config.NewStore(cfg)
	catalog := edge.NewCatalog(cfg.VoiceListURL)
	synth := edge.NewSynthesizer(cfg.SynthesisURL)
	return speech.NewService(catalog, synth, store), store
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = flagHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = flagPort
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogPretty, false)
	logger := observability.GetLogger()

	logger.Info().
		Str("addr", cfg.Addr()).
		Str("default_voice", cfg.DefaultVoice).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Bool("reload", flagReload).
		Msg("TTS gateway starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, store := buildService(cfg)

	if flagReload {
		if err := store.Watch(ctx, cfg.EnvFile, logger); err != nil {
			logger.Warn().Err(err).Str("file", cfg.EnvFile).Msg("Config watching disabled")
		} else {
			logger.Info().Str("file", cfg.EnvFile).Msg("Watching env file for changes")
		}
	}

	server := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     api.NewRouter(svc, store).Setup(),
		ReadTimeout: 15 * time.Second,
		// No write timeout: synthesis streams are long-lived and bounded
		// by the per-request synthesis timeout instead.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
	return nil
}

func runStdio(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the MCP transport in this mode.
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty, true)
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, _ := buildService(cfg)

	logger.Info().Str("default_voice", cfg.DefaultVoice).Msg("MCP stdio server starting")
	if err := mcptool.ServeStdio(ctx, svc); err != nil && ctx.Err() == nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
