package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Store hands out the current configuration. Handlers read through it so a
// reload takes effect on the next request; the swap is a whole-config
// replacement, never a partial mutation.
type Store struct {
	current atomic.Pointer[Config]
}

// NewStore creates a store seeded with cfg.
func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.current.Store(cfg)
	return s
}

// Current returns the active configuration. The returned value must be
// treated as read-only.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Watch reloads the store whenever the env file changes, until ctx is
// cancelled. The directory is watched rather than the file itself because
// editors replace files on save. An invalid reload is logged and skipped;
// the previous configuration stays active.
func (s *Store) Watch(ctx context.Context, path string, logger zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	base := filepath.Base(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := s.reload(path); err != nil {
					logger.Warn().Err(err).Str("file", path).Msg("Config reload failed, keeping previous config")
					continue
				}
				logger.Info().Str("file", path).Msg("Config reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("Config watcher error")
			}
		}
	}()

	return nil
}

func (s *Store) reload(path string) error {
	// Overload so edited values replace the ones loaded at startup.
	if err := godotenv.Overload(path); err != nil {
		return fmt.Errorf("read env file: %w", err)
	}
	cfg, err := LoadFromEnv()
	if err != nil {
		return err
	}
	s.current.Store(cfg)
	return nil
}
