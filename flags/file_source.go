package flags

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

const fileDebounce = 100 * time.Millisecond

// FileSource feeds a Store from a YAML or JSON flag file. The file may hold
// the flags at the top level or under a featureFlags key, matching the flag
// endpoint's response body.
type FileSource struct {
	Path   string
	Store  *Store
	Logger *log.Logger
}

// NewFileSource creates a source for path.
func NewFileSource(path string, store *Store, logger *log.Logger) *FileSource {
	if logger == nil {
		logger = log.Default()
	}
	return &FileSource{Path: path, Store: store, Logger: logger}
}

// ReadFile parses a flag file without touching any store.
func ReadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), fmt.Errorf("flags: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON flag document.
func Parse(data []byte) (Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Defaults(), fmt.Errorf("flags: unmarshal: %w", err)
	}
	if nested, ok := doc["featureFlags"].(map[string]any); ok {
		doc = nested
	}
	return FromValues(doc), nil
}

// Load reads the file once and publishes it.
func (s *FileSource) Load() error {
	if s == nil {
		return nil
	}
	cfg, err := ReadFile(s.Path)
	if err != nil {
		return err
	}
	s.Store.Replace(cfg)
	s.Logger.Debug("flags loaded", "path", s.Path, "skin", cfg.Skin,
		"double_jump", cfg.DoubleJumpEnabled, "speed_boost", cfg.SpeedBoostEnabled)
	return nil
}

// Watch reloads the file whenever it changes until ctx is done. A file that
// fails to parse leaves the last good configuration in place.
func (s *FileSource) Watch(ctx context.Context) error {
	if s == nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("flags: watch: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	target := filepath.Clean(s.Path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("flags: watch %s: %w", target, err)
	}

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			now := time.Now()
			if now.Sub(last) < fileDebounce {
				continue
			}
			last = now
			if err := s.Load(); err != nil {
				s.Logger.Warn("flag file reload failed", "path", s.Path, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.Logger.Warn("flag file watcher error", "error", err)
		}
	}
}
