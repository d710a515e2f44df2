package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/roach88/thehand/internal/store"
)

// Config is the optional ~/.hand.yaml file.
type Config struct {
	// DB is the journal database path. "~" expands to the home dir.
	DB string `yaml:"db"`
}

// loadConfig reads ~/.hand.yaml if present. A missing file is not an
// error; a malformed one is.
func loadConfig() (Config, error) {
	var cfg Config

	home, err := homedir.Dir()
	if err != nil {
		return cfg, fmt.Errorf("resolve home dir: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".hand.yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath picks the database path: --db flag, then config file,
// then ~/.hand/journal.db.
func resolveDBPath(opts *RootOptions) (string, error) {
	if opts.DBPath != "" {
		return homedir.Expand(opts.DBPath)
	}

	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.DB != "" {
		return homedir.Expand(cfg.DB)
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".hand", "journal.db"), nil
}

// openStore resolves the database path, creates its directory if
// needed, and opens the store. Failures here are command errors, not
// journal errors.
func openStore(opts *RootOptions) (*store.Store, error) {
	path, err := resolveDBPath(opts)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "resolve database path", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "create database directory", err)
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open journal database", err)
	}
	return st, nil
}
