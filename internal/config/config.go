// Package config handles the XDG configuration directory, the optional
// config.yaml file and the paths derived from them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"taskpad/internal/storage"
)

const (
	// AppName is the application directory name.
	AppName = "taskpad"

	// ConfigFile is the optional settings file in the config directory.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DataDir is the file backend directory under the config dir.
	DataDir = "data"

	// DatabaseFile is the sqlite backend database under the config dir.
	DatabaseFile = "taskpad.db"

	// BackendEnv overrides storage.backend from the config file.
	BackendEnv = "TASKPAD_BACKEND"

	// DefaultPriority and DefaultCategory apply to added tasks unless
	// config.yaml or a flag says otherwise.
	DefaultPriority = "medium"
	DefaultCategory = "general"
)

// Defaults are applied to new tasks when the add command omits them.
type Defaults struct {
	Priority string `yaml:"priority"`
	Category string `yaml:"category"`
}

// StorageSection is the storage block of config.yaml.
type StorageSection struct {
	storage.Config `yaml:",inline"`

	// Key is the slot key the collection is saved under.
	Key string `yaml:"key"`
}

// File is the on-disk layout of config.yaml.
type File struct {
	Storage  StorageSection `yaml:"storage"`
	Defaults Defaults       `yaml:"defaults"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Storage selects the slot backend, with paths resolved.
	Storage storage.Config

	// Key is the slot key. Never empty after New.
	Key string

	Defaults Defaults
}

// New creates a Config for the default or specified config directory and
// reads config.yaml from it if present.
// If configDir is empty, uses XDG_CONFIG_HOME/taskpad or $HOME/.config/taskpad.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{Dir: dir}

	f, err := readFile(c.FilePath())
	if err != nil {
		return nil, err
	}
	c.Storage = f.Storage.Config
	c.Key = f.Storage.Key
	c.Defaults = f.Defaults

	if env := strings.TrimSpace(os.Getenv(BackendEnv)); env != "" {
		c.Storage.Backend = env
	}
	c.applyDefaults()
	return c, nil
}

func readFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("invalid %s: %w", path, err)
	}
	return f, nil
}

// applyDefaults fills in the backend, key, backend paths and task defaults.
func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = storage.BackendFile
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Key == "" {
		c.Key = "tasks"
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case storage.BackendFile:
			c.Storage.Path = filepath.Join(c.Dir, DataDir)
		case storage.BackendSQLite:
			c.Storage.Path = filepath.Join(c.Dir, DatabaseFile)
		}
	}
	if c.Storage.RedisPrefix == "" {
		c.Storage.RedisPrefix = storage.DefaultRedisPrefix
	}
	if c.Defaults.Priority == "" {
		c.Defaults.Priority = DefaultPriority
	}
	if c.Defaults.Category == "" {
		c.Defaults.Category = DefaultCategory
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// FilePath returns the path to config.yaml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
