// Package storage provides the durable key-value slots the task collection
// is persisted to.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrNotFound is returned by Load for a key that was never saved.
var ErrNotFound = errors.New("key not found")

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Slot is a durable key-value store holding opaque blobs.
type Slot interface {
	// Load returns the value saved under key, or ErrNotFound.
	Load(key string) ([]byte, error)

	// Save overwrites the value under key.
	Save(key string, data []byte) error

	// Close releases any resources held by the slot.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string `yaml:"backend"`

	// Path is the directory for the file backend or the database file for
	// the sqlite backend.
	Path string `yaml:"path"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`

	PostgresURL string `yaml:"postgres_url"`
}

// Open creates the slot described by cfg.
func Open(cfg Config, logger *slog.Logger) (Slot, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}
	logger.Debug("opening storage", "backend", backend)

	switch backend {
	case BackendFile:
		return NewFile(cfg.Path)
	case BackendSQLite:
		return OpenSQLite(cfg.Path)
	case BackendRedis:
		return OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	case BackendPostgres:
		return OpenPostgres(cfg.PostgresURL)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
}

// Memory is an in-process slot. Nothing survives the process.
type Memory struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemory creates an empty in-memory slot.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

// Load implements Slot.
func (s *Memory) Load(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save implements Slot.
func (s *Memory) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), data...)
	return nil
}

// Close implements Slot.
func (s *Memory) Close() error { return nil }
