package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("key not found")

// Storage is a flat key-value blob store. Keys are slash-separated paths;
// values are opaque bytes.
type Storage interface {
	// Put stores content at the given key, replacing any previous value
	Put(ctx context.Context, key string, content []byte) error

	// Get retrieves content from the given key; ErrNotFound if absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists checks if a value exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the value at the given key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// List returns all keys matching the given prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
}

// StorageType represents the type of storage backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeRedis StorageType = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Type      StorageType
	BasePath  string // local
	RedisAddr string // redis
	RedisDB   int    // redis
	KeyPrefix string // redis
}

// New opens the backend named by cfg.Type.
func New(cfg Config) (Storage, error) {
	switch StorageType(strings.ToLower(string(cfg.Type))) {
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.BasePath)
	case StorageTypeRedis:
		return NewRedisStorage(cfg.RedisAddr, cfg.RedisDB, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}

// validateKey rejects empty keys and keys that try to escape the namespace.
func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty storage key")
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return fmt.Errorf("invalid storage key %q", key)
		}
	}
	return nil
}
