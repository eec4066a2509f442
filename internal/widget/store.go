package widget

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned by Store.Get for a key that was never saved
	ErrNotFound = errors.New("widget store: key not found")

	// ErrUnsupportedPlatform means the platform has no shared app-group storage.
	// It is a hard boundary: the widget feature is unavailable, do not retry.
	ErrUnsupportedPlatform = errors.New("shared widget storage is not supported on this platform")
)

// Store is scoped persisted key-value access shared with the platform widget
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}

// StoreKind selects a Store backend
type StoreKind string

const (
	StoreFile   StoreKind = "file"
	StoreSQLite StoreKind = "sqlite"
	StoreMemory StoreKind = "memory"
)

// OpenStore opens the configured backend. An empty dir resolves the app-group
// container for bundleID, which fails with ErrUnsupportedPlatform where shared
// storage does not exist.
func OpenStore(kind StoreKind, dir, bundleID string, logger *zap.Logger) (Store, error) {
	if kind == "" {
		kind = StoreFile
	}

	if kind == StoreMemory {
		logger.Info("Using in-memory widget store")
		return NewMemoryStore(), nil
	}

	if dir == "" {
		groupDir, err := AppGroupDir(bundleID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve app group container: %w", err)
		}
		dir = groupDir
	}

	switch kind {
	case StoreFile:
		logger.Info("Using file widget store", zap.String("dir", dir))
		return NewFileStore(dir, logger), nil
	case StoreSQLite:
		logger.Info("Using sqlite widget store", zap.String("dir", dir))
		return OpenSQLiteStore(dir, logger)
	default:
		return nil, fmt.Errorf("unknown widget store kind: %s", kind)
	}
}
