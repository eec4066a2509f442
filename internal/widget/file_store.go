package widget

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	fileSuffix      = ".json"
	tmpSuffix       = ".tmp"
	filePermissions = 0o644
)

// FileStore keeps one JSON document per key in the app-group directory
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates a FileStore rooted at dir; the directory is created on first save
func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

// Path returns the file backing key
func (fs *FileStore) Path(key string) string {
	return filepath.Join(fs.dir, key+fileSuffix)
}

// Get reads the document for key
func (fs *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fs.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read widget file: %w", err)
	}
	return data, nil
}

// Save writes data for key. The widget never observes a partial file:
// data goes to a temp file first and is renamed over the old one.
func (fs *FileStore) Save(ctx context.Context, key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create widget dir: %w", err)
	}

	path := fs.Path(key)
	tmpFile := path + tmpSuffix
	if err := os.WriteFile(tmpFile, data, filePermissions); err != nil {
		return fmt.Errorf("failed to write widget file: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to replace widget file: %w", err)
	}

	fs.logger.Debug("Widget file saved",
		zap.String("path", path),
		zap.Int("bytes", len(data)))

	return nil
}

func (fs *FileStore) Close() error {
	return nil
}

func validKey(key string) error {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return fmt.Errorf("invalid widget key %q", key)
	}
	return nil
}
