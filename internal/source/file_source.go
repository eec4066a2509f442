package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/username/skema-widget/internal/auth"
	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/pkg/dateutil"
	"go.uber.org/zap"
)

// FileSource serves weeks from a local JSON file keyed by ISO week:
//
//	{"2025-W03": [ {day}, ... 7 days ... ]}
type FileSource struct {
	filePath string
	logger   *zap.Logger

	mu     sync.Mutex
	loaded bool
	weeks  map[string][]schedule.Day
}

// NewFileSource creates a new FileSource; the file is read on first use
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
	}
}

// Load (re)reads the file
func (fs *FileSource) Load() error {
	data, err := os.ReadFile(fs.filePath)
	if err != nil {
		return fmt.Errorf("failed to read schedule file: %w", err)
	}

	weeks := make(map[string][]schedule.Day)
	if err := json.Unmarshal(data, &weeks); err != nil {
		return fmt.Errorf("failed to parse schedule file: %w", err)
	}

	for key, days := range weeks {
		if err := validateWeek(days); err != nil {
			fs.logger.Warn("Skipping invalid week in schedule file",
				zap.String("week", key),
				zap.Error(err))
			delete(weeks, key)
		}
	}

	fs.mu.Lock()
	fs.weeks = weeks
	fs.loaded = true
	fs.mu.Unlock()

	fs.logger.Info("Schedule file loaded",
		zap.String("file", fs.filePath),
		zap.Int("weeks", len(weeks)))

	return nil
}

// FetchWeek returns the stored week containing date
func (fs *FileSource) FetchWeek(ctx context.Context, session auth.Session, date time.Time) ([]schedule.Day, error) {
	fs.mu.Lock()
	loaded := fs.loaded
	fs.mu.Unlock()

	if !loaded {
		if err := fs.Load(); err != nil {
			return nil, err
		}
	}

	week := dateutil.WeekKey(date)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	days, ok := fs.weeks[week]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWeekNotFound, week)
	}

	out := make([]schedule.Day, len(days))
	copy(out, days)
	return out, nil
}
