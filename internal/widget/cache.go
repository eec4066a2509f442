package widget

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	// SnapshotKey is the key the platform widget reads
	SnapshotKey = "skema"

	retentionDays   = 7
	retentionWindow = retentionDays * 24 * time.Hour
)

// Cache is the widget snapshot: a bounded projection of the coming week.
// It has no locking of its own; callers keep to one writer at a time.
type Cache struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewCache creates a Cache on top of store
func NewCache(store Store, logger *zap.Logger) *Cache {
	return &Cache{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock replaces the time source
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}

// Read returns the stored snapshot. A missing snapshot is an empty map.
func (c *Cache) Read(ctx context.Context) (schedule.WidgetData, error) {
	raw, err := c.store.Get(ctx, SnapshotKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return schedule.WidgetData{}, nil
		}
		return nil, fmt.Errorf("failed to read widget snapshot: %w", err)
	}

	return decodeSnapshot(raw)
}

func decodeSnapshot(raw []byte) (schedule.WidgetData, error) {
	data := schedule.WidgetData{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse widget snapshot: %w", err)
	}
	if data == nil {
		data = schedule.WidgetData{}
	}
	return data, nil
}

// WriteMerged replaces the stored snapshot with an already merged one.
// The write is not cancelled when ctx is.
func (c *Cache) WriteMerged(ctx context.Context, data schedule.WidgetData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal widget snapshot: %w", err)
	}

	if err := c.store.Save(context.WithoutCancel(ctx), SnapshotKey, raw); err != nil {
		return fmt.Errorf("failed to save widget snapshot: %w", err)
	}
	return nil
}

// WriteCurrentWeek merges the remaining days of a Monday-first week into the
// snapshot: stale entries are dropped, today and the following days of week
// are re-encoded, and the result is written back in one save.
func (c *Cache) WriteCurrentWeek(ctx context.Context, days []schedule.Day) error {
	now := c.now()

	existing, err := c.Read(ctx)
	if err != nil {
		return err
	}

	merged := Retain(existing, now)
	retained := len(merged)

	projected := Project(days, now)
	for key, modules := range projected {
		merged[key] = modules
	}

	if err := c.WriteMerged(ctx, merged); err != nil {
		return err
	}

	c.logger.Info("Widget snapshot written",
		zap.Time("now", now),
		zap.Int("existing_days", len(existing)),
		zap.Int("retained_days", retained),
		zap.Int("projected_days", len(projected)),
		zap.Int("total_days", len(merged)))

	return nil
}

// Retain keeps the entries of existing that are still relevant at now: the
// key is within seven of today's day of month, or the first module starts
// less than a week from now. The key comparison is a plain integer
// difference and ignores month boundaries.
func Retain(existing schedule.WidgetData, now time.Time) schedule.WidgetData {
	kept := schedule.WidgetData{}
	today := now.Day()

	for key, modules := range existing {
		if dayOfMonth, err := strconv.Atoi(key); err == nil && abs(dayOfMonth-today) <= retentionDays {
			kept[key] = modules
			continue
		}
		if len(modules) > 0 && !modules[0].Start.IsZero() && modules[0].Start.Sub(now) < retentionWindow {
			kept[key] = modules
		}
	}
	return kept
}

// Project encodes days[today's weekday index:] keyed by day of month, starting
// at today and advancing one calendar day per entry.
func Project(days []schedule.Day, now time.Time) schedule.WidgetData {
	projected := schedule.WidgetData{}
	date := dateutil.StartOfDay(now)

	for i := dateutil.WeekDayIndex(now); i < len(days); i++ {
		projected[schedule.DayKey(date)] = EncodeDay(days[i], date)
		date = date.AddDate(0, 0, 1)
	}
	return projected
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
