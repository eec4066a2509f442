package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/username/skema-widget/internal/auth"
	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/pkg/dateutil"
)

// ErrWeekNotFound is returned when a source has no schedule for the requested week
var ErrWeekNotFound = errors.New("week not found")

// Source delivers a scraped week
type Source interface {
	// FetchWeek returns the 7 days (Monday first) of the week containing date
	FetchWeek(ctx context.Context, session auth.Session, date time.Time) ([]schedule.Day, error)
}

func validateWeek(days []schedule.Day) error {
	if len(days) != dateutil.DaysInWeek {
		return fmt.Errorf("expected %d days, got %d", dateutil.DaysInWeek, len(days))
	}
	return nil
}
