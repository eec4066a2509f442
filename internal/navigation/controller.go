package navigation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/username/skema-widget/internal/auth"
	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/internal/source"
	"github.com/username/skema-widget/internal/widget"
	"github.com/username/skema-widget/pkg/dateutil"
	"go.uber.org/zap"
)

// Controller owns the navigation state and the loaded week. UI calls and
// the fetch loop may run on different goroutines.
type Controller struct {
	source   source.Source
	sessions auth.SessionProvider
	cache    *widget.Cache
	logger   *zap.Logger
	locale   dateutil.Locale
	now      func() time.Time

	mu      sync.Mutex
	state   State
	week    []schedule.Day
	// weekOf is the load date c.week was fetched for
	weekOf  time.Time
	lastErr error

	// writeMu keeps a single snapshot writer between Run and Refresh
	writeMu  sync.Mutex
	requests chan time.Time
}

// NewController creates a controller with its state at the current time
func NewController(src source.Source, sessions auth.SessionProvider, cache *widget.Cache, logger *zap.Logger) *Controller {
	c := &Controller{
		source:   src,
		sessions: sessions,
		cache:    cache,
		logger:   logger,
		locale:   dateutil.DefaultLocale,
		now:      time.Now,
		requests: make(chan time.Time, 1),
	}
	c.state = NewState(c.now())
	return c
}

// SetClock replaces the time source and resets the state to its now
func (c *Controller) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	c.state = NewState(now())
}

// SetLocale sets the language of the week strip
func (c *Controller) SetLocale(locale dateutil.Locale) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locale = locale
}

// DayStep moves the selection one day in direction
func (c *Controller) DayStep(direction Direction) Effect {
	return c.dispatch(DayStep{Direction: direction})
}

// WeekStep moves the selection one week in direction
func (c *Controller) WeekStep(direction Direction) Effect {
	return c.dispatch(WeekStep{Direction: direction})
}

// JumpToToday moves the selection back to today
func (c *Controller) JumpToToday() Effect {
	return c.dispatch(JumpToToday{})
}

// TapDay selects a day of the week strip
func (c *Controller) TapDay(day dateutil.WeekDay) Effect {
	return c.dispatch(DayTap{Day: day})
}

func (c *Controller) dispatch(ev Event) Effect {
	c.mu.Lock()
	next, effect := Apply(c.state, ev, c.now())
	c.state = next
	c.mu.Unlock()

	if effect.Refetch {
		c.request(next.loadDate)
	}

	c.logger.Debug("Navigation event",
		zap.String("event", fmt.Sprintf("%T", ev)),
		zap.Time("selected_day", next.selectedDay),
		zap.Time("load_date", next.loadDate),
		zap.Int("day_number", next.dayNumber),
		zap.Bool("refetch", effect.Refetch),
		zap.Bool("ignored", effect.Ignored))

	return effect
}

// request replaces any pending load date with loadDate
func (c *Controller) request(loadDate time.Time) {
	for {
		select {
		case c.requests <- loadDate:
			return
		default:
		}
		select {
		case <-c.requests:
		default:
		}
	}
}

// State returns the current navigation state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Schedule returns a copy of the loaded week
func (c *Controller) Schedule() []schedule.Day {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]schedule.Day, len(c.week))
	copy(out, c.week)
	return out
}

// SelectedDay returns the loaded day for the selection, if the loaded week
// is the selected one
func (c *Controller) SelectedDay() (schedule.Day, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.week) != dateutil.DaysInWeek || !dateutil.IsSameWeek(c.state.selectedDay, c.weekOf) {
		return schedule.Day{}, false
	}
	return c.week[c.state.dayNumber-1], true
}

// WeekStrip returns the seven days around the selection
func (c *Controller) WeekStrip() [dateutil.DaysInWeek]dateutil.WeekDay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dateutil.GetDaysOfWeekIn(c.state.selectedDay, c.locale)
}

// LastError returns the error of the most recent fetch, nil after a success
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Run loads the initial week and then every requested load date until ctx
// is done. Requests made while a fetch is running coalesce to the latest.
func (c *Controller) Run(ctx context.Context) error {
	c.request(c.State().LoadDate())

	for {
		select {
		case <-ctx.Done():
			return nil
		case loadDate := <-c.requests:
			if err := c.load(ctx, loadDate); err != nil && ctx.Err() == nil {
				c.logger.Error("Failed to load week",
					zap.Time("load_date", loadDate),
					zap.Error(err))
			}
		}
	}
}

// Refresh loads the week for the current load date synchronously
func (c *Controller) Refresh(ctx context.Context) error {
	return c.load(ctx, c.State().LoadDate())
}

func (c *Controller) load(ctx context.Context, loadDate time.Time) error {
	days, err := c.fetch(ctx, loadDate)

	c.mu.Lock()
	if !c.state.loadDate.Equal(loadDate) {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale week",
			zap.Time("load_date", loadDate))
		return nil
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	c.week = days
	c.weekOf = loadDate
	c.lastErr = nil
	now := c.now()
	c.mu.Unlock()

	c.logger.Info("Week loaded",
		zap.String("week", dateutil.WeekKey(loadDate)),
		zap.Int("days", len(days)))

	if !dateutil.IsSameWeek(loadDate, now) {
		return nil
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.cache.WriteCurrentWeek(ctx, days); err != nil {
		return fmt.Errorf("failed to write widget snapshot: %w", err)
	}
	return nil
}

func (c *Controller) fetch(ctx context.Context, loadDate time.Time) ([]schedule.Day, error) {
	session, err := c.sessions.Session(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	days, err := c.source.FetchWeek(ctx, session, loadDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch week %s: %w", dateutil.WeekKey(loadDate), err)
	}
	return days, nil
}
