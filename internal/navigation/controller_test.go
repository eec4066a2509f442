package navigation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/skema-widget/internal/auth"
	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/internal/widget"
	"github.com/username/skema-widget/pkg/dateutil"
)

type fakeSource struct {
	mu      sync.Mutex
	calls   []time.Time
	err     error
	started chan time.Time
	gate    chan struct{}
}

func (f *fakeSource) FetchWeek(ctx context.Context, session auth.Session, date time.Time) ([]schedule.Day, error) {
	f.mu.Lock()
	f.calls = append(f.calls, date)
	err, gate, started := f.err, f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		started <- date
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return weekOf(date), nil
}

func (f *fakeSource) Calls() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.calls...)
}

func weekOf(date time.Time) []schedule.Day {
	monday := dateutil.StartOfWeek(date)
	days := make([]schedule.Day, dateutil.DaysInWeek)
	for i := range days {
		days[i] = schedule.Day{
			Date: schedule.DayDate{Time: monday.AddDate(0, 0, i)},
			Modules: map[string][]schedule.Module{
				"0": {{ID: dateutil.WeekKey(date), TimeSpan: schedule.TimeSpan{Start: "800", End: "930"}, Title: "Dansk"}},
			},
		}
	}
	return days
}

func newTestController(t *testing.T, src *fakeSource, sessions auth.SessionProvider) (*Controller, *widget.Cache, *widget.MemoryStore) {
	t.Helper()
	clock := func() time.Time { return wednesday }

	store := widget.NewMemoryStore()
	cache := widget.NewCache(store, zap.NewNop())
	cache.SetClock(clock)

	c := NewController(src, sessions, cache, zap.NewNop())
	c.SetClock(clock)
	return c, cache, store
}

var school = auth.StaticSession{SchoolID: "517", Token: "t"}

func TestControllerRefreshWritesSnapshot(t *testing.T) {
	src := &fakeSource{}
	c, cache, store := newTestController(t, src, school)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Len(t, c.Schedule(), 7)
	assert.NoError(t, c.LastError())

	day, ok := c.SelectedDay()
	require.True(t, ok)
	assert.True(t, dateutil.IsSameDay(day.Date.Time, wednesday))

	data, err := cache.Read(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"15", "16", "17", "18", "19"}, keys(data))
	assert.Equal(t, 1, store.Saves())
}

func TestControllerOtherWeekSkipsSnapshot(t *testing.T) {
	src := &fakeSource{}
	c, _, store := newTestController(t, src, school)

	assert.True(t, c.WeekStep(Forward).Refetch)
	require.NoError(t, c.Refresh(context.Background()))

	assert.Equal(t, "2025-W04", c.Schedule()[0].Modules["0"][0].ID)
	assert.Equal(t, 0, store.Saves())
}

func TestControllerRequiresSchool(t *testing.T) {
	src := &fakeSource{}
	c, _, _ := newTestController(t, src, auth.StaticSession{})

	err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSchool)
	assert.ErrorIs(t, c.LastError(), auth.ErrNoSchool)
	assert.Empty(t, src.Calls())
}

func TestControllerFailedFetchKeepsSchedule(t *testing.T) {
	src := &fakeSource{}
	c, _, _ := newTestController(t, src, school)
	require.NoError(t, c.Refresh(context.Background()))

	src.mu.Lock()
	src.err = errors.New("scraper down")
	src.mu.Unlock()

	assert.Error(t, c.Refresh(context.Background()))
	assert.Len(t, c.Schedule(), 7)
	assert.Error(t, c.LastError())
}

func TestControllerSelectedDayOutsideLoadedWeek(t *testing.T) {
	src := &fakeSource{}
	c, _, _ := newTestController(t, src, school)
	require.NoError(t, c.Refresh(context.Background()))

	c.WeekStep(Forward)
	_, ok := c.SelectedDay()
	assert.False(t, ok, "week step must not expose the previous week")

	require.NoError(t, c.Refresh(context.Background()))
	day, ok := c.SelectedDay()
	require.True(t, ok)
	assert.True(t, dateutil.IsSameDay(day.Date.Time, wednesday.AddDate(0, 0, 7)))
	assert.Equal(t, "2025-W04", day.Modules["0"][0].ID)
}

func TestControllerSelectedDayAfterFailedFetch(t *testing.T) {
	src := &fakeSource{}
	c, _, _ := newTestController(t, src, school)
	require.NoError(t, c.Refresh(context.Background()))

	src.mu.Lock()
	src.err = errors.New("scraper down")
	src.mu.Unlock()

	c.WeekStep(Backward)
	require.Error(t, c.Refresh(context.Background()))

	_, ok := c.SelectedDay()
	assert.False(t, ok)

	// back in the stored week the old data is valid again
	c.JumpToToday()
	day, ok := c.SelectedDay()
	require.True(t, ok)
	assert.True(t, dateutil.IsSameDay(day.Date.Time, wednesday))
}

func TestControllerWeekStrip(t *testing.T) {
	c, _, _ := newTestController(t, &fakeSource{}, school)

	strip := c.WeekStrip()
	assert.Equal(t, 13, strip[0].DayNumber)
	assert.Equal(t, "Mandag", strip[0].DayName)

	c.SetLocale(dateutil.LocaleEnglish)
	c.TapDay(strip[6])
	assert.Equal(t, 7, c.State().DayNumber())
	assert.Equal(t, "Sunday", c.WeekStrip()[6].DayName)
}

func TestControllerRunCoalescesRequests(t *testing.T) {
	src := &fakeSource{
		started: make(chan time.Time, 16),
		gate:    make(chan struct{}),
	}
	c, _, store := newTestController(t, src, school)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	// the initial fetch is in flight
	select {
	case <-src.started:
	case <-time.After(2 * time.Second):
		t.Fatal("initial fetch did not start")
	}

	c.WeekStep(Forward)
	c.WeekStep(Forward)
	c.WeekStep(Forward)
	close(src.gate)

	final := wednesday.AddDate(0, 0, 21)
	require.Eventually(t, func() bool {
		s := c.Schedule()
		return len(s) == 7 && s[0].Modules["0"][0].ID == dateutil.WeekKey(final)
	}, 2*time.Second, 10*time.Millisecond)

	calls := src.Calls()
	require.Len(t, calls, 2)
	assert.True(t, calls[0].Equal(wednesday))
	assert.True(t, calls[1].Equal(final))

	// the initial week became stale before it arrived and was never cached
	assert.Equal(t, 0, store.Saves())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestControllerRunCrossingWeekBoundary(t *testing.T) {
	src := &fakeSource{}
	c, _, _ := newTestController(t, src, school)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Run(ctx) }()

	require.Eventually(t, func() bool { return len(src.Calls()) == 1 }, 2*time.Second, 10*time.Millisecond)

	// Wednesday to Sunday stays within the loaded week
	for i := 0; i < 4; i++ {
		assert.False(t, c.DayStep(Forward).Refetch)
	}
	effect := c.DayStep(Forward)
	assert.True(t, effect.Refetch)
	assert.Equal(t, 1, c.State().DayNumber())

	require.Eventually(t, func() bool { return len(src.Calls()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "2025-W04", dateutil.WeekKey(src.Calls()[1]))
}

func keys(data schedule.WidgetData) []string {
	out := make([]string, 0, len(data))
	for k := range data {
		out = append(out, k)
	}
	return out
}
