package daemon

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/skema-widget/internal/navigation"
	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/internal/widget"
)

type fakeController struct {
	jumps     int32
	refreshes int32
	err       error
	block     chan struct{}
}

func (f *fakeController) JumpToToday() navigation.Effect {
	atomic.AddInt32(&f.jumps, 1)
	return navigation.Effect{}
}

func (f *fakeController) Refresh(ctx context.Context) error {
	atomic.AddInt32(&f.refreshes, 1)
	if f.block != nil {
		<-f.block
	}
	return f.err
}

func newCache() *widget.Cache {
	return widget.NewCache(widget.NewMemoryStore(), zap.NewNop())
}

func TestNewDaemonRejectsBadSchedule(t *testing.T) {
	_, err := NewDaemon(&fakeController{}, newCache(), "every two hours", false, zap.NewNop())
	assert.Error(t, err)
}

func TestDaemonRefreshesOnStart(t *testing.T) {
	ctrl := &fakeController{}
	d, err := NewDaemon(ctrl, newCache(), "0 */2 * * *", false, zap.NewNop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- d.Start() }()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&ctrl.refreshes) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&ctrl.jumps))

	require.Eventually(t, func() bool {
		return !d.NextRun().IsZero()
	}, 2*time.Second, 10*time.Millisecond)

	d.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not stop")
	}

	status := d.GetStatus()
	assert.Equal(t, false, status["running"])
	assert.NotContains(t, status, "last_error")
}

func TestDaemonSingleRefresh(t *testing.T) {
	ctrl := &fakeController{block: make(chan struct{})}
	d, err := NewDaemon(ctrl, newCache(), "@hourly", false, zap.NewNop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, d.runRefresh())
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&ctrl.refreshes) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.ErrorIs(t, d.runRefresh(), errRefreshRunning)

	close(ctrl.block)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&ctrl.refreshes))
}

func TestDaemonRecordsFailure(t *testing.T) {
	ctrl := &fakeController{err: errors.New("scraper down")}
	d, err := NewDaemon(ctrl, newCache(), "@hourly", false, zap.NewNop())
	require.NoError(t, err)

	d.RefreshNow()

	status := d.GetStatus()
	assert.Equal(t, "scraper down", status["last_error"])
	assert.True(t, status["last_run"].(time.Time).IsZero())
}

func TestTodayModules(t *testing.T) {
	cache := newCache()
	now := time.Now()
	require.NoError(t, cache.WriteMerged(context.Background(), schedule.WidgetData{
		schedule.DayKey(now): {{ID: "m1", Title: "Fysik"}},
	}))

	d, err := NewDaemon(&fakeController{}, cache, "@hourly", false, zap.NewNop())
	require.NoError(t, err)

	modules, err := d.TodayModules(context.Background())
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, "Fysik", modules[0].Title)
}
