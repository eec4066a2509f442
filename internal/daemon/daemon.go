package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/username/skema-widget/internal/navigation"
	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/internal/widget"
	"go.uber.org/zap"
)

var errRefreshRunning = errors.New("refresh already in progress")

// Controller is the part of the navigation controller the daemon drives
type Controller interface {
	JumpToToday() navigation.Effect
	Refresh(ctx context.Context) error
}

// Daemon keeps the widget snapshot current on a cron schedule
type Daemon struct {
	controller  Controller
	cache       *widget.Cache
	refreshCron string
	systemTray  bool // Show system tray icon
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	cron        *cron.Cron
	trayApp     *TrayApp
	mu          sync.Mutex // Protect against concurrent refreshes
	running     bool
	lastRunTime time.Time
	lastErr     error
}

// NewDaemon creates a new daemon instance running refreshCron (standard
// five-field syntax)
func NewDaemon(controller Controller, cache *widget.Cache, refreshCron string, systemTray bool, logger *zap.Logger) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	d := &Daemon{
		controller:  controller,
		cache:       cache,
		refreshCron: refreshCron,
		systemTray:  systemTray,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		cron:        cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
	}

	if _, err := d.cron.AddFunc(refreshCron, d.scheduledRefresh); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", refreshCron, err)
	}

	return d, nil
}

// Start starts the daemon and blocks until it is stopped
func (d *Daemon) Start() error {
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			return d.startWithoutTray()
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	return d.startWithoutTray()
}

func (d *Daemon) startWithoutTray() error {
	d.runScheduledLogic()
	return nil
}

// runScheduledLogic refreshes once, then on schedule until stopped
// (called from tray or standalone)
func (d *Daemon) runScheduledLogic() {
	d.logger.Info("Daemon scheduled logic started",
		zap.String("refresh_cron", d.refreshCron))

	if err := d.runRefresh(); err != nil {
		d.logger.Error("Initial refresh failed", zap.Error(err))
	}

	d.cron.Start()
	defer func() {
		<-d.cron.Stop().Done()
	}()

	d.logger.Info("Next refresh scheduled", zap.Time("next_run", d.NextRun()))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-d.ctx.Done():
		d.logger.Info("Daemon stopped")
	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		d.Stop()
	}

	d.logger.Info("Daemon status at shutdown", zap.Any("status", d.GetStatus()))

	if d.trayApp != nil {
		d.trayApp.Stop()
	}
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) scheduledRefresh() {
	d.logger.Info("Starting scheduled refresh")
	if err := d.runRefresh(); err != nil {
		d.logger.Error("Scheduled refresh failed", zap.Error(err))
		d.notify("Refresh Failed", fmt.Sprintf("Error: %v", err))
		return
	}
	d.logger.Info("Next refresh scheduled",
		zap.Time("next_run", d.NextRun()),
		zap.Any("status", d.GetStatus()))
}

// runRefresh moves the controller to today and reloads the current week.
// Only one refresh runs at a time: the snapshot has a single writer.
func (d *Daemon) runRefresh() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		d.logger.Warn("Refresh already running, skipping concurrent execution")
		return errRefreshRunning
	}
	d.running = true
	d.mu.Unlock()

	d.controller.JumpToToday()
	err := d.controller.Refresh(d.ctx)

	d.mu.Lock()
	d.running = false
	d.lastErr = err
	if err == nil {
		d.lastRunTime = time.Now()
	}
	d.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to refresh schedule: %w", err)
	}
	d.logger.Info("Widget snapshot refreshed")
	return nil
}

// RefreshNow triggers an immediate refresh (called from tray menu)
func (d *Daemon) RefreshNow() {
	d.logger.Info("Manual refresh triggered")
	if err := d.runRefresh(); err != nil {
		d.logger.Error("Manual refresh failed", zap.Error(err))
		d.notify("Refresh Failed", fmt.Sprintf("Error: %v", err))
		return
	}
	d.notify("Refresh Completed", "Widget schedule updated")
}

func (d *Daemon) notify(title, message string) {
	if d.trayApp != nil {
		d.trayApp.ShowNotification(title, message)
	}
}

// NextRun returns the next scheduled refresh, zero if the scheduler is not running
func (d *Daemon) NextRun() time.Time {
	entries := d.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// TodayModules returns today's entries from the widget snapshot
func (d *Daemon) TodayModules(ctx context.Context) ([]schedule.EncodedModul, error) {
	data, err := d.cache.Read(ctx)
	if err != nil {
		return nil, err
	}
	return data[schedule.DayKey(time.Now())], nil
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	lastRun, lastErr, running := d.lastRunTime, d.lastErr, d.running
	d.mu.Unlock()

	status := map[string]interface{}{
		"running":      running,
		"refresh_cron": d.refreshCron,
		"last_run":     lastRun,
		"next_run":     d.NextRun(),
	}
	if lastErr != nil {
		status["last_error"] = lastErr.Error()
	}

	if modules, err := d.TodayModules(d.ctx); err == nil {
		status["today"] = modules
	}

	return status
}
