//go:build windows

package daemon

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"github.com/username/skema-widget/internal/schedule"
	"go.uber.org/zap"
)

//go:embed icon.ico
var trayIcon []byte

var (
	user32      = syscall.NewLazyDLL("user32.dll")
	messageBoxW = user32.NewProc("MessageBoxW")
)

const (
	MB_OK              = 0x00000000
	MB_ICONINFORMATION = 0x00000040
)

// TrayApp shows today's modules from the widget snapshot in the system tray
type TrayApp struct {
	daemon *Daemon
	logger *zap.Logger
	quit   chan struct{}
}

// NewTrayApp creates a new system tray application
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		daemon: daemon,
		logger: logger,
		quit:   make(chan struct{}),
	}, nil
}

// Run starts the system tray application (blocks until Quit)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayApp) onReady() {
	systray.SetIcon(trayIcon)
	systray.SetTitle("Skema")
	systray.SetTooltip("Skema")

	mRefresh := systray.AddMenuItem("Refresh Now", "Fetch the schedule and update the widget")
	systray.AddSeparator()
	mToday := systray.AddMenuItem("Today", "Show today's modules")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the application")

	go t.daemon.runScheduledLogic()

	go func() {
		for {
			select {
			case <-mRefresh.ClickedCh:
				t.logger.Info("Refresh Now clicked from tray")
				go func() {
					t.daemon.RefreshNow()
					t.updateTooltip()
				}()
			case <-mToday.ClickedCh:
				t.logger.Info("Today clicked from tray")
				t.showToday()
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.daemon.Stop()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()

	t.updateTooltip()
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	select {
	case <-t.quit:
	default:
		close(t.quit)
	}
}

// ShowNotification logs a notification; fyne.io/systray has no balloon support
func (t *TrayApp) ShowNotification(title, message string) {
	t.logger.Info("Notification", zap.String("title", title), zap.String("message", message))
}

func (t *TrayApp) updateTooltip() {
	modules, err := t.daemon.TodayModules(context.Background())
	if err != nil {
		t.logger.Warn("Failed to read widget snapshot", zap.Error(err))
		return
	}
	if len(modules) == 0 {
		systray.SetTooltip("Skema: no modules today")
		return
	}
	systray.SetTooltip(fmt.Sprintf("Skema: %s at %s", modules[0].Title, modules[0].Start.Format("15:04")))
}

func (t *TrayApp) showToday() {
	modules, err := t.daemon.TodayModules(context.Background())
	if err != nil {
		showMessageBox("Skema", fmt.Sprintf("Error: %v", err))
		return
	}
	showMessageBox("Skema", formatModules(modules))
}

func formatModules(modules []schedule.EncodedModul) string {
	if len(modules) == 0 {
		return "No modules today"
	}
	var b strings.Builder
	for _, m := range modules {
		fmt.Fprintf(&b, "%s-%s  %s", m.Start.Format("15:04"), m.End.Format("15:04"), m.Title)
		if m.Status != schedule.StatusNormal {
			fmt.Fprintf(&b, " (%s)", m.Status)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func showMessageBox(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(MB_OK|MB_ICONINFORMATION),
	)
}
