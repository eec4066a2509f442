package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/skema-widget/internal/daemon"
	"github.com/username/skema-widget/internal/navigation"
	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/internal/widget"
	"github.com/username/skema-widget/pkg/dateutil"
	"go.uber.org/zap"
)

func refreshCmd() *cobra.Command {
	var dateStr string
	var teeOutput string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the week and rewrite the widget snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teeOutput != "" {
				if err := os.MkdirAll(filepath.Dir(teeOutput), 0o755); err != nil {
					return fmt.Errorf("failed to create tee path: %w", err)
				}
				f, err := os.OpenFile(teeOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open tee-output file: %w", err)
				}
				defer f.Close()
				out = io.MultiWriter(os.Stdout, f)
				defer func() { out = os.Stdout }()
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := initializeApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			today := dateutil.Today()
			target := today
			if dateStr != "" {
				target, err = dateutil.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("invalid date format: %w", err)
				}
			}

			stepToWeek(a.controller, today, target)
			week := dateutil.WeekKey(a.controller.State().LoadDate())

			logger.Info("Refreshing schedule",
				zap.Time("date", target),
				zap.String("week", week))

			if err := a.controller.Refresh(cmd.Context()); err != nil {
				return err
			}

			days := a.controller.Schedule()
			outPrintf("📅 Week %s: %d days loaded\n", week, len(days))
			for _, day := range days {
				outPrintf("   • %s  %d module(s)\n", day.Date.Format("Mon 2006-01-02"), len(day.Ordered()))
			}

			if dateutil.IsSameWeek(target, today) {
				outPrintln("✅ Widget snapshot updated")
			} else {
				outPrintln("ℹ️  Not the current week, widget snapshot left unchanged")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "Date inside the week to fetch (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&teeOutput, "tee-output", "", "Mirror output to file")

	return cmd
}

// stepToWeek moves the controller from today's week to target's week
func stepToWeek(c *navigation.Controller, today, target time.Time) {
	diff := dateutil.StartOfWeek(target).Sub(dateutil.StartOfWeek(today))
	weeks := int(math.Round(diff.Hours() / 24 / 7))

	direction := navigation.Forward
	if weeks < 0 {
		direction = navigation.Backward
		weeks = -weeks
	}
	for i := 0; i < weeks; i++ {
		c.WeekStep(direction)
	}
}

func showCmd() *cobra.Command {
	var day int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the widget snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.cache.Read(cmd.Context())
			if err != nil {
				return err
			}

			if day > 0 {
				key := strconv.Itoa(day)
				modules, ok := data[key]
				if !ok {
					return fmt.Errorf("day %d is not in the widget snapshot", day)
				}
				printSnapshot(schedule.WidgetData{key: modules})
				return nil
			}

			printSnapshot(data)
			return nil
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Day of month to show (default all)")

	return cmd
}

func printSnapshot(data schedule.WidgetData) {
	if len(data) == 0 {
		outPrintln("Widget snapshot is empty")
		return
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, _ := strconv.Atoi(keys[i])
		nj, _ := strconv.Atoi(keys[j])
		return ni < nj
	})

	outPrintln("  Day | Time        | Status    | Title")
	outPrintln("------+-------------+-----------+--------------------------")
	for _, k := range keys {
		if len(data[k]) == 0 {
			outPrintf("  %3s | %-11s | %-9s | %s\n", k, "", "", "(no modules)")
			continue
		}
		for _, m := range data[k] {
			outPrintf("  %3s | %s-%s | %-9s | %s\n",
				k,
				m.Start.Format("15:04"),
				m.End.Format("15:04"),
				m.Status,
				m.Title)
		}
	}
}

func weekCmd() *cobra.Command {
	var dateStr string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the Monday-first week strip for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			locale := dateutil.DefaultLocale
			if cfg, err := loadConfig(); err == nil {
				locale = dateutil.ParseLocale(cfg.Locale)
			}

			date := dateutil.Today()
			if dateStr != "" {
				var err error
				date, err = dateutil.ParseDate(dateStr)
				if err != nil {
					return fmt.Errorf("invalid date format: %w", err)
				}
			}

			year, week := dateutil.GetWeekNumber(date)
			outPrintf("Week %d, %d (%s - %s)\n", week, year,
				dateutil.StartOfWeek(date).Format("02.01"),
				dateutil.EndOfWeek(date).Format("02.01"))

			today := dateutil.Today()
			for _, d := range dateutil.GetDaysOfWeekIn(date, locale) {
				marker := " "
				if dateutil.IsSameDay(d.Date, today) {
					marker = "*"
				}
				weekend := ""
				if d.IsWeekday {
					weekend = " (weekend)"
				}
				outPrintf(" %s %d %-8s %2d %s%s\n", marker, d.WeekDayNumber, d.DayName, d.DayNumber, d.Date.Format("2006-01-02"), weekend)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "Date (YYYY-MM-DD), default today")

	return cmd
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Refresh the widget snapshot on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := initializeApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := daemon.NewDaemon(a.controller, a.cache, cfg.Daemon.GetRefreshCron(), cfg.Daemon.SystemTray, logger)
			if err != nil {
				return err
			}

			logger.Info("Starting daemon",
				zap.String("refresh_cron", cfg.Daemon.GetRefreshCron()),
				zap.Bool("system_tray", cfg.Daemon.SystemTray))

			return d.Start()
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the widget snapshot file and print it on every change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			fileStore, ok := a.store.(*widget.FileStore)
			if !ok {
				return errors.New("watch needs widget.store: file")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			path := fileStore.Path(widget.SnapshotKey)
			outPrintf("👀 Watching %s\n", path)

			return widget.Watch(ctx, path, logger, func(data schedule.WidgetData) {
				outPrintf("\n%s\n", time.Now().Format("15:04:05"))
				printSnapshot(data)
			})
		},
	}
}
