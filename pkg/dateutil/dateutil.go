package dateutil

import (
	"fmt"
	"time"
)

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EndOfDay returns the end of the day (23:59:59.999) for the given date
func EndOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999999999, date.Location())
}

// mondayIndex maps time.Weekday (Sunday=0) to the Monday-start index (Monday=0 ... Sunday=6)
func mondayIndex(date time.Time) int {
	weekday := int(date.Weekday())
	if weekday == 0 {
		return 6
	}
	return weekday - 1
}

// WeekDayIndex returns the zero-based position of date inside its Monday-start week
func WeekDayIndex(date time.Time) int {
	return mondayIndex(date)
}

// StartOfWeek returns the Monday of the week for the given date
func StartOfWeek(date time.Time) time.Time {
	return StartOfDay(date.AddDate(0, 0, -mondayIndex(date)))
}

// EndOfWeek returns the Sunday of the week for the given date
func EndOfWeek(date time.Time) time.Time {
	monday := StartOfWeek(date)
	sunday := monday.AddDate(0, 0, 6)
	return EndOfDay(sunday)
}

// GetWeekNumber returns the ISO week number for the given date
func GetWeekNumber(date time.Time) (year int, week int) {
	year, week = date.ISOWeek()
	return
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// IsSameWeek returns true if two dates are in the same ISO week
func IsSameWeek(date1, date2 time.Time) bool {
	year1, week1 := GetWeekNumber(date1)
	year2, week2 := GetWeekNumber(date2)
	return year1 == year2 && week1 == week2
}

// WeekKey formats the ISO week of date as "2025-W03"
func WeekKey(date time.Time) string {
	year, week := GetWeekNumber(date)
	return fmt.Sprintf("%d-W%02d", year, week)
}

// ParseDate parses date string in various formats.
// Dates without an offset are interpreted in the local timezone.
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"02-01-2006",
		"2006-01-02T15:04:05",
	}

	var parseErr error
	for _, format := range formats {
		t, err := time.ParseInLocation(format, dateStr, time.Local)
		if err == nil {
			return t, nil
		}
		parseErr = err
	}

	for _, format := range []string{time.RFC3339, "2006-01-02T15:04:05-0700"} {
		t, err := time.Parse(format, dateStr)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, parseErr
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
