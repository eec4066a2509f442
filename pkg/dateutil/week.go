package dateutil

import (
	"strings"
	"time"
)

// DaysInWeek is the length of a Monday-start week strip
const DaysInWeek = 7

// Locale selects the language used for weekday names
type Locale string

const (
	LocaleDanish  Locale = "da"
	LocaleEnglish Locale = "en"
)

// DefaultLocale is used by GetDay and GetDaysOfWeek
var DefaultLocale = LocaleDanish

// dayNames are indexed Monday=0 ... Sunday=6
var dayNames = map[Locale][DaysInWeek]string{
	LocaleDanish:  {"Mandag", "Tirsdag", "Onsdag", "Torsdag", "Fredag", "Lørdag", "Søndag"},
	LocaleEnglish: {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
}

// ParseLocale returns the locale for a config value, falling back to Danish
func ParseLocale(s string) Locale {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := dayNames[l]; ok {
		return l
	}
	return LocaleDanish
}

// WeekDay is one calendar day inside a Monday-start week
type WeekDay struct {
	DayNumber     int       `json:"day_number"`      // day of month, 1-31
	WeekDayNumber int       `json:"week_day_number"` // Monday=1 ... Sunday=7
	DayName       string    `json:"day_name"`
	IsWeekday     bool      `json:"is_weekday"` // true on Saturday and Sunday, consumers depend on this
	Date          time.Time `json:"date"`
}

// GetDay describes date using the default locale
func GetDay(date time.Time) WeekDay {
	return GetDayIn(date, DefaultLocale)
}

// GetDayIn describes date with weekday names from locale
func GetDayIn(date time.Time, locale Locale) WeekDay {
	names, ok := dayNames[locale]
	if !ok {
		names = dayNames[LocaleDanish]
	}

	idx := mondayIndex(date)
	return WeekDay{
		DayNumber:     date.Day(),
		WeekDayNumber: idx + 1,
		DayName:       names[idx],
		IsWeekday:     IsWeekend(date),
		Date:          StartOfDay(date),
	}
}

// GetDaysOfWeek returns the seven days of the week containing date, Monday first
func GetDaysOfWeek(date time.Time) [DaysInWeek]WeekDay {
	return GetDaysOfWeekIn(date, DefaultLocale)
}

// GetDaysOfWeekIn is GetDaysOfWeek with explicit locale
func GetDaysOfWeekIn(date time.Time, locale Locale) [DaysInWeek]WeekDay {
	monday := StartOfWeek(date)

	var days [DaysInWeek]WeekDay
	for i := range days {
		days[i] = GetDayIn(monday.AddDate(0, 0, i), locale)
	}
	return days
}

// GetNextWeek returns date moved forward by seven calendar days, time of day kept
func GetNextWeek(date time.Time) time.Time {
	return date.AddDate(0, 0, DaysInWeek)
}

// GetPrevWeek returns date moved back by seven calendar days, time of day kept
func GetPrevWeek(date time.Time) time.Time {
	return date.AddDate(0, 0, -DaysInWeek)
}
