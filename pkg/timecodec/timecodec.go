// Package timecodec converts the portal's compact schedule values.
//
// Times arrive as 1-4 digit "HMM"/"HHMM" strings without a separator
// ("930" = 09:30, "1705" = 17:05) and layout offsets as percentage strings
// ("37.5 %"). Input comes from a single trusted scraper, so malformed values
// are not rejected: they decode to the zero time or NaN and callers that care
// check for that.
package timecodec

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DecodeTime returns day's calendar date at the hour and minute encoded in raw.
// A non-numeric raw value yields the zero time.Time.
func DecodeTime(raw string, day time.Time) time.Time {
	padded := strings.TrimSpace(raw)
	for len(padded) < 4 {
		padded = "0" + padded
	}

	hour, err := strconv.Atoi(padded[:2])
	if err != nil {
		return time.Time{}
	}
	minute, err := strconv.Atoi(padded[2:])
	if err != nil {
		return time.Time{}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// EncodeTime is the inverse of DecodeTime ("0930" for 09:30)
func EncodeTime(t time.Time) string {
	return fmt.Sprintf("%02d%02d", t.Hour(), t.Minute())
}

// DecodePercent turns "37.5 %" into 0.375. Malformed input yields NaN.
func DecodePercent(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v / 100
}
