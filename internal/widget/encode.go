package widget

import (
	"math"
	"time"

	"github.com/username/skema-widget/internal/schedule"
	"github.com/username/skema-widget/pkg/timecodec"
)

// EncodeModule projects m onto day for the widget.
// Layout fractions that are missing or malformed fall back to a full-width
// block, since the snapshot is JSON and cannot carry NaN.
func EncodeModule(m schedule.Module, day time.Time) schedule.EncodedModul {
	return schedule.EncodedModul{
		Start:  timecodec.DecodeTime(m.TimeSpan.Start, day),
		End:    timecodec.DecodeTime(m.TimeSpan.End, day),
		Title:  m.DisplayTitle(),
		Status: schedule.StatusOf(m),
		ID:     m.ID,
		Width:  layoutFraction(m.Width, 1),
		Left:   layoutFraction(m.Left, 0),
	}
}

func layoutFraction(raw string, fallback float64) float64 {
	v := timecodec.DecodePercent(raw)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// EncodeDay encodes a day's modules in render order
func EncodeDay(day schedule.Day, date time.Time) []schedule.EncodedModul {
	modules := day.Ordered()
	encoded := make([]schedule.EncodedModul, 0, len(modules))
	for _, m := range modules {
		encoded = append(encoded, EncodeModule(m, date))
	}
	return encoded
}
