package schedule

import (
	"strconv"
	"time"
)

// Status is the rendered state of a module in the widget
type Status string

const (
	StatusNormal    Status = "normal"
	StatusChanged   Status = "changed"
	StatusCancelled Status = "cancelled"
)

// StatusOf applies the precedence cancelled > changed > normal
func StatusOf(m Module) Status {
	switch {
	case m.Cancelled:
		return StatusCancelled
	case m.Changed:
		return StatusChanged
	default:
		return StatusNormal
	}
}

// EncodedModul is the widget's persisted projection of a Module
type EncodedModul struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Title  string    `json:"title"`
	Status Status    `json:"status"`
	ID     string    `json:"id"`
	Width  float64   `json:"width"` // fraction 0-1
	Left   float64   `json:"left"`  // fraction 0-1
}

// WidgetData maps a stringified day of month to that day's modules in render order
type WidgetData map[string][]EncodedModul

// DayKey returns the WidgetData key for date
func DayKey(date time.Time) string {
	return strconv.Itoa(date.Day())
}

// Clone returns a deep copy so snapshots can be handed out without aliasing
func (w WidgetData) Clone() WidgetData {
	out := make(WidgetData, len(w))
	for k, mods := range w {
		cp := make([]EncodedModul, len(mods))
		copy(cp, mods)
		out[k] = cp
	}
	return out
}
