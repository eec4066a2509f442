// Package navigation drives which day and week of the timetable is shown and
// decides when the week has to be fetched again.
package navigation

import (
	"time"

	"github.com/username/skema-widget/pkg/dateutil"
)

// Direction of a step
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// State is the navigation tuple. dayNumber is always the Monday-based weekday
// number of selectedDay; the only way to move selectedDay is withSelectedDay.
type State struct {
	selectedDay time.Time
	loadDate    time.Time
	dayNumber   int
}

// NewState returns the initial state: everything at now
func NewState(now time.Time) State {
	return State{loadDate: now}.withSelectedDay(now)
}

func (s State) withSelectedDay(day time.Time) State {
	s.selectedDay = day
	s.dayNumber = dateutil.GetDay(day).WeekDayNumber
	return s
}

// SelectedDay is the day being displayed
func (s State) SelectedDay() time.Time { return s.selectedDay }

// LoadDate is the date whose week is (or is being) loaded
func (s State) LoadDate() time.Time { return s.loadDate }

// DayNumber is 1 (Monday) to 7 (Sunday) for SelectedDay
func (s State) DayNumber() int { return s.dayNumber }

// Event is a navigation input
type Event interface {
	event()
}

// DayStep moves the selection one day
type DayStep struct {
	Direction Direction
}

// WeekStep moves the selection one week and always reloads
type WeekStep struct {
	Direction Direction
}

// JumpToToday resets the selection to now
type JumpToToday struct{}

// DayTap selects a day from the visible week strip
type DayTap struct {
	Day dateutil.WeekDay
}

func (DayStep) event()     {}
func (WeekStep) event()    {}
func (JumpToToday) event() {}
func (DayTap) event()      {}

// Effect tells the caller what a transition requires
type Effect struct {
	// Refetch is set when loadDate changed and the week must be fetched
	Refetch bool
	// Ignored is set when the event was not permitted and the state is unchanged
	Ignored bool
}

// Apply is the transition function
func Apply(s State, ev Event, now time.Time) (State, Effect) {
	switch e := ev.(type) {
	case DayStep:
		if e.Direction == 0 {
			return s, Effect{Ignored: true}
		}
		next := s.withSelectedDay(s.selectedDay.AddDate(0, 0, step(e.Direction)))
		if dateutil.IsSameWeek(next.selectedDay, s.loadDate) {
			return next, Effect{}
		}
		next.loadDate = next.selectedDay
		return next, Effect{Refetch: true}

	case WeekStep:
		var day time.Time
		switch {
		case e.Direction > 0:
			day = dateutil.GetNextWeek(s.selectedDay)
		case e.Direction < 0:
			day = dateutil.GetPrevWeek(s.selectedDay)
		default:
			return s, Effect{Ignored: true}
		}
		next := s.withSelectedDay(day)
		next.loadDate = day
		return next, Effect{Refetch: true}

	case JumpToToday:
		if dateutil.IsSameWeek(s.loadDate, now) && dateutil.IsSameDay(s.selectedDay, now) {
			return s, Effect{Ignored: true}
		}
		next := s.withSelectedDay(now)
		next.loadDate = now
		return next, Effect{Refetch: true}

	case DayTap:
		if e.Day.Date.IsZero() {
			return s, Effect{Ignored: true}
		}
		return s.withSelectedDay(e.Day.Date), Effect{}
	}

	return s, Effect{Ignored: true}
}

func step(d Direction) int {
	if d > 0 {
		return 1
	}
	return -1
}
