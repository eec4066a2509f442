package schedule

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// DayDate handles the date formats the scraper emits for a day.
// Plain "2006-01-02" dates are interpreted in the local timezone.
type DayDate struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler for DayDate
func (d *DayDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	if parsed, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		d.Time = parsed
		return nil
	}

	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000-0700",
	}

	var parseErr error
	for _, format := range formats {
		parsed, err := time.Parse(format, s)
		if err == nil {
			d.Time = parsed
			return nil
		}
		parseErr = err
	}

	return parseErr
}

// MarshalJSON implements json.Marshaler for DayDate
func (d DayDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// TimeSpan holds compact "HHMM" start and end times
type TimeSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Module is one class period as produced by the scraper
type Module struct {
	ID          string   `json:"id"`
	TimeSpan    TimeSpan `json:"time_span"`
	Title       string   `json:"title,omitempty"`
	Team        string   `json:"team,omitempty"`
	Teacher     string   `json:"teacher,omitempty"`
	Room        string   `json:"room,omitempty"`
	Cancelled   bool     `json:"cancelled"`
	Changed     bool     `json:"changed"`
	HasHomework bool     `json:"homework,omitempty"`
	HasComment  bool     `json:"comment,omitempty"`
	Left        string   `json:"left"`  // "0%"
	Width       string   `json:"width"` // "100%"
}

// DisplayTitle returns the title, falling back to the team name
func (m Module) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Team
}

// Day is one day of a scraped week
type Day struct {
	Date    DayDate             `json:"date"`
	Modules map[string][]Module `json:"modules"` // ordering key -> overlapping modules
	Note    string              `json:"note,omitempty"`
}

// Ordered flattens Modules in ascending ordering-key order.
// Numeric keys compare numerically and sort before non-numeric ones.
func (d Day) Ordered() []Module {
	keys := make([]string, 0, len(d.Modules))
	for k := range d.Modules {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		}
		return keys[i] < keys[j]
	})

	var modules []Module
	for _, k := range keys {
		modules = append(modules, d.Modules[k]...)
	}
	return modules
}
