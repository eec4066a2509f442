package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name   string
		module Module
		want   Status
	}{
		{"plain", Module{}, StatusNormal},
		{"changed", Module{Changed: true}, StatusChanged},
		{"cancelled", Module{Cancelled: true}, StatusCancelled},
		{"cancelled wins over changed", Module{Cancelled: true, Changed: true}, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.module))
		})
	}
}

func TestDayOrdered(t *testing.T) {
	day := Day{Modules: map[string][]Module{
		"10":    {{ID: "c"}},
		"2":     {{ID: "a1"}, {ID: "a2"}},
		"extra": {{ID: "z"}},
		"3":     {{ID: "b"}},
	}}

	var ids []string
	for _, m := range day.Ordered() {
		ids = append(ids, m.ID)
	}

	assert.Equal(t, []string{"a1", "a2", "b", "c", "z"}, ids)
	assert.Empty(t, Day{}.Ordered())
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Matematik", Module{Title: "Matematik", Team: "1x MA"}.DisplayTitle())
	assert.Equal(t, "1x MA", Module{Team: "1x MA"}.DisplayTitle())
}

func TestDayUnmarshal(t *testing.T) {
	raw := `{
		"date": "2025-01-15",
		"note": "Ekskursion",
		"modules": {"0": [{"id": "m1", "time_span": {"start": "815", "end": "945"},
			"team": "1x DA", "cancelled": true, "left": "0%", "width": "50 %"}]}
	}`

	var day Day
	require.NoError(t, json.Unmarshal([]byte(raw), &day))

	assert.Equal(t, 2025, day.Date.Year())
	assert.Equal(t, time.January, day.Date.Month())
	assert.Equal(t, 15, day.Date.Day())
	assert.Equal(t, "Ekskursion", day.Note)
	require.Len(t, day.Ordered(), 1)
	assert.Equal(t, "815", day.Ordered()[0].TimeSpan.Start)
	assert.True(t, day.Ordered()[0].Cancelled)

	out, err := json.Marshal(day.Date)
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-01-15"`, string(out))
}

func TestDayDateRejectsGarbage(t *testing.T) {
	var d DayDate
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}

func TestWidgetDataClone(t *testing.T) {
	orig := WidgetData{"15": {{ID: "a"}}}
	cp := orig.Clone()
	cp["15"][0].ID = "b"
	cp["16"] = nil

	assert.Equal(t, "a", orig["15"][0].ID)
	assert.NotContains(t, orig, "16")
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "7", DayKey(time.Date(2025, 3, 7, 23, 0, 0, 0, time.UTC)))
}
