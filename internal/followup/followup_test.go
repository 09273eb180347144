package followup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestDaysSinceStart(t *testing.T) {
	assert.Equal(t, 0, DaysSinceStart(now, now))
	assert.Equal(t, 1, DaysSinceStart(now.Add(-time.Hour), now))
	assert.Equal(t, 7, DaysSinceStart(now.AddDate(0, 0, -7), now))
}

func TestUpcomingTask(t *testing.T) {
	tests := []struct {
		name      string
		daysAgo   int
		wantTitle string
	}{
		{name: "day 1 -> unboxing", daysAgo: 1, wantTitle: "Unboxing Support"},
		{name: "day 3 boundary", daysAgo: 3, wantTitle: "Unboxing Support"},
		{name: "day 4 -> first results", daysAgo: 4, wantTitle: "Erste Ergebnisse"},
		{name: "day 20 -> referral call", daysAgo: 20, wantTitle: "Empfehlungsanfrage"},
		{name: "day 61 -> reactivation", daysAgo: 61, wantTitle: "Reaktivierung"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start := now.AddDate(0, 0, -tc.daysAgo)
			task := UpcomingTask(start, now)
			require.NotNil(t, task)
			assert.Equal(t, tc.wantTitle, task.Title)
		})
	}
}

func TestUpcomingTaskLifecycleComplete(t *testing.T) {
	start := now.AddDate(0, 0, -120)
	assert.Nil(t, UpcomingTask(start, now))
}
