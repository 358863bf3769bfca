package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"stayhub-backend/internal/domains/booking"
)

func TestRevenueMatch(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	match := revenueMatch(from, to)

	statuses, ok := match["status"].(bson.M)
	require.True(t, ok)
	assert.ElementsMatch(t,
		[]string{booking.StatusConfirmed, booking.StatusCompleted},
		statuses["$in"])

	assert.Contains(t, match, "deletedAt")
	assert.Nil(t, match["deletedAt"])

	window, ok := match["checkOut"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, from, window["$gte"])
	assert.Equal(t, to, window["$lt"])
}

func TestPeriodBounds(t *testing.T) {
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		period    string
		wantFrom  time.Time
		wantTo    time.Time
		wantError bool
	}{
		{
			name:     "explicit month",
			period:   "2025-03",
			wantFrom: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "december rolls into next year",
			period:   "2024-12",
			wantFrom: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "empty period defaults to current month",
			period:   "",
			wantFrom: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "malformed period",
			period:    "March 2025",
			wantError: true,
		},
		{
			name:      "day-level precision rejected",
			period:    "2025-03-01",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := periodBounds(tt.period, now)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}
