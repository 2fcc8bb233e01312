package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservationWindow(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantDate string
		wantTime string
	}{
		{
			name:     "minute before publication steps back one hour",
			now:      time.Date(2025, 1, 15, 14, 29, 0, 0, time.UTC),
			wantDate: "20250115",
			wantTime: "1300",
		},
		{
			name:     "publication minute uses the current hour",
			now:      time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC),
			wantDate: "20250115",
			wantTime: "1400",
		},
		{
			name:     "after publication stays on the current hour",
			now:      time.Date(2025, 1, 15, 14, 45, 0, 0, time.UTC),
			wantDate: "20250115",
			wantTime: "1400",
		},
		{
			name:     "midnight wraps to 23:00 of the previous day",
			now:      time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			wantDate: "20250114",
			wantTime: "2300",
		},
		{
			name:     "first day of month wraps to the previous month",
			now:      time.Date(2025, 3, 1, 0, 10, 0, 0, time.UTC),
			wantDate: "20250228",
			wantTime: "2300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := ObservationWindow(tt.now)
			assert.Equal(t, tt.wantDate, window.BaseDate)
			assert.Equal(t, tt.wantTime, window.BaseTime)
		})
	}
}
