package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"evdash/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Available", Available},
		{"Charging", Charging},
		{"Preparing", Preparing},
		{"Finishing", Finishing},
		{"Faulted", Faulted},
		{"Unavailable", Unavailable},
		{"SuspendedEV", Unavailable},
		{"available", Unavailable},
		{"", Unavailable},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Normalize(tc.in), "input %q", tc.in)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		states []string
		want   Counts
	}{
		{
			name: "empty fleet",
		},
		{
			name:   "preparing counts as available, finishing as charging",
			states: []string{"Available", "Preparing", "Charging", "Finishing"},
			want:   Counts{Available: 2, Charging: 2},
		},
		{
			name:   "faulted and unknown count as offline",
			states: []string{"Faulted", "Unavailable", "Bogus"},
			want:   Counts{Offline: 3},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.states)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, len(tc.states), got.Available+got.Charging+got.Offline)
		})
	}
}

func TestLatest(t *testing.T) {
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	t.Run("no events means unavailable", func(t *testing.T) {
		assert.Equal(t, Unavailable, Latest(nil))
	})

	t.Run("greatest timestamp wins regardless of order", func(t *testing.T) {
		events := []models.StatusEvent{
			{EventID: 3, Status: "Charging", RecordedAt: base.Add(2 * time.Minute)},
			{EventID: 1, Status: "Available", RecordedAt: base},
			{EventID: 2, Status: "Preparing", RecordedAt: base.Add(time.Minute)},
		}
		assert.Equal(t, Charging, Latest(events))
	})

	t.Run("equal timestamps fall back to event id", func(t *testing.T) {
		events := []models.StatusEvent{
			{EventID: 10, Status: "Available", RecordedAt: base},
			{EventID: 11, Status: "Faulted", RecordedAt: base},
		}
		assert.Equal(t, Faulted, Latest(events))
	})

	t.Run("unknown latest label reports unavailable", func(t *testing.T) {
		events := []models.StatusEvent{
			{EventID: 1, Status: "Available", RecordedAt: base},
			{EventID: 2, Status: "Reserved", RecordedAt: base.Add(time.Hour)},
		}
		assert.Equal(t, Unavailable, Latest(events))
	})
}
