// Package status reconciles raw per-connector status events into the small
// charge-point state the dashboard reports. State is always derived from the
// most recent event, never stored as a column of truth.
package status

import "evdash/internal/models"

const (
	Available   = "Available"
	Charging    = "Charging"
	Unavailable = "Unavailable"
	Faulted     = "Faulted"
	Preparing   = "Preparing"
	Finishing   = "Finishing"
)

var known = map[string]struct{}{
	Available:   {},
	Charging:    {},
	Unavailable: {},
	Faulted:     {},
	Preparing:   {},
	Finishing:   {},
}

// Normalize maps a raw event label to a reportable state. Empty or unknown
// labels count as Unavailable.
func Normalize(s string) string {
	if _, ok := known[s]; ok {
		return s
	}
	return Unavailable
}

func NormalizePtr(s *string) string {
	if s == nil {
		return Unavailable
	}
	return Normalize(*s)
}

// Counts buckets the fleet into the three aggregate states.
type Counts struct {
	Available int
	Charging  int
	Offline   int
}

// Classify applies the fixed precedence rule:
// available = Available + Preparing, charging = Charging + Finishing,
// offline = Unavailable + Faulted (and anything unknown).
func Classify(states []string) Counts {
	var c Counts
	for _, s := range states {
		switch Normalize(s) {
		case Available, Preparing:
			c.Available++
		case Charging, Finishing:
			c.Charging++
		default:
			c.Offline++
		}
	}
	return c
}

// Latest resolves the current state from an event history: the event with
// the greatest timestamp wins; equal timestamps fall back to the greater
// event id so the result is deterministic. No events means Unavailable.
func Latest(events []models.StatusEvent) string {
	var best *models.StatusEvent
	for i := range events {
		e := &events[i]
		if best == nil ||
			e.RecordedAt.After(best.RecordedAt) ||
			(e.RecordedAt.Equal(best.RecordedAt) && e.EventID > best.EventID) {
			best = e
		}
	}
	if best == nil {
		return Unavailable
	}
	return Normalize(best.Status)
}
