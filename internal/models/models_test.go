package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestSessionEnergyUsed(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    float64
	}{
		{"both readings", Session{MeterStart: fptr(100), MeterStop: fptr(142.5)}, 42.5},
		{"missing stop", Session{MeterStart: fptr(100)}, 0},
		{"missing start", Session{MeterStop: fptr(142.5)}, 0},
		{"missing both", Session{}, 0},
		{"meter rollback clamps to zero", Session{MeterStart: fptr(200), MeterStop: fptr(150)}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.session.EnergyUsed())
		})
	}
}

func TestPageRequestClamp(t *testing.T) {
	tests := []struct {
		name       string
		in         PageRequest
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"zero values get defaults", PageRequest{}, 1, 10, 0},
		{"negative page floors at one", PageRequest{Page: -3, Limit: 20}, 1, 20, 0},
		{"limit above cap is clamped", PageRequest{Page: 2, Limit: 500}, 2, 100, 100},
		{"normal request untouched", PageRequest{Page: 3, Limit: 25}, 3, 25, 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Clamp(10)
			assert.Equal(t, tc.wantPage, tc.in.Page)
			assert.Equal(t, tc.wantLimit, tc.in.Limit)
			assert.Equal(t, tc.wantOffset, tc.in.Offset())
		})
	}
}

func TestStationTypeLabels(t *testing.T) {
	assert.Equal(t, "Public", StationTypeLabel(StationPublic))
	assert.Equal(t, "Private", StationTypeLabel(StationPrivate))
	assert.Equal(t, "Public", StationTypeLabel(99))

	assert.Equal(t, StationPrivate, StationTypeFromLabel("Private"))
	assert.Equal(t, StationPrivate, StationTypeFromLabel("private"))
	assert.Equal(t, StationPublic, StationTypeFromLabel("Public"))
	assert.Equal(t, StationPublic, StationTypeFromLabel(""))
}
