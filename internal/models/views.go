package models

import "time"

// Enriched rows returned by the listing queries. Raw join nulls are resolved
// before they reach the caller: derived state, owner display names and
// connection status are always populated.

type StationRow struct {
	Station
	Type           string           `json:"type"`
	OwnerName      string           `json:"ownerName"`
	ActiveSessions int              `json:"activeSessions"`
	ChargePoints   []ChargePointRow `json:"chargePoints,omitempty"`
}

type ChargePointRow struct {
	ChargePoint
	StationName    string     `json:"stationName,omitempty"`
	StationAddress string     `json:"stationAddress,omitempty"`
	OwnerName      string     `json:"ownerName,omitempty"`
	State          string     `json:"state"`
	LastStatusAt   *time.Time `json:"lastStatusAt,omitempty"`
}

type SessionRow struct {
	Session
	StationName string  `json:"stationName"`
	UserName    string  `json:"userName,omitempty"`
	Status      string  `json:"status"`
	Energy      float64 `json:"energyUsed"`
	Cost        float64 `json:"cost"`
	Connected   bool    `json:"connected"`
}

type OrderRow struct {
	Order
	Energy *float64 `json:"energyUsed"`
}

type OwnerRow struct {
	Owner
	StationCount  int     `json:"stationCount"`
	LoginUsername *string `json:"loginUsername"`
}

type FleetStats struct {
	TotalStations         int     `json:"totalStations"`
	ActiveStations        int     `json:"activeStations"`
	TotalChargePoints     int     `json:"totalChargePoints"`
	AvailableChargePoints int     `json:"availableChargePoints"`
	ChargingChargePoints  int     `json:"chargingChargePoints"`
	OfflineChargePoints   int     `json:"offlineChargePoints"`
	ActiveSessions        int     `json:"activeSessions"`
	TotalUsers            int     `json:"totalUsers"`
	TotalEnergy           float64 `json:"totalEnergy"`
	TodayEnergy           float64 `json:"todayEnergy"`
	TodayRevenue          float64 `json:"todayRevenue"`
}

type HourEnergy struct {
	Hour   int     `json:"hour"`
	Energy float64 `json:"energy"`
}

type DayRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// PageRequest is the uniform listing input: page/limit pagination, free-text
// search, inclusive whole-day date bounds and an optional sort key.
type PageRequest struct {
	Page     int
	Limit    int
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	SortKey  string
	SortDesc bool
}

// Clamp normalizes the request in place: page floors at 1, limit falls back
// to def and is clamped to [1,100].
func (p *PageRequest) Clamp(def int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Limit }
