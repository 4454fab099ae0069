package models

import "time"

type Owner struct {
	OwnerID   int64     `db:"owner_id" json:"ownerId"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address"`
	Phone     *string   `db:"phone" json:"phone"`
	Email     *string   `db:"email" json:"email"`
	Status    int       `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Account struct {
	AccountID    int64     `db:"account_id" json:"accountId"`
	Name         string    `db:"name" json:"name"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	OwnerID      *int64    `db:"owner_id" json:"ownerId"`
	PermissionID int       `db:"permission_id" json:"permissionId"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type Station struct {
	StationID        int64     `db:"station_id" json:"stationId"`
	Name             string    `db:"name" json:"name"`
	Address          string    `db:"address" json:"address"`
	Status           int       `db:"status" json:"status"`
	StationType      int       `db:"station_type" json:"-"`
	Latitude         *float64  `db:"latitude" json:"latitude"`
	Longitude        *float64  `db:"longitude" json:"longitude"`
	ChargePointCount int       `db:"charge_point_count" json:"chargePointCount"`
	OwnerID          *int64    `db:"owner_id" json:"ownerId"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// Station visibility stored in station_type. Public is the drift default.
const (
	StationPrivate = 0
	StationPublic  = 1
)

func StationTypeLabel(t int) string {
	if t == StationPrivate {
		return "Private"
	}
	return "Public"
}

func StationTypeFromLabel(label string) int {
	if label == "Private" || label == "private" {
		return StationPrivate
	}
	return StationPublic
}

type ChargePoint struct {
	ChargePointID string  `db:"charge_point_id" json:"chargePointId"`
	Name          *string `db:"name" json:"name"`
	StationID     int64   `db:"station_id" json:"stationId"`
	Model         *string `db:"model" json:"model"`
	PowerKW       float64 `db:"power_kw" json:"powerKw"`
	ConnectorType *string `db:"connector_type" json:"connectorType"`
	OutputType    *string `db:"output_type" json:"outputType"`
	OcppVersion   *string `db:"ocpp_version" json:"ocppVersion"`
	IsActive      bool    `db:"is_active" json:"isActive"`
	OwnerID       *int64  `db:"owner_id" json:"ownerId"`
}

type StatusEvent struct {
	EventID       int64     `db:"event_id" json:"eventId"`
	ChargePointID string    `db:"charge_point_id" json:"chargePointId"`
	Status        string    `db:"status" json:"status"`
	RecordedAt    time.Time `db:"recorded_at" json:"recordedAt"`
}

type Session struct {
	SessionID     int64      `db:"session_id" json:"sessionId"`
	UID           string     `db:"uid" json:"uid"`
	ChargePointID string     `db:"charge_point_id" json:"chargePointId"`
	StartTag      string     `db:"start_tag" json:"startTag"`
	StartedAt     *time.Time `db:"started_at" json:"startedAt"`
	StoppedAt     *time.Time `db:"stopped_at" json:"stoppedAt"`
	MeterStart    *float64   `db:"meter_start" json:"meterStart"`
	MeterStop     *float64   `db:"meter_stop" json:"meterStop"`
}

// EnergyUsed is the delta of the two meter readings; 0 when either is
// missing, never negative.
func (s Session) EnergyUsed() float64 {
	if s.MeterStart == nil || s.MeterStop == nil {
		return 0
	}
	e := *s.MeterStop - *s.MeterStart
	if e < 0 {
		return 0
	}
	return e
}

// Active reports whether the session is still running (no stop time).
func (s Session) Active() bool { return s.StoppedAt == nil }

type Order struct {
	OrderID       int64     `db:"order_id" json:"orderId"`
	UserID        int64     `db:"user_id" json:"userId"`
	SessionID     *int64    `db:"session_id" json:"sessionId"`
	Amount        float64   `db:"amount" json:"amount"`
	BalanceBefore float64   `db:"balance_before" json:"balanceBefore"`
	BalanceAfter  float64   `db:"balance_after" json:"balanceAfter"`
	MeterValue    *float64  `db:"meter_value" json:"meterValue"`
	StopMethod    *string   `db:"stop_method" json:"stopMethod"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

type User struct {
	UserID   int64   `db:"user_id" json:"userId"`
	FullName string  `db:"full_name" json:"fullName"`
	OwnerID  *int64  `db:"owner_id" json:"ownerId"`
	Balance  float64 `db:"balance" json:"balance"`
}
