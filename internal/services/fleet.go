package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"evdash/internal/apperr"
	"evdash/internal/models"
	"evdash/internal/repo"
	"evdash/internal/scope"
)

// FleetService orchestrates station and charge point writes: validation,
// scope checks, cascade ordering and the cached per-station counters.
type FleetService struct {
	stations     *repo.StationsRepo
	chargePoints *repo.ChargePointsRepo
	events       *repo.StatusEventsRepo
	sessions     *repo.SessionsRepo
	log          *zap.Logger
}

func NewFleetService(
	stations *repo.StationsRepo,
	chargePoints *repo.ChargePointsRepo,
	events *repo.StatusEventsRepo,
	sessions *repo.SessionsRepo,
	log *zap.Logger,
) *FleetService {
	return &FleetService{
		stations:     stations,
		chargePoints: chargePoints,
		events:       events,
		sessions:     sessions,
		log:          log,
	}
}

// StationInput is the write payload for stations. Type is the Public/Private
// label; OwnerID is only honored for administrators.
type StationInput struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Status    *int     `json:"status"`
	Type      *string  `json:"type"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	OwnerID   *int64   `json:"ownerId"`
}

func (in *StationInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if in.Name == "" {
		return apperr.Validation("station name is required")
	}
	if in.Address == "" {
		return apperr.Validation("station address is required")
	}
	return nil
}

// effectiveOwner picks the row owner for a write: owner-scoped callers always
// write rows they own, administrators may assign any owner.
func effectiveOwner(sc scope.Scope, requested *int64) *int64 {
	if id, ok := sc.OwnerID(); ok {
		return &id
	}
	return requested
}

func (s *FleetService) ListStations(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.StationRow, int, error) {
	rows, total, err := s.stations.List(ctx, sc, pr)
	if err != nil {
		return nil, 0, err
	}
	for i := range rows {
		cps, err := s.chargePoints.ListByStation(ctx, sc, rows[i].StationID)
		if err != nil {
			return nil, 0, err
		}
		rows[i].ChargePoints = cps
	}
	return rows, total, nil
}

func (s *FleetService) GetStation(ctx context.Context, sc scope.Scope, id int64) (*models.StationRow, error) {
	row, err := s.stations.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperr.NotFound("station not found")
	}
	cps, err := s.chargePoints.ListByStation(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	row.ChargePoints = cps
	return row, nil
}

func (s *FleetService) CreateStation(ctx context.Context, sc scope.Scope, in StationInput) (*models.StationRow, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	st := models.Station{
		Name:        in.Name,
		Address:     in.Address,
		Status:      1,
		StationType: models.StationPublic,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		OwnerID:     effectiveOwner(sc, in.OwnerID),
	}
	if in.Status != nil {
		st.Status = *in.Status
	}
	if in.Type != nil {
		st.StationType = models.StationTypeFromLabel(*in.Type)
	}
	id, err := s.stations.Create(ctx, st)
	if err != nil {
		return nil, err
	}
	s.log.Info("station created", zap.Int64("stationId", id))
	return s.GetStation(ctx, sc, id)
}

func (s *FleetService) UpdateStation(ctx context.Context, sc scope.Scope, id int64, in StationInput) (*models.StationRow, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.stations.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("station not found")
	}

	st := existing.Station
	st.Name = in.Name
	st.Address = in.Address
	if in.Status != nil {
		st.Status = *in.Status
	}
	if in.Type != nil {
		st.StationType = models.StationTypeFromLabel(*in.Type)
	}
	if in.Latitude != nil {
		st.Latitude = in.Latitude
	}
	if in.Longitude != nil {
		st.Longitude = in.Longitude
	}
	// Ownership never changes implicitly: only an explicit admin request
	// moves a station between owners.
	if !sc.Restricted() && in.OwnerID != nil {
		st.OwnerID = in.OwnerID
	}
	if err := s.stations.Update(ctx, sc, st); err != nil {
		return nil, err
	}
	return s.GetStation(ctx, sc, id)
}

func (s *FleetService) DeleteStation(ctx context.Context, sc scope.Scope, id int64) error {
	existing, err := s.stations.Get(ctx, sc, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("station not found")
	}
	active, err := s.sessions.HasActiveByStation(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return apperr.Conflict("station has active charging sessions")
	}
	if err := s.stations.Delete(ctx, sc, id); err != nil {
		if repo.IsForeignKeyViolation(err) {
			return apperr.Conflict("station still has charge points attached")
		}
		return err
	}
	s.log.Info("station deleted", zap.Int64("stationId", id))
	return nil
}

// ChargePointInput is the write payload for charge points. The id is the
// OCPP identity string and doubles as the primary key.
type ChargePointInput struct {
	ChargePointID string   `json:"chargePointId"`
	Name          *string  `json:"name"`
	StationID     int64    `json:"stationId"`
	Model         *string  `json:"model"`
	PowerKW       *float64 `json:"powerKw"`
	ConnectorType *string  `json:"connectorType"`
	OutputType    *string  `json:"outputType"`
	OcppVersion   *string  `json:"ocppVersion"`
	IsActive      *bool    `json:"isActive"`
	OwnerID       *int64   `json:"ownerId"`
}

func (s *FleetService) ListChargePoints(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.ChargePointRow, int, error) {
	return s.chargePoints.List(ctx, sc, pr)
}

func (s *FleetService) RecentChargePoints(ctx context.Context, sc scope.Scope, limit int) ([]models.ChargePointRow, error) {
	return s.chargePoints.Recent(ctx, sc, limit)
}

func (s *FleetService) GetChargePoint(ctx context.Context, sc scope.Scope, id string) (*models.ChargePointRow, error) {
	row, err := s.chargePoints.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apperr.NotFound("charge point not found")
	}
	return row, nil
}

func (s *FleetService) CreateChargePoint(ctx context.Context, sc scope.Scope, in ChargePointInput) (*models.ChargePointRow, error) {
	in.ChargePointID = strings.TrimSpace(in.ChargePointID)
	if in.ChargePointID == "" {
		return nil, apperr.Validation("charge point id is required")
	}
	if in.StationID == 0 {
		return nil, apperr.Validation("station is required")
	}
	station, err := s.stations.Get(ctx, sc, in.StationID)
	if err != nil {
		return nil, err
	}
	if station == nil {
		return nil, apperr.NotFound("station not found")
	}

	cp := models.ChargePoint{
		ChargePointID: in.ChargePointID,
		Name:          in.Name,
		StationID:     in.StationID,
		Model:         in.Model,
		ConnectorType: in.ConnectorType,
		OutputType:    in.OutputType,
		OcppVersion:   in.OcppVersion,
		IsActive:      true,
		OwnerID:       station.OwnerID,
	}
	if in.PowerKW != nil {
		cp.PowerKW = *in.PowerKW
	}
	if in.IsActive != nil {
		cp.IsActive = *in.IsActive
	}
	if owner := effectiveOwner(sc, in.OwnerID); owner != nil {
		cp.OwnerID = owner
	}

	if err := s.chargePoints.Create(ctx, cp); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, apperr.Conflictf("charge point %q already exists", cp.ChargePointID)
		}
		return nil, err
	}
	if err := s.stations.RecomputeChargePointCount(ctx, in.StationID); err != nil {
		return nil, err
	}
	s.log.Info("charge point created", zap.String("chargePointId", cp.ChargePointID))
	return s.GetChargePoint(ctx, sc, cp.ChargePointID)
}

func (s *FleetService) UpdateChargePoint(ctx context.Context, sc scope.Scope, id string, in ChargePointInput) (*models.ChargePointRow, error) {
	existing, err := s.chargePoints.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("charge point not found")
	}

	cp := existing.ChargePoint
	if in.Name != nil {
		cp.Name = in.Name
	}
	if in.Model != nil {
		cp.Model = in.Model
	}
	if in.PowerKW != nil {
		cp.PowerKW = *in.PowerKW
	}
	if in.ConnectorType != nil {
		cp.ConnectorType = in.ConnectorType
	}
	if in.OutputType != nil {
		cp.OutputType = in.OutputType
	}
	if in.OcppVersion != nil {
		cp.OcppVersion = in.OcppVersion
	}
	if in.IsActive != nil {
		cp.IsActive = *in.IsActive
	}

	oldStation := cp.StationID
	if in.StationID != 0 && in.StationID != oldStation {
		target, err := s.stations.Get(ctx, sc, in.StationID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, apperr.NotFound("station not found")
		}
		cp.StationID = in.StationID
	}

	var newOwner *int64
	if !sc.Restricted() {
		newOwner = in.OwnerID
	}
	if err := s.chargePoints.Update(ctx, sc, cp, newOwner); err != nil {
		return nil, err
	}
	if cp.StationID != oldStation {
		if err := s.stations.RecomputeChargePointCount(ctx, oldStation); err != nil {
			return nil, err
		}
		if err := s.stations.RecomputeChargePointCount(ctx, cp.StationID); err != nil {
			return nil, err
		}
	}
	return s.GetChargePoint(ctx, sc, id)
}

func (s *FleetService) DeleteChargePoint(ctx context.Context, sc scope.Scope, id string) error {
	existing, err := s.chargePoints.Get(ctx, sc, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("charge point not found")
	}
	active, err := s.sessions.HasActiveByChargePoint(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return apperr.Conflict("charge point has an active charging session")
	}
	if err := s.events.DeleteByChargePoint(ctx, id); err != nil {
		return err
	}
	if err := s.chargePoints.Delete(ctx, sc, id); err != nil {
		if repo.IsForeignKeyViolation(err) {
			return apperr.Conflict("charge point still has charging sessions recorded")
		}
		return err
	}
	if err := s.stations.RecomputeChargePointCount(ctx, existing.StationID); err != nil {
		return err
	}
	s.log.Info("charge point deleted", zap.String("chargePointId", id))
	return nil
}
