package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"evdash/internal/models"
	"evdash/internal/repo"
	"evdash/internal/scope"
	"evdash/internal/status"
)

// StatsService assembles the dashboard aggregates. The clock is injectable so
// day boundaries can be pinned in tests.
type StatsService struct {
	stats *repo.StatsRepo
	log   *zap.Logger
	now   func() time.Time
}

func NewStatsService(stats *repo.StatsRepo, log *zap.Logger) *StatsService {
	return &StatsService{stats: stats, log: log, now: time.Now}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FleetStats runs the aggregate queries concurrently and derives the charge
// point state breakdown. Charge points without any status event count as
// offline, so the three state buckets always sum to the fleet total.
func (s *StatsService) FleetStats(ctx context.Context, sc scope.Scope) (*models.FleetStats, error) {
	today := startOfDay(s.now())
	tomorrow := today.Add(24 * time.Hour)

	var out models.FleetStats
	var states []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalStations, err = s.stats.CountStations(gctx, sc, false)
		return
	})
	g.Go(func() (err error) {
		out.ActiveStations, err = s.stats.CountStations(gctx, sc, true)
		return
	})
	g.Go(func() (err error) {
		out.TotalChargePoints, err = s.stats.CountChargePoints(gctx, sc)
		return
	})
	g.Go(func() (err error) {
		states, err = s.stats.States(gctx, sc)
		return
	})
	g.Go(func() (err error) {
		out.ActiveSessions, err = s.stats.CountActiveSessions(gctx, sc, &today, &tomorrow)
		return
	})
	g.Go(func() (err error) {
		out.TotalUsers, err = s.stats.CountUsers(gctx, sc)
		return
	})
	g.Go(func() (err error) {
		out.TotalEnergy, err = s.stats.SumEnergy(gctx, sc, nil, nil)
		return
	})
	g.Go(func() (err error) {
		out.TodayEnergy, err = s.stats.SumEnergy(gctx, sc, &today, &tomorrow)
		return
	})
	g.Go(func() (err error) {
		out.TodayRevenue, err = s.stats.SumRevenue(gctx, sc, &today, &tomorrow)
		return
	})
	if err := g.Wait(); err != nil {
		s.log.Error("fleet stats aggregation failed", zap.Error(err))
		return nil, err
	}

	counts := status.Classify(states)
	out.AvailableChargePoints = counts.Available
	out.ChargingChargePoints = counts.Charging
	out.OfflineChargePoints = counts.Offline
	if silent := out.TotalChargePoints - len(states); silent > 0 {
		out.OfflineChargePoints += silent
	}
	return &out, nil
}

// EnergyByHourToday returns a dense 24-slot series for the current day.
func (s *StatsService) EnergyByHourToday(ctx context.Context, sc scope.Scope) ([]models.HourEnergy, error) {
	today := startOfDay(s.now())
	byHour, err := s.stats.EnergyByHour(ctx, sc, today, today.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	out := make([]models.HourEnergy, 24)
	for h := 0; h < 24; h++ {
		out[h] = models.HourEnergy{Hour: h, Energy: byHour[h]}
	}
	return out, nil
}

// RevenueLast7Days returns a dense series for the trailing week, today
// included, oldest day first.
func (s *StatsService) RevenueLast7Days(ctx context.Context, sc scope.Scope) ([]models.DayRevenue, error) {
	today := startOfDay(s.now())
	from := today.AddDate(0, 0, -6)
	byDay, err := s.stats.RevenueByDay(ctx, sc, from, today.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	out := make([]models.DayRevenue, 0, 7)
	for i := 0; i < 7; i++ {
		day := from.AddDate(0, 0, i).Format("2006-01-02")
		out = append(out, models.DayRevenue{Date: day, Revenue: byDay[day]})
	}
	return out, nil
}
