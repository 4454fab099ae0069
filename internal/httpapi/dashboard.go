package httpapi

import (
	"net/http"

	"evdash/internal/scope"
)

func (s *Server) handleFleetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.FleetStats(r.Context(), scope.Resolve(identity(r)))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, stats)
}

func (s *Server) handleEnergyByHour(w http.ResponseWriter, r *http.Request) {
	series, err := s.stats.EnergyByHourToday(r.Context(), scope.Resolve(identity(r)))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, series)
}

func (s *Server) handleRevenueLast7Days(w http.ResponseWriter, r *http.Request) {
	series, err := s.stats.RevenueLast7Days(r.Context(), scope.Resolve(identity(r)))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, series)
}
