package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"evdash/internal/scope"
	"evdash/internal/services"
)

func (s *Server) handleListChargePoints(w http.ResponseWriter, r *http.Request) {
	pr := pageRequest(r, 10)
	rows, total, err := s.fleet.ListChargePoints(r.Context(), scope.Resolve(identity(r)), pr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, rows, total, pr.Page, pr.Limit)
}

func (s *Server) handleRecentChargePoints(w http.ResponseWriter, r *http.Request) {
	rows, err := s.fleet.RecentChargePoints(r.Context(), scope.Resolve(identity(r)), limitQuery(r, 5))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, rows)
}

func (s *Server) handleGetChargePoint(w http.ResponseWriter, r *http.Request) {
	row, err := s.fleet.GetChargePoint(r.Context(), scope.Resolve(identity(r)), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, row)
}

func (s *Server) handleCreateChargePoint(w http.ResponseWriter, r *http.Request) {
	var in services.ChargePointInput
	if err := decodeBody(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.fleet.CreateChargePoint(r.Context(), scope.Resolve(identity(r)), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "charge point created", row)
}

func (s *Server) handleUpdateChargePoint(w http.ResponseWriter, r *http.Request) {
	var in services.ChargePointInput
	if err := decodeBody(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.fleet.UpdateChargePoint(r.Context(), scope.Resolve(identity(r)), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "charge point updated", row)
}

func (s *Server) handleDeleteChargePoint(w http.ResponseWriter, r *http.Request) {
	if err := s.fleet.DeleteChargePoint(r.Context(), scope.Resolve(identity(r)), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "charge point deleted", nil)
}
