package httpapi

import (
	"net/http"

	"evdash/internal/scope"
	"evdash/internal/services"
)

func (s *Server) handleListStations(w http.ResponseWriter, r *http.Request) {
	pr := pageRequest(r, 10)
	rows, total, err := s.fleet.ListStations(r.Context(), scope.Resolve(identity(r)), pr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, rows, total, pr.Page, pr.Limit)
}

func (s *Server) handleGetStation(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid station id")
		return
	}
	row, err := s.fleet.GetStation(r.Context(), scope.Resolve(identity(r)), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, row)
}

func (s *Server) handleCreateStation(w http.ResponseWriter, r *http.Request) {
	var in services.StationInput
	if err := decodeBody(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.fleet.CreateStation(r.Context(), scope.Resolve(identity(r)), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "station created", row)
}

func (s *Server) handleUpdateStation(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid station id")
		return
	}
	var in services.StationInput
	if err := decodeBody(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	row, err := s.fleet.UpdateStation(r.Context(), scope.Resolve(identity(r)), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "station updated", row)
}

func (s *Server) handleDeleteStation(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid station id")
		return
	}
	if err := s.fleet.DeleteStation(r.Context(), scope.Resolve(identity(r)), id); err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "station deleted", nil)
}
