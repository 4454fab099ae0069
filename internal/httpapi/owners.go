package httpapi

import (
	"net/http"

	"evdash/internal/scope"
	"evdash/internal/services"
)

func (s *Server) handleListOwners(w http.ResponseWriter, r *http.Request) {
	pr := pageRequest(r, 10)
	rows, total, err := s.owners.List(r.Context(), scope.Resolve(identity(r)), pr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, rows, total, pr.Page, pr.Limit)
}

func (s *Server) handleCreateOwner(w http.ResponseWriter, r *http.Request) {
	var in services.OwnerInput
	if err := decodeBody(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	owner, err := s.owners.Create(r.Context(), scope.Resolve(identity(r)), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "owner created", owner)
}

func (s *Server) handleUpdateOwner(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid owner id")
		return
	}
	var in services.OwnerInput
	if err := decodeBody(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	owner, err := s.owners.Update(r.Context(), scope.Resolve(identity(r)), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "owner updated", owner)
}

func (s *Server) handleDeleteOwner(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid owner id")
		return
	}
	if err := s.owners.Delete(r.Context(), scope.Resolve(identity(r)), id); err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "owner deleted", nil)
}

func (s *Server) handleEnsureOwnerLogin(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid owner id")
		return
	}
	result, err := s.owners.EnsureLogin(r.Context(), scope.Resolve(identity(r)), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "owner login "+result.Action, result)
}
