package httpapi

import (
	"net/http"

	"evdash/internal/repo"
	"evdash/internal/scope"
)

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	pr := pageRequest(r, 10)
	rows, total, err := s.ledger.ListSessions(r.Context(), scope.Resolve(identity(r)), pr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, rows, total, pr.Page, pr.Limit)
}

func (s *Server) handleRecentSessions(w http.ResponseWriter, r *http.Request) {
	rows, err := s.ledger.RecentSessions(r.Context(), scope.Resolve(identity(r)), limitQuery(r, 5))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, rows)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid session id")
		return
	}
	var patch repo.SessionPatch
	if err := decodeBody(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.ledger.UpdateSession(r.Context(), scope.Resolve(identity(r)), id, patch); err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "session updated", nil)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid session id")
		return
	}
	if err := s.ledger.DeleteSession(r.Context(), scope.Resolve(identity(r)), id); err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "session deleted", nil)
}
