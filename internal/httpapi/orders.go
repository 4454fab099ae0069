package httpapi

import (
	"net/http"

	"evdash/internal/repo"
	"evdash/internal/scope"
)

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	pr := pageRequest(r, 10)
	rows, total, err := s.ledger.ListOrders(r.Context(), scope.Resolve(identity(r)), pr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, rows, total, pr.Page, pr.Limit)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid order id")
		return
	}
	var patch repo.OrderPatch
	if err := decodeBody(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.ledger.UpdateOrder(r.Context(), scope.Resolve(identity(r)), id, patch); err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "order updated", nil)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, valid := intParam(r, "id")
	if !valid {
		failValidation(w, "invalid order id")
		return
	}
	if err := s.ledger.DeleteOrder(r.Context(), scope.Resolve(identity(r)), id); err != nil {
		s.fail(w, r, err)
		return
	}
	okMsg(w, "order deleted", nil)
}
