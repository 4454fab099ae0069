package httpapi

import "net/http"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	out, err := s.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ok(w, out)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ok(w, identity(r))
}

// handleLogout exists for client symmetry; tokens are stateless and simply
// expire.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	okMsg(w, "logged out", nil)
}
