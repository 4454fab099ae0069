package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"evdash/internal/auth"
	"evdash/internal/services"
)

type Server struct {
	authSvc *services.AuthService
	fleet   *services.FleetService
	ledger  *services.LedgerService
	owners  *services.OwnersService
	stats   *services.StatsService
	tokens  *auth.Tokens
	log     *zap.Logger
}

func NewServer(
	authSvc *services.AuthService,
	fleet *services.FleetService,
	ledger *services.LedgerService,
	owners *services.OwnersService,
	stats *services.StatsService,
	tokens *auth.Tokens,
	log *zap.Logger,
) *Server {
	return &Server{
		authSvc: authSvc,
		fleet:   fleet,
		ledger:  ledger,
		owners:  owners,
		stats:   stats,
		tokens:  tokens,
		log:     log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "ok"})
	})

	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/auth/me", s.handleMe)
		r.Post("/api/auth/logout", s.handleLogout)

		r.Route("/api/dashboard", func(r chi.Router) {
			r.Get("/stats", s.handleFleetStats)
			r.Get("/energy-by-hour", s.handleEnergyByHour)
			r.Get("/revenue-last-7-days", s.handleRevenueLast7Days)

			r.Get("/stations", s.handleListStations)
			r.Post("/stations", s.handleCreateStation)
			r.Get("/stations/{id}", s.handleGetStation)
			r.Put("/stations/{id}", s.handleUpdateStation)
			r.Delete("/stations/{id}", s.handleDeleteStation)

			r.Get("/charge-points", s.handleListChargePoints)
			r.Get("/charge-points/recent", s.handleRecentChargePoints)
			r.Post("/charge-points", s.handleCreateChargePoint)
			r.Get("/charge-points/{id}", s.handleGetChargePoint)
			r.Put("/charge-points/{id}", s.handleUpdateChargePoint)
			r.Delete("/charge-points/{id}", s.handleDeleteChargePoint)

			r.Get("/sessions", s.handleListSessions)
			r.Get("/sessions/recent", s.handleRecentSessions)
			r.Put("/sessions/{id}", s.handleUpdateSession)
			r.Delete("/sessions/{id}", s.handleDeleteSession)

			r.Get("/orders", s.handleListOrders)
			r.Put("/orders/{id}", s.handleUpdateOrder)
			r.Delete("/orders/{id}", s.handleDeleteOrder)

			r.Get("/owners", s.handleListOwners)
			r.Post("/owners", s.handleCreateOwner)
			r.Put("/owners/{id}", s.handleUpdateOwner)
			r.Delete("/owners/{id}", s.handleDeleteOwner)
			r.Post("/owners/{id}/account", s.handleEnsureOwnerLogin)
		})
	})

	return r
}
