package services

import (
	"context"

	"go.uber.org/zap"

	"evdash/internal/apperr"
	"evdash/internal/models"
	"evdash/internal/repo"
	"evdash/internal/scope"
)

// LedgerService covers the historical records: charging sessions and the
// billing orders derived from them.
type LedgerService struct {
	sessions *repo.SessionsRepo
	orders   *repo.OrdersRepo
	log      *zap.Logger
}

func NewLedgerService(sessions *repo.SessionsRepo, orders *repo.OrdersRepo, log *zap.Logger) *LedgerService {
	return &LedgerService{sessions: sessions, orders: orders, log: log}
}

func (s *LedgerService) ListSessions(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.SessionRow, int, error) {
	return s.sessions.List(ctx, sc, pr)
}

func (s *LedgerService) RecentSessions(ctx context.Context, sc scope.Scope, limit int) ([]models.SessionRow, error) {
	return s.sessions.Recent(ctx, sc, limit)
}

func (s *LedgerService) UpdateSession(ctx context.Context, sc scope.Scope, id int64, patch repo.SessionPatch) error {
	ok, err := s.sessions.Exists(ctx, sc, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("session not found")
	}
	return s.sessions.Update(ctx, id, patch)
}

// DeleteSession removes a session and its orders, orders first so the
// foreign key holds.
func (s *LedgerService) DeleteSession(ctx context.Context, sc scope.Scope, id int64) error {
	ok, err := s.sessions.Exists(ctx, sc, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("session not found")
	}
	if err := s.orders.DeleteBySession(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("session deleted", zap.Int64("sessionId", id))
	return nil
}

func (s *LedgerService) ListOrders(ctx context.Context, sc scope.Scope, pr models.PageRequest) ([]models.OrderRow, int, error) {
	return s.orders.List(ctx, sc, pr)
}

func (s *LedgerService) UpdateOrder(ctx context.Context, sc scope.Scope, id int64, patch repo.OrderPatch) error {
	ok, err := s.orders.Exists(ctx, sc, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("order not found")
	}
	return s.orders.Update(ctx, id, patch)
}

func (s *LedgerService) DeleteOrder(ctx context.Context, sc scope.Scope, id int64) error {
	ok, err := s.orders.Exists(ctx, sc, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("order not found")
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("order deleted", zap.Int64("orderId", id))
	return nil
}
