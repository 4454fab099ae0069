package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"evdash/internal/auth"
	"evdash/internal/config"
	"evdash/internal/db"
	"evdash/internal/httpapi"
	"evdash/internal/repo"
	"evdash/internal/schema"
	"evdash/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var log *zap.Logger
	if cfg.Debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer conn.Close()

	caps := schema.NewCapabilities()
	stations := repo.NewStationsRepo(conn, caps)
	chargePoints := repo.NewChargePointsRepo(conn, caps)
	events := repo.NewStatusEventsRepo(conn)
	sessions := repo.NewSessionsRepo(conn)
	orders := repo.NewOrdersRepo(conn)
	ownersRepo := repo.NewOwnersRepo(conn)
	accounts := repo.NewAccountsRepo(conn)
	statsRepo := repo.NewStatsRepo(conn)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	server := httpapi.NewServer(
		services.NewAuthService(accounts, tokens, log),
		services.NewFleetService(stations, chargePoints, events, sessions, log),
		services.NewLedgerService(sessions, orders, log),
		services.NewOwnersService(ownersRepo, accounts, log),
		services.NewStatsService(statsRepo, log),
		tokens,
		log,
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}
