// Command seed bootstraps a fresh database with an administrator login and,
// optionally, a small demo fleet.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"evdash/internal/config"
	"evdash/internal/db"
	"evdash/internal/models"
	"evdash/internal/repo"
	"evdash/internal/schema"
	"evdash/internal/security"
)

func main() {
	adminUser := flag.String("admin-user", "admin", "administrator username")
	adminPass := flag.String("admin-pass", "Admin@2026", "administrator password")
	demo := flag.Bool("demo", false, "also create a demo owner with one station and charge point")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer conn.Close()

	accounts := repo.NewAccountsRepo(conn)

	existing, err := accounts.GetByUsername(ctx, *adminUser)
	if err != nil {
		log.Fatal("lookup failed", zap.Error(err))
	}
	if existing == nil {
		hash, err := security.HashPassword(*adminPass)
		if err != nil {
			log.Fatal("hash failed", zap.Error(err))
		}
		if _, err := accounts.Create(ctx, models.Account{
			Name:         "Administrator",
			Username:     *adminUser,
			PasswordHash: hash,
			PermissionID: 1,
		}); err != nil {
			log.Fatal("admin create failed", zap.Error(err))
		}
		log.Info("administrator created", zap.String("username", *adminUser))
	} else {
		log.Info("administrator already present", zap.String("username", *adminUser))
	}

	if !*demo {
		return
	}

	caps := schema.NewCapabilities()
	owners := repo.NewOwnersRepo(conn)
	stations := repo.NewStationsRepo(conn, caps)
	chargePoints := repo.NewChargePointsRepo(conn, caps)
	events := repo.NewStatusEventsRepo(conn)

	ownerID, err := owners.Create(ctx, models.Owner{Name: "Demo Energy Co", Status: 1})
	if err != nil {
		log.Fatal("demo owner create failed", zap.Error(err))
	}

	stationID, err := stations.Create(ctx, models.Station{
		Name:        "Demo Plaza",
		Address:     "1 Demo Street",
		Status:      1,
		StationType: models.StationPublic,
		OwnerID:     &ownerID,
	})
	if err != nil {
		log.Fatal("demo station create failed", zap.Error(err))
	}

	model := "DemoCharge 60"
	cp := models.ChargePoint{
		ChargePointID: "DEMO-CP-001",
		StationID:     stationID,
		Model:         &model,
		PowerKW:       60,
		IsActive:      true,
		OwnerID:       &ownerID,
	}
	if err := chargePoints.Create(ctx, cp); err != nil {
		log.Fatal("demo charge point create failed", zap.Error(err))
	}
	if err := stations.RecomputeChargePointCount(ctx, stationID); err != nil {
		log.Fatal("count recompute failed", zap.Error(err))
	}
	if err := events.Append(ctx, models.StatusEvent{
		ChargePointID: cp.ChargePointID,
		Status:        "Available",
		RecordedAt:    time.Now(),
	}); err != nil {
		log.Fatal("demo status event failed", zap.Error(err))
	}

	log.Info("demo fleet created",
		zap.Int64("ownerId", ownerID),
		zap.Int64("stationId", stationID),
		zap.String("chargePointId", cp.ChargePointID))
}
