package main

import (
	"context"
	"log"

	"blmfeed/internal/config"
	"blmfeed/internal/db"
	"blmfeed/internal/normalize"
	"blmfeed/internal/observability"
	"blmfeed/internal/repository"
	"blmfeed/internal/snapshot"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	observability.Start(cfg.MetricsPort)

	dbConn, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Normalize] database: %v", err)
	}
	defer dbConn.Close()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Normalize] pool: %v", err)
	}
	defer pool.Close()

	redisClient, err := db.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("[Normalize] redis: %v", err)
	}
	defer redisClient.Close()

	rawRepo := &repository.RawRepository{DB: dbConn}
	propRepo := &repository.PropertyRepository{DB: pool, Layout: cfg.Layout()}
	if err := propRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("[Normalize] schema: %v", err)
	}

	rows, err := rawRepo.ListPending()
	if err != nil {
		log.Fatalf("[Normalize] listing pending rows: %v", err)
	}
	log.Printf("[Normalize] %d pending rows", len(rows))

	sum := normalize.RunWorkers(ctx, rows, normalize.Deps{
		Sink:    propRepo,
		Changes: &snapshot.Store{Client: redisClient, TTL: cfg.SnapshotTTL},
		Raw:     rawRepo,
		Layout:  cfg.Layout(),
	}, cfg.WorkerCount)

	log.Printf("[Normalize] finished: saved=%d unchanged=%d failed=%d", sum.Saved, sum.Unchanged, sum.Failed)
}
