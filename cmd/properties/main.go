package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"blmfeed/internal/config"
	"blmfeed/internal/db"
	"blmfeed/internal/normalize"
	"blmfeed/internal/repository"
	"blmfeed/internal/snapshot"
)

// go run cmd/properties/main.go -get=12345_001
// go run cmd/properties/main.go -delete=12345_001
func main() {
	get := flag.String("get", "", "agent ref to print as JSON")
	del := flag.String("delete", "", "agent ref to withdraw")
	flag.Parse()
	if *get == "" && *del == "" {
		log.Fatal("one of -get or -delete is required")
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Properties] pool: %v", err)
	}
	defer pool.Close()

	repo := &repository.PropertyRepository{DB: pool, Layout: cfg.Layout()}

	if *get != "" {
		rec, ok, err := repo.Get(ctx, *get)
		if err != nil {
			log.Fatalf("[Properties] get %s: %v", *get, err)
		}
		if !ok {
			log.Fatalf("[Properties] %s not found", *get)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			log.Fatal(err)
		}
	}

	if *del != "" {
		redisClient, err := db.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("[Properties] redis: %v", err)
		}
		defer redisClient.Close()

		changes := &snapshot.Store{Client: redisClient, TTL: cfg.SnapshotTTL}
		deleted, err := normalize.Remove(ctx, *del, repo, changes)
		if err != nil {
			log.Fatalf("[Properties] %v", err)
		}
		if !deleted {
			log.Printf("[Properties] %s was not stored", *del)
		}
	}
}
