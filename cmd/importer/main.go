package main

import (
	"context"
	"flag"
	"log"

	"github.com/google/uuid"

	"blmfeed/internal/blm"
	"blmfeed/internal/config"
	"blmfeed/internal/db"
	"blmfeed/internal/feed"
	"blmfeed/internal/model"
	"blmfeed/internal/observability"
	"blmfeed/internal/property"
	"blmfeed/internal/repository"
)

// go run cmd/importer/main.go -src=./feeds/12345_20261018.blm
// go run cmd/importer/main.go -src=https://example.com/feeds/latest.blm
func main() {
	src := flag.String("src", "", "BLM file path or URL")
	flag.Parse()
	if *src == "" {
		log.Fatal("-src is required")
	}

	cfg := config.Load()
	observability.Start(cfg.MetricsPort)

	dbConn, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Importer] database: %v", err)
	}
	defer dbConn.Close()

	repo := &repository.RawRepository{DB: dbConn}
	if err := repo.EnsureSchema(); err != nil {
		log.Fatalf("[Importer] schema: %v", err)
	}

	body, err := feed.Open(context.Background(), *src)
	if err != nil {
		log.Fatalf("[Importer] %v", err)
	}
	defer body.Close()

	doc, err := blm.Decode(body, property.WithLayout(cfg.Layout()))
	if err != nil {
		log.Fatalf("[Importer] decode %s: %v", *src, err)
	}
	log.Printf("[Importer] %s: version %s, %d rows", *src, doc.Header.Version, len(doc.Records))

	saved := 0
	for _, rec := range doc.Records {
		observability.RowsDecoded.Inc()
		if rec.AgentRef() == "" {
			log.Printf("[Importer] skipping row without AGENT_REF")
			continue
		}
		err := repo.Save(model.RawRow{
			ID:         uuid.New().String(),
			AgentRef:   rec.AgentRef(),
			Source:     *src,
			Attributes: rec.Attributes(),
		})
		if err != nil {
			log.Printf("[Importer] failed to save %s: %v", rec.AgentRef(), err)
			continue
		}
		saved++
	}

	log.Printf("[Importer] finished, %d of %d rows saved", saved, len(doc.Records))
}
