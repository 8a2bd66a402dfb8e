package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"blmfeed/internal/blm"
	"blmfeed/internal/config"
	"blmfeed/internal/feed"
	"blmfeed/internal/property"
)

// go run cmd/blmjson/main.go -src=./feeds/12345_20261018.blm > properties.json
func main() {
	src := flag.String("src", "", "BLM file path or URL")
	asText := flag.Bool("text", false, "print plain-text listings instead of JSON")
	flag.Parse()
	if *src == "" {
		log.Fatal("-src is required")
	}

	cfg := config.Load()

	body, err := feed.Open(context.Background(), *src)
	if err != nil {
		log.Fatal(err)
	}
	defer body.Close()

	doc, err := blm.Decode(body, property.WithLayout(cfg.Layout()))
	if err != nil {
		log.Fatalf("decode %s: %v", *src, err)
	}

	if *asText {
		for _, rec := range doc.Records {
			fmt.Println(feed.ToText(rec))
		}
		return
	}

	out := make([]property.Serializable, 0, len(doc.Records))
	for _, rec := range doc.Records {
		out = append(out, rec)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
}
