package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"blmfeed/internal/property"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	MetricsPort string
	WorkerCount int
	SnapshotTTL time.Duration

	FeatureCount   int
	ImageCount     int
	EpcStart       int
	EpcCount       int
	FloorplanCount int
}

func Load() *Config {
	// .env from the repo root when run via go run, then the working directory
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration without touching .env files.
func FromEnv() *Config {
	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		WorkerCount: getInt("WORKER_COUNT", 5),
		SnapshotTTL: getDuration("SNAPSHOT_TTL", 720*time.Hour),

		FeatureCount:   getInt("BLM_FEATURE_COUNT", 10),
		ImageCount:     getInt("BLM_IMAGE_COUNT", 60),
		EpcStart:       getInt("BLM_EPC_START", 60),
		EpcCount:       getInt("BLM_EPC_COUNT", 2),
		FloorplanCount: getInt("BLM_FLOORPLAN_COUNT", 10),
	}
}

// Layout returns the record layout with the configured slot counts. EPC
// graphs keep their own slot numbers (MEDIA_IMAGE_60 onwards) whatever the
// image count; image slots never run into them.
func (c *Config) Layout() property.Layout {
	l := property.DefaultLayout()
	l.Features.Count = c.FeatureCount
	l.Images.Count = c.ImageCount
	if limit := c.EpcStart - l.Images.Start; l.Images.Count > limit && limit >= 0 {
		l.Images.Count = limit
	}
	l.Epcs.Start = c.EpcStart
	l.Epcs.Count = c.EpcCount
	l.Floorplans.Count = c.FloorplanCount
	return l
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil && v >= 0 {
		return v
	}
	return d
}

func getDuration(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return v
	}
	return d
}
