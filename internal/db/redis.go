package db

import (
	"strings"

	"github.com/redis/go-redis/v9"
)

// NewRedis accepts a redis:// or rediss:// URL, or a bare host:port.
func NewRedis(url string) (*redis.Client, error) {
	if !strings.Contains(url, "://") {
		return redis.NewClient(&redis.Options{Addr: url}), nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}
