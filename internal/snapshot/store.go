package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"blmfeed/internal/property"
)

const keyPrefix = "blm:hash:"

// Store remembers the last content hash seen for each agent ref.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

// Changed reports whether rec differs from the last remembered version.
// Records never seen before count as changed.
func (s *Store) Changed(ctx context.Context, rec *property.Record) (bool, error) {
	val, err := s.Client.Get(ctx, keyPrefix+rec.AgentRef()).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return val != rec.Hash(), nil
}

// Remember stores the hash of rec for TTL.
func (s *Store) Remember(ctx context.Context, rec *property.Record) error {
	return s.Client.Set(ctx, keyPrefix+rec.AgentRef(), rec.Hash(), s.TTL).Err()
}

// Forget drops the hash for a withdrawn listing.
func (s *Store) Forget(ctx context.Context, agentRef string) error {
	return s.Client.Del(ctx, keyPrefix+agentRef).Err()
}
