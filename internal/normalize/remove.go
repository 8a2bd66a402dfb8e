package normalize

import (
	"context"
	"fmt"
	"log"
)

type Deleter interface {
	Delete(ctx context.Context, agentRef string) (bool, error)
}

type Forgetter interface {
	Forget(ctx context.Context, agentRef string) error
}

// Remove withdraws a listing: the stored property goes, and so does its
// remembered hash, so a later feed containing the ref is saved again.
func Remove(ctx context.Context, agentRef string, store Deleter, changes Forgetter) (bool, error) {
	deleted, err := store.Delete(ctx, agentRef)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", agentRef, err)
	}
	if changes != nil {
		if err := changes.Forget(ctx, agentRef); err != nil {
			return deleted, fmt.Errorf("forget %s: %w", agentRef, err)
		}
	}
	if deleted {
		log.Printf("[Normalize] removed %s", agentRef)
	}
	return deleted, nil
}
