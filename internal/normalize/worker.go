package normalize

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"blmfeed/internal/model"
	"blmfeed/internal/observability"
	"blmfeed/internal/property"
)

type Sink interface {
	Save(ctx context.Context, rec *property.Record) error
}

type ChangeDetector interface {
	Changed(ctx context.Context, rec *property.Record) (bool, error)
	Remember(ctx context.Context, rec *property.Record) error
}

type Marker interface {
	MarkAsProcessed(agentRef string) error
}

type Deps struct {
	Sink    Sink
	Changes ChangeDetector // optional
	Raw     Marker
	Layout  property.Layout
}

type Summary struct {
	Saved     int64
	Unchanged int64
	Failed    int64
}

// RunWorkers normalises rows on the given number of goroutines. A failing
// row is logged and left pending; the others carry on.
func RunWorkers(ctx context.Context, rows []model.RawRow, deps Deps, workers int) Summary {
	if workers <= 0 {
		workers = 1
	}

	var sum Summary
	jobs := make(chan model.RawRow)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range jobs {
				switch process(ctx, row, deps) {
				case outcomeSaved:
					atomic.AddInt64(&sum.Saved, 1)
				case outcomeUnchanged:
					atomic.AddInt64(&sum.Unchanged, 1)
				default:
					atomic.AddInt64(&sum.Failed, 1)
				}
			}
		}()
	}

feed:
	for _, row := range rows {
		select {
		case jobs <- row:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return sum
}

type outcome int

const (
	outcomeFailed outcome = iota
	outcomeSaved
	outcomeUnchanged
)

func process(ctx context.Context, row model.RawRow, deps Deps) outcome {
	rec := property.New(row.Attributes, property.WithLayout(deps.Layout))

	if deps.Changes != nil {
		changed, err := deps.Changes.Changed(ctx, rec)
		if err != nil {
			log.Printf("[Normalize] snapshot lookup failed for %s, saving anyway: %v", row.AgentRef, err)
		}
		if !changed {
			if err := deps.Raw.MarkAsProcessed(row.AgentRef); err != nil {
				log.Printf("[Normalize] failed to mark %s: %v", row.AgentRef, err)
			}
			observability.RecordsUnchanged.Inc()
			return outcomeUnchanged
		}
	}

	if err := deps.Sink.Save(ctx, rec); err != nil {
		log.Printf("[Normalize] failed to save %s: %v", row.AgentRef, err)
		observability.RecordsFailed.Inc()
		return outcomeFailed
	}

	if deps.Changes != nil {
		if err := deps.Changes.Remember(ctx, rec); err != nil {
			log.Printf("[Normalize] failed to remember hash for %s: %v", row.AgentRef, err)
		}
	}
	if err := deps.Raw.MarkAsProcessed(row.AgentRef); err != nil {
		log.Printf("[Normalize] failed to mark %s: %v", row.AgentRef, err)
	}

	observability.RecordsSaved.Inc()
	return outcomeSaved
}
