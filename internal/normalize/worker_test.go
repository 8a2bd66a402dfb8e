package normalize

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"blmfeed/internal/model"
	"blmfeed/internal/property"
)

type memSink struct {
	mu    sync.Mutex
	saved map[string]*property.Record
	fail  string
}

func (m *memSink) Save(_ context.Context, rec *property.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.AgentRef() == m.fail {
		return errors.New("boom")
	}
	m.saved[rec.AgentRef()] = rec
	return nil
}

type memHashes struct {
	mu     sync.Mutex
	hashes map[string]string
}

func (m *memHashes) Changed(_ context.Context, rec *property.Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hashes[rec.AgentRef()] != rec.Hash(), nil
}

func (m *memHashes) Remember(_ context.Context, rec *property.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hashes[rec.AgentRef()] = rec.Hash()
	return nil
}

type memMarker struct {
	mu     sync.Mutex
	marked []string
}

func (m *memMarker) MarkAsProcessed(agentRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.marked = append(m.marked, agentRef)
	return nil
}

func rows(refs ...string) []model.RawRow {
	out := make([]model.RawRow, 0, len(refs))
	for _, ref := range refs {
		out = append(out, model.RawRow{
			AgentRef:   ref,
			Attributes: map[string]string{"agentRef": ref, "feature1": "Garden"},
		})
	}
	return out
}

func TestRunWorkers(t *testing.T) {
	sink := &memSink{saved: map[string]*property.Record{}, fail: "BAD"}
	hashes := &memHashes{hashes: map[string]string{}}
	marker := &memMarker{}
	deps := Deps{Sink: sink, Changes: hashes, Raw: marker, Layout: property.DefaultLayout()}

	sum := RunWorkers(context.Background(), rows("A1", "A2", "BAD"), deps, 3)
	assert.Equal(t, Summary{Saved: 2, Failed: 1}, sum)
	assert.Equal(t, []string{"Garden"}, sink.saved["A1"].Features())
	assert.ElementsMatch(t, []string{"A1", "A2"}, marker.marked)

	sum = RunWorkers(context.Background(), rows("A1", "A2"), deps, 2)
	assert.Equal(t, Summary{Unchanged: 2}, sum)
}

func TestRunWorkersWithoutChangeDetection(t *testing.T) {
	sink := &memSink{saved: map[string]*property.Record{}}
	marker := &memMarker{}
	deps := Deps{Sink: sink, Raw: marker, Layout: property.DefaultLayout()}

	sum := RunWorkers(context.Background(), rows("A1", "A1"), deps, 0)
	assert.Equal(t, Summary{Saved: 2}, sum)
	assert.Len(t, marker.marked, 2)
}

func TestRunWorkersSavesChangesOutsideTypedFields(t *testing.T) {
	sink := &memSink{saved: map[string]*property.Record{}}
	hashes := &memHashes{hashes: map[string]string{}}
	deps := Deps{Sink: sink, Changes: hashes, Raw: &memMarker{}, Layout: property.DefaultLayout()}

	row := func(postcode string) []model.RawRow {
		return []model.RawRow{{
			AgentRef:   "A1",
			Attributes: map[string]string{"agentRef": "A1", "postcode1": postcode},
		}}
	}

	assert.Equal(t, Summary{Saved: 1}, RunWorkers(context.Background(), row("SW1"), deps, 1))
	assert.Equal(t, Summary{Saved: 1}, RunWorkers(context.Background(), row("NW3"), deps, 1))
	assert.Equal(t, "NW3", sink.saved["A1"].Attributes()["postcode1"])

	assert.Equal(t, Summary{Unchanged: 1}, RunWorkers(context.Background(), row("NW3"), deps, 1))
}
