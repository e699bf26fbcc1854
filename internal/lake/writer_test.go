package lake

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/metrics"
)

type memStore struct {
	objects map[string][]byte
	headErr error
	putErr  error
	puts    int
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	if m.headErr != nil {
		return false, m.headErr
	}
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memStore) Put(_ context.Context, key string, body []byte, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.objects[key] = body
	return nil
}

func oneRowFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New(frame.Str("game_id"), frame.Int("pts"))
	if err := f.AppendRow("0022400101", int64(110)); err != nil {
		t.Fatalf("append: %v", err)
	}
	return f
}

func TestWriteFactIdempotent(t *testing.T) {
	store := newMemStore()
	rec := metrics.NewRecorder()
	w := NewWriter(store, nil, rec)
	key := TeamGameStatsKey("2024-25", "0022400101")

	written, err := w.WriteFact(context.Background(), key, oneRowFrame(t))
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	if !written {
		t.Fatalf("expected first write to land")
	}

	written, err = w.WriteFact(context.Background(), key, oneRowFrame(t))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if written {
		t.Fatalf("expected second write to be skipped")
	}
	if store.puts != 1 {
		t.Fatalf("expected exactly one underlying put, got %d", store.puts)
	}
	if rec.Writes(EntityTeamGameStats) != 1 {
		t.Fatalf("expected 1 write metric")
	}
	if rec.Skips(EntityTeamGameStats, metrics.ReasonExists) != 1 {
		t.Fatalf("expected 1 exists-skip metric")
	}
}

func TestHasFactReflectsStore(t *testing.T) {
	store := newMemStore()
	w := NewWriter(store, nil, metrics.NewRecorder())
	key := PlayerGameStatsKey("2024-25", "0022400101")

	exists, err := w.HasFact(context.Background(), key)
	if err != nil {
		t.Fatalf("HasFact: %v", err)
	}
	if exists {
		t.Fatalf("key reported present before any write")
	}

	if _, err := w.WriteFact(context.Background(), key, oneRowFrame(t)); err != nil {
		t.Fatalf("write: %v", err)
	}
	exists, err = w.HasFact(context.Background(), key)
	if err != nil {
		t.Fatalf("HasFact after write: %v", err)
	}
	if !exists {
		t.Fatalf("key not reported present after write")
	}

	store.headErr = errors.New("s3 unreachable")
	if _, err := w.HasFact(context.Background(), key); err == nil {
		t.Fatalf("expected infrastructure error to surface")
	}
}

func TestWriteSnapshotOverwrites(t *testing.T) {
	store := newMemStore()
	w := NewWriter(store, nil, metrics.NewRecorder())
	key := StandingsKey("2024-25", "2024-12-01")

	if err := w.WriteSnapshot(context.Background(), key, oneRowFrame(t)); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	if err := w.WriteSnapshot(context.Background(), key, oneRowFrame(t)); err != nil {
		t.Fatalf("second snapshot: %v", err)
	}
	if store.puts != 2 {
		t.Fatalf("snapshots must overwrite, got %d puts", store.puts)
	}
}

func TestWriteFactSurfacesHeadError(t *testing.T) {
	store := newMemStore()
	store.headErr = errors.New("s3 unreachable")
	w := NewWriter(store, nil, metrics.NewRecorder())

	if _, err := w.WriteFact(context.Background(), "k/x", oneRowFrame(t)); err == nil {
		t.Fatalf("expected infrastructure error to surface")
	}
	if store.puts != 0 {
		t.Fatalf("must not put after a failed existence check")
	}
}

func TestWriteFactSurfacesPutError(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("denied")
	w := NewWriter(store, nil, metrics.NewRecorder())

	if _, err := w.WriteFact(context.Background(), "k/x", oneRowFrame(t)); err == nil {
		t.Fatalf("expected put error to surface")
	}
}
