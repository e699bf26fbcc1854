package lake

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/logging"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/metrics"
)

const contentTypeParquet = "application/octet-stream"

// Writer composes partition keys, parquet encoding, and the object store.
//
// Idempotency is check-then-act: exactly one ingesting process may write to
// a season's key namespace at a time. Concurrent multi-process runs against
// the same season would race the existence check.
type Writer struct {
	store   ObjectStore
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewWriter constructs a Writer over the given store.
func NewWriter(store ObjectStore, logger *slog.Logger, recorder *metrics.Recorder) *Writer {
	return &Writer{store: store, logger: logger, metrics: recorder}
}

// HasFact reports whether a fact partition already landed at key. Callers
// consult it before extracting, so a re-run over landed partitions never
// touches the upstream source.
func (w *Writer) HasFact(ctx context.Context, key string) (bool, error) {
	return w.store.Exists(ctx, key)
}

// WriteFact lands a fact partition at most once: if the key already exists
// the call is a no-op and written is false. Store failures other than
// not-found abort the write.
func (w *Writer) WriteFact(ctx context.Context, key string, f *frame.Frame) (written bool, err error) {
	exists, err := w.store.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		w.metrics.RecordSkip(EntityOf(key), metrics.ReasonExists)
		logging.Info(w.logger, "partition exists, skipping",
			slog.String(logging.FieldKey, key))
		return false, nil
	}
	if err := w.write(ctx, key, f); err != nil {
		return false, err
	}
	return true, nil
}

// WriteSnapshot lands a point-in-time snapshot, overwriting unconditionally.
func (w *Writer) WriteSnapshot(ctx context.Context, key string, f *frame.Frame) error {
	return w.write(ctx, key, f)
}

func (w *Writer) write(ctx context.Context, key string, f *frame.Frame) error {
	data, err := EncodeParquet(f)
	if err != nil {
		return err
	}
	if err := w.store.Put(ctx, key, data, contentTypeParquet); err != nil {
		return err
	}
	w.metrics.RecordWrite(EntityOf(key))
	logging.Info(w.logger, "partition written",
		slog.String(logging.FieldKey, key),
		slog.Int(logging.FieldCount, f.NumRows()))
	return nil
}
