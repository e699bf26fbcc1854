package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

type entityStats struct {
	writes int
	skips  map[string]int
}

// Recorder captures lightweight, in-memory metrics about source calls and
// lake writes. OTel export piggybacks on the same record calls when
// configured.
type Recorder struct {
	mu       sync.Mutex
	source   map[string]*sourceStats
	entities map[string]*entityStats
	retries  map[string]int
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		source:   make(map[string]*sourceStats),
		entities: make(map[string]*entityStats),
		retries:  make(map[string]int),
		otel:     otel,
	}
}

// RecordSourceCall increments counters for one upstream call and stores the
// observed latency.
func (r *Recorder) RecordSourceCall(endpoint string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureSource(endpoint)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSourceCall(endpoint, duration, err)
	}
}

// RecordRetry tracks one retried attempt against an endpoint.
func (r *Recorder) RecordRetry(endpoint string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.retries[endpoint]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRetry(endpoint)
	}
}

// RecordWrite tracks one landed partition for an entity.
func (r *Recorder) RecordWrite(entity string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ensureEntity(entity).writes++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordWrite(entity)
	}
}

// RecordSkip tracks one skipped partition for an entity with a reason
// (already exists, partial data, failed).
func (r *Recorder) RecordSkip(entity, reason string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ensureEntity(entity).skips[reason]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSkip(entity, reason)
	}
}

// SourceCalls returns the total calls recorded for an endpoint.
func (r *Recorder) SourceCalls(endpoint string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureSource(endpoint).calls
}

// SourceErrors returns the failed calls recorded for an endpoint.
func (r *Recorder) SourceErrors(endpoint string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureSource(endpoint).errors
}

// LastCallLatency returns the last recorded latency for an endpoint.
func (r *Recorder) LastCallLatency(endpoint string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureSource(endpoint).lastCallLatency
}

// Retries returns the retry count recorded for an endpoint.
func (r *Recorder) Retries(endpoint string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retries[endpoint]
}

// Writes returns the landed-partition count for an entity.
func (r *Recorder) Writes(entity string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureEntity(entity).writes
}

// Skips returns the skip count for an entity and reason.
func (r *Recorder) Skips(entity, reason string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureEntity(entity).skips[reason]
}

func (r *Recorder) ensureSource(endpoint string) *sourceStats {
	stats, ok := r.source[endpoint]
	if !ok {
		stats = &sourceStats{}
		r.source[endpoint] = stats
	}
	return stats
}

func (r *Recorder) ensureEntity(entity string) *entityStats {
	stats, ok := r.entities[entity]
	if !ok {
		stats = &entityStats{skips: make(map[string]int)}
		r.entities[entity] = stats
	}
	return stats
}
