package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecordSourceCall(t *testing.T) {
	r := NewRecorder()

	r.RecordSourceCall("leaguegamefinder", 120*time.Millisecond, nil)
	r.RecordSourceCall("leaguegamefinder", 80*time.Millisecond, errors.New("boom"))

	if got := r.SourceCalls("leaguegamefinder"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := r.SourceErrors("leaguegamefinder"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := r.LastCallLatency("leaguegamefinder"); got != 80*time.Millisecond {
		t.Fatalf("expected last latency recorded, got %v", got)
	}
}

func TestRecordWriteAndSkip(t *testing.T) {
	r := NewRecorder()

	r.RecordWrite("team_game_stats")
	r.RecordWrite("team_game_stats")
	r.RecordSkip("team_game_stats", ReasonExists)
	r.RecordSkip("games", ReasonPartial)

	if got := r.Writes("team_game_stats"); got != 2 {
		t.Fatalf("expected 2 writes, got %d", got)
	}
	if got := r.Skips("team_game_stats", ReasonExists); got != 1 {
		t.Fatalf("expected 1 exists skip, got %d", got)
	}
	if got := r.Skips("games", ReasonPartial); got != 1 {
		t.Fatalf("expected 1 partial skip, got %d", got)
	}
	if got := r.Skips("games", ReasonExists); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestRecordRetry(t *testing.T) {
	r := NewRecorder()
	r.RecordRetry("boxscoretraditionalv2")
	r.RecordRetry("boxscoretraditionalv2")
	if got := r.Retries("boxscoretraditionalv2"); got != 2 {
		t.Fatalf("expected 2 retries, got %d", got)
	}
}

func TestNilRecorderSafe(t *testing.T) {
	var r *Recorder
	r.RecordSourceCall("x", 0, nil)
	r.RecordRetry("x")
	r.RecordWrite("x")
	r.RecordSkip("x", ReasonExists)
}

func TestSetupDisabled(t *testing.T) {
	rec, handler, shutdown, err := Setup(nil, TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected recorder")
	}
	if handler != nil {
		t.Fatalf("expected no handler when disabled")
	}
	if err := shutdown(nil); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
