package warehouse

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/jackc/pgconn"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/lake"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/metrics"
)

type captureExecer struct {
	sql  []string
	args [][]interface{}
}

func (c *captureExecer) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	c.sql = append(c.sql, sql)
	c.args = append(c.args, args)
	return pgconn.CommandTag("INSERT 0 1"), nil
}

func newTestStore() (*Store, *captureExecer) {
	db := &captureExecer{}
	logger := slog.New(slog.NewTextHandler(nopWriter{}, nil))
	return NewStore(db, logger, metrics.NewRecorder()), db
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func teamStatsFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f := frame.New(
		frame.Str("season"),
		frame.Str("game_id"),
		frame.Int("team_id"),
		frame.Int("pts"),
		frame.Int("ast"),
		frame.Int("reb"),
		frame.Float("plus_minus"),
	)
	rows := [][]any{
		{"2024-25", "g1", int64(1610612738), int64(110), int64(25), int64(44), 8.0},
		{"2024-25", "g1", int64(1610612752), int64(102), int64(20), int64(40), -8.0},
	}
	for _, r := range rows {
		if err := f.AppendRow(r...); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}
	return f
}

func TestHasFactAlwaysFalse(t *testing.T) {
	store, _ := newTestStore()

	// Upserts converge on their own; the orchestrator's pre-extraction
	// probe must never short-circuit a relational run.
	exists, err := store.HasFact(context.Background(), lake.TeamGameStatsKey("2024-25", "g1"))
	if err != nil {
		t.Fatalf("HasFact: %v", err)
	}
	if exists {
		t.Fatal("exists = true, want false")
	}
}

func TestWriteFactBuildsUpsert(t *testing.T) {
	store, db := newTestStore()

	written, err := store.WriteFact(context.Background(),
		lake.TeamGameStatsKey("2024-25", "g1"), teamStatsFrame(t))
	if err != nil {
		t.Fatalf("WriteFact: %v", err)
	}
	if !written {
		t.Fatal("written = false, want true")
	}
	if len(db.sql) != 1 {
		t.Fatalf("executed %d statements, want 1", len(db.sql))
	}

	sql := db.sql[0]
	for _, want := range []string{
		`INSERT INTO "team_game_stats"`,
		`ON CONFLICT (game_id, team_id)`,
		`DO UPDATE`,
		`"pts"="excluded"."pts"`,
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("sql missing %q:\n%s", want, sql)
		}
	}

	// Two rows of seven columns, flattened into placeholders.
	if len(db.args[0]) != 14 {
		t.Errorf("got %d args, want 14", len(db.args[0]))
	}
}

func TestWriteSnapshotDoNothingEntities(t *testing.T) {
	store, db := newTestStore()

	f := frame.New(
		frame.Str("season"),
		frame.Str("snapshot_date"),
		frame.Int("player_id"),
		frame.Int("team_id"),
		frame.Str("team_abbreviation"),
	)
	if err := f.AppendRow("2024-25", "2024-12-01", int64(203935), int64(1610612738), "BOS"); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	_, err := store.WriteFact(context.Background(),
		lake.PlayerTeamHistoryKey("2024-25", "2024-12-01"), f)
	if err != nil {
		t.Fatalf("WriteFact: %v", err)
	}
	if !strings.Contains(db.sql[0], "DO NOTHING") {
		t.Errorf("history upsert should DO NOTHING on conflict:\n%s", db.sql[0])
	}
}

func TestUpsertSkipsEmptyFrames(t *testing.T) {
	store, db := newTestStore()

	f := frame.New(frame.Int("team_id"))
	if err := store.WriteSnapshot(context.Background(), lake.TeamsKey(), f); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if len(db.sql) != 0 {
		t.Errorf("executed %d statements for an empty frame, want 0", len(db.sql))
	}
}

func TestUpsertRejectsUnknownEntity(t *testing.T) {
	store, _ := newTestStore()

	f := frame.New(frame.Int("x"))
	_ = f.AppendRow(int64(1))
	if _, err := store.WriteFact(context.Background(), "mystery/key.parquet", f); err == nil {
		t.Fatal("want an error for an unmapped entity")
	}
}

func TestEveryEntityHasATable(t *testing.T) {
	entities := []string{
		lake.EntityTeams, lake.EntityPlayers, lake.EntityGames,
		lake.EntityTeamGameStats, lake.EntityPlayerGameStats,
		lake.EntityPlayerTeamHistory, lake.EntityStandings, lake.EntityShotZones,
	}
	for _, e := range entities {
		spec, ok := tableSpecs[e]
		if !ok {
			t.Errorf("entity %s has no table spec", e)
			continue
		}
		if len(spec.conflictCols) == 0 {
			t.Errorf("entity %s has no conflict target", e)
		}
	}
}
