package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/extract"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/lake"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/metrics"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/nbastats"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/retry"
)

type memSink struct {
	facts      map[string]*frame.Frame
	snapshots  map[string]int
	factPuts   int
	factChecks int
}

func newMemSink() *memSink {
	return &memSink{facts: make(map[string]*frame.Frame), snapshots: make(map[string]int)}
}

func (s *memSink) HasFact(ctx context.Context, key string) (bool, error) {
	s.factChecks++
	_, ok := s.facts[key]
	return ok, nil
}

func (s *memSink) WriteSnapshot(ctx context.Context, key string, f *frame.Frame) error {
	s.snapshots[key]++
	return nil
}

func (s *memSink) WriteFact(ctx context.Context, key string, f *frame.Frame) (bool, error) {
	if _, ok := s.facts[key]; ok {
		return false, nil
	}
	s.facts[key] = f
	s.factPuts++
	return true, nil
}

// statsStub serves fixture tables for two games on one date; boxAdvErr
// marks game ids whose advanced box score call fails. The call counters
// track how often each rate-limited endpoint is hit.
type statsStub struct {
	boxAdvErr map[string]error

	tradCalls int
	advCalls  int
	shotCalls int
}

func (s *statsStub) LeagueGames(ctx context.Context, season string) (*nbastats.ResultTable, error) {
	return nbastats.NewResultTable("LeagueGameFinderResults",
		[]string{"GAME_ID", "GAME_DATE", "TEAM_ID", "PTS", "MATCHUP"}, [][]any{
			{"g1", "2024-12-01", float64(1610612738), float64(110), "BOS vs. NYK"},
			{"g1", "2024-12-01", float64(1610612752), float64(102), "NYK @ BOS"},
			{"g2", "2024-12-01", float64(1610612747), float64(99), "LAL vs. GSW"},
			{"g2", "2024-12-01", float64(1610612744), float64(120), "GSW @ LAL"},
		}), nil
}

func (s *statsStub) BoxScoreTraditional(ctx context.Context, gameID string) (*nbastats.ResultTable, *nbastats.ResultTable, error) {
	s.tradCalls++
	players := nbastats.NewResultTable("PlayerStats",
		[]string{"GAME_ID", "TEAM_ID", "TEAM_ABBREVIATION", "PLAYER_ID", "PLAYER_NAME", "START_POSITION", "MIN", "PTS"},
		[][]any{
			{gameID, float64(1610612738), "BOS", float64(100), "Player A", "G", "30:00", float64(20)},
			{gameID, float64(1610612752), "NYK", float64(200), "Player B", "", "0:00", float64(0)},
		})
	teams := nbastats.NewResultTable("TeamStats",
		[]string{"GAME_ID", "TEAM_ID", "PTS"}, [][]any{
			{gameID, float64(1610612738), float64(110)},
			{gameID, float64(1610612752), float64(102)},
		})
	return players, teams, nil
}

func (s *statsStub) BoxScoreAdvanced(ctx context.Context, gameID string) (*nbastats.ResultTable, *nbastats.ResultTable, error) {
	s.advCalls++
	if err := s.boxAdvErr[gameID]; err != nil {
		return nil, nil, err
	}
	players := nbastats.NewResultTable("PlayerStats", []string{"PLAYER_ID", "USG_PCT"}, nil)
	teams := nbastats.NewResultTable("TeamStats", []string{"TEAM_ID", "PACE"}, nil)
	return players, teams, nil
}

func (s *statsStub) LeagueStandings(ctx context.Context, season string) (*nbastats.ResultTable, error) {
	return nbastats.NewResultTable("Standings",
		[]string{"TeamID", "Conference", "Division", "WINS", "LOSSES", "WinPCT", "HOME", "ROAD", "L10"},
		[][]any{
			{float64(1610612738), "East", "Atlantic", float64(20), float64(4), 0.833, "12-1", "8-3", "8-2"},
		}), nil
}

func (s *statsStub) ShotChart(ctx context.Context, teamID, playerID int64, gameID, season string) (*nbastats.ResultTable, error) {
	s.shotCalls++
	return nbastats.NewResultTable("Shot_Chart_Detail",
		[]string{"SHOT_ZONE_BASIC", "SHOT_ZONE_AREA", "SHOT_ZONE_RANGE", "SHOT_MADE_FLAG"},
		[][]any{
			{"Restricted Area", "Center(C)", "Less Than 8 ft.", float64(1)},
		}), nil
}

func (s *statsStub) CommonAllPlayers(ctx context.Context, season string) (*nbastats.ResultTable, error) {
	return nbastats.NewResultTable("CommonAllPlayers",
		[]string{"PERSON_ID", "DISPLAY_FIRST_LAST", "TEAM_ID", "TEAM_ABBREVIATION", "ROSTERSTATUS"},
		[][]any{
			{float64(100), "Player A", float64(1610612738), "BOS", "1"},
		}), nil
}

func (s *statsStub) CommonPlayerInfo(ctx context.Context, playerID int64) (*nbastats.ResultTable, error) {
	return nbastats.NewResultTable("CommonPlayerInfo", []string{"POSITION"}, nil), nil
}

func newTestPipeline(api extract.StatsAPI, sink Sink) *Pipeline {
	logger := slog.New(slog.NewTextHandler(discard{}, nil))
	recorder := metrics.NewRecorder()
	ex := extract.New(api, logger, recorder, retry.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond})
	p := New(ex, sink, logger, recorder)
	p.now = func() time.Time {
		return time.Date(2024, time.December, 3, 12, 0, 0, 0, time.UTC)
	}
	return p
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestRunLandsAllEntities(t *testing.T) {
	sink := newMemSink()
	p := newTestPipeline(&statsStub{}, sink)

	report, err := p.Run(context.Background(), Options{Season: "2024-25"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Games != 2 {
		t.Fatalf("discovered %d games, want 2", report.Games)
	}

	wantFacts := []string{
		lake.GameDayKey("2024-25", "2024-12-01"),
		lake.TeamGameStatsKey("2024-25", "g1"),
		lake.TeamGameStatsKey("2024-25", "g2"),
		lake.PlayerGameStatsKey("2024-25", "g1"),
		lake.PlayerGameStatsKey("2024-25", "g2"),
		lake.PlayerTeamHistoryKey("2024-25", "2024-12-01"),
	}
	for _, key := range wantFacts {
		if _, ok := sink.facts[key]; !ok {
			t.Errorf("fact key %s not landed", key)
		}
	}
	if len(sink.facts) != len(wantFacts) {
		t.Errorf("landed %d fact keys, want %d", len(sink.facts), len(wantFacts))
	}

	if sink.snapshots[lake.TeamsKey()] != 1 {
		t.Errorf("team dimension not landed")
	}
	if sink.snapshots[lake.PlayersKey()] != 1 {
		t.Errorf("player dimension not landed")
	}
	if sink.snapshots[lake.StandingsKey("2024-25", "2024-12-03")] != 1 {
		t.Errorf("standings snapshot not landed at clock date")
	}

	if got := report.Entities[lake.EntityTeamGameStats].Written; got != 2 {
		t.Errorf("team stat partitions written = %d, want 2", got)
	}
	if len(report.FailedGames) != 0 {
		t.Errorf("failed games = %v, want none", report.FailedGames)
	}
}

func TestRunIsIdempotentForFacts(t *testing.T) {
	sink := newMemSink()
	p := newTestPipeline(&statsStub{}, sink)

	if _, err := p.Run(context.Background(), Options{Season: "2024-25"}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	putsAfterFirst := sink.factPuts

	report, err := p.Run(context.Background(), Options{Season: "2024-25"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sink.factPuts != putsAfterFirst {
		t.Errorf("second run landed %d new facts, want 0", sink.factPuts-putsAfterFirst)
	}
	if got := report.Entities[lake.EntityPlayerGameStats].SkippedExists; got != 2 {
		t.Errorf("player stat skips = %d, want 2", got)
	}

	// Snapshots are rewritten every run.
	if sink.snapshots[lake.TeamsKey()] != 2 {
		t.Errorf("team dimension snapshots = %d, want 2", sink.snapshots[lake.TeamsKey()])
	}
}

func TestRerunSpendsNoSourceCalls(t *testing.T) {
	sink := newMemSink()
	stub := &statsStub{}
	p := newTestPipeline(stub, sink)

	if _, err := p.Run(context.Background(), Options{Season: "2024-25"}); err != nil {
		t.Fatalf("first run: %v", err)
	}
	trad, adv := stub.tradCalls, stub.advCalls

	report, err := p.Run(context.Background(), Options{Season: "2024-25"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	// Landed partitions are detected before the extractor runs, so the
	// second pass costs only discovery, dimension, and standings calls.
	if stub.tradCalls != trad || stub.advCalls != adv {
		t.Errorf("second run issued +%d traditional and +%d advanced box score calls, want 0 and 0",
			stub.tradCalls-trad, stub.advCalls-adv)
	}
	if got := report.Entities[lake.EntityTeamGameStats].SkippedExists; got != 2 {
		t.Errorf("team stat skips = %d, want 2", got)
	}
	if got := report.Entities[lake.EntityPlayerTeamHistory].SkippedExists; got != 1 {
		t.Errorf("roster history skips = %d, want 1", got)
	}
}

func TestRerunShotZonesSkipsLandedCharts(t *testing.T) {
	sink := newMemSink()
	stub := &statsStub{}
	p := newTestPipeline(stub, sink)

	opts := Options{Season: "2024-25", ShotZones: true}
	if _, err := p.Run(context.Background(), opts); err != nil {
		t.Fatalf("first run: %v", err)
	}
	shots := stub.shotCalls
	if shots != 2 {
		t.Fatalf("first run shot chart calls = %d, want 2", shots)
	}

	if _, err := p.Run(context.Background(), opts); err != nil {
		t.Fatalf("second run: %v", err)
	}
	// The box score is re-pulled to enumerate the roster, but every zone
	// partition already exists, so no shot chart call goes out.
	if stub.shotCalls != shots {
		t.Errorf("second run issued %d shot chart calls, want 0", stub.shotCalls-shots)
	}
}

func TestRunIsolatesGameFailures(t *testing.T) {
	sink := newMemSink()
	stub := &statsStub{boxAdvErr: map[string]error{"g1": errors.New("upstream 500")}}
	p := newTestPipeline(stub, sink)

	report, err := p.Run(context.Background(), Options{Season: "2024-25"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(report.FailedGames) != 1 || report.FailedGames[0] != "g1" {
		t.Fatalf("failed games = %v, want [g1]", report.FailedGames)
	}
	if _, ok := sink.facts[lake.TeamGameStatsKey("2024-25", "g2")]; !ok {
		t.Errorf("healthy game did not land after sibling failure")
	}
	if _, ok := sink.facts[lake.TeamGameStatsKey("2024-25", "g1")]; ok {
		t.Errorf("failed game landed team stats anyway")
	}
	if got := report.Entities[lake.EntityTeamGameStats].Failed; got != 1 {
		t.Errorf("team stat failures = %d, want 1", got)
	}

	// Roster history only needs the traditional box score, so g1 still
	// contributes to the day's rows.
	if _, ok := sink.facts[lake.PlayerTeamHistoryKey("2024-25", "2024-12-01")]; !ok {
		t.Errorf("roster history did not land")
	}
}

func TestRunShotZonesFanOut(t *testing.T) {
	sink := newMemSink()
	p := newTestPipeline(&statsStub{}, sink)

	_, err := p.Run(context.Background(), Options{Season: "2024-25", ShotZones: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One active player (nonzero minutes) per game.
	for _, gameID := range []string{"g1", "g2"} {
		key := lake.ShotZonesKey("2024-25", gameID, 100)
		if _, ok := sink.facts[key]; !ok {
			t.Errorf("shot zones for %s not landed", gameID)
		}
	}
	key := lake.ShotZonesKey("2024-25", "g1", 200)
	if _, ok := sink.facts[key]; ok {
		t.Errorf("shot zones landed for a player with zero minutes")
	}
}

func TestRunRejectsMalformedSeason(t *testing.T) {
	p := newTestPipeline(&statsStub{}, newMemSink())
	if _, err := p.Run(context.Background(), Options{Season: "2024"}); err == nil {
		t.Fatal("want season validation error")
	}
}

func TestRunIncrementalWindow(t *testing.T) {
	sink := newMemSink()
	p := newTestPipeline(&statsStub{}, sink)

	report, err := p.RunIncremental(context.Background(), Options{Season: "2024-25"}, 3)
	if err != nil {
		t.Fatalf("RunIncremental: %v", err)
	}
	if report.DateFrom != "2024-11-30" || report.DateTo != "2024-12-03" {
		t.Fatalf("window = [%s, %s], want [2024-11-30, 2024-12-03]", report.DateFrom, report.DateTo)
	}
	if report.Games != 2 {
		t.Errorf("games inside window = %d, want 2", report.Games)
	}
}
