// Package pipeline sequences one ingestion run: dimensions first, then game
// discovery, then the per-game fact fan-out, with the standings snapshot
// landing last. Dimension or discovery failures abort the run; a failure
// inside one game's fan-out is isolated and reported without stopping the
// other games.
package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/extract"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/lake"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/logging"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/metrics"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/timeutil"
)

// Sink lands finished frames. The blob lake and the relational warehouse
// both satisfy it; fact keys are write-once only where the sink can check.
// HasFact is consulted before extraction so that a re-run over landed
// partitions spends no upstream calls; sinks without an existence check
// report false.
type Sink interface {
	HasFact(ctx context.Context, key string) (bool, error)
	WriteSnapshot(ctx context.Context, key string, f *frame.Frame) error
	WriteFact(ctx context.Context, key string, f *frame.Frame) (written bool, err error)
}

// Options selects what one run covers.
type Options struct {
	Season string

	// Inclusive YYYY-MM-DD bounds on game dates; empty bounds are open.
	DateFrom string
	DateTo   string

	// ShotZones enables the per-player shot chart fan-out, which multiplies
	// upstream call volume by active players per game.
	ShotZones bool

	// PlayerDetails enables one enrichment call per rostered player when
	// loading the player dimension.
	PlayerDetails bool
}

// Pipeline runs ingestion against one extractor and one sink.
type Pipeline struct {
	extractor *extract.Extractor
	sink      Sink
	logger    *slog.Logger
	metrics   *metrics.Recorder
	now       func() time.Time
}

// New constructs a Pipeline.
func New(ex *extract.Extractor, sink Sink, logger *slog.Logger, recorder *metrics.Recorder) *Pipeline {
	return &Pipeline{
		extractor: ex,
		sink:      sink,
		logger:    logger,
		metrics:   recorder,
		now:       time.Now,
	}
}

// Run executes one full pass for the season described by opts.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	if err := timeutil.ValidateSeason(opts.Season); err != nil {
		return nil, err
	}
	report := newReport(opts.Season, opts.DateFrom, opts.DateTo)

	if err := p.loadDimensions(ctx, opts, report); err != nil {
		return report, err
	}

	games, err := p.extractor.Games(ctx, opts.Season, opts.DateFrom, opts.DateTo)
	if err != nil {
		return report, errors.Wrap(err, "discovering games")
	}
	report.Games = len(games)
	logging.Info(p.logger, "games discovered",
		slog.String(logging.FieldSeason, opts.Season),
		slog.Int(logging.FieldCount, len(games)))

	for _, day := range extract.GameDays(games) {
		written, err := p.sink.WriteFact(ctx, lake.GameDayKey(opts.Season, day.Date), day.Frame)
		if err != nil {
			return report, errors.Wrapf(err, "landing game day %s", day.Date)
		}
		report.recordFact(lake.EntityGames, written)
	}

	byDate := groupByDate(games)
	for _, date := range orderedDates(byDate) {
		p.ingestDay(ctx, opts, date, byDate[date], report)
	}

	if err := p.loadStandings(ctx, opts, report); err != nil {
		return report, err
	}
	return report, nil
}

// RunIncremental covers the trailing lookback window ending now. Facts
// already landed inside the window are skipped before extraction, so
// overlapping windows are safe and cheap to re-run.
func (p *Pipeline) RunIncremental(ctx context.Context, opts Options, lookbackDays int) (*Report, error) {
	opts.DateFrom, opts.DateTo = timeutil.LookbackRange(p.now(), lookbackDays)
	return p.Run(ctx, opts)
}

func (p *Pipeline) loadDimensions(ctx context.Context, opts Options, report *Report) error {
	teams := p.extractor.Teams()
	if err := p.sink.WriteSnapshot(ctx, lake.TeamsKey(), teams); err != nil {
		return errors.Wrap(err, "landing team dimension")
	}
	report.entity(lake.EntityTeams).Written++

	players, err := p.extractor.Players(ctx, opts.Season, opts.PlayerDetails)
	if err != nil {
		return errors.Wrap(err, "loading player dimension")
	}
	if err := p.sink.WriteSnapshot(ctx, lake.PlayersKey(), players); err != nil {
		return errors.Wrap(err, "landing player dimension")
	}
	report.entity(lake.EntityPlayers).Written++
	return nil
}

func (p *Pipeline) loadStandings(ctx context.Context, opts Options, report *Report) error {
	snapshotDate := timeutil.FormatDate(p.now())
	standings, err := p.extractor.Standings(ctx, opts.Season, snapshotDate)
	if err != nil {
		return errors.Wrap(err, "loading standings")
	}
	key := lake.StandingsKey(opts.Season, snapshotDate)
	if err := p.sink.WriteSnapshot(ctx, key, standings); err != nil {
		return errors.Wrap(err, "landing standings")
	}
	report.entity(lake.EntityStandings).Written++
	return nil
}

// ingestDay fans out over one date's games and lands the day's roster
// history once. Entity failures inside a game are logged and counted but
// never abort the day.
func (p *Pipeline) ingestDay(ctx context.Context, opts Options, date string, games []extract.Game, report *Report) {
	historyKey := lake.PlayerTeamHistoryKey(opts.Season, date)
	historyExists, err := p.sink.HasFact(ctx, historyKey)
	if err != nil {
		p.recordEntityFailure(lake.EntityPlayerTeamHistory, date, err, report)
		historyExists = true
	}

	var history *historyAccumulator
	if !historyExists {
		history = newHistoryAccumulator()
	}
	for _, g := range games {
		p.ingestGame(ctx, opts, g, history, report)
	}

	if historyExists {
		p.skipExisting(lake.EntityPlayerTeamHistory, historyKey, report)
		return
	}
	if history.frame.NumRows() == 0 {
		return
	}
	written, err := p.sink.WriteFact(ctx, historyKey, history.frame)
	if err != nil {
		p.recordEntityFailure(lake.EntityPlayerTeamHistory, date, err, report)
		return
	}
	report.recordFact(lake.EntityPlayerTeamHistory, written)
}

// ingestGame lands one game's fact partitions. Each partition's key is
// probed before the extractor is invoked, so partitions that already landed
// cost no upstream calls. A nil history means the day's roster partition
// already exists and no roster rows are needed.
func (p *Pipeline) ingestGame(ctx context.Context, opts Options, g extract.Game, history *historyAccumulator, report *Report) {
	failed := false

	teamKey := lake.TeamGameStatsKey(g.Season, g.ID)
	switch exists, err := p.sink.HasFact(ctx, teamKey); {
	case err != nil:
		p.recordEntityFailure(lake.EntityTeamGameStats, g.ID, err, report)
		failed = true
	case exists:
		p.skipExisting(lake.EntityTeamGameStats, teamKey, report)
	default:
		teamStats, err := p.extractor.TeamGameStats(ctx, g.ID, g.Season, g.HomeTeamID)
		if err != nil {
			p.recordEntityFailure(lake.EntityTeamGameStats, g.ID, err, report)
			failed = true
			break
		}
		written, err := p.sink.WriteFact(ctx, teamKey, teamStats)
		if err != nil {
			p.recordEntityFailure(lake.EntityTeamGameStats, g.ID, err, report)
			failed = true
			break
		}
		report.recordFact(lake.EntityTeamGameStats, written)
	}

	playerKey := lake.PlayerGameStatsKey(g.Season, g.ID)
	playersExist, err := p.sink.HasFact(ctx, playerKey)
	if err != nil {
		p.recordEntityFailure(lake.EntityPlayerGameStats, g.ID, err, report)
		failed = true
		playersExist = true
	} else if playersExist {
		p.skipExisting(lake.EntityPlayerGameStats, playerKey, report)
	}

	// The player frame is still needed when shot zones are on: it is the
	// roster the per-player fan-out enumerates. Each zone key is probed
	// individually below, so a backfill over landed games only re-pulls
	// the box score.
	var playerStats *frame.Frame
	if !playersExist || opts.ShotZones {
		playerStats, err = p.extractor.PlayerGameStats(ctx, g.ID, g.Season)
		if err != nil {
			p.recordEntityFailure(lake.EntityPlayerGameStats, g.ID, err, report)
			failed = true
			playerStats = nil
		} else if !playersExist {
			written, err := p.sink.WriteFact(ctx, playerKey, playerStats)
			if err != nil {
				p.recordEntityFailure(lake.EntityPlayerGameStats, g.ID, err, report)
				failed = true
			} else {
				report.recordFact(lake.EntityPlayerGameStats, written)
			}
		}
	}

	if history != nil {
		rosterRows, err := p.extractor.PlayerTeamHistory(ctx, g.ID, g.Season, g.Date)
		if err != nil {
			p.recordEntityFailure(lake.EntityPlayerTeamHistory, g.ID, err, report)
			failed = true
		} else {
			history.addFrame(rosterRows)
		}
	}

	if opts.ShotZones && playerStats != nil {
		p.ingestShotZones(ctx, g, playerStats, report)
	}

	if failed {
		report.FailedGames = append(report.FailedGames, g.ID)
	}
}

func (p *Pipeline) ingestShotZones(ctx context.Context, g extract.Game, playerStats *frame.Frame, report *Report) {
	for _, ref := range extract.ActivePlayers(playerStats) {
		key := lake.ShotZonesKey(g.Season, g.ID, ref.PlayerID)
		exists, err := p.sink.HasFact(ctx, key)
		if err != nil {
			p.recordEntityFailure(lake.EntityShotZones, g.ID, err, report)
			continue
		}
		if exists {
			p.skipExisting(lake.EntityShotZones, key, report)
			continue
		}
		zones, err := p.extractor.ShotZones(ctx, g.ID, ref.TeamID, ref.PlayerID, g.Season)
		if err != nil {
			p.recordEntityFailure(lake.EntityShotZones, g.ID, err, report)
			continue
		}
		if zones == nil {
			continue
		}
		written, err := p.sink.WriteFact(ctx, key, zones)
		if err != nil {
			p.recordEntityFailure(lake.EntityShotZones, g.ID, err, report)
			continue
		}
		report.recordFact(lake.EntityShotZones, written)
	}
}

// skipExisting accounts for a partition whose key was already landed by a
// prior run, before any extraction happened for it.
func (p *Pipeline) skipExisting(entity, key string, report *Report) {
	report.recordFact(entity, false)
	p.metrics.RecordSkip(entity, metrics.ReasonExists)
	logging.Info(p.logger, "partition exists, skipping",
		slog.String(logging.FieldKey, key))
}

func (p *Pipeline) recordEntityFailure(entity, scope string, err error, report *Report) {
	report.recordFailure(entity)
	p.metrics.RecordSkip(entity, metrics.ReasonFailed)
	logging.Error(p.logger, "entity ingestion failed", err,
		slog.String(logging.FieldEntity, entity),
		slog.String(logging.FieldGameID, scope))
}

// historyAccumulator merges per-game roster rows into one per-day frame,
// deduplicating on (player, team).
type historyAccumulator struct {
	frame *frame.Frame
	seen  map[[2]int64]struct{}
}

func newHistoryAccumulator() *historyAccumulator {
	return &historyAccumulator{
		frame: frame.New(
			frame.Str("season"),
			frame.Str("snapshot_date"),
			frame.Int("player_id"),
			frame.Int("team_id"),
			frame.Str("team_abbreviation"),
		),
		seen: make(map[[2]int64]struct{}),
	}
}

// addFrame folds one game's roster rows into the day frame.
func (h *historyAccumulator) addFrame(rows *frame.Frame) {
	for r := 0; r < rows.NumRows(); r++ {
		playerID, _ := rows.Value(r, "player_id")
		teamID, _ := rows.Value(r, "team_id")
		pid, okP := playerID.(int64)
		tid, okT := teamID.(int64)
		if !okP || !okT {
			continue
		}
		key := [2]int64{pid, tid}
		if _, dup := h.seen[key]; dup {
			continue
		}
		h.seen[key] = struct{}{}
		_ = h.frame.AppendRow(rows.Row(r)...)
	}
}

func groupByDate(games []extract.Game) map[string][]extract.Game {
	byDate := make(map[string][]extract.Game)
	for _, g := range games {
		byDate[g.Date] = append(byDate[g.Date], g)
	}
	return byDate
}

func orderedDates(byDate map[string][]extract.Game) []string {
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	// Discovery already sorts games, but map iteration does not preserve it.
	sort.Strings(dates)
	return dates
}
