package extract

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/logging"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/metrics"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/nbastats"
)

// Game is one discovered game with both sides paired.
type Game struct {
	ID         string
	Date       string
	Season     string
	HomeTeamID int64
	AwayTeamID int64
	HomePts    int64
	AwayPts    int64
}

// awayMarker appears in the matchup text of the travelling team
// ("NYK @ BOS"); the home side reads "BOS vs. NYK".
const awayMarker = "@"

type gameSide struct {
	teamID int64
	pts    int64
	home   bool
}

// Games discovers the season's games, optionally restricted to the
// inclusive [dateFrom, dateTo] range (YYYY-MM-DD; empty bounds are open).
// Raw rows arrive one per (game, team) and are paired into home/away; a
// game without exactly one home and one away row is dropped silently.
// Results are ordered by (date, id) for reproducible fan-out.
func (e *Extractor) Games(ctx context.Context, season, dateFrom, dateTo string) ([]Game, error) {
	table, err := fetch(ctx, e, "leaguegamefinder", func() (*nbastats.ResultTable, error) {
		return e.api.LeagueGames(ctx, season)
	})
	if err != nil {
		return nil, err
	}

	sides := make(map[string][]gameSide)
	dates := make(map[string]string)
	for r := 0; r < table.NumRows(); r++ {
		gameID := table.Str(r, "GAME_ID")
		if gameID == "" {
			continue
		}
		date := table.Str(r, "GAME_DATE")
		if dateFrom != "" && date < dateFrom {
			continue
		}
		if dateTo != "" && date > dateTo {
			continue
		}
		teamID, ok := table.Int(r, "TEAM_ID")
		if !ok {
			continue
		}
		pts, _ := table.Int(r, "PTS")
		matchup := table.Str(r, "MATCHUP")

		dates[gameID] = date
		sides[gameID] = append(sides[gameID], gameSide{
			teamID: teamID,
			pts:    pts,
			home:   !strings.Contains(matchup, awayMarker),
		})
	}

	games := make([]Game, 0, len(sides))
	for gameID, pair := range sides {
		game, ok := pairGame(gameID, dates[gameID], season, pair)
		if !ok {
			e.metrics.RecordSkip("games", metrics.ReasonPartial)
			logging.Warn(e.logger, "dropping game without two paired rows",
				slog.String(logging.FieldGameID, gameID),
				slog.Int(logging.FieldCount, len(pair)))
			continue
		}
		games = append(games, game)
	}

	sort.Slice(games, func(i, j int) bool {
		if games[i].Date != games[j].Date {
			return games[i].Date < games[j].Date
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}

func pairGame(gameID, date, season string, pair []gameSide) (Game, bool) {
	if len(pair) != 2 {
		return Game{}, false
	}
	home, away := pair[0], pair[1]
	if !home.home {
		home, away = away, home
	}
	if !home.home || away.home {
		return Game{}, false
	}
	return Game{
		ID:         gameID,
		Date:       date,
		Season:     season,
		HomeTeamID: home.teamID,
		AwayTeamID: away.teamID,
		HomePts:    home.pts,
		AwayPts:    away.pts,
	}, true
}

// DayPartition groups the games of one calendar date.
type DayPartition struct {
	Date  string
	Frame *frame.Frame
}

// GameDays splits discovered games into per-date partitions with one row
// per (game, team), home/away attribution included. Partitions come back
// in date order.
func GameDays(games []Game) []DayPartition {
	byDate := make(map[string][]Game)
	for _, g := range games {
		byDate[g.Date] = append(byDate[g.Date], g)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	partitions := make([]DayPartition, 0, len(dates))
	for _, date := range dates {
		f := frame.New(
			frame.Str("game_id"),
			frame.Str("game_date"),
			frame.Str("season"),
			frame.Int("team_id"),
			frame.Int("pts"),
			frame.Boolean("is_home"),
		)
		for _, g := range byDate[date] {
			_ = f.AppendRow(g.ID, g.Date, g.Season, g.HomeTeamID, g.HomePts, true)
			_ = f.AppendRow(g.ID, g.Date, g.Season, g.AwayTeamID, g.AwayPts, false)
		}
		partitions = append(partitions, DayPartition{Date: date, Frame: f})
	}
	return partitions
}
