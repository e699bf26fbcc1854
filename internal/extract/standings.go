package extract

import (
	"context"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/nbastats"
)

// Standings returns the league standings as of snapshotDate. Rank columns
// are null when the upstream omits them, which happens early in a season.
func (e *Extractor) Standings(ctx context.Context, season, snapshotDate string) (*frame.Frame, error) {
	table, err := fetch(ctx, e, "leaguestandingsv3", func() (*nbastats.ResultTable, error) {
		return e.api.LeagueStandings(ctx, season)
	})
	if err != nil {
		return nil, err
	}

	f := frame.New(
		frame.Str("season"),
		frame.Str("snapshot_date"),
		frame.Int("team_id"),
		frame.Str("conference"),
		frame.Str("division"),
		frame.Int("conference_rank"),
		frame.Int("division_rank"),
		frame.Int("wins"),
		frame.Int("losses"),
		frame.Float("win_pct"),
		frame.Str("home_record"),
		frame.Str("road_record"),
		frame.Str("streak"),
		frame.Str("last_10"),
		frame.Float("games_back"),
	)

	for r := 0; r < table.NumRows(); r++ {
		teamID, ok := table.Int(r, "TeamID")
		if !ok {
			continue
		}

		// Streak naming drifted across API versions.
		streak := table.Str(r, "strCurrentStreak")
		if streak == "" {
			streak = table.Str(r, "CurrentStreak")
		}

		if err := f.AppendRow(
			season,
			snapshotDate,
			teamID,
			table.Str(r, "Conference"),
			table.Str(r, "Division"),
			nullableInt(table, r, "PlayoffRank"),
			nullableInt(table, r, "DivisionRank"),
			nullableInt(table, r, "WINS"),
			nullableInt(table, r, "LOSSES"),
			nullableFloat(table, r, "WinPCT"),
			table.Str(r, "HOME"),
			table.Str(r, "ROAD"),
			streak,
			table.Str(r, "L10"),
			nullableFloat(table, r, "ConferenceGamesBack"),
		); err != nil {
			return nil, err
		}
	}
	f.SortBy("conference", "conference_rank", "team_id")
	return f, nil
}
