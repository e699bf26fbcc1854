package warehouse

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/lake"
)

// tableSpec maps one entity to its relational table and conflict handling.
// Conflict targets are the table's natural key; updateCols is the subset
// refreshed when a row already exists, so reloads converge instead of
// erroring.
type tableSpec struct {
	table        string
	conflictCols []string

	// Empty updateCols means DO NOTHING on conflict.
	updateCols []string
}

var tableSpecs = map[string]tableSpec{
	lake.EntityTeams: {
		table:        "teams",
		conflictCols: []string{"team_id"},
		updateCols:   []string{"team_name", "abbreviation", "city", "conference", "division"},
	},
	lake.EntityPlayers: {
		table:        "players",
		conflictCols: []string{"player_id"},
		updateCols: []string{"full_name", "team_id", "team_abbreviation", "is_active",
			"position", "height", "weight", "birth_date", "country", "draft_year"},
	},
	lake.EntityGames: {
		table:        "games",
		conflictCols: []string{"game_id", "team_id"},
		updateCols:   []string{"pts", "is_home"},
	},
	lake.EntityTeamGameStats: {
		table:        "team_game_stats",
		conflictCols: []string{"game_id", "team_id"},
		updateCols:   []string{"pts", "ast", "reb", "plus_minus"},
	},
	lake.EntityPlayerGameStats: {
		table:        "player_game_stats",
		conflictCols: []string{"game_id", "player_id"},
		updateCols:   []string{"pts", "minutes"},
	},
	lake.EntityPlayerTeamHistory: {
		table:        "player_team_history",
		conflictCols: []string{"player_id", "team_id", "snapshot_date"},
	},
	lake.EntityStandings: {
		table:        "standings",
		conflictCols: []string{"season", "snapshot_date", "team_id"},
		updateCols:   []string{"wins", "losses", "win_pct"},
	},
	lake.EntityShotZones: {
		table:        "shot_zones",
		conflictCols: []string{"game_id", "player_id", "zone_basic", "zone_area", "zone_range"},
		updateCols:   []string{"fgm", "fga", "fg_pct"},
	},
}

func (s tableSpec) conflictExpr() exp.ConflictExpression {
	if len(s.updateCols) == 0 {
		return goqu.DoNothing()
	}
	record := goqu.Record{}
	for _, col := range s.updateCols {
		record[col] = goqu.I("excluded." + col)
	}
	return goqu.DoUpdate(strings.Join(s.conflictCols, ", "), record)
}
