// Package lake lands tabular record sets as partitioned parquet objects in
// a key-addressed blob store. Fact partitions are write-once: a key that
// already exists is never rewritten.
package lake

import (
	"fmt"
	"strings"
)

// Entity names used as the leading key segment and as metric/report labels.
const (
	EntityTeams             = "teams"
	EntityPlayers           = "players"
	EntityGames             = "games"
	EntityTeamGameStats     = "team_game_stats"
	EntityPlayerGameStats   = "player_game_stats"
	EntityPlayerTeamHistory = "player_team_history"
	EntityStandings         = "standings"
	EntityShotZones         = "shot_zones"
)

// TeamsKey returns the single overwritten team dimension object.
func TeamsKey() string {
	return "teams/teams.parquet"
}

// PlayersKey returns the single overwritten player dimension object.
func PlayersKey() string {
	return "players/players.parquet"
}

// GameDayKey partitions game rows by (season, game date).
func GameDayKey(season, gameDate string) string {
	return fmt.Sprintf("games/season=%s/game_date=%s/data.parquet", season, gameDate)
}

// TeamGameStatsKey partitions team box scores by (season, game).
func TeamGameStatsKey(season, gameID string) string {
	return fmt.Sprintf("team_game_stats/season=%s/game_id=%s/data.parquet", season, gameID)
}

// PlayerGameStatsKey partitions player box scores by (season, game).
func PlayerGameStatsKey(season, gameID string) string {
	return fmt.Sprintf("player_game_stats/season=%s/game_id=%s/data.parquet", season, gameID)
}

// PlayerTeamHistoryKey partitions roster snapshots by (season, snapshot date);
// at most one lands per calendar day.
func PlayerTeamHistoryKey(season, snapshotDate string) string {
	return fmt.Sprintf("player_team_history/season=%s/snapshot_date=%s/data.parquet", season, snapshotDate)
}

// StandingsKey partitions standings snapshots by (season, snapshot date).
func StandingsKey(season, snapshotDate string) string {
	return fmt.Sprintf("standings/season=%s/snapshot_date=%s/data.parquet", season, snapshotDate)
}

// ShotZonesKey partitions zone aggregates by (season, game, player).
func ShotZonesKey(season, gameID string, playerID int64) string {
	return fmt.Sprintf("shot_zones/season=%s/game_id=%s/player_id=%d/data.parquet", season, gameID, playerID)
}

// EntityOf returns the leading key segment, which names the entity kind.
func EntityOf(key string) string {
	if i := strings.IndexByte(key, '/'); i > 0 {
		return key[:i]
	}
	return key
}
