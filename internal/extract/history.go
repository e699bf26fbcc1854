package extract

import (
	"context"
	"sort"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
)

type rosterPair struct {
	playerID int64
	teamID   int64
	abbr     string
}

// PlayerTeamHistory records which team each player appeared for in one
// game's box score, stamped with the snapshot date. Duplicate
// (player, team) pairs collapse to one row; rows come back ordered by
// (team_id, player_id).
func (e *Extractor) PlayerTeamHistory(ctx context.Context, gameID, season, snapshotDate string) (*frame.Frame, error) {
	trad, err := e.boxTraditional(ctx, gameID)
	if err != nil {
		return nil, err
	}

	seen := make(map[rosterPair]struct{})
	pairs := make([]rosterPair, 0, trad.players.NumRows())
	for r := 0; r < trad.players.NumRows(); r++ {
		playerID, ok := trad.players.Int(r, "PLAYER_ID")
		if !ok || playerID == 0 {
			continue
		}
		teamID, ok := trad.players.Int(r, "TEAM_ID")
		if !ok {
			continue
		}
		p := rosterPair{
			playerID: playerID,
			teamID:   teamID,
			abbr:     trad.players.Str(r, "TEAM_ABBREVIATION"),
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].teamID != pairs[j].teamID {
			return pairs[i].teamID < pairs[j].teamID
		}
		return pairs[i].playerID < pairs[j].playerID
	})

	f := frame.New(
		frame.Str("season"),
		frame.Str("snapshot_date"),
		frame.Int("player_id"),
		frame.Int("team_id"),
		frame.Str("team_abbreviation"),
	)
	for _, p := range pairs {
		if err := f.AppendRow(season, snapshotDate, p.playerID, p.teamID, p.abbr); err != nil {
			return nil, err
		}
	}
	return f, nil
}
