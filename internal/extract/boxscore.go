package extract

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
)

// TeamGameStats returns one row per team for a game: traditional box score
// joined with the advanced table on (game, team). Traditional is
// authoritative for row existence; advanced columns are null when the
// advanced table has no matching row.
func (e *Extractor) TeamGameStats(ctx context.Context, gameID, season string, homeTeamID int64) (*frame.Frame, error) {
	trad, err := e.boxTraditional(ctx, gameID)
	if err != nil {
		return nil, err
	}
	adv, err := e.boxAdvanced(ctx, gameID)
	if err != nil {
		return nil, err
	}

	advByTeam := make(map[int64]int)
	for r := 0; r < adv.teams.NumRows(); r++ {
		if teamID, ok := adv.teams.Int(r, "TEAM_ID"); ok {
			advByTeam[teamID] = r
		}
	}

	f := frame.New(
		frame.Str("season"),
		frame.Str("game_id"),
		frame.Int("team_id"),
		frame.Boolean("is_home"),
		frame.Int("pts"),
		frame.Int("ast"),
		frame.Int("reb"),
		frame.Int("oreb"),
		frame.Int("dreb"),
		frame.Int("stl"),
		frame.Int("blk"),
		frame.Int("tov"),
		frame.Int("pf"),
		frame.Int("fgm"),
		frame.Int("fga"),
		frame.Float("fg_pct"),
		frame.Int("fg3m"),
		frame.Int("fg3a"),
		frame.Float("fg3_pct"),
		frame.Int("ftm"),
		frame.Int("fta"),
		frame.Float("ft_pct"),
		frame.Float("plus_minus"),
		frame.Float("pace"),
		frame.Float("off_rating"),
		frame.Float("def_rating"),
		frame.Float("net_rating"),
	)

	t := trad.teams
	for r := 0; r < t.NumRows(); r++ {
		teamID, ok := t.Int(r, "TEAM_ID")
		if !ok {
			continue
		}

		var pace, offRating, defRating, netRating any
		if ar, ok := advByTeam[teamID]; ok {
			pace = nullableFloat(adv.teams, ar, "PACE")
			offRating = nullableFloat(adv.teams, ar, "OFF_RATING")
			defRating = nullableFloat(adv.teams, ar, "DEF_RATING")
			netRating = nullableFloat(adv.teams, ar, "NET_RATING")
		}

		if err := f.AppendRow(
			season,
			gameID,
			teamID,
			teamID == homeTeamID,
			nullableInt(t, r, "PTS"),
			nullableInt(t, r, "AST"),
			nullableInt(t, r, "REB"),
			nullableInt(t, r, "OREB"),
			nullableInt(t, r, "DREB"),
			nullableInt(t, r, "STL"),
			nullableInt(t, r, "BLK"),
			nullableInt(t, r, "TO"),
			nullableInt(t, r, "PF"),
			nullableInt(t, r, "FGM"),
			nullableInt(t, r, "FGA"),
			nullableFloat(t, r, "FG_PCT"),
			nullableInt(t, r, "FG3M"),
			nullableInt(t, r, "FG3A"),
			nullableFloat(t, r, "FG3_PCT"),
			nullableInt(t, r, "FTM"),
			nullableInt(t, r, "FTA"),
			nullableFloat(t, r, "FT_PCT"),
			nullableFloat(t, r, "PLUS_MINUS"),
			pace,
			offRating,
			defRating,
			netRating,
		); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// PlayerGameStats returns one row per player for a game: the traditional
// player table joined with advanced usage rate on player id. Team-total
// rows (no player id) are skipped.
func (e *Extractor) PlayerGameStats(ctx context.Context, gameID, season string) (*frame.Frame, error) {
	trad, err := e.boxTraditional(ctx, gameID)
	if err != nil {
		return nil, err
	}
	adv, err := e.boxAdvanced(ctx, gameID)
	if err != nil {
		return nil, err
	}

	advByPlayer := make(map[int64]int)
	for r := 0; r < adv.players.NumRows(); r++ {
		if playerID, ok := adv.players.Int(r, "PLAYER_ID"); ok {
			advByPlayer[playerID] = r
		}
	}

	f := newPlayerStatsFrame()
	t := trad.players
	for r := 0; r < t.NumRows(); r++ {
		playerID, ok := t.Int(r, "PLAYER_ID")
		if !ok || playerID == 0 {
			continue
		}

		var usgPct any
		if ar, ok := advByPlayer[playerID]; ok {
			usgPct = nullableFloat(adv.players, ar, "USG_PCT")
		}

		if err := f.AppendRow(
			season,
			gameID,
			nullableInt(t, r, "TEAM_ID"),
			playerID,
			t.Str(r, "PLAYER_NAME"),
			t.Str(r, "START_POSITION") != "",
			ParseMinutes(t.Str(r, "MIN")),
			nullableInt(t, r, "PTS"),
			nullableInt(t, r, "AST"),
			nullableInt(t, r, "REB"),
			nullableInt(t, r, "OREB"),
			nullableInt(t, r, "DREB"),
			nullableInt(t, r, "STL"),
			nullableInt(t, r, "BLK"),
			nullableInt(t, r, "TO"),
			nullableInt(t, r, "PF"),
			nullableInt(t, r, "FGM"),
			nullableInt(t, r, "FGA"),
			nullableFloat(t, r, "FG_PCT"),
			nullableInt(t, r, "FG3M"),
			nullableInt(t, r, "FG3A"),
			nullableFloat(t, r, "FG3_PCT"),
			nullableInt(t, r, "FTM"),
			nullableInt(t, r, "FTA"),
			nullableFloat(t, r, "FT_PCT"),
			nullableFloat(t, r, "PLUS_MINUS"),
			usgPct,
		); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func newPlayerStatsFrame() *frame.Frame {
	return frame.New(
		frame.Str("season"),
		frame.Str("game_id"),
		frame.Int("team_id"),
		frame.Int("player_id"),
		frame.Str("player_name"),
		frame.Boolean("starter"),
		frame.Float("minutes"),
		frame.Int("pts"),
		frame.Int("ast"),
		frame.Int("reb"),
		frame.Int("oreb"),
		frame.Int("dreb"),
		frame.Int("stl"),
		frame.Int("blk"),
		frame.Int("tov"),
		frame.Int("pf"),
		frame.Int("fgm"),
		frame.Int("fga"),
		frame.Float("fg_pct"),
		frame.Int("fg3m"),
		frame.Int("fg3a"),
		frame.Float("fg3_pct"),
		frame.Int("ftm"),
		frame.Int("fta"),
		frame.Float("ft_pct"),
		frame.Float("plus_minus"),
		frame.Float("usg_pct"),
	)
}

// ParseMinutes converts a played-time field to fractional minutes rounded
// to two decimals. Accepts "MM:SS" or a bare minute count; anything else
// (DNP markers, empty cells) yields 0.0.
func ParseMinutes(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0.0
	}
	if mins, secs, found := strings.Cut(raw, ":"); found {
		m, err1 := strconv.ParseFloat(mins, 64)
		s, err2 := strconv.ParseFloat(secs, 64)
		if err1 != nil || err2 != nil {
			return 0.0
		}
		return round2(m + s/60)
	}
	if m, err := strconv.ParseFloat(raw, 64); err == nil {
		return round2(m)
	}
	return 0.0
}

// PlayerRef identifies a player's appearance in a game.
type PlayerRef struct {
	TeamID   int64
	PlayerID int64
}

// ActivePlayers returns the players with nonzero minutes from a player
// stats frame, in row order.
func ActivePlayers(f *frame.Frame) []PlayerRef {
	refs := make([]PlayerRef, 0, f.NumRows())
	for r := 0; r < f.NumRows(); r++ {
		minutes, _ := f.Value(r, "minutes")
		m, ok := minutes.(float64)
		if !ok || m <= 0 {
			continue
		}
		playerID, _ := f.Value(r, "player_id")
		teamID, _ := f.Value(r, "team_id")
		pid, okP := playerID.(int64)
		tid, okT := teamID.(int64)
		if !okP || !okT {
			continue
		}
		refs = append(refs, PlayerRef{TeamID: tid, PlayerID: pid})
	}
	return refs
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
