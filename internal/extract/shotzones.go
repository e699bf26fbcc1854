package extract

import (
	"context"
	"sort"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/nbastats"
)

type shotZone struct {
	basic string
	area  string
	rng   string
}

type zoneTally struct {
	made     int64
	attempts int64
}

// ShotZones aggregates a player's shot chart for one game into zone-level
// make/attempt totals. A player with no attempts yields (nil, nil) so the
// caller can skip the write entirely.
func (e *Extractor) ShotZones(ctx context.Context, gameID string, teamID, playerID int64, season string) (*frame.Frame, error) {
	table, err := fetch(ctx, e, "shotchartdetail", func() (*nbastats.ResultTable, error) {
		return e.api.ShotChart(ctx, teamID, playerID, gameID, season)
	})
	if err != nil {
		return nil, err
	}
	if table.NumRows() == 0 {
		return nil, nil
	}

	tallies := make(map[shotZone]*zoneTally)
	for r := 0; r < table.NumRows(); r++ {
		zone := shotZone{
			basic: table.Str(r, "SHOT_ZONE_BASIC"),
			area:  table.Str(r, "SHOT_ZONE_AREA"),
			rng:   table.Str(r, "SHOT_ZONE_RANGE"),
		}
		t := tallies[zone]
		if t == nil {
			t = &zoneTally{}
			tallies[zone] = t
		}
		t.attempts++
		if made, ok := table.Int(r, "SHOT_MADE_FLAG"); ok && made == 1 {
			t.made++
		}
	}

	zones := make([]shotZone, 0, len(tallies))
	for z := range tallies {
		zones = append(zones, z)
	}
	sort.Slice(zones, func(i, j int) bool {
		a, b := zones[i], zones[j]
		if a.basic != b.basic {
			return a.basic < b.basic
		}
		if a.area != b.area {
			return a.area < b.area
		}
		return a.rng < b.rng
	})

	f := frame.New(
		frame.Str("season"),
		frame.Str("game_id"),
		frame.Int("team_id"),
		frame.Int("player_id"),
		frame.Str("zone_basic"),
		frame.Str("zone_area"),
		frame.Str("zone_range"),
		frame.Int("fgm"),
		frame.Int("fga"),
		frame.Float("fg_pct"),
	)
	for _, z := range zones {
		t := tallies[z]
		if err := f.AppendRow(season, gameID, teamID, playerID,
			z.basic, z.area, z.rng,
			t.made, t.attempts, round3(float64(t.made)/float64(t.attempts))); err != nil {
			return nil, err
		}
	}
	return f, nil
}
