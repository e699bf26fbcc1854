package extract

import (
	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/nbastats"
)

// Teams returns the team dimension from the bundled franchise table. No
// upstream call is involved; the dimension is refreshed wholesale each run.
func (e *Extractor) Teams() *frame.Frame {
	f := frame.New(
		frame.Int("team_id"),
		frame.Str("team_name"),
		frame.Str("abbreviation"),
		frame.Str("city"),
		frame.Str("conference"),
		frame.Str("division"),
	)
	for _, t := range nbastats.StaticTeams() {
		// Static table rows match the declared columns; append cannot fail.
		_ = f.AppendRow(t.ID, t.Name, t.Abbreviation, t.City, t.Conference, t.Division)
	}
	return f
}
