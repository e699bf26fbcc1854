package extract

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/frame"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/logging"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/nbastats"
)

// Players returns the player dimension for the season. With enrich set,
// one additional call per player fills in biographical columns; a failed
// enrichment leaves that player's columns null rather than failing the
// dimension load.
func (e *Extractor) Players(ctx context.Context, season string, enrich bool) (*frame.Frame, error) {
	roster, err := fetch(ctx, e, "commonallplayers", func() (*nbastats.ResultTable, error) {
		return e.api.CommonAllPlayers(ctx, season)
	})
	if err != nil {
		return nil, err
	}

	f := frame.New(
		frame.Int("player_id"),
		frame.Str("full_name"),
		frame.Int("team_id"),
		frame.Str("team_abbreviation"),
		frame.Boolean("is_active"),
		frame.Str("position"),
		frame.Str("height"),
		frame.Int("weight"),
		frame.Str("birth_date"),
		frame.Str("country"),
		frame.Int("draft_year"),
	)

	for r := 0; r < roster.NumRows(); r++ {
		playerID, ok := roster.Int(r, "PERSON_ID")
		if !ok {
			continue
		}
		fullName := roster.Str(r, "DISPLAY_FIRST_LAST")
		teamID := nullableInt(roster, r, "TEAM_ID")
		teamAbbr := roster.Str(r, "TEAM_ABBREVIATION")
		active := roster.Str(r, "ROSTERSTATUS") == "1"

		var position, height, birthDate, country any
		var weight, draftYear any
		if enrich {
			position, height, weight, birthDate, country, draftYear = e.playerDetail(ctx, playerID)
		}

		if err := f.AppendRow(playerID, fullName, teamID, teamAbbr, active,
			position, height, weight, birthDate, country, draftYear); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// playerDetail fetches biographical columns for one player; any failure is
// logged and reported as all-null.
func (e *Extractor) playerDetail(ctx context.Context, playerID int64) (position, height, weight, birthDate, country, draftYear any) {
	info, err := fetch(ctx, e, "commonplayerinfo", func() (*nbastats.ResultTable, error) {
		return e.api.CommonPlayerInfo(ctx, playerID)
	})
	if err != nil {
		logging.Warn(e.logger, "player enrichment failed",
			slog.Int64(logging.FieldPlayerID, playerID),
			slog.Any("error", err))
		return nil, nil, nil, nil, nil, nil
	}
	if info.NumRows() == 0 {
		return nil, nil, nil, nil, nil, nil
	}

	position = nullableStr(info, 0, "POSITION")
	height = nullableStr(info, 0, "HEIGHT")
	birthDate = nullableStr(info, 0, "BIRTHDATE")
	country = nullableStr(info, 0, "COUNTRY")

	// Weight and draft year arrive as strings; unparsable values stay null.
	if w, err := strconv.ParseInt(info.Str(0, "WEIGHT"), 10, 64); err == nil {
		weight = w
	}
	if y, err := strconv.ParseInt(info.Str(0, "DRAFT_YEAR"), 10, 64); err == nil {
		draftYear = y
	}
	return position, height, weight, birthDate, country, draftYear
}

func nullableInt(t *nbastats.ResultTable, row int, col string) any {
	if v, ok := t.Int(row, col); ok {
		return v
	}
	return nil
}

func nullableFloat(t *nbastats.ResultTable, row int, col string) any {
	if v, ok := t.Float(row, col); ok {
		return v
	}
	return nil
}

func nullableStr(t *nbastats.ResultTable, row int, col string) any {
	if s := t.Str(row, col); s != "" {
		return s
	}
	return nil
}
