// Package extract turns stats API result sets into normalized frames, one
// extractor method per entity kind. Every upstream call goes through the
// shared retry policy; pacing happens inside the client.
package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/metrics"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/nbastats"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/retry"
)

// StatsAPI is the slice of the stats client the extractors consume.
type StatsAPI interface {
	LeagueGames(ctx context.Context, season string) (*nbastats.ResultTable, error)
	BoxScoreTraditional(ctx context.Context, gameID string) (players, teams *nbastats.ResultTable, err error)
	BoxScoreAdvanced(ctx context.Context, gameID string) (players, teams *nbastats.ResultTable, err error)
	LeagueStandings(ctx context.Context, season string) (*nbastats.ResultTable, error)
	ShotChart(ctx context.Context, teamID, playerID int64, gameID, season string) (*nbastats.ResultTable, error)
	CommonAllPlayers(ctx context.Context, season string) (*nbastats.ResultTable, error)
	CommonPlayerInfo(ctx context.Context, playerID int64) (*nbastats.ResultTable, error)
}

// Extractor fetches and normalizes entity record sets.
type Extractor struct {
	api     StatsAPI
	logger  *slog.Logger
	metrics *metrics.Recorder
	policy  retry.Policy
}

// New constructs an Extractor. A zero policy gets the default attempt
// budget and the stats transient classifier.
func New(api StatsAPI, logger *slog.Logger, recorder *metrics.Recorder, policy retry.Policy) *Extractor {
	if policy.Transient == nil {
		policy.Transient = nbastats.IsTransient
	}
	return &Extractor{api: api, logger: logger, metrics: recorder, policy: policy}
}

// fetch runs one retryable upstream call, recording per-attempt metrics.
func fetch[T any](ctx context.Context, e *Extractor, op string, fn func() (T, error)) (T, error) {
	attempts := 0
	wrapped := func() (T, error) {
		attempts++
		if attempts > 1 {
			e.metrics.RecordRetry(op)
		}
		start := time.Now()
		result, err := fn()
		e.metrics.RecordSourceCall(op, time.Since(start), err)
		return result, err
	}
	return retry.Do(ctx, e.policy, e.logger, op, wrapped)
}

// tablePair carries the two result sets of a box score endpoint.
type tablePair struct {
	players *nbastats.ResultTable
	teams   *nbastats.ResultTable
}

func (e *Extractor) boxTraditional(ctx context.Context, gameID string) (tablePair, error) {
	return fetch(ctx, e, "boxscoretraditionalv2", func() (tablePair, error) {
		players, teams, err := e.api.BoxScoreTraditional(ctx, gameID)
		return tablePair{players: players, teams: teams}, err
	})
}

func (e *Extractor) boxAdvanced(ctx context.Context, gameID string) (tablePair, error) {
	return fetch(ctx, e, "boxscoreadvancedv2", func() (tablePair, error) {
		players, teams, err := e.api.BoxScoreAdvanced(ctx, gameID)
		return tablePair{players: players, teams: teams}, err
	})
}
