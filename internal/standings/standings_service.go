package standings

import (
	"context"
	"errors"
	"sync"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/rs/zerolog/log"
)

// Record adds both sides of one outcome through repo. Callers that already
// hold a transaction pass its repository so the table moves with their write.
func Record(repo Repository, o Outcome) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := repo.EnsureRow(o.HomeTeamID); err != nil {
		return err
	}
	if err := repo.EnsureRow(o.AwayTeamID); err != nil {
		return err
	}
	if err := repo.ApplyMatchOutcome(o.HomeTeamID, o.HomeGoals, o.AwayGoals); err != nil {
		return err
	}
	return repo.ApplyMatchOutcome(o.AwayTeamID, o.AwayGoals, o.HomeGoals)
}

// Reverse undoes an outcome previously passed to Record. A team left with no
// matches loses its row, as it would after RecalculateAll.
func Reverse(repo Repository, o Outcome) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := repo.RevertMatchOutcome(o.HomeTeamID, o.HomeGoals, o.AwayGoals); err != nil {
		return err
	}
	if err := repo.RevertMatchOutcome(o.AwayTeamID, o.AwayGoals, o.HomeGoals); err != nil {
		return err
	}
	if err := repo.DeleteIfEmpty(o.HomeTeamID); err != nil {
		return err
	}
	return repo.DeleteIfEmpty(o.AwayTeamID)
}

// Engine serializes full rebuilds against incremental updates. Incremental
// writers share the lock; RecalculateAll takes it exclusively.
type Engine struct {
	repo Repository
	mu   sync.RWMutex
}

func NewEngine(repo Repository) *Engine {
	return &Engine{repo: repo}
}

// Shared runs fn while no rebuild can start. fn must not call back into the engine.
func (e *Engine) Shared(fn func() error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn()
}

func (e *Engine) EnsureRow(teamID uint) error {
	return e.Shared(func() error {
		if err := e.repo.EnsureRow(teamID); err != nil {
			return apperr.Internal("failed to create standing row", err)
		}
		return nil
	})
}

// ApplyMatchOutcome adds a single side of a match. The team's row must exist.
func (e *Engine) ApplyMatchOutcome(teamID uint, goalsFor, goalsAgainst int) error {
	if goalsFor < 0 || goalsAgainst < 0 {
		return apperr.Validation("scores cannot be negative")
	}
	return e.Shared(func() error {
		return translate(e.repo.ApplyMatchOutcome(teamID, goalsFor, goalsAgainst), teamID)
	})
}

func (e *Engine) RecordMatch(o Outcome) error {
	return e.Shared(func() error {
		return e.repo.WithTransaction(func(tx Repository) error {
			return translate(Record(tx, o), 0)
		})
	})
}

func (e *Engine) ReverseMatch(o Outcome) error {
	return e.Shared(func() error {
		return e.repo.WithTransaction(func(tx Repository) error {
			return translate(Reverse(tx, o), 0)
		})
	})
}

// RecalculateAll rebuilds the table from approved results alone. Readers
// and incremental writers wait until it finishes.
func (e *Engine) RecalculateAll(ctx context.Context) (*RecalculateSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	summary := &RecalculateSummary{}
	err := e.repo.WithTransaction(func(tx Repository) error {
		outcomes, skipped, err := tx.ApprovedOutcomes()
		if err != nil {
			return err
		}
		if err := tx.DeleteAll(); err != nil {
			return err
		}
		for _, o := range outcomes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := Record(tx, o); err != nil {
				return err
			}
		}
		summary.Replayed = len(outcomes)
		summary.Skipped = skipped
		rows, err := tx.Ranked()
		if err != nil {
			return err
		}
		summary.Teams = len(rows)
		return nil
	})
	if err != nil {
		return nil, translate(err, 0)
	}

	log.Ctx(ctx).Info().
		Int("replayed", summary.Replayed).
		Int("skipped", summary.Skipped).
		Int("teams", summary.Teams).
		Msg("Standings recalculated")
	return summary, nil
}

// RecalculateAsAdmin is the operator entry point for RecalculateAll.
func (e *Engine) RecalculateAsAdmin(ctx context.Context, actor common.Actor) (*RecalculateSummary, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only an admin can recalculate standings")
	}
	return e.RecalculateAll(ctx)
}

func (e *Engine) RankedTable() ([]StandingRow, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rows, err := e.repo.Ranked()
	if err != nil {
		return nil, apperr.Internal("failed to load standings", err)
	}
	return rows, nil
}

func (e *Engine) TeamStanding(teamID uint) (*StandingRow, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	row, err := e.repo.GetByTeamID(teamID)
	if err != nil {
		return nil, apperr.Internal("failed to load standing", err)
	}
	if row == nil {
		return nil, apperr.NotFound("no standing for team %d", teamID)
	}
	return row, nil
}

// ReconcileJob returns a task for the scheduler that rebuilds the table.
func (e *Engine) ReconcileJob() func() {
	return func() {
		ctx := log.Logger.With().Str("job", "standings-reconcile").Logger().WithContext(context.Background())
		if _, err := e.RecalculateAll(ctx); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("Scheduled standings rebuild failed")
		}
	}
}

func translate(err error, teamID uint) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, ErrMissingRow) {
		if teamID != 0 {
			return apperr.NotFound("no standing row for team %d", teamID)
		}
		return apperr.NotFound("standing row missing")
	}
	return apperr.Internal("failed to update standings", err)
}
