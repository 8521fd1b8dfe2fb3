package match

import (
	"context"
	"errors"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/team"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// MatchService schedules fixtures between approved teams.
type MatchService struct {
	repo MatchRepository
}

func NewMatchService(repo MatchRepository) *MatchService {
	return &MatchService{repo: repo}
}

func (s *MatchService) CreateMatch(ctx context.Context, actor common.Actor, req CreateMatchRequest) (*Match, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can schedule matches")
	}
	if req.HomeTeamID == req.AwayTeamID {
		return nil, apperr.Validation("home and away teams must differ")
	}
	if req.ScheduledAt.IsZero() {
		return nil, apperr.Validation("scheduled_at is required")
	}
	for _, id := range []uint{req.HomeTeamID, req.AwayTeamID} {
		if err := s.requireApprovedTeam(id); err != nil {
			return nil, err
		}
	}
	referee, err := s.repo.Profiles().GetRefereeByID(req.RefereeID)
	if err != nil {
		return nil, apperr.Internal("load referee", err)
	}
	if referee == nil {
		return nil, apperr.NotFound("referee %d not found", req.RefereeID)
	}

	scheduledAt := req.ScheduledAt.UTC()
	exists, err := s.repo.FixtureExists(req.HomeTeamID, req.AwayTeamID, scheduledAt)
	if err != nil {
		return nil, apperr.Internal("check fixture", err)
	}
	if exists {
		return nil, apperr.Duplicate("this fixture is already scheduled")
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDurationMinutes
	}
	match := &Match{
		HomeTeamID:      req.HomeTeamID,
		AwayTeamID:      req.AwayTeamID,
		ScheduledAt:     scheduledAt,
		RefereeID:       referee.ID,
		Venue:           req.Venue,
		DurationMinutes: duration,
		Status:          StatusMatchScheduled,
		CreatedByUserID: actor.ID,
	}
	if err := s.repo.CreateMatch(match); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.FromDuplicate(err, "this fixture is already scheduled")
		}
		return nil, apperr.Internal("create match", err)
	}

	log.Ctx(ctx).Info().
		Uint("match_id", match.ID).
		Uint("home_team_id", match.HomeTeamID).
		Uint("away_team_id", match.AwayTeamID).
		Time("scheduled_at", match.ScheduledAt).
		Msg("Match scheduled")
	return match, nil
}

func (s *MatchService) requireApprovedTeam(id uint) error {
	t, err := s.repo.Teams().GetTeamByID(id)
	if err != nil {
		return apperr.Internal("load team", err)
	}
	if t == nil {
		return apperr.NotFound("team %d not found", id)
	}
	if t.ApprovalStatus != team.StatusApproved {
		return apperr.Conflict("team %q is not approved", t.Name)
	}
	return nil
}

func (s *MatchService) ListMatches(filter MatchFilter) ([]Match, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > maxPageSize {
		filter.Limit = defaultPageSize
	}
	matches, total, err := s.repo.GetMatches(filter)
	if err != nil {
		return nil, 0, apperr.Internal("list matches", err)
	}
	return matches, total, nil
}

func (s *MatchService) GetMatch(id uint) (*Match, error) {
	match, err := s.repo.GetMatchByID(id)
	if err != nil {
		return nil, apperr.Internal("load match", err)
	}
	if match == nil {
		return nil, apperr.NotFound("match %d not found", id)
	}
	return match, nil
}

// DeleteMatch removes a fixture that has no result.
func (s *MatchService) DeleteMatch(ctx context.Context, actor common.Actor, id uint) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("only admins can delete matches")
	}
	err := s.repo.WithTransaction(func(repo MatchRepository) error {
		match, err := repo.GetMatchByID(id)
		if err != nil {
			return apperr.Internal("load match", err)
		}
		if match == nil {
			return apperr.NotFound("match %d not found", id)
		}
		result, err := repo.GetResultByMatchID(id)
		if err != nil {
			return apperr.Internal("load result", err)
		}
		if result != nil {
			return apperr.Conflict("match %d has a result; delete the result first", id)
		}
		if err := repo.DeleteMatch(id); err != nil {
			return apperr.Internal("delete match", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Uint("match_id", id).Uint("deleted_by", actor.ID).Msg("Match deleted")
	return nil
}
