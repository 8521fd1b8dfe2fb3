package match

import (
	"context"
	"errors"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/standings"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ResultService runs the result approval pipeline. Approval is the only edge
// that feeds the league table, and it does so exactly once per result.
type ResultService struct {
	repo   MatchRepository
	engine *standings.Engine
}

func NewResultService(repo MatchRepository, engine *standings.Engine) *ResultService {
	return &ResultService{repo: repo, engine: engine}
}

// SubmitResult records the score of a match as unapproved.
func (s *ResultService) SubmitResult(ctx context.Context, actor common.Actor, req SubmitResultRequest) (*Result, error) {
	if !actor.Is(user.RoleReferee, user.RoleAdmin) {
		return nil, apperr.Forbidden("only referees and admins can submit results")
	}
	if err := validateScores(req.HomeScore, req.AwayScore); err != nil {
		return nil, err
	}

	result := &Result{
		MatchID:         req.MatchID,
		HomeScore:       req.HomeScore,
		AwayScore:       req.AwayScore,
		HalfTimeScore:   req.HalfTimeScore,
		ManOfTheMatchID: req.ManOfTheMatchID,
		Notes:           req.Notes,
		SubmittedByID:   actor.ID,
		Approved:        false,
	}
	err := s.repo.WithTransaction(func(repo MatchRepository) error {
		match, err := repo.GetMatchByID(req.MatchID)
		if err != nil {
			return apperr.Internal("load match", err)
		}
		if match == nil {
			return apperr.NotFound("match %d not found", req.MatchID)
		}
		if err := authorizeOfficial(repo, actor, match); err != nil {
			return err
		}
		existing, err := repo.GetResultByMatchID(match.ID)
		if err != nil {
			return apperr.Internal("check result", err)
		}
		if existing != nil {
			return apperr.Duplicate("match %d already has a result", match.ID)
		}
		if err := repo.CreateResult(result); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.FromDuplicate(err, "match already has a result")
			}
			return apperr.Internal("create result", err)
		}
		if err := repo.SetMatchStatus(match.ID, StatusMatchCompleted); err != nil {
			return apperr.Internal("complete match", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint("result_id", result.ID).Uint("match_id", result.MatchID).Msg("Result submitted")
	return result, nil
}

// EditResult patches an unapproved result. Approved results must be
// unapproved first so the table never drifts from the score line.
func (s *ResultService) EditResult(ctx context.Context, actor common.Actor, resultID uint, req EditResultRequest) (*Result, error) {
	if !actor.Is(user.RoleReferee, user.RoleAdmin) {
		return nil, apperr.Forbidden("only referees and admins can edit results")
	}

	var result *Result
	err := s.repo.WithTransaction(func(repo MatchRepository) error {
		var err error
		result, err = loadResult(repo, resultID)
		if err != nil {
			return err
		}
		if err := authorizeOfficial(repo, actor, result.Match); err != nil {
			return err
		}
		if result.Approved {
			return apperr.ErrResultApproved
		}

		if req.HomeScore != nil {
			result.HomeScore = req.HomeScore
		}
		if req.AwayScore != nil {
			result.AwayScore = req.AwayScore
		}
		if req.HalfTimeScore != nil {
			result.HalfTimeScore = *req.HalfTimeScore
		}
		if req.ManOfTheMatchID != nil {
			result.ManOfTheMatchID = req.ManOfTheMatchID
		}
		if req.Notes != nil {
			result.Notes = *req.Notes
		}
		if err := validateScores(result.HomeScore, result.AwayScore); err != nil {
			return err
		}

		ok, err := repo.UpdatePendingResult(result)
		if err != nil {
			return apperr.Internal("update result", err)
		}
		if !ok {
			return apperr.ErrResultApproved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Uint("result_id", resultID).Uint("edited_by", actor.ID).Msg("Result edited")
	return result, nil
}

// ApproveResult approves a result and adds it to the table. A second call for
// the same result, concurrent or not, changes nothing. Missing scores or team
// linkage approve the result but skip the table with a warning.
func (s *ResultService) ApproveResult(ctx context.Context, actor common.Actor, resultID uint) (*ApprovalOutcome, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can approve results")
	}

	out := &ApprovalOutcome{}
	err := s.engine.Shared(func() error {
		return s.repo.WithTransaction(func(repo MatchRepository) error {
			flipped, err := repo.SetApproved(resultID, true)
			if err != nil {
				return apperr.Internal("approve result", err)
			}
			result, err := loadResult(repo, resultID)
			if err != nil {
				return err
			}
			out.Result = result
			if !flipped {
				out.AlreadyApproved = true
				return nil
			}

			outcome, reason := outcomeOf(result)
			if reason != "" {
				out.Warning = WarningStandingsSkipped
				out.WarningDetail = reason
				return nil
			}
			if err := standings.Record(repo.Standings(), outcome); err != nil {
				return apperr.Internal("update standings", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	logger := log.Ctx(ctx)
	switch {
	case out.AlreadyApproved:
		logger.Debug().Uint("result_id", resultID).Msg("Result already approved")
	case out.Warning != "":
		logger.Warn().Uint("result_id", resultID).Str("reason", out.WarningDetail).Msg("Result approved, standings skipped")
	default:
		logger.Info().Uint("result_id", resultID).Uint("approved_by", actor.ID).Msg("Result approved")
	}
	return out, nil
}

// UnapproveResult takes an approved result back out of the table so it can be
// edited. Unapproving an unapproved result changes nothing.
func (s *ResultService) UnapproveResult(ctx context.Context, actor common.Actor, resultID uint) (*ApprovalOutcome, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can unapprove results")
	}

	out := &ApprovalOutcome{}
	err := s.engine.Shared(func() error {
		return s.repo.WithTransaction(func(repo MatchRepository) error {
			flipped, err := repo.SetApproved(resultID, false)
			if err != nil {
				return apperr.Internal("unapprove result", err)
			}
			result, err := loadResult(repo, resultID)
			if err != nil {
				return err
			}
			out.Result = result
			if !flipped {
				return nil
			}
			return reverseApproved(repo, result, out)
		})
	})
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Uint("result_id", resultID).Uint("unapproved_by", actor.ID).Msg("Result unapproved")
	return out, nil
}

// DeleteResult removes a result, reversing its table contribution first when
// it was approved.
func (s *ResultService) DeleteResult(ctx context.Context, actor common.Actor, resultID uint) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("only admins can delete results")
	}

	err := s.engine.Shared(func() error {
		return s.repo.WithTransaction(func(repo MatchRepository) error {
			result, err := loadResult(repo, resultID)
			if err != nil {
				return err
			}
			if result.Approved {
				if err := reverseApproved(repo, result, &ApprovalOutcome{}); err != nil {
					return err
				}
			}
			if err := repo.DeleteResult(resultID); err != nil {
				return apperr.Internal("delete result", err)
			}
			if err := repo.SetMatchStatus(result.MatchID, StatusMatchScheduled); err != nil {
				return apperr.Internal("reopen match", err)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	log.Ctx(ctx).Info().Uint("result_id", resultID).Uint("deleted_by", actor.ID).Msg("Result deleted")
	return nil
}

func (s *ResultService) ListResults(filter ResultFilter) ([]Result, error) {
	results, err := s.repo.GetResults(filter)
	if err != nil {
		return nil, apperr.Internal("list results", err)
	}
	return results, nil
}

func (s *ResultService) GetResult(id uint) (*Result, error) {
	return loadResult(s.repo, id)
}

// reverseApproved subtracts a result that was counted. Results whose approval
// skipped the table are skipped here too.
func reverseApproved(repo MatchRepository, result *Result, out *ApprovalOutcome) error {
	outcome, reason := outcomeOf(result)
	if reason != "" {
		out.Warning = WarningStandingsSkipped
		out.WarningDetail = reason
		return nil
	}
	if err := standings.Reverse(repo.Standings(), outcome); err != nil {
		return apperr.Internal("reverse standings", err)
	}
	return nil
}

// outcomeOf builds the table input for a result, or explains why there is none.
func outcomeOf(result *Result) (standings.Outcome, string) {
	if result.Match == nil {
		return standings.Outcome{}, "match not found for result"
	}
	if result.HomeScore == nil || result.AwayScore == nil {
		return standings.Outcome{}, "result has no score"
	}
	o := standings.Outcome{
		HomeTeamID: result.Match.HomeTeamID,
		AwayTeamID: result.Match.AwayTeamID,
		HomeGoals:  *result.HomeScore,
		AwayGoals:  *result.AwayScore,
	}
	if err := o.Validate(); err != nil {
		return standings.Outcome{}, apperr.Message(err)
	}
	return o, ""
}

func loadResult(repo MatchRepository, id uint) (*Result, error) {
	result, err := repo.GetResultByID(id)
	if err != nil {
		return nil, apperr.Internal("load result", err)
	}
	if result == nil {
		return nil, apperr.NotFound("result %d not found", id)
	}
	return result, nil
}

// authorizeOfficial admits admins and the referee assigned to the match.
func authorizeOfficial(repo MatchRepository, actor common.Actor, match *Match) error {
	if actor.IsAdmin() {
		return nil
	}
	if match == nil {
		return apperr.NotFound("match not found for result")
	}
	referee, err := repo.Profiles().GetRefereeByUserID(actor.ID)
	if err != nil {
		return apperr.Internal("load referee profile", err)
	}
	if referee == nil || referee.ID != match.RefereeID {
		return apperr.Forbidden("you are not the referee of this match")
	}
	return nil
}

func validateScores(home, away *int) error {
	if home != nil && *home < 0 {
		return apperr.Validation("home_score cannot be negative")
	}
	if away != nil && *away < 0 {
		return apperr.Validation("away_score cannot be negative")
	}
	return nil
}
