package team

import (
	"context"
	"errors"
	"strings"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	joinCodeAttempts = 5
)

type TeamService struct {
	repo TeamRepository
}

func NewTeamService(repo TeamRepository) *TeamService {
	return &TeamService{repo: repo}
}

// CreateTeam registers a team. A coach creates their own team, which waits
// for admin approval. An admin names the owning coach and the team is
// approved immediately.
func (s *TeamService) CreateTeam(ctx context.Context, actor common.Actor, req CreateTeamRequest) (*Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("team name is required")
	}

	team := &Team{
		Name:         name,
		Abbreviation: normalizeAbbreviation(req.Abbreviation),
		FoundedYear:  req.FoundedYear,
		City:         req.City,
		StadiumName:  req.StadiumName,
		Country:      req.Country,
		TeamLogo:     req.TeamLogo,
		CreatedBy:    actor.Role,
	}

	switch actor.Role {
	case user.RoleCoach:
		coach, err := s.repo.Profiles().GetCoachByUserID(actor.ID)
		if err != nil {
			return nil, apperr.Internal("load coach profile", err)
		}
		if coach == nil {
			return nil, apperr.Conflict("complete your coach profile before creating a team")
		}
		team.CoachID = coach.ID
		team.ApprovalStatus = StatusPending
	case user.RoleAdmin:
		if req.CoachID == nil {
			return nil, apperr.Validation("coach_id is required when an admin creates a team")
		}
		coach, err := s.repo.Profiles().GetCoachByID(*req.CoachID)
		if err != nil {
			return nil, apperr.Internal("load coach profile", err)
		}
		if coach == nil {
			return nil, apperr.NotFound("coach %d not found", *req.CoachID)
		}
		team.CoachID = coach.ID
		team.ApprovalStatus = StatusApproved
	default:
		return nil, apperr.Forbidden("only coaches and admins can create teams")
	}

	if existing, err := s.repo.GetTeamByCoachID(team.CoachID); err != nil {
		return nil, apperr.Internal("check coach team", err)
	} else if existing != nil {
		return nil, apperr.Duplicate("coach already owns team %q", existing.Name)
	}
	if existing, err := s.repo.GetTeamByName(team.Name); err != nil {
		return nil, apperr.Internal("check team name", err)
	} else if existing != nil {
		return nil, apperr.Duplicate("a team named %q already exists", team.Name)
	}

	code, err := s.uniqueJoinCode()
	if err != nil {
		return nil, err
	}
	team.JoinCode = code

	if err := s.repo.CreateTeam(team); err != nil {
		return nil, translateTeamWrite(err)
	}

	log.Ctx(ctx).Info().
		Uint("team_id", team.ID).
		Uint("coach_id", team.CoachID).
		Str("approval_status", string(team.ApprovalStatus)).
		Msg("Team created")
	return team, nil
}

func (s *TeamService) uniqueJoinCode() (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code, err := NewJoinCode()
		if err != nil {
			return "", apperr.Internal("generate join code", err)
		}
		taken, err := s.repo.JoinCodeExists(code)
		if err != nil {
			return "", apperr.Internal("check join code", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", apperr.Internal("generate join code", errors.New("no free join code after retries"))
}

// ApproveTeam admits a pending team to the league. Approving twice is a no-op.
func (s *TeamService) ApproveTeam(ctx context.Context, actor common.Actor, teamID uint) (*Team, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("only admins can approve teams")
	}
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}
	changed, err := s.repo.SetApproval(teamID, StatusApproved)
	if err != nil {
		return nil, apperr.Internal("approve team", err)
	}
	team.ApprovalStatus = StatusApproved
	if changed {
		log.Ctx(ctx).Info().Uint("team_id", teamID).Uint("approved_by", actor.ID).Msg("Team approved")
	}
	return team, nil
}

func (s *TeamService) ListTeams(filter ListFilter) ([]Team, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Status != "" && filter.Status != StatusPending && filter.Status != StatusApproved {
		return nil, 0, apperr.Validation("status must be pending or approved")
	}
	teams, total, err := s.repo.ListTeams(filter)
	if err != nil {
		return nil, 0, apperr.Internal("list teams", err)
	}
	return teams, total, nil
}

func (s *TeamService) ListPendingTeams(actor common.Actor, page, limit int) ([]Team, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperr.Forbidden("only admins can list pending teams")
	}
	return s.ListTeams(ListFilter{Status: StatusPending, Page: page, Limit: limit})
}

func (s *TeamService) GetTeam(teamID uint) (*Team, error) {
	team, err := s.repo.GetTeamByID(teamID)
	if err != nil {
		return nil, apperr.Internal("load team", err)
	}
	if team == nil {
		return nil, apperr.NotFound("team %d not found", teamID)
	}
	return team, nil
}

// UpdateTeam edits the descriptive fields of a team. Only an admin or the
// owning coach may do so.
func (s *TeamService) UpdateTeam(ctx context.Context, actor common.Actor, teamID uint, req UpdateTeamRequest) (*Team, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOwner(actor, team); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("team name cannot be empty")
		}
		if !strings.EqualFold(name, team.Name) {
			existing, err := s.repo.GetTeamByName(name)
			if err != nil {
				return nil, apperr.Internal("check team name", err)
			}
			if existing != nil && existing.ID != team.ID {
				return nil, apperr.Duplicate("a team named %q already exists", name)
			}
		}
		team.Name = name
	}
	if req.Abbreviation != nil {
		team.Abbreviation = normalizeAbbreviation(req.Abbreviation)
	}
	if req.FoundedYear != nil {
		team.FoundedYear = req.FoundedYear
	}
	if req.City != nil {
		team.City = *req.City
	}
	if req.StadiumName != nil {
		team.StadiumName = *req.StadiumName
	}
	if req.Country != nil {
		team.Country = *req.Country
	}
	if req.TeamLogo != nil {
		team.TeamLogo = *req.TeamLogo
	}

	if err := s.repo.UpdateTeam(team); err != nil {
		return nil, translateTeamWrite(err)
	}
	log.Ctx(ctx).Info().Uint("team_id", team.ID).Msg("Team updated")
	return team, nil
}

// DeleteTeam removes a team that has never been scheduled. Its players are
// released back to pending and its standing row is dropped.
func (s *TeamService) DeleteTeam(ctx context.Context, actor common.Actor, teamID uint) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("only admins can delete teams")
	}

	var released int64
	err := s.repo.WithTransaction(func(repo TeamRepository) error {
		team, err := repo.GetTeamByID(teamID)
		if err != nil {
			return apperr.Internal("load team", err)
		}
		if team == nil {
			return apperr.NotFound("team %d not found", teamID)
		}
		matches, err := repo.CountMatches(teamID)
		if err != nil {
			return apperr.Internal("count matches", err)
		}
		if matches > 0 {
			return apperr.Conflict("team %q has %d scheduled matches and cannot be deleted", team.Name, matches)
		}
		if released, err = repo.ReleasePlayers(teamID); err != nil {
			return apperr.Internal("release players", err)
		}
		if err := repo.Standings().DeleteForTeam(teamID); err != nil {
			return apperr.Internal("delete standing", err)
		}
		if err := repo.DeleteTeam(teamID); err != nil {
			return apperr.Internal("delete team", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().Uint("team_id", teamID).Int64("players_released", released).Uint("deleted_by", actor.ID).Msg("Team deleted")
	return nil
}

// MyTeam returns the team owned by the acting coach.
func (s *TeamService) MyTeam(actor common.Actor) (*Team, error) {
	if actor.Role != user.RoleCoach {
		return nil, apperr.Forbidden("only coaches own teams")
	}
	coach, err := s.coachProfile(actor)
	if err != nil {
		return nil, err
	}
	team, err := s.repo.GetTeamByCoachID(coach.ID)
	if err != nil {
		return nil, apperr.Internal("load team", err)
	}
	if team == nil {
		return nil, apperr.NotFound("you do not own a team yet")
	}
	return team, nil
}

func (s *TeamService) authorizeOwner(actor common.Actor, team *Team) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.Role != user.RoleCoach {
		return apperr.Forbidden("only admins or the team's coach can modify a team")
	}
	coach, err := s.coachProfile(actor)
	if err != nil {
		return err
	}
	if coach.ID != team.CoachID {
		return apperr.Forbidden("you do not own this team")
	}
	return nil
}

func (s *TeamService) coachProfile(actor common.Actor) (*profile.Coach, error) {
	coach, err := s.repo.Profiles().GetCoachByUserID(actor.ID)
	if err != nil {
		return nil, apperr.Internal("load coach profile", err)
	}
	if coach == nil {
		return nil, apperr.Forbidden("coach profile not found")
	}
	return coach, nil
}

func normalizeAbbreviation(abbr *string) *string {
	if abbr == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*abbr))
	if v == "" {
		return nil
	}
	return &v
}

func translateTeamWrite(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.FromDuplicate(err, "team name, abbreviation, coach or join code already in use")
	}
	return apperr.Internal("save team", err)
}
