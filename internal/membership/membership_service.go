package membership

import (
	"context"

	"github.com/MUNGAI-JOHN/lu-league/internal/apperr"
	"github.com/MUNGAI-JOHN/lu-league/internal/common"
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/team"
	"github.com/MUNGAI-JOHN/lu-league/internal/user"
	"github.com/rs/zerolog/log"
)

// MembershipService links player profiles to teams. Every mutating call made
// by a coach is scoped to the team that coach owns at write time.
type MembershipService struct {
	repo Repository
}

func NewMembershipService(repo Repository) *MembershipService {
	return &MembershipService{repo: repo}
}

// RequestMembership files a join request for the acting player. A matching
// join code approves it on the spot; anything else waits for the coach.
func (s *MembershipService) RequestMembership(ctx context.Context, actor common.Actor, req JoinRequest) (*profile.Player, error) {
	if actor.Role != user.RolePlayer {
		return nil, apperr.Forbidden("only players can request team membership")
	}
	if req.empty() {
		return nil, apperr.Validation("one of team_id, coach_id or join_code is required")
	}

	player, err := s.playerByUserID(actor.ID)
	if err != nil {
		return nil, err
	}
	if player.TeamApproval == profile.TeamApprovalApproved && player.TeamID != nil {
		return nil, apperr.Conflict("player already belongs to team %d", *player.TeamID)
	}

	target, err := s.resolveTeam(req)
	if err != nil {
		return nil, err
	}
	if target.ApprovalStatus != team.StatusApproved {
		return nil, apperr.Conflict("team %q is not approved yet", target.Name)
	}

	if code := req.normalizedCode(); code != "" {
		joined, err := s.AutoApproveByJoinCode(ctx, code, actor.ID)
		if err != nil {
			return nil, err
		}
		if joined != nil {
			return joined, nil
		}
	}

	ok, err := s.repo.RequestTeam(player.ID, target.ID, target.CoachID, req.normalizedCode())
	if err != nil {
		return nil, apperr.Internal("file membership request", err)
	}
	if !ok {
		return nil, apperr.ErrMembershipDecided
	}

	log.Ctx(ctx).Info().Uint("player_id", player.ID).Uint("team_id", target.ID).Msg("Membership requested")
	return s.playerByID(player.ID)
}

// AutoApproveByJoinCode approves the player onto the approved team holding
// joinCode. It returns nil when the code resolves to no such team.
func (s *MembershipService) AutoApproveByJoinCode(ctx context.Context, joinCode string, playerAccountID uint) (*profile.Player, error) {
	code := JoinRequest{JoinCode: joinCode}.normalizedCode()
	if code == "" {
		return nil, nil
	}
	target, err := s.repo.Teams().GetTeamByJoinCode(code)
	if err != nil {
		return nil, apperr.Internal("resolve join code", err)
	}
	if target == nil || target.ApprovalStatus != team.StatusApproved {
		return nil, nil
	}

	ok, err := s.repo.ApproveByCode(playerAccountID, target)
	if err != nil {
		return nil, apperr.Internal("approve by join code", err)
	}
	player, err := s.playerByUserID(playerAccountID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrMembershipDecided
	}

	log.Ctx(ctx).Info().Uint("player_id", player.ID).Uint("team_id", target.ID).Msg("Membership approved by join code")
	return player, nil
}

// ApproveMembership accepts a player onto teamID. A zero teamID means the
// acting coach's own team.
func (s *MembershipService) ApproveMembership(ctx context.Context, actor common.Actor, playerID, teamID uint) (*profile.Player, error) {
	coach, err := s.actingCoach(actor)
	if err != nil {
		return nil, err
	}
	if teamID == 0 {
		own, err := s.repo.Teams().GetTeamByCoachID(coach.ID)
		if err != nil {
			return nil, apperr.Internal("load team", err)
		}
		if own == nil {
			return nil, apperr.NotFound("you do not own a team")
		}
		teamID = own.ID
	}

	target, err := s.repo.Teams().GetTeamByID(teamID)
	if err != nil {
		return nil, apperr.Internal("load team", err)
	}
	if target == nil {
		return nil, apperr.NotFound("team %d not found", teamID)
	}
	if target.CoachID != coach.ID {
		return nil, apperr.Forbidden("you do not own team %d", teamID)
	}

	player, err := s.playerByID(playerID)
	if err != nil {
		return nil, err
	}
	if player.TeamID == nil {
		return nil, apperr.Conflict("player has not requested to join a team")
	}
	if *player.TeamID != teamID {
		if player.TeamApproval == profile.TeamApprovalApproved {
			return nil, apperr.ErrMembershipDecided
		}
		return nil, apperr.Forbidden("player requested a team you do not own")
	}
	if player.TeamApproval == profile.TeamApprovalApproved {
		return player, nil
	}

	ok, err := s.repo.Approve(playerID, teamID, coach.ID)
	if err != nil {
		return nil, apperr.Internal("approve membership", err)
	}
	updated, err := s.playerByID(playerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if updated.TeamApproval == profile.TeamApprovalApproved && updated.TeamID != nil && *updated.TeamID == teamID {
			return updated, nil
		}
		return nil, apperr.Forbidden("team ownership or the request changed; reload and retry")
	}

	log.Ctx(ctx).Info().Uint("player_id", playerID).Uint("team_id", teamID).Uint("coach_id", coach.ID).Msg("Membership approved")
	return updated, nil
}

// RejectMembership declines the player's request. The candidate team stays
// recorded on the player.
func (s *MembershipService) RejectMembership(ctx context.Context, actor common.Actor, playerID uint) (*profile.Player, error) {
	coach, err := s.actingCoach(actor)
	if err != nil {
		return nil, err
	}
	player, err := s.playerByID(playerID)
	if err != nil {
		return nil, err
	}
	if player.TeamID == nil {
		return nil, apperr.Conflict("player has not requested to join a team")
	}

	ok, err := s.repo.Reject(playerID, coach.ID)
	if err != nil {
		return nil, apperr.Internal("reject membership", err)
	}
	if !ok {
		return nil, apperr.Forbidden("player requested a team you do not own")
	}

	log.Ctx(ctx).Info().Uint("player_id", playerID).Uint("coach_id", coach.ID).Msg("Membership rejected")
	return s.playerByID(playerID)
}

// ListPendingMemberships lists pending requests for the coach's teams. Admins
// pass the coach profile id; coaches always see their own.
func (s *MembershipService) ListPendingMemberships(actor common.Actor, coachID uint) ([]PendingPlayer, error) {
	switch {
	case actor.IsAdmin():
		if coachID == 0 {
			return nil, apperr.Validation("coach_id is required")
		}
	case actor.Role == user.RoleCoach:
		coach, err := s.actingCoach(actor)
		if err != nil {
			return nil, err
		}
		coachID = coach.ID
	default:
		return nil, apperr.Forbidden("only coaches and admins can list membership requests")
	}

	players, err := s.repo.ListPending(coachID)
	if err != nil {
		return nil, apperr.Internal("list pending memberships", err)
	}
	return players, nil
}

// JoinAfterRegistration files the request named in a player's phase 2 form.
func (s *MembershipService) JoinAfterRegistration(ctx context.Context, actor common.Actor, details profile.PlayerDetails) (*profile.Player, error) {
	return s.RequestMembership(ctx, actor, JoinRequest{
		TeamID:   details.TeamID,
		CoachID:  details.CoachID,
		JoinCode: details.JoinCode,
	})
}

func (s *MembershipService) resolveTeam(req JoinRequest) (*team.Team, error) {
	teams := s.repo.Teams()
	var (
		target *team.Team
		err    error
	)
	switch {
	case req.normalizedCode() != "":
		target, err = teams.GetTeamByJoinCode(req.normalizedCode())
	case req.TeamID != nil:
		target, err = teams.GetTeamByID(*req.TeamID)
	default:
		target, err = teams.GetTeamByCoachID(*req.CoachID)
	}
	if err != nil {
		return nil, apperr.Internal("resolve team", err)
	}
	if target == nil {
		return nil, apperr.NotFound("team not found")
	}
	return target, nil
}

func (s *MembershipService) actingCoach(actor common.Actor) (*profile.Coach, error) {
	if actor.Role != user.RoleCoach {
		return nil, apperr.Forbidden("only coaches can decide membership requests")
	}
	coach, err := s.repo.Profiles().GetCoachByUserID(actor.ID)
	if err != nil {
		return nil, apperr.Internal("load coach profile", err)
	}
	if coach == nil {
		return nil, apperr.Forbidden("coach profile not found")
	}
	return coach, nil
}

func (s *MembershipService) playerByUserID(userID uint) (*profile.Player, error) {
	player, err := s.repo.Profiles().GetPlayerByUserID(userID)
	if err != nil {
		return nil, apperr.Internal("load player profile", err)
	}
	if player == nil {
		return nil, apperr.NotFound("player profile not found")
	}
	return player, nil
}

func (s *MembershipService) playerByID(id uint) (*profile.Player, error) {
	player, err := s.repo.Profiles().GetPlayerByID(id)
	if err != nil {
		return nil, apperr.Internal("load player profile", err)
	}
	if player == nil {
		return nil, apperr.NotFound("player %d not found", id)
	}
	return player, nil
}
