package membership

import (
	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/team"
	"gorm.io/gorm"
)

// ownsTeam holds when the coach profile owns the team, evaluated by the
// database at write time.
const ownsTeam = "EXISTS (SELECT 1 FROM teams WHERE teams.id = ? AND teams.coach_id = ?)"

type Repository interface {
	Profiles() profile.Repository
	Teams() team.TeamRepository

	// RequestTeam files a pending request unless the player is already approved.
	RequestTeam(playerID, teamID, coachID uint, joinCode string) (bool, error)
	// ApproveByCode approves the player onto the team in one update unless the
	// player is approved on a different team.
	ApproveByCode(playerUserID uint, t *team.Team) (bool, error)
	// Approve moves the request for teamID to approved while coachID owns it.
	Approve(playerID, teamID, coachID uint) (bool, error)
	// Reject marks the player's request rejected while coachID owns its team.
	Reject(playerID, coachID uint) (bool, error)
	ListPending(coachID uint) ([]PendingPlayer, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Profiles() profile.Repository {
	return profile.NewRepository(r.db)
}

func (r *repository) Teams() team.TeamRepository {
	return team.NewTeamRepository(r.db)
}

func (r *repository) RequestTeam(playerID, teamID, coachID uint, joinCode string) (bool, error) {
	result := r.db.Model(&profile.Player{}).
		Where("id = ? AND team_approval <> ?", playerID, profile.TeamApprovalApproved).
		Updates(map[string]interface{}{
			"team_id":       teamID,
			"coach_id":      coachID,
			"join_code":     joinCode,
			"team_approval": profile.TeamApprovalPending,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) ApproveByCode(playerUserID uint, t *team.Team) (bool, error) {
	result := r.db.Model(&profile.Player{}).
		Where("user_id = ?", playerUserID).
		Where("(team_approval <> ? OR team_id = ?)", profile.TeamApprovalApproved, t.ID).
		Updates(map[string]interface{}{
			"team_id":       t.ID,
			"coach_id":      t.CoachID,
			"join_code":     t.JoinCode,
			"team_approval": profile.TeamApprovalApproved,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) Approve(playerID, teamID, coachID uint) (bool, error) {
	result := r.db.Model(&profile.Player{}).
		Where("id = ? AND team_id = ? AND team_approval <> ?", playerID, teamID, profile.TeamApprovalApproved).
		Where(ownsTeam, teamID, coachID).
		Updates(map[string]interface{}{
			"coach_id":      coachID,
			"team_approval": profile.TeamApprovalApproved,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *repository) Reject(playerID, coachID uint) (bool, error) {
	result := r.db.Model(&profile.Player{}).
		Where("id = ? AND team_id IS NOT NULL", playerID).
		Where("EXISTS (SELECT 1 FROM teams WHERE teams.id = players.team_id AND teams.coach_id = ?)", coachID).
		Update("team_approval", profile.TeamApprovalRejected)
	return result.RowsAffected > 0, result.Error
}

func (r *repository) ListPending(coachID uint) ([]PendingPlayer, error) {
	var players []PendingPlayer
	err := r.db.Model(&profile.Player{}).
		Select("players.*, users.name AS name, users.email AS email").
		Joins("JOIN teams ON teams.id = players.team_id").
		Joins("JOIN users ON users.id = players.user_id").
		Where("teams.coach_id = ? AND players.team_approval = ?", coachID, profile.TeamApprovalPending).
		Order("players.updated_at ASC, players.id ASC").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}
