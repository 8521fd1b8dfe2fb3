package team

import (
	"errors"
	"strings"

	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/standings"
	"gorm.io/gorm"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeamByName(name string) (*Team, error)
	GetTeamByCoachID(coachID uint) (*Team, error)
	GetTeamByJoinCode(code string) (*Team, error)
	JoinCodeExists(code string) (bool, error)
	ListTeams(filter ListFilter) ([]Team, int64, error)
	UpdateTeam(team *Team) error
	DeleteTeam(id uint) error
	// SetApproval moves the team to status and reports whether it changed.
	SetApproval(id uint, status ApprovalStatus) (bool, error)
	// CountMatches counts fixtures where the team plays home or away.
	CountMatches(teamID uint) (int64, error)
	// ReleasePlayers clears the membership edge of every player pointing at the team.
	ReleasePlayers(teamID uint) (int64, error)

	Profiles() profile.Repository
	Standings() standings.Repository
	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

func (r *teamRepository) findOne(query string, args ...interface{}) (*Team, error) {
	var team Team
	if err := r.db.Where(query, args...).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	return r.findOne("id = ?", id)
}

func (r *teamRepository) GetTeamByName(name string) (*Team, error) {
	return r.findOne("LOWER(name) = ?", strings.ToLower(name))
}

func (r *teamRepository) GetTeamByCoachID(coachID uint) (*Team, error) {
	return r.findOne("coach_id = ?", coachID)
}

func (r *teamRepository) GetTeamByJoinCode(code string) (*Team, error) {
	return r.findOne("join_code = ?", strings.ToUpper(code))
}

func (r *teamRepository) JoinCodeExists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&Team{}).Where("join_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *teamRepository) ListTeams(filter ListFilter) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{})
	if filter.Status != "" {
		query = query.Where("approval_status = ?", filter.Status)
	}
	if filter.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Offset(offset).Limit(filter.Limit).Order("name asc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

func (r *teamRepository) UpdateTeam(team *Team) error {
	return r.db.Save(team).Error
}

func (r *teamRepository) DeleteTeam(id uint) error {
	return r.db.Delete(&Team{}, id).Error
}

func (r *teamRepository) SetApproval(id uint, status ApprovalStatus) (bool, error) {
	result := r.db.Model(&Team{}).
		Where("id = ? AND approval_status <> ?", id, status).
		Update("approval_status", status)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *teamRepository) CountMatches(teamID uint) (int64, error) {
	var count int64
	err := r.db.Table("matches").
		Where("home_team_id = ? OR away_team_id = ?", teamID, teamID).
		Count(&count).Error
	return count, err
}

func (r *teamRepository) ReleasePlayers(teamID uint) (int64, error) {
	result := r.db.Model(&profile.Player{}).
		Where("team_id = ?", teamID).
		Updates(map[string]interface{}{
			"team_id":       nil,
			"coach_id":      nil,
			"team_approval": profile.TeamApprovalPending,
		})
	return result.RowsAffected, result.Error
}

func (r *teamRepository) Profiles() profile.Repository {
	return profile.NewRepository(r.db)
}

func (r *teamRepository) Standings() standings.Repository {
	return standings.NewRepository(r.db)
}

func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&teamRepository{db: tx})
	})
}
