package match

import (
	"errors"
	"time"

	"github.com/MUNGAI-JOHN/lu-league/internal/profile"
	"github.com/MUNGAI-JOHN/lu-league/internal/standings"
	"github.com/MUNGAI-JOHN/lu-league/internal/team"
	"gorm.io/gorm"
)

// MatchRepository defines data operations for fixtures and their results.
type MatchRepository interface {
	CreateMatch(match *Match) error
	GetMatchByID(id uint) (*Match, error)
	FixtureExists(homeTeamID, awayTeamID uint, scheduledAt time.Time) (bool, error)
	GetMatches(filter MatchFilter) ([]Match, int64, error)
	DeleteMatch(id uint) error
	SetMatchStatus(id uint, status MatchStatus) error

	CreateResult(result *Result) error
	GetResultByID(id uint) (*Result, error)
	GetResultByMatchID(matchID uint) (*Result, error)
	GetResults(filter ResultFilter) ([]Result, error)
	// UpdatePendingResult saves result only while it is unapproved.
	UpdatePendingResult(result *Result) (bool, error)
	// SetApproved flips approved from !approved to approved and reports whether it did.
	SetApproved(id uint, approved bool) (bool, error)
	DeleteResult(id uint) error

	Teams() team.TeamRepository
	Profiles() profile.Repository
	Standings() standings.Repository
	WithTransaction(txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM.
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository.
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

func (r *GormMatchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&GormMatchRepository{db: tx})
	})
}

func (r *GormMatchRepository) Teams() team.TeamRepository {
	return team.NewTeamRepository(r.db)
}

func (r *GormMatchRepository) Profiles() profile.Repository {
	return profile.NewRepository(r.db)
}

func (r *GormMatchRepository) Standings() standings.Repository {
	return standings.NewRepository(r.db)
}

// --- Matches ---

func (r *GormMatchRepository) CreateMatch(match *Match) error {
	return r.db.Create(match).Error
}

func (r *GormMatchRepository) GetMatchByID(id uint) (*Match, error) {
	var match Match
	if err := r.db.First(&match, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &match, nil
}

func (r *GormMatchRepository) FixtureExists(homeTeamID, awayTeamID uint, scheduledAt time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&Match{}).
		Where("home_team_id = ? AND away_team_id = ? AND scheduled_at = ?", homeTeamID, awayTeamID, scheduledAt).
		Count(&count).Error
	return count > 0, err
}

func (r *GormMatchRepository) GetMatches(filter MatchFilter) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.Model(&Match{})
	if filter.TeamID != 0 {
		query = query.Where("(home_team_id = ? OR away_team_id = ?)", filter.TeamID, filter.TeamID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("scheduled_at asc, id asc").Offset(offset).Limit(filter.Limit).Find(&matches).Error; err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

func (r *GormMatchRepository) DeleteMatch(id uint) error {
	return r.db.Delete(&Match{}, id).Error
}

func (r *GormMatchRepository) SetMatchStatus(id uint, status MatchStatus) error {
	return r.db.Model(&Match{}).Where("id = ?", id).Update("status", status).Error
}

// --- Results ---

func (r *GormMatchRepository) CreateResult(result *Result) error {
	return r.db.Omit("Match").Create(result).Error
}

func (r *GormMatchRepository) GetResultByID(id uint) (*Result, error) {
	var result Result
	if err := r.db.Preload("Match").First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *GormMatchRepository) GetResultByMatchID(matchID uint) (*Result, error) {
	var result Result
	if err := r.db.Preload("Match").Where("match_id = ?", matchID).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *GormMatchRepository) GetResults(filter ResultFilter) ([]Result, error) {
	var results []Result
	query := r.db.Preload("Match")
	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}
	if filter.MatchID != 0 {
		query = query.Where("match_id = ?", filter.MatchID)
	}
	if err := query.Order("created_at desc, id desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *GormMatchRepository) UpdatePendingResult(result *Result) (bool, error) {
	res := r.db.Model(&Result{}).
		Where("id = ? AND approved = ?", result.ID, false).
		Updates(map[string]interface{}{
			"home_score":          result.HomeScore,
			"away_score":          result.AwayScore,
			"half_time_score":     result.HalfTimeScore,
			"man_of_the_match_id": result.ManOfTheMatchID,
			"notes":               result.Notes,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *GormMatchRepository) SetApproved(id uint, approved bool) (bool, error) {
	res := r.db.Model(&Result{}).
		Where("id = ? AND approved = ?", id, !approved).
		Update("approved", approved)
	return res.RowsAffected > 0, res.Error
}

func (r *GormMatchRepository) DeleteResult(id uint) error {
	return r.db.Delete(&Result{}, id).Error
}
